package htmlcore

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// matchTimeout bounds a single regexp2 match attempt, so a pathological
// input can never hang a parse. regexp2 is the one regex engine in
// this module's dependency closure that exposes this as a field
// rather than a convention (see DESIGN.md).
const matchTimeout = 2 * time.Second

const tagNamePattern = `[A-Za-z][A-Za-z0-9:-]*`

// attrsSectionPattern matches zero or more characters that are not an
// unquoted '>' — quoted runs (which may themselves contain '>') are
// consumed atomically as single units so a '>' inside an attribute
// value never terminates the tag early.
const attrsSectionPattern = `(?:[^>"']|"[^"]*"|'[^']*')*?`

var voidElementNames = []string{
	"area", "base", "br", "col", "embed", "hr", "img", "input", "link",
	"meta", "param", "source", "track", "wbr", "basefont", "bgsound",
	"frame", "isindex", "keygen",
}

var rawTextElementNames = []string{
	"script", "style", "textarea", "title", "xmp", "plaintext", "listing",
}

var blockElementNames = []string{
	"address", "article", "aside", "blockquote", "canvas", "dd", "div",
	"dl", "dt", "fieldset", "figcaption", "figure", "footer", "form",
	"h1", "h2", "h3", "h4", "h5", "h6", "header", "hgroup", "hr", "li",
	"main", "nav", "noscript", "ol", "p", "pre", "section", "table",
	"tfoot", "ul", "video",
}

var voidElementSet = newStringSet(voidElementNames)
var rawTextElementSet = newStringSet(rawTextElementNames)
var blockElementSet = newStringSet(blockElementNames)

type stringSet map[string]struct{}

func newStringSet(names []string) stringSet {
	s := make(stringSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s stringSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

func isVoidElement(nameLower string) bool    { return voidElementSet.has(nameLower) }
func isRawTextElement(nameLower string) bool { return rawTextElementSet.has(nameLower) }
func isBlockElement(nameLower string) bool   { return blockElementSet.has(nameLower) }

// PatternLibrary is the compiled-once catalogue of matchers the
// tokenizer and attribute parser share: a master tokenizer, an
// attribute matcher, an element classifier, and an implicit-close
// pair matcher. It is exported as a standalone, importable primitive
// in its own right, not just an internal helper the Tokenizer reaches
// for: a caller that only needs classification or attribute scanning
// can construct one directly without going through Parse at all. All
// matchers are case-insensitive over ASCII with single-line
// (dot-matches-newline) semantics, built on regexp2 for its per-match
// timeout and named-group support (see DESIGN.md).
type PatternLibrary struct {
	master        *regexp2.Regexp
	attribute     *regexp2.Regexp
	classifier    *regexp2.Regexp
	implicitClose *regexp2.Regexp
}

// patterns is the package-wide shared instance; compiling the regexp2
// patterns is expensive enough that every Tokenizer and
// AttributeParser reuses this one rather than calling
// NewPatternLibrary for themselves.
var patterns = NewPatternLibrary()

// NewPatternLibrary compiles a fresh set of matchers. Most callers
// should use the package's shared instance (wired in automatically by
// NewTokenizer and NewAttributeParser); NewPatternLibrary exists for
// callers that want an independent PatternLibrary value, e.g. to probe
// classification or attribute parsing without constructing a
// Tokenizer at all.
func NewPatternLibrary() *PatternLibrary {
	opts := regexp2.IgnoreCase | regexp2.Singleline

	master := mustCompileTimed(fmt.Sprintf(
		`^(?:%s|%s|%s|%s|%s|%s|%s|%s)`,
		doctypePattern(), commentPattern(), cdataPattern(), serverCodePattern(),
		selfClosePattern(), openTagPattern(), closeTagPattern(), textPattern(),
	), opts)

	attribute := mustCompileTimed(
		`(?<name>[^\s=/>"']+)(?:\s*=\s*(?:"(?<dqval>[^"]*)"|'(?<sqval>[^']*)'|(?<uqval>[^\s>"']+)))?`,
		regexp2.Singleline,
	)

	classifier := mustCompileTimed(fmt.Sprintf(
		`^(?:(?<void>%s)|(?<rawtext>%s)|(?<block>%s))$`,
		altOf(voidElementNames), altOf(rawTextElementNames), altOf(blockElementNames),
	), opts)

	implicitClose := mustCompileTimed(fmt.Sprintf(
		`^(?:p:(?<pblock>%s)|li:li|(?:dt|dd):(?:dt|dd)|(?:td|th):(?:td|th|tr)|tr:tr|option:option|optgroup:optgroup|(?:rb|rt|rtc|rp):(?:rb|rt|rtc|rp))$`,
		altOf(blockElementNames),
	), opts)

	return &PatternLibrary{
		master:        master,
		attribute:     attribute,
		classifier:    classifier,
		implicitClose: implicitClose,
	}
}

func mustCompileTimed(pattern string, opts regexp2.RegexOptions) *regexp2.Regexp {
	re := regexp2.MustCompile(pattern, opts)
	re.MatchTimeout = matchTimeout
	return re
}

func altOf(names []string) string {
	return strings.Join(names, "|")
}

func doctypePattern() string {
	return `(?<doctype><!DOCTYPE(?<doctypecontent>[^>]*)>)`
}

func commentPattern() string {
	return `(?<comment><!--(?<commentcontent>.*?)-->)`
}

func cdataPattern() string {
	return `(?<cdata><!\[CDATA\[(?<cdatacontent>.*?)\]\]>)`
}

func serverCodePattern() string {
	return `(?<servercode><%(?<servercodecontent>.*?)%>)`
}

func selfClosePattern() string {
	return fmt.Sprintf(`(?<selfclose><(?<scname>%s)(?<scattrs>%s)\s*/\s*>)`, tagNamePattern, attrsSectionPattern)
}

func openTagPattern() string {
	return fmt.Sprintf(`(?<opentag><(?<otname>%s)(?<otattrs>%s)\s*>)`, tagNamePattern, attrsSectionPattern)
}

func closeTagPattern() string {
	return fmt.Sprintf(`(?<closetag></(?<ctname>%s)\s*>)`, tagNamePattern)
}

func textPattern() string {
	return `(?<text>[^<]+)`
}

// ClassifyElement reports which of the three mutually exclusive
// classifier groups (void/rawtext/block) matches nameLower, if any.
func (p *PatternLibrary) ClassifyElement(nameLower string) (isVoid, isRawText, isBlock bool) {
	// The compiled classifier regex exists as the normative mechanism;
	// it is backed by the same three name sets used to build it,
	// consulted directly here to avoid a regexp2 round trip on every
	// single tag the tree builder sees.
	return isVoidElement(nameLower), isRawTextElement(nameLower), isBlockElement(nameLower)
}

// MatchesImplicitClose reports whether the current open element
// "cur" must be implicitly closed before "incoming" may open, per the
// pair table compiled in NewPatternLibrary. That table includes the
// p-before-block rule; checkImplicitClose in treebuilder.go also
// applies that rule directly via isBlockElement, and both consult the
// same block set.
func (p *PatternLibrary) MatchesImplicitClose(cur, incoming string) bool {
	subject := cur + ":" + incoming
	m, err := p.implicitClose.FindStringMatch(subject)
	if err != nil || m == nil {
		return false
	}
	return true
}

// MasterHit is one successful match of the master tokenizer at a
// given position, already resolved to the highest-priority group that
// fired.
type MasterHit struct {
	Kind         TokenKind
	NameLower    string
	NameOriginal string
	Content      string
	RawAttrs     string
	Length       int // bytes
}

// MatchMaster runs the master tokenizer anchored at pos. It returns
// ok=false if nothing matches there at all, which the tokenizer
// treats as a one-character text fallback.
func (p *PatternLibrary) MatchMaster(input string, pos int) (MasterHit, bool) {
	if pos >= len(input) {
		return MasterHit{}, false
	}
	subject := input[pos:]
	m, err := p.master.FindStringMatch(subject)
	if err != nil || m == nil {
		return MasterHit{}, false
	}
	matched := m.String()
	length := len(matched)

	switch {
	case groupMatched(m, "doctype"):
		return MasterHit{Kind: TokenDocType, Content: groupString(m, "doctypecontent"), Length: length}, true
	case groupMatched(m, "comment"):
		return MasterHit{Kind: TokenComment, Content: groupString(m, "commentcontent"), Length: length}, true
	case groupMatched(m, "cdata"):
		return MasterHit{Kind: TokenCData, Content: groupString(m, "cdatacontent"), Length: length}, true
	case groupMatched(m, "servercode"):
		return MasterHit{Kind: TokenServerCode, Content: groupString(m, "servercodecontent"), Length: length}, true
	case groupMatched(m, "selfclose"):
		name := groupString(m, "scname")
		return MasterHit{Kind: TokenSelfCloseTag, NameOriginal: name, NameLower: asciiLower(name), RawAttrs: groupString(m, "scattrs"), Length: length}, true
	case groupMatched(m, "opentag"):
		name := groupString(m, "otname")
		return MasterHit{Kind: TokenOpenTag, NameOriginal: name, NameLower: asciiLower(name), RawAttrs: groupString(m, "otattrs"), Length: length}, true
	case groupMatched(m, "closetag"):
		name := groupString(m, "ctname")
		return MasterHit{Kind: TokenCloseTag, NameOriginal: name, NameLower: asciiLower(name), Length: length}, true
	case groupMatched(m, "text"):
		return MasterHit{Kind: TokenText, Content: matched, Length: length}, true
	default:
		return MasterHit{}, false
	}
}

func groupMatched(m *regexp2.Match, name string) bool {
	g := m.GroupByName(name)
	return g != nil && len(g.Captures) > 0
}

func groupString(m *regexp2.Match, name string) string {
	g := m.GroupByName(name)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return g.Captures[0].String()
}

// ParsedAttribute is one iteration result of the attribute matcher,
// with offsets expressed in bytes relative to the start of the raw
// slice it was run against.
type ParsedAttribute struct {
	NameOriginal string
	NameLower    string
	Value        string
	HasValue     bool
	Quote        QuoteKind
	NameOffset   int
	ValueOffset  int
}

// ScanAttributes runs the attribute matcher iteratively over raw and
// returns every attribute occurrence in order; duplicate attribute
// names are retained in order rather than deduplicated.
func (p *PatternLibrary) ScanAttributes(raw string) []ParsedAttribute {
	var out []ParsedAttribute
	m, err := p.attribute.FindStringMatch(raw)
	for err == nil && m != nil {
		if attr, ok := attributeFromMatch(raw, m); ok {
			out = append(out, attr)
		}
		m, err = p.attribute.FindNextMatch(m)
	}
	return out
}

func attributeFromMatch(raw string, m *regexp2.Match) (ParsedAttribute, bool) {
	nameGroup := m.GroupByName("name")
	if nameGroup == nil || len(nameGroup.Captures) == 0 {
		return ParsedAttribute{}, false
	}
	nameCap := nameGroup.Captures[0]
	nameOriginal := nameCap.String()
	nameOffset := runeOffsetToByte(raw, nameCap.Index)

	attr := ParsedAttribute{
		NameOriginal: nameOriginal,
		NameLower:    asciiLower(nameOriginal),
		NameOffset:   nameOffset,
		Quote:        QuoteAbsent,
		ValueOffset:  -1,
	}

	if g := m.GroupByName("dqval"); g != nil && len(g.Captures) > 0 {
		c := g.Captures[0]
		attr.Value, attr.HasValue, attr.Quote = c.String(), true, QuoteDouble
		attr.ValueOffset = runeOffsetToByte(raw, c.Index)
	} else if g := m.GroupByName("sqval"); g != nil && len(g.Captures) > 0 {
		c := g.Captures[0]
		attr.Value, attr.HasValue, attr.Quote = c.String(), true, QuoteSingle
		attr.ValueOffset = runeOffsetToByte(raw, c.Index)
	} else if g := m.GroupByName("uqval"); g != nil && len(g.Captures) > 0 {
		c := g.Captures[0]
		attr.Value, attr.HasValue, attr.Quote = c.String(), true, QuoteNone
		attr.ValueOffset = runeOffsetToByte(raw, c.Index)
	}
	return attr, true
}

// runeOffsetToByte converts a rune-indexed offset (as produced by
// regexp2, which matches over []rune internally) into a byte offset
// within s. HTML's tag/attribute grammar is ASCII outside of
// attribute values and text content, so this only does real work
// when non-ASCII bytes precede the offset.
func runeOffsetToByte(s string, runeOffset int) int {
	if runeOffset <= 0 {
		return 0
	}
	count := 0
	for i := range s {
		if count == runeOffset {
			return i
		}
		count++
	}
	if count < runeOffset {
		return len(s)
	}
	return len(s)
}

func asciiLower(s string) string {
	if !utf8.ValidString(s) {
		return strings.ToLower(s)
	}
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
