package htmlcore

import (
	"strings"
	"time"
)

// defaultMatchBudget bounds how long the hand-written balanced
// scanners below may spend on a single call before giving up and
// asking the caller to fall back to a literal substring search. It
// plays the same role MatchTimeout plays for the regexp2-backed
// patterns in patterns.go.
const defaultMatchBudget = 2 * time.Second

// TagMatch is one result of BalancedTagMatcher.FindFirst: the span of
// an outermost <T...> ... </T> pair, where the body may contain any
// number of correctly nested <T...>...</T> pairs.
type TagMatch struct {
	Start      int // offset of the opening tag's '<'
	OpenEnd    int // offset just past the opening tag's '>'
	BodyStart  int // == OpenEnd
	BodyEnd    int // offset of the matching close tag's '<'
	CloseStart int // == BodyEnd
	End        int // offset just past the matching close tag's '>'
}

// BalancedTagMatcher recognizes <T ...> BODY </T> where BODY may
// contain arbitrarily nested, correctly balanced <T...>...</T> pairs,
// by counting opens and closes of T with a depth counter.
//
// This hand-written scanner is deliberately not a regexp2
// balancing-group pattern: counting opens/closes over
// attacker-influenced attribute text in a hand-rolled scanner is
// easier to audit than a counting-construct regex would be; see
// DESIGN.md for the full rationale. Exposed as a standalone
// reusable primitive.
type BalancedTagMatcher struct {
	tagLower    string
	MatchBudget time.Duration
}

// NewBalancedTagMatcher returns a matcher for the given tag name
// (case-insensitive).
func NewBalancedTagMatcher(tag string) *BalancedTagMatcher {
	return &BalancedTagMatcher{tagLower: strings.ToLower(tag), MatchBudget: defaultMatchBudget}
}

// FindFirst returns the first balanced <T>...</T> pair in input at or
// after from. ok is false if no balanced pair exists, or if the
// matcher exceeded its time budget (the caller should then fall back
// to a literal search).
func (m *BalancedTagMatcher) FindFirst(input string, from int) (match TagMatch, ok bool) {
	deadline := time.Now().Add(m.MatchBudget)
	openStart, openEnd, found := findTagOpen(input, from, m.tagLower)
	if !found {
		return TagMatch{}, false
	}
	depth := 1
	pos := openEnd
	steps := 0
	for pos < len(input) {
		steps++
		if steps%4096 == 0 && time.Now().After(deadline) {
			return TagMatch{}, false
		}
		if kind, start, end, selfClose, ok := nextTagEvent(input, pos, m.tagLower); ok {
			pos = end
			switch {
			case kind == tagEventOpen && !selfClose:
				depth++
			case kind == tagEventClose:
				depth--
				if depth == 0 {
					return TagMatch{
						Start:      openStart,
						OpenEnd:    openEnd,
						BodyStart:  openEnd,
						BodyEnd:    start,
						CloseStart: start,
						End:        end,
					}, true
				}
			}
			continue
		}
		pos++
	}
	return TagMatch{}, false
}

type tagEventKind int

const (
	tagEventOpen tagEventKind = iota
	tagEventClose
)

// findTagOpen finds the first well-formed opening tag for tagLower at
// or after from, returning the offset of '<' and of the char just
// past the matching '>'.
func findTagOpen(input string, from int, tagLower string) (start, end int, ok bool) {
	pos := from
	for {
		idx := strings.IndexByte(input[pos:], '<')
		if idx < 0 {
			return 0, 0, false
		}
		start = pos + idx
		if kind, _, evEnd, _, matched := nextTagEvent(input, start, tagLower); matched && kind == tagEventOpen {
			return start, evEnd, true
		}
		pos = start + 1
	}
}

// nextTagEvent checks whether input[pos] begins an open or close tag
// for tagLower (case-insensitive), honoring word-boundary rules so
// "table" does not match a matcher for "tab". selfClose reports
// whether an open tag is also self-closing ("<t .../>") , in which
// case it never increases nesting depth.
func nextTagEvent(input string, pos int, tagLower string) (kind tagEventKind, start, end int, selfClose bool, ok bool) {
	if pos >= len(input) || input[pos] != '<' {
		return 0, 0, 0, false, false
	}
	i := pos + 1
	closing := false
	if i < len(input) && input[i] == '/' {
		closing = true
		i++
	}
	if !hasFoldedPrefix(input, i, tagLower) {
		return 0, 0, 0, false, false
	}
	i += len(tagLower)
	if i < len(input) && isNameByte(input[i]) {
		// Longer name, e.g. "tablet" when matching "table".
		return 0, 0, 0, false, false
	}
	// Scan to the tag's closing '>', honoring quoted attribute values.
	inSingle, inDouble := false, false
	for i < len(input) {
		c := input[i]
		switch {
		case inSingle:
			if c == '\'' {
				inSingle = false
			}
		case inDouble:
			if c == '"' {
				inDouble = false
			}
		case c == '\'':
			inSingle = true
		case c == '"':
			inDouble = true
		case c == '>':
			end = i + 1
			if !closing && i > pos && input[i-1] == '/' {
				selfClose = true
			}
			if closing {
				return tagEventClose, pos, end, false, true
			}
			return tagEventOpen, pos, end, selfClose, true
		}
		i++
	}
	return 0, 0, 0, false, false
}

func hasFoldedPrefix(s string, at int, lowerPrefix string) bool {
	if at+len(lowerPrefix) > len(s) {
		return false
	}
	for j := 0; j < len(lowerPrefix); j++ {
		if toLowerASCII(s[at+j]) != lowerPrefix[j] {
			return false
		}
	}
	return true
}

func isNameByte(c byte) bool {
	return c == '-' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func toLowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// rawTextBodyMatcher is the quote-aware variant of BalancedTagMatcher
// used by the tokenizer's raw-text subroutine. It additionally tracks
// single- and double-quoted string literals so that </TAG> sequences
// embedded in quoted substrings (e.g. a JS string literal inside
// <script>) are skipped; both quote tracks and the tag-depth track
// must be empty before the outer close is accepted. No escape
// processing is performed: a backslash is literal and does not
// suppress a following quote character.
type rawTextBodyMatcher struct {
	tagLower    string
	MatchBudget time.Duration
}

func newRawTextBodyMatcher(tag string) *rawTextBodyMatcher {
	return &rawTextBodyMatcher{tagLower: strings.ToLower(tag), MatchBudget: defaultMatchBudget}
}

// FindClose scans input starting at from (just past the opening tag's
// '>') for the first unquoted, depth-zero </TAG...>. ok is false on
// no match or on exceeding the time budget.
func (m *rawTextBodyMatcher) FindClose(input string, from int) (closeStart, closeEnd int, ok bool) {
	deadline := time.Now().Add(m.MatchBudget)
	depth := 0
	singleDepth, doubleDepth := 0, 0
	pos := from
	steps := 0
	for pos < len(input) {
		steps++
		if steps%4096 == 0 && time.Now().After(deadline) {
			return 0, 0, false
		}
		c := input[pos]
		if singleDepth == 0 && doubleDepth == 0 && c == '<' {
			if kind, start, end, selfClose, matched := nextTagEvent(input, pos, m.tagLower); matched {
				switch {
				case kind == tagEventOpen && !selfClose:
					depth++
					pos = end
					continue
				case kind == tagEventClose:
					if depth == 0 {
						return start, end, true
					}
					depth--
					pos = end
					continue
				}
			}
		}
		switch {
		case doubleDepth == 0 && c == '\'':
			if singleDepth == 0 {
				singleDepth = 1
			} else {
				singleDepth = 0
			}
		case singleDepth == 0 && c == '"':
			if doubleDepth == 0 {
				doubleDepth = 1
			} else {
				doubleDepth = 0
			}
		}
		pos++
	}
	return 0, 0, false
}

// literalFindClose is a plain, non-quote-aware search for the first
// "</tag" once a matcher has exceeded its time budget.
func literalFindClose(input string, from int, tagLower string) (closeStart, closeEnd int, ok bool) {
	needle := "</" + tagLower
	lower := strings.ToLower(input[from:])
	idx := strings.Index(lower, needle)
	if idx < 0 {
		return 0, 0, false
	}
	start := from + idx
	gt := strings.IndexByte(input[start:], '>')
	if gt < 0 {
		return 0, 0, false
	}
	return start, start + gt + 1, true
}
