package htmlcore

import "time"

// Tokenizer walks input left-to-right and emits an ordered token
// stream. It cannot fail on well-formed input; anything it cannot
// classify at the current position becomes a one-character Text
// token, and scanning resumes just past that character.
type Tokenizer struct {
	cfg     *Configuration
	input   string
	lines   *LineTracker
	attrs   *AttributeParser
	gapErrs []*ParseError
}

// NewTokenizer returns a Tokenizer over input using cfg's options
// (may be nil to take defaults).
func NewTokenizer(cfg *Configuration, input string) *Tokenizer {
	if cfg == nil {
		cfg = NewConfiguration()
	}
	return &Tokenizer{
		cfg:   cfg,
		input: input,
		lines: NewLineTracker(input),
		attrs: NewAttributeParser(),
	}
}

// Tokenize scans end to end: master-match at pos, build a token,
// detour into the raw-text subroutine for raw-text open tags,
// otherwise advance past the match.
func (tz *Tokenizer) Tokenize() []Token {
	var tokens []Token
	pos := 0
	for pos < len(tz.input) {
		hit, ok := tz.patterns().MatchMaster(tz.input, pos)
		if !ok || hit.Length == 0 {
			// Unclassifiable position: one-character text fallback.
			tok := tz.buildFallbackToken(pos)
			tokens = append(tokens, tok)
			pos = tok.End()
			continue
		}

		tok := tz.buildToken(hit, pos)
		tokens = append(tokens, tok)
		pos = tok.End()

		if tok.Kind == TokenOpenTag && isRawTextElement(tok.NameLower) {
			text, closeTok, newPos := tz.consumeRawText(tok)
			if text != nil {
				tokens = append(tokens, *text)
			}
			if closeTok.Kind == TokenCloseTag {
				tokens = append(tokens, closeTok)
			}
			pos = newPos
		}
	}
	tz.parseAttributesPass(tokens)
	return tokens
}

// TokenizeWithAttributes is the facade's entry point; Tokenize already
// runs the attribute pass, so this is a thin, explicitly named alias
// for callers that want to be clear attributes are included.
func (tz *Tokenizer) TokenizeWithAttributes() []Token {
	return tz.Tokenize()
}

// Errors returns parse errors accumulated while tokenizing (currently
// only matcher-timeout recoveries; unmatched-close-tag errors are
// raised later by the tree builder).
func (tz *Tokenizer) Errors() []*ParseError {
	return tz.gapErrs
}

func (tz *Tokenizer) patterns() *PatternLibrary {
	return patterns
}

func (tz *Tokenizer) buildFallbackToken(pos int) Token {
	line, col := tz.lines.Locate(pos)
	length := nextRuneLength(tz.input, pos)
	return Token{
		Kind:    TokenText,
		Content: tz.input[pos : pos+length],
		RawText: tz.input[pos : pos+length],
		Offset:  pos,
		Length:  length,
		Line:    line,
		Column:  col,
	}
}

func (tz *Tokenizer) buildToken(hit MasterHit, pos int) Token {
	line, col := tz.lines.Locate(pos)
	return Token{
		Kind:          hit.Kind,
		NameLower:     hit.NameLower,
		NameOriginal:  hit.NameOriginal,
		RawAttributes: hit.RawAttrs,
		Content:       hit.Content,
		RawText:       tz.input[pos : pos+hit.Length],
		Offset:        pos,
		Length:        hit.Length,
		Line:          line,
		Column:        col,
	}
}

// consumeRawText handles the raw-text subroutine for elements like
// script/style/textarea whose body is opaque to normal tag scanning.
// openTok is the just-emitted OpenTag token for a raw-text element
// name. It returns the text token (nil if the body was empty), the
// injected close tag token (the zero Token when the element is
// unterminated), and the position to resume tokenizing from.
func (tz *Tokenizer) consumeRawText(openTok Token) (*Token, Token, int) {
	start := openTok.End()

	rt := newRawTextBodyMatcher(openTok.NameLower)
	began := time.Now()
	closeStart, closeEnd, ok := rt.FindClose(tz.input, start)
	if !ok && time.Since(began) >= rt.MatchBudget {
		// The matcher timed out; try the literal fallback before
		// giving up.
		if cs, ce, found := literalFindClose(tz.input, start, openTok.NameLower); found {
			closeStart, closeEnd, ok = cs, ce, true
			tz.recordTimeoutFallback(start)
		}
	}

	if !ok {
		// Unterminated raw-text element: the remainder of input is
		// the text body.
		textTok := tz.textTokenOrNil(start, len(tz.input))
		return textTok, Token{}, len(tz.input)
	}

	textTok := tz.textTokenOrNil(start, closeStart)
	closeLine, closeCol := tz.lines.Locate(closeStart)
	closeTok := Token{
		Kind:         TokenCloseTag,
		NameLower:    openTok.NameLower,
		NameOriginal: openTok.NameOriginal,
		RawText:      tz.input[closeStart:closeEnd],
		Offset:       closeStart,
		Length:       closeEnd - closeStart,
		Line:         closeLine,
		Column:       closeCol,
	}
	return textTok, closeTok, closeEnd
}

func (tz *Tokenizer) textTokenOrNil(start, end int) *Token {
	if end <= start {
		return nil
	}
	line, col := tz.lines.Locate(start)
	tok := Token{
		Kind:    TokenText,
		Content: tz.input[start:end],
		RawText: tz.input[start:end],
		Offset:  start,
		Length:  end - start,
		Line:    line,
		Column:  col,
	}
	return &tok
}

func (tz *Tokenizer) recordTimeoutFallback(offset int) {
	line, col := tz.lines.Locate(offset)
	err := newParseError(tz.cfg, ErrorKindMatcherTimeout, "raw-text body matcher exceeded its time budget; fell back to literal search", offset, line, col, tz.input, nil)
	tz.gapErrs = append(tz.gapErrs, err)
	if tz.cfg != nil && tz.cfg.Log != nil {
		tz.cfg.Log.Printf("htmlcore: %s", err.Error())
	}
}

// parseAttributesPass is the tokenizer's second pass: every
// OpenTag/SelfCloseTag token gets its RawAttributes parsed into
// Attributes, with positions relative to the token's own start
// offset.
func (tz *Tokenizer) parseAttributesPass(tokens []Token) {
	for i := range tokens {
		t := &tokens[i]
		if t.Kind != TokenOpenTag && t.Kind != TokenSelfCloseTag {
			continue
		}
		if t.RawAttributes == "" {
			continue
		}
		base := t.Offset + tagPrefixLength(t) // offset where RawAttributes begins within input
		t.Attributes = tz.attrs.Parse(t.RawAttributes, base, t.Line, t.Column)
	}
}

// tagPrefixLength returns the number of bytes from the tag token's
// start to the beginning of its raw attribute slice: "<" + name for
// both OpenTag and SelfCloseTag, since both share the same grammar
// shape.
func tagPrefixLength(t *Token) int {
	return 1 + len(t.NameOriginal)
}

func nextRuneLength(s string, pos int) int {
	b := s[pos]
	switch {
	case b < 0x80:
		return 1
	case b&0xE0 == 0xC0:
		return minInt(2, len(s)-pos)
	case b&0xF0 == 0xE0:
		return minInt(3, len(s)-pos)
	case b&0xF8 == 0xF0:
		return minInt(4, len(s)-pos)
	default:
		return 1
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
