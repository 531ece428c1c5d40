package htmlcore

import "fmt"

// ErrorKind classifies a ParseError. Only ErrorKindTagNotOpened and
// ErrorKindMatcherTimeout are ever produced by this package; the rest
// are reserved for surrounding collaborators (encoding detection,
// attribute validation, character-reference decoding) but kept here
// so callers can type-switch against a single closed vocabulary.
type ErrorKind string

const (
	ErrorKindTagNotClosed    ErrorKind = "tag_not_closed"
	ErrorKindTagNotOpened    ErrorKind = "tag_not_opened"
	ErrorKindEncodingError   ErrorKind = "encoding_error"
	ErrorKindInvalidAttr     ErrorKind = "invalid_attribute"
	ErrorKindCharRefInvalid  ErrorKind = "char_ref_invalid"
	ErrorKindEndTagNotReq    ErrorKind = "end_tag_not_required"
	ErrorKindEndTagInvalid   ErrorKind = "end_tag_invalid"
	ErrorKindMatcherTimeout  ErrorKind = "matcher_timeout"
)

// ParseError is a structured, positioned parse error. It never aborts
// a parse: it is appended to Document.Errors and the tree is still
// delivered in a self-consistent state.
type ParseError struct {
	Kind    ErrorKind
	Reason  string
	Offset  int
	Line    int
	Column  int
	Snippet string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("%s at %d:%d (offset %d): %s [%s]", e.Kind, e.Line, e.Column, e.Offset, e.Reason, e.Snippet)
	}
	return fmt.Sprintf("%s at %d:%d (offset %d): %s", e.Kind, e.Line, e.Column, e.Offset, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// newParseError builds a ParseError and, if cfg requests it, attaches
// a bounded source snippet centered on offset.
func newParseError(cfg *Configuration, kind ErrorKind, reason string, offset, line, col int, input string, cause error) *ParseError {
	pe := &ParseError{
		Kind:   kind,
		Reason: reason,
		Offset: offset,
		Line:   line,
		Column: col,
		Cause:  cause,
	}
	if cfg != nil && cfg.ExtractErrorSourceText {
		pe.Snippet = sourceSnippet(input, offset, cfg.ExtractErrorSourceTextMaxLength)
	}
	return pe
}

// sourceSnippet returns a bounded window of input centered on offset.
func sourceSnippet(input string, offset, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 40
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(input) {
		offset = len(input)
	}
	half := maxLen / 2
	start := offset - half
	if start < 0 {
		start = 0
	}
	end := start + maxLen
	if end > len(input) {
		end = len(input)
		start = end - maxLen
		if start < 0 {
			start = 0
		}
	}
	return input[start:end]
}
