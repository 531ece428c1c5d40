package htmlcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewParseError_SnippetExtraction(t *testing.T) {
	cfg := NewConfiguration().Silent()
	cfg.ExtractErrorSourceText = true
	cfg.ExtractErrorSourceTextMaxLength = 10

	input := "0123456789ABCDEFGHIJ"
	err := newParseError(cfg, ErrorKindTagNotOpened, "bad tag", 10, 1, 11, input, nil)

	require.Equal(t, ErrorKindTagNotOpened, err.Kind)
	require.Equal(t, 10, err.Offset)
	require.NotEmpty(t, err.Snippet)
	require.LessOrEqual(t, len(err.Snippet), 10)
}

func TestNewParseError_NoSnippetWhenDisabled(t *testing.T) {
	cfg := NewConfiguration().Silent()
	cfg.ExtractErrorSourceText = false

	err := newParseError(cfg, ErrorKindTagNotOpened, "bad tag", 5, 1, 6, "some input text", nil)
	require.Empty(t, err.Snippet)
}

func TestParseError_ErrorString(t *testing.T) {
	err := &ParseError{
		Kind:   ErrorKindTagNotOpened,
		Reason: "closing tag </span> has no matching open tag",
		Offset: 12,
		Line:   2,
		Column: 3,
	}
	msg := err.Error()
	require.Contains(t, msg, "tag_not_opened")
	require.Contains(t, msg, "2")
	require.Contains(t, msg, "closing tag </span>")
}

func TestParseError_Unwrap(t *testing.T) {
	inner := &ParseError{Kind: ErrorKindEncodingError, Reason: "inner"}
	outer := &ParseError{Kind: ErrorKindTagNotOpened, Reason: "outer", Cause: inner}
	require.Same(t, inner, outer.Unwrap())
}
