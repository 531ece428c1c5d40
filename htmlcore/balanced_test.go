package htmlcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBalancedTagMatcher_FindFirst_Nested(t *testing.T) {
	m := NewBalancedTagMatcher("div")
	input := `prefix<div>outer<div>inner</div>tail</div>suffix`
	match, ok := m.FindFirst(input, 0)
	require.True(t, ok)
	require.Equal(t, "<div>outer<div>inner</div>tail</div>", input[match.Start:match.End])
}

func TestBalancedTagMatcher_FindFirst_NoClose(t *testing.T) {
	m := NewBalancedTagMatcher("div")
	_, ok := m.FindFirst(`<div>unterminated`, 0)
	require.False(t, ok)
}

func TestBalancedTagMatcher_FindFirst_AbsentOpen(t *testing.T) {
	m := NewBalancedTagMatcher("div")
	_, ok := m.FindFirst(`no tags here`, 0)
	require.False(t, ok)
}

func TestRawTextBodyMatcher_FindClose_Simple(t *testing.T) {
	rt := newRawTextBodyMatcher("script")
	input := `var x = 1;</script>`
	start, end, ok := rt.FindClose(input, 0)
	require.True(t, ok)
	require.Equal(t, "var x = 1;", input[:start])
	require.Equal(t, "</script>", input[start:end])
}

func TestRawTextBodyMatcher_FindClose_QuotedCloseLookalike(t *testing.T) {
	rt := newRawTextBodyMatcher("script")
	input := `var s = "</script>"; more();</script>`
	start, end, ok := rt.FindClose(input, 0)
	require.True(t, ok)
	require.Equal(t, `var s = "</script>"; more();`, input[:start])
	require.Equal(t, "</script>", input[start:end])
}

func TestRawTextBodyMatcher_FindClose_Absent(t *testing.T) {
	rt := newRawTextBodyMatcher("style")
	_, _, ok := rt.FindClose(`body { color: red; }`, 0)
	require.False(t, ok)
}

func TestLiteralFindClose(t *testing.T) {
	input := `raw body</TEXTAREA>trailer`
	start, end, ok := literalFindClose(input, 0, "textarea")
	require.True(t, ok)
	require.Equal(t, "raw body", input[:start])
	require.Equal(t, "</TEXTAREA>", input[start:end])
}
