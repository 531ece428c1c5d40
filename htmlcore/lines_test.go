package htmlcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineTracker_Locate(t *testing.T) {
	src := "abc\ndef\n\nghi"
	lt := NewLineTracker(src)

	tests := []struct {
		name      string
		offset    int
		line, col int
	}{
		{"start of input", 0, 1, 1},
		{"mid first line", 2, 1, 3},
		{"start of second line", 4, 2, 1},
		{"end of second line newline", 7, 2, 4},
		{"empty third line", 8, 3, 1},
		{"fourth line", 9, 4, 1},
		{"past end clamps to last line", len(src), 4, 4},
		{"negative clamps to start", -5, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, col := lt.Locate(tt.offset)
			require.Equal(t, tt.line, line, "line")
			require.Equal(t, tt.col, col, "column")
		})
	}
}

func TestLineTracker_NoNewlines(t *testing.T) {
	lt := NewLineTracker("no newlines here")
	line, col := lt.Locate(5)
	require.Equal(t, 1, line)
	require.Equal(t, 6, col)
}
