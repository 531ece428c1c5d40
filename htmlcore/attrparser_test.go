package htmlcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttributeParser_Parse_Offsets(t *testing.T) {
	raw := ` id="main" data-x=y`
	base := 10
	p := NewAttributeParser()
	recs := p.Parse(raw, base, 3, 7)
	require.Len(t, recs, 2)

	require.Equal(t, "id", recs[0].NameLower)
	require.Equal(t, "main", recs[0].Value)
	require.True(t, recs[0].HasValue)
	require.Equal(t, QuoteDouble, recs[0].Quote)
	require.Equal(t, base+1, recs[0].NameOffset) // leading space at index 0
	require.Equal(t, 3, recs[0].Line)
	require.Equal(t, 7, recs[0].Column)

	require.Equal(t, "data-x", recs[1].NameLower)
	require.Equal(t, "y", recs[1].Value)
	require.Equal(t, QuoteNone, recs[1].Quote)
}

func TestAttributeParser_Parse_BooleanAttribute(t *testing.T) {
	p := NewAttributeParser()
	recs := p.Parse(" disabled", 0, 1, 1)
	require.Len(t, recs, 1)
	require.False(t, recs[0].HasValue)
	require.Equal(t, -1, recs[0].ValueOffset)
	require.Equal(t, QuoteAbsent, recs[0].Quote)
}

func TestAttributeParser_Parse_Empty(t *testing.T) {
	p := NewAttributeParser()
	require.Empty(t, p.Parse("", 0, 1, 1))
}
