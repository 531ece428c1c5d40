package htmlcore

// AttributeParser converts a tag's raw attribute slice into an
// ordered sequence of AttributeRecord values. It is invoked from the
// tokenizer's attribute pass and from the tree builder on demand for
// tokens whose attributes have not yet been parsed.
type AttributeParser struct {
	patterns *PatternLibrary
}

// NewAttributeParser returns an AttributeParser backed by the
// package's shared Pattern Library.
func NewAttributeParser() *AttributeParser {
	return &AttributeParser{patterns: patterns}
}

// Parse parses raw (a tag's raw attribute slice) into attribute
// records. base is the raw slice's starting offset in the original
// source, used to compute absolute NameOffset/ValueOffset. line/col
// are the position of base, used to stamp every attribute record with
// its (approximate) source position.
func (p *AttributeParser) Parse(raw string, base, line, col int) []AttributeRecord {
	hits := p.patterns.ScanAttributes(raw)
	out := make([]AttributeRecord, 0, len(hits))
	for _, h := range hits {
		rec := AttributeRecord{
			NameLower:    h.NameLower,
			NameOriginal: h.NameOriginal,
			Value:        h.Value,
			HasValue:     h.HasValue,
			Quote:        h.Quote,
			NameOffset:   base + h.NameOffset,
			Line:         line,
			Column:       col,
		}
		if h.HasValue {
			rec.ValueOffset = base + h.ValueOffset
		} else {
			rec.ValueOffset = -1
		}
		out = append(out, rec)
	}
	return out
}
