package htmlcore

// TokenKind classifies a Token produced by the Tokenizer.
type TokenKind int

const (
	TokenOpenTag TokenKind = iota
	TokenCloseTag
	TokenSelfCloseTag
	TokenText
	TokenComment
	TokenDocType
	TokenCData
	TokenServerCode
)

func (k TokenKind) String() string {
	switch k {
	case TokenOpenTag:
		return "OpenTag"
	case TokenCloseTag:
		return "CloseTag"
	case TokenSelfCloseTag:
		return "SelfCloseTag"
	case TokenText:
		return "Text"
	case TokenComment:
		return "Comment"
	case TokenDocType:
		return "DocType"
	case TokenCData:
		return "CData"
	case TokenServerCode:
		return "ServerCode"
	default:
		return "Unknown"
	}
}

// QuoteKind records how an attribute's value was quoted on input. The
// zero value, QuoteAbsent, means the attribute had no value at all (a
// boolean attribute).
type QuoteKind int

const (
	QuoteAbsent QuoteKind = iota
	QuoteNone
	QuoteSingle
	QuoteDouble
)

// AttributeRecord is one parsed attribute.
type AttributeRecord struct {
	NameLower    string
	NameOriginal string
	Value        string
	HasValue     bool
	Quote        QuoteKind
	NameOffset   int
	ValueOffset  int // -1 when HasValue is false
	Line         int
	Column       int
}

// Token is an immutable, classified slice of input. It is owned by
// the Tokenizer and consumed by the TreeBuilder within a single parse
// call; no Token outlives the call.
type Token struct {
	Kind TokenKind

	NameLower    string // tag kinds only
	NameOriginal string // tag kinds only

	RawAttributes string            // tag kinds only, unparsed attribute slice
	Attributes    []AttributeRecord // populated by the tokenizer's attribute pass

	Content string // text/comment/cdata/doctype/servercode kinds

	RawText string // the full matched slice for this token
	Offset  int
	Length  int
	Line    int
	Column  int
}

// End returns the offset immediately past this token.
func (t Token) End() int {
	return t.Offset + t.Length
}
