package htmlcore

// NodeKind classifies a DOM node.
type NodeKind int

const (
	KindDocument NodeKind = iota
	KindElement
	KindText
	KindComment
)

// Node is the default DOM node implementation. parent is a
// non-owning back reference; it is never used to make ownership
// decisions and is not exported to keep the owning direction
// (parent->child via Children) unambiguous from outside the package.
type Node struct {
	Kind      NodeKind
	NameLower string

	Children   []*Node
	Attributes []AttributeRecord // elements only

	// Content holds the text for Text/Comment nodes, and the comment
	// body for server-code and DOCTYPE nodes.
	Content string

	OuterStart  int
	OuterLength int
	InnerStart  int
	InnerLength int
	Line        int
	Column      int

	// EndNode stands in for the closing tag: for an element closed by
	// an explicit close tag it is a separate, unattached node carrying
	// that tag's positions. For self-closing, void, and
	// implicitly-closed elements EndNode is the element itself.
	EndNode *Node

	// HideInnerText flags script/style elements whose raw text body
	// should not be treated as ordinary renderable text by downstream
	// collaborators.
	HideInnerText bool

	parent *Node
}

// GetAttributeValue returns the value of the named attribute
// (case-insensitive name match, first occurrence wins), or def if
// absent or boolean.
func (n *Node) GetAttributeValue(name, def string) string {
	lower := asciiLower(name)
	for _, a := range n.Attributes {
		if a.NameLower == lower {
			if !a.HasValue {
				return def
			}
			return a.Value
		}
	}
	return def
}

// DOMSink lists the DOM operations the TreeBuilder performs. Document
// (below) is the package's implementation of it. TreeBuilder and Parse
// take a *Document, not a DOMSink, so another type implementing
// DOMSink cannot be passed to them.
type DOMSink interface {
	CreateNode(kind NodeKind, offset int) *Node
	SetName(n *Node, nameLower string)
	AppendChild(parent, child *Node)
	CreateAttribute(originalName, value string) AttributeRecord
	SetAttributes(n *Node, attrs []AttributeRecord)
	GetAttributeValue(n *Node, name, def string) string
	SetPositions(n *Node, outerStart, outerLength, innerStart, innerLength int)
	SetLineColumn(n *Node, line, col int)
	RootNode() *Node
}

// Document is the root DOM collaborator passed into Parse. It owns
// every Node created during a parse; the parser itself holds only
// transient borrows (the open-element stack) that do not outlive the
// call.
type Document struct {
	*Configuration

	Text   string
	root   *Node
	parsed bool

	Errors []*ParseError

	// IDIndex maps a lower-cased id attribute value to the first
	// element in document order that carries it. Populated only when
	// Configuration.UseIDAttribute is set.
	IDIndex map[string]*Node
}

// NewDocument returns a Document ready for Parse, using cfg (or
// NewConfiguration() defaults if cfg is nil).
func NewDocument(cfg *Configuration) *Document {
	if cfg == nil {
		cfg = NewConfiguration()
	}
	return &Document{
		Configuration: cfg,
		root:          &Node{Kind: KindDocument},
	}
}

// RootNode returns the document's root node.
func (d *Document) RootNode() *Node {
	return d.root
}

// CreateNode allocates a new, parentless node of the given kind,
// positioned at offset with zero length until SetPositions is called.
func (d *Document) CreateNode(kind NodeKind, offset int) *Node {
	return &Node{Kind: kind, OuterStart: offset, InnerStart: offset}
}

// SetName stores an element/node's tag name as given; callers pass
// the already-lowercased name.
func (d *Document) SetName(n *Node, nameLower string) {
	n.NameLower = nameLower
}

// AppendChild appends child to parent's child list and records the
// non-owning parent back reference.
func (d *Document) AppendChild(parent, child *Node) {
	parent.Children = append(parent.Children, child)
	child.parent = parent
}

// CreateAttribute builds a single attribute record from a raw name
// and its decoded value. The returned record has HasValue, Quote,
// NameOffset, Line and Column zeroed and ValueOffset set to -1;
// TreeBuilder fills those in from the
// tokenizer's richer per-attribute scan before the record is attached
// to a node with SetAttributes.
func (d *Document) CreateAttribute(originalName, value string) AttributeRecord {
	return AttributeRecord{
		NameOriginal: originalName,
		NameLower:    asciiLower(originalName),
		Value:        value,
		ValueOffset:  -1,
	}
}

// SetAttributes attaches an element node's complete attribute list,
// built one record at a time via CreateAttribute.
func (d *Document) SetAttributes(n *Node, attrs []AttributeRecord) {
	n.Attributes = attrs
}

// GetAttributeValue returns the value of n's named attribute
// (case-insensitive, first occurrence wins), or def if absent or
// boolean. It delegates to Node.GetAttributeValue so DOMSink callers
// and direct *Node callers see identical behavior.
func (d *Document) GetAttributeValue(n *Node, name, def string) string {
	return n.GetAttributeValue(name, def)
}

// SetPositions sets a node's four offset fields.
func (d *Document) SetPositions(n *Node, outerStart, outerLength, innerStart, innerLength int) {
	n.OuterStart = outerStart
	n.OuterLength = outerLength
	n.InnerStart = innerStart
	n.InnerLength = innerLength
}

// SetLineColumn stamps a node's source position.
func (d *Document) SetLineColumn(n *Node, line, col int) {
	n.Line = line
	n.Column = col
}

// HasErrors reports whether this document accumulated any parse errors.
func (d *Document) HasErrors() bool {
	return len(d.Errors) > 0
}

// ErrorCount returns the number of parse errors accumulated so far.
func (d *Document) ErrorCount() int {
	return len(d.Errors)
}

// AddError appends a structured parse error.
func (d *Document) AddError(kind ErrorKind, reason string, offset, line, col int, cause error) {
	d.Errors = append(d.Errors, newParseError(d.Configuration, kind, reason, offset, line, col, d.Text, cause))
}
