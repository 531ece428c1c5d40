package htmlcore

import (
	"fmt"
	"strings"
)

// TreeBuilder consumes a token stream and writes it into a Document
// through the DOMSink operations, maintaining a stack of currently-open elements rooted at the
// document node. It is a single-use, single-goroutine collaborator:
// one TreeBuilder builds exactly one document and is discarded
// afterward.
type TreeBuilder struct {
	doc   *Document
	input string
	stack []*Node
}

// NewTreeBuilder returns a TreeBuilder that will write tokens into doc.
func NewTreeBuilder(doc *Document, input string) *TreeBuilder {
	return &TreeBuilder{doc: doc, input: input}
}

// Build processes tokens in order, then closes whatever is still open
// at end of input and stamps the root node's own positions.
func (tb *TreeBuilder) Build(tokens []Token) {
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenOpenTag:
			tb.handleOpenTag(tok)
		case TokenSelfCloseTag:
			tb.handleSelfCloseTag(tok)
		case TokenCloseTag:
			tb.handleCloseTag(tok)
		case TokenText:
			tb.handleText(tok)
		case TokenComment:
			tb.handleComment(tok)
		case TokenDocType:
			tb.handleDocType(tok)
		case TokenCData:
			tb.handleCData(tok)
		case TokenServerCode:
			tb.handleServerCode(tok)
		}
	}

	eof := len(tb.input)
	for i := len(tb.stack) - 1; i >= 0; i-- {
		tb.popImplicit(tb.stack[i], eof)
	}
	tb.stack = nil

	root := tb.doc.RootNode()
	tb.doc.SetPositions(root, 0, eof, 0, eof)
}

// buildAttributes constructs a tag token's attribute list one record
// at a time through the sink's CreateAttribute, then layers in the
// quoting and position detail the tokenizer's attribute pass already
// worked out (CreateAttribute's signature only carries name/value, so
// it cannot express those on its own). A token whose raw attribute
// slice has not been parsed yet is parsed here on demand.
func (tb *TreeBuilder) buildAttributes(tok Token) []AttributeRecord {
	attrs := tok.Attributes
	if len(attrs) == 0 && tok.RawAttributes != "" {
		attrs = NewAttributeParser().Parse(tok.RawAttributes, tok.Offset+tagPrefixLength(&tok), tok.Line, tok.Column)
	}
	if len(attrs) == 0 {
		return nil
	}
	out := make([]AttributeRecord, len(attrs))
	for i, a := range attrs {
		rec := tb.doc.CreateAttribute(a.NameOriginal, a.Value)
		rec.HasValue = a.HasValue
		rec.Quote = a.Quote
		rec.NameOffset = a.NameOffset
		rec.ValueOffset = a.ValueOffset
		rec.Line = a.Line
		rec.Column = a.Column
		out[i] = rec
	}
	return out
}

func (tb *TreeBuilder) currentParent() *Node {
	if len(tb.stack) == 0 {
		return tb.doc.RootNode()
	}
	return tb.stack[len(tb.stack)-1]
}

// checkImplicitClose pops currently-open elements that the incoming
// tag name implicitly closes: first consulting the implicit-close-pair
// matcher, then falling back to the direct p-before-block rule the
// matcher already encodes, as a belt-and-suspenders check against
// pattern-construction mistakes.
func (tb *TreeBuilder) checkImplicitClose(newName string, triggerOffset int) {
	for len(tb.stack) > 0 {
		cur := tb.stack[len(tb.stack)-1]
		if patterns.MatchesImplicitClose(cur.NameLower, newName) ||
			(cur.NameLower == "p" && isBlockElement(newName)) {
			tb.popImplicit(cur, triggerOffset)
			tb.stack = tb.stack[:len(tb.stack)-1]
			continue
		}
		break
	}
}

func (tb *TreeBuilder) popImplicit(n *Node, triggerOffset int) {
	n.EndNode = n
	tb.doc.SetPositions(n, n.OuterStart, triggerOffset-n.OuterStart, n.InnerStart, triggerOffset-n.InnerStart)
}

func (tb *TreeBuilder) popExplicit(n *Node, closeTok Token) {
	end := tb.doc.CreateNode(KindElement, closeTok.Offset)
	tb.doc.SetName(end, n.NameLower)
	tb.doc.SetLineColumn(end, closeTok.Line, closeTok.Column)
	tb.doc.SetPositions(end, closeTok.Offset, closeTok.Length, closeTok.End(), 0)
	n.EndNode = end
	tb.doc.SetPositions(n, n.OuterStart, closeTok.End()-n.OuterStart, n.InnerStart, closeTok.Offset-n.InnerStart)
}

func (tb *TreeBuilder) handleOpenTag(tok Token) {
	tb.checkImplicitClose(tok.NameLower, tok.Offset)

	if isVoidElement(tok.NameLower) {
		tb.handleSelfCloseTag(tok)
		return
	}

	n := tb.doc.CreateNode(KindElement, tok.Offset)
	tb.doc.SetName(n, tok.NameLower)
	tb.doc.SetAttributes(n, tb.buildAttributes(tok))
	tb.doc.SetLineColumn(n, tok.Line, tok.Column)
	tb.doc.SetPositions(n, tok.Offset, 0, tok.End(), 0)
	if tok.NameLower == "script" || tok.NameLower == "style" {
		n.HideInnerText = true
	}
	tb.doc.AppendChild(tb.currentParent(), n)
	tb.stack = append(tb.stack, n)
}

func (tb *TreeBuilder) handleSelfCloseTag(tok Token) {
	n := tb.doc.CreateNode(KindElement, tok.Offset)
	tb.doc.SetName(n, tok.NameLower)
	tb.doc.SetAttributes(n, tb.buildAttributes(tok))
	tb.doc.SetLineColumn(n, tok.Line, tok.Column)
	tb.doc.SetPositions(n, tok.Offset, tok.Length, tok.End(), 0)
	n.EndNode = n
	tb.doc.AppendChild(tb.currentParent(), n)
}

// handleCloseTag walks the open-element stack top-down for a matching
// name. Everything above the match is implicitly closed; if nothing
// matches, the stack is left untouched ("restored") and a
// TagNotOpened error is raised only when CheckSyntax is on.
func (tb *TreeBuilder) handleCloseTag(tok Token) {
	idx := -1
	for i := len(tb.stack) - 1; i >= 0; i-- {
		if tb.stack[i].NameLower == tok.NameLower {
			idx = i
			break
		}
	}
	if idx == -1 {
		if tb.doc.CheckSyntax {
			tb.doc.AddError(ErrorKindTagNotOpened,
				fmt.Sprintf("closing tag </%s> has no matching open tag", tok.NameOriginal),
				tok.Offset, tok.Line, tok.Column, nil)
		}
		return
	}

	for i := len(tb.stack) - 1; i > idx; i-- {
		tb.popImplicit(tb.stack[i], tok.Offset)
	}
	tb.popExplicit(tb.stack[idx], tok)
	tb.stack = tb.stack[:idx]
}

func (tb *TreeBuilder) handleText(tok Token) {
	if tok.Content == "" {
		return
	}
	if isAllWhitespace(tok.Content) && !tb.doc.PreserveWhitespace {
		return
	}
	n := tb.doc.CreateNode(KindText, tok.Offset)
	n.Content = tok.Content
	tb.doc.SetLineColumn(n, tok.Line, tok.Column)
	tb.doc.SetPositions(n, tok.Offset, tok.Length, tok.Offset, tok.Length)
	tb.doc.AppendChild(tb.currentParent(), n)
}

func (tb *TreeBuilder) handleComment(tok Token) {
	n := tb.doc.CreateNode(KindComment, tok.Offset)
	n.Content = tok.Content
	tb.doc.SetLineColumn(n, tok.Line, tok.Column)
	tb.doc.SetPositions(n, tok.Offset, tok.Length, tok.Offset, tok.Length)
	tb.doc.AppendChild(tb.currentParent(), n)
}

// handleDocType stores the DOCTYPE as a Comment-kinded node whose name
// carries a leading sentinel so it never collides with a real element
// or comment name (the sentinel choice is recorded as an Open Question
// decision in DESIGN.md).
func (tb *TreeBuilder) handleDocType(tok Token) {
	n := tb.doc.CreateNode(KindComment, tok.Offset)
	tb.doc.SetName(n, "!"+strings.TrimSpace(tok.Content))
	n.Content = tok.Content
	tb.doc.SetLineColumn(n, tok.Line, tok.Column)
	tb.doc.SetPositions(n, tok.Offset, tok.Length, tok.Offset, tok.Length)
	tb.doc.AppendChild(tb.currentParent(), n)
}

func (tb *TreeBuilder) handleCData(tok Token) {
	kind := KindText
	if tb.doc.TreatCDATAAsComment {
		kind = KindComment
	}
	n := tb.doc.CreateNode(kind, tok.Offset)
	n.Content = tok.Content
	tb.doc.SetLineColumn(n, tok.Line, tok.Column)
	tb.doc.SetPositions(n, tok.Offset, tok.Length, tok.Offset, tok.Length)
	tb.doc.AppendChild(tb.currentParent(), n)
}

func (tb *TreeBuilder) handleServerCode(tok Token) {
	n := tb.doc.CreateNode(KindComment, tok.Offset)
	n.Content = tok.Content
	tb.doc.SetLineColumn(n, tok.Line, tok.Column)
	tb.doc.SetPositions(n, tok.Offset, tok.Length, tok.Offset, tok.Length)
	tb.doc.AppendChild(tb.currentParent(), n)
}

func isAllWhitespace(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			continue
		default:
			return false
		}
	}
	return true
}
