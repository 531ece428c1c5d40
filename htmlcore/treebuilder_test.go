package htmlcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildDoc(t *testing.T, cfg *Configuration, input string) *Document {
	t.Helper()
	if cfg == nil {
		cfg = NewConfiguration()
	}
	doc := NewDocument(cfg)
	tz := NewTokenizer(cfg, input)
	tokens := tz.Tokenize()
	NewTreeBuilder(doc, input).Build(tokens)
	return doc
}

func TestTreeBuilder_SimpleNesting(t *testing.T) {
	doc := buildDoc(t, nil, `<div><span>hi</span></div>`)
	root := doc.RootNode()
	require.Len(t, root.Children, 1)

	div := root.Children[0]
	require.Equal(t, KindElement, div.Kind)
	require.Equal(t, "div", div.NameLower)
	require.Len(t, div.Children, 1)

	span := div.Children[0]
	require.Equal(t, "span", span.NameLower)
	require.Len(t, span.Children, 1)
	require.Equal(t, KindText, span.Children[0].Kind)
	require.Equal(t, "hi", span.Children[0].Content)

	require.NotSame(t, span, span.EndNode)
	require.Equal(t, len(`<div><span>hi`), span.EndNode.OuterStart, "span's end node is its </span>")
	require.NotSame(t, div, div.EndNode)
	require.Equal(t, len(`<div><span>hi</span>`), div.EndNode.OuterStart, "div's end node is its </div>")
}

func TestTreeBuilder_VoidElementNeverPushed(t *testing.T) {
	doc := buildDoc(t, nil, `<div><br>after</div>`)
	div := doc.RootNode().Children[0]
	require.Len(t, div.Children, 2)
	require.Equal(t, "br", div.Children[0].NameLower)
	require.Same(t, div.Children[0], div.Children[0].EndNode)
	require.Equal(t, 0, div.Children[0].InnerLength)
	require.Equal(t, KindText, div.Children[1].Kind)
}

func TestTreeBuilder_ImplicitCloseListItems(t *testing.T) {
	doc := buildDoc(t, nil, `<ul><li>one<li>two<li>three</ul>`)
	ul := doc.RootNode().Children[0]
	require.Len(t, ul.Children, 3)
	for i, want := range []string{"one", "two", "three"} {
		li := ul.Children[i]
		require.Equal(t, "li", li.NameLower)
		require.Len(t, li.Children, 1)
		require.Equal(t, want, li.Children[0].Content)
		require.Same(t, li, li.EndNode, "implicitly closed li is its own end node")
	}
}

func TestTreeBuilder_ParagraphClosesBeforeBlock(t *testing.T) {
	doc := buildDoc(t, nil, `<p>one<div>two</div>`)
	root := doc.RootNode()
	require.Len(t, root.Children, 2)
	require.Equal(t, "p", root.Children[0].NameLower)
	require.Equal(t, "div", root.Children[1].NameLower)
}

func TestTreeBuilder_UnmatchedCloseTag_CheckSyntaxOff(t *testing.T) {
	cfg := NewConfiguration().Silent()
	doc := buildDoc(t, cfg, `<div>content</span></div>`)
	require.False(t, doc.HasErrors())
	require.Equal(t, 0, doc.ErrorCount())
	div := doc.RootNode().Children[0]
	require.Equal(t, "div", div.NameLower)
	require.Equal(t, len(`<div>content</span>`), div.EndNode.OuterStart, "div is closed by its own </div>")
}

func TestTreeBuilder_UnmatchedCloseTag_CheckSyntaxOn(t *testing.T) {
	cfg := NewConfiguration().Silent()
	cfg.CheckSyntax = true
	doc := buildDoc(t, cfg, `<div>content</span></div>`)
	require.True(t, doc.HasErrors())
	require.Equal(t, 1, doc.ErrorCount())
	require.Equal(t, ErrorKindTagNotOpened, doc.Errors[0].Kind)
}

func TestTreeBuilder_UnclosedElementsClosedAtEOF(t *testing.T) {
	doc := buildDoc(t, nil, `<div><span>text`)
	div := doc.RootNode().Children[0]
	span := div.Children[0]
	require.Same(t, div, div.EndNode)
	require.Same(t, span, span.EndNode)
	require.Equal(t, len(`<div><span>text`), div.OuterStart+div.OuterLength)
}

func TestTreeBuilder_DocTypeAsSentinelComment(t *testing.T) {
	doc := buildDoc(t, nil, `<!DOCTYPE html><p>x</p>`)
	root := doc.RootNode()
	require.Equal(t, KindComment, root.Children[0].Kind)
	require.Equal(t, "!html", root.Children[0].NameLower)
}

func TestTreeBuilder_WhitespaceOnlyText(t *testing.T) {
	doc := buildDoc(t, nil, "<div>   </div>")
	div := doc.RootNode().Children[0]
	require.Len(t, div.Children, 1, "whitespace-only text preserved by default")

	cfg := NewConfiguration()
	cfg.PreserveWhitespace = false
	doc2 := buildDoc(t, cfg, "<div>   </div>")
	div2 := doc2.RootNode().Children[0]
	require.Empty(t, div2.Children, "whitespace-only text dropped when PreserveWhitespace is false")
}

func TestTreeBuilder_CDataAsTextByDefault(t *testing.T) {
	doc := buildDoc(t, nil, `<div><![CDATA[raw & stuff]]></div>`)
	div := doc.RootNode().Children[0]
	require.Equal(t, KindText, div.Children[0].Kind)
	require.Equal(t, "raw & stuff", div.Children[0].Content)
}

func TestTreeBuilder_CDataAsCommentWhenConfigured(t *testing.T) {
	cfg := NewConfiguration()
	cfg.TreatCDATAAsComment = true
	doc := buildDoc(t, cfg, `<div><![CDATA[raw]]></div>`)
	div := doc.RootNode().Children[0]
	require.Equal(t, KindComment, div.Children[0].Kind)
}

func TestTreeBuilder_TableImplicitClose(t *testing.T) {
	doc := buildDoc(t, nil, `<table><tr><td>a<td>b<tr><td>c</table>`)
	table := doc.RootNode().Children[0]
	require.Len(t, table.Children, 2, "two rows")
	row1 := table.Children[0]
	require.Len(t, row1.Children, 2, "two cells in first row")
}
