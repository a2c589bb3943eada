package format

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// StripMarkdown removes markdown markup from model output, keeping the text of every element.
func (c Converter) StripMarkdown(md string) string {
	src := []byte(md)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var buf textBuffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				value := node.Segment.Value(src)
				if _, inCode := node.Parent().(*ast.CodeSpan); !inCode {
					value = util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(value)))
				}
				buf.writeRaw(string(value))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.writeRaw("\n")
				}
			}
		case *ast.String:
			if entering {
				buf.writeRaw(string(node.Value))
			}
		case *ast.AutoLink:
			if entering {
				buf.writeRaw(string(node.Label(src)))
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				buf.paragraphBreak()
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					buf.writeRaw(string(seg.Value(src)))
				}
				buf.paragraphBreak()
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML, *ast.ThematicBreak:
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.Heading, *ast.List, *ast.Blockquote:
			buf.paragraphBreak()
		case *ast.TextBlock, *ast.ListItem:
			buf.lineBreak()
		}

		return ast.WalkContinue, nil
	})

	return buf.String()
}
