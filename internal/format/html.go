package format

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
)

var skippedElements = map[string]bool{
	"head":     true,
	"title":    true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "header": true, "footer": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "table": true, "blockquote": true, "pre": true, "hr": true,
}

// Converter converts email bodies and model output into plain text.
type Converter struct{}

// HTML2Text renders an HTML email body as plain text.
func (c Converter) HTML2Text(raw []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("html.Parse failed: %w", err)
	}

	var buf textBuffer
	renderNode(&buf, doc)

	return buf.String(), nil
}

func renderNode(buf *textBuffer, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		buf.writeWords(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if skippedElements[n.Data] {
			return
		}
	}

	if n.Type == html.ElementNode {
		switch {
		case n.Data == "br":
			buf.writeRaw("\n")
			return
		case n.Data == "li":
			buf.lineBreak()
			buf.writeRaw("- ")
		case blockElements[n.Data]:
			buf.paragraphBreak()
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		renderNode(buf, child)
	}

	if n.Type == html.ElementNode {
		switch {
		case n.Data == "li" || n.Data == "tr":
			buf.lineBreak()
		case n.Data == "td" || n.Data == "th":
			buf.pendingSpace = true
		case blockElements[n.Data]:
			buf.paragraphBreak()
		}
	}
}
