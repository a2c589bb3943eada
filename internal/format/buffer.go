// Package format turns email HTML and model markdown into plain text.
package format

import (
	"regexp"
	"strings"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// textBuffer accumulates plain text and keeps track of line and paragraph boundaries.
type textBuffer struct {
	sb           strings.Builder
	pendingSpace bool
}

func (b *textBuffer) endsWithBreak() bool {
	s := b.sb.String()
	return s == "" || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, " ")
}

// writeWords appends whitespace-collapsed text, remembering surrounding whitespace for the next write.
func (b *textBuffer) writeWords(s string) {
	words := strings.Fields(s)
	if len(words) == 0 {
		if s != "" {
			b.pendingSpace = true
		}
		return
	}

	if (b.pendingSpace || startsWithSpace(s)) && !b.endsWithBreak() {
		b.sb.WriteByte(' ')
	}
	b.sb.WriteString(strings.Join(words, " "))
	b.pendingSpace = endsWithSpace(s)
}

// writeRaw appends s as is.
func (b *textBuffer) writeRaw(s string) {
	b.sb.WriteString(s)
	b.pendingSpace = false
}

func (b *textBuffer) lineBreak() {
	if !strings.HasSuffix(b.sb.String(), "\n") && b.sb.Len() > 0 {
		b.sb.WriteByte('\n')
	}
	b.pendingSpace = false
}

func (b *textBuffer) paragraphBreak() {
	if b.sb.Len() == 0 {
		return
	}
	s := b.sb.String()
	switch {
	case strings.HasSuffix(s, "\n\n"):
	case strings.HasSuffix(s, "\n"):
		b.sb.WriteByte('\n')
	default:
		b.sb.WriteString("\n\n")
	}
	b.pendingSpace = false
}

func (b *textBuffer) String() string {
	lines := strings.Split(b.sb.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	out := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")

	return strings.TrimSpace(out)
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeft(s, " \t\r\n\f") != s
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRight(s, " \t\r\n\f") != s
}
