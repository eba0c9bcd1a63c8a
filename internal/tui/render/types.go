package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Span 表示一段文本及其样式。
type Span struct {
	Text  string
	Style lipgloss.Style
}

// Line 由多个 Span 组成，可选整体样式。
type Line struct {
	Spans []Span
	Style lipgloss.Style
}

// Text 构造单 Span 的行。
func Text(text string, style lipgloss.Style) Line {
	return Line{Spans: []Span{{Text: text, Style: style}}}
}

// Blank 返回空行。
func Blank() Line {
	return Line{}
}

// LinesToStrings 将样式化的行转换为字符串列表。
func LinesToStrings(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var b strings.Builder
		for _, sp := range line.Spans {
			b.WriteString(sp.Style.Render(sp.Text))
		}
		out = append(out, line.Style.Render(b.String()))
	}
	return out
}

// LinesToPlainStrings 丢弃样式，仅保留文本。
func LinesToPlainStrings(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var b strings.Builder
		for _, sp := range line.Spans {
			b.WriteString(sp.Text)
		}
		out = append(out, b.String())
	}
	return out
}
