package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText 按显示宽度做词级别换行，宽字符按两列计算。
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	lines := []string{}
	for _, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapLine(raw, width)...)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	out := []string{}
	current := ""
	currentWidth := 0
	for _, word := range strings.Fields(line) {
		w := runewidth.StringWidth(word)
		switch {
		case current == "" && w <= width:
			current, currentWidth = word, w
		case current != "" && currentWidth+1+w <= width:
			current += " " + word
			currentWidth += 1 + w
		default:
			if current != "" {
				out = append(out, current)
				current, currentWidth = "", 0
			}
			if w <= width {
				current, currentWidth = word, w
				continue
			}
			parts := breakLongWord(word, width)
			out = append(out, parts[:len(parts)-1]...)
			current = parts[len(parts)-1]
			currentWidth = runewidth.StringWidth(current)
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}

func breakLongWord(word string, width int) []string {
	out := []string{}
	var b strings.Builder
	w := 0
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if w+rw > width && w > 0 {
			out = append(out, b.String())
			b.Reset()
			w = 0
		}
		b.WriteRune(r)
		w += rw
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}
