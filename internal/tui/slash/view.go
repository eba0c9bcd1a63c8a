package slash

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	nameStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#7DD3FC"))
	descStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FACC15"))
	selectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#1E293B"))
)

// View 渲染弹窗内容（不含外围边框）。
func (s *State) View(width int) string {
	if s == nil || !s.open {
		return ""
	}
	if width < 24 {
		width = 24
	}
	if len(s.matches) == 0 {
		return descStyle.Width(width).Render("eşleşme yok")
	}

	nameWidth := 10
	for _, m := range s.matches {
		if w := runewidth.StringWidth(m.item.DisplayName()); w > nameWidth {
			nameWidth = w
		}
	}
	descWidth := width - nameWidth - 2
	if descWidth < 8 {
		descWidth = 8
	}

	start, end := window(len(s.matches), s.selected, s.maxLines)
	lines := make([]string, 0, end-start)
	for idx := start; idx < end; idx++ {
		m := s.matches[idx]
		name := highlight(m.item.DisplayName(), m.highlights)
		pad := strings.Repeat(" ", nameWidth-runewidth.StringWidth(m.item.DisplayName()))
		desc := runewidth.Truncate(m.item.Description, descWidth, "…")
		line := nameStyle.Render(name) + pad + "  " + descStyle.Render(desc)
		if idx == s.selected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

// window 返回包含选中项的可见区间。
func window(total, selected, maxLines int) (int, int) {
	if total <= maxLines {
		return 0, total
	}
	start := selected - maxLines + 1
	if start < 0 {
		start = 0
	}
	return start, start + maxLines
}

func highlight(text string, indexes []int) string {
	if len(indexes) == 0 {
		return text
	}
	marked := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		marked[idx] = true
	}
	var b strings.Builder
	for i, r := range []rune(text) {
		if marked[i] {
			b.WriteString(highlightStyle.Render(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
