package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tokmakchat/internal/notify"
)

const (
	toastTTL  = 5 * time.Second
	maxToasts = 3
)

var (
	toastInfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E7EB")).Background(lipgloss.Color("#1E293B")).Padding(0, 1)
	toastErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#B91C1C")).Padding(0, 1)
)

type toast struct {
	n       notify.Notification
	expires time.Time
}

// toastStack 保存最近的提示，超过 toastTTL 后由 Expire 移除。
type toastStack struct {
	clock func() time.Time
	items []toast
}

func newToastStack(clock func() time.Time) *toastStack {
	return &toastStack{clock: clock}
}

func (s *toastStack) Push(n notify.Notification) {
	s.items = append(s.items, toast{n: n, expires: s.clock().Add(toastTTL)})
	if len(s.items) > maxToasts {
		s.items = s.items[len(s.items)-maxToasts:]
	}
}

func (s *toastStack) Expire() {
	now := s.clock()
	kept := s.items[:0]
	for _, t := range s.items {
		if now.Before(t.expires) {
			kept = append(kept, t)
		}
	}
	s.items = kept
}

func (s *toastStack) Len() int { return len(s.items) }

func (s *toastStack) View(width int) string {
	if len(s.items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(s.items))
	for _, t := range s.items {
		style := toastInfoStyle
		if t.n.Variant == notify.VariantDestructive {
			style = toastErrorStyle
		}
		text := t.n.Title
		if t.n.Description != "" {
			text += ": " + t.n.Description
		}
		text = runewidth.Truncate(text, maxInt(width-2, 1), "…")
		lines = append(lines, style.Render(text))
	}
	return strings.Join(lines, "\n")
}
