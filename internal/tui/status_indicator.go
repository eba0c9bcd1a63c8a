package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tokmakchat/internal/tui/render"
)

// StatusIndicator 记录一次等待（思考或分析）的开始时间，渲染 spinner + 标签 + 计时。
type StatusIndicator struct {
	clock   func() time.Time
	active  bool
	started time.Time
}

func NewStatusIndicator(clock func() time.Time) *StatusIndicator {
	if clock == nil {
		clock = time.Now
	}
	return &StatusIndicator{clock: clock}
}

// Sync 根据是否仍在等待启动或停止计时；重复启动不会重置起点。
func (s *StatusIndicator) Sync(active bool) {
	if active == s.active {
		return
	}
	s.active = active
	if active {
		s.started = s.clock()
	}
}

func (s *StatusIndicator) Active() bool { return s.active }

// ElapsedSeconds 返回当前等待的秒数，未激活时为 0。
func (s *StatusIndicator) ElapsedSeconds() uint64 {
	if !s.active {
		return 0
	}
	d := s.clock().Sub(s.started)
	if d < 0 {
		return 0
	}
	return uint64(d.Seconds())
}

// Line 绘制状态行，超出宽度的部分被截断；未激活时返回空串。
func (s *StatusIndicator) Line(spin, label string, width int) string {
	if !s.active {
		return ""
	}
	spans := []render.Span{
		{Text: spin},
		{Text: " "},
		{Text: label},
		{Text: " "},
		{Text: fmt.Sprintf("(%s)", fmtElapsedCompact(s.ElapsedSeconds())), Style: lipgloss.NewStyle().Faint(true)},
	}
	lines := render.LinesToStrings([]render.Line{{Spans: clampSpans(spans, width)}})
	return lines[0]
}

// fmtElapsedCompact 将秒数格式化为友好字符串。
func fmtElapsedCompact(elapsedSecs uint64) string {
	switch {
	case elapsedSecs < 60:
		return fmt.Sprintf("%ds", elapsedSecs)
	case elapsedSecs < 3600:
		return fmt.Sprintf("%dm %02ds", elapsedSecs/60, elapsedSecs%60)
	default:
		return fmt.Sprintf("%dh %02dm %02ds", elapsedSecs/3600, (elapsedSecs%3600)/60, elapsedSecs%60)
	}
}

func clampSpans(spans []render.Span, width int) []render.Span {
	if width <= 0 {
		return nil
	}
	remaining := width
	out := make([]render.Span, 0, len(spans))
	for _, sp := range spans {
		if remaining <= 0 {
			break
		}
		tw := runewidth.StringWidth(sp.Text)
		if tw <= remaining {
			out = append(out, sp)
			remaining -= tw
			continue
		}
		if text := runewidth.Truncate(sp.Text, remaining, ""); text != "" {
			sp.Text = text
			out = append(out, sp)
		}
		remaining = 0
	}
	return out
}
