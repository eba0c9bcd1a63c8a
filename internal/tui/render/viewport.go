package render

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Viewport 包装 bubbles viewport：内容未变化时跳过重排，
// 滚动停在底部时追加内容会自动跟随。
type Viewport struct {
	viewport.Model
	lastLines []string
}

func NewViewport(width, height int) Viewport {
	return Viewport{Model: viewport.New(width, height)}
}

// Resize 更新宽高，宽度变化时清空缓存以便重新换行。
func (v *Viewport) Resize(width, height int) {
	if v.Width != width {
		v.lastLines = nil
	}
	v.Width = width
	v.Height = height
}

// HandleUpdate 代理 bubbles 的 Update，保持内部状态。
func (v *Viewport) HandleUpdate(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.Model, cmd = v.Model.Update(msg)
	return cmd
}

// SetLines 更新内容，返回是否有变化。
func (v *Viewport) SetLines(lines []string) bool {
	if v.lastLines != nil && slices.Equal(lines, v.lastLines) {
		return false
	}
	stickToBottom := v.AtBottom() || v.lastLines == nil
	v.lastLines = append([]string{}, lines...)
	v.SetContent(strings.Join(lines, "\n"))
	if stickToBottom {
		v.GotoBottom()
	}
	return true
}

// Invalidate 清空已缓存的行，强制下次 SetLines 重新设置内容。
func (v *Viewport) Invalidate() {
	v.lastLines = nil
}
