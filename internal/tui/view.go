package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tokmakchat/internal/avatar"
	"tokmakchat/internal/panels"
	"tokmakchat/internal/tui/slash"
)

const (
	appTitle          = "TokmakChat"
	tasksLoadingLabel = "Görevler yükleniyor..."
	// avatarColumn 是机器人列的总宽度（含左右留白）。
	avatarColumn = avatar.Width + 4
	// visualizerHeight 是波形区域的行数。
	visualizerHeight = 3
)

var (
	accent         = lipgloss.Color("#3abff8")
	muted          = lipgloss.Color("#7D7A85")
	faintStyle     = lipgloss.NewStyle().Foreground(muted)
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(accent)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0B1120")).Background(accent).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	buttonStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0B1120")).Background(lipgloss.Color("#c44dff")).Padding(0, 1)
	disabledButton = lipgloss.NewStyle().Foreground(muted).Background(lipgloss.Color("#1E293B")).Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1).
			BorderForeground(accent)
)

// layout 根据终端尺寸和当前浮层计算输入框与视口的尺寸。
func (m *Model) layout() {
	width := maxInt(m.width, 40)
	height := maxInt(m.height, 12)

	fixed := 1 + 1 + 1 + m.toasts.Len() // header, hints, status line
	paneWidth := width - avatarColumn - 2

	m.textarea.SetWidth(maxInt(paneWidth-2, 10))
	chatHeight := height - fixed - (m.textarea.Height() + 2) - 2
	if popup := m.slash.View(paneWidth - 2); popup != "" {
		chatHeight -= lipgloss.Height(popup) + 2
	}
	m.chatView.Resize(maxInt(paneWidth-2, 10), maxInt(chatHeight, 3))

	// 描述、路径、文件信息、按钮各一行。
	m.pathInput.Width = maxInt(paneWidth-len(m.pathInput.Prompt)-4, 10)
	docHeight := height - fixed - 4 - 2
	if m.suggest.Visible() {
		docHeight -= lipgloss.Height(m.suggest.View())
	}
	m.docView.Resize(maxInt(paneWidth-2, 10), maxInt(docHeight, 3))

	m.taskView.Resize(maxInt(width-4, 10), maxInt(height-fixed-1-2, 3))
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return lipgloss.Place(maxInt(m.width, 40), maxInt(m.height, 12), lipgloss.Center, lipgloss.Center, modalStyle.Render(helpText()))
	}

	var body string
	switch m.active {
	case tabChat:
		body = m.viewChat()
	case tabDocument:
		body = m.viewDocument()
	case tabTasks:
		body = m.viewTasks()
	}
	parts := []string{m.renderHeader(), body, m.statusLine()}
	if toasts := m.toasts.View(m.width); toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, renderHints(m.active, m.width))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderHeader() string {
	tabs := make([]string, 0, len(tabTitles)+1)
	tabs = append(tabs, titleStyle.Render(appTitle)+" ")
	for i, title := range tabTitles {
		style := tabStyle
		if tab(i) == m.active {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(title))
	}
	if m.modelName != "" {
		tabs = append(tabs, faintStyle.Render("  "+m.modelName))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) viewChat() string {
	right := []string{renderPane("", m.chatView.View(), m.chatView.Width)}
	if popup := m.slash.View(m.chatView.Width); popup != "" {
		right = append(right, renderPane("", popup, m.chatView.Width))
	}
	right = append(right, renderPane("", m.textarea.View(), m.chatView.Width))
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderAvatar(), lipgloss.JoinVertical(lipgloss.Left, right...))
}

func (m *Model) viewDocument() string {
	info := faintStyle.Render("Henüz dosya seçilmedi.")
	if doc, ok := m.docs.File(); ok {
		info = fmt.Sprintf("%s  %s", doc.Name, faintStyle.Render(fmt.Sprintf("%s • %s", doc.MIMEType, formatSize(doc.Size()))))
	}
	analyze := disabledButton.Render(panels.AnalyzeLabel)
	if m.docs.CanAnalyze() {
		analyze = buttonStyle.Render(panels.AnalyzeLabel)
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		tabStyle.Render("Enter: "+panels.SelectLabel+" / "), analyze)

	right := []string{faintStyle.Render(panels.DocumentDescription), m.pathInput.View()}
	if m.suggest.Visible() {
		right = append(right, m.suggest.View())
	}
	right = append(right, info, buttons, renderPane("", m.docView.View(), m.docView.Width))
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderAvatar(), lipgloss.JoinVertical(lipgloss.Left, right...))
}

func (m *Model) viewTasks() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(panels.TasksTitle)+"  "+faintStyle.Render(panels.TasksDescription),
		renderPane("", m.taskView.View(), m.taskView.Width),
	)
}

// renderAvatar 绘制机器人、状态标签和波形。
func (m *Model) renderAvatar() string {
	status := m.avatarStatus()
	// 机器人灯光每 8 帧切换一次。
	robot := avatar.Render(status, m.frame/8)
	label := lipgloss.NewStyle().Foreground(status.Color()).Width(avatar.Width).Align(lipgloss.Center).Render(status.Label())
	wave := avatar.Visualizer{Width: avatar.Width, Height: visualizerHeight}.Render(m.phase, status.VisualizerActive(), status.Color())
	return lipgloss.NewStyle().Padding(0, 2).Render(lipgloss.JoinVertical(lipgloss.Left, robot, label, wave))
}

func (m *Model) statusLine() string {
	width := maxInt(m.width, 20)
	line := ""
	switch {
	case m.indicator.Active():
		line = m.indicator.Line(m.spin.View(), m.waitLabel(), width)
	case m.chat.Status() != avatar.StatusIdle:
		line = lipgloss.NewStyle().Foreground(m.chat.Status().Color()).Render("● " + m.chat.Status().Label())
	}
	voice := "kapalı"
	if m.chat.SpeakReplies() {
		voice = "açık"
	}
	right := faintStyle.Render("Sesli yanıt: " + voice)
	gap := width - lipgloss.Width(line) - lipgloss.Width(right)
	if gap < 1 {
		return line
	}
	return line + strings.Repeat(" ", gap) + right
}

func (m *Model) waitLabel() string {
	switch {
	case m.chat.Thinking():
		return avatar.StatusThinking.Label()
	case m.docs.Loading():
		return avatar.StatusAnalyzing.Label()
	default:
		return tasksLoadingLabel
	}
}

func renderPane(title string, body string, width int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#5E6472")).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(width + 2)
	}
	if strings.TrimSpace(title) != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), body)
	}
	return style.Render(body)
}

func renderHints(active tab, width int) string {
	var hint string
	switch active {
	case tabChat:
		hint = "Enter gönder • Alt+Enter yeni satır • Ctrl+R mikrofon • / komutlar • Tab sekme • Ctrl+C çıkış"
	case tabDocument:
		hint = "Enter dosya seç / analiz et • ↑/↓ öneri • PgUp/PgDn kaydır • Tab sekme • Ctrl+C çıkış"
	default:
		hint = "PgUp/PgDn kaydır • Tab sekme • Ctrl+C çıkış"
	}
	return faintStyle.Render(runewidth.Truncate(hint, maxInt(width, 20), "…"))
}

func helpText() string {
	lines := []string{titleStyle.Render(appTitle + " komutları"), ""}
	for _, item := range slash.Commands() {
		lines = append(lines, fmt.Sprintf("%-10s %s", item.DisplayName(), item.Description))
	}
	lines = append(lines, "",
		"Ctrl+R     Mikrofonu aç / kapat",
		"Tab        Sekmeler arasında geçiş",
		"Alt+1..3   Sekmeye git",
		"",
		faintStyle.Render("Kapatmak için bir tuşa basın."))
	return strings.Join(lines, "\n")
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
