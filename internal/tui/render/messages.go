package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tokmakchat/internal/assistant"
	"tokmakchat/internal/chat"
)

var (
	userPrefixStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7DD3FC"))
	userBodyStyle        = lipgloss.NewStyle()
	assistantPrefixStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3abff8"))
	assistantBodyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E7EB"))
	headingStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c44dff"))
	taskStyle            = lipgloss.NewStyle().Bold(true)
	reasonStyle          = lipgloss.NewStyle().Faint(true)
)

// RenderMessages 将聊天记录渲染为行，消息之间空一行。
func RenderMessages(msgs []chat.Message, width int) []Line {
	out := []Line{}
	for i, msg := range msgs {
		if i > 0 {
			out = append(out, Blank())
		}
		out = append(out, messageLines(msg, width)...)
	}
	return out
}

func messageLines(msg chat.Message, width int) []Line {
	content := strings.TrimRight(msg.Text, "\n")
	body := WrapLines(content, maxInt(width-2, 1), assistantBodyStyle)
	initial := Span{Text: "• ", Style: assistantPrefixStyle}
	if msg.Sender == chat.SenderUser {
		body = WrapLines(content, maxInt(width-2, 1), userBodyStyle)
		initial = Span{Text: "› ", Style: userPrefixStyle}
	}
	return PrefixLines(body, initial, Span{Text: "  "})
}

// RenderSummaries 渲染文档分析的两段摘要。
func RenderSummaries(out assistant.AnalyzeDocumentOutput, abstractHeading, concreteHeading string, width int) []Line {
	lines := []Line{Text(abstractHeading, headingStyle)}
	lines = append(lines, WrapLines(out.AbstractSummary, width, lipgloss.Style{})...)
	lines = append(lines, Blank(), Text(concreteHeading, headingStyle))
	lines = append(lines, WrapLines(out.ConcreteSummary, width, lipgloss.Style{})...)
	return lines
}

// RenderTasks 渲染预测的任务列表，每项附带理由。
func RenderTasks(tasks []assistant.AnticipatedTask, reasonLabel string, width int) []Line {
	out := []Line{}
	for i, task := range tasks {
		if i > 0 {
			out = append(out, Blank())
		}
		desc := WrapLines(task.TaskDescription, maxInt(width-2, 1), taskStyle)
		out = append(out, PrefixLines(desc, Span{Text: "✓ ", Style: assistantPrefixStyle}, Span{Text: "  "})...)
		reason := WrapLines(reasonLabel+" "+task.Reasoning, maxInt(width-2, 1), reasonStyle)
		out = append(out, PrefixLines(reason, Span{Text: "  "}, Span{Text: "  "})...)
	}
	return out
}
