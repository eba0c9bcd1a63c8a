package tui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"tokmakchat/internal/notify"
	"tokmakchat/internal/tui/slash"
)

const (
	commandErrorTitle = "Komut"
	copyTitle         = "Panoya Kopyalandı"
	copyFailTitle     = "Kopyalanamadı"
	noReplyDesc       = "Kopyalanacak bir yanıt yok."
	clearBusyDesc     = "Yanıt beklenirken sohbet temizlenemez."
	voiceTitle        = "Sesli Yanıt"
)

// writeClipboard 在测试中可替换。
var writeClipboard = clipboard.WriteAll

func (m *Model) applySlash(action slash.Action) tea.Cmd {
	switch action.Kind {
	case slash.ActionInsert:
		m.textarea.SetValue(action.NewValue)
		m.chat.SetInput(action.NewValue)
		m.syncSlash()
	case slash.ActionError:
		m.toasts.Push(notify.Error(commandErrorTitle, action.Message))
	case slash.ActionSubmitCommand:
		m.textarea.Reset()
		m.chat.SetInput("")
		m.syncSlash()
		m.setComposerHeight()
		return m.runCommand(action.Command, strings.TrimSpace(action.Args))
	}
	return nil
}

func (m *Model) runCommand(cmd slash.Command, args string) tea.Cmd {
	m.log.WithField("command", string(cmd)).Debug("slash command")
	switch cmd {
	case slash.CommandClear:
		if !m.chat.Clear() {
			m.toasts.Push(notify.Info(commandErrorTitle, clearBusyDesc))
		}
	case slash.CommandCopy:
		m.copyLastReply()
	case slash.CommandMic:
		m.chat.ToggleMic()
	case slash.CommandVoice:
		on := !m.chat.SpeakReplies()
		m.chat.SetSpeakReplies(on)
		desc := "Yanıtlar sesli okunmayacak."
		if on {
			desc = "Yanıtlar sesli okunacak."
		}
		m.toasts.Push(notify.Info(voiceTitle, desc))
	case slash.CommandAnalyze:
		focus := m.switchTab(tabDocument)
		m.pathInput.SetValue(args)
		path := expandHome(args)
		if path == "" || m.selectDocument(path) {
			m.docs.Analyze()
		}
		return focus
	case slash.CommandTasks:
		return m.switchTab(tabTasks)
	case slash.CommandHelp:
		m.showHelp = true
	case slash.CommandQuit:
		m.quitting = true
		return tea.Quit
	}
	return nil
}

func (m *Model) copyLastReply() {
	reply, ok := m.chat.LastReply()
	if !ok || strings.TrimSpace(reply) == "" {
		m.toasts.Push(notify.Info(copyFailTitle, noReplyDesc))
		return
	}
	if err := writeClipboard(reply); err != nil {
		m.log.WithError(err).Warn("clipboard write failed")
		m.toasts.Push(notify.Error(copyFailTitle, err.Error()))
		return
	}
	m.toasts.Push(notify.Info(copyTitle, ""))
}

// expandHome 展开前导 ~/。
func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
