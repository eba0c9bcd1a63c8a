package slash

import "strings"

// Command 表示内置斜杠命令的标识符。
type Command string

const (
	CommandClear   Command = "clear"
	CommandCopy    Command = "copy"
	CommandMic     Command = "mic"
	CommandVoice   Command = "voice"
	CommandAnalyze Command = "analyze"
	CommandTasks   Command = "tasks"
	CommandHelp    Command = "help"
	CommandQuit    Command = "quit"
)

// Item 代表弹窗中的一行条目。
type Item struct {
	Command     Command
	Description string
	// TakesArgs 为 true 时 Tab 补全后保留光标等待参数。
	TakesArgs bool
}

// Token 返回无前导斜杠的匹配键。
func (i Item) Token() string {
	return string(i.Command)
}

// DisplayName 返回带前缀斜杠的展示名称。
func (i Item) DisplayName() string {
	token := i.Token()
	if token == "" || strings.HasPrefix(token, "/") {
		return token
	}
	return "/" + token
}

func builtinItems() []Item {
	return []Item{
		{Command: CommandClear, Description: "Sohbeti temizle"},
		{Command: CommandCopy, Description: "Son yanıtı panoya kopyala"},
		{Command: CommandMic, Description: "Mikrofonu aç / kapat"},
		{Command: CommandVoice, Description: "Sesli yanıtları aç / kapat"},
		{Command: CommandAnalyze, Description: "Belge seç ve analiz et", TakesArgs: true},
		{Command: CommandTasks, Description: "Akıllı görevleri göster"},
		{Command: CommandHelp, Description: "Kısayolları göster"},
		{Command: CommandQuit, Description: "TokmakChat'ten çık"},
	}
}

// Commands 返回全部内置命令，用于帮助面板。
func Commands() []Item {
	return builtinItems()
}
