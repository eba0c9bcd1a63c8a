package prompts

import (
	"strings"

	"tokmakchat/internal/i18n"
)

// BuildLanguagePrompt 构造输出语言指令（默认土耳其语）。
func BuildLanguagePrompt(lang i18n.Language) string {
	display := strings.TrimSpace(lang.DisplayName())
	if display == "" {
		display = i18n.DefaultLanguage.DisplayName()
	}
	text, err := Render(PromptLanguage, Vars{"PREFERRED_LANGUAGE": display})
	if err != nil {
		return "Output language: " + display + "."
	}
	return text
}

// BuildJSONOutputInstruction 把输出 schema 包装成纯文本指令，供不支持结构化输出的线路使用。
func BuildJSONOutputInstruction(schema string) string {
	schema = strings.TrimSpace(schema)
	if schema == "" {
		return ""
	}
	text, err := Render(PromptJSONOutput, Vars{"SCHEMA": schema})
	if err != nil {
		return schema
	}
	return text
}
