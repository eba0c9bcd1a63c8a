package prompts

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed text/*
var builtinFS embed.FS

// Name 表示内置提示词的唯一标识。
type Name string

const (
	PromptConverse        Name = "converse"
	PromptAnalyzeDocument Name = "analyze-document"
	PromptAnticipateTasks Name = "anticipate-tasks"
	PromptLanguage        Name = "language"
	PromptJSONOutput      Name = "json-output"
)

var builtinFiles = map[Name]string{
	PromptConverse:        "text/converse.md",
	PromptAnalyzeDocument: "text/analyze_document.md",
	PromptAnticipateTasks: "text/anticipate_tasks.md",
	PromptLanguage:        "text/language_prompt.md",
	PromptJSONOutput:      "text/json_output.md",
}

var builtinPrompts = func() map[Name]string {
	out := make(map[Name]string, len(builtinFiles))
	for name, path := range builtinFiles {
		data, err := builtinFS.ReadFile(path)
		if err != nil {
			panic(fmt.Sprintf("load builtin prompt %q from %s: %v", name, path, err))
		}
		out[name] = strings.TrimSpace(string(data))
	}
	return out
}()

// Builtin 返回指定名称的内置提示词文本。
func Builtin(name Name) (string, bool) {
	text, ok := builtinPrompts[name]
	return text, ok
}

// Vars 是模板占位符到取值的映射，键不含花括号。
type Vars map[string]string

// Render 渲染内置提示词，{{KEY}} 形式的占位符按 vars 替换。
// 模板中有 vars 未提供的占位符时返回错误；取值本身只替换一次，不再解析。
func Render(name Name, vars Vars) (string, error) {
	text, ok := Builtin(name)
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	for _, key := range placeholders(text) {
		if _, ok := vars[key]; !ok {
			return "", fmt.Errorf("prompt %q: missing value for {{%s}}", name, key)
		}
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", strings.TrimSpace(v))
	}
	return strings.NewReplacer(pairs...).Replace(text), nil
}

// placeholders 返回模板中出现的占位符名称，按出现顺序。
func placeholders(text string) []string {
	var keys []string
	for {
		start := strings.Index(text, "{{")
		if start == -1 {
			return keys
		}
		end := strings.Index(text[start+2:], "}}")
		if end == -1 {
			return keys
		}
		keys = append(keys, text[start+2:start+2+end])
		text = text[start+2+end+2:]
	}
}
