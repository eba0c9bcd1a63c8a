package slash

import (
	"sort"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// unknownCommand 是未识别命令的提示。
const unknownCommand = "Bilinmeyen komut, listeyi görmek için / yazın"

// Options 控制 Slash 弹窗的展示。
type Options struct {
	MaxLines int
}

// Input 表示当前文本与光标状态。
type Input struct {
	Value        string
	CursorColumn int
}

// ActionKind 描述按键触发后的处理类型。
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionClose
	ActionInsert
	ActionSubmitCommand
	ActionError
)

// Action 汇总 Slash 处理结果。
type Action struct {
	Kind         ActionKind
	Command      Command
	NewValue     string
	CursorColumn int
	Args         string
	Message      string
}

// State 维护 slash 弹窗的匹配与选择状态。
type State struct {
	items    []Item
	matches  []match
	selected int
	open     bool
	token    tokenInfo
	maxLines int
}

type match struct {
	item       Item
	highlights []int
	score      int
}

type tokenInfo struct {
	found  bool
	active bool
	value  string
	end    int
	args   string
}

// NewState 构造 slash 状态机。
func NewState(opts Options) *State {
	maxLines := opts.MaxLines
	if maxLines <= 0 {
		maxLines = 8
	}
	return &State{items: builtinItems(), maxLines: maxLines}
}

// Open 返回弹窗是否展示。
func (s *State) Open() bool {
	return s != nil && s.open
}

// SyncInput 根据最新文本同步过滤列表与选中项。
func (s *State) SyncInput(in Input) {
	if s == nil {
		return
	}
	s.token = locateToken(firstLine(in.Value), in.CursorColumn)
	s.open = s.token.found && s.token.active
	if !s.open {
		s.matches = nil
		return
	}
	s.matches = filterMatches(s.items, s.token.value)
	if s.selected >= len(s.matches) {
		s.selected = 0
	}
}

// ResolveSubmit 按 Enter 行为解析输入，不依赖弹窗是否打开。
func (s *State) ResolveSubmit(value string) Action {
	token := locateToken(firstLine(value), runeLen(firstLine(value)))
	if !token.found || token.value == "" {
		return Action{Kind: ActionNone}
	}
	for _, item := range s.items {
		if strings.EqualFold(item.Token(), token.value) {
			return Action{Kind: ActionSubmitCommand, Command: item.Command, Args: token.args}
		}
	}
	return Action{Kind: ActionError, Message: unknownCommand}
}

// HandleKey 处理弹窗打开时的按键，返回对应动作。
func (s *State) HandleKey(key string) (Action, bool) {
	if s == nil || !s.open {
		return Action{}, false
	}
	switch key {
	case "up", "ctrl+p":
		if len(s.matches) == 0 {
			return Action{Kind: ActionClose}, true
		}
		s.selected = (s.selected - 1 + len(s.matches)) % len(s.matches)
		return Action{Kind: ActionNone}, true
	case "down", "ctrl+n":
		if len(s.matches) == 0 {
			return Action{Kind: ActionClose}, true
		}
		s.selected = (s.selected + 1) % len(s.matches)
		return Action{Kind: ActionNone}, true
	case "esc":
		s.open = false
		return Action{Kind: ActionClose}, true
	case "tab":
		if len(s.matches) == 0 {
			return Action{Kind: ActionError, Message: unknownCommand}, true
		}
		item := s.matches[s.selected].item
		value := "/" + string(item.Command) + " " + s.token.args
		return Action{Kind: ActionInsert, NewValue: value, CursorColumn: runeLen(value)}, true
	case "enter":
		if len(s.matches) == 0 {
			return Action{Kind: ActionError, Message: unknownCommand}, true
		}
		item := s.matches[s.selected].item
		s.open = false
		if item.TakesArgs && strings.TrimSpace(s.token.args) == "" {
			value := "/" + string(item.Command) + " "
			return Action{Kind: ActionInsert, NewValue: value, CursorColumn: runeLen(value)}, true
		}
		return Action{Kind: ActionSubmitCommand, Command: item.Command, Args: s.token.args}, true
	default:
		return Action{}, false
	}
}

func filterMatches(items []Item, query string) []match {
	trimmed := strings.ToLower(strings.TrimSpace(query))
	if trimmed == "" {
		matches := make([]match, 0, len(items))
		for _, item := range items {
			matches = append(matches, match{item: item})
		}
		return matches
	}
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = strings.ToLower(item.Token())
	}
	results := fuzzy.Find(trimmed, keys)
	matches := make([]match, 0, len(results))
	for _, res := range results {
		matches = append(matches, match{
			item: items[res.Index],
			// 展示名带前导斜杠，高亮下标整体右移一位。
			highlights: shift(res.MatchedIndexes, 1),
			score:      res.Score,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score == matches[j].score {
			return matches[i].item.Token() < matches[j].item.Token()
		}
		return matches[i].score > matches[j].score
	})
	return matches
}

func shift(indexes []int, offset int) []int {
	out := make([]int, len(indexes))
	for i, idx := range indexes {
		out[i] = idx + offset
	}
	return out
}

func firstLine(value string) string {
	if idx := strings.IndexByte(value, '\n'); idx >= 0 {
		return value[:idx]
	}
	return value
}

func locateToken(line string, cursor int) tokenInfo {
	runes := []rune(line)
	if len(runes) == 0 || runes[0] != '/' {
		return tokenInfo{}
	}
	token := tokenInfo{found: true, end: len(runes)}
	for i := 1; i < len(runes); i++ {
		if unicode.IsSpace(runes[i]) {
			token.end = i
			break
		}
		if runes[i] == '/' {
			// 形如 /tmp/a.pdf 的路径不是命令。
			return tokenInfo{}
		}
	}
	token.value = string(runes[1:token.end])
	token.args = strings.TrimLeftFunc(string(runes[token.end:]), unicode.IsSpace)
	token.active = cursor <= token.end
	return token
}

func runeLen(text string) int {
	return len([]rune(text))
}
