package tui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tokmakchat/internal/search"
)

// maxDocSuggestions 是路径输入框下方最多显示的候选数。
const maxDocSuggestions = 5

var suggestionSelected = lipgloss.NewStyle().Foreground(accent).Bold(true)

// docSuggester 在工作目录中为路径输入提供模糊候选，首次进入文档页时扫描一次。
type docSuggester struct {
	workdir    string
	scanned    bool
	candidates []string
	shown      []string
	selected   int
}

func newDocSuggester(workdir string) *docSuggester {
	return &docSuggester{workdir: strings.TrimSpace(workdir), selected: -1}
}

// Scan 收集候选文件，workdir 为空或已扫描时不做任何事。
func (s *docSuggester) Scan() error {
	if s.scanned || s.workdir == "" {
		return nil
	}
	s.scanned = true
	found, err := search.FindDocuments(s.workdir, search.DefaultLimit)
	s.candidates = found
	return err
}

// Filter 按输入刷新候选并清除选中项。
func (s *docSuggester) Filter(query string) {
	s.shown = search.Match(query, s.candidates, maxDocSuggestions)
	s.selected = -1
}

func (s *docSuggester) Visible() bool { return len(s.shown) > 0 }

// Move 在候选间循环移动选中项。
func (s *docSuggester) Move(delta int) {
	n := len(s.shown)
	if n == 0 {
		return
	}
	if s.selected < 0 {
		if delta > 0 {
			s.selected = 0
		} else {
			s.selected = n - 1
		}
		return
	}
	s.selected = ((s.selected+delta)%n + n) % n
}

// Accept 返回选中候选的绝对路径并清空列表，没有选中项时 ok 为 false。
func (s *docSuggester) Accept() (string, bool) {
	if s.selected < 0 || s.selected >= len(s.shown) {
		return "", false
	}
	path := filepath.Join(s.workdir, s.shown[s.selected])
	s.shown = nil
	s.selected = -1
	return path, true
}

func (s *docSuggester) View() string {
	if len(s.shown) == 0 {
		return ""
	}
	lines := make([]string, 0, len(s.shown))
	for i, p := range s.shown {
		if i == s.selected {
			lines = append(lines, suggestionSelected.Render("› "+p))
			continue
		}
		lines = append(lines, faintStyle.Render("  "+p))
	}
	return strings.Join(lines, "\n")
}
