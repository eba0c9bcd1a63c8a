package render

import (
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"tokmakchat/internal/assistant"
	"tokmakchat/internal/chat"
)

func TestLinesToPlainStrings(t *testing.T) {
	lines := []Line{
		{Spans: []Span{
			{Text: "• ", Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))},
			{Text: "hello", Style: lipgloss.NewStyle().Bold(true)},
		}},
		Blank(),
	}
	got := LinesToPlainStrings(lines)
	want := []string{"• hello", ""}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
	for _, line := range got {
		if strings.Contains(line, "\x1b") {
			t.Fatalf("plain line contains ANSI sequences: %q", line)
		}
	}
}

func TestRenderMessagesPrefixesBySender(t *testing.T) {
	msgs := []chat.Message{
		{ID: 1, Text: "Merhaba!", Sender: chat.SenderAssistant},
		{ID: 2, Text: "Bugün hava nasıl olacak", Sender: chat.SenderUser},
	}
	got := LinesToPlainStrings(RenderMessages(msgs, 14))
	want := []string{"• Merhaba!", "", "› Bugün hava", "  nasıl olacak"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRenderSummariesAndTasks(t *testing.T) {
	summary := LinesToPlainStrings(RenderSummaries(assistant.AnalyzeDocumentOutput{
		AbstractSummary: "Genel bakış",
		ConcreteSummary: "Ayrıntılar",
	}, "Soyut", "Somut", 40))
	want := []string{"Soyut", "Genel bakış", "", "Somut", "Ayrıntılar"}
	if !slices.Equal(summary, want) {
		t.Fatalf("summary got %q want %q", summary, want)
	}

	tasks := LinesToPlainStrings(RenderTasks([]assistant.AnticipatedTask{
		{TaskDescription: "Toplantıyı hatırlat", Reasoning: "Takvimde var"},
	}, "Neden:", 40))
	want = []string{"✓ Toplantıyı hatırlat", "  Neden: Takvimde var"}
	if !slices.Equal(tasks, want) {
		t.Fatalf("tasks got %q want %q", tasks, want)
	}
}

func TestViewportSetLinesSkipsUnchanged(t *testing.T) {
	vp := NewViewport(10, 2)
	if !vp.SetLines([]string{"a", "b", "c"}) {
		t.Fatalf("first SetLines must report a change")
	}
	if !vp.AtBottom() {
		t.Fatalf("initial content should stick to bottom")
	}
	if vp.SetLines([]string{"a", "b", "c"}) {
		t.Fatalf("identical content must not report a change")
	}
	vp.Invalidate()
	if !vp.SetLines([]string{"a", "b", "c"}) {
		t.Fatalf("invalidate must force an update")
	}
}
