package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tokmakchat/internal/assistant"
)

func TestSubmissionQueueSubmitReceive(t *testing.T) {
	q := NewSubmissionQueue(2)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	sub1 := Submission{ID: "s1", Operation: Operation{Kind: OperationConverse}}
	sub2 := Submission{ID: "s2", Operation: Operation{Kind: OperationAnticipateTasks}}

	if err := q.Submit(ctx, sub1); err != nil {
		t.Fatalf("submit sub1: %v", err)
	}
	if err := q.Submit(ctx, sub2); err != nil {
		t.Fatalf("submit sub2: %v", err)
	}
	if q.Len() != 2 {
		t.Fatalf("expected len 2, got %d", q.Len())
	}

	for _, want := range []string{"s1", "s2"} {
		got, err := q.Receive(ctx)
		if err != nil {
			t.Fatalf("receive %s: %v", want, err)
		}
		if got.ID != want {
			t.Fatalf("expected %s, got %s", want, got.ID)
		}
	}

	q.Close()
	if _, err := q.Receive(ctx); !errors.Is(err, ErrSubmissionQueueClosed) {
		t.Fatalf("expected ErrSubmissionQueueClosed, got %v", err)
	}
	if err := q.Submit(ctx, sub1); !errors.Is(err, ErrSubmissionQueueClosed) {
		t.Fatalf("expected ErrSubmissionQueueClosed on submit, got %v", err)
	}
}

func TestSubmissionQueueCloseUnblocksSubmit(t *testing.T) {
	q := NewSubmissionQueue(1)
	ctx := context.Background()
	if err := q.Submit(ctx, Submission{ID: "s1"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- q.Submit(ctx, Submission{ID: "s2"}) }()

	time.Sleep(20 * time.Millisecond)
	q.Close()
	select {
	case err := <-done:
		if !errors.Is(err, ErrSubmissionQueueClosed) {
			t.Fatalf("expected ErrSubmissionQueueClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("blocked submit was not released by Close")
	}
}

func TestEventQueueFanout(t *testing.T) {
	q := NewEventQueue(4)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	sub1 := q.Subscribe()
	sub2 := q.Subscribe()

	ev := Event{Type: EventOperationStarted, SubmissionID: "s", Timestamp: time.Now()}
	if err := q.Publish(ctx, ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	for i, ch := range []<-chan Event{sub1, sub2} {
		select {
		case got := <-ch:
			if got.SubmissionID != "s" {
				t.Fatalf("subscriber %d got %q", i, got.SubmissionID)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d timed out", i)
		}
	}

	q.Close()
	if _, ok := <-sub1; ok {
		t.Fatalf("expected closed channel after Close")
	}
	if err := q.Publish(ctx, ev); !errors.Is(err, ErrEventQueueClosed) {
		t.Fatalf("expected ErrEventQueueClosed, got %v", err)
	}
}

func TestEventQueueDropsNonResultEventsForSlowSubscriber(t *testing.T) {
	q := NewEventQueue(1)
	_ = q.Subscribe()
	ctx := context.Background()

	if err := q.Publish(ctx, Event{Type: EventOperationStarted}); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if err := q.Publish(ctx, Event{Type: EventOperationStarted}); !errors.Is(err, ErrEventDropped) {
		t.Fatalf("expected ErrEventDropped, got %v", err)
	}

	timeout, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	if err := q.Publish(timeout, Event{Type: EventOperationResult}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected result publish to wait for subscriber, got %v", err)
	}
}

type fakeActions struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeActions) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeActions) Converse(_ context.Context, in assistant.ConverseInput) assistant.Result[assistant.ConverseOutput] {
	f.record("converse")
	return assistant.Result[assistant.ConverseOutput]{Success: true, Data: assistant.ConverseOutput{Response: "yanıt: " + in.Query}}
}

func (f *fakeActions) AnalyzeDocument(context.Context, assistant.AnalyzeDocumentInput) assistant.Result[assistant.AnalyzeDocumentOutput] {
	f.record("analyze")
	return assistant.Result[assistant.AnalyzeDocumentOutput]{Error: assistant.ErrAnalyzeDocument}
}

func (f *fakeActions) AnticipateTasks(context.Context, assistant.AnticipateTasksInput) assistant.Result[assistant.AnticipateTasksOutput] {
	f.record("tasks")
	return assistant.Result[assistant.AnticipateTasksOutput]{Success: true, Data: assistant.AnticipateTasksOutput{}}
}

func TestManagerRunsAssistantOperations(t *testing.T) {
	m := NewManager(ManagerConfig{})
	actions := &fakeActions{}
	RegisterAssistant(m, actions)
	events := m.Subscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	m.Start(ctx)
	defer m.Close()

	id, err := m.Submit(ctx, ConverseSubmission("chat", assistant.ConverseInput{Query: "Merhaba"}))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated submission id")
	}

	var seen []EventType
	for {
		select {
		case ev := <-events:
			if ev.SubmissionID != id {
				continue
			}
			seen = append(seen, ev.Type)
			if ev.Type == EventOperationResult {
				res, ok := ev.Payload.(assistant.Result[assistant.ConverseOutput])
				if !ok {
					t.Fatalf("unexpected payload type %T", ev.Payload)
				}
				if !res.Success || res.Data.Response != "yanıt: Merhaba" {
					t.Fatalf("unexpected result: %+v", res)
				}
				if ev.Owner != "chat" {
					t.Fatalf("expected owner chat, got %q", ev.Owner)
				}
			}
			if ev.Type == EventOperationCompleted {
				status := ev.Payload.(OperationStatus)
				if status.Status != "completed" {
					t.Fatalf("unexpected status %+v", status)
				}
				want := []EventType{EventSubmissionAccepted, EventOperationStarted, EventOperationResult, EventOperationCompleted}
				if len(seen) != len(want) {
					t.Fatalf("unexpected event order %v", seen)
				}
				for i := range want {
					if seen[i] != want[i] {
						t.Fatalf("unexpected event order %v", seen)
					}
				}
				return
			}
		case <-ctx.Done():
			t.Fatalf("timed out, saw %v", seen)
		}
	}
}

func TestManagerReportsMissingHandler(t *testing.T) {
	m := NewManager(ManagerConfig{Workers: 1})
	events := m.Subscribe()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	m.Start(ctx)
	defer m.Close()

	id, err := m.Submit(ctx, AnticipateTasksSubmission("tasks", assistant.AnticipateTasksInput{}))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	for {
		select {
		case ev := <-events:
			if ev.SubmissionID == id && ev.Type == EventOperationCompleted {
				status := ev.Payload.(OperationStatus)
				if status.Status != "failed" || status.Error == "" {
					t.Fatalf("expected failed status, got %+v", status)
				}
				return
			}
		case <-ctx.Done():
			t.Fatalf("timed out waiting for completion")
		}
	}
}

func TestManagerRejectsEmptyKind(t *testing.T) {
	m := NewManager(ManagerConfig{})
	defer m.Close()
	if _, err := m.Submit(context.Background(), Submission{}); err == nil {
		t.Fatalf("expected error for empty operation kind")
	}
}

func TestBusFanoutAndClose(t *testing.T) {
	b := NewBus()
	a := b.Subscribe()
	c := b.Subscribe()
	b.Publish("transcript")
	for _, ch := range []<-chan any{a, c} {
		if got := <-ch; got != "transcript" {
			t.Fatalf("unexpected bus event %v", got)
		}
	}
	b.Close()
	if _, ok := <-a; ok {
		t.Fatalf("expected closed subscriber after Close")
	}
	b.Publish("ignored")
	if _, ok := <-b.Subscribe(); ok {
		t.Fatalf("subscribe after close should return closed channel")
	}
}
