package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handler 处理 Submission 并通过 EventPublisher 发出事件。
type Handler interface {
	Handle(ctx context.Context, submission Submission, emit EventPublisher) error
}

// HandlerFunc 让函数实现 Handler。
type HandlerFunc func(ctx context.Context, submission Submission, emit EventPublisher) error

func (f HandlerFunc) Handle(ctx context.Context, submission Submission, emit EventPublisher) error {
	return f(ctx, submission, emit)
}

// EventPublisher 抽象 EQ，便于解耦。
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// ManagerConfig 定义事件管理器参数。
type ManagerConfig struct {
	SubmissionBuffer int
	EventBuffer      int
	// Workers 默认 3，使三个面板的请求互不阻塞。
	Workers   int
	SQLogPath string
	EQLogPath string
}

func (cfg ManagerConfig) withDefaults() ManagerConfig {
	if cfg.SubmissionBuffer == 0 {
		cfg.SubmissionBuffer = 16
	}
	if cfg.EventBuffer == 0 {
		cfg.EventBuffer = 64
	}
	if cfg.Workers == 0 {
		cfg.Workers = 3
	}
	return cfg
}

// Manager 协调 SQ/EQ：控制器把远程操作放进 SQ，worker 执行后把结果发到 EQ。
type Manager struct {
	queue    *SubmissionQueue
	events   *EventQueue
	handlers map[OperationKind]Handler
	hmu      sync.RWMutex
	workers  int

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	closers []io.Closer
}

// NewManager 创建新的事件管理器。
func NewManager(cfg ManagerConfig) *Manager {
	cfg = cfg.withDefaults()

	sqLog, sqCloser := newQueueLogger("sq", cfg.SQLogPath)
	eqLog, eqCloser := newQueueLogger("eq", cfg.EQLogPath)

	queue := NewSubmissionQueue(cfg.SubmissionBuffer)
	queue.SetLogger(sqLog)
	events := NewEventQueue(cfg.EventBuffer)
	events.SetLogger(eqLog)

	m := &Manager{
		queue:    queue,
		events:   events,
		handlers: map[OperationKind]Handler{},
		workers:  cfg.Workers,
	}
	for _, c := range []io.Closer{sqCloser, eqCloser} {
		if c != nil {
			m.closers = append(m.closers, c)
		}
	}
	return m
}

// RegisterHandler 为指定 OperationKind 注册处理器。
func (m *Manager) RegisterHandler(kind OperationKind, handler Handler) {
	if handler == nil {
		return
	}
	m.hmu.Lock()
	m.handlers[kind] = handler
	m.hmu.Unlock()
}

// Start 启动后台 worker。
func (m *Manager) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		m.cancel = cancel
		for i := 0; i < m.workers; i++ {
			m.wg.Add(1)
			go m.worker(runCtx)
		}
	})
}

// Close 停止队列和 worker，并关闭 EQ。
func (m *Manager) Close() {
	m.stopOnce.Do(func() {
		if m.cancel != nil {
			m.cancel()
		}
		m.queue.Close()
		m.wg.Wait()
		m.events.Close()
		for _, c := range m.closers {
			_ = c.Close()
		}
	})
}

// Subscribe 订阅事件。
func (m *Manager) Subscribe() <-chan Event {
	return m.events.Subscribe()
}

// Submit 将 Submission 放入 SQ，返回提交 ID。
func (m *Manager) Submit(ctx context.Context, submission Submission) (string, error) {
	if submission.Operation.Kind == "" {
		return "", errors.New("submission operation kind required")
	}
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.Timestamp.IsZero() {
		submission.Timestamp = time.Now()
	}
	if err := m.queue.Submit(ctx, submission); err != nil {
		return "", err
	}
	_ = m.events.Publish(ctx, m.event(submission, EventSubmissionAccepted, nil))
	return submission.ID, nil
}

// PublishEvent 允许外部模块向 EQ 直接发布事件。
func (m *Manager) PublishEvent(ctx context.Context, event Event) error {
	return m.events.Publish(ctx, event)
}

func (m *Manager) worker(ctx context.Context) {
	defer m.wg.Done()
	for {
		sub, err := m.queue.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, ErrSubmissionQueueClosed) {
				return
			}
			continue
		}
		m.run(ctx, sub)
	}
}

func (m *Manager) run(ctx context.Context, sub Submission) {
	_ = m.events.Publish(ctx, m.event(sub, EventOperationStarted, sub.Operation.Kind))

	m.hmu.RLock()
	handler := m.handlers[sub.Operation.Kind]
	m.hmu.RUnlock()

	var err error
	if handler == nil {
		err = fmt.Errorf("no handler registered for %s", sub.Operation.Kind)
	} else {
		err = handler.Handle(ctx, sub, m.events)
	}
	if err != nil {
		log.WithField("submission_id", sub.ID).WithError(err).Error("operation failed")
		_ = m.events.Publish(ctx, m.event(sub, EventError, err.Error()))
		_ = m.events.Publish(ctx, m.event(sub, EventOperationCompleted, OperationStatus{Status: "failed", Error: err.Error()}))
		return
	}
	_ = m.events.Publish(ctx, m.event(sub, EventOperationCompleted, OperationStatus{Status: "completed"}))
}

func (m *Manager) event(sub Submission, typ EventType, payload any) Event {
	return Event{
		Type:         typ,
		SubmissionID: sub.ID,
		Owner:        sub.Owner,
		Kind:         sub.Operation.Kind,
		Timestamp:    time.Now(),
		Payload:      payload,
		Metadata:     cloneMetadata(sub.Metadata),
	}
}

func cloneMetadata(meta map[string]string) map[string]string {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
