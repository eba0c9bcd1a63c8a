package events

import (
	"context"
	"errors"
	"sync"

	"tokmakchat/internal/logger"
)

var (
	// ErrSubmissionQueueClosed 表示队列已关闭，无法再提交或接收。
	ErrSubmissionQueueClosed = errors.New("submission queue closed")
)

// SubmissionQueue 是一个有界的提交队列（SQ）。
type SubmissionQueue struct {
	ch        chan Submission
	done      chan struct{}
	closeOnce sync.Once
	log       *logger.LogEntry
}

// NewSubmissionQueue 创建一个新的 SubmissionQueue。
func NewSubmissionQueue(capacity int) *SubmissionQueue {
	if capacity <= 0 {
		capacity = 64
	}
	return &SubmissionQueue{
		ch:   make(chan Submission, capacity),
		done: make(chan struct{}),
		log:  logger.Named("sq"),
	}
}

// SetLogger 覆盖队列使用的 logger。
func (q *SubmissionQueue) SetLogger(entry *logger.LogEntry) {
	if entry == nil {
		return
	}
	q.log = entry
}

// Submit 将提交放入队列，队列满时等待空位或 ctx 取消。
func (q *SubmissionQueue) Submit(ctx context.Context, submission Submission) error {
	select {
	case <-q.done:
		return ErrSubmissionQueueClosed
	default:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		return ErrSubmissionQueueClosed
	case q.ch <- submission:
		q.logSubmission(submission)
		return nil
	}
}

// Receive 读取一条提交；若队列已关闭则返回 ErrSubmissionQueueClosed。
func (q *SubmissionQueue) Receive(ctx context.Context) (Submission, error) {
	select {
	case <-ctx.Done():
		return Submission{}, ctx.Err()
	case <-q.done:
		return Submission{}, ErrSubmissionQueueClosed
	case sub := <-q.ch:
		return sub, nil
	}
}

// Len 返回当前队列长度。
func (q *SubmissionQueue) Len() int {
	return len(q.ch)
}

// Close 关闭队列，停止进一步提交；未处理的提交被丢弃。
func (q *SubmissionQueue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
	})
}

func (q *SubmissionQueue) logSubmission(submission Submission) {
	if q.log == nil {
		return
	}
	fields := logger.Fields{
		"submission_id": submission.ID,
		"operation":     submission.Operation.Kind,
	}
	if submission.Owner != "" {
		fields["owner"] = submission.Owner
	}
	if payload := encodePayload(submission.Operation); payload != "" {
		fields["payload"] = payload
	}
	if len(submission.Metadata) > 0 {
		fields["metadata"] = submission.Metadata
	}
	q.log.WithFields(fields).Info("enqueued submission into SQ")
}
