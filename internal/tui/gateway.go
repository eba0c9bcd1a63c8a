package tui

import (
	"context"

	"tokmakchat/internal/assistant"
	"tokmakchat/internal/events"
)

// 提交的归属方，结果事件按 Owner 路由回对应控制器。
const (
	OwnerChat     = "chat"
	OwnerDocument = "document"
	OwnerTasks    = "tasks"
)

// Submitter 抽象 SQ 提交能力，*events.Manager 满足该接口。
type Submitter interface {
	Submit(ctx context.Context, submission events.Submission) (string, error)
}

// Gateway 把控制器的请求转成带归属方的 SQ 提交，返回提交 ID。
type Gateway struct {
	ctx       context.Context
	submitter Submitter
}

func NewGateway(ctx context.Context, submitter Submitter) *Gateway {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Gateway{ctx: ctx, submitter: submitter}
}

func (g *Gateway) RequestConverse(in assistant.ConverseInput) (string, error) {
	return g.submitter.Submit(g.ctx, events.ConverseSubmission(OwnerChat, in))
}

func (g *Gateway) RequestAnalyzeDocument(in assistant.AnalyzeDocumentInput) (string, error) {
	return g.submitter.Submit(g.ctx, events.AnalyzeDocumentSubmission(OwnerDocument, in))
}

func (g *Gateway) RequestAnticipateTasks(in assistant.AnticipateTasksInput) (string, error) {
	return g.submitter.Submit(g.ctx, events.AnticipateTasksSubmission(OwnerTasks, in))
}
