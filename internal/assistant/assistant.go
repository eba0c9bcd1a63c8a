// Package assistant 把三个远程提示词流程封装成无状态的请求/响应函数。
// 所有失败都折叠为 Result 信封中的固定文案，原始错误只进日志。
package assistant

import (
	"context"
	"fmt"
	"strings"

	"tokmakchat/internal/agent"
	"tokmakchat/internal/logger"
)

// 流程名称，用于日志。
const (
	FlowConverse        = "converse"
	FlowAnalyzeDocument = "analyze_document"
	FlowAnticipateTasks = "anticipate_tasks"
)

// Actions 是控制器依赖的远程操作集合。
type Actions interface {
	Converse(ctx context.Context, in ConverseInput) Result[ConverseOutput]
	AnalyzeDocument(ctx context.Context, in AnalyzeDocumentInput) Result[AnalyzeDocumentOutput]
	AnticipateTasks(ctx context.Context, in AnticipateTasksInput) Result[AnticipateTasksOutput]
}

type Options struct {
	Client agent.ModelClient
	Model  string
	// Vision 为 false 时 JPEG 文档无法分析。
	Vision bool
	LLMLog logger.LLMLogger
	Log    *logger.LogEntry
}

type Assistant struct {
	client agent.ModelClient
	model  string
	vision bool
	llm    logger.LLMLogger
	log    *logger.LogEntry
}

var _ Actions = (*Assistant)(nil)

func New(opts Options) *Assistant {
	a := &Assistant{
		client: opts.Client,
		model:  strings.TrimSpace(opts.Model),
		vision: opts.Vision,
		llm:    opts.LLMLog,
		log:    opts.Log,
	}
	if a.llm == nil {
		a.llm = logger.LLMLog
	}
	if a.log == nil {
		a.log = logger.Named("assistant")
	}
	return a
}

func (a *Assistant) complete(ctx context.Context, flow string, prompt agent.Prompt) (string, error) {
	if a.client == nil {
		return "", fmt.Errorf("%s: no model client configured", flow)
	}
	if prompt.Model == "" {
		prompt.Model = a.model
	}
	a.llm.Request(flow, prompt.Model, agent.ToLLMMessages(prompt.Messages))
	text, err := a.client.Complete(ctx, prompt)
	if err != nil {
		a.llm.Error(flow, prompt.Model, err)
		return "", err
	}
	a.llm.Response(flow, prompt.Model, text)
	return text, nil
}

// guard 把 panic 转成失败信封，保证没有异常越过边界。
func guard[T any](log *logger.LogEntry, flow, message string, out *Result[T]) {
	if r := recover(); r != nil {
		log.WithField("flow", flow).Errorf("recovered panic: %v", r)
		*out = fail[T](message)
	}
}

func (a *Assistant) failure(flow, message string, err error) {
	a.log.WithField("flow", flow).WithError(err).Error(message)
}
