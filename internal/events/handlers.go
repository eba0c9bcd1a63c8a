package events

import (
	"context"
	"errors"
	"time"

	"tokmakchat/internal/assistant"
)

var errMissingPayload = errors.New("submission payload missing for operation")

// RegisterAssistant 为三个远程流程注册处理器，结果以 EventOperationResult 发出。
func RegisterAssistant(m *Manager, actions assistant.Actions) {
	m.RegisterHandler(OperationConverse, HandlerFunc(func(ctx context.Context, sub Submission, emit EventPublisher) error {
		if sub.Operation.Converse == nil {
			return errMissingPayload
		}
		return emitResult(ctx, emit, sub, actions.Converse(ctx, *sub.Operation.Converse))
	}))
	m.RegisterHandler(OperationAnalyzeDocument, HandlerFunc(func(ctx context.Context, sub Submission, emit EventPublisher) error {
		if sub.Operation.AnalyzeDocument == nil {
			return errMissingPayload
		}
		return emitResult(ctx, emit, sub, actions.AnalyzeDocument(ctx, *sub.Operation.AnalyzeDocument))
	}))
	m.RegisterHandler(OperationAnticipateTasks, HandlerFunc(func(ctx context.Context, sub Submission, emit EventPublisher) error {
		if sub.Operation.AnticipateTasks == nil {
			return errMissingPayload
		}
		return emitResult(ctx, emit, sub, actions.AnticipateTasks(ctx, *sub.Operation.AnticipateTasks))
	}))
}

func emitResult(ctx context.Context, emit EventPublisher, sub Submission, result any) error {
	return emit.Publish(ctx, Event{
		Type:         EventOperationResult,
		SubmissionID: sub.ID,
		Owner:        sub.Owner,
		Kind:         sub.Operation.Kind,
		Timestamp:    time.Now(),
		Payload:      result,
		Metadata:     cloneMetadata(sub.Metadata),
	})
}

// ConverseSubmission 构造对话提交。
func ConverseSubmission(owner string, in assistant.ConverseInput) Submission {
	return Submission{Owner: owner, Operation: Operation{Kind: OperationConverse, Converse: &in}}
}

// AnalyzeDocumentSubmission 构造文档分析提交。
func AnalyzeDocumentSubmission(owner string, in assistant.AnalyzeDocumentInput) Submission {
	return Submission{Owner: owner, Operation: Operation{Kind: OperationAnalyzeDocument, AnalyzeDocument: &in}}
}

// AnticipateTasksSubmission 构造任务预测提交。
func AnticipateTasksSubmission(owner string, in assistant.AnticipateTasksInput) Submission {
	return Submission{Owner: owner, Operation: Operation{Kind: OperationAnticipateTasks, AnticipateTasks: &in}}
}
