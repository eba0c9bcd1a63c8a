package events

import (
	"time"

	"tokmakchat/internal/assistant"
)

// OperationKind 表示提交的操作类型，对应三个远程流程。
type OperationKind string

const (
	OperationConverse        OperationKind = "converse"
	OperationAnalyzeDocument OperationKind = "analyze_document"
	OperationAnticipateTasks OperationKind = "anticipate_tasks"
)

// Operation 描述一次提交的操作载荷，只有与 Kind 对应的字段非空。
type Operation struct {
	Kind            OperationKind
	Converse        *assistant.ConverseInput        `json:",omitempty"`
	AnalyzeDocument *assistant.AnalyzeDocumentInput `json:",omitempty"`
	AnticipateTasks *assistant.AnticipateTasksInput `json:",omitempty"`
}

// Submission 代表进入 SQ 的提交。
type Submission struct {
	ID        string
	Operation Operation
	Timestamp time.Time
	// Owner 标识发起方（chat/document/tasks），结果按它路由回控制器。
	Owner    string
	Metadata map[string]string
}

// EventType 描述 EQ 中分发的事件类型。
type EventType string

const (
	EventSubmissionAccepted EventType = "submission.accepted"
	EventOperationStarted   EventType = "operation.started"
	// EventOperationResult 的 Payload 是 assistant.Result[...]。
	EventOperationResult    EventType = "operation.result"
	EventOperationCompleted EventType = "operation.completed"
	EventError              EventType = "operation.error"
)

// OperationStatus 描述提交的最终状态。
type OperationStatus struct {
	Status string
	Error  string
}

// Event 是 EQ 中传递的唯一消息格式。
type Event struct {
	Type         EventType
	SubmissionID string
	Owner        string
	Kind         OperationKind
	Timestamp    time.Time
	Payload      any
	Metadata     map[string]string
}
