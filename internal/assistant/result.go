package assistant

// 固定的用户可见错误信息，原始错误只写日志。
const (
	ErrConverse        = "Failed to get a response."
	ErrAnalyzeDocument = "Failed to analyze document."
	ErrAnticipateTasks = "Failed to get automated tasks."
)

// Result 是远程调用的结果信封，也是调用方唯一的错误通道。
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func succeed[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func fail[T any](message string) Result[T] {
	return Result[T]{Error: message}
}
