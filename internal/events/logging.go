package events

import (
	"encoding/json"
	"io"

	"tokmakchat/internal/logger"
)

// log 复用全局 logger，标记事件组件。
var log = logger.Named("events")

func newQueueLogger(component, path string) (*logger.LogEntry, io.Closer) {
	if path == "" {
		return logger.Named(component), nil
	}
	entry, closer, _, err := logger.SetupComponentFile(component, path)
	if err != nil {
		log.Warnf("failed to set up %s log file (%s): %v", component, path, err)
		return logger.Named(component), nil
	}
	return entry, closer
}

// encodePayload 把载荷编码成单行 JSON 写入日志；data URI 之类的大字段会被截断。
func encodePayload(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	const limit = 512
	if len(data) > limit {
		return string(data[:limit]) + "…"
	}
	return string(data)
}
