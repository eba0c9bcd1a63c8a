package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var errNoJSON = errors.New("reply contains no JSON object")

// decodeJSON 宽松地解析模型回复：去掉代码围栏与前后说明文字，
// 解析失败时用 jsonrepair 修复一次再解析。
func decodeJSON(raw string, v any) error {
	candidate, err := extractObject(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}
	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return fmt.Errorf("repair json: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("decode repaired json: %w", err)
	}
	return nil
}

func extractObject(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if nl := strings.IndexByte(text, '\n'); nl != -1 {
			text = text[nl+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", errNoJSON
	}
	text = text[start:]
	if end := strings.LastIndexByte(text, '}'); end != -1 {
		text = text[:end+1]
	}
	return strings.TrimSpace(text), nil
}
