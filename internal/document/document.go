// Package document 负责读取待分析的文件：类型识别、白名单校验与 data URI 编解码。
package document

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// 允许分析的 MIME 类型。
const (
	MIMEPDF  = "application/pdf"
	MIMEJPEG = "image/jpeg"
	MIMEHTML = "text/html"
)

// MaxSize 是单个文件的大小上限。
const MaxSize = 20 << 20

var (
	// ErrUnsupportedType 表示文件类型不在白名单内。
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrTooLarge 表示文件超过 MaxSize。
	ErrTooLarge = errors.New("document too large")
	// ErrInvalidDataURI 表示 data URI 格式错误。
	ErrInvalidDataURI = errors.New("invalid data uri")
)

var allowed = []string{MIMEPDF, MIMEJPEG, MIMEHTML}

// Allowed 返回允许的 MIME 类型列表。
func Allowed() []string {
	return append([]string(nil), allowed...)
}

// IsAllowed 判断 MIME 类型是否允许，忽略参数部分（如 charset）。
func IsAllowed(mimeType string) bool {
	base := baseType(mimeType)
	for _, m := range allowed {
		if base == m {
			return true
		}
	}
	return false
}

// Document 是读入内存的文件。
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Size 返回内容字节数。
func (d Document) Size() int {
	return len(d.Data)
}

// DataURI 返回 data:<mime>;base64,<payload>。
func (d Document) DataURI() string {
	return "data:" + d.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(d.Data)
}

// New 用内容嗅探结合扩展名确定类型。类型不在白名单时返回 ErrUnsupportedType，
// 同时返回的 Document 仍带有识别出的类型，便于提示。
func New(name string, data []byte) (Document, error) {
	doc := Document{Name: filepath.Base(name), MIMEType: Detect(name, data), Data: data}
	if len(data) > MaxSize {
		return doc, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	if !IsAllowed(doc.MIMEType) {
		return doc, fmt.Errorf("%w: %s", ErrUnsupportedType, doc.MIMEType)
	}
	return doc, nil
}

// Load 从磁盘读取文件。读取失败返回的错误不包含 ErrUnsupportedType。
func Load(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	if info.IsDir() {
		return Document{}, fmt.Errorf("read %s: is a directory", path)
	}
	if info.Size() > MaxSize {
		return Document{Name: filepath.Base(path)}, fmt.Errorf("%w: %d bytes", ErrTooLarge, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return New(path, data)
}

// Detect 返回不带参数的 MIME 类型。
func Detect(name string, data []byte) string {
	sniffed := baseType(http.DetectContentType(data))
	switch sniffed {
	case "text/plain", "application/octet-stream", "":
		if byExt := baseType(mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))); byExt != "" {
			return byExt
		}
	}
	return sniffed
}

// ParseDataURI 解析 base64 编码的 data URI。
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload", ErrInvalidDataURI)
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("%w: payload must be base64", ErrInvalidDataURI)
	}
	mediaType = baseType(mediaType)
	if mediaType == "" {
		return "", nil, fmt.Errorf("%w: missing mime type", ErrInvalidDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return mediaType, data, nil
}

func baseType(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		return parsed
	}
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
