package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

// MaxTextRunes 是提取文本送入提示词的上限。
const MaxTextRunes = 60000

// ErrNoText 表示文档中没有可提取的文本。
var ErrNoText = errors.New("no extractable text")

// ExtractText 提取 PDF 或 HTML 的纯文本，超过 MaxTextRunes 时截断。
func ExtractText(mimeType string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch baseType(mimeType) {
	case MIMEPDF:
		text, err = pdfText(data)
	case MIMEHTML:
		text, err = htmlText(data)
	default:
		return "", fmt.Errorf("%w: %s has no text layer", ErrUnsupportedType, mimeType)
	}
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	if r := []rune(text); len(r) > MaxTextRunes {
		text = string(r[:MaxTextRunes])
	}
	return text, nil
}

func pdfText(data []byte) (text string, err error) {
	// ledongthuc/pdf 在损坏文件上可能 panic。
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}

var skippedHTMLElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

var blockHTMLElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true,
}

func htmlText(data []byte) (string, error) {
	z := html.NewTokenizer(bytes.NewReader(data))
	var sb strings.Builder
	var title string
	skip := 0
	inTitle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("parse html: %w", err)
			}
			body := collapseBlankLines(sb.String())
			if title != "" && !strings.HasPrefix(body, title) {
				body = title + "\n\n" + body
			}
			return body, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "title" {
				inTitle = true
			}
			if skippedHTMLElements[tag] {
				skip++
			}
			if blockHTMLElements[tag] {
				sb.WriteString("\n")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "title" {
				inTitle = false
			}
			if skippedHTMLElements[tag] && skip > 0 {
				skip--
			}
			if blockHTMLElements[tag] {
				sb.WriteString("\n")
			}
		case html.TextToken:
			text := strings.Join(strings.Fields(string(z.Text())), " ")
			if text == "" {
				continue
			}
			if inTitle {
				title = text
				continue
			}
			if skip > 0 {
				continue
			}
			if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteString(" ")
			}
			sb.WriteString(text)
		}
	}
}

func collapseBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
