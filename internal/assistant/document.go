package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tokmakchat/internal/agent"
	"tokmakchat/internal/document"
	"tokmakchat/internal/prompts"
)

// AnalyzeDocument 为 PDF / JPEG / HTML 文档生成抽象与具体两份摘要。
// JPEG 以图片发送给模型；PDF 与 HTML 先在本地提取文本。
func (a *Assistant) AnalyzeDocument(ctx context.Context, in AnalyzeDocumentInput) (out Result[AnalyzeDocumentOutput]) {
	defer guard(a.log, FlowAnalyzeDocument, ErrAnalyzeDocument, &out)

	prompt, err := a.documentPrompt(in.DocumentDataURI)
	if err != nil {
		a.failure(FlowAnalyzeDocument, ErrAnalyzeDocument, err)
		return fail[AnalyzeDocumentOutput](ErrAnalyzeDocument)
	}
	text, err := a.complete(ctx, FlowAnalyzeDocument, prompt)
	if err != nil {
		a.failure(FlowAnalyzeDocument, ErrAnalyzeDocument, err)
		return fail[AnalyzeDocumentOutput](ErrAnalyzeDocument)
	}

	var decoded struct {
		AbstractSummary *string `json:"abstractSummary"`
		ConcreteSummary *string `json:"concreteSummary"`
	}
	if err := decodeJSON(text, &decoded); err != nil {
		a.failure(FlowAnalyzeDocument, ErrAnalyzeDocument, err)
		return fail[AnalyzeDocumentOutput](ErrAnalyzeDocument)
	}
	if decoded.AbstractSummary == nil || decoded.ConcreteSummary == nil {
		a.failure(FlowAnalyzeDocument, ErrAnalyzeDocument, errors.New("reply is missing a summary field"))
		return fail[AnalyzeDocumentOutput](ErrAnalyzeDocument)
	}
	return succeed(AnalyzeDocumentOutput{
		AbstractSummary: strings.TrimSpace(*decoded.AbstractSummary),
		ConcreteSummary: strings.TrimSpace(*decoded.ConcreteSummary),
	})
}

func (a *Assistant) documentPrompt(dataURI string) (agent.Prompt, error) {
	mimeType, data, err := document.ParseDataURI(dataURI)
	if err != nil {
		return agent.Prompt{}, err
	}
	if !document.IsAllowed(mimeType) {
		return agent.Prompt{}, fmt.Errorf("%w: %s", document.ErrUnsupportedType, mimeType)
	}
	system, err := prompts.Render(prompts.PromptAnalyzeDocument, prompts.Vars{"MIME_TYPE": mimeType})
	if err != nil {
		return agent.Prompt{}, err
	}

	user := agent.Message{Role: agent.RoleUser}
	switch mimeType {
	case document.MIMEJPEG:
		if !a.vision {
			return agent.Prompt{}, errors.New("image documents need a vision capable model")
		}
		user.Content = "Analyze the attached document image."
		user.Images = []agent.Attachment{{MIMEType: mimeType, Data: data}}
	default:
		text, err := document.ExtractText(mimeType, data)
		if err != nil {
			return agent.Prompt{}, fmt.Errorf("extract text: %w", err)
		}
		user.Content = "Analyze the following document.\n\n<document>\n" + text + "\n</document>"
	}

	return agent.Prompt{
		Messages: []agent.Message{
			{Role: agent.RoleSystem, Content: system},
			user,
		},
		OutputSchema: analyzeDocumentSchema,
		SchemaName:   "document_analysis",
	}, nil
}
