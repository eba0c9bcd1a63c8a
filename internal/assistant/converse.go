package assistant

import (
	"context"
	"errors"
	"strings"

	"tokmakchat/internal/agent"
	"tokmakchat/internal/i18n"
	"tokmakchat/internal/prompts"
)

// Converse 以指定语言回答一次用户提问，回复即为纯文本。
func (a *Assistant) Converse(ctx context.Context, in ConverseInput) (out Result[ConverseOutput]) {
	defer guard(a.log, FlowConverse, ErrConverse, &out)

	query := strings.TrimSpace(in.Query)
	if query == "" {
		a.failure(FlowConverse, ErrConverse, errors.New("empty query"))
		return fail[ConverseOutput](ErrConverse)
	}
	lang := i18n.Normalize(in.Language)
	system, err := prompts.Render(prompts.PromptConverse, prompts.Vars{"LANGUAGE": lang.Code()})
	if err != nil {
		a.failure(FlowConverse, ErrConverse, err)
		return fail[ConverseOutput](ErrConverse)
	}

	text, err := a.complete(ctx, FlowConverse, agent.Prompt{
		Messages: []agent.Message{
			{Role: agent.RoleSystem, Content: system},
			{Role: agent.RoleSystem, Content: prompts.BuildLanguagePrompt(lang)},
			{Role: agent.RoleUser, Content: query},
		},
	})
	if err != nil {
		a.failure(FlowConverse, ErrConverse, err)
		return fail[ConverseOutput](ErrConverse)
	}
	response := strings.TrimSpace(text)
	if response == "" {
		a.failure(FlowConverse, ErrConverse, errors.New("empty response"))
		return fail[ConverseOutput](ErrConverse)
	}
	return succeed(ConverseOutput{Response: response})
}
