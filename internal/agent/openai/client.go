package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tokmakchat/internal/agent"
	"tokmakchat/internal/prompts"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
	"github.com/openai/openai-go/v3/shared/constant"
)

// 支持的线路协议。
const (
	WireChat      = "chat"
	WireResponses = "responses"
)

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	WireAPI string
}

type Client struct {
	api   *openai.Client
	model string
	wire  string
}

// 确保Client实现了agent.ModelClient接口
var _ agent.ModelClient = (*Client)(nil)

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("missing OPENAI_API_KEY")
	}
	cfg := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg = append(cfg, option.WithBaseURL(strings.TrimRight(NormalizeBaseURL(base), "/")))
	}
	client := openai.NewClient(cfg...)

	return &Client{
		api:   &client,
		model: opts.Model,
		wire:  strings.ToLower(strings.TrimSpace(opts.WireAPI)),
	}, nil
}

func (c *Client) resolveModel(model string) string {
	if strings.TrimSpace(model) != "" {
		return model
	}
	return c.model
}

// Complete 发送一次非流式请求。带图片的请求总是走 chat 线路。
func (c *Client) Complete(ctx context.Context, prompt agent.Prompt) (string, error) {
	if c.wire == WireResponses && !prompt.HasImages() {
		return c.completeResponses(ctx, prompt)
	}
	return c.completeChat(ctx, prompt)
}

func (c *Client) completeChat(ctx context.Context, prompt agent.Prompt) (string, error) {
	msgs := prompt.Messages
	if instruction := prompts.BuildJSONOutputInstruction(prompt.OutputSchema); instruction != "" {
		msgs = append([]agent.Message{{Role: agent.RoleSystem, Content: instruction}}, msgs...)
	}
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.resolveModel(prompt.Model)),
		Messages: toChatMessages(msgs),
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapHTTPError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("chat completion returned no text")
	}
	return text, nil
}

func (c *Client) completeResponses(ctx context.Context, prompt agent.Prompt) (string, error) {
	params := buildResponseParams(prompt, c.resolveModel(prompt.Model))
	resp, err := c.api.Responses.New(ctx, params)
	if err != nil {
		return "", wrapHTTPError(err)
	}
	if resp.Error.Message != "" && resp.Error.JSON.Message.Valid() {
		return "", errors.New(resp.Error.Message)
	}
	if text := extractResponseText(resp); text != "" {
		return text, nil
	}
	return "", errors.New("responses api returned no text")
}

func toChatMessages(msgs []agent.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case agent.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case agent.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			if len(msg.Images) == 0 {
				out = append(out, openai.UserMessage(msg.Content))
				continue
			}
			parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(msg.Images)+1)
			if strings.TrimSpace(msg.Content) != "" {
				parts = append(parts, openai.TextContentPart(msg.Content))
			}
			for _, img := range msg.Images {
				parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: img.DataURI(),
				}))
			}
			out = append(out, openai.UserMessage(parts))
		}
	}
	return out
}

func buildResponseParams(prompt agent.Prompt, model string) responses.ResponseNewParams {
	instructions, convo := splitInstructions(prompt.Messages)
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(model),
	}
	if instructions != "" {
		params.Instructions = openai.String(instructions)
	}
	if len(convo) > 0 {
		params.Input.OfInputItemList = responses.ResponseInputParam(toResponseInput(convo))
	}
	if schema, ok := parseOutputSchema(prompt.OutputSchema); ok {
		var format responses.ResponseFormatTextJSONSchemaConfigParam
		format.Name = schemaName(prompt.SchemaName)
		format.Schema = schema
		format.Strict = openai.Bool(true)
		format.Type = constant.JSONSchema("").Default()

		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{OfJSONSchema: &format},
		}
	}
	return params
}

func schemaName(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return "tokmak_output"
}

func parseOutputSchema(schema string) (map[string]any, bool) {
	raw := strings.TrimSpace(schema)
	if raw == "" {
		return nil, false
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false
	}
	return v, true
}

func wrapHTTPError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr != nil {
		if dump := strings.TrimSpace(string(apiErr.DumpResponse(true))); dump != "" {
			return fmt.Errorf("http_%d: %s", apiErr.StatusCode, dump)
		}
		if raw := strings.TrimSpace(apiErr.RawJSON()); raw != "" {
			return fmt.Errorf("http_%d: %s", apiErr.StatusCode, raw)
		}
		return fmt.Errorf("http_%d: %v", apiErr.StatusCode, err)
	}
	return err
}

func toResponseInput(msgs []agent.Message) []responses.ResponseInputItemUnionParam {
	items := make([]responses.ResponseInputItemUnionParam, 0, len(msgs))
	for _, msg := range msgs {
		items = append(items, responses.ResponseInputItemParamOfMessage(msg.Content, toResponseRole(msg.Role)))
	}
	return items
}

func toResponseRole(role agent.Role) responses.EasyInputMessageRole {
	switch role {
	case agent.RoleAssistant:
		return responses.EasyInputMessageRoleAssistant
	case agent.RoleSystem:
		return responses.EasyInputMessageRoleSystem
	default:
		return responses.EasyInputMessageRoleUser
	}
}

func splitInstructions(messages []agent.Message) (string, []agent.Message) {
	var instructions []string
	convo := make([]agent.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == agent.RoleSystem {
			instructions = append(instructions, strings.TrimSpace(msg.Content))
			continue
		}
		convo = append(convo, msg)
	}
	return strings.Join(instructions, "\n\n"), convo
}

func extractResponseText(resp *responses.Response) string {
	if resp == nil {
		return ""
	}
	if text := strings.TrimSpace(resp.OutputText()); text != "" {
		return text
	}
	for _, item := range resp.Output {
		for _, content := range item.Content {
			if text := strings.TrimSpace(content.Text); text != "" {
				return text
			}
		}
	}
	return ""
}
