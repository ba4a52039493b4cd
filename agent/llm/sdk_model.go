package llm

import (
	"context"
	"errors"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"

	"github.com/tanpawarit/appointment-assistant/agent/tool"
	openaix "github.com/tanpawarit/appointment-assistant/pkg/openai"
)

var errStreamUnsupported = errors.New("sdk chat model does not support streaming")

// SDKChatModel talks to the chat completions endpoint through the official openai-go client.
type SDKChatModel struct {
	client      *openaisdk.Client
	model       string
	maxTokens   *int
	temperature *float32
	tools       []openaisdk.ChatCompletionToolParam
}

var _ einomodel.ToolCallingChatModel = (*SDKChatModel)(nil)

func NewSDKChatModel(cfg openaix.Config) (*SDKChatModel, error) {
	client := openaix.NewClient(cfg)
	if client == nil {
		return nil, openaix.ErrMissingAPIKey
	}
	return &SDKChatModel{
		client:      client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxCompletionToken,
		temperature: cfg.Temperature,
	}, nil
}

// WithTools returns a copy bound to the given tools. Only tools present in the catalog can be
// described to the API.
func (m *SDKChatModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	params := make([]openaisdk.ChatCompletionToolParam, 0, len(tools))
	for _, info := range tools {
		if info == nil {
			continue
		}
		desc, ok := tool.Lookup(info.Name)
		if !ok {
			return nil, fmt.Errorf("no parameter schema for tool %q", info.Name)
		}
		params = append(params, openaisdk.ChatCompletionToolParam{
			Function: openaisdk.FunctionDefinitionParam{
				Name:        desc.Name,
				Description: openaisdk.String(desc.Desc),
				Parameters:  openaisdk.FunctionParameters(desc.JSONSchema()),
			},
		})
	}

	clone := *m
	clone.tools = params
	return &clone, nil
}

func (m *SDKChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	options := einomodel.GetCommonOptions(&einomodel.Options{
		Model:       &m.model,
		MaxTokens:   m.maxTokens,
		Temperature: m.temperature,
	}, opts...)

	messages, err := toSDKMessages(input)
	if err != nil {
		return nil, err
	}

	params := openaisdk.ChatCompletionNewParams{
		Messages: messages,
	}
	if options.Model != nil {
		params.Model = openaisdk.ChatModel(*options.Model)
	}
	if options.MaxTokens != nil {
		params.MaxTokens = openaisdk.Int(int64(*options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openaisdk.Float(float64(*options.Temperature))
	}
	if len(m.tools) > 0 {
		params.Tools = m.tools
		params.ToolChoice = openaisdk.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: openaisdk.String("auto"),
		}
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	choice := resp.Choices[0].Message
	out := schema.AssistantMessage(choice.Content, nil)
	for _, call := range choice.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, schema.ToolCall{
			ID:   call.ID,
			Type: "function",
			Function: schema.FunctionCall{
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			},
		})
	}
	return out, nil
}

func (m *SDKChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errStreamUnsupported
}

func toSDKMessages(input []*schema.Message) ([]openaisdk.ChatCompletionMessageParamUnion, error) {
	out := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			out = append(out, openaisdk.SystemMessage(msg.Content))
		case schema.User:
			out = append(out, openaisdk.UserMessage(msg.Content))
		case schema.Tool:
			out = append(out, openaisdk.ToolMessage(msg.Content, msg.ToolCallID))
		case schema.Assistant:
			if len(msg.ToolCalls) == 0 {
				out = append(out, openaisdk.AssistantMessage(msg.Content))
				continue
			}
			assistant := openaisdk.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				assistant.Content.OfString = openaisdk.String(msg.Content)
			}
			for _, call := range msg.ToolCalls {
				assistant.ToolCalls = append(assistant.ToolCalls, openaisdk.ChatCompletionMessageToolCallParam{
					ID: call.ID,
					Function: openaisdk.ChatCompletionMessageToolCallFunctionParam{
						Name:      call.Function.Name,
						Arguments: call.Function.Arguments,
					},
				})
			}
			out = append(out, openaisdk.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		default:
			return nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}
	return out, nil
}
