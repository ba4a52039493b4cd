package orchestratornode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/appointment-assistant/agent/contract"
	metricsx "github.com/tanpawarit/appointment-assistant/pkg/metrics"
)

const (
	NodeReplyDirect  = "reply_direct"
	NodeExecuteTools = "execute_tools"
)

// Decide asks the tool-bound model whether to answer directly or to call tools.
func Decide(ctx context.Context, in *GraphState, toolModel einomodel.BaseChatModel) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	msg, err := generate(ctx, "decide", toolModel, in.Transcript, in.Model)
	if err != nil {
		return nil, err
	}

	reqs, err := toToolRequests(msg)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 && strings.TrimSpace(msg.Content) == "" {
		return nil, fmt.Errorf("%w: model returned neither text nor tool calls", contractx.ErrSchemaViolation)
	}

	log.Ctx(ctx).Debug().
		Int("tool_calls", len(reqs)).
		Msg("model decided")

	in.Decision = msg
	in.ToolRequests = reqs
	return in, nil
}

// Route picks the next node after Decide.
func Route(in *GraphState) (string, error) {
	if in == nil {
		return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if len(in.ToolRequests) == 0 {
		return NodeReplyDirect, nil
	}
	return NodeExecuteTools, nil
}

func generate(
	ctx context.Context,
	stage string,
	chatModel einomodel.BaseChatModel,
	transcript []*schema.Message,
	modelName string,
) (*schema.Message, error) {
	start := time.Now()
	msg, err := chatModel.Generate(ctx, transcript, einomodel.WithModel(modelName))
	elapsed := time.Since(start)

	if err != nil {
		metricsx.ObserveModelCall(stage, "error", elapsed)
		log.Ctx(ctx).Error().Err(err).Str("stage", stage).Dur("elapsed", elapsed).Msg("model call failed")
		return nil, fmt.Errorf("%w: %s: %v", contractx.ErrUpstream, stage, err)
	}
	if msg == nil {
		metricsx.ObserveModelCall(stage, "error", elapsed)
		return nil, fmt.Errorf("%w: %s: empty response", contractx.ErrSchemaViolation, stage)
	}

	metricsx.ObserveModelCall(stage, "ok", elapsed)
	return msg, nil
}

// toToolRequests records undecodable arguments as a per-call ArgsError. Calls without an id
// get a generated one.
func toToolRequests(msg *schema.Message) ([]contractx.ToolRequest, error) {
	if len(msg.ToolCalls) == 0 {
		return nil, nil
	}
	reqs := make([]contractx.ToolRequest, 0, len(msg.ToolCalls))
	for i := range msg.ToolCalls {
		call := &msg.ToolCalls[i]
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}
		if call.ID == "" {
			call.ID = "call_" + uuid.NewString()
		}

		req := contractx.ToolRequest{ID: call.ID, Tool: tool, Args: map[string]any{}}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &req.Args); err != nil {
				req.Args = nil
				req.ArgsError = fmt.Sprintf("arguments for %s are not a valid JSON object", tool)
			}
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
