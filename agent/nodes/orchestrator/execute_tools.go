package orchestratornode

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/appointment-assistant/agent/contract"
)

// ExecuteTools runs the requested tools in order and appends the decision plus one tool
// message per invocation to the transcript.
func ExecuteTools(ctx context.Context, in *GraphState, tools contractx.ToolGateway) (*GraphState, error) {
	if in == nil || in.Decision == nil {
		return nil, fmt.Errorf("%w: graph state has no decision", contractx.ErrValidation)
	}

	results, err := tools.Execute(ctx, in.ToolRequests)
	if err != nil {
		return nil, err
	}
	if len(results) != len(in.ToolRequests) {
		return nil, fmt.Errorf("%w: expected %d tool results, got %d", contractx.ErrValidation, len(in.ToolRequests), len(results))
	}

	in.ToolResults = results
	in.Transcript = append(in.Transcript, in.Decision)
	for i, res := range results {
		in.Transcript = append(in.Transcript, schema.ToolMessage(res.Content(), in.ToolRequests[i].ID))
	}
	return in, nil
}
