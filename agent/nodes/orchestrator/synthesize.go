package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"

	contractx "github.com/tanpawarit/appointment-assistant/agent/contract"
)

// Synthesize asks the model, without tools, for the final reply given the tool results.
func Synthesize(ctx context.Context, in *GraphState, chatModel einomodel.BaseChatModel) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	msg, err := generate(ctx, "synthesize", chatModel, in.Transcript, in.Model)
	if err != nil {
		return nil, err
	}

	reply := strings.TrimSpace(msg.Content)
	if reply == "" {
		return nil, fmt.Errorf("%w: final reply is empty", contractx.ErrSchemaViolation)
	}
	in.Reply = reply
	return in, nil
}
