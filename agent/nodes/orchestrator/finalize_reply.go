package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/appointment-assistant/agent/contract"
)

// ReplyDirect returns the model's text when it chose not to call any tool.
func ReplyDirect(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Decision == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state has no decision", contractx.ErrValidation)
	}
	in.Reply = strings.TrimSpace(in.Decision.Content)
	return FinalizeReply(in)
}

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: model returned empty reply", contractx.ErrSchemaViolation)
	}
	return GraphOutput{Reply: reply}, nil
}
