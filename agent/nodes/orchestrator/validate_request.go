package orchestratornode

import (
	"context"
	"fmt"
	"strings"
	"time"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/appointment-assistant/agent/contract"
)

var ErrInvalidMessage = fmt.Errorf("%w: message is empty", contractx.ErrValidation)

const todayLayout = "Monday, 2006-01-02"

type GraphInput struct {
	ConversationID string
	Message        string
	Model          string
}

type GraphOutput struct {
	Reply string
}

// GraphState carries one conversation through the graph. Transcript grows as the turn
// progresses: prompt, then the model's decision, then one tool message per invocation.
type GraphState struct {
	ConversationID string
	Model          string
	Now            time.Time

	Transcript   []*schema.Message
	Decision     *schema.Message
	ToolRequests []contractx.ToolRequest
	ToolResults  []contractx.ToolResult

	Reply string
}

// NewTemplate builds the conversation prompt: the system prompt (with {today}) followed by
// the user's message.
func NewTemplate(systemPrompt string) einoprompt.ChatTemplate {
	return einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)
}

func ValidateRequest(
	ctx context.Context,
	in GraphInput,
	template einoprompt.ChatTemplate,
	defaultModel string,
	nowFn func() time.Time,
) (*GraphState, error) {
	text := strings.TrimSpace(in.Message)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	modelName := strings.TrimSpace(in.Model)
	if modelName == "" {
		modelName = defaultModel
	}

	now := nowFn()
	transcript, err := template.Format(ctx, map[string]any{
		"today": now.Format(todayLayout),
		"input": text,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: render prompt: %v", contractx.ErrPromptMissing, err)
	}

	return &GraphState{
		ConversationID: in.ConversationID,
		Model:          modelName,
		Now:            now,
		Transcript:     transcript,
	}, nil
}
