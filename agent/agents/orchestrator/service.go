package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/appointment-assistant/agent/contract"
	nodex "github.com/tanpawarit/appointment-assistant/agent/nodes/orchestrator"
	"github.com/tanpawarit/appointment-assistant/agent/prompt"
	"github.com/tanpawarit/appointment-assistant/agent/tool"
)

var ErrInvalidMessage = nodex.ErrInvalidMessage

type Config struct {
	// DefaultModel is used when a request does not name a model.
	DefaultModel string
	// SystemPrompt overrides the embedded assistant prompt.
	SystemPrompt string
}

// Orchestrator answers one chat message, letting the model call scheduling tools at most
// once before producing the final reply.
type Orchestrator struct {
	chatModel einomodel.BaseChatModel
	toolModel einomodel.BaseChatModel
	tools     contractx.ToolGateway
	template  einoprompt.ChatTemplate

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	defaultModel string
	now          func() time.Time
}

var _ contractx.Assistant = (*Orchestrator)(nil)

func New(
	chatModel einomodel.ToolCallingChatModel,
	tools contractx.ToolGateway,
	cfg Config,
) (*Orchestrator, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}

	toolModel, err := chatModel.WithTools(tool.Infos())
	if err != nil {
		return nil, fmt.Errorf("bind scheduling tools: %w", err)
	}

	systemPrompt := strings.TrimSpace(cfg.SystemPrompt)
	if systemPrompt == "" {
		systemPrompt = prompt.LoadPromptSet().Assistant
	}
	if systemPrompt == "" {
		return nil, contractx.ErrPromptMissing
	}

	defaultModel := strings.TrimSpace(cfg.DefaultModel)
	if defaultModel == "" {
		defaultModel = contractx.DefaultModel
	}

	o := &Orchestrator{
		chatModel:    chatModel,
		toolModel:    toolModel,
		tools:        tools,
		template:     nodex.NewTemplate(systemPrompt),
		defaultModel: defaultModel,
		now:          time.Now,
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

func (o *Orchestrator) Reply(ctx context.Context, req contractx.ChatRequest) (string, error) {
	conversationID := uuid.NewString()
	logger := log.Ctx(ctx).With().Str("conversation_id", conversationID).Logger()
	ctx = logger.WithContext(ctx)

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		ConversationID: conversationID,
		Message:        req.Message,
		Model:          req.Model,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("conversation failed")
		return "", unwrapGraphError(err)
	}
	logger.Info().Msg("conversation answered")
	return out.Reply, nil
}

// unwrapGraphError restores the sentinel when the graph runtime's wrapping hides it.
func unwrapGraphError(err error) error {
	for _, sentinel := range []error{
		contractx.ErrValidation,
		contractx.ErrUpstream,
		contractx.ErrSchemaViolation,
		contractx.ErrPromptMissing,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
		if strings.Contains(err.Error(), sentinel.Error()) {
			return fmt.Errorf("%w: %v", sentinel, err)
		}
	}
	return err
}
