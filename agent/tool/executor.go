package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/appointment-assistant/agent/contract"
	metricsx "github.com/tanpawarit/appointment-assistant/pkg/metrics"
	"github.com/tanpawarit/appointment-assistant/scheduling"
)

const unknownToolMessage = "Unknown function invoked."

// Executor runs one tool. Failures of the tool itself are reported in ToolResult.Error;
// the error return is reserved for conditions that must abort the conversation.
type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

func NewExecutor(scheduler contractx.Scheduler) Executor {
	fallback := DefaultExecutor()
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		switch tool {
		case ToolRegisterUser:
			return run(tool, args, func(a argReader) (any, error) {
				name, dob := a.str("name"), a.str("date_of_birth")
				if err := a.err(); err != nil {
					return nil, err
				}
				out, err := scheduler.RegisterUser(ctx, name, dob)
				return out.Payload(), err
			})
		case ToolBookAppointment:
			return run(tool, args, func(a argReader) (any, error) {
				userID := a.raw("user_id")
				date, clock, purpose := a.str("appointment_date"), a.str("appointment_time"), a.str("purpose")
				if err := a.err(); err != nil {
					return nil, err
				}
				out, err := scheduler.BookAppointment(ctx, userID, date, clock, purpose)
				return out.Payload(), err
			})
		case ToolCheckAppointmentStatus:
			return run(tool, args, func(a argReader) (any, error) {
				userID := a.raw("user_id")
				if err := a.err(); err != nil {
					return nil, err
				}
				out, err := scheduler.CheckAppointmentStatus(ctx, userID)
				return out.Payload(), err
			})
		case ToolCancelAppointment:
			return run(tool, args, func(a argReader) (any, error) {
				userID := a.raw("user_id")
				if err := a.err(); err != nil {
					return nil, err
				}
				out, err := scheduler.CancelAppointment(ctx, userID)
				return out.Payload(), err
			})
		default:
			return fallback(ctx, tool, args)
		}
	}
}

// DefaultExecutor answers every call with the unknown-function result.
func DefaultExecutor() Executor {
	return func(ctx context.Context, tool string, _ map[string]any) (contractx.ToolResult, error) {
		return contractx.ToolResult{
			Tool:  tool,
			Error: unknownToolMessage,
		}, nil
	}
}

func run(tool string, args map[string]any, fn func(argReader) (any, error)) (contractx.ToolResult, error) {
	payload, err := fn(argReader{args: args, missing: new([]string), badType: new([]string)})
	if err != nil {
		return contractx.ToolResult{Tool: tool, Error: describe(err)}, nil
	}
	return contractx.ToolResult{Tool: tool, Result: payload}, nil
}

// describe hides storage details from the model while keeping input errors readable.
func describe(err error) string {
	switch {
	case errors.Is(err, errBadArguments), scheduling.IsClientError(err):
		return err.Error()
	default:
		return "The appointment system could not complete the request. Please try again later."
	}
}

var errBadArguments = errors.New("invalid arguments")

type argReader struct {
	args    map[string]any
	missing *[]string
	badType *[]string
}

func (a argReader) raw(key string) any {
	v, ok := a.args[key]
	if !ok || v == nil {
		*a.missing = append(*a.missing, key)
		return nil
	}
	return v
}

func (a argReader) str(key string) string {
	v := a.raw(key)
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		*a.badType = append(*a.badType, key)
		return ""
	}
	return s
}

func (a argReader) err() error {
	var parts []string
	if len(*a.missing) > 0 {
		parts = append(parts, "missing "+strings.Join(*a.missing, ", "))
	}
	if len(*a.badType) > 0 {
		parts = append(parts, strings.Join(*a.badType, ", ")+" must be text")
	}
	if len(parts) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", errBadArguments, strings.Join(parts, "; "))
}

// Gateway runs tool requests one after another through an Executor.
type Gateway struct {
	exec Executor
}

var _ contractx.ToolGateway = (*Gateway)(nil)

func NewGateway(scheduler contractx.Scheduler) (*Gateway, error) {
	if scheduler == nil {
		return nil, errors.New("scheduler is required")
	}
	return &Gateway{exec: NewExecutor(scheduler)}, nil
}

func (g *Gateway) Execute(ctx context.Context, reqs []contractx.ToolRequest) ([]contractx.ToolResult, error) {
	results := make([]contractx.ToolResult, 0, len(reqs))
	for _, req := range reqs {
		var (
			res contractx.ToolResult
			err error
		)
		if req.ArgsError != "" {
			res = contractx.ToolResult{Tool: req.Tool, Error: req.ArgsError}
		} else {
			res, err = g.exec(ctx, req.Tool, req.Args)
			if err != nil {
				return nil, err
			}
		}
		res.ID = req.ID
		res.Tool = req.Tool

		outcome := "ok"
		if res.Error != "" {
			outcome = "error"
		}
		metricsx.ObserveToolInvocation(metricLabel(req.Tool), outcome)
		log.Ctx(ctx).Info().
			Str("tool", req.Tool).
			Str("call_id", req.ID).
			Str("outcome", outcome).
			Msg("tool executed")

		results = append(results, res)
	}
	return results, nil
}

// metricLabel collapses names outside the catalog into "unknown".
func metricLabel(tool string) string {
	if _, ok := Lookup(tool); ok {
		return tool
	}
	return "unknown"
}
