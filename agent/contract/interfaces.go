package contract

import (
	"context"

	"github.com/tanpawarit/appointment-assistant/scheduling"
)

// Scheduler is the set of operations the assistant may invoke on the user's behalf.
type Scheduler interface {
	RegisterUser(ctx context.Context, name, dateOfBirth string) (scheduling.Registration, error)
	BookAppointment(ctx context.Context, userID any, date, clock, purpose string) (scheduling.Booking, error)
	CheckAppointmentStatus(ctx context.Context, userID any) (scheduling.StatusCheck, error)
	CancelAppointment(ctx context.Context, userID any) (scheduling.Cancellation, error)
}

// ToolGateway executes requests sequentially in the given order and returns one result
// per request.
type ToolGateway interface {
	Execute(ctx context.Context, reqs []ToolRequest) ([]ToolResult, error)
}

type Assistant interface {
	Reply(ctx context.Context, req ChatRequest) (string, error)
}
