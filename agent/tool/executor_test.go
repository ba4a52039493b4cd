package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	contractx "github.com/tanpawarit/appointment-assistant/agent/contract"
	"github.com/tanpawarit/appointment-assistant/scheduling"
)

type fakeScheduler struct {
	calls []string
	err   error
}

func (f *fakeScheduler) RegisterUser(_ context.Context, name, dob string) (scheduling.Registration, error) {
	f.calls = append(f.calls, fmt.Sprintf("register %s %s", name, dob))
	if f.err != nil {
		return scheduling.Registration{}, f.err
	}
	return scheduling.Registration{UserID: 7, Status: scheduling.RegistrationNew}, nil
}

func (f *fakeScheduler) BookAppointment(_ context.Context, userID any, date, clock, purpose string) (scheduling.Booking, error) {
	f.calls = append(f.calls, fmt.Sprintf("book %v %s %s %s", userID, date, clock, purpose))
	if f.err != nil {
		return scheduling.Booking{}, f.err
	}
	return scheduling.Booking{AppointmentID: 11, Status: scheduling.StatusBooked}, nil
}

func (f *fakeScheduler) CheckAppointmentStatus(_ context.Context, userID any) (scheduling.StatusCheck, error) {
	f.calls = append(f.calls, fmt.Sprintf("check %v", userID))
	if f.err != nil {
		return scheduling.StatusCheck{}, f.err
	}
	return scheduling.StatusCheck{
		Found: true,
		Appointment: scheduling.Appointment{
			ID:      11,
			UserID:  7,
			Date:    time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			Time:    time.Date(0, 1, 1, 14, 30, 0, 0, time.UTC),
			Purpose: "checkup",
			Status:  scheduling.StatusBooked,
		},
	}, nil
}

func (f *fakeScheduler) CancelAppointment(_ context.Context, userID any) (scheduling.Cancellation, error) {
	f.calls = append(f.calls, fmt.Sprintf("cancel %v", userID))
	if f.err != nil {
		return scheduling.Cancellation{}, f.err
	}
	return scheduling.Cancellation{}, nil
}

func TestDefaultExecutorUnknownFunction(t *testing.T) {
	t.Parallel()

	out, err := DefaultExecutor()(context.Background(), "transfer_funds", map[string]any{"x": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Tool != "transfer_funds" {
		t.Fatalf("unexpected tool: %s", out.Tool)
	}
	if out.Error != unknownToolMessage {
		t.Fatalf("unexpected error message: %q", out.Error)
	}
}

func TestExecutorBookAppointment(t *testing.T) {
	t.Parallel()

	sched := &fakeScheduler{}
	out, err := NewExecutor(sched)(context.Background(), ToolBookAppointment, map[string]any{
		"user_id":          float64(7),
		"appointment_date": "2025-03-14",
		"appointment_time": "14:30",
		"purpose":          "checkup",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Error != "" {
		t.Fatalf("unexpected tool error: %s", out.Error)
	}
	if len(sched.calls) != 1 || sched.calls[0] != "book 7 2025-03-14 14:30 checkup" {
		t.Fatalf("unexpected scheduler calls: %v", sched.calls)
	}
	payload, ok := out.Result.(scheduling.BookingPayload)
	if !ok {
		t.Fatalf("unexpected result type: %T", out.Result)
	}
	if payload.AppointmentID != 11 || payload.Status != scheduling.StatusBooked {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestExecutorMissingArgumentsSkipsScheduler(t *testing.T) {
	t.Parallel()

	sched := &fakeScheduler{}
	out, err := NewExecutor(sched)(context.Background(), ToolRegisterUser, map[string]any{"name": "Ann"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.Error, "date_of_birth") {
		t.Fatalf("expected missing argument error, got %q", out.Error)
	}
	if len(sched.calls) != 0 {
		t.Fatalf("scheduler must not be called: %v", sched.calls)
	}
}

func TestExecutorWrongArgumentType(t *testing.T) {
	t.Parallel()

	sched := &fakeScheduler{}
	out, _ := NewExecutor(sched)(context.Background(), ToolRegisterUser, map[string]any{
		"name":          "Ann",
		"date_of_birth": 19900101,
	})
	if !strings.Contains(out.Error, "must be text") {
		t.Fatalf("expected type error, got %q", out.Error)
	}
	if len(sched.calls) != 0 {
		t.Fatalf("scheduler must not be called: %v", sched.calls)
	}
}

func TestExecutorDomainErrorsAreReported(t *testing.T) {
	t.Parallel()

	sched := &fakeScheduler{err: fmt.Errorf("%w: user 99", scheduling.ErrUserNotFound)}
	out, err := NewExecutor(sched)(context.Background(), ToolCheckAppointmentStatus, map[string]any{"user_id": "99"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.Error, "user 99") {
		t.Fatalf("expected user error to be visible, got %q", out.Error)
	}
}

func TestExecutorStorageErrorsAreSanitized(t *testing.T) {
	t.Parallel()

	sched := &fakeScheduler{err: fmt.Errorf("%w: dial tcp 10.0.0.3:5432: refused", scheduling.ErrStorage)}
	out, _ := NewExecutor(sched)(context.Background(), ToolCancelAppointment, map[string]any{"user_id": 1})
	if out.Error == "" {
		t.Fatal("expected an error result")
	}
	if strings.Contains(out.Error, "10.0.0.3") {
		t.Fatalf("storage details leaked: %q", out.Error)
	}
}

func TestExecutorCancelWithoutActiveAppointment(t *testing.T) {
	t.Parallel()

	out, err := NewExecutor(&fakeScheduler{})(context.Background(), ToolCancelAppointment, map[string]any{"user_id": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg, ok := out.Result.(scheduling.MessagePayload)
	if !ok {
		t.Fatalf("unexpected result type: %T", out.Result)
	}
	if msg.Message != scheduling.MessageNoActiveAppointment {
		t.Fatalf("unexpected message: %s", msg.Message)
	}
}

func TestGatewayPreservesOrderAndIDs(t *testing.T) {
	t.Parallel()

	sched := &fakeScheduler{}
	gw, err := NewGateway(sched)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	results, err := gw.Execute(context.Background(), []contractx.ToolRequest{
		{ID: "call_1", Tool: ToolRegisterUser, Args: map[string]any{"name": "Ann", "date_of_birth": "1990-01-01"}},
		{ID: "call_2", Tool: "launch_rockets", Args: map[string]any{}},
		{ID: "call_3", Tool: ToolCheckAppointmentStatus, ArgsError: "arguments are not valid JSON"},
		{ID: "call_4", Tool: ToolCheckAppointmentStatus, Args: map[string]any{"user_id": float64(7)}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, id := range []string{"call_1", "call_2", "call_3", "call_4"} {
		if results[i].ID != id {
			t.Fatalf("result %d: expected id %s, got %s", i, id, results[i].ID)
		}
	}
	if results[1].Error != unknownToolMessage {
		t.Fatalf("unexpected unknown tool result: %+v", results[1])
	}
	if results[2].Error != "arguments are not valid JSON" {
		t.Fatalf("unexpected args error result: %+v", results[2])
	}
	if len(sched.calls) != 2 || !strings.HasPrefix(sched.calls[0], "register") || !strings.HasPrefix(sched.calls[1], "check") {
		t.Fatalf("unexpected scheduler calls: %v", sched.calls)
	}
}

func TestNewGatewayRequiresScheduler(t *testing.T) {
	t.Parallel()

	if _, err := NewGateway(nil); err == nil {
		t.Fatal("expected error for nil scheduler")
	}
}

func TestToolResultContent(t *testing.T) {
	t.Parallel()

	ok := contractx.ToolResult{Result: scheduling.RegistrationPayload{UserID: 3, Status: scheduling.RegistrationNew}}
	if got := ok.Content(); !strings.Contains(got, `"user_id":3`) {
		t.Fatalf("unexpected content: %s", got)
	}
	failed := contractx.ToolResult{Error: "boom", Result: errors.New("ignored")}
	if got := failed.Content(); got != `{"error":"boom"}` {
		t.Fatalf("unexpected content: %s", got)
	}
}
