package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	metricsx "github.com/tanpawarit/appointment-assistant/pkg/metrics"
)

// Service implements the scheduling operations shared by the HTTP endpoints and the
// assistant's tools.
type Service struct {
	store Store
}

func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("scheduling store is required")
	}
	return &Service{store: store}, nil
}

// RegisterUser is idempotent on (name, date of birth): a repeated pair returns the
// existing id and writes nothing.
func (s *Service) RegisterUser(ctx context.Context, name, dateOfBirth string) (out Registration, err error) {
	defer func() { observe("register_user", err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return Registration{}, fmt.Errorf("%w: name is required", ErrInvalidFormat)
	}
	dob, err := ParseDate(dateOfBirth)
	if err != nil {
		return Registration{}, err
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		existing, err := tx.FindUser(ctx, name, dob)
		if err == nil {
			out = Registration{UserID: existing.ID, Status: RegistrationExisting}
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		user := &User{Name: name, DateOfBirth: dob}
		created, err := tx.InsertUser(ctx, user)
		if err != nil {
			return err
		}
		if !created {
			// lost a race against a concurrent registration of the same pair
			existing, err := tx.FindUser(ctx, name, dob)
			if err != nil {
				return err
			}
			out = Registration{UserID: existing.ID, Status: RegistrationExisting}
			return nil
		}

		if err := tx.AppendAction(ctx, user.ID, ActionUserRegistered); err != nil {
			return err
		}
		out = Registration{UserID: user.ID, Status: RegistrationNew}
		return nil
	})
	if err != nil {
		return Registration{}, storageError(err)
	}

	log.Ctx(ctx).Info().
		Int64("user_id", out.UserID).
		Str("status", string(out.Status)).
		Msg("user registration handled")
	return out, nil
}

func (s *Service) BookAppointment(ctx context.Context, userID any, date, clock, purpose string) (out Booking, err error) {
	defer func() { observe("book_appointment", err) }()

	id, err := ParseUserID(userID)
	if err != nil {
		return Booking{}, err
	}
	day, err := ParseDate(date)
	if err != nil {
		return Booking{}, err
	}
	at, err := ParseTime(clock)
	if err != nil {
		return Booking{}, err
	}

	appt := &Appointment{
		UserID:  id,
		Date:    day,
		Time:    at,
		Purpose: strings.TrimSpace(purpose),
		Status:  StatusBooked,
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		exists, err := tx.UserExists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: id=%d", ErrUserNotFound, id)
		}
		if err := tx.InsertAppointment(ctx, appt); err != nil {
			return err
		}
		return tx.AppendAction(ctx, id, ActionAppointmentBooked)
	})
	if err != nil {
		return Booking{}, storageError(err)
	}

	log.Ctx(ctx).Info().
		Int64("user_id", id).
		Int64("appointment_id", appt.ID).
		Msg("appointment booked")
	return Booking{AppointmentID: appt.ID, Status: StatusBooked}, nil
}

// CheckAppointmentStatus returns the user's most recently created appointment in any status.
func (s *Service) CheckAppointmentStatus(ctx context.Context, userID any) (out StatusCheck, err error) {
	defer func() { observe("check_appointment_status", err) }()

	id, err := ParseUserID(userID)
	if err != nil {
		return StatusCheck{}, err
	}

	appt, err := s.store.LatestAppointment(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return StatusCheck{}, nil
	}
	if err != nil {
		return StatusCheck{}, storageError(err)
	}
	return StatusCheck{Found: true, Appointment: *appt}, nil
}

// CancelAppointment cancels the most recent appointment that is not already cancelled.
func (s *Service) CancelAppointment(ctx context.Context, userID any) (out Cancellation, err error) {
	defer func() { observe("cancel_appointment", err) }()

	id, err := ParseUserID(userID)
	if err != nil {
		return Cancellation{}, err
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		apptID, err := tx.CancelLatestActive(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.AppendAction(ctx, id, ActionAppointmentCancelled); err != nil {
			return err
		}
		out = Cancellation{Found: true, AppointmentID: apptID, Status: StatusCancelled}
		return nil
	})
	if err != nil {
		return Cancellation{}, storageError(err)
	}

	if out.Found {
		log.Ctx(ctx).Info().
			Int64("user_id", id).
			Int64("appointment_id", out.AppointmentID).
			Msg("appointment cancelled")
	}
	return out, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.store.ListUsers(ctx)
	return users, storageError(err)
}

func (s *Service) ListAppointments(ctx context.Context) ([]Appointment, error) {
	appts, err := s.store.ListAppointments(ctx)
	return appts, storageError(err)
}

func (s *Service) ListActionLogs(ctx context.Context) ([]ActionLog, error) {
	logs, err := s.store.ListActionLogs(ctx)
	return logs, storageError(err)
}

func observe(operation string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case IsClientError(err):
		result = "rejected"
	default:
		result = "error"
	}
	metricsx.ObserveOperation(operation, result)
}
