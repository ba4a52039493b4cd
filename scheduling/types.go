package scheduling

import (
	"context"
	"time"
)

type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "Booked"
	StatusCancelled AppointmentStatus = "Cancelled"
)

type RegistrationStatus string

const (
	RegistrationNew      RegistrationStatus = "new"
	RegistrationExisting RegistrationStatus = "existing"
)

// Audit actions appended to the action log.
const (
	ActionUserRegistered       = "User Registered"
	ActionAppointmentBooked    = "Appointment Booked"
	ActionAppointmentCancelled = "Appointment Cancelled"
)

type User struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	CreatedAt   time.Time `json:"created_at"`
}

type Appointment struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	Date      time.Time         `json:"appointment_date"`
	Time      time.Time         `json:"appointment_time"`
	Purpose   string            `json:"purpose"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

type ActionLog struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

type Registration struct {
	UserID int64
	Status RegistrationStatus
}

type Booking struct {
	AppointmentID int64
	Status        AppointmentStatus
}

// StatusCheck is empty (Found == false) when the user has no appointment at all.
type StatusCheck struct {
	Found       bool
	Appointment Appointment
}

// Cancellation is empty (Found == false) when the user has no active appointment.
type Cancellation struct {
	Found         bool
	AppointmentID int64
	Status        AppointmentStatus
}

// Store is the persistence contract of the scheduling service. Writes only happen
// through a Tx handed out by RunInTx.
type Store interface {
	// RunInTx commits when fn returns nil and rolls back otherwise.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	LatestAppointment(ctx context.Context, userID int64) (*Appointment, error)
	ListUsers(ctx context.Context) ([]User, error)
	ListAppointments(ctx context.Context) ([]Appointment, error)
	ListActionLogs(ctx context.Context) ([]ActionLog, error)
}

type Tx interface {
	FindUser(ctx context.Context, name string, dateOfBirth time.Time) (*User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	// InsertUser sets u.ID and reports false when (name, date_of_birth) already exists.
	InsertUser(ctx context.Context, u *User) (bool, error)
	InsertAppointment(ctx context.Context, a *Appointment) error
	// CancelLatestActive returns ErrNotFound when the user has no Booked appointment.
	CancelLatestActive(ctx context.Context, userID int64) (int64, error)
	AppendAction(ctx context.Context, userID int64, action string) error
}
