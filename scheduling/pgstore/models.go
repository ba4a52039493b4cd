package pgstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/tanpawarit/appointment-assistant/scheduling"
)

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Name        string    `bun:"name,type:varchar(100),notnull,unique:users_name_dob"`
	DateOfBirth time.Time `bun:"date_of_birth,type:date,notnull,unique:users_name_dob"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type appointmentRow struct {
	bun.BaseModel `bun:"table:appointments,alias:a"`

	ID              int64     `bun:"id,pk,autoincrement"`
	UserID          int64     `bun:"user_id,notnull"`
	AppointmentDate time.Time `bun:"appointment_date,type:date,notnull"`
	AppointmentTime string    `bun:"appointment_time,type:time,notnull"`
	Purpose         string    `bun:"purpose,type:text"`
	Status          string    `bun:"status,type:varchar(50),notnull"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type actionLogRow struct {
	bun.BaseModel `bun:"table:action_logs,alias:l"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id"`
	Action    string    `bun:"action,type:text"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (r userRow) toDomain() scheduling.User {
	return scheduling.User{
		ID:          r.ID,
		Name:        r.Name,
		DateOfBirth: r.DateOfBirth,
		CreatedAt:   r.CreatedAt,
	}
}

func (r appointmentRow) toDomain() scheduling.Appointment {
	// TIME columns come back as text; a malformed value leaves the zero clock.
	clock, _ := scheduling.ParseTime(trimFraction(r.AppointmentTime))
	return scheduling.Appointment{
		ID:        r.ID,
		UserID:    r.UserID,
		Date:      r.AppointmentDate,
		Time:      clock,
		Purpose:   r.Purpose,
		Status:    scheduling.AppointmentStatus(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

func (r actionLogRow) toDomain() scheduling.ActionLog {
	return scheduling.ActionLog{
		ID:        r.ID,
		UserID:    r.UserID,
		Action:    r.Action,
		CreatedAt: r.CreatedAt,
	}
}

func trimFraction(clock string) string {
	for i, ch := range clock {
		if ch == '.' {
			return clock[:i]
		}
	}
	return clock
}
