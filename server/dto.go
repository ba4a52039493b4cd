package server

import (
	"github.com/tanpawarit/appointment-assistant/scheduling"
)

type RegisterInput struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
}

// UserID is left untyped so both "7" and 7 reach scheduling.ParseUserID.
type BookAppointmentInput struct {
	UserID          any    `json:"user_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Purpose         string `json:"purpose"`
}

type UserInput struct {
	UserID any `json:"user_id"`
}

type ChatInput struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

type UserView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	CreatedAt   string `json:"created_at"`
}

type AppointmentView struct {
	ID              int64                        `json:"id"`
	UserID          int64                        `json:"user_id"`
	AppointmentDate string                       `json:"appointment_date"`
	AppointmentTime string                       `json:"appointment_time"`
	Purpose         string                       `json:"purpose"`
	Status          scheduling.AppointmentStatus `json:"status"`
	CreatedAt       string                       `json:"created_at"`
}

type ActionLogView struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Action    string `json:"action"`
	CreatedAt string `json:"created_at"`
}

const timestampLayout = "2006-01-02T15:04:05"

func toUserViews(users []scheduling.User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, UserView{
			ID:          u.ID,
			Name:        u.Name,
			DateOfBirth: scheduling.FormatDate(u.DateOfBirth),
			CreatedAt:   u.CreatedAt.Format(timestampLayout),
		})
	}
	return out
}

func toAppointmentViews(appts []scheduling.Appointment) []AppointmentView {
	out := make([]AppointmentView, 0, len(appts))
	for _, a := range appts {
		out = append(out, AppointmentView{
			ID:              a.ID,
			UserID:          a.UserID,
			AppointmentDate: scheduling.FormatDate(a.Date),
			AppointmentTime: scheduling.FormatTime(a.Time),
			Purpose:         a.Purpose,
			Status:          a.Status,
			CreatedAt:       a.CreatedAt.Format(timestampLayout),
		})
	}
	return out
}

func toActionLogViews(logs []scheduling.ActionLog) []ActionLogView {
	out := make([]ActionLogView, 0, len(logs))
	for _, l := range logs {
		out = append(out, ActionLogView{
			ID:        l.ID,
			UserID:    l.UserID,
			Action:    l.Action,
			CreatedAt: l.CreatedAt.Format(timestampLayout),
		})
	}
	return out
}
