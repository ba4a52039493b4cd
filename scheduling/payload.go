package scheduling

const (
	MessageNoAppointment       = "No appointment found"
	MessageNoActiveAppointment = "No active appointment found to cancel"
)

// The payload types are the wire shape shared by the HTTP API and the assistant's tool
// results.

type RegistrationPayload struct {
	UserID int64              `json:"user_id"`
	Status RegistrationStatus `json:"status"`
}

type BookingPayload struct {
	AppointmentID int64             `json:"appointment_id"`
	Status        AppointmentStatus `json:"status"`
}

type AppointmentPayload struct {
	AppointmentID   int64             `json:"appointment_id"`
	AppointmentDate string            `json:"appointment_date"`
	AppointmentTime string            `json:"appointment_time"`
	Purpose         string            `json:"purpose"`
	Status          AppointmentStatus `json:"status"`
}

type MessagePayload struct {
	Message string `json:"message"`
}

func (r Registration) Payload() any {
	return RegistrationPayload{UserID: r.UserID, Status: r.Status}
}

func (b Booking) Payload() any {
	return BookingPayload{AppointmentID: b.AppointmentID, Status: b.Status}
}

func (c StatusCheck) Payload() any {
	if !c.Found {
		return MessagePayload{Message: MessageNoAppointment}
	}
	return AppointmentPayload{
		AppointmentID:   c.Appointment.ID,
		AppointmentDate: FormatDate(c.Appointment.Date),
		AppointmentTime: FormatTime(c.Appointment.Time),
		Purpose:         c.Appointment.Purpose,
		Status:          c.Appointment.Status,
	}
}

func (c Cancellation) Payload() any {
	if !c.Found {
		return MessagePayload{Message: MessageNoActiveAppointment}
	}
	return BookingPayload{AppointmentID: c.AppointmentID, Status: c.Status}
}
