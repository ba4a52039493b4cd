package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	contractx "github.com/tanpawarit/appointment-assistant/agent/contract"
)

type Handler struct {
	scheduler Scheduler
	assistant contractx.Assistant
}

func NewHandler(scheduler Scheduler, assistant contractx.Assistant) *Handler {
	return &Handler{scheduler: scheduler, assistant: assistant}
}

func (h *Handler) Home(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Appointment assistant backend is running"})
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidInput})
	}

	out, err := h.scheduler.RegisterUser(c.UserContext(), input.Name, input.DateOfBirth)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(out.Payload())
}

func (h *Handler) BookAppointment(c *fiber.Ctx) error {
	var input BookAppointmentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidInput})
	}

	out, err := h.scheduler.BookAppointment(c.UserContext(),
		input.UserID, input.AppointmentDate, input.AppointmentTime, input.Purpose)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(out.Payload())
}

func (h *Handler) CheckAppointmentStatus(c *fiber.Ctx) error {
	var input UserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidInput})
	}

	out, err := h.scheduler.CheckAppointmentStatus(c.UserContext(), input.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(out.Payload())
}

func (h *Handler) CancelAppointment(c *fiber.Ctx) error {
	var input UserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidInput})
	}

	out, err := h.scheduler.CancelAppointment(c.UserContext(), input.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(out.Payload())
}

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.scheduler.ListUsers(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toUserViews(users))
}

func (h *Handler) ListAppointments(c *fiber.Ctx) error {
	appts, err := h.scheduler.ListAppointments(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAppointmentViews(appts))
}

func (h *Handler) ListActionLogs(c *fiber.Ctx) error {
	logs, err := h.scheduler.ListActionLogs(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toActionLogViews(logs))
}

func (h *Handler) Chat(c *fiber.Ctx) error {
	var input ChatInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidInput})
	}
	if strings.TrimSpace(input.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message is required"})
	}
	if h.assistant == nil {
		return writeError(c, contractx.ErrModelUnavailable)
	}

	reply, err := h.assistant.Reply(c.UserContext(), contractx.ChatRequest{
		Message: input.Message,
		Model:   input.Model,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(contractx.ChatResponse{Reply: reply})
}
