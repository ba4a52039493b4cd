package server

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	contractx "github.com/tanpawarit/appointment-assistant/agent/contract"
	"github.com/tanpawarit/appointment-assistant/scheduling"
)

type Config struct {
	Addr string `envconfig:"ADDR" split_words:"true" default:":8000"`
	Name string `envconfig:"NAME" split_words:"true" default:"appointment-assistant"`
}

// Scheduler is the scheduling surface served over HTTP.
type Scheduler interface {
	contractx.Scheduler
	ListUsers(ctx context.Context) ([]scheduling.User, error)
	ListAppointments(ctx context.Context) ([]scheduling.Appointment, error)
	ListActionLogs(ctx context.Context) ([]scheduling.ActionLog, error)
}

// New builds the fiber app. assistant may be nil, in which case /chat reports that the
// model is not configured.
func New(cfg Config, scheduler Scheduler, assistant contractx.Assistant) (*fiber.App, error) {
	if scheduler == nil {
		return nil, errors.New("scheduler is required")
	}

	app := fiber.New(fiber.Config{
		AppName:               strings.TrimSpace(cfg.Name),
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(accessLog())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "*",
	}))

	RegisterRoutes(app, NewHandler(scheduler, assistant))
	return app, nil
}

func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Get("/", h.Home)

	app.Post("/register", h.Register)
	app.Post("/book-appointment", h.BookAppointment)
	app.Post("/check-appointment-status", h.CheckAppointmentStatus)
	app.Post("/cancel-appointment", h.CancelAppointment)

	app.Get("/users", h.ListUsers)
	app.Get("/appointments", h.ListAppointments)
	app.Get("/logs", h.ListActionLogs)

	app.Post("/chat", h.Chat)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
