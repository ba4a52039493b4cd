package server

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	logx "github.com/tanpawarit/appointment-assistant/pkg/logger"
	metricsx "github.com/tanpawarit/appointment-assistant/pkg/metrics"
)

// accessLog attaches a request-scoped logger to the user context and records one log line
// and one metric per request.
func accessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		logger := logx.Component("http").With().
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Logger()
		c.SetUserContext(logger.WithContext(c.UserContext()))

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		path := c.Route().Path

		metricsx.ObserveHTTPRequest(c.Method(), path, strconv.Itoa(status), elapsed)

		event := logger.Info()
		if status >= fiber.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("http request")
		return nil
	}
}
