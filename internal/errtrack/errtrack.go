// Package errtrack reports server failures to Sentry and renders API errors as JSON.
package errtrack

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	DSN         string
	Environment string
	Release     string
}

const internalErrorMessage = "internal server error"

var enabled bool

// Init is a no-op without a DSN.
func Init(cfg Config, logger *slog.Logger) error {
	if cfg.DSN == "" {
		if logger != nil {
			logger.Warn("sentry DSN not configured, error tracking disabled")
		}
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			if event.Request != nil && event.Request.Headers != nil {
				delete(event.Request.Headers, "Authorization")
				delete(event.Request.Headers, "Cookie")
				delete(event.Request.Headers, "X-Strava-Token")
			}
			return event
		},
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	enabled = true
	if logger != nil {
		logger.Info("sentry initialized", "environment", cfg.Environment)
	}
	return nil
}

func Flush(timeout time.Duration) bool {
	if !enabled {
		return true
	}
	return sentry.Flush(timeout)
}

var captureFn = func(err error, tags map[string]string) {
	if !enabled {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// ErrorHandler renders errors as {"error": msg}. Anything that is not a
// *fiber.Error, or is one with a 5xx code, is logged and reported. Errors that
// are not *fiber.Error reach clients only as a generic message.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := internalErrorMessage
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"status", code,
				"error", err,
			)
			captureFn(err, map[string]string{
				"method": c.Method(),
				"route":  c.Route().Path,
				"status": fmt.Sprint(code),
			})
		}

		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}
