package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/ridwan-io/wikinote/backend/internal/service"
)

const recorderContextKey = "eventRecorder"

// EventRecorderMiddleware gives every request its own pending event queue and
// drains it through the fan-out processor after the response has been
// written. This is the single invocation path into the notification
// pipeline: mutation handlers only capture, the drain here does the matching
// and persistence. Because gorm writes are committed by the time the handler
// returns, drained events always refer to durable state.
func EventRecorderMiddleware(processor *service.FanoutProcessor) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			recorder := service.NewRecorder()
			c.Set(recorderContextKey, recorder)

			err := next(c)

			// A capture-time failure must never abort the mutation, and the
			// drain runs regardless of handler errors: events captured before
			// a later handler failure refer to writes that already committed.
			events := recorder.Drain()
			if len(events) > 0 {
				// Background context: the request context is done once the
				// response is written.
				processor.ProcessDrained(context.Background(), events)
			}
			return err
		}
	}
}

// RecorderFromContext returns the request's pending event queue. Handlers use
// it at mutation points; outside the middleware it returns a detached
// recorder whose events are never drained.
func RecorderFromContext(c echo.Context) *service.Recorder {
	if recorder, ok := c.Get(recorderContextKey).(*service.Recorder); ok {
		return recorder
	}
	return service.NewRecorder()
}
