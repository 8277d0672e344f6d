package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger writes one access log line per request through zerolog.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Status >= 400:
				ev = log.Warn()
			}
			ev.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
