package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Recovery logs a handler panic with its stack and returns a 500 whose body
// carries the request id.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				err = panicError(logger, c, r)
			}()
			return next(c)
		}
	}
}

func panicError(logger zerolog.Logger, c echo.Context, r any) *echo.HTTPError {
	rid := requestID(c)
	req := c.Request()
	logger.Error().
		Str("request_id", rid).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("panic", fmt.Sprint(r)).
		Str("stack", string(debug.Stack())).
		Msg("handler panicked")

	return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{
		"error":      "internal server error",
		"request_id": rid,
	})
}
