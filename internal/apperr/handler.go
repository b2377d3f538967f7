package apperr

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// envelope is the JSON body returned for every failed request.
type envelope struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// EchoErrorHandler returns an echo.HTTPErrorHandler that renders every error
// as the uniform envelope. Classified *Error values keep their status, code
// and message. echo's own *HTTPError (404 route miss, 405, bind failures)
// keeps its status. Anything else becomes an opaque 500; the cause is logged
// but never sent to the client.
func EchoErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := "Internal server error"
		code := ""

		switch e := err.(type) {
		case *Error:
			status = e.Status
			msg = e.Message
			code = e.Code
			if e.Err != nil {
				log.Error().Err(e.Err).Str("path", c.Request().URL.Path).Msg(e.Message)
			}
		case *echo.HTTPError:
			status = e.Code
			if s, ok := e.Message.(string); ok {
				msg = s
			} else {
				msg = http.StatusText(status)
			}
		default:
			log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unhandled error")
		}

		body := envelope{
			Status:    "error",
			Message:   msg,
			ErrorCode: code,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Path:      c.Request().URL.Path,
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
