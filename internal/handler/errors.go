package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// notFoundDescription is the error text for URLs that match no route.
const notFoundDescription = "404 Not Found: The requested URL was not found on the server. " +
	"If you entered the URL manually please check your spelling and try again."

// ErrorHandler renders every error that reaches echo as {"error": message}.
// Unmatched routes get a 404 with notFoundDescription; any error that is not
// an *echo.HTTPError is logged and reported as a generic 500.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	if log == nil {
		log = slog.Default()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = fmt.Sprint(he.Message)
			if he.Internal != nil {
				log.Debug("http error", "code", code, "internal", he.Internal)
			}
		} else {
			log.Error("unhandled error", "error", err, "method", c.Request().Method, "path", c.Request().URL.Path)
		}
		if code == http.StatusNotFound {
			msg = notFoundDescription
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, errorBody(msg))
		}
		if werr != nil {
			log.Error("write error response", "error", werr)
		}
	}
}
