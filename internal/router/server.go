package router

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/plant-catalog/internal/handler"
	"github.com/iliyamo/plant-catalog/internal/middleware"
)

// New returns an Echo instance with the JSON error envelope, panic
// recovery, request ids and request logging installed, and all routes
// registered.
func New(log *slog.Logger, health echo.HandlerFunc, p *handler.PlantHandler, mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))

	RegisterRoutes(e, health, p, mw...)
	return e
}
