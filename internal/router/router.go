package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/plant-catalog/internal/handler"
)

// RegisterRoutes registers the health check and the plant resources on the
// provided Echo instance.  mw is applied to the plant routes only, so the
// health check is never cached or rate limited.
//
//	GET    /plants      list all plants
//	POST   /plants      create a plant
//	GET    /plants/:id  fetch one plant
//	PATCH  /plants/:id  partially update a plant
//	DELETE /plants/:id  delete a plant
func RegisterRoutes(e *echo.Echo, health echo.HandlerFunc, p *handler.PlantHandler, mw ...echo.MiddlewareFunc) {
	e.GET("/healthz", health)

	e.GET("/plants", p.List, mw...)
	e.POST("/plants", p.Create, mw...)
	e.GET("/plants/:id", p.Get, mw...)
	e.PATCH("/plants/:id", p.Update, mw...)
	e.DELETE("/plants/:id", p.Delete, mw...)
}
