package handler // handler package contains the plant collection and item handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/plant-catalog/internal/model"
	"github.com/iliyamo/plant-catalog/internal/queue"
	"github.com/iliyamo/plant-catalog/internal/repository"
)

const (
	msgMissingFields = "Missing required fields"
	msgPlantNotFound = "Plant not found"
	msgInvalidBody   = "invalid request body"
)

// PlantStore is the data access the plant handlers depend on.
// *repository.PlantRepo satisfies it.
type PlantStore interface {
	ListAll(ctx context.Context) ([]model.Plant, error)
	GetByID(ctx context.Context, id uint64) (*model.Plant, error)
	Create(ctx context.Context, in repository.PlantInput) (*model.Plant, error)
	Update(ctx context.Context, id uint64, patch repository.PlantPatch) (*model.Plant, error)
	Delete(ctx context.Context, id uint64) error
}

// EventPublisher receives an event after every committed change.
// *service.Publisher satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.PlantEvent) error
}

// PlantHandler serves the /plants collection and /plants/:id item resources.
type PlantHandler struct {
	store  PlantStore
	events EventPublisher // nil disables publishing
	log    *slog.Logger
}

// NewPlantHandler constructs a PlantHandler and panics if the store is nil.
func NewPlantHandler(store PlantStore, events EventPublisher, log *slog.Logger) *PlantHandler {
	if store == nil {
		panic("nil store passed to NewPlantHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PlantHandler{store: store, events: events, log: log}
}

// List handles GET /plants and returns every plant as a JSON array.
func (h *PlantHandler) List(c echo.Context) error {
	plants, err := h.store.ListAll(c.Request().Context()) // fetch all rows
	if err != nil {
		return h.storageFailure(c, err)
	}
	return c.JSON(http.StatusOK, plants)
}

// Create handles POST /plants.  name, image and price must be present;
// is_in_stock defaults to true.
func (h *PlantHandler) Create(c echo.Context) error {
	var in repository.PlantInput
	if err := bindBody(c, &in); err != nil { // malformed JSON or wrong field types
		return c.JSON(http.StatusBadRequest, errorBody(msgInvalidBody))
	}
	plant, err := h.store.Create(c.Request().Context(), in)
	switch {
	case errors.Is(err, repository.ErrMissingFields):
		return c.JSON(http.StatusBadRequest, errorBody(msgMissingFields))
	case err != nil:
		return h.storageFailure(c, err)
	}
	h.publish(c, queue.PlantCreated, *plant)
	return c.JSON(http.StatusCreated, plant)
}

// Get handles GET /plants/:id.
func (h *PlantHandler) Get(c echo.Context) error {
	id, err := plantID(c)
	if err != nil {
		return err
	}
	plant, err := h.store.GetByID(c.Request().Context(), id)
	switch {
	case errors.Is(err, repository.ErrPlantNotFound):
		return c.JSON(http.StatusNotFound, errorBody(msgPlantNotFound))
	case err != nil:
		return h.storageFailure(c, err)
	}
	return c.JSON(http.StatusOK, plant)
}

// Update handles PATCH /plants/:id.  Existence is checked before the body
// is read, so an unknown id is a 404 whatever the payload.
func (h *PlantHandler) Update(c echo.Context) error {
	id, err := plantID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.store.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPlantNotFound) {
			return c.JSON(http.StatusNotFound, errorBody(msgPlantNotFound))
		}
		return h.storageFailure(c, err)
	}

	var patch repository.PlantPatch
	if err := bindBody(c, &patch); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(msgInvalidBody))
	}
	plant, err := h.store.Update(ctx, id, patch)
	switch {
	case errors.Is(err, repository.ErrPlantNotFound): // deleted between the lookup and the update
		return c.JSON(http.StatusNotFound, errorBody(msgPlantNotFound))
	case err != nil:
		return h.storageFailure(c, err)
	}
	h.publish(c, queue.PlantUpdated, *plant)
	return c.JSON(http.StatusOK, plant)
}

// Delete handles DELETE /plants/:id and answers 204 with an empty body.
func (h *PlantHandler) Delete(c echo.Context) error {
	id, err := plantID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	plant, err := h.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlantNotFound) {
			return c.JSON(http.StatusNotFound, errorBody(msgPlantNotFound))
		}
		return h.storageFailure(c, err)
	}
	switch err := h.store.Delete(ctx, id); {
	case errors.Is(err, repository.ErrPlantNotFound):
		return c.JSON(http.StatusNotFound, errorBody(msgPlantNotFound))
	case err != nil:
		return h.storageFailure(c, err)
	}
	h.publish(c, queue.PlantDeleted, *plant)
	return c.NoContent(http.StatusNoContent)
}

// storageFailure answers 500 and echoes the storage error message.
func (h *PlantHandler) storageFailure(c echo.Context, err error) error {
	attrs := []any{"error", err, "method", c.Request().Method, "path", c.Request().URL.Path}
	level := slog.LevelError
	var se *repository.StorageError
	if errors.As(err, &se) {
		attrs = append(attrs, "op", se.Op, "constraint", se.Constraint)
		if se.Constraint { // the request was at fault, not the database
			level = slog.LevelWarn
		}
	}
	h.log.Log(c.Request().Context(), level, "storage failure", attrs...)
	return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
}

// publish emits a lifecycle event.  Failures are already logged by the
// publisher and never change the response.
func (h *PlantHandler) publish(c echo.Context, typ string, p model.Plant) {
	if h.events == nil {
		return
	}
	ev := queue.NewPlantEvent(typ, p)
	if err := h.events.Publish(c.Request().Context(), ev); err != nil {
		h.log.Warn("event not published", "type", typ, "plant_id", p.ID, "event_id", ev.ID)
	}
}

// plantID parses the :id path parameter.  A non-numeric id never matches a
// plant route, so it is reported as an unknown URL.  Ids are capped at 63
// bits, the largest value the SQL drivers accept.
func plantID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 63)
	if err != nil {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// bindBody decodes only the request body; path and query parameters are
// not bound into the payload structs.
func bindBody(c echo.Context, dst any) error {
	return new(echo.DefaultBinder).BindBody(c, dst)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
