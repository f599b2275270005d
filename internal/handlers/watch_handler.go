package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ridwan-io/wikinote/backend/internal/middleware"
	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/ridwan-io/wikinote/backend/internal/service"
)

// WatchHandler handles HTTP requests related to watches
type WatchHandler struct {
	watchService *service.WatchService
}

// NewWatchHandler creates a new WatchHandler
func NewWatchHandler(watchService *service.WatchService) *WatchHandler {
	return &WatchHandler{watchService: watchService}
}

// RegisterWatchRoutes registers watch-related routes
func (h *WatchHandler) RegisterWatchRoutes(g *echo.Group) {
	g.POST("/watch", h.CreateWatch)
	g.POST("/watch/toggle", h.ToggleWatch)
	g.DELETE("/watch", h.RemoveWatch)
	g.GET("/watch", h.ListWatches)
}

func toEventKinds(events []string) []models.WatchEventKind {
	kinds := make([]models.WatchEventKind, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, models.WatchEventKind(e))
	}
	return kinds
}

func watchErrorToHTTP(err error) error {
	switch err {
	case models.ErrTargetNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "Target not found")
	case models.ErrInvalidTarget, models.ErrInvalidEventKind:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// CreateWatch creates or updates a watch for the authenticated user
func (h *WatchHandler) CreateWatch(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.WatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	watch, err := h.watchService.Subscribe(currentUserID, models.WatchTargetType(req.TargetType), req.TargetID, toEventKinds(req.Events))
	if err != nil {
		return watchErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"watch":  watch,
			"events": watch.GetWatchedEvents(),
		},
	})
}

// ToggleWatch flips the watch state for the authenticated user
func (h *WatchHandler) ToggleWatch(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.WatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	watch, created, err := h.watchService.Toggle(currentUserID, models.WatchTargetType(req.TargetType), req.TargetID, toEventKinds(req.Events))
	if err != nil {
		return watchErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"watch":   watch,
			"events":  watch.GetWatchedEvents(),
			"created": created,
		},
	})
}

// RemoveWatch deactivates a watch for the authenticated user
func (h *WatchHandler) RemoveWatch(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UnwatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	removed, err := h.watchService.Unsubscribe(currentUserID, models.WatchTargetType(req.TargetType), req.TargetID)
	if err != nil {
		return watchErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"removed": removed}})
}

// ListWatches returns the authenticated user's active watches
func (h *WatchHandler) ListWatches(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetType := models.WatchTargetType(c.QueryParam("target_type"))
	watches, err := h.watchService.List(currentUserID, targetType)
	if err != nil {
		return watchErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"watches": watches}})
}
