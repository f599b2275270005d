package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ridwan-io/wikinote/backend/internal/middleware"
	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/ridwan-io/wikinote/backend/internal/repositories"
	"github.com/ridwan-io/wikinote/backend/internal/service"
	"gorm.io/gorm"
)

// PageHandler handles HTTP requests related to wiki pages
type PageHandler struct {
	pageRepository     repositories.PageRepository
	categoryRepository repositories.CategoryRepository
	revisionRepository repositories.RevisionRepository
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(pageRepo repositories.PageRepository, categoryRepo repositories.CategoryRepository, revisionRepo repositories.RevisionRepository) *PageHandler {
	return &PageHandler{
		pageRepository:     pageRepo,
		categoryRepository: categoryRepo,
		revisionRepository: revisionRepo,
	}
}

// RegisterPageRoutes registers page-related routes
func (h *PageHandler) RegisterPageRoutes(g *echo.Group) {
	g.POST("/pages", h.CreatePage)
	g.GET("/pages/:id", h.GetPage)
	g.GET("/pages/:id/revisions", h.GetPageRevisions)
	g.PUT("/pages/:id", h.UpdatePage)
	g.DELETE("/pages/:id", h.DeletePage)
}

// CreatePage creates a new page and captures a page_created event
func (h *PageHandler) CreatePage(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.CategoryID != nil {
		if _, err := h.categoryRepository.GetCategoryByID(*req.CategoryID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Category not found")
		}
	}

	page := &models.Page{
		Title:      req.Title,
		Slug:       req.Slug,
		Content:    req.Content,
		Summary:    req.Summary,
		CategoryID: req.CategoryID,
		AuthorID:   currentUserID,
	}
	if err := h.pageRepository.CreatePage(page); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.archiveRevision(page, currentUserID, "initial version")

	actorID := currentUserID
	middleware.RecorderFromContext(c).Capture(
		service.NewDomainEvent(models.EventPageCreated, models.TargetPage, page.ID, &actorID))

	return c.JSON(http.StatusCreated, page)
}

// GetPage retrieves a page by ID. The view counter bump is a denormalized
// write and deliberately captures no event.
func (h *PageHandler) GetPage(c echo.Context) error {
	pageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid page ID")
	}

	page, err := h.pageRepository.GetPageByID(uint(pageID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Page not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	go h.pageRepository.IncrementViewCount(page.ID)

	return c.JSON(http.StatusOK, page)
}

// GetPageRevisions lists archived revisions of a page, newest first
func (h *PageHandler) GetPageRevisions(c echo.Context) error {
	pageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid page ID")
	}

	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 50 {
		limit = 20
	}

	revisions, err := h.revisionRepository.GetRevisionsByPageID(c.Request().Context(), uint(pageID), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"revisions": revisions}})
}

// UpdatePage applies a content edit and captures a page_updated event when
// the edit actually changed something meaningful
func (h *PageHandler) UpdatePage(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	pageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid page ID")
	}

	var req models.UpdatePageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page, err := h.pageRepository.GetPageByID(uint(pageID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Page not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	changed := false
	if req.Title != "" && req.Title != page.Title {
		page.Title = req.Title
		changed = true
	}
	if req.Content != "" && req.Content != page.Content {
		page.Content = req.Content
		changed = true
	}
	if req.Summary != "" && req.Summary != page.Summary {
		page.Summary = req.Summary
		changed = true
	}
	if !changed {
		return c.JSON(http.StatusOK, page)
	}

	if err := h.pageRepository.UpdatePage(page); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.archiveRevision(page, currentUserID, req.ChangeSummary)

	actorID := currentUserID
	middleware.RecorderFromContext(c).Capture(
		service.NewDomainEvent(models.EventPageUpdated, models.TargetPage, page.ID, &actorID))

	return c.JSON(http.StatusOK, page)
}

// DeletePage removes a page. The event is captured before the delete because
// the identifying data is gone afterwards.
func (h *PageHandler) DeletePage(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	pageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid page ID")
	}

	page, err := h.pageRepository.GetPageByID(uint(pageID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Page not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	actorID := currentUserID
	middleware.RecorderFromContext(c).Capture(
		service.NewDomainEvent(models.EventPageDeleted, models.TargetPage, page.ID, &actorID))

	if err := h.pageRepository.DeletePage(page.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	go h.revisionRepository.DeleteRevisionsByPageID(context.Background(), page.ID)

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// archiveRevision writes a revision document to the archive. Best effort:
// archive failures never abort the page mutation.
func (h *PageHandler) archiveRevision(page *models.Page, editorID uint, changeSummary string) {
	revision := &models.PageRevision{
		PageID:        page.ID,
		Title:         page.Title,
		Content:       page.Content,
		EditorID:      editorID,
		ChangeSummary: changeSummary,
	}
	go h.revisionRepository.ArchiveRevision(context.Background(), revision)
}
