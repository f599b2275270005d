package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ridwan-io/wikinote/backend/internal/middleware"
	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/ridwan-io/wikinote/backend/internal/repositories"
	"github.com/ridwan-io/wikinote/backend/internal/service"
	"gorm.io/gorm"
)

// CategoryHandler handles HTTP requests related to categories
type CategoryHandler struct {
	categoryRepository repositories.CategoryRepository
	pageRepository     repositories.PageRepository
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryRepo repositories.CategoryRepository, pageRepo repositories.PageRepository) *CategoryHandler {
	return &CategoryHandler{categoryRepository: categoryRepo, pageRepository: pageRepo}
}

// RegisterCategoryRoutes registers category-related routes
func (h *CategoryHandler) RegisterCategoryRoutes(g *echo.Group) {
	g.POST("/categories", h.CreateCategory)
	g.GET("/categories", h.GetCategories)
	g.GET("/categories/:id", h.GetCategory)
	g.PUT("/categories/:id", h.UpdateCategory)
	g.DELETE("/categories/:id", h.DeleteCategory)
}

// CreateCategory creates a new category and captures a category_created event
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.ParentID != nil {
		if _, err := h.categoryRepository.GetCategoryByID(*req.ParentID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Parent category not found")
		}
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
	if err := h.categoryRepository.CreateCategory(category); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	actorID := currentUserID
	middleware.RecorderFromContext(c).Capture(
		service.NewDomainEvent(models.EventCategoryCreated, models.TargetCategory, category.ID, &actorID))

	return c.JSON(http.StatusCreated, category)
}

// GetCategories lists all categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	categories, err := h.categoryRepository.GetCategories()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"categories": categories}})
}

// GetCategory retrieves a category and its pages
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category ID")
	}

	category, err := h.categoryRepository.GetCategoryByID(uint(categoryID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Category not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pages, err := h.pageRepository.GetPagesByCategoryID(category.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"category": category,
			"pages":    pages,
		},
	})
}

// UpdateCategory renames or reparents a category and captures a
// category_updated event. Reparenting is rejected when it would make the
// parent chain circular.
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category ID")
	}

	var req models.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.categoryRepository.GetCategoryByID(uint(categoryID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Category not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.ParentID != nil {
		if *req.ParentID == category.ID {
			return echo.NewHTTPError(http.StatusBadRequest, models.ErrCategoryCycle.Error())
		}
		if _, err := h.categoryRepository.GetCategoryByID(*req.ParentID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Parent category not found")
		}
		cycle, err := h.categoryRepository.WouldCreateCycle(category.ID, *req.ParentID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if cycle {
			return echo.NewHTTPError(http.StatusBadRequest, models.ErrCategoryCycle.Error())
		}
		category.ParentID = req.ParentID
	}
	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Description != "" {
		category.Description = req.Description
	}

	if err := h.categoryRepository.UpdateCategory(category); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	actorID := currentUserID
	middleware.RecorderFromContext(c).Capture(
		service.NewDomainEvent(models.EventCategoryUpdated, models.TargetCategory, category.ID, &actorID))

	return c.JSON(http.StatusOK, category)
}

// DeleteCategory removes an empty category. Watch rows on the category
// survive the delete, so watchers are still notified of the removal.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category ID")
	}

	category, err := h.categoryRepository.GetCategoryByID(uint(categoryID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Category not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pages, err := h.pageRepository.GetPagesByCategoryID(category.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(pages) > 0 {
		return echo.NewHTTPError(http.StatusConflict, "Category still contains pages")
	}

	actorID := currentUserID
	middleware.RecorderFromContext(c).Capture(
		service.NewDomainEvent(models.EventCategoryDeleted, models.TargetCategory, category.ID, &actorID))

	if err := h.categoryRepository.DeleteCategory(category.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
