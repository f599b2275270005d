package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ridwan-io/wikinote/backend/internal/middleware"
	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/ridwan-io/wikinote/backend/internal/repositories"
	"github.com/ridwan-io/wikinote/backend/internal/service"
	"gorm.io/gorm"
)

// AttachmentHandler handles HTTP requests related to page attachments
type AttachmentHandler struct {
	attachmentRepository repositories.AttachmentRepository
	pageRepository       repositories.PageRepository
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentRepo repositories.AttachmentRepository, pageRepo repositories.PageRepository) *AttachmentHandler {
	return &AttachmentHandler{attachmentRepository: attachmentRepo, pageRepository: pageRepo}
}

// RegisterAttachmentRoutes registers attachment-related routes
func (h *AttachmentHandler) RegisterAttachmentRoutes(g *echo.Group) {
	g.POST("/pages/:id/attachments", h.CreateAttachment)
	g.GET("/pages/:id/attachments", h.GetAttachments)
	g.DELETE("/attachments/:id", h.DeleteAttachment)
}

// CreateAttachment records a file attached to a page and captures an
// attachment_added event targeting the page
func (h *AttachmentHandler) CreateAttachment(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	pageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid page ID")
	}
	if _, err := h.pageRepository.GetPageByID(uint(pageID)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Page not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req models.CreateAttachmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	attachment := &models.Attachment{
		PageID:     uint(pageID),
		Filename:   req.Filename,
		StorageKey: uuid.NewString(),
		Size:       req.Size,
		UploaderID: currentUserID,
	}
	if err := h.attachmentRepository.CreateAttachment(attachment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	actorID := currentUserID
	middleware.RecorderFromContext(c).Capture(
		service.NewDomainEvent(models.EventAttachmentAdded, models.TargetPage, attachment.PageID, &actorID))

	return c.JSON(http.StatusCreated, attachment)
}

// GetAttachments lists the attachments on a page
func (h *AttachmentHandler) GetAttachments(c echo.Context) error {
	pageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid page ID")
	}

	attachments, err := h.attachmentRepository.GetAttachmentsByPageID(uint(pageID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"attachments": attachments}})
}

// DeleteAttachment removes an attachment and captures an attachment_removed
// event targeting the page it was on
func (h *AttachmentHandler) DeleteAttachment(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	attachmentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid attachment ID")
	}

	attachment, err := h.attachmentRepository.GetAttachmentByID(uint(attachmentID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Attachment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	actorID := currentUserID
	middleware.RecorderFromContext(c).Capture(
		service.NewDomainEvent(models.EventAttachmentRemoved, models.TargetPage, attachment.PageID, &actorID))

	if err := h.attachmentRepository.DeleteAttachment(attachment.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
