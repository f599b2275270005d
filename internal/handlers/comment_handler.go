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

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository    repositories.CommentRepository
	pageRepository       repositories.PageRepository
	attachmentRepository repositories.AttachmentRepository
	mentionService       *service.MentionService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, pageRepo repositories.PageRepository, attachmentRepo repositories.AttachmentRepository, mentionService *service.MentionService) *CommentHandler {
	return &CommentHandler{
		commentRepository:    commentRepo,
		pageRepository:       pageRepo,
		attachmentRepository: attachmentRepo,
		mentionService:       mentionService,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/pages/:id/comments", h.CreatePageComment)
	g.POST("/attachments/:id/comments", h.CreateAttachmentComment)
	g.GET("/pages/:id/comments", h.GetPageComments)
	g.GET("/comments/:id", h.GetComment)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreatePageComment creates a comment on a page, captures a comment_added
// event, and runs mention extraction on the content
func (h *CommentHandler) CreatePageComment(c echo.Context) error {
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

	return h.createComment(c, currentUserID, models.CommentOnPage, uint(pageID), uint(pageID))
}

// CreateAttachmentComment creates a comment on an attachment. The mention and
// comment events target the attachment's page so notifications link somewhere
// navigable.
func (h *CommentHandler) CreateAttachmentComment(c echo.Context) error {
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

	return h.createComment(c, currentUserID, models.CommentOnAttachment, attachment.ID, attachment.PageID)
}

func (h *CommentHandler) createComment(c echo.Context, authorID uint, targetType models.CommentTargetType, targetID, pageID uint) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.ParentID != nil {
		parent, err := h.commentRepository.GetCommentByID(*req.ParentID)
		if err != nil || parent.TargetType != targetType || parent.TargetID != targetID {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid parent comment")
		}
	}

	comment := &models.Comment{
		Content:    req.Content,
		TargetType: targetType,
		TargetID:   targetID,
		AuthorID:   authorID,
		ParentID:   req.ParentID,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	recorder := middleware.RecorderFromContext(c)

	actorID := authorID
	event := service.NewDomainEvent(models.EventCommentAdded, models.TargetPage, pageID, &actorID)
	event.CommentID = comment.ID
	recorder.Capture(event)

	h.mentionService.ProcessComment(comment, pageID, recorder)

	return c.JSON(http.StatusCreated, comment)
}

// GetPageComments lists the live comments on a page
func (h *CommentHandler) GetPageComments(c echo.Context) error {
	pageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid page ID")
	}

	comments, err := h.commentRepository.GetCommentsByTarget(models.CommentOnPage, uint(pageID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comments": comments}})
}

// GetComment returns a single comment with its mentions and their read state
func (h *CommentHandler) GetComment(c echo.Context) error {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.IsDeleted {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	mentions, err := h.mentionService.ListByComment(comment.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"comment":  comment,
			"mentions": mentions,
		},
	})
}

// UpdateComment edits a comment's content and re-runs mention extraction.
// Mentions removed by the edit stop producing notifications; newly added
// @-tags produce fresh ones.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.AuthorID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not the comment author")
	}
	if comment.IsDeleted {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	if comment.Content == req.Content {
		return c.JSON(http.StatusOK, comment)
	}

	comment.Content = req.Content
	comment.IsEdited = true
	if err := h.commentRepository.UpdateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pageID, err := h.resolvePageID(comment)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.mentionService.ReprocessComment(comment, pageID, middleware.RecorderFromContext(c))

	return c.JSON(http.StatusOK, comment)
}

// DeleteComment soft-deletes a comment; the row stays for thread integrity
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := middleware.UserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.AuthorID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not the comment author")
	}

	if err := h.commentRepository.SoftDeleteComment(comment.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *CommentHandler) resolvePageID(comment *models.Comment) (uint, error) {
	if comment.TargetType == models.CommentOnPage {
		return comment.TargetID, nil
	}
	attachment, err := h.attachmentRepository.GetAttachmentByID(comment.TargetID)
	if err != nil {
		return 0, err
	}
	return attachment.PageID, nil
}
