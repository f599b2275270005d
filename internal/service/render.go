package service

import (
	"fmt"
	"unicode/utf8"

	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/ridwan-io/wikinote/backend/internal/repositories"
)

const unknownName = "Unknown"

// Renderer builds notification title/message/link text from an event using a
// best-effort snapshot of the target and actor display names. Lookups fall
// back to placeholders when the target was concurrently removed.
type Renderer struct {
	pages    repositories.PageRepository
	cats     repositories.CategoryRepository
	comments repositories.CommentRepository
	users    repositories.UserRepository

	// baseURL prefixes rendered links; empty means site-relative links
	baseURL string
}

// NewRenderer creates a new Renderer
func NewRenderer(pages repositories.PageRepository, cats repositories.CategoryRepository, comments repositories.CommentRepository, users repositories.UserRepository, baseURL string) *Renderer {
	return &Renderer{pages: pages, cats: cats, comments: comments, users: users, baseURL: baseURL}
}

// Render fills the notification's title, message and URL for the event
func (r *Renderer) Render(event DomainEvent, notification *models.Notification) {
	actorName := unknownName
	if event.ActorID != nil {
		if actor, err := r.users.GetUserByID(*event.ActorID); err == nil {
			actorName = actor.Username
		}
	}

	switch event.Kind {
	case models.EventPageCreated:
		title, url := r.pageSnapshot(event.TargetID)
		notification.Title = fmt.Sprintf("New page created: %s", title)
		notification.Message = fmt.Sprintf("%s created a new page %q", actorName, title)
		notification.URL = url

	case models.EventPageUpdated:
		title, url := r.pageSnapshot(event.TargetID)
		notification.Title = fmt.Sprintf("Page updated: %s", title)
		notification.Message = fmt.Sprintf("%s updated the page %q", actorName, title)
		notification.URL = url

	case models.EventPageDeleted:
		notification.Title = "Page deleted"
		notification.Message = fmt.Sprintf("%s deleted a page", actorName)

	case models.EventCategoryCreated:
		name, url := r.categorySnapshot(event.TargetID)
		notification.Title = fmt.Sprintf("New category created: %s", name)
		notification.Message = fmt.Sprintf("%s created a new category %q", actorName, name)
		notification.URL = url

	case models.EventCategoryUpdated:
		name, url := r.categorySnapshot(event.TargetID)
		notification.Title = fmt.Sprintf("Category updated: %s", name)
		notification.Message = fmt.Sprintf("%s updated the category %q", actorName, name)
		notification.URL = url

	case models.EventCategoryDeleted:
		notification.Title = "Category deleted"
		notification.Message = fmt.Sprintf("%s deleted a category", actorName)

	case models.EventAttachmentAdded:
		title, url := r.pageSnapshot(event.TargetID)
		notification.Title = fmt.Sprintf("Attachment added to: %s", title)
		notification.Message = fmt.Sprintf("%s added an attachment to %q", actorName, title)
		notification.URL = url

	case models.EventAttachmentRemoved:
		title, url := r.pageSnapshot(event.TargetID)
		notification.Title = fmt.Sprintf("Attachment removed from: %s", title)
		notification.Message = fmt.Sprintf("%s removed an attachment from %q", actorName, title)
		notification.URL = url

	case models.EventCommentAdded:
		title, url := r.pageSnapshot(event.TargetID)
		notification.Title = fmt.Sprintf("New comment on: %s", title)
		notification.Message = fmt.Sprintf("%s commented on %q: %q", actorName, title, r.commentSnippet(event.CommentID))
		notification.URL = r.commentURL(url, event.CommentID)

	case models.EventCommentMention:
		title, url := r.pageSnapshot(event.TargetID)
		notification.Title = fmt.Sprintf("You were mentioned in a comment on: %s", title)
		notification.Message = fmt.Sprintf("%s mentioned you in a comment on %q: %q", actorName, title, r.commentSnippet(event.CommentID))
		notification.URL = r.commentURL(url, event.CommentID)
	}
}

func (r *Renderer) pageSnapshot(pageID uint) (title, url string) {
	page, err := r.pages.GetPageByID(pageID)
	if err != nil {
		return unknownName, ""
	}
	return page.Title, fmt.Sprintf("%s/page/%s", r.baseURL, page.Slug)
}

func (r *Renderer) categorySnapshot(categoryID uint) (name, url string) {
	category, err := r.cats.GetCategoryByID(categoryID)
	if err != nil {
		return unknownName, ""
	}
	return category.Name, fmt.Sprintf("%s/category/%d", r.baseURL, category.ID)
}

func (r *Renderer) commentSnippet(commentID uint) string {
	if commentID == 0 {
		return ""
	}
	comment, err := r.comments.GetCommentByID(commentID)
	if err != nil {
		return ""
	}
	// Truncate on rune boundaries so multi-byte content stays valid UTF-8
	content := comment.Content
	if utf8.RuneCountInString(content) > 100 {
		runes := []rune(content)
		content = string(runes[:100]) + "..."
	}
	return content
}

func (r *Renderer) commentURL(pageURL string, commentID uint) string {
	if pageURL == "" || commentID == 0 {
		return pageURL
	}
	return fmt.Sprintf("%s#comment-%d", pageURL, commentID)
}
