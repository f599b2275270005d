package service

import (
	"regexp"

	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/ridwan-io/wikinote/backend/internal/repositories"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// ExtractMentions returns the deduplicated @username tokens in content, in
// order of first occurrence.
func ExtractMentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool, len(matches))
	usernames := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		usernames = append(usernames, m[1])
	}
	return usernames
}

// MentionService turns @-references in comment content into mention rows and
// mention events feeding the notification pipeline.
type MentionService struct {
	mentions repositories.MentionRepository
	users    repositories.UserRepository
	log      zerolog.Logger
}

// NewMentionService creates a new MentionService
func NewMentionService(mentions repositories.MentionRepository, users repositories.UserRepository, log zerolog.Logger) *MentionService {
	return &MentionService{mentions: mentions, users: users, log: log}
}

// ProcessComment resolves the comment's @-tokens to users, drops unresolved
// tokens and self-mentions, and records a mention row per remaining candidate
// unless the (comment, user) pair already has one. Each newly created mention
// captures a comment_mention event into the recorder. Re-running on an
// unedited comment creates nothing new.
//
// pageID is the page the comment hangs off (directly or via its attachment);
// it becomes the event target so the notification can link to the page.
func (s *MentionService) ProcessComment(comment *models.Comment, pageID uint, recorder *Recorder) {
	for _, username := range ExtractMentions(comment.Content) {
		user, err := s.users.GetUserByUsername(username)
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			s.log.Error().Err(err).Str("username", username).Msg("mention lookup failed")
			continue
		}
		if user.ID == comment.AuthorID {
			continue
		}

		exists, err := s.mentions.Exists(comment.ID, user.ID)
		if err != nil {
			s.log.Error().Err(err).
				Uint("comment_id", comment.ID).
				Uint("user_id", user.ID).
				Msg("mention existence check failed")
			continue
		}
		if exists {
			continue
		}

		mention := &models.CommentMention{
			CommentID:         comment.ID,
			MentionedUserID:   user.ID,
			MentionedUsername: username,
		}
		if err := s.mentions.CreateMention(mention); err != nil {
			s.log.Error().Err(err).
				Uint("comment_id", comment.ID).
				Uint("user_id", user.ID).
				Msg("failed to create mention")
			continue
		}

		actorID := comment.AuthorID
		event := NewDomainEvent(models.EventCommentMention, models.TargetPage, pageID, &actorID)
		event.CommentID = comment.ID
		event.MentionedUserID = user.ID
		recorder.Capture(event)
	}
}

// ListByComment returns the comment's mention rows with their read state
func (s *MentionService) ListByComment(commentID uint) ([]models.CommentMention, error) {
	return s.mentions.GetByCommentID(commentID)
}

// ReprocessComment invalidates the comment's existing mentions and runs a
// fresh extraction pass. Removed @-tags stop producing new notifications;
// already-delivered notifications are not retracted.
func (s *MentionService) ReprocessComment(comment *models.Comment, pageID uint, recorder *Recorder) {
	if err := s.mentions.DeleteByCommentID(comment.ID); err != nil {
		s.log.Error().Err(err).Uint("comment_id", comment.ID).Msg("failed to clear mentions before re-extraction")
		return
	}
	s.ProcessComment(comment, pageID, recorder)
}
