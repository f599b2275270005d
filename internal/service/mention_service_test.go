package service

import (
	"testing"

	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/ridwan-io/wikinote/backend/internal/repositories"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"no mentions", "plain text without tags", nil},
		{"single mention", "ping @alice please", []string{"alice"}},
		{"multiple mentions", "cc @alice and @bob", []string{"alice", "bob"}},
		{"duplicate collapses", "hello @alice and @alice again", []string{"alice"}},
		{"underscore and digits", "see @dev_ops2", []string{"dev_ops2"}},
		{"email is still matched after the at sign", "mail me at foo@example.com", []string{"example"}},
		{"order of first occurrence", "@bob then @alice then @bob", []string{"bob", "alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMentions(tt.content)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func newMentionFixture(t *testing.T) (*gorm.DB, *MentionService) {
	t.Helper()
	db := openTestDB(t)
	svc := NewMentionService(
		repositories.NewPostgresMentionRepository(db),
		repositories.NewPostgresUserRepository(db),
		zerolog.Nop(),
	)
	return db, svc
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestProcessCommentCreatesOneMentionPerUser(t *testing.T) {
	db, svc := newMentionFixture(t)
	author := seedUser(t, db, "bob")
	alice := seedUser(t, db, "alice")

	comment := &models.Comment{
		Content:    "hello @alice and @alice",
		TargetType: models.CommentOnPage,
		TargetID:   10,
		AuthorID:   author.ID,
	}
	require.NoError(t, db.Create(comment).Error)

	recorder := NewRecorder()
	svc.ProcessComment(comment, 10, recorder)

	var mentions []models.CommentMention
	require.NoError(t, db.Find(&mentions).Error)
	require.Len(t, mentions, 1)
	assert.Equal(t, alice.ID, mentions[0].MentionedUserID)
	assert.Equal(t, "alice", mentions[0].MentionedUsername)

	events := recorder.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventCommentMention, events[0].Kind)
	assert.Equal(t, alice.ID, events[0].MentionedUserID)
	assert.Equal(t, comment.ID, events[0].CommentID)
	require.NotNil(t, events[0].ActorID)
	assert.Equal(t, author.ID, *events[0].ActorID)
}

func TestProcessCommentSkipsSelfAndUnresolved(t *testing.T) {
	db, svc := newMentionFixture(t)
	author := seedUser(t, db, "bob")

	comment := &models.Comment{
		Content:    "note to @bob and @ghost",
		TargetType: models.CommentOnPage,
		TargetID:   10,
		AuthorID:   author.ID,
	}
	require.NoError(t, db.Create(comment).Error)

	recorder := NewRecorder()
	svc.ProcessComment(comment, 10, recorder)

	var count int64
	require.NoError(t, db.Model(&models.CommentMention{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Zero(t, recorder.Len())
}

func TestProcessCommentIsIdempotent(t *testing.T) {
	db, svc := newMentionFixture(t)
	author := seedUser(t, db, "bob")
	seedUser(t, db, "alice")

	comment := &models.Comment{
		Content:    "ping @alice",
		TargetType: models.CommentOnPage,
		TargetID:   10,
		AuthorID:   author.ID,
	}
	require.NoError(t, db.Create(comment).Error)

	recorder := NewRecorder()
	svc.ProcessComment(comment, 10, recorder)
	svc.ProcessComment(comment, 10, recorder)

	var count int64
	require.NoError(t, db.Model(&models.CommentMention{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 1, recorder.Len())
}

func TestReprocessCommentAfterEdit(t *testing.T) {
	db, svc := newMentionFixture(t)
	author := seedUser(t, db, "bob")
	seedUser(t, db, "alice")
	carol := seedUser(t, db, "carol")

	comment := &models.Comment{
		Content:    "ping @alice",
		TargetType: models.CommentOnPage,
		TargetID:   10,
		AuthorID:   author.ID,
	}
	require.NoError(t, db.Create(comment).Error)

	recorder := NewRecorder()
	svc.ProcessComment(comment, 10, recorder)
	recorder.Drain()

	// The edit drops alice and adds carol
	comment.Content = "ping @carol"
	svc.ReprocessComment(comment, 10, recorder)

	var mentions []models.CommentMention
	require.NoError(t, db.Find(&mentions).Error)
	require.Len(t, mentions, 1)
	assert.Equal(t, carol.ID, mentions[0].MentionedUserID)

	events := recorder.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, carol.ID, events[0].MentionedUserID)
}
