package models

import "time"

// Page represents a wiki page; content revisions are archived in MongoDB (PostgreSQL)
type Page struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Title      string `json:"title" gorm:"size:128;index;not null"`
	Slug       string `json:"slug" gorm:"size:128;uniqueIndex;not null"`
	Content    string `json:"content" gorm:"type:text"`
	Summary    string `json:"summary" gorm:"size:512"`
	CategoryID *uint  `json:"category_id,omitempty" gorm:"index"`
	AuthorID   uint   `json:"author_id" gorm:"index;not null"`

	// ViewCount is denormalized; bumping it must never capture a watch event
	ViewCount int64 `json:"view_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatePageRequest defines the request body for creating a page
type CreatePageRequest struct {
	Title      string `json:"title" validate:"required,min=1,max=128"`
	Slug       string `json:"slug" validate:"required,min=1,max=128"`
	Content    string `json:"content" validate:"required"`
	Summary    string `json:"summary" validate:"omitempty,max=512"`
	CategoryID *uint  `json:"category_id,omitempty"`
}

// UpdatePageRequest defines the request body for updating a page
type UpdatePageRequest struct {
	Title   string `json:"title,omitempty" validate:"omitempty,min=1,max=128"`
	Content string `json:"content,omitempty"`
	Summary string `json:"summary,omitempty" validate:"omitempty,max=512"`
	// ChangeSummary is carried into the revision archive
	ChangeSummary string `json:"change_summary,omitempty" validate:"omitempty,max=256"`
}

// PageRevision is an archived page version (MongoDB)
type PageRevision struct {
	PageID        uint      `bson:"page_id" json:"page_id"`
	Title         string    `bson:"title" json:"title"`
	Content       string    `bson:"content" json:"content"`
	EditorID      uint      `bson:"editor_id" json:"editor_id"`
	ChangeSummary string    `bson:"change_summary" json:"change_summary"`
	VersionNumber int64     `bson:"version_number" json:"version_number"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
