package models

import "time"

// Attachment represents a file attached to a page (PostgreSQL)
type Attachment struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	PageID     uint   `json:"page_id" gorm:"index;not null"`
	Filename   string `json:"filename" gorm:"size:255;not null"`
	StorageKey string `json:"-" gorm:"size:64;uniqueIndex"` // opaque key in blob storage
	Size       int64  `json:"size"`
	UploaderID uint   `json:"uploader_id" gorm:"index;not null"`

	CreatedAt time.Time `json:"created_at"`
}

// CreateAttachmentRequest defines the request body for attaching a file to a page
type CreateAttachmentRequest struct {
	Filename string `json:"filename" validate:"required,min=1,max=255"`
	Size     int64  `json:"size" validate:"min=0"`
}
