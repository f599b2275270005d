package models

import "time"

// Category represents a wiki category; categories form a tree via ParentID (PostgreSQL)
type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:64;uniqueIndex;not null"`
	Description string `json:"description" gorm:"size:256"`
	ParentID    *uint  `json:"parent_id,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCategoryRequest defines the request body for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=64"`
	Description string `json:"description" validate:"omitempty,max=256"`
	ParentID    *uint  `json:"parent_id,omitempty"`
}

// UpdateCategoryRequest defines the request body for updating a category
type UpdateCategoryRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=1,max=64"`
	Description string `json:"description,omitempty" validate:"omitempty,max=256"`
	ParentID    *uint  `json:"parent_id,omitempty"`
}
