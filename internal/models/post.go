package models

import "time"

// Post represents a unit of content authored by a user. PostedBy is
// the owning user's id; User is the denormalized display name stamped
// at creation time.
type Post struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Description string    `json:"description" validate:"required,max=2000"`
	Image       string    `json:"image,omitempty"`
	Date        time.Time `json:"date"`
	PostedBy    string    `json:"posted_by" gorm:"index;type:varchar(36)"`
	User        string    `json:"user"`
}
