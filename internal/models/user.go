package models

import "time"

// DefaultProfileImage is the sentinel image reference for accounts
// that have not uploaded a profile picture.
const DefaultProfileImage = "default.png"

// User represents a registered account. The Posts, Followers and
// Following sets are stored denormalized on the user row itself, one
// JSON column per set, so each set mutation is a single-row update.
type User struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" validate:"required,min=1,max=100"`
	Username    string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email       string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password    string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never plaintext
	Image       string    `json:"image"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Posts       IDSet     `json:"posts" gorm:"serializer:json"`
	Followers   IDSet     `json:"followers" gorm:"serializer:json"`
	Following   IDSet     `json:"following" gorm:"serializer:json"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IDSet is an ordered set of opaque string ids. Ids are UUID strings
// everywhere; no numeric ids are ever compared against set members.
type IDSet []string

// Contains reports whether id is a member of the set.
func (s IDSet) Contains(id string) bool {
	for _, member := range s {
		if member == id {
			return true
		}
	}
	return false
}

// Add returns the set with id appended. Adding an id that is already
// present is a no-op, so retried link operations stay idempotent.
func (s IDSet) Add(id string) IDSet {
	if s.Contains(id) {
		return s
	}
	return append(s, id)
}

// Remove returns the set without id. Removing an absent id is a no-op.
func (s IDSet) Remove(id string) IDSet {
	out := make(IDSet, 0, len(s))
	for _, member := range s {
		if member != id {
			out = append(out, member)
		}
	}
	return out
}
