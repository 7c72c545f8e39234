package repositories

import "socialnet/internal/models"

// UserRepository defines the interface for user data access. The
// set-mutation methods are the per-row atomicity unit of the system:
// each one updates a single user row and nothing else, mirroring a
// document store's push/pull-into-array update. Append* methods are
// idempotent and Remove* methods tolerate absent members.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsernameAndID(username, id string) (*models.User, error)
	GetAll() ([]models.User, error)
	UpdateProfile(id, username string, fields map[string]interface{}) (*models.User, error)

	AppendPost(userID, postID string) error
	RemovePost(userID, postID string) error
	AddFollower(userID, followerID string) error
	RemoveFollower(userID, followerID string) error
	AddFollowing(userID, followeeID string) error
	RemoveFollowing(userID, followeeID string) error
	ReplaceSets(userID string, posts, followers, following models.IDSet) error
}
