package repositories

import "socialnet/internal/models"

// PostRepository defines the interface for post data access. All
// single-post lookups are scoped by owner at the query filter, so a
// post owned by someone else is indistinguishable from a missing one.
type PostRepository interface {
	Create(post *models.Post) error
	GetByOwner(ownerID string, offset, limit int) ([]models.Post, error)
	GetByIDAndOwner(id, ownerID string) (*models.Post, error)
	UpdateByIDAndOwner(id, ownerID string, fields map[string]interface{}) (*models.Post, error)
	DeleteByIDAndOwner(id, ownerID string) (*models.Post, error)
	GetByIDsNewestFirst(ids models.IDSet) ([]models.Post, error)
	GetAll() ([]models.Post, error)
}
