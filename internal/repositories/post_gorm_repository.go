package repositories

import (
	"errors"
	"fmt"

	"socialnet/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create inserts a new post.
func (r *GORMPostRepository) Create(post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByOwner retrieves posts owned by ownerID in insertion order,
// paginated with the given offset and limit.
func (r *GORMPostRepository) GetByOwner(ownerID string, offset, limit int) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.Where("posted_by = ?", ownerID).Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts for user %s: %w", ownerID, err)
	}
	return posts, nil
}

// GetByIDAndOwner retrieves a single post scoped to its owner.
func (r *GORMPostRepository) GetByIDAndOwner(id, ownerID string) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, "id = ? AND posted_by = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(fmt.Sprintf("no post with id %s", id))
		}
		return nil, fmt.Errorf("failed to get post %s: %w", id, err)
	}
	return &post, nil
}

// UpdateByIDAndOwner applies the given fields to an owner-scoped post
// and returns the updated record.
func (r *GORMPostRepository) UpdateByIDAndOwner(id, ownerID string, fields map[string]interface{}) (*models.Post, error) {
	res := r.db.Model(&models.Post{}).Where("id = ? AND posted_by = ?", id, ownerID).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update post %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError(fmt.Sprintf("no post with id %s", id))
	}
	return r.GetByIDAndOwner(id, ownerID)
}

// DeleteByIDAndOwner deletes an owner-scoped post and returns the
// deleted record.
func (r *GORMPostRepository) DeleteByIDAndOwner(id, ownerID string) (*models.Post, error) {
	post, err := r.GetByIDAndOwner(id, ownerID)
	if err != nil {
		return nil, err
	}
	res := r.db.Delete(&models.Post{}, "id = ? AND posted_by = ?", id, ownerID)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to delete post %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError(fmt.Sprintf("no post with id %s", id))
	}
	return post, nil
}

// GetByIDsNewestFirst retrieves the posts with the given ids sorted
// newest-first.
func (r *GORMPostRepository) GetByIDsNewestFirst(ids models.IDSet) ([]models.Post, error) {
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	posts := []models.Post{}
	if err := r.db.Where("id IN ?", []string(ids)).Order("date DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts by ids: %w", err)
	}
	return posts, nil
}

// GetAll retrieves every post. Used by the reconciliation sweep.
func (r *GORMPostRepository) GetAll() ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get all posts: %w", err)
	}
	return posts, nil
}
