package repositories

import (
	"fmt"
	"sort"
	"sync"

	"socialnet/internal/models"

	"github.com/google/uuid"
)

// MockPostRepository is an in-memory implementation of PostRepository.
// Insertion order is preserved so pagination behaves like the
// database's default ordering.
type MockPostRepository struct {
	posts map[string]models.Post
	order []string
	mu    sync.RWMutex
}

// NewMockPostRepository creates a new instance of MockPostRepository.
func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		posts: make(map[string]models.Post),
	}
}

// Create adds a new post.
func (r *MockPostRepository) Create(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	r.posts[post.ID] = *post
	r.order = append(r.order, post.ID)
	return nil
}

// GetByOwner returns posts owned by ownerID in insertion order.
func (r *MockPostRepository) GetByOwner(ownerID string, offset, limit int) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]models.Post, 0)
	for _, id := range r.order {
		post, ok := r.posts[id]
		if ok && post.PostedBy == ownerID {
			owned = append(owned, post)
		}
	}
	if offset >= len(owned) {
		return []models.Post{}, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], nil
}

// GetByIDAndOwner returns a single post scoped to its owner.
func (r *MockPostRepository) GetByIDAndOwner(id, ownerID string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok || post.PostedBy != ownerID {
		return nil, models.NewNotFoundError(fmt.Sprintf("no post with id %s", id))
	}
	return &post, nil
}

// UpdateByIDAndOwner applies fields to an owner-scoped post.
func (r *MockPostRepository) UpdateByIDAndOwner(id, ownerID string, fields map[string]interface{}) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok || post.PostedBy != ownerID {
		return nil, models.NewNotFoundError(fmt.Sprintf("no post with id %s", id))
	}
	if v, ok := fields["description"]; ok {
		post.Description = v.(string)
	}
	if v, ok := fields["image"]; ok {
		post.Image = v.(string)
	}
	r.posts[id] = post
	return &post, nil
}

// DeleteByIDAndOwner removes an owner-scoped post.
func (r *MockPostRepository) DeleteByIDAndOwner(id, ownerID string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok || post.PostedBy != ownerID {
		return nil, models.NewNotFoundError(fmt.Sprintf("no post with id %s", id))
	}
	delete(r.posts, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return &post, nil
}

// GetByIDsNewestFirst returns the posts with the given ids sorted
// newest-first.
func (r *MockPostRepository) GetByIDsNewestFirst(ids models.IDSet) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		if post, ok := r.posts[id]; ok {
			posts = append(posts, post)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
	return posts, nil
}

// GetAll returns all posts.
func (r *MockPostRepository) GetAll() ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]models.Post, 0, len(r.posts))
	for _, id := range r.order {
		if post, ok := r.posts[id]; ok {
			posts = append(posts, post)
		}
	}
	return posts, nil
}
