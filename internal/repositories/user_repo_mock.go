package repositories

import (
	"sync"

	"socialnet/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
// The mutex serializes per-record updates the same way the database's
// single-row update does.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user, rejecting duplicate usernames or emails.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return models.NewConflictError("credentials taken", nil)
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Image == "" {
		user.Image = models.DefaultProfileImage
	}
	r.users[user.ID] = *user
	return nil
}

// GetByID returns a user by id.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFoundError("user not found")
	}
	return &user, nil
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, models.NewNotFoundError("user not found")
}

// GetByUsernameAndID returns a user only when both fields match.
func (r *MockUserRepository) GetByUsernameAndID(username, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok || user.Username != username {
		return nil, models.NewNotFoundError("user not found")
	}
	return &user, nil
}

// GetAll returns all users.
func (r *MockUserRepository) GetAll() ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

// UpdateProfile applies fields to the user matching username and id.
func (r *MockUserRepository) UpdateProfile(id, username string, fields map[string]interface{}) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok || user.Username != username {
		return nil, models.NewNotFoundError("user not found")
	}
	if v, ok := fields["description"]; ok {
		user.Description = v.(string)
	}
	if v, ok := fields["image"]; ok {
		user.Image = v.(string)
	}
	if v, ok := fields["url"]; ok {
		user.URL = v.(string)
	}
	r.users[id] = user
	return &user, nil
}

func (r *MockUserRepository) mutate(userID string, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return models.NewNotFoundError("user not found")
	}
	fn(&user)
	r.users[userID] = user
	return nil
}

// AppendPost adds postID to the user's authored-posts set.
func (r *MockUserRepository) AppendPost(userID, postID string) error {
	return r.mutate(userID, func(u *models.User) { u.Posts = u.Posts.Add(postID) })
}

// RemovePost removes postID from the user's authored-posts set.
func (r *MockUserRepository) RemovePost(userID, postID string) error {
	return r.mutate(userID, func(u *models.User) { u.Posts = u.Posts.Remove(postID) })
}

// AddFollower adds followerID to the user's followers set.
func (r *MockUserRepository) AddFollower(userID, followerID string) error {
	return r.mutate(userID, func(u *models.User) { u.Followers = u.Followers.Add(followerID) })
}

// RemoveFollower removes followerID from the user's followers set.
func (r *MockUserRepository) RemoveFollower(userID, followerID string) error {
	return r.mutate(userID, func(u *models.User) { u.Followers = u.Followers.Remove(followerID) })
}

// AddFollowing adds followeeID to the user's following set.
func (r *MockUserRepository) AddFollowing(userID, followeeID string) error {
	return r.mutate(userID, func(u *models.User) { u.Following = u.Following.Add(followeeID) })
}

// RemoveFollowing removes followeeID from the user's following set.
func (r *MockUserRepository) RemoveFollowing(userID, followeeID string) error {
	return r.mutate(userID, func(u *models.User) { u.Following = u.Following.Remove(followeeID) })
}

// ReplaceSets overwrites all three id sets of a user.
func (r *MockUserRepository) ReplaceSets(userID string, posts, followers, following models.IDSet) error {
	return r.mutate(userID, func(u *models.User) {
		u.Posts = posts
		u.Followers = followers
		u.Following = following
	})
}
