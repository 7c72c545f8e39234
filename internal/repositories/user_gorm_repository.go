package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"socialnet/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user. Uniqueness of username and email is
// enforced by the unique indexes, not by a prior read, so two racing
// registrations resolve to one success and one conflict.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Image == "" {
		user.Image = models.DefaultProfileImage
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("credentials taken", err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// GetByUsernameAndID retrieves a user only when both username and id
// match the same row.
func (r *GORMUserRepository) GetByUsernameAndID(username, id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ? AND id = ?", username, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}
	return &user, nil
}

// GetAll retrieves every user. Used by the reconciliation sweep.
func (r *GORMUserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

// UpdateProfile applies the given fields to the row matching both
// username and id, and returns the updated user.
func (r *GORMUserRepository) UpdateProfile(id, username string, fields map[string]interface{}) (*models.User, error) {
	res := r.db.Model(&models.User{}).Where("username = ? AND id = ?", username, id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update profile for %s: %w", username, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("user not found")
	}
	return r.GetByUsernameAndID(username, id)
}

// marshalSet renders an id set as the JSON document the column
// holds. Column-level updates skip GORM's field serializer, so the
// set must be marshaled here rather than handed over as a Go value.
func marshalSet(set models.IDSet) (string, error) {
	if set == nil {
		set = models.IDSet{}
	}
	payload, err := json.Marshal(set)
	if err != nil {
		return "", fmt.Errorf("failed to marshal id set: %w", err)
	}
	return string(payload), nil
}

// updateSet writes a single id-set column of a single user row.
func (r *GORMUserRepository) updateSet(userID, column string, set models.IDSet) error {
	payload, err := marshalSet(set)
	if err != nil {
		return err
	}
	res := r.db.Model(&models.User{}).Where("id = ?", userID).Update(column, payload)
	if res.Error != nil {
		return fmt.Errorf("failed to update %s for user %s: %w", column, userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("user not found")
	}
	return nil
}

// AppendPost adds postID to the user's authored-posts set.
func (r *GORMUserRepository) AppendPost(userID, postID string) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}
	return r.updateSet(userID, "posts", user.Posts.Add(postID))
}

// RemovePost removes postID from the user's authored-posts set.
func (r *GORMUserRepository) RemovePost(userID, postID string) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}
	return r.updateSet(userID, "posts", user.Posts.Remove(postID))
}

// AddFollower adds followerID to the user's followers set.
func (r *GORMUserRepository) AddFollower(userID, followerID string) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}
	return r.updateSet(userID, "followers", user.Followers.Add(followerID))
}

// RemoveFollower removes followerID from the user's followers set.
func (r *GORMUserRepository) RemoveFollower(userID, followerID string) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}
	return r.updateSet(userID, "followers", user.Followers.Remove(followerID))
}

// AddFollowing adds followeeID to the user's following set.
func (r *GORMUserRepository) AddFollowing(userID, followeeID string) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}
	return r.updateSet(userID, "following", user.Following.Add(followeeID))
}

// RemoveFollowing removes followeeID from the user's following set.
func (r *GORMUserRepository) RemoveFollowing(userID, followeeID string) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}
	return r.updateSet(userID, "following", user.Following.Remove(followeeID))
}

// ReplaceSets overwrites all three id sets of a user in one update.
// Used by the reconciliation sweep.
func (r *GORMUserRepository) ReplaceSets(userID string, posts, followers, following models.IDSet) error {
	postsJSON, err := marshalSet(posts)
	if err != nil {
		return err
	}
	followersJSON, err := marshalSet(followers)
	if err != nil {
		return err
	}
	followingJSON, err := marshalSet(following)
	if err != nil {
		return err
	}
	res := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"posts":     postsJSON,
		"followers": followersJSON,
		"following": followingJSON,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to replace sets for user %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("user not found")
	}
	return nil
}
