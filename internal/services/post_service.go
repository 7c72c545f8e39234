package services

import (
	"time"

	"socialnet/internal/models"
	"socialnet/internal/repositories"

	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 5
	maxLimit     = 100
)

// PostService handles business logic for posts, scoped to the owning
// user. Link maintenance of the owner's authored-posts set is
// delegated to the ledger.
type PostService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
	ledger   *LedgerService
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repositories.PostRepository, userRepo repositories.UserRepository, ledger *LedgerService) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		ledger:   ledger,
	}
}

// CreatePost persists a new post stamped with the author's id and
// display name, then links it into the author's authored-posts set.
// If the link step fails the post exists but is absent from the
// owner's listing until a retry or reconciliation sweep repairs it.
func (s *PostService) CreatePost(userID, description, imageRef string) (*models.Post, error) {
	author, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:          uuid.New().String(),
		Description: description,
		Image:       imageRef,
		Date:        time.Now(),
		PostedBy:    author.ID,
		User:        author.Username,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}

	if err := s.ledger.LinkPostToAuthor(post.ID, author.ID); err != nil {
		return nil, err
	}
	return post, nil
}

// GetAllPosts lists the caller's posts in insertion order with
// skip/limit pagination. Page and limit fall back to 1 and 5 when
// unset; limit is capped.
func (s *PostService) GetAllPosts(userID string, page, limit int) ([]models.Post, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.postRepo.GetByOwner(userID, (page-1)*limit, limit)
}

// GetPostByID returns a post owned by the caller. A post owned by
// another user produces the same not-found error as a missing one.
func (s *PostService) GetPostByID(userID, postID string) (*models.Post, error) {
	return s.postRepo.GetByIDAndOwner(postID, userID)
}

// UpdatePostByID applies only the provided fields to an owner-scoped
// post.
func (s *PostService) UpdatePostByID(userID, postID string, description, imageRef *string) (*models.Post, error) {
	fields := map[string]interface{}{}
	if description != nil {
		fields["description"] = *description
	}
	if imageRef != nil {
		fields["image"] = *imageRef
	}
	if len(fields) == 0 {
		return nil, models.NewValidationError("no fields to update")
	}
	return s.postRepo.UpdateByIDAndOwner(postID, userID, fields)
}

// DeletePostByID deletes an owner-scoped post and unlinks it from the
// owner's authored-posts set. The unlink tolerates an id that was
// never linked.
func (s *PostService) DeletePostByID(userID, postID string) (*models.Post, error) {
	post, err := s.postRepo.DeleteByIDAndOwner(postID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.UnlinkPostFromAuthor(post.ID, userID); err != nil {
		return nil, err
	}
	return post, nil
}
