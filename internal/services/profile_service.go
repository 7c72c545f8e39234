package services

import (
	"socialnet/internal/models"
	"socialnet/internal/repositories"
)

// Profile is the public projection of a user; the password hash never
// leaves the service layer.
type Profile struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	Image       string       `json:"image"`
	URL         string       `json:"url"`
	Description string       `json:"description"`
	Posts       models.IDSet `json:"posts"`
	Followers   models.IDSet `json:"followers"`
	Following   models.IDSet `json:"following"`
}

// ProfileSummary is the projection returned by follow/unfollow. It
// carries follower/following counts rather than the full sets to
// bound response size.
type ProfileSummary struct {
	Username    string       `json:"username"`
	Name        string       `json:"name"`
	Image       string       `json:"image"`
	Description string       `json:"description"`
	Posts       models.IDSet `json:"posts"`
	Followers   int          `json:"followers"`
	Following   int          `json:"following"`
}

// ProfileService handles profile reads and edits and the social-graph
// mutations, delegating edge maintenance to the ledger.
type ProfileService struct {
	userRepo repositories.UserRepository
	postRepo repositories.PostRepository
	ledger   *LedgerService
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repositories.UserRepository, postRepo repositories.PostRepository, ledger *LedgerService) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		postRepo: postRepo,
		ledger:   ledger,
	}
}

func toProfile(user *models.User) *Profile {
	return &Profile{
		ID:          user.ID,
		Name:        user.Name,
		Username:    user.Username,
		Email:       user.Email,
		Image:       user.Image,
		URL:         user.URL,
		Description: user.Description,
		Posts:       orEmpty(user.Posts),
		Followers:   orEmpty(user.Followers),
		Following:   orEmpty(user.Following),
	}
}

func toSummary(user *models.User) *ProfileSummary {
	return &ProfileSummary{
		Username:    user.Username,
		Name:        user.Name,
		Image:       user.Image,
		Description: user.Description,
		Posts:       orEmpty(user.Posts),
		Followers:   len(user.Followers),
		Following:   len(user.Following),
	}
}

// GetProfile resolves the profile whose username and id both match
// the caller and returns it with the authored posts sorted
// newest-first.
func (s *ProfileService) GetProfile(userID, username string) (*Profile, []models.Post, error) {
	user, err := s.userRepo.GetByUsernameAndID(username, userID)
	if err != nil {
		return nil, nil, err
	}
	posts, err := s.postRepo.GetByIDsNewestFirst(user.Posts)
	if err != nil {
		return nil, nil, err
	}
	return toProfile(user), posts, nil
}

// EditProfile updates the caller's description and, when an image was
// uploaded, the image reference and its public URL.
func (s *ProfileService) EditProfile(userID, username, description, imageRef, imageURL string) (*Profile, error) {
	fields := map[string]interface{}{
		"description": description,
	}
	if imageRef != "" {
		fields["image"] = imageRef
		fields["url"] = imageURL
	}
	user, err := s.userRepo.UpdateProfile(userID, username, fields)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

// Follow adds a follow edge from the caller to the target and returns
// the caller's updated summary. Following yourself is rejected before
// the ledger is involved.
func (s *ProfileService) Follow(userID, targetID string) (*ProfileSummary, error) {
	if userID == targetID {
		return nil, models.NewValidationError("cannot follow yourself")
	}
	if err := s.ledger.AddFollowEdge(userID, targetID); err != nil {
		return nil, err
	}
	return s.summary(userID)
}

// Unfollow removes the follow edge from the caller to the target and
// returns the caller's updated summary.
func (s *ProfileService) Unfollow(userID, targetID string) (*ProfileSummary, error) {
	if userID == targetID {
		return nil, models.NewValidationError("cannot unfollow yourself")
	}
	if err := s.ledger.RemoveFollowEdge(userID, targetID); err != nil {
		return nil, err
	}
	return s.summary(userID)
}

func (s *ProfileService) summary(userID string) (*ProfileSummary, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return toSummary(user), nil
}
