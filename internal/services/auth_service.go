package services

import (
	"encoding/json"
	"log"

	"socialnet/internal/models"
	"socialnet/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// NotificationQueue is the queue welcome notifications are published
// to on registration.
const NotificationQueue = "notification_queue"

// Publisher publishes fire-and-forget notification events.
type Publisher interface {
	Publish(queue string, body []byte) error
}

// dummyHash is compared against when login hits an unknown email, so
// that path costs the same as a wrong-password compare and the two
// cannot be told apart by timing.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// AuthService handles registration, login and the welcome
// notification side task.
type AuthService struct {
	userRepo  repositories.UserRepository
	tokens    *TokenService
	publisher Publisher
}

// NewAuthService creates a new AuthService. publisher may be nil, in
// which case registration notifications are skipped.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenService, publisher Publisher) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		publisher: publisher,
	}
}

// Register creates a new account and returns it with a fresh session
// token. Uniqueness of username and email is left to the store's
// unique indexes; there is no pre-check read, so racing registrations
// cannot both succeed.
func (s *AuthService) Register(email, name, username, password, passwordConfirmation string) (*models.User, string, error) {
	if password != passwordConfirmation {
		return nil, "", models.NewValidationError("password not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", models.NewValidationError("failed to hash password")
	}

	user := &models.User{
		Email:     email,
		Name:      name,
		Username:  username,
		Password:  string(hash),
		Posts:     models.IDSet{},
		Followers: models.IDSet{},
		Following: models.IDSet{},
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	// Welcome notification is best effort and off the request path: a
	// publish failure is logged and never rolls back or fails the
	// registration, and a slow broker never delays the response.
	go s.notifyRegistered(user)

	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh
// session token. Unknown email and wrong password produce the same
// error so accounts cannot be enumerated.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, "", models.NewAuthError("credentials incorrect", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", models.NewAuthError("credentials incorrect", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) notifyRegistered(user *models.User) {
	if s.publisher == nil {
		log.Println("notification publisher not configured, skipping welcome notification")
		return
	}

	body, err := json.Marshal(map[string]string{
		"email":    user.Email,
		"name":     user.Name,
		"template": "welcome",
	})
	if err != nil {
		log.Printf("failed to marshal welcome notification for %s: %v", user.Username, err)
		return
	}
	if err := s.publisher.Publish(NotificationQueue, body); err != nil {
		log.Printf("failed to publish welcome notification for %s: %v", user.Username, err)
	}
}
