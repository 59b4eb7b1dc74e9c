package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/yukikurage/idea-tracker/internal/constants"
	"github.com/yukikurage/idea-tracker/internal/metrics"
	"github.com/yukikurage/idea-tracker/internal/models"
	"github.com/yukikurage/idea-tracker/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// Register creates a new user with a bcrypt password hash.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)

	verr := &ValidationError{}
	switch {
	case username == "":
		verr.add("username is required")
	case len(username) < constants.MinUsernameLength || len(username) > constants.MaxUsernameLength:
		verr.add("username must be between %d and %d characters", constants.MinUsernameLength, constants.MaxUsernameLength)
	}
	if input.Password == "" {
		verr.add("password is required")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageError("check username", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Email:        strings.TrimSpace(input.Email),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, storageError("create user", err)
	}

	metrics.RegistrationsTotal.Inc()
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user. A wrong
// password bumps the stored failed-attempt counter; nothing is locked out.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			return nil, ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, storageError("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if err := s.userRepo.IncrementFailedAttempts(ctx, user.ID); err != nil {
			log.Printf("failed to record failed login for user %d: %v", user.ID, err)
		}
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.userRepo.RecordLoginSuccess(ctx, user.ID, now); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, storageError("record login", err)
	}
	user.LastLogin = &now
	user.FailedAttempts = 0

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageError("find user", err)
	}

	return user, nil
}
