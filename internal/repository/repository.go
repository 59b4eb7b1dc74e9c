package repository

import (
	"context"
	"time"

	"github.com/yukikurage/idea-tracker/internal/models"
)

// IdeaRepository defines the interface for idea and collaboration data access
type IdeaRepository interface {
	// Create stores a new idea together with its marketing strategy tags
	Create(ctx context.Context, idea *models.Idea) error

	// FindByID finds an idea by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Idea, error)

	// ListVisible returns the ideas a user owns or collaborates on, filtered
	ListVisible(ctx context.Context, filter IdeaFilter) ([]models.Idea, error)

	// Update writes the editable fields and replaces the marketing strategy tags.
	// The owner is never written.
	Update(ctx context.Context, idea *models.Idea) error

	// Delete removes an idea and every row that depends on it atomically
	Delete(ctx context.Context, id uint64) error

	// AddCollaborator links a user to an idea; an existing link is left untouched
	AddCollaborator(ctx context.Context, ideaID, userID uint64) error

	// RemoveCollaborator unlinks a user from an idea
	RemoveCollaborator(ctx context.Context, ideaID, userID uint64) error

	// FindCollaboration finds a specific collaboration
	FindCollaboration(ctx context.Context, ideaID, userID uint64) (*models.Collaboration, error)

	// ListCollaborators lists collaborations of an idea with users preloaded
	ListCollaborators(ctx context.Context, ideaID uint64) ([]models.Collaboration, error)
}

// IdeaFilter holds filtering options for listing ideas. Nil fields are not applied.
type IdeaFilter struct {
	ViewerID          uint64
	Name              *string
	MarketingStrategy *string
	TargetCustomer    *string
	MinCost           *float64
	MaxCost           *float64
	MinPotential      *int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// ListExcept lists users whose IDs are not in ids, ordered by username
	ListExcept(ctx context.Context, ids []uint64) ([]models.User, error)

	// RecordLoginSuccess stamps the last login time and clears failed attempts
	RecordLoginSuccess(ctx context.Context, id uint64, at time.Time) error

	// IncrementFailedAttempts bumps the failed login counter
	IncrementFailedAttempts(ctx context.Context, id uint64) error
}
