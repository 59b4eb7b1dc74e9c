package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yukikurage/idea-tracker/internal/metrics"
	"github.com/yukikurage/idea-tracker/internal/models"
	"github.com/yukikurage/idea-tracker/internal/policy"
	"github.com/yukikurage/idea-tracker/internal/repository"
	"gorm.io/gorm"
)

// IdeaService handles idea listing, idea mutations and collaboration links.
type IdeaService struct {
	ideaRepo  repository.IdeaRepository
	userRepo  repository.UserRepository
	aiService *AIService
}

// NewIdeaService creates a new IdeaService. aiService may be nil.
func NewIdeaService(ideaRepo repository.IdeaRepository, userRepo repository.UserRepository, aiService *AIService) *IdeaService {
	return &IdeaService{
		ideaRepo:  ideaRepo,
		userRepo:  userRepo,
		aiService: aiService,
	}
}

// ListIdeasInput represents the viewer and the optional listing filters
type ListIdeasInput struct {
	UserID            uint64
	Name              *string
	MarketingStrategy *string
	TargetCustomer    *string
	MinCost           *float64
	MaxCost           *float64
	MinPotential      *int
}

// IdeaEditContext is everything the edit page needs, loaded in dependency order.
type IdeaEditContext struct {
	Idea           *models.Idea
	Role           policy.Role
	Collaborators  []models.Collaboration
	AvailableUsers []models.User
}

// ListVisibleIdeas returns the ideas the user owns or collaborates on, newest first
func (s *IdeaService) ListVisibleIdeas(ctx context.Context, input ListIdeasInput) ([]models.Idea, error) {
	filter := repository.IdeaFilter{
		ViewerID:          input.UserID,
		Name:              input.Name,
		MarketingStrategy: input.MarketingStrategy,
		TargetCustomer:    input.TargetCustomer,
		MinCost:           input.MinCost,
		MaxCost:           input.MaxCost,
		MinPotential:      input.MinPotential,
	}

	ideas, err := s.ideaRepo.ListVisible(ctx, filter)
	if err != nil {
		return nil, storageError("list ideas", err)
	}

	return ideas, nil
}

// GetIdeaForUser returns an idea with owner, tags and collaborators. Ideas the
// user cannot view are reported as missing.
func (s *IdeaService) GetIdeaForUser(ctx context.Context, ideaID, userID uint64) (*models.Idea, error) {
	return s.loadForAction(ctx, ideaID, userID, policy.ActionView, "Owner", "MarketingStrategies", "Collaborations", "Collaborations.User")
}

// EditContext loads the idea, checks access, then the collaborator list and
// finally the users that could still be added.
func (s *IdeaService) EditContext(ctx context.Context, ideaID, userID uint64) (*IdeaEditContext, error) {
	idea, err := s.loadForAction(ctx, ideaID, userID, policy.ActionEdit, "Owner", "MarketingStrategies", "Collaborations")
	if err != nil {
		return nil, err
	}

	role := policy.RoleFor(idea, userID)
	if role == policy.RoleCollaborator {
		if _, err := s.findCollaboration(ctx, idea.ID, userID); err != nil {
			if errors.Is(err, ErrCollaborationNotFound) {
				return nil, ErrIdeaNotFound
			}
			return nil, err
		}
	}

	collaborators, err := s.ideaRepo.ListCollaborators(ctx, idea.ID)
	if err != nil {
		return nil, storageError("list collaborators", err)
	}

	editCtx := &IdeaEditContext{
		Idea:          idea,
		Role:          role,
		Collaborators: collaborators,
	}

	if !policy.Can(role, policy.ActionManageCollaborators) {
		return editCtx, nil
	}

	excluded := make([]uint64, 0, len(collaborators)+1)
	excluded = append(excluded, idea.OwnerID)
	for _, c := range collaborators {
		excluded = append(excluded, c.UserID)
	}

	available, err := s.userRepo.ListExcept(ctx, excluded)
	if err != nil {
		return nil, storageError("list available users", err)
	}
	editCtx.AvailableUsers = available

	return editCtx, nil
}

// CreateIdea validates the form and stores a new idea owned by ownerID
func (s *IdeaService) CreateIdea(ctx context.Context, ownerID uint64, input IdeaInput) (*models.Idea, error) {
	fields, err := normalizeIdeaInput(input)
	if err != nil {
		return nil, err
	}

	idea := &models.Idea{OwnerID: ownerID}
	fields.apply(idea)

	if err := s.ideaRepo.Create(ctx, idea); err != nil {
		return nil, storageError("create idea", err)
	}

	metrics.IdeaMutationsTotal.WithLabelValues("create").Inc()
	return idea, nil
}

// UpdateIdea rewrites the editable fields of an idea the user may edit
func (s *IdeaService) UpdateIdea(ctx context.Context, ideaID, userID uint64, input IdeaInput) (*models.Idea, error) {
	idea, err := s.loadForAction(ctx, ideaID, userID, policy.ActionEdit)
	if err != nil {
		return nil, err
	}

	fields, err := normalizeIdeaInput(input)
	if err != nil {
		return nil, err
	}
	fields.apply(idea)

	if err := s.ideaRepo.Update(ctx, idea); err != nil {
		return nil, storageError("update idea", err)
	}

	metrics.IdeaMutationsTotal.WithLabelValues("update").Inc()
	return idea, nil
}

// DeleteIdea removes an idea and its collaborations; only the owner may do so
func (s *IdeaService) DeleteIdea(ctx context.Context, ideaID, userID uint64) error {
	if _, err := s.loadForAction(ctx, ideaID, userID, policy.ActionDelete); err != nil {
		return err
	}

	if err := s.ideaRepo.Delete(ctx, ideaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIdeaNotFound
		}
		return storageError("delete idea", err)
	}

	metrics.IdeaMutationsTotal.WithLabelValues("delete").Inc()
	return nil
}

// AddCollaborator shares an idea with another user. Adding an existing
// collaborator again changes nothing.
func (s *IdeaService) AddCollaborator(ctx context.Context, ideaID, actorID, targetID uint64) error {
	idea, err := s.loadForAction(ctx, ideaID, actorID, policy.ActionManageCollaborators)
	if err != nil {
		return err
	}

	if _, err := s.userRepo.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return storageError("find user", err)
	}

	if targetID == idea.OwnerID {
		return ErrCannotCollaborateWithOwner
	}

	if policy.RoleFor(idea, targetID) == policy.RoleCollaborator {
		return nil
	}

	if err := s.ideaRepo.AddCollaborator(ctx, idea.ID, targetID); err != nil {
		return storageError("add collaborator", err)
	}

	metrics.IdeaMutationsTotal.WithLabelValues("add_collaborator").Inc()
	return nil
}

// RemoveCollaborator unlinks targetID from an idea. The owner may remove anyone;
// a collaborator may remove only themself.
func (s *IdeaService) RemoveCollaborator(ctx context.Context, ideaID, actorID, targetID uint64) error {
	idea, err := s.loadForAction(ctx, ideaID, actorID, policy.ActionView)
	if err != nil {
		return err
	}

	if !policy.CanRemoveCollaborator(idea, actorID, targetID) {
		metrics.AccessDeniedTotal.WithLabelValues("remove_collaborator").Inc()
		return ErrForbidden
	}

	if _, err := s.findCollaboration(ctx, idea.ID, targetID); err != nil {
		return err
	}

	if err := s.ideaRepo.RemoveCollaborator(ctx, idea.ID, targetID); err != nil {
		return storageError("remove collaborator", err)
	}

	metrics.IdeaMutationsTotal.WithLabelValues("remove_collaborator").Inc()
	return nil
}

// LeaveCollaboration removes the user's own collaboration on an idea
func (s *IdeaService) LeaveCollaboration(ctx context.Context, ideaID, userID uint64) error {
	idea, err := s.loadForAction(ctx, ideaID, userID, policy.ActionLeave)
	if err != nil {
		return err
	}

	if err := s.ideaRepo.RemoveCollaborator(ctx, idea.ID, userID); err != nil {
		return storageError("leave collaboration", err)
	}

	metrics.IdeaMutationsTotal.WithLabelValues("leave_collaboration").Inc()
	return nil
}

// loadForAction loads an idea with its collaborations and applies the access
// policy. Users with no relationship to the idea get ErrIdeaNotFound so that
// existence is not leaked; related users lacking the action get ErrForbidden.
func (s *IdeaService) loadForAction(ctx context.Context, ideaID, userID uint64, action policy.Action, preload ...string) (*models.Idea, error) {
	if !containsString(preload, "Collaborations") {
		preload = append(preload, "Collaborations")
	}

	idea, err := s.ideaRepo.FindByID(ctx, ideaID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, storageError("find idea", err)
	}

	role := policy.RoleFor(idea, userID)
	if role == policy.RoleNone {
		metrics.AccessDeniedTotal.WithLabelValues(string(action)).Inc()
		return nil, ErrIdeaNotFound
	}
	if !policy.Can(role, action) {
		metrics.AccessDeniedTotal.WithLabelValues(string(action)).Inc()
		return nil, ErrForbidden
	}

	return idea, nil
}

func (s *IdeaService) findCollaboration(ctx context.Context, ideaID, userID uint64) (*models.Collaboration, error) {
	collaboration, err := s.ideaRepo.FindCollaboration(ctx, ideaID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollaborationNotFound
		}
		return nil, storageError("find collaboration", err)
	}
	return collaboration, nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// SuggestIdeas asks the AI service for idea drafts
func (s *IdeaService) SuggestIdeas(ctx context.Context, brief string) ([]SuggestedIdea, error) {
	if strings.TrimSpace(brief) == "" {
		return nil, &ValidationError{Messages: []string{"brief is required"}}
	}
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}
	return s.aiService.SuggestIdeas(ctx, brief)
}

// CanSuggest reports whether AI drafting is configured
func (s *IdeaService) CanSuggest() bool {
	return s.aiService != nil
}
