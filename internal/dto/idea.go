package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/idea-tracker/internal/models"
	"github.com/yukikurage/idea-tracker/internal/policy"
)

// UserDTO represents a user on rendered pages
type UserDTO struct {
	ID          uint64
	Username    string
	DisplayName string
}

// IdeaDTO represents an idea on rendered pages. Optional numbers are already
// formatted; an empty string means the value was not given.
type IdeaDTO struct {
	ID                  uint64
	Name                string
	Description         string
	TargetCustomer      string
	Timeline            string
	EstimatedCost       string
	Potential           string
	MarketingStrategies []string
	Owner               UserDTO
	Collaborators       []UserDTO
	IsOwner             bool
	CanEdit             bool
	CanDelete           bool
	CanLeave            bool
	CreatedAt           time.Time
}

// IdeaFormDTO carries the values of the idea form back into the template
type IdeaFormDTO struct {
	Name                string
	Description         string
	MarketingStrategies string
	TargetCustomer      string
	EstimatedCost       string
	Timeline            string
	Potential           string
}

// ToUserDTO converts a user to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName(),
	}
}

// ToUserDTOs converts users to DTOs
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}

// ToIdeaDTO converts an idea to DTO as seen by viewerID
func ToIdeaDTO(idea models.Idea, viewerID uint64) IdeaDTO {
	role := policy.RoleFor(&idea, viewerID)

	collaborators := make([]UserDTO, 0, len(idea.Collaborations))
	for _, c := range idea.Collaborations {
		if c.User.ID == 0 {
			continue
		}
		collaborators = append(collaborators, ToUserDTO(c.User))
	}

	return IdeaDTO{
		ID:                  idea.ID,
		Name:                idea.Name,
		Description:         idea.Description,
		TargetCustomer:      deref(idea.TargetCustomer),
		Timeline:            deref(idea.Timeline),
		EstimatedCost:       formatCost(idea.EstimatedCost),
		Potential:           formatInt(idea.Potential),
		MarketingStrategies: idea.StrategyTags(),
		Owner:               ToUserDTO(idea.Owner),
		Collaborators:       collaborators,
		IsOwner:             role == policy.RoleOwner,
		CanEdit:             policy.Can(role, policy.ActionEdit),
		CanDelete:           policy.Can(role, policy.ActionDelete),
		CanLeave:            policy.Can(role, policy.ActionLeave),
		CreatedAt:           idea.CreatedAt,
	}
}

// ToIdeaDTOs converts ideas to DTOs as seen by viewerID
func ToIdeaDTOs(ideas []models.Idea, viewerID uint64) []IdeaDTO {
	dtos := make([]IdeaDTO, len(ideas))
	for i, idea := range ideas {
		dtos[i] = ToIdeaDTO(idea, viewerID)
	}
	return dtos
}

// ToIdeaFormDTO fills the edit form from a stored idea
func ToIdeaFormDTO(idea models.Idea) IdeaFormDTO {
	return IdeaFormDTO{
		Name:                idea.Name,
		Description:         idea.Description,
		MarketingStrategies: strings.Join(idea.StrategyTags(), ", "),
		TargetCustomer:      deref(idea.TargetCustomer),
		EstimatedCost:       formatCost(idea.EstimatedCost),
		Timeline:            deref(idea.Timeline),
		Potential:           formatInt(idea.Potential),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatCost(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
