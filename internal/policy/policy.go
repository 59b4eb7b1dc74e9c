// Package policy decides what a user may do with an idea. Every function is
// pure: callers load the idea with its Collaborations first.
package policy

import "github.com/yukikurage/idea-tracker/internal/models"

type Role string
type Action string

const (
	RoleOwner        Role = "owner"
	RoleCollaborator Role = "collaborator"
	RoleNone         Role = "none"
)

const (
	ActionView                Action = "view"
	ActionEdit                Action = "edit"
	ActionDelete              Action = "delete"
	ActionManageCollaborators Action = "manage_collaborators"
	ActionLeave               Action = "leave"
)

// RoleFor returns the user's relationship to the idea. Ownership wins over a
// collaboration row naming the owner.
func RoleFor(idea *models.Idea, userID uint64) Role {
	if idea == nil || userID == 0 {
		return RoleNone
	}
	if idea.OwnerID == userID {
		return RoleOwner
	}
	for _, c := range idea.Collaborations {
		if c.UserID == userID {
			return RoleCollaborator
		}
	}
	return RoleNone
}

func Can(role Role, action Action) bool {
	switch role {
	case RoleOwner:
		return action == ActionView || action == ActionEdit || action == ActionDelete || action == ActionManageCollaborators
	case RoleCollaborator:
		return action == ActionView || action == ActionEdit || action == ActionLeave
	default:
		return false
	}
}

func IsOwner(idea *models.Idea, userID uint64) bool {
	return RoleFor(idea, userID) == RoleOwner
}

func CanView(idea *models.Idea, userID uint64) bool {
	return Can(RoleFor(idea, userID), ActionView)
}

func CanEdit(idea *models.Idea, userID uint64) bool {
	return Can(RoleFor(idea, userID), ActionEdit)
}

func CanDelete(idea *models.Idea, userID uint64) bool {
	return Can(RoleFor(idea, userID), ActionDelete)
}

func CanManageCollaborators(idea *models.Idea, userID uint64) bool {
	return Can(RoleFor(idea, userID), ActionManageCollaborators)
}

func CanLeave(idea *models.Idea, userID uint64) bool {
	return Can(RoleFor(idea, userID), ActionLeave)
}

// CanRemoveCollaborator allows the owner to remove anyone and a collaborator
// to remove only themself.
func CanRemoveCollaborator(idea *models.Idea, actorID, targetID uint64) bool {
	if CanManageCollaborators(idea, actorID) {
		return true
	}
	return actorID == targetID && CanLeave(idea, actorID)
}
