package policy

import (
	"testing"

	"github.com/yukikurage/idea-tracker/internal/models"
)

func sharedIdea() *models.Idea {
	return &models.Idea{
		ID:      1,
		OwnerID: 10,
		Collaborations: []models.Collaboration{
			{IdeaID: 1, UserID: 20},
		},
	}
}

func TestRoleFor(t *testing.T) {
	idea := sharedIdea()

	cases := map[uint64]Role{
		10: RoleOwner,
		20: RoleCollaborator,
		30: RoleNone,
		0:  RoleNone,
	}
	for userID, want := range cases {
		if got := RoleFor(idea, userID); got != want {
			t.Errorf("RoleFor(%d) = %s, want %s", userID, got, want)
		}
	}

	if got := RoleFor(nil, 10); got != RoleNone {
		t.Errorf("RoleFor(nil) = %s, want none", got)
	}
}

func TestRoleFor_OwnerListedAsCollaborator(t *testing.T) {
	idea := sharedIdea()
	idea.Collaborations = append(idea.Collaborations, models.Collaboration{IdeaID: 1, UserID: 10})

	if got := RoleFor(idea, 10); got != RoleOwner {
		t.Fatalf("expected owner, got %s", got)
	}
}

func TestCan(t *testing.T) {
	cases := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleOwner, ActionView, true},
		{RoleOwner, ActionEdit, true},
		{RoleOwner, ActionDelete, true},
		{RoleOwner, ActionManageCollaborators, true},
		{RoleOwner, ActionLeave, false},
		{RoleCollaborator, ActionView, true},
		{RoleCollaborator, ActionEdit, true},
		{RoleCollaborator, ActionDelete, false},
		{RoleCollaborator, ActionManageCollaborators, false},
		{RoleCollaborator, ActionLeave, true},
		{RoleNone, ActionView, false},
		{RoleNone, ActionLeave, false},
		{Role("admin"), ActionView, false},
	}

	for _, tc := range cases {
		if got := Can(tc.role, tc.action); got != tc.want {
			t.Errorf("Can(%s, %s) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestHelpers(t *testing.T) {
	idea := sharedIdea()

	if !IsOwner(idea, 10) || IsOwner(idea, 20) {
		t.Error("IsOwner mismatch")
	}
	if !CanView(idea, 20) || CanView(idea, 30) {
		t.Error("CanView mismatch")
	}
	if !CanEdit(idea, 20) || CanEdit(idea, 30) {
		t.Error("CanEdit mismatch")
	}
	if CanDelete(idea, 20) || !CanDelete(idea, 10) {
		t.Error("CanDelete mismatch")
	}
	if CanManageCollaborators(idea, 20) || !CanManageCollaborators(idea, 10) {
		t.Error("CanManageCollaborators mismatch")
	}
	if !CanLeave(idea, 20) || CanLeave(idea, 10) {
		t.Error("CanLeave mismatch")
	}
}

func TestCanRemoveCollaborator(t *testing.T) {
	idea := sharedIdea()
	idea.Collaborations = append(idea.Collaborations, models.Collaboration{IdeaID: 1, UserID: 21})

	if !CanRemoveCollaborator(idea, 10, 20) {
		t.Error("owner should remove a collaborator")
	}
	if !CanRemoveCollaborator(idea, 20, 20) {
		t.Error("collaborator should remove themself")
	}
	if CanRemoveCollaborator(idea, 20, 21) {
		t.Error("collaborator must not remove another collaborator")
	}
	if CanRemoveCollaborator(idea, 30, 30) {
		t.Error("stranger must not remove anyone")
	}
}
