package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/idea-tracker/internal/dto"
	apierrors "github.com/yukikurage/idea-tracker/internal/errors"
	"github.com/yukikurage/idea-tracker/internal/middleware"
	"github.com/yukikurage/idea-tracker/internal/models"
	"github.com/yukikurage/idea-tracker/internal/services"
)

// IdeaHandler coordinates idea and collaboration HTTP handlers.
type IdeaHandler struct {
	ideaService *services.IdeaService
	render      *Renderer
}

// NewIdeaHandler creates a new IdeaHandler.
func NewIdeaHandler(ideaService *services.IdeaService, render *Renderer) *IdeaHandler {
	return &IdeaHandler{
		ideaService: ideaService,
		render:      render,
	}
}

// ListIdeas renders the ideas the user owns or collaborates on.
func (h *IdeaHandler) ListIdeas(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	query := services.IdeaQuery{
		Name:              c.Query("name"),
		MarketingStrategy: firstQuery(c, "marketing_strategy", "marketing-strategy"),
		TargetCustomer:    firstQuery(c, "target_customer", "target-customer"),
		MinCost:           firstQuery(c, "min_cost", "min-cost"),
		MaxCost:           firstQuery(c, "max_cost", "max-cost"),
		MinPotential:      firstQuery(c, "min_potential", "min-potential"),
	}
	input, notices := services.ParseIdeaQuery(userID, query)

	ideas, err := h.ideaService.ListVisibleIdeas(c.Request.Context(), input)
	if err != nil {
		log.Printf("failed to list ideas for user %d: %v", userID, err)
		apierrors.InternalError(c, "We could not load your ideas right now")
		return
	}

	h.render.HTML(c, http.StatusOK, "ideas.html", gin.H{
		"Title":           "My ideas",
		"Ideas":           dto.ToIdeaDTOs(ideas, userID),
		"Query":           query,
		"Notices":         notices,
		"KnownStrategies": models.KnownMarketingStrategies,
	})
}

// ShowAddIdea renders an empty idea form.
func (h *IdeaHandler) ShowAddIdea(c *gin.Context) {
	h.renderIdeaForm(c, http.StatusOK, dto.IdeaFormDTO{}, nil)
}

// AddIdea creates an idea owned by the current user.
func (h *IdeaHandler) AddIdea(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	input, form := bindIdeaForm(c)

	idea, err := h.ideaService.CreateIdea(c.Request.Context(), userID, input)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			h.renderIdeaForm(c, http.StatusBadRequest, form, verr.Messages)
			return
		}
		log.Printf("failed to create idea for user %d: %v", userID, err)
		h.renderIdeaForm(c, http.StatusInternalServerError, form, []string{"Could not save your idea, please try again"})
		return
	}

	apierrors.RedirectWithSuccess(c, "/ideas", fmt.Sprintf("Added %q", idea.Name))
}

// ShowEditIdea renders the edit page with the collaborator controls.
func (h *IdeaHandler) ShowEditIdea(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	ideaID, _ := middleware.GetIdeaID(c)

	editCtx, err := h.ideaService.EditContext(c.Request.Context(), ideaID, userID)
	if err != nil {
		respondIdeaError(c, err, "/ideas")
		return
	}

	collaborators := make([]dto.UserDTO, len(editCtx.Collaborators))
	for i, collaboration := range editCtx.Collaborators {
		collaborators[i] = dto.ToUserDTO(collaboration.User)
	}

	h.render.HTML(c, http.StatusOK, "edit.html", gin.H{
		"Title":           "Edit " + editCtx.Idea.Name,
		"Idea":            dto.ToIdeaDTO(*editCtx.Idea, userID),
		"Form":            dto.ToIdeaFormDTO(*editCtx.Idea),
		"Collaborators":   collaborators,
		"AvailableUsers":  dto.ToUserDTOs(editCtx.AvailableUsers),
		"KnownStrategies": models.KnownMarketingStrategies,
	})
}

// UpdateIdea saves the edit form. Invalid input goes back to the edit page.
func (h *IdeaHandler) UpdateIdea(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	ideaID, _ := middleware.GetIdeaID(c)
	input, _ := bindIdeaForm(c)

	idea, err := h.ideaService.UpdateIdea(c.Request.Context(), ideaID, userID, input)
	if err != nil {
		respondIdeaError(c, err, editPath(ideaID))
		return
	}

	apierrors.RedirectWithSuccess(c, "/ideas", fmt.Sprintf("Updated %q", idea.Name))
}

// DeleteIdea removes an idea owned by the current user.
func (h *IdeaHandler) DeleteIdea(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	ideaID, _ := middleware.GetIdeaID(c)

	if err := h.ideaService.DeleteIdea(c.Request.Context(), ideaID, userID); err != nil {
		respondIdeaError(c, err, "/ideas")
		return
	}

	apierrors.RedirectWithSuccess(c, "/ideas", "Idea deleted")
}

// AddCollaborator shares the idea with the user named in the form.
func (h *IdeaHandler) AddCollaborator(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	ideaID, _ := middleware.GetIdeaID(c)

	targetID, err := strconv.ParseUint(c.PostForm("user_id"), 10, 64)
	if err != nil {
		apierrors.RedirectWithError(c, editPath(ideaID), "Choose a user to add")
		return
	}

	if err := h.ideaService.AddCollaborator(c.Request.Context(), ideaID, userID, targetID); err != nil {
		respondIdeaError(c, err, editPath(ideaID))
		return
	}

	apierrors.RedirectWithSuccess(c, editPath(ideaID), "Collaborator added")
}

// RemoveCollaborator unlinks the user named in the form. Without a user_id
// the current user removes themself.
func (h *IdeaHandler) RemoveCollaborator(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	ideaID, _ := middleware.GetIdeaID(c)

	targetID := userID
	if raw := c.PostForm("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.RedirectWithError(c, editPath(ideaID), "Collaborator not found")
			return
		}
		targetID = parsed
	}

	if err := h.ideaService.RemoveCollaborator(c.Request.Context(), ideaID, userID, targetID); err != nil {
		respondIdeaError(c, err, editPath(ideaID))
		return
	}

	if targetID == userID {
		apierrors.RedirectWithSuccess(c, "/ideas", "You left the idea")
		return
	}
	apierrors.RedirectWithSuccess(c, editPath(ideaID), "Collaborator removed")
}

// LeaveCollaboration removes the current user from an idea they collaborate on.
func (h *IdeaHandler) LeaveCollaboration(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	ideaID, _ := middleware.GetIdeaID(c)

	if err := h.ideaService.LeaveCollaboration(c.Request.Context(), ideaID, userID); err != nil {
		respondIdeaError(c, err, "/ideas")
		return
	}

	apierrors.RedirectWithSuccess(c, "/ideas", "You left the idea")
}

// ShowSuggestIdeas renders the brainstorm form.
func (h *IdeaHandler) ShowSuggestIdeas(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "suggest.html", gin.H{"Title": "Brainstorm"})
}

// SuggestIdeas drafts ideas from a brief. Drafts are only saved when the
// user submits one through the add form.
func (h *IdeaHandler) SuggestIdeas(c *gin.Context) {
	brief := c.PostForm("brief")

	drafts, err := h.ideaService.SuggestIdeas(c.Request.Context(), brief)
	if err != nil {
		var verr *services.ValidationError
		status, message := http.StatusBadGateway, "Could not draft ideas right now, please try again"
		switch {
		case errors.As(err, &verr):
			status, message = http.StatusBadRequest, strings.Join(verr.Messages, "; ")
		case errors.Is(err, services.ErrAIServiceNotConfigured):
			status, message = http.StatusServiceUnavailable, "Brainstorming is not enabled on this server"
		case errors.Is(err, services.ErrAINoValidIdeas):
			status, message = http.StatusUnprocessableEntity, err.Error()
		default:
			log.Printf("failed to draft ideas: %v", err)
		}
		h.render.HTML(c, status, "suggest.html", gin.H{
			"Title":  "Brainstorm",
			"Brief":  brief,
			"Errors": []string{message},
		})
		return
	}

	suggestions := make([]dto.IdeaFormDTO, len(drafts))
	for i, d := range drafts {
		suggestions[i] = suggestionForm(d)
	}

	h.render.HTML(c, http.StatusOK, "suggest.html", gin.H{
		"Title":       "Brainstorm",
		"Brief":       brief,
		"Suggestions": suggestions,
	})
}

func (h *IdeaHandler) renderIdeaForm(c *gin.Context, status int, form dto.IdeaFormDTO, messages []string) {
	h.render.HTML(c, status, "idea_form.html", gin.H{
		"Title":           "Add idea",
		"Form":            form,
		"Errors":          messages,
		"KnownStrategies": models.KnownMarketingStrategies,
	})
}

// respondIdeaError flashes a readable message and redirects. Validation
// failures go to fallback; everything else returns to the listing.
func respondIdeaError(c *gin.Context, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.RedirectWithError(c, fallback, strings.Join(verr.Messages, "; "))
	case errors.Is(err, services.ErrIdeaNotFound):
		apierrors.RedirectWithError(c, "/ideas", "Idea not found")
	case errors.Is(err, services.ErrForbidden):
		apierrors.RedirectWithError(c, "/ideas", "You do not have permission to do that")
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrCollaborationNotFound),
		errors.Is(err, services.ErrCannotCollaborateWithOwner):
		apierrors.RedirectWithError(c, fallback, capitalize(err.Error()))
	default:
		log.Printf("idea request failed: %v", err)
		apierrors.RedirectWithError(c, "/ideas", "Something went wrong, please try again")
	}
}

func bindIdeaForm(c *gin.Context) (services.IdeaInput, dto.IdeaFormDTO) {
	strategies := c.PostFormArray("marketing_strategies")
	input := services.IdeaInput{
		Name:                c.PostForm("name"),
		Description:         c.PostForm("description"),
		MarketingStrategies: strategies,
		TargetCustomer:      c.PostForm("target_customer"),
		EstimatedCost:       c.PostForm("estimated_cost"),
		Timeline:            c.PostForm("timeline"),
		Potential:           c.PostForm("potential"),
	}
	form := dto.IdeaFormDTO{
		Name:                input.Name,
		Description:         input.Description,
		MarketingStrategies: strings.Join(strategies, ", "),
		TargetCustomer:      input.TargetCustomer,
		EstimatedCost:       input.EstimatedCost,
		Timeline:            input.Timeline,
		Potential:           input.Potential,
	}
	return input, form
}

func suggestionForm(d services.SuggestedIdea) dto.IdeaFormDTO {
	form := dto.IdeaFormDTO{
		Name:                d.Name,
		Description:         d.Description,
		MarketingStrategies: strings.Join(d.MarketingStrategies, ", "),
		TargetCustomer:      d.TargetCustomer,
		Timeline:            d.Timeline,
	}
	if d.EstimatedCost != nil {
		form.EstimatedCost = strconv.FormatFloat(*d.EstimatedCost, 'f', -1, 64)
	}
	if d.Potential != nil {
		form.Potential = strconv.Itoa(*d.Potential)
	}
	return form
}

func firstQuery(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if v := c.Query(key); v != "" {
			return v
		}
	}
	return ""
}

func editPath(ideaID uint64) string {
	return "/editIdea/" + strconv.FormatUint(ideaID, 10)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
