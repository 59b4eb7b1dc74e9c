package repository

import (
	"context"

	"github.com/yukikurage/idea-tracker/internal/database"
	"github.com/yukikurage/idea-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ideaEditableColumns are the columns Update may write. owner_id is absent on purpose.
var ideaEditableColumns = []string{
	"name",
	"description",
	"target_customer",
	"estimated_cost",
	"timeline",
	"potential",
	"updated_at",
}

// GormIdeaRepository is a GORM implementation of IdeaRepository
type GormIdeaRepository struct {
	db *gorm.DB
}

// NewIdeaRepository creates a new IdeaRepository
func NewIdeaRepository(db *gorm.DB) IdeaRepository {
	return &GormIdeaRepository{db: db}
}

// Create stores a new idea and its marketing strategy tags in one transaction
func (r *GormIdeaRepository) Create(ctx context.Context, idea *models.Idea) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		strategies := idea.MarketingStrategies
		if err := tx.Omit(clause.Associations).Create(idea).Error; err != nil {
			return err
		}

		if err := createStrategies(tx, idea.ID, strategies); err != nil {
			return err
		}
		idea.MarketingStrategies = strategies
		return nil
	})
}

// FindByID finds an idea by ID with optional preloading
func (r *GormIdeaRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Idea, error) {
	var idea models.Idea
	query := r.db.WithContext(ctx)

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&idea, id).Error; err != nil {
		return nil, err
	}

	return &idea, nil
}

// ListVisible retrieves the ideas a user owns or collaborates on, newest first
func (r *GormIdeaRepository) ListVisible(ctx context.Context, filter IdeaFilter) ([]models.Idea, error) {
	var ideas []models.Idea

	collaborationSubQuery := r.db.Model(&models.Collaboration{}).
		Select("1").
		Where("collaborations.idea_id = idea_details.id").
		Where("collaborations.user_id = ?", filter.ViewerID)

	// A single predicate over idea_details keeps each idea to one row even when
	// the viewer is both owner and collaborator.
	query := r.db.WithContext(ctx).Model(&models.Idea{}).
		Where("idea_details.owner_id = ? OR EXISTS (?)", filter.ViewerID, collaborationSubQuery)

	// Apply filters
	if filter.Name != nil {
		query = query.Scopes(database.ColumnContains("idea_details.name", *filter.Name))
	}
	if filter.TargetCustomer != nil {
		query = query.Scopes(database.ColumnContains("idea_details.target_customer", *filter.TargetCustomer))
	}
	if filter.MarketingStrategy != nil {
		strategySubQuery := r.db.Model(&models.IdeaMarketingStrategy{}).
			Select("1").
			Where("idea_marketing_strategies.idea_id = idea_details.id").
			Where("idea_marketing_strategies.strategy = ?", *filter.MarketingStrategy)
		query = query.Where("EXISTS (?)", strategySubQuery)
	}
	if filter.MinCost != nil {
		query = query.Where("idea_details.estimated_cost >= ?", *filter.MinCost)
	}
	if filter.MaxCost != nil {
		query = query.Where("idea_details.estimated_cost <= ?", *filter.MaxCost)
	}
	if filter.MinPotential != nil {
		query = query.Where("idea_details.potential >= ?", *filter.MinPotential)
	}

	err := query.
		Scopes(database.NewestFirst("idea_details")).
		Preload("Owner").
		Preload("MarketingStrategies", orderStrategies).
		Preload("Collaborations", orderCollaborations).
		Preload("Collaborations.User").
		Find(&ideas).Error
	if err != nil {
		return nil, err
	}

	return ideas, nil
}

// Update writes the editable columns and replaces the marketing strategy tags
func (r *GormIdeaRepository) Update(ctx context.Context, idea *models.Idea) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		strategies := idea.MarketingStrategies

		if err := tx.Model(idea).Select(ideaEditableColumns).Updates(idea).Error; err != nil {
			return err
		}

		if err := tx.Where("idea_id = ?", idea.ID).Delete(&models.IdeaMarketingStrategy{}).Error; err != nil {
			return err
		}

		if err := createStrategies(tx, idea.ID, strategies); err != nil {
			return err
		}
		idea.MarketingStrategies = strategies
		return nil
	})
}

// Delete removes the idea's tags, its collaborations and then the idea itself in a transaction
func (r *GormIdeaRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("idea_id = ?", id).Delete(&models.IdeaMarketingStrategy{}).Error; err != nil {
			return err
		}

		if err := tx.Where("idea_id = ?", id).Delete(&models.Collaboration{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Idea{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AddCollaborator links a user to an idea, ignoring an existing link
func (r *GormIdeaRepository) AddCollaborator(ctx context.Context, ideaID, userID uint64) error {
	collaboration := &models.Collaboration{
		IdeaID: ideaID,
		UserID: userID,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idea_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(collaboration).Error
}

// RemoveCollaborator unlinks a user from an idea
func (r *GormIdeaRepository) RemoveCollaborator(ctx context.Context, ideaID, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("idea_id = ? AND user_id = ?", ideaID, userID).
		Delete(&models.Collaboration{}).Error
}

// FindCollaboration finds a specific collaboration
func (r *GormIdeaRepository) FindCollaboration(ctx context.Context, ideaID, userID uint64) (*models.Collaboration, error) {
	var collaboration models.Collaboration
	if err := r.db.WithContext(ctx).
		Where("idea_id = ? AND user_id = ?", ideaID, userID).
		First(&collaboration).Error; err != nil {
		return nil, err
	}
	return &collaboration, nil
}

// ListCollaborators lists the collaborations of an idea with their users
func (r *GormIdeaRepository) ListCollaborators(ctx context.Context, ideaID uint64) ([]models.Collaboration, error) {
	var collaborations []models.Collaboration
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("idea_id = ?", ideaID).
		Order("id ASC").
		Find(&collaborations).Error; err != nil {
		return nil, err
	}
	return collaborations, nil
}
