package models

import "time"

type Idea struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	OwnerID        uint64    `gorm:"not null;index" json:"owner_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	TargetCustomer *string   `gorm:"type:varchar(255)" json:"target_customer"`
	EstimatedCost  *float64  `gorm:"type:decimal(14,2)" json:"estimated_cost"`
	Timeline       *string   `gorm:"type:varchar(255)" json:"timeline"`
	Potential      *int      `json:"potential"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Owner               User                    `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	MarketingStrategies []IdeaMarketingStrategy `gorm:"foreignKey:IdeaID;constraint:OnDelete:CASCADE" json:"marketing_strategies,omitempty"`
	Collaborations      []Collaboration         `gorm:"foreignKey:IdeaID;constraint:OnDelete:CASCADE" json:"collaborations,omitempty"`
}

func (Idea) TableName() string {
	return "idea_details"
}

// StrategyTags returns the idea's marketing strategy tags in stored order.
func (i Idea) StrategyTags() []string {
	tags := make([]string, len(i.MarketingStrategies))
	for n, s := range i.MarketingStrategies {
		tags[n] = s.Strategy
	}
	return tags
}

// IdeaMarketingStrategy is one tag of an idea's marketing strategy set.
type IdeaMarketingStrategy struct {
	ID       uint64 `gorm:"primarykey" json:"-"`
	IdeaID   uint64 `gorm:"not null;uniqueIndex:idx_idea_strategy" json:"idea_id"`
	Strategy string `gorm:"type:varchar(50);not null;uniqueIndex:idx_idea_strategy;index" json:"strategy"`
}

func (IdeaMarketingStrategy) TableName() string {
	return "idea_marketing_strategies"
}

// KnownMarketingStrategies are suggested on the idea form and filter.
// Other tags are accepted as free text.
var KnownMarketingStrategies = []string{
	"social_media",
	"email",
	"content",
	"seo",
	"paid_ads",
	"partnerships",
	"word_of_mouth",
	"events",
}
