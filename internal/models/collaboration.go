package models

import "time"

type Collaboration struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	IdeaID    uint64    `gorm:"not null;uniqueIndex:idx_collaboration_idea_user" json:"idea_id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_collaboration_idea_user;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Collaboration) TableName() string {
	return "collaborations"
}
