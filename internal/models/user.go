package models

import "time"

type User struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	Username       string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash   string     `gorm:"type:varchar(255);not null" json:"-"`
	Email          string     `gorm:"type:varchar(255)" json:"email"`
	FirstName      string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName       string     `gorm:"type:varchar(100)" json:"last_name"`
	LastLogin      *time.Time `json:"last_login"`
	FailedAttempts int        `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Ideas          []Idea          `gorm:"foreignKey:OwnerID" json:"-"`
	Collaborations []Collaboration `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "security"
}

// DisplayName returns "First Last" when set, otherwise the username.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Username
	}
}
