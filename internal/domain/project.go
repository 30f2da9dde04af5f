package domain

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	Image       string    `json:"image" gorm:"size:256;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}
