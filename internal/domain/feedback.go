package domain

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a note written by one user about another.
type Feedback struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FromUser    uuid.UUID `json:"fromUser" gorm:"type:uuid;not null;index"`
	ToUser      uuid.UUID `json:"toUser" gorm:"type:uuid;not null;index"`
	CompanyName string    `json:"companyName" gorm:"size:128;not null"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Author    *User `json:"-" gorm:"foreignKey:FromUser;constraint:OnDelete:CASCADE"`
	Recipient *User `json:"-" gorm:"foreignKey:ToUser;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Feedback) TableName() string {
	return "feedbacks"
}

// IsSelfAddressed reports whether the author wrote about themself.
func (f *Feedback) IsSelfAddressed() bool {
	return f.FromUser == f.ToUser
}
