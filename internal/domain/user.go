package domain

import (
	"time"

	"github.com/google/uuid"
)

// Placeholder image references used when no upload was provided.
const (
	DefaultUserImage    = "default.png"
	DefaultProjectImage = "project-image.png"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	FirstName    string    `json:"firstName" gorm:"size:128;not null"`
	LastName     string    `json:"lastName" gorm:"size:128;not null"`
	Image        string    `json:"image" gorm:"size:256;not null"`
	Title        string    `json:"title" gorm:"size:256;not null"`
	Summary      string    `json:"summary" gorm:"size:256;not null"`
	Role         UserRole  `json:"role" gorm:"type:varchar(50);not null"`
	Email        string    `json:"email" gorm:"size:128;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// Actor is the authenticated caller of a request.
type Actor struct {
	ID   uuid.UUID
	Role UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage reports whether the actor may mutate a record owned by ownerID.
func (a Actor) CanManage(ownerID uuid.UUID) bool {
	return a.IsAdmin() || a.ID == ownerID
}
