package repository

import (
	"context"

	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/google/uuid"
)

// Lookups return gorm.ErrRecordNotFound when the row does not exist.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]*domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ExperienceRepository interface {
	Create(ctx context.Context, experience *domain.Experience) error
	GetByID(ctx context.Context, id uint) (*domain.Experience, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Experience, int64, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Experience, error)
	// HasDuplicate reports whether another row carries the same owner and content.
	HasDuplicate(ctx context.Context, experience *domain.Experience) (bool, error)
	Update(ctx context.Context, experience *domain.Experience) error
	Delete(ctx context.Context, id uint) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id uint) (*domain.Project, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Project, int64, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	HasDuplicate(ctx context.Context, project *domain.Project) (bool, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id uint) error
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	GetByID(ctx context.Context, id uint) (*domain.Feedback, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Feedback, int64, error)
	ListByRecipient(ctx context.Context, toUser uuid.UUID) ([]*domain.Feedback, error)
	// RecipientsOf returns the distinct users that fromUser wrote feedback about.
	RecipientsOf(ctx context.Context, fromUser uuid.UUID) ([]uuid.UUID, error)
	HasDuplicate(ctx context.Context, feedback *domain.Feedback) (bool, error)
	Update(ctx context.Context, feedback *domain.Feedback) error
	Delete(ctx context.Context, id uint) error
}

type Repositories struct {
	User       UserRepository
	Experience ExperienceRepository
	Project    ProjectRepository
	Feedback   FeedbackRepository
}
