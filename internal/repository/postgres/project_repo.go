package postgres

import (
	"context"

	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *projectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, limit, offset int) ([]*domain.Project, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Project{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []*domain.Project
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *projectRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	var projects []*domain.Project
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) HasDuplicate(ctx context.Context, project *domain.Project) (bool, error) {
	query := r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("user_id = ? AND description = ?", project.UserID, project.Description)
	if project.ID != 0 {
		query = query.Where("id <> ?", project.ID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
