package postgres

import (
	"context"

	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type experienceRepository struct {
	db *gorm.DB
}

func NewExperienceRepository(db *gorm.DB) *experienceRepository {
	return &experienceRepository{db: db}
}

func (r *experienceRepository) Create(ctx context.Context, experience *domain.Experience) error {
	return r.db.WithContext(ctx).Create(experience).Error
}

func (r *experienceRepository) GetByID(ctx context.Context, id uint) (*domain.Experience, error) {
	var experience domain.Experience
	err := r.db.WithContext(ctx).First(&experience, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &experience, nil
}

func (r *experienceRepository) List(ctx context.Context, limit, offset int) ([]*domain.Experience, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Experience{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var experiences []*domain.Experience
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&experiences).Error
	if err != nil {
		return nil, 0, err
	}
	return experiences, total, nil
}

func (r *experienceRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Experience, error) {
	var experiences []*domain.Experience
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date ASC, id ASC").
		Find(&experiences).Error
	if err != nil {
		return nil, err
	}
	return experiences, nil
}

func (r *experienceRepository) HasDuplicate(ctx context.Context, experience *domain.Experience) (bool, error) {
	query := r.db.WithContext(ctx).Model(&domain.Experience{}).
		Where("user_id = ? AND company_name = ? AND role = ? AND start_date = ? AND description = ?",
			experience.UserID, experience.CompanyName, experience.Role, experience.StartDate, experience.Description)

	if experience.EndDate == nil {
		query = query.Where("end_date IS NULL")
	} else {
		query = query.Where("end_date = ?", *experience.EndDate)
	}
	if experience.ID != 0 {
		query = query.Where("id <> ?", experience.ID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *experienceRepository) Update(ctx context.Context, experience *domain.Experience) error {
	return r.db.WithContext(ctx).Save(experience).Error
}

func (r *experienceRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Experience{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
