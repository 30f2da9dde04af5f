package postgres

import (
	"context"

	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *feedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepository) GetByID(ctx context.Context, id uint) (*domain.Feedback, error) {
	var feedback domain.Feedback
	err := r.db.WithContext(ctx).First(&feedback, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepository) List(ctx context.Context, limit, offset int) ([]*domain.Feedback, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Feedback{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var feedbacks []*domain.Feedback
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&feedbacks).Error
	if err != nil {
		return nil, 0, err
	}
	return feedbacks, total, nil
}

func (r *feedbackRepository) ListByRecipient(ctx context.Context, toUser uuid.UUID) ([]*domain.Feedback, error) {
	var feedbacks []*domain.Feedback
	err := r.db.WithContext(ctx).
		Where("to_user = ?", toUser).
		Order("id ASC").
		Find(&feedbacks).Error
	if err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (r *feedbackRepository) RecipientsOf(ctx context.Context, fromUser uuid.UUID) ([]uuid.UUID, error) {
	var recipients []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.Feedback{}).
		Distinct("to_user").
		Where("from_user = ?", fromUser).
		Pluck("to_user", &recipients).Error
	if err != nil {
		return nil, err
	}
	return recipients, nil
}

func (r *feedbackRepository) HasDuplicate(ctx context.Context, feedback *domain.Feedback) (bool, error) {
	query := r.db.WithContext(ctx).Model(&domain.Feedback{}).
		Where("from_user = ? AND to_user = ? AND company_name = ? AND content = ?",
			feedback.FromUser, feedback.ToUser, feedback.CompanyName, feedback.Content)
	if feedback.ID != 0 {
		query = query.Where("id <> ?", feedback.ID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *feedbackRepository) Update(ctx context.Context, feedback *domain.Feedback) error {
	return r.db.WithContext(ctx).Save(feedback).Error
}

func (r *feedbackRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Feedback{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
