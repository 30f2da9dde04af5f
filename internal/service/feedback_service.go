package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/dom/cv-builder-api/internal/repository"
	"github.com/dom/cv-builder-api/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedbackService struct {
	feedbacks repository.FeedbackRepository
	users     repository.UserRepository
	cv        cvInvalidator
	validator *validation.Validator
}

func NewFeedbackService(
	feedbacks repository.FeedbackRepository,
	users repository.UserRepository,
	cv cvInvalidator,
	v *validation.Validator,
) *FeedbackService {
	return &FeedbackService{
		feedbacks: feedbacks,
		users:     users,
		cv:        cv,
		validator: v,
	}
}

type CreateFeedbackInput struct {
	FromUser    string `json:"fromUser" validate:"required,uuid"`
	ToUser      string `json:"toUser" validate:"required,uuid"`
	CompanyName string `json:"companyName" validate:"required,max=128"`
	Content     string `json:"content" validate:"required,min=5,max=256"`
}

func (in *CreateFeedbackInput) clean(v *validation.Validator) {
	in.CompanyName = v.Clean(in.CompanyName)
	in.Content = v.Clean(in.Content)
}

type UpdateFeedbackInput struct {
	FromUser    *string `json:"fromUser" validate:"omitnil,required,uuid"`
	ToUser      *string `json:"toUser" validate:"omitnil,required,uuid"`
	CompanyName *string `json:"companyName" validate:"omitnil,required,max=128"`
	Content     *string `json:"content" validate:"omitnil,required,min=5,max=256"`
}

func (in *UpdateFeedbackInput) clean(v *validation.Validator) {
	in.CompanyName = v.CleanPtr(in.CompanyName)
	in.Content = v.CleanPtr(in.Content)
}

// Create stores feedback written by the actor about another user.
func (s *FeedbackService) Create(ctx context.Context, actor domain.Actor, input CreateFeedbackInput) (*domain.Feedback, error) {
	input.clean(s.validator)
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	feedback := &domain.Feedback{
		FromUser:    uuid.MustParse(input.FromUser),
		ToUser:      uuid.MustParse(input.ToUser),
		CompanyName: input.CompanyName,
		Content:     input.Content,
	}
	if err := checkAuthorship(actor, feedback); err != nil {
		return nil, err
	}
	if err := s.ensureRecipient(ctx, feedback.ToUser); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, feedback); err != nil {
		return nil, err
	}

	now := time.Now()
	feedback.CreatedAt = now
	feedback.UpdatedAt = now
	if err := s.feedbacks.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	s.cv.Invalidate(ctx, feedback.ToUser)
	return feedback, nil
}

func (s *FeedbackService) Get(ctx context.Context, id uint) (*domain.Feedback, error) {
	feedback, err := s.feedbacks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return feedback, nil
}

func (s *FeedbackService) List(ctx context.Context, page Page) ([]*domain.Feedback, int64, error) {
	return s.feedbacks.List(ctx, page.Size, page.Offset())
}

// Update lets the author amend their feedback. The merged record must still
// be authored by the actor and addressed to someone else.
func (s *FeedbackService) Update(ctx context.Context, actor domain.Actor, id uint, input UpdateFeedbackInput) (*domain.Feedback, error) {
	input.clean(s.validator)
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	feedback, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if feedback.FromUser != actor.ID {
		return nil, ErrForbidden
	}

	previousRecipient := feedback.ToUser
	if input.FromUser != nil {
		feedback.FromUser = uuid.MustParse(*input.FromUser)
	}
	if input.ToUser != nil {
		feedback.ToUser = uuid.MustParse(*input.ToUser)
	}
	if input.CompanyName != nil {
		feedback.CompanyName = *input.CompanyName
	}
	if input.Content != nil {
		feedback.Content = *input.Content
	}

	if err := checkAuthorship(actor, feedback); err != nil {
		return nil, err
	}
	if feedback.ToUser != previousRecipient {
		if err := s.ensureRecipient(ctx, feedback.ToUser); err != nil {
			return nil, err
		}
	}
	if err := s.ensureUnique(ctx, feedback); err != nil {
		return nil, err
	}

	feedback.UpdatedAt = time.Now()
	if err := s.feedbacks.Update(ctx, feedback); err != nil {
		return nil, fmt.Errorf("update feedback: %w", err)
	}

	s.cv.Invalidate(ctx, previousRecipient, feedback.ToUser)
	return feedback, nil
}

func (s *FeedbackService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	feedback, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(feedback.FromUser) {
		return ErrForbidden
	}

	if err := s.feedbacks.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeedbackNotFound
		}
		return fmt.Errorf("delete feedback: %w", err)
	}

	s.cv.Invalidate(ctx, feedback.ToUser)
	return nil
}

func checkAuthorship(actor domain.Actor, feedback *domain.Feedback) error {
	if feedback.FromUser != actor.ID || feedback.IsSelfAddressed() {
		return ErrFeedbackNotAllowed
	}
	return nil
}

func (s *FeedbackService) ensureRecipient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipientNotFound
		}
		return err
	}
	return nil
}

func (s *FeedbackService) ensureUnique(ctx context.Context, feedback *domain.Feedback) error {
	exists, err := s.feedbacks.HasDuplicate(ctx, feedback)
	if err != nil {
		return err
	}
	if exists {
		return ErrFeedbackExists
	}
	return nil
}
