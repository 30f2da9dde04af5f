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

type ExperienceService struct {
	experiences repository.ExperienceRepository
	users       repository.UserRepository
	cv          cvInvalidator
	validator   *validation.Validator
}

func NewExperienceService(
	experiences repository.ExperienceRepository,
	users repository.UserRepository,
	cv cvInvalidator,
	v *validation.Validator,
) *ExperienceService {
	return &ExperienceService{
		experiences: experiences,
		users:       users,
		cv:          cv,
		validator:   v,
	}
}

type CreateExperienceInput struct {
	UserID      string `json:"userId" validate:"required,uuid"`
	CompanyName string `json:"companyName" validate:"required,max=128"`
	Role        string `json:"role" validate:"required,max=256"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"omitempty,enddate"`
	Description string `json:"description" validate:"required,max=256"`
}

func (in *CreateExperienceInput) clean(v *validation.Validator) {
	in.CompanyName = v.Clean(in.CompanyName)
	in.Role = v.Clean(in.Role)
	in.Description = v.Clean(in.Description)
}

// UpdateExperienceInput holds a partial update. An empty or "until now"
// end date marks the position as ongoing.
type UpdateExperienceInput struct {
	UserID      *string `json:"userId" validate:"omitnil,required,uuid"`
	CompanyName *string `json:"companyName" validate:"omitnil,required,max=128"`
	Role        *string `json:"role" validate:"omitnil,required,max=256"`
	StartDate   *string `json:"startDate" validate:"omitnil,required,datetime=2006-01-02"`
	EndDate     *string `json:"endDate" validate:"omitnil,enddate"`
	Description *string `json:"description" validate:"omitnil,required,max=256"`
}

func (in *UpdateExperienceInput) clean(v *validation.Validator) {
	in.CompanyName = v.CleanPtr(in.CompanyName)
	in.Role = v.CleanPtr(in.Role)
	in.Description = v.CleanPtr(in.Description)
}

func (s *ExperienceService) Create(ctx context.Context, actor domain.Actor, input CreateExperienceInput) (*domain.Experience, error) {
	input.clean(s.validator)
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	ownerID := uuid.MustParse(input.UserID)
	if !actor.CanManage(ownerID) {
		return nil, ErrForbidden
	}
	if err := s.ensureUser(ctx, ownerID); err != nil {
		return nil, err
	}

	startDate, err := domain.ParseDate(input.StartDate)
	if err != nil {
		return nil, validation.NewError("startDate", "Invalid start date")
	}
	endDate, err := domain.ParseEndDate(input.EndDate)
	if err != nil {
		return nil, validation.NewError("endDate", "Invalid end date")
	}

	experience := &domain.Experience{
		UserID:      ownerID,
		CompanyName: input.CompanyName,
		Role:        input.Role,
		StartDate:   startDate,
		EndDate:     endDate,
		Description: input.Description,
	}
	if err := checkDateOrder(experience); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, experience); err != nil {
		return nil, err
	}

	now := time.Now()
	experience.CreatedAt = now
	experience.UpdatedAt = now
	if err := s.experiences.Create(ctx, experience); err != nil {
		return nil, fmt.Errorf("create experience: %w", err)
	}

	s.cv.Invalidate(ctx, experience.UserID)
	return experience, nil
}

func (s *ExperienceService) Get(ctx context.Context, id uint) (*domain.Experience, error) {
	experience, err := s.experiences.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExperienceNotFound
		}
		return nil, err
	}
	return experience, nil
}

func (s *ExperienceService) List(ctx context.Context, page Page) ([]*domain.Experience, int64, error) {
	return s.experiences.List(ctx, page.Size, page.Offset())
}

func (s *ExperienceService) Update(ctx context.Context, actor domain.Actor, id uint, input UpdateExperienceInput) (*domain.Experience, error) {
	input.clean(s.validator)
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	experience, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(experience.UserID) {
		return nil, ErrForbidden
	}

	previousOwner := experience.UserID
	if input.UserID != nil {
		ownerID := uuid.MustParse(*input.UserID)
		if ownerID != previousOwner {
			if !actor.CanManage(ownerID) {
				return nil, ErrForbidden
			}
			if err := s.ensureUser(ctx, ownerID); err != nil {
				return nil, err
			}
			experience.UserID = ownerID
		}
	}
	if input.CompanyName != nil {
		experience.CompanyName = *input.CompanyName
	}
	if input.Role != nil {
		experience.Role = *input.Role
	}
	if input.StartDate != nil {
		startDate, err := domain.ParseDate(*input.StartDate)
		if err != nil {
			return nil, validation.NewError("startDate", "Invalid start date")
		}
		experience.StartDate = startDate
	}
	if input.EndDate != nil {
		endDate, err := domain.ParseEndDate(*input.EndDate)
		if err != nil {
			return nil, validation.NewError("endDate", "Invalid end date")
		}
		experience.EndDate = endDate
	}
	if input.Description != nil {
		experience.Description = *input.Description
	}
	if err := checkDateOrder(experience); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, experience); err != nil {
		return nil, err
	}

	experience.UpdatedAt = time.Now()
	if err := s.experiences.Update(ctx, experience); err != nil {
		return nil, fmt.Errorf("update experience: %w", err)
	}

	s.cv.Invalidate(ctx, previousOwner, experience.UserID)
	return experience, nil
}

func (s *ExperienceService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	experience, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(experience.UserID) {
		return ErrForbidden
	}

	if err := s.experiences.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExperienceNotFound
		}
		return fmt.Errorf("delete experience: %w", err)
	}

	s.cv.Invalidate(ctx, experience.UserID)
	return nil
}

func (s *ExperienceService) ensureUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *ExperienceService) ensureUnique(ctx context.Context, experience *domain.Experience) error {
	exists, err := s.experiences.HasDuplicate(ctx, experience)
	if err != nil {
		return err
	}
	if exists {
		return ErrExperienceExists
	}
	return nil
}

func checkDateOrder(experience *domain.Experience) error {
	if experience.EndDate == nil {
		return nil
	}
	if time.Time(*experience.EndDate).Before(time.Time(experience.StartDate)) {
		return validation.NewError("endDate", "endDate must not be before startDate")
	}
	return nil
}
