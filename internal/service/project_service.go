package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/cv-builder-api/internal/config"
	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/dom/cv-builder-api/internal/repository"
	"github.com/dom/cv-builder-api/internal/storage"
	"github.com/dom/cv-builder-api/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectService struct {
	projects  repository.ProjectRepository
	users     repository.UserRepository
	store     storage.Store
	cv        cvInvalidator
	validator *validation.Validator
	cfg       *config.Config
}

func NewProjectService(
	projects repository.ProjectRepository,
	users repository.UserRepository,
	store storage.Store,
	cv cvInvalidator,
	v *validation.Validator,
	cfg *config.Config,
) *ProjectService {
	return &ProjectService{
		projects:  projects,
		users:     users,
		store:     store,
		cv:        cv,
		validator: v,
		cfg:       cfg,
	}
}

type CreateProjectInput struct {
	UserID      string          `json:"userId" validate:"required,uuid"`
	Description string          `json:"description" validate:"required,max=128"`
	Image       *storage.Upload `json:"-" validate:"-"`
}

func (in *CreateProjectInput) clean(v *validation.Validator) {
	in.Description = v.Clean(in.Description)
}

type UpdateProjectInput struct {
	UserID      *string         `json:"userId" validate:"omitnil,required,uuid"`
	Description *string         `json:"description" validate:"omitnil,required,max=128"`
	Image       *storage.Upload `json:"-" validate:"-"`
}

func (in *UpdateProjectInput) clean(v *validation.Validator) {
	in.Description = v.CleanPtr(in.Description)
}

func (s *ProjectService) Create(ctx context.Context, actor domain.Actor, input CreateProjectInput) (*domain.Project, error) {
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

	project := &domain.Project{
		UserID:      ownerID,
		Image:       domain.DefaultProjectImage,
		Description: input.Description,
	}
	if err := s.ensureUnique(ctx, project); err != nil {
		return nil, err
	}

	if input.Image != nil {
		key, err := storeImage(ctx, s.store, input.Image, s.cfg.MaxUploadBytes)
		if err != nil {
			return nil, err
		}
		project.Image = key
	}

	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if err := s.projects.Create(ctx, project); err != nil {
		discardImage(ctx, s.store, project.Image, "project.Create")
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.cv.Invalidate(ctx, project.UserID)
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, page Page) ([]*domain.Project, int64, error) {
	return s.projects.List(ctx, page.Size, page.Offset())
}

func (s *ProjectService) Update(ctx context.Context, actor domain.Actor, id uint, input UpdateProjectInput) (*domain.Project, error) {
	input.clean(s.validator)
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(project.UserID) {
		return nil, ErrForbidden
	}

	previousOwner := project.UserID
	if input.UserID != nil {
		ownerID := uuid.MustParse(*input.UserID)
		if ownerID != previousOwner {
			if !actor.CanManage(ownerID) {
				return nil, ErrForbidden
			}
			if err := s.ensureUser(ctx, ownerID); err != nil {
				return nil, err
			}
			project.UserID = ownerID
		}
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if err := s.ensureUnique(ctx, project); err != nil {
		return nil, err
	}

	oldImage := project.Image
	if input.Image != nil {
		key, err := storeImage(ctx, s.store, input.Image, s.cfg.MaxUploadBytes)
		if err != nil {
			return nil, err
		}
		project.Image = key
	}

	project.UpdatedAt = time.Now()
	if err := s.projects.Update(ctx, project); err != nil {
		if project.Image != oldImage {
			discardImage(ctx, s.store, project.Image, "project.Update")
		}
		return nil, fmt.Errorf("update project: %w", err)
	}

	if project.Image != oldImage {
		discardImage(ctx, s.store, oldImage, "project.Update")
	}
	s.cv.Invalidate(ctx, previousOwner, project.UserID)
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	project, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(project.UserID) {
		return ErrForbidden
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("delete project: %w", err)
	}

	discardImage(ctx, s.store, project.Image, "project.Delete")
	s.cv.Invalidate(ctx, project.UserID)
	return nil
}

func (s *ProjectService) ensureUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *ProjectService) ensureUnique(ctx context.Context, project *domain.Project) error {
	exists, err := s.projects.HasDuplicate(ctx, project)
	if err != nil {
		return err
	}
	if exists {
		return ErrProjectExists
	}
	return nil
}
