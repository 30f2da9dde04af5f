package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dom/cv-builder-api/internal/config"
	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/dom/cv-builder-api/internal/repository"
	"github.com/dom/cv-builder-api/internal/storage"
	"github.com/dom/cv-builder-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	users     repository.UserRepository
	feedbacks repository.FeedbackRepository
	store     storage.Store
	cv        cvInvalidator
	validator *validation.Validator
	cfg       *config.Config
}

func NewUserService(
	users repository.UserRepository,
	feedbacks repository.FeedbackRepository,
	store storage.Store,
	cv cvInvalidator,
	v *validation.Validator,
	cfg *config.Config,
) *UserService {
	return &UserService{
		users:     users,
		feedbacks: feedbacks,
		store:     store,
		cv:        cv,
		validator: v,
		cfg:       cfg,
	}
}

type CreateUserInput struct {
	FirstName string          `json:"firstName" validate:"required,max=128"`
	LastName  string          `json:"lastName" validate:"required,max=128"`
	Title     string          `json:"title" validate:"required,max=256"`
	Summary   string          `json:"summary" validate:"required,max=256"`
	Email     string          `json:"email" validate:"required,email,max=128"`
	Password  string          `json:"password" validate:"required,min=5,max=15"`
	Role      string          `json:"role" validate:"omitempty,userrole"`
	Image     *storage.Upload `json:"-" validate:"-"`
}

func (in *CreateUserInput) clean(v *validation.Validator) {
	in.FirstName = v.Clean(in.FirstName)
	in.LastName = v.Clean(in.LastName)
	in.Title = v.Clean(in.Title)
	in.Summary = v.Clean(in.Summary)
}

// UpdateUserInput holds a partial update. Nil fields are left unchanged.
type UpdateUserInput struct {
	FirstName *string         `json:"firstName" validate:"omitnil,required,max=128"`
	LastName  *string         `json:"lastName" validate:"omitnil,required,max=128"`
	Title     *string         `json:"title" validate:"omitnil,required,max=256"`
	Summary   *string         `json:"summary" validate:"omitnil,required,max=256"`
	Email     *string         `json:"email" validate:"omitnil,required,email,max=128"`
	Password  *string         `json:"password" validate:"omitnil,required,min=5,max=15"`
	Role      *string         `json:"role" validate:"omitnil,required,userrole"`
	Image     *storage.Upload `json:"-" validate:"-"`
}

func (in *UpdateUserInput) clean(v *validation.Validator) {
	in.FirstName = v.CleanPtr(in.FirstName)
	in.LastName = v.CleanPtr(in.LastName)
	in.Title = v.CleanPtr(in.Title)
	in.Summary = v.CleanPtr(in.Summary)
}

// Register creates a regular user account. Any role in the input is ignored.
func (s *UserService) Register(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	input.Role = string(domain.RoleUser)
	return s.create(ctx, input)
}

// Create adds a user with an explicit role. Used by administrators.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if input.Role == "" {
		input.Role = string(domain.RoleUser)
	}
	return s.create(ctx, input)
}

func (s *UserService) create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	input.clean(s.validator)
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	email := validation.NormalizeEmail(input.Email)
	if err := s.ensureEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	image := domain.DefaultUserImage
	if input.Image != nil {
		image, err = storeImage(ctx, s.store, input.Image, s.cfg.MaxUploadBytes)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Title:        input.Title,
		Summary:      input.Summary,
		Image:        image,
		Role:         domain.UserRole(strings.ToLower(input.Role)),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		discardImage(ctx, s.store, image, "user.Create")
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, page Page) ([]*domain.User, int64, error) {
	return s.users.List(ctx, page.Size, page.Offset())
}

func (s *UserService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	input.clean(s.validator)
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(user.ID) {
		return nil, ErrForbidden
	}
	if input.Role != nil && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	if input.Email != nil {
		email := validation.NormalizeEmail(*input.Email)
		if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Title != nil {
		user.Title = *input.Title
	}
	if input.Summary != nil {
		user.Summary = *input.Summary
	}
	if input.Role != nil {
		user.Role = domain.UserRole(strings.ToLower(*input.Role))
	}
	if input.Password != nil {
		hash, err := s.hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	oldImage := user.Image
	if input.Image != nil {
		key, err := storeImage(ctx, s.store, input.Image, s.cfg.MaxUploadBytes)
		if err != nil {
			return nil, err
		}
		user.Image = key
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		if user.Image != oldImage {
			discardImage(ctx, s.store, user.Image, "user.Update")
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if user.Image != oldImage {
		discardImage(ctx, s.store, oldImage, "user.Update")
	}
	s.cv.Invalidate(ctx, user.ID)

	return user, nil
}

// Delete removes the user and, through cascades, everything they own or authored.
func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(user.ID) {
		return ErrForbidden
	}

	// Feedback written by this user disappears from other CVs.
	recipients, err := s.feedbacks.RecipientsOf(ctx, user.ID)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	discardImage(ctx, s.store, user.Image, "user.Delete")
	s.cv.Invalidate(ctx, append(recipients, user.ID)...)

	return nil
}

// EnsureAdmin creates an administrator account unless the email is taken.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = validation.NormalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	_, err := s.Create(ctx, CreateUserInput{
		FirstName: "Admin",
		LastName:  "Admin",
		Title:     "Administrator",
		Summary:   "Administrator",
		Email:     email,
		Password:  password,
		Role:      string(domain.RoleAdmin),
	})
	if errors.Is(err, ErrEmailExists) {
		return nil
	}
	if err == nil {
		log.Info().Str("email", email).Msg("administrator account created")
	}
	return err
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return ErrEmailExists
	}
	return nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	cost := s.cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
