package service

import (
	"github.com/dom/cv-builder-api/internal/cache"
	"github.com/dom/cv-builder-api/internal/config"
	"github.com/dom/cv-builder-api/internal/repository"
	"github.com/dom/cv-builder-api/internal/storage"
	"github.com/dom/cv-builder-api/internal/validation"
)

type Services struct {
	Auth       *AuthService
	User       *UserService
	Experience *ExperienceService
	Project    *ProjectService
	Feedback   *FeedbackService
	CV         *CVService
}

func NewServices(repos *repository.Repositories, cvCache cache.Cache, store storage.Store, cfg *config.Config) *Services {
	v := validation.New()
	cv := NewCVService(repos, cvCache)

	return &Services{
		Auth:       NewAuthService(repos.User, cfg),
		User:       NewUserService(repos.User, repos.Feedback, store, cv, v, cfg),
		Experience: NewExperienceService(repos.Experience, repos.User, cv, v),
		Project:    NewProjectService(repos.Project, repos.User, store, cv, v, cfg),
		Feedback:   NewFeedbackService(repos.Feedback, repos.User, cv, v),
		CV:         cv,
	}
}
