package service

import (
	"context"
	"errors"

	"github.com/dom/cv-builder-api/internal/cache"
	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/dom/cv-builder-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// cvInvalidator drops cached CV documents after a committed mutation.
type cvInvalidator interface {
	Invalidate(ctx context.Context, userIDs ...uuid.UUID)
}

// CVService composes a user's CV and keeps it in a cache-aside store.
// Cache failures degrade to a direct read and are never returned to callers.
type CVService struct {
	users       repository.UserRepository
	experiences repository.ExperienceRepository
	projects    repository.ProjectRepository
	feedbacks   repository.FeedbackRepository
	cache       cache.Cache
}

func NewCVService(repos *repository.Repositories, c cache.Cache) *CVService {
	return &CVService{
		users:       repos.User,
		experiences: repos.Experience,
		projects:    repos.Project,
		feedbacks:   repos.Feedback,
		cache:       c,
	}
}

// GetUserCV returns the cached document for userID, composing and caching it on a miss.
func (s *CVService) GetUserCV(ctx context.Context, userID uuid.UUID) (*domain.CVDocument, error) {
	key := userID.String()

	doc, err := s.cache.Get(ctx, key)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Warn().Err(err).Str("op", "cv.Get").Str("user_id", key).Msg("cache read failed")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	experiences, err := s.experiences.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	feedbacks, err := s.feedbacks.ListByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}

	doc = domain.NewCVDocument(user, experiences, projects, feedbacks)

	if err := s.cache.Set(ctx, key, doc); err != nil {
		log.Warn().Err(err).Str("op", "cv.Set").Str("user_id", key).Msg("cache write failed")
	}

	return doc, nil
}

// Invalidate removes the cached CVs of the given users. Failures are logged only.
func (s *CVService) Invalidate(ctx context.Context, userIDs ...uuid.UUID) {
	keys := make([]string, 0, len(userIDs))
	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, id := range userIDs {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, id.String())
	}
	if len(keys) == 0 {
		return
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Error().Err(err).Str("op", "cv.Invalidate").Strs("user_ids", keys).Msg("cache invalidation failed")
	}
}
