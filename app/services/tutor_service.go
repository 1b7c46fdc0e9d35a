package services

import (
	"context"
	"time"

	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/app/repositories"
	"github.com/etuition/etuition-api/pkg/cache"
	"github.com/etuition/etuition-api/pkg/logger"
)

// Cache keys for the landing-page listings.
const (
	KeyLatestTutors   = "tutors:limited"
	KeyLatestTuitions = "tuitions:limited"

	latestCount = 3
	latestTTL   = time.Minute
)

type TutorService struct {
	tutors repositories.TutorRepository
	cache  *cache.Store
	now    func() time.Time
}

func NewTutorService(tutors repositories.TutorRepository, store *cache.Store) *TutorService {
	return &TutorService{tutors: tutors, cache: store, now: time.Now}
}

func (s *TutorService) Register(ctx context.Context, in models.TutorInput) (*models.Tutor, error) {
	t := in.Tutor(s.now())
	if err := s.tutors.Create(ctx, &t); err != nil {
		return nil, classify(err)
	}
	forget(ctx, s.cache, KeyLatestTutors)
	return &t, nil
}

func (s *TutorService) All(ctx context.Context) ([]models.Tutor, error) {
	tutors, err := s.tutors.All(ctx)
	return tutors, classify(err)
}

func (s *TutorService) Find(ctx context.Context, id string) (*models.Tutor, error) {
	t, err := s.tutors.FindByID(ctx, id)
	return t, classify(err)
}

// Latest returns the three newest tutors, served from cache when possible.
func (s *TutorService) Latest(ctx context.Context) ([]models.Tutor, error) {
	tutors, err := cache.Remember(ctx, s.cache, KeyLatestTutors, latestTTL, func(ctx context.Context) ([]models.Tutor, error) {
		return s.tutors.Latest(ctx, latestCount)
	})
	return tutors, classify(err)
}

func forget(ctx context.Context, store *cache.Store, keys ...string) {
	if err := store.Forget(ctx, keys...); err != nil {
		logger.WithCtx(ctx).Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}
