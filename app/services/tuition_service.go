package services

import (
	"context"
	"time"

	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/app/repositories"
	"github.com/etuition/etuition-api/pkg/apperr"
	"github.com/etuition/etuition-api/pkg/cache"
	"github.com/etuition/etuition-api/pkg/logger"
	"github.com/etuition/etuition-api/pkg/paginate"
)

// TuitionPage is one page of approved tuitions. The metadata fields sit at
// the top level of the JSON object next to "tuitions".
type TuitionPage struct {
	paginate.Meta
	Tuitions []models.Tuition `json:"tuitions"`
}

type TuitionService struct {
	tuitions repositories.TuitionRepository
	cache    *cache.Store
	now      func() time.Time
}

func NewTuitionService(tuitions repositories.TuitionRepository, store *cache.Store) *TuitionService {
	return &TuitionService{tuitions: tuitions, cache: store, now: time.Now}
}

// Create stores a new posting owned by creator. Approval and payment state
// always start pending.
func (s *TuitionService) Create(ctx context.Context, creator string, in models.TuitionInput) (*models.Tuition, error) {
	t := in.Tuition(creator, s.now())
	if err := s.tuitions.Create(ctx, &t); err != nil {
		return nil, classify(err)
	}
	logger.WithCtx(ctx).Info("tuition created", "id", t.ID.Hex(), "creator", creator)
	return &t, nil
}

func (s *TuitionService) Find(ctx context.Context, id string) (*models.Tuition, error) {
	t, err := s.tuitions.FindByID(ctx, id)
	return t, classify(err)
}

func (s *TuitionService) All(ctx context.Context) ([]models.Tuition, error) {
	list, err := s.tuitions.All(ctx)
	return list, classify(err)
}

func (s *TuitionService) ByCreator(ctx context.Context, email string) ([]models.Tuition, error) {
	list, err := s.tuitions.ByCreator(ctx, email)
	return list, classify(err)
}

// Page lists approved tuitions newest first.
func (s *TuitionService) Page(ctx context.Context, p paginate.Params) (*TuitionPage, error) {
	total, err := s.tuitions.CountApproved(ctx)
	if err != nil {
		return nil, apperr.Internal("Error fetching tuitions from database", err)
	}
	list, err := s.tuitions.Approved(ctx, p.Offset(), int64(p.Limit))
	if err != nil {
		return nil, apperr.Internal("Error fetching tuitions from database", err)
	}
	return &TuitionPage{Meta: paginate.NewMeta(p, total), Tuitions: list}, nil
}

// Latest returns the three newest approved tuitions, served from cache
// when possible.
func (s *TuitionService) Latest(ctx context.Context) ([]models.Tuition, error) {
	list, err := cache.Remember(ctx, s.cache, KeyLatestTuitions, latestTTL, func(ctx context.Context) ([]models.Tuition, error) {
		return s.tuitions.Latest(ctx, latestCount)
	})
	return list, classify(err)
}

// Update applies an owner patch. Approval and payment fields are dropped.
func (s *TuitionService) Update(ctx context.Context, caller, id string, patch map[string]interface{}) (repositories.UpdateResult, error) {
	t, err := s.tuitions.FindByID(ctx, id)
	if err != nil {
		return repositories.UpdateResult{}, classify(err)
	}
	if err := requireOwner(caller, t.CreatorEmail); err != nil {
		return repositories.UpdateResult{}, err
	}

	set, err := sanitize(ctx, models.TuitionOwnerEditable, patch)
	if err != nil {
		return repositories.UpdateResult{}, err
	}
	if err := lockFee(t.PaymentStatus, set); err != nil {
		return repositories.UpdateResult{}, err
	}
	if subject, ok := set["subject"].(string); ok {
		set["image"] = models.PlaceholderImage(subject)
	}

	res, err := s.tuitions.Update(ctx, id, set)
	if err != nil {
		return res, classify(err)
	}
	forget(ctx, s.cache, KeyLatestTuitions)
	return res, nil
}

// Delete removes a posting owned by caller.
func (s *TuitionService) Delete(ctx context.Context, caller, id string) (int64, error) {
	t, err := s.tuitions.FindByID(ctx, id)
	if err != nil {
		return 0, classify(err)
	}
	if err := requireOwner(caller, t.CreatorEmail); err != nil {
		return 0, err
	}
	return s.remove(ctx, id, "no tuition found")
}

// Approve marks a posting admin-approved.
func (s *TuitionService) Approve(ctx context.Context, id string) error {
	res, err := s.tuitions.Approve(ctx, id)
	if err != nil {
		return classify(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(msgNotFound)
	}
	forget(ctx, s.cache, KeyLatestTuitions)
	logger.WithCtx(ctx).Info("tuition approved", "id", id)
	return nil
}

// AdminDelete removes any posting.
func (s *TuitionService) AdminDelete(ctx context.Context, id string) error {
	_, err := s.remove(ctx, id, "no such tuition found to delete as admin")
	return err
}

func (s *TuitionService) remove(ctx context.Context, id, missing string) (int64, error) {
	n, err := s.tuitions.Delete(ctx, id)
	if err != nil {
		return 0, classify(err)
	}
	if n == 0 {
		return 0, apperr.NotFound(missing)
	}
	forget(ctx, s.cache, KeyLatestTuitions)
	return n, nil
}
