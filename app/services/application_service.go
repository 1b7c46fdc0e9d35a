package services

import (
	"context"
	"time"

	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/app/repositories"
	"github.com/etuition/etuition-api/pkg/apperr"
	"github.com/etuition/etuition-api/pkg/logger"
)

type ApplicationService struct {
	applications repositories.ApplicationRepository
	tuitions     repositories.TuitionRepository
	now          func() time.Time
}

func NewApplicationService(applications repositories.ApplicationRepository, tuitions repositories.TuitionRepository) *ApplicationService {
	return &ApplicationService{applications: applications, tuitions: tuitions, now: time.Now}
}

// Apply records tutor's application to the tuition named in in. The
// tuition's creator and subject are copied from the stored posting.
func (s *ApplicationService) Apply(ctx context.Context, tutor string, in models.ApplicationInput) (*models.Application, error) {
	t, err := s.tuitions.FindByID(ctx, in.TuitionID)
	if err != nil {
		return nil, classify(err)
	}
	if t.CreatorEmail == tutor {
		return nil, apperr.BadRequest("Cannot apply to your own tuition")
	}

	a := in.Application(tutor, t, s.now())
	if err := s.applications.Create(ctx, &a); err != nil {
		return nil, classify(err)
	}
	logger.WithCtx(ctx).Info("application submitted", "id", a.ID.Hex(), "tuition", a.TuitionID, "tutor", tutor)
	return &a, nil
}

func (s *ApplicationService) ByTutor(ctx context.Context, email string) ([]models.Application, error) {
	list, err := s.applications.ByTutor(ctx, email)
	return list, classify(err)
}

func (s *ApplicationService) ByCreator(ctx context.Context, email string) ([]models.Application, error) {
	list, err := s.applications.ByCreator(ctx, email)
	return list, classify(err)
}

func (s *ApplicationService) ApprovedByTutor(ctx context.Context, email string) ([]models.Application, error) {
	list, err := s.applications.ApprovedByTutor(ctx, email)
	return list, classify(err)
}

func (s *ApplicationService) PaidByCreator(ctx context.Context, email string) ([]models.Application, error) {
	list, err := s.applications.PaidByCreator(ctx, email)
	return list, classify(err)
}

// PaymentsLog lists every paid application.
func (s *ApplicationService) PaymentsLog(ctx context.Context) ([]models.Application, error) {
	list, err := s.applications.Paid(ctx)
	return list, classify(err)
}

// Update applies the applying tutor's patch. Status and payment fields are
// dropped.
func (s *ApplicationService) Update(ctx context.Context, caller, id string, patch map[string]interface{}) (repositories.UpdateResult, error) {
	a, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return repositories.UpdateResult{}, classify(err)
	}
	if err := requireOwner(caller, a.TutorEmail); err != nil {
		return repositories.UpdateResult{}, err
	}

	set, err := sanitize(ctx, models.ApplicationEditable, patch)
	if err != nil {
		return repositories.UpdateResult{}, err
	}
	if err := lockFee(a.PaymentStatus, set); err != nil {
		return repositories.UpdateResult{}, err
	}
	res, err := s.applications.Update(ctx, id, set)
	return res, classify(err)
}

// Reject lets the tuition creator turn down an unpaid application.
func (s *ApplicationService) Reject(ctx context.Context, caller, id string) error {
	a, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return classify(err)
	}
	if err := requireOwner(caller, a.CreatorEmail); err != nil {
		return err
	}
	if a.PaymentStatus == models.StatusPaid {
		return apperr.BadRequest("Cannot reject a paid application")
	}

	_, err = s.applications.Reject(ctx, id)
	return classify(err)
}

// Delete removes an application. Either the tutor or the tuition creator
// may delete it.
func (s *ApplicationService) Delete(ctx context.Context, caller, id string) (int64, error) {
	a, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return 0, classify(err)
	}
	if caller != a.TutorEmail {
		if err := requireOwner(caller, a.CreatorEmail); err != nil {
			return 0, err
		}
	}

	n, err := s.applications.Delete(ctx, id)
	return n, classify(err)
}
