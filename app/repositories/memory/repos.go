package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/app/repositories"
	"github.com/etuition/etuition-api/pkg/collection"
)

var (
	_ repositories.UserRepository        = (*Users)(nil)
	_ repositories.TutorRepository       = (*Tutors)(nil)
	_ repositories.TuitionRepository     = (*Tuitions)(nil)
	_ repositories.ApplicationRepository = (*Applications)(nil)
)

// Users enforces email uniqueness like the unique index does.
type Users struct {
	s store[models.User]
}

func NewUsers() *Users {
	return &Users{s: store[models.User]{
		id:        func(u *models.User) *primitive.ObjectID { return &u.ID },
		createdAt: func(u models.User) time.Time { return u.CreatedAt },
	}}
}

func (r *Users) Create(_ context.Context, u *models.User) error {
	return r.s.insertUnique(u, hasEmail(u.Email))
}

func (r *Users) All(context.Context) ([]models.User, error) {
	return r.s.where(func(models.User) bool { return true }), nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.s.first(hasEmail(email))
}

func (r *Users) UpdateByEmail(_ context.Context, email string, set map[string]interface{}) (repositories.UpdateResult, error) {
	return r.s.set(hasEmail(email), set)
}

func (r *Users) UpdateByID(_ context.Context, id string, set map[string]interface{}) (repositories.UpdateResult, error) {
	return r.s.setByID(id, set)
}

func (r *Users) Delete(_ context.Context, id string) (int64, error) {
	return r.s.remove(id)
}

func hasEmail(email string) func(models.User) bool {
	return func(u models.User) bool { return u.Email == email }
}

type Tutors struct {
	s store[models.Tutor]
}

func NewTutors() *Tutors {
	return &Tutors{s: store[models.Tutor]{
		id:        func(t *models.Tutor) *primitive.ObjectID { return &t.ID },
		createdAt: func(t models.Tutor) time.Time { return t.CreatedAt },
	}}
}

func (r *Tutors) Create(_ context.Context, t *models.Tutor) error {
	return r.s.insert(t)
}

func (r *Tutors) All(context.Context) ([]models.Tutor, error) {
	return r.s.where(func(models.Tutor) bool { return true }), nil
}

func (r *Tutors) FindByID(_ context.Context, id string) (*models.Tutor, error) {
	t, err := r.s.get(id)
	if err != nil {
		return nil, err
	}
	if t.UserRole != models.RoleTutor {
		return nil, repositories.ErrNotFound
	}
	return t, nil
}

func (r *Tutors) Latest(_ context.Context, n int64) ([]models.Tutor, error) {
	all := r.s.where(func(models.Tutor) bool { return true })
	return collection.Window(all, 0, n), nil
}

type Tuitions struct {
	s store[models.Tuition]
}

func NewTuitions() *Tuitions {
	return &Tuitions{s: store[models.Tuition]{
		id:        func(t *models.Tuition) *primitive.ObjectID { return &t.ID },
		createdAt: func(t models.Tuition) time.Time { return t.CreatedAt },
	}}
}

func approved(t models.Tuition) bool { return t.IsAdminApproved }

func (r *Tuitions) Create(_ context.Context, t *models.Tuition) error {
	return r.s.insert(t)
}

func (r *Tuitions) FindByID(_ context.Context, id string) (*models.Tuition, error) {
	return r.s.get(id)
}

func (r *Tuitions) All(context.Context) ([]models.Tuition, error) {
	return r.s.where(func(models.Tuition) bool { return true }), nil
}

func (r *Tuitions) Approved(_ context.Context, skip, limit int64) ([]models.Tuition, error) {
	return collection.Window(r.s.where(approved), skip, limit), nil
}

func (r *Tuitions) CountApproved(context.Context) (int64, error) {
	return r.s.count(approved), nil
}

func (r *Tuitions) Latest(_ context.Context, n int64) ([]models.Tuition, error) {
	return collection.Window(r.s.where(approved), 0, n), nil
}

func (r *Tuitions) ByCreator(_ context.Context, email string) ([]models.Tuition, error) {
	return r.s.where(func(t models.Tuition) bool { return t.CreatorEmail == email }), nil
}

func (r *Tuitions) Update(_ context.Context, id string, set map[string]interface{}) (repositories.UpdateResult, error) {
	return r.s.setByID(id, set)
}

func (r *Tuitions) Approve(_ context.Context, id string) (repositories.UpdateResult, error) {
	return r.s.setByID(id, map[string]interface{}{
		"isAdminApproved": true,
		"approvalStatus":  models.StatusApproved,
	})
}

func (r *Tuitions) MarkPaid(_ context.Context, id string, at time.Time) (repositories.UpdateResult, error) {
	oid, err := repositories.ObjectID(id)
	if err != nil {
		return repositories.UpdateResult{}, err
	}
	return r.s.set(func(t models.Tuition) bool {
		return t.ID == oid && t.PaymentStatus != models.StatusPaid
	}, map[string]interface{}{
		"paymentStatus": models.StatusPaid,
		"paymentDate":   at,
	})
}

func (r *Tuitions) Delete(_ context.Context, id string) (int64, error) {
	return r.s.remove(id)
}

type Applications struct {
	s store[models.Application]
}

func NewApplications() *Applications {
	return &Applications{s: store[models.Application]{
		id:        func(a *models.Application) *primitive.ObjectID { return &a.ID },
		createdAt: func(a models.Application) time.Time { return a.CreatedAt },
	}}
}

func (r *Applications) Create(_ context.Context, a *models.Application) error {
	return r.s.insert(a)
}

func (r *Applications) FindByID(_ context.Context, id string) (*models.Application, error) {
	return r.s.get(id)
}

func (r *Applications) ByTutor(_ context.Context, email string) ([]models.Application, error) {
	return r.s.where(func(a models.Application) bool { return a.TutorEmail == email }), nil
}

func (r *Applications) ByCreator(_ context.Context, email string) ([]models.Application, error) {
	return r.s.where(func(a models.Application) bool { return a.CreatorEmail == email }), nil
}

func (r *Applications) ApprovedByTutor(_ context.Context, email string) ([]models.Application, error) {
	return r.s.where(func(a models.Application) bool {
		return a.TutorEmail == email && a.ApplicationStatus == models.StatusApproved
	}), nil
}

func (r *Applications) PaidByCreator(_ context.Context, email string) ([]models.Application, error) {
	return r.s.where(func(a models.Application) bool {
		return a.CreatorEmail == email && a.PaymentStatus == models.StatusPaid
	}), nil
}

func (r *Applications) Paid(context.Context) ([]models.Application, error) {
	return r.s.where(func(a models.Application) bool { return a.PaymentStatus == models.StatusPaid }), nil
}

func (r *Applications) Update(_ context.Context, id string, set map[string]interface{}) (repositories.UpdateResult, error) {
	return r.s.setByID(id, set)
}

func (r *Applications) Reject(_ context.Context, id string) (repositories.UpdateResult, error) {
	return r.s.setByID(id, map[string]interface{}{"applicationStatus": models.StatusRejected})
}

func (r *Applications) MarkPaid(_ context.Context, id string, at time.Time) (repositories.UpdateResult, error) {
	oid, err := repositories.ObjectID(id)
	if err != nil {
		return repositories.UpdateResult{}, err
	}
	return r.s.set(func(a models.Application) bool {
		return a.ID == oid && a.PaymentStatus != models.StatusPaid
	}, map[string]interface{}{
		"applicationStatus": models.StatusApproved,
		"paymentStatus":     models.StatusPaid,
		"paidAt":            at,
	})
}

func (r *Applications) Delete(_ context.Context, id string) (int64, error) {
	return r.s.remove(id)
}
