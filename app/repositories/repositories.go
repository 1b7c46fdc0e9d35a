// Package repositories is the persistence layer. Each interface is backed by
// MongoDB in production and by the memory package in tests.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/etuition/etuition-api/app/models"
)

var (
	ErrNotFound  = errors.New("repositories: not found")
	ErrInvalidID = errors.New("repositories: invalid id")
	ErrDuplicate = errors.New("repositories: duplicate key")
)

// UpdateResult reports how many documents an update matched and changed.
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type UserRepository interface {
	// Create inserts u and sets its ID. A taken email returns ErrDuplicate.
	Create(ctx context.Context, u *models.User) error
	All(ctx context.Context) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateByEmail(ctx context.Context, email string, set map[string]interface{}) (UpdateResult, error)
	UpdateByID(ctx context.Context, id string, set map[string]interface{}) (UpdateResult, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type TutorRepository interface {
	Create(ctx context.Context, t *models.Tutor) error
	All(ctx context.Context) ([]models.Tutor, error)
	FindByID(ctx context.Context, id string) (*models.Tutor, error)
	Latest(ctx context.Context, n int64) ([]models.Tutor, error)
}

type TuitionRepository interface {
	Create(ctx context.Context, t *models.Tuition) error
	FindByID(ctx context.Context, id string) (*models.Tuition, error)
	All(ctx context.Context) ([]models.Tuition, error)
	// Approved lists admin-approved tuitions, newest first.
	Approved(ctx context.Context, skip, limit int64) ([]models.Tuition, error)
	CountApproved(ctx context.Context) (int64, error)
	// Latest returns the n newest approved tuitions.
	Latest(ctx context.Context, n int64) ([]models.Tuition, error)
	ByCreator(ctx context.Context, email string) ([]models.Tuition, error)
	Update(ctx context.Context, id string, set map[string]interface{}) (UpdateResult, error)
	Approve(ctx context.Context, id string) (UpdateResult, error)
	// MarkPaid sets paymentStatus=Paid and paymentDate=at only if the
	// tuition is not already paid.
	MarkPaid(ctx context.Context, id string, at time.Time) (UpdateResult, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, a *models.Application) error
	FindByID(ctx context.Context, id string) (*models.Application, error)
	ByTutor(ctx context.Context, email string) ([]models.Application, error)
	ByCreator(ctx context.Context, email string) ([]models.Application, error)
	ApprovedByTutor(ctx context.Context, email string) ([]models.Application, error)
	PaidByCreator(ctx context.Context, email string) ([]models.Application, error)
	Paid(ctx context.Context) ([]models.Application, error)
	Update(ctx context.Context, id string, set map[string]interface{}) (UpdateResult, error)
	Reject(ctx context.Context, id string) (UpdateResult, error)
	// MarkPaid approves the application and records payment, only if it is
	// not already paid.
	MarkPaid(ctx context.Context, id string, at time.Time) (UpdateResult, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// Repositories groups every repository the application needs.
type Repositories struct {
	Users        UserRepository
	Tutors       TutorRepository
	Tuitions     TuitionRepository
	Applications ApplicationRepository
}
