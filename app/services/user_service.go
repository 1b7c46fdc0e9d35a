package services

import (
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/app/repositories"
	"github.com/etuition/etuition-api/pkg/apperr"
	"github.com/etuition/etuition-api/pkg/logger"
)

type UserService struct {
	users repositories.UserRepository
	now   func() time.Time
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users, now: time.Now}
}

// Register creates a user. It reports created=false, with no error, when
// the email is already registered.
func (s *UserService) Register(ctx context.Context, in models.UserInput) (u *models.User, created bool, err error) {
	user := in.User(s.now())
	err = s.users.Create(ctx, &user)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classify(err)
	}

	logger.WithCtx(ctx).Info("user registered", "email", user.Email, "role", user.UserRole)
	return &user, true, nil
}

func (s *UserService) All(ctx context.Context) ([]models.User, error) {
	users, err := s.users.All(ctx)
	return users, classify(err)
}

func (s *UserService) ByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	return u, classify(err)
}

// Role returns the stored role, or models.NoRoleFound for unknown emails.
func (s *UserService) Role(ctx context.Context, email string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.NoRoleFound, nil
	}
	if err != nil {
		return "", classify(err)
	}
	if u.UserRole == "" {
		return models.NoRoleFound, nil
	}
	return u.UserRole, nil
}

// UpdateSelf applies a profile patch to the caller's own record.
func (s *UserService) UpdateSelf(ctx context.Context, caller, email string, patch map[string]interface{}) (repositories.UpdateResult, error) {
	if err := requireOwner(caller, email); err != nil {
		return repositories.UpdateResult{}, err
	}
	set, err := sanitize(ctx, models.UserSelfEditable, patch)
	if err != nil {
		return repositories.UpdateResult{}, err
	}

	res, err := s.users.UpdateByEmail(ctx, email, set)
	if err != nil {
		return res, classify(err)
	}
	if res.MatchedCount == 0 {
		return res, apperr.NotFound("User not found")
	}
	return res, nil
}

// AdminUpdate applies an admin patch to any user by id.
func (s *UserService) AdminUpdate(ctx context.Context, id string, patch map[string]interface{}) (repositories.UpdateResult, error) {
	set, err := sanitize(ctx, models.UserAdminEditable, patch)
	if err != nil {
		return repositories.UpdateResult{}, err
	}
	if role, ok := set["userRole"]; ok {
		if err := validateRole(role); err != nil {
			return repositories.UpdateResult{}, err
		}
	}

	res, err := s.users.UpdateByID(ctx, id, set)
	if err != nil {
		return res, classify(err)
	}
	if res.MatchedCount == 0 {
		return res, apperr.NotFound(msgNotFound)
	}
	return res, nil
}

// Promote sets email's role, keeping isAdmin in step with it.
func (s *UserService) Promote(ctx context.Context, email, role string) error {
	if err := validateRole(role); err != nil {
		return err
	}

	res, err := s.users.UpdateByEmail(ctx, email, map[string]interface{}{
		"userRole": role,
		"isAdmin":  role == models.RoleAdmin,
	})
	if err != nil {
		return classify(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("User not found")
	}
	logger.WithCtx(ctx).Info("user role changed", "email", email, "role", role)
	return nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	n, err := s.users.Delete(ctx, id)
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return apperr.NotFound("no user found to delete as admin")
	}
	return nil
}

func validateRole(role interface{}) error {
	err := validation.Validate(role, validation.Required, validation.In(models.RoleUser, models.RoleTutor, models.RoleAdmin))
	if err != nil {
		return apperr.Invalid("Validation failed", map[string]string{"userRole": err.Error()})
	}
	return nil
}
