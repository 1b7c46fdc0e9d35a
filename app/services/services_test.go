package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/app/repositories/memory"
	"github.com/etuition/etuition-api/pkg/apperr"
	"github.com/etuition/etuition-api/pkg/auth"
	"github.com/etuition/etuition-api/pkg/cache"
	"github.com/etuition/etuition-api/pkg/paginate"
)

func TestIssueTokenRequiresKnownUser(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUsers()
	require.NoError(t, users.Create(ctx, &models.User{Email: "a@x.com", UserRole: models.RoleUser}))
	tokens := auth.NewTokenService("secret")

	strict := NewAuthService(users, tokens, true)
	_, err := strict.IssueToken(ctx, auth.Identity{Email: "ghost@x.com"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	tok, err := strict.IssueToken(ctx, auth.Identity{Email: "a@x.com"})
	require.NoError(t, err)
	claims, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)

	lenient := NewAuthService(users, tokens, false)
	_, err = lenient.IssueToken(ctx, auth.Identity{Email: "ghost@x.com"})
	assert.NoError(t, err)

	_, err = lenient.IssueToken(ctx, auth.Identity{})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestRoleOf(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUsers()
	require.NoError(t, users.Create(ctx, &models.User{Email: "root@x.com", UserRole: models.RoleAdmin}))
	svc := NewAuthService(users, auth.NewTokenService("s"), true)

	role, err := svc.RoleOf(ctx, "root@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	role, err = svc.RoleOf(ctx, "ghost@x.com")
	require.NoError(t, err)
	assert.Empty(t, role)
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewUsers())

	u, created, err := svc.Register(ctx, models.UserInput{Email: "a@x.com"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, u.IsAdmin)

	_, created, err = svc.Register(ctx, models.UserInput{Email: "a@x.com"})
	require.NoError(t, err)
	assert.False(t, created)

	role, err := svc.Role(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.NoRoleFound, role)
}

func TestUpdateSelf(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewUsers())
	_, _, err := svc.Register(ctx, models.UserInput{Email: "a@x.com", Name: "A"})
	require.NoError(t, err)

	_, err = svc.UpdateSelf(ctx, "b@x.com", "a@x.com", map[string]interface{}{"name": "B"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = svc.UpdateSelf(ctx, "a@x.com", "a@x.com", map[string]interface{}{"userRole": "admin"})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	res, err := svc.UpdateSelf(ctx, "a@x.com", "a@x.com", map[string]interface{}{"name": "Anika", "isAdmin": true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.ModifiedCount)

	u, err := svc.ByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Anika", u.Name)
	assert.False(t, u.IsAdmin)
	assert.Equal(t, models.RoleUser, u.UserRole)
}

func TestPromote(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewUsers())
	_, _, err := svc.Register(ctx, models.UserInput{Email: "a@x.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Promote(ctx, "a@x.com", models.RoleAdmin))
	u, err := svc.ByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.UserRole)
	assert.True(t, u.IsAdmin)

	assert.True(t, apperr.Is(svc.Promote(ctx, "a@x.com", "root"), apperr.KindBadRequest))
	assert.True(t, apperr.Is(svc.Promote(ctx, "ghost@x.com", models.RoleTutor), apperr.KindNotFound))
}

func TestTuitionOwnerUpdateStripsPaymentFields(t *testing.T) {
	ctx := context.Background()
	svc := NewTuitionService(memory.NewTuitions(), cache.New(nil))
	tu, err := svc.Create(ctx, "a@x.com", models.TuitionInput{Subject: "Algebra", Fee: 500})
	require.NoError(t, err)
	id := tu.ID.Hex()

	_, err = svc.Update(ctx, "b@x.com", id, map[string]interface{}{"subject": "Physics"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = svc.Update(ctx, "a@x.com", id, map[string]interface{}{"paymentStatus": "Paid", "isAdminApproved": true})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	_, err = svc.Update(ctx, "a@x.com", id, map[string]interface{}{"fee": 0.0})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	_, err = svc.Update(ctx, "a@x.com", id, map[string]interface{}{"subject": "Physics", "paymentStatus": "Paid"})
	require.NoError(t, err)

	got, err := svc.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Physics", got.Subject)
	assert.Contains(t, got.Image, "Physics")
	assert.Equal(t, models.StatusPending, got.PaymentStatus)
	assert.False(t, got.IsAdminApproved)
}

func TestTuitionFindErrors(t *testing.T) {
	svc := NewTuitionService(memory.NewTuitions(), cache.New(nil))

	_, err := svc.Find(context.Background(), "zzz")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindBadRequest, e.Kind)
	assert.Equal(t, "ID error", e.Message)

	_, err = svc.Find(context.Background(), "64b7f0c2a1b2c3d4e5f60718")
	e, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindNotFound, e.Kind)
	assert.Equal(t, "Cant Find this id", e.Message)
}

func TestTuitionPageOnlyApproved(t *testing.T) {
	ctx := context.Background()
	svc := NewTuitionService(memory.NewTuitions(), cache.New(nil))
	for i := 0; i < 12; i++ {
		tu, err := svc.Create(ctx, "a@x.com", models.TuitionInput{Subject: "S", Fee: 100})
		require.NoError(t, err)
		require.NoError(t, svc.Approve(ctx, tu.ID.Hex()))
	}
	_, err := svc.Create(ctx, "a@x.com", models.TuitionInput{Subject: "hidden", Fee: 100})
	require.NoError(t, err)

	page, err := svc.Page(ctx, paginate.Params{Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 12, page.TotalCount)
	assert.EqualValues(t, 3, page.TotalPages)
	assert.Len(t, page.Tuitions, 2)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)

	latest, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Len(t, latest, 3)
	for _, tu := range latest {
		assert.True(t, tu.IsAdminApproved)
	}
}

func TestApplyCopiesTuitionAndGuardsOwnership(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	tuitions := NewTuitionService(repos.Tuitions, cache.New(nil))
	apps := NewApplicationService(repos.Applications, repos.Tuitions)

	tu, err := tuitions.Create(ctx, "owner@x.com", models.TuitionInput{Subject: "Chemistry", Fee: 900})
	require.NoError(t, err)

	_, err = apps.Apply(ctx, "owner@x.com", models.ApplicationInput{TuitionID: tu.ID.Hex(), Fee: 100})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	a, err := apps.Apply(ctx, "tutor@x.com", models.ApplicationInput{TuitionID: tu.ID.Hex(), Fee: 4000})
	require.NoError(t, err)
	assert.Equal(t, "owner@x.com", a.CreatorEmail)
	assert.Equal(t, "Chemistry", a.Subject)

	_, err = apps.Update(ctx, "owner@x.com", a.ID.Hex(), map[string]interface{}{"fee": 10.0})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = apps.Update(ctx, "tutor@x.com", a.ID.Hex(), map[string]interface{}{"paidAt": "now", "applicationStatus": "Approved"})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	assert.True(t, apperr.Is(apps.Reject(ctx, "tutor@x.com", a.ID.Hex()), apperr.KindForbidden))
	require.NoError(t, apps.Reject(ctx, "owner@x.com", a.ID.Hex()))

	list, err := apps.ByCreator(ctx, "owner@x.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.StatusRejected, list[0].ApplicationStatus)

	_, err = apps.Delete(ctx, "stranger@x.com", a.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	n, err := apps.Delete(ctx, "tutor@x.com", a.ID.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestClassifyUnknownIsInternal(t *testing.T) {
	err := classify(errors.New("socket closed"))
	assert.True(t, apperr.Is(err, apperr.KindInternal))
	assert.Nil(t, classify(nil))
}

func TestTutorRegisterAndLatest(t *testing.T) {
	ctx := context.Background()
	svc := NewTutorService(memory.NewTutors(), cache.New(nil))
	for _, name := range []string{"Rahim", "Karim", "Nadia", "Sadia"} {
		_, err := svc.Register(ctx, models.TutorInput{Email: name + "@x.com", Name: name})
		require.NoError(t, err)
	}

	latest, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Len(t, latest, 3)
	for _, tu := range latest {
		assert.Equal(t, models.RoleTutor, tu.UserRole)
	}

	_, err = svc.Find(ctx, "not-an-id")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}
