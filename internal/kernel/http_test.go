package kernel

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/app/repositories"
	"github.com/etuition/etuition-api/app/repositories/memory"
	"github.com/etuition/etuition-api/app/services"
	"github.com/etuition/etuition-api/pkg/auth"
	"github.com/etuition/etuition-api/pkg/cache"
	"github.com/etuition/etuition-api/pkg/payment"
)

// fakeProcessor hands out sessions and lets tests mark them paid.
type fakeProcessor struct {
	mu       sync.Mutex
	sessions map[string]*payment.Session
	created  []payment.CheckoutRequest
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{sessions: make(map[string]*payment.Session)}
}

func (p *fakeProcessor) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := "cs_test_" + string(rune('a'+len(p.created)))
	p.created = append(p.created, req)
	s := &payment.Session{ID: id, URL: "https://pay.example/" + id, PaymentStatus: "unpaid", Metadata: req.Metadata}
	p.sessions[id] = s
	return s, nil
}

func (p *fakeProcessor) RetrieveSession(_ context.Context, id string) (*payment.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[id]
	if !ok {
		return nil, payment.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (p *fakeProcessor) pay(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[id].Paid = true
	p.sessions[id].PaymentStatus = "paid"
}

type harness struct {
	t      *testing.T
	h      http.Handler
	repos  repositories.Repositories
	tokens *auth.TokenService
	proc   *fakeProcessor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repos := memory.New()
	tokens := auth.NewTokenService("test-secret")
	proc := newFakeProcessor()

	r := New(Deps{
		Repos:            repos,
		Cache:            cache.New(nil),
		Processor:        proc,
		Tokens:           tokens,
		Payment:          services.PaymentConfig{Currency: "bdt", SiteURL: "https://etuition.app"},
		RequireKnownUser: true,
	})
	return &harness{t: t, h: r, repos: repos, tokens: tokens, proc: proc}
}

func (h *harness) user(email, role string) string {
	h.t.Helper()
	require.NoError(h.t, h.repos.Users.Create(context.Background(), &models.User{Email: email, UserRole: role}))
	tok, err := h.tokens.Issue(auth.Identity{Email: email})
	require.NoError(h.t, err)
	return tok
}

func (h *harness) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHome(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Server is running...", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestUnknownRouteIsJSON(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Route not found"}`, rec.Body.String())
}

func TestTokenFlow(t *testing.T) {
	h := newHarness(t)
	h.user("a@x.com", models.RoleUser)

	rec := h.do(http.MethodPost, "/getToken", "", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct{ Token string }
	decode(t, rec, &out)
	require.NotEmpty(t, out.Token)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/users", out.Token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/users", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/users", "garbage", nil).Code)

	rec = h.do(http.MethodPost, "/getToken", "", map[string]string{"email": "ghost@x.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterUserTwice(t *testing.T) {
	h := newHarness(t)
	body := map[string]string{"email": "new@x.com", "name": "New"}

	rec := h.do(http.MethodPost, "/users", "", body)
	require.Equal(t, http.StatusOK, rec.Code)
	var ins struct {
		Acknowledged bool
		InsertedID   string `json:"insertedId"`
	}
	decode(t, rec, &ins)
	assert.True(t, ins.Acknowledged)
	assert.Len(t, ins.InsertedID, 24)

	rec = h.do(http.MethodPost, "/users", "", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"user exists already..."}`, rec.Body.String())

	rec = h.do(http.MethodGet, "/users/role/new@x.com", "", nil)
	assert.JSONEq(t, `{"role":"user"}`, rec.Body.String())
	rec = h.do(http.MethodGet, "/users/role/nobody@x.com", "", nil)
	assert.JSONEq(t, `{"role":"norolefound"}`, rec.Body.String())

	rec = h.do(http.MethodPost, "/users", "", map[string]string{"email": "x@x.com", "userRole": "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewTuitionForcesPendingState(t *testing.T) {
	h := newHarness(t)
	tok := h.user("a@x.com", models.RoleUser)

	rec := h.do(http.MethodPost, "/newtuition", tok, map[string]interface{}{
		"subject":         "Algebra",
		"fee":             500,
		"creatorEmail":    "someone-else@x.com",
		"isAdminApproved": true,
		"paymentStatus":   "Paid",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var ins struct {
		InsertedID string `json:"insertedId"`
	}
	decode(t, rec, &ins)

	rec = h.do(http.MethodGet, "/tuitions/"+ins.InsertedID, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tu models.Tuition
	decode(t, rec, &tu)
	assert.Equal(t, "a@x.com", tu.CreatorEmail)
	assert.Equal(t, models.StatusPending, tu.ApprovalStatus)
	assert.Equal(t, models.StatusPending, tu.PaymentStatus)
	assert.False(t, tu.IsAdminApproved)
	assert.Contains(t, tu.Image, "Algebra")
}

func TestTuitionLookupErrors(t *testing.T) {
	h := newHarness(t)
	tok := h.user("a@x.com", models.RoleUser)

	rec := h.do(http.MethodGet, "/tuitions/zzz", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"ID error"}`, rec.Body.String())

	rec = h.do(http.MethodGet, "/tuitions/64b7f0c2a1b2c3d4e5f60718", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Cant Find this id"}`, rec.Body.String())

	rec = h.do(http.MethodDelete, "/tuitions/delete/64b7f0c2a1b2c3d4e5f60718", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminGate(t *testing.T) {
	h := newHarness(t)
	userTok := h.user("a@x.com", models.RoleUser)
	adminTok := h.user("root@x.com", models.RoleAdmin)

	rec := h.do(http.MethodGet, "/admin/tuitions/all", userTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/admin/tuitions/all", "", nil).Code)

	ghost, err := h.tokens.Issue(auth.Identity{Email: "ghost@x.com"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/admin/payments-log", ghost, nil).Code)

	rec = h.do(http.MethodGet, "/admin/tuitions/all", adminTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApproveThenListed(t *testing.T) {
	h := newHarness(t)
	tok := h.user("a@x.com", models.RoleUser)
	adminTok := h.user("root@x.com", models.RoleAdmin)

	rec := h.do(http.MethodPost, "/newtuition", tok, map[string]interface{}{"subject": "Physics", "fee": 800})
	require.Equal(t, http.StatusOK, rec.Code)
	var ins struct {
		InsertedID string `json:"insertedId"`
	}
	decode(t, rec, &ins)

	var page struct {
		TotalCount int64            `json:"totalCount"`
		Tuitions   []models.Tuition `json:"tuitions"`
	}
	decode(t, h.do(http.MethodGet, "/tuitions", "", nil), &page)
	assert.Zero(t, page.TotalCount)

	rec = h.do(http.MethodPatch, "/admin/tuitions/accept/"+ins.InsertedID, adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"accepted as admin successfully"}`, rec.Body.String())

	decode(t, h.do(http.MethodGet, "/tuitions?page=1&limit=5", "", nil), &page)
	assert.EqualValues(t, 1, page.TotalCount)
	require.Len(t, page.Tuitions, 1)
	assert.Equal(t, "Physics", page.Tuitions[0].Subject)

	var latest []models.Tuition
	decode(t, h.do(http.MethodGet, "/tuitions/limited", "", nil), &latest)
	assert.Len(t, latest, 1)
}

func TestOwnerOnlyUpdate(t *testing.T) {
	h := newHarness(t)
	owner := h.user("a@x.com", models.RoleUser)
	other := h.user("b@x.com", models.RoleUser)

	rec := h.do(http.MethodPost, "/newtuition", owner, map[string]interface{}{"subject": "Algebra", "fee": 500})
	var ins struct {
		InsertedID string `json:"insertedId"`
	}
	decode(t, rec, &ins)

	rec = h.do(http.MethodPatch, "/tuitions/"+ins.InsertedID, other, map[string]interface{}{"fee": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodPatch, "/tuitions/"+ins.InsertedID, owner, map[string]interface{}{"fee": 650, "paymentStatus": "Paid"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"message":"Tuition updated"`)

	var tu models.Tuition
	decode(t, h.do(http.MethodGet, "/tuitions/"+ins.InsertedID, owner, nil), &tu)
	assert.EqualValues(t, 650, tu.Fee)
	assert.Equal(t, models.StatusPending, tu.PaymentStatus)

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPatch, "/users/a@x.com", other, map[string]string{"name": "x"}).Code)
}

func TestWrongTypedPatchIsRejected(t *testing.T) {
	h := newHarness(t)
	owner := h.user("a@x.com", models.RoleUser)
	adminTok := h.user("root@x.com", models.RoleAdmin)

	rec := h.do(http.MethodPost, "/newtuition", owner, map[string]interface{}{"subject": "Algebra", "fee": 500})
	var ins struct {
		InsertedID string `json:"insertedId"`
	}
	decode(t, rec, &ins)
	require.Equal(t, http.StatusOK, h.do(http.MethodPatch, "/admin/tuitions/accept/"+ins.InsertedID, adminTok, nil).Code)

	rec = h.do(http.MethodPatch, "/tuitions/"+ins.InsertedID, owner, map[string]interface{}{"subject": 5})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Validation failed","errors":{"subject":"must be a string"}}`, rec.Body.String())

	rec = h.do(http.MethodPatch, "/tuitions/"+ins.InsertedID, owner, map[string]interface{}{"fee": 2.5})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Validation failed","errors":{"fee":"must be a whole number"}}`, rec.Body.String())

	rec = h.do(http.MethodPatch, "/users/a@x.com", owner, map[string]interface{}{"name": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = h.do(http.MethodPatch, "/admin/update-user/64b7f0c2a1b2c3d4e5f60718", adminTok, map[string]interface{}{"isAdmin": "yes"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var page struct {
		Tuitions []models.Tuition `json:"tuitions"`
	}
	rec = h.do(http.MethodGet, "/tuitions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &page)
	require.Len(t, page.Tuitions, 1)
	assert.Equal(t, "Algebra", page.Tuitions[0].Subject)
	assert.EqualValues(t, 500, page.Tuitions[0].Fee)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/tuitions/limited", "", nil).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/users", owner, nil).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/users/role/a@x.com", "", nil).Code)
}

func TestCheckoutAndConfirmIsIdempotent(t *testing.T) {
	h := newHarness(t)
	tok := h.user("a@x.com", models.RoleUser)

	rec := h.do(http.MethodPost, "/newtuition", tok, map[string]interface{}{"subject": "Algebra", "fee": 500})
	var ins struct {
		InsertedID string `json:"insertedId"`
	}
	decode(t, rec, &ins)

	rec = h.do(http.MethodPost, "/checkout", tok, map[string]interface{}{"_id": ins.InsertedID, "fee": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct{ URL string }
	decode(t, rec, &out)
	assert.Equal(t, "https://pay.example/cs_test_a", out.URL)
	require.Len(t, h.proc.created, 1)
	assert.EqualValues(t, 500, h.proc.created[0].Amount)
	assert.Equal(t, "Payment for: Algebra", h.proc.created[0].Description)

	rec = h.do(http.MethodPost, "/payment-success", tok, map[string]string{"session_id": "cs_test_a"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Payment not completed"}`, rec.Body.String())

	h.proc.pay("cs_test_a")
	rec = h.do(http.MethodPost, "/payment-success", tok, map[string]string{"session_id": "cs_test_a"})
	require.Equal(t, http.StatusOK, rec.Code)
	var first services.Reconciliation
	decode(t, rec, &first)
	assert.True(t, first.Success)
	assert.False(t, first.AlreadyPaid)

	var paid models.Tuition
	decode(t, h.do(http.MethodGet, "/tuitions/"+ins.InsertedID, tok, nil), &paid)
	require.NotNil(t, paid.PaymentDate)

	rec = h.do(http.MethodPost, "/payment-success", tok, map[string]string{"session_id": "cs_test_a"})
	require.Equal(t, http.StatusOK, rec.Code)
	var second services.Reconciliation
	decode(t, rec, &second)
	assert.True(t, second.AlreadyPaid)

	var again models.Tuition
	decode(t, h.do(http.MethodGet, "/tuitions/"+ins.InsertedID, tok, nil), &again)
	assert.True(t, paid.PaymentDate.Equal(*again.PaymentDate))

	rec = h.do(http.MethodPost, "/payment-success", tok, map[string]string{"session_id": "cs_missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplyAndPayTutor(t *testing.T) {
	h := newHarness(t)
	owner := h.user("a@x.com", models.RoleUser)
	tutor := h.user("tutor@x.com", models.RoleTutor)

	rec := h.do(http.MethodPost, "/newtuition", owner, map[string]interface{}{"subject": "Chemistry", "fee": 900})
	var tu struct {
		InsertedID string `json:"insertedId"`
	}
	decode(t, rec, &tu)

	rec = h.do(http.MethodPost, "/apply", tutor, map[string]interface{}{"tuitionId": tu.InsertedID, "fee": 4000, "applicationStatus": "Approved"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var app struct {
		Message    string `json:"message"`
		InsertedID string `json:"insertedId"`
	}
	decode(t, rec, &app)
	assert.Equal(t, "Submitted", app.Message)

	var mine []models.Application
	decode(t, h.do(http.MethodGet, "/applications/tuitioncreator/a@x.com", owner, nil), &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, models.StatusPending, mine[0].ApplicationStatus)

	rec = h.do(http.MethodPost, "/checkout-tutor", owner, map[string]string{"_id": app.InsertedID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	h.proc.pay("cs_test_a")

	rec = h.do(http.MethodPost, "/payment-success", owner, map[string]string{"session_id": "cs_test_a"})
	require.Equal(t, http.StatusOK, rec.Code)

	var approved []models.Application
	decode(t, h.do(http.MethodGet, "/applications/approved/tutor@x.com", tutor, nil), &approved)
	require.Len(t, approved, 1)
	assert.Equal(t, models.StatusPaid, approved[0].PaymentStatus)

	var payee []models.Application
	decode(t, h.do(http.MethodGet, "/tuitions/payee/a@x.com", owner, nil), &payee)
	assert.Len(t, payee, 1)
}

func TestRouteNamesAreUnique(t *testing.T) {
	r := New(Deps{Repos: memory.New(), Cache: cache.New(nil), Processor: newFakeProcessor(), Tokens: auth.NewTokenService("s")})
	seen := map[string]bool{}
	for _, ri := range r.Routes() {
		require.False(t, seen[ri.Name], "duplicate route name %q", ri.Name)
		seen[ri.Name] = true
	}
	path, ok := r.Path("payments.success")
	require.True(t, ok)
	assert.Equal(t, "/payment-success", path)
}
