// Package kernel assembles the HTTP handler: global middleware, services,
// controllers and routes.
package kernel

import (
	"net/http"

	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/app/repositories"
	"github.com/etuition/etuition-api/app/routes"
	"github.com/etuition/etuition-api/app/services"
	"github.com/etuition/etuition-api/pkg/auth"
	"github.com/etuition/etuition-api/pkg/cache"
	"github.com/etuition/etuition-api/pkg/metrics"
	"github.com/etuition/etuition-api/pkg/middleware"
	"github.com/etuition/etuition-api/pkg/payment"
	"github.com/etuition/etuition-api/pkg/rbac"
	"github.com/etuition/etuition-api/pkg/reqid"
	"github.com/etuition/etuition-api/pkg/response"
	"github.com/etuition/etuition-api/pkg/router"
)

// Deps are the collaborators the kernel wires together.
type Deps struct {
	Repos            repositories.Repositories
	Cache            *cache.Store
	Processor        payment.Processor
	Tokens           *auth.TokenService
	Payment          services.PaymentConfig
	RequireKnownUser bool

	// RateLimit is optional. When nil no per-client limit is applied.
	RateLimit *middleware.RateLimiter
}

// Services builds the service layer from d.
func (d Deps) Services() routes.Services {
	authSvc := services.NewAuthService(d.Repos.Users, d.Tokens, d.RequireKnownUser)
	return routes.Services{
		Auth:         authSvc,
		Users:        services.NewUserService(d.Repos.Users),
		Tutors:       services.NewTutorService(d.Repos.Tutors, d.Cache),
		Tuitions:     services.NewTuitionService(d.Repos.Tuitions, d.Cache),
		Applications: services.NewApplicationService(d.Repos.Applications, d.Repos.Tuitions),
		Payments:     services.NewPaymentService(d.Processor, d.Repos.Tuitions, d.Repos.Applications, d.Cache, d.Payment),
	}
}

// New returns the router serving the whole API.
func New(d Deps) *router.Router {
	r := router.New()

	// Outermost first: metrics sees total latency, recovery catches panics
	// from everything below, and the request id exists before anything logs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	if d.RateLimit != nil {
		r.Use(d.RateLimit.Middleware())
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", "home", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Server is running...")) //nolint:errcheck
	})
	r.Handle(http.MethodGet, "/metrics", "metrics", metrics.Handler())

	svc := d.Services()
	routes.RegisterAPI(r,
		routes.NewControllers(svc),
		middleware.Authenticate(d.Tokens),
		rbac.HasRole(svc.Auth, models.RoleAdmin),
	)
	return r
}
