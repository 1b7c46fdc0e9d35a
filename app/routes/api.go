package routes

import (
	"github.com/etuition/etuition-api/app/controllers"
	"github.com/etuition/etuition-api/app/services"
	"github.com/etuition/etuition-api/pkg/ctx"
	"github.com/etuition/etuition-api/pkg/router"
)

// Controllers groups every handler set the API mounts.
type Controllers struct {
	Auth         *controllers.AuthController
	Users        *controllers.UserController
	Tutors       *controllers.TutorController
	Tuitions     *controllers.TuitionController
	Applications *controllers.ApplicationController
	Payments     *controllers.PaymentController
	Admin        *controllers.AdminController
}

// Services is what the controllers are built from.
type Services struct {
	Auth         *services.AuthService
	Users        *services.UserService
	Tutors       *services.TutorService
	Tuitions     *services.TuitionService
	Applications *services.ApplicationService
	Payments     *services.PaymentService
}

func NewControllers(s Services) Controllers {
	return Controllers{
		Auth:         controllers.NewAuthController(s.Auth),
		Users:        controllers.NewUserController(s.Users),
		Tutors:       controllers.NewTutorController(s.Tutors),
		Tuitions:     controllers.NewTuitionController(s.Tuitions, s.Applications),
		Applications: controllers.NewApplicationController(s.Applications),
		Payments:     controllers.NewPaymentController(s.Payments),
		Admin:        controllers.NewAdminController(s.Users, s.Tuitions, s.Applications),
	}
}

// RegisterAPI mounts the API. verified must reject requests without a valid
// bearer token; admin must run after it and reject non-admin callers.
func RegisterAPI(r *router.Router, c Controllers, verified, admin router.Middleware) {
	public := r.Group("/")
	public.Post("/getToken", "auth.token", ctx.Wrap(c.Auth.Token))
	public.Get("/tuitions", "tuitions.index", ctx.Wrap(c.Tuitions.Index))
	public.Get("/tuitions/limited", "tuitions.latest", ctx.Wrap(c.Tuitions.Latest))
	public.Get("/tutors/limited", "tutors.latest", ctx.Wrap(c.Tutors.Latest))
	public.Get("/users/{email}", "users.show", ctx.Wrap(c.Users.Show))
	public.Get("/users/role/{email}", "users.role", ctx.Wrap(c.Users.Role))
	public.Post("/users", "users.store", ctx.Wrap(c.Users.Store))
	public.Post("/tutors", "tutors.store", ctx.Wrap(c.Tutors.Store))

	auth := r.Group("/", verified)
	auth.Get("/users", "users.index", ctx.Wrap(c.Users.Index))
	auth.Patch("/users/{email}", "users.update", ctx.Wrap(c.Users.Update))
	auth.Get("/tutors", "tutors.index", ctx.Wrap(c.Tutors.Index))
	auth.Get("/tutors/{id}", "tutors.show", ctx.Wrap(c.Tutors.Show))

	auth.Get("/tuitions/{id}", "tuitions.show", ctx.Wrap(c.Tuitions.Show))
	auth.Get("/tuitions/creator/{email}", "tuitions.creator", ctx.Wrap(c.Tuitions.ByCreator))
	auth.Get("/tuitions/payee/{email}", "tuitions.payee", ctx.Wrap(c.Tuitions.Payee))
	auth.Post("/newtuition", "tuitions.store", ctx.Wrap(c.Tuitions.Store))
	auth.Patch("/tuitions/{id}", "tuitions.update", ctx.Wrap(c.Tuitions.Update))
	auth.Delete("/tuitions/delete/{id}", "tuitions.destroy", ctx.Wrap(c.Tuitions.Destroy))

	auth.Post("/checkout", "payments.checkout", ctx.Wrap(c.Payments.Checkout))
	auth.Post("/checkout-tutor", "payments.checkout_tutor", ctx.Wrap(c.Payments.CheckoutTutor))
	auth.Post("/payment-success", "payments.success", ctx.Wrap(c.Payments.Success))

	auth.Post("/apply", "applications.apply", ctx.Wrap(c.Applications.Apply))
	auth.Get("/applications/creator/{email}", "applications.tutor", ctx.Wrap(c.Applications.ByTutor))
	auth.Get("/applications/tuitioncreator/{creator}", "applications.creator", ctx.Wrap(c.Applications.ByCreator))
	auth.Get("/applications/approved/{tutorEmail}", "applications.approved", ctx.Wrap(c.Applications.Approved))
	auth.Patch("/update-application/{id}", "applications.update", ctx.Wrap(c.Applications.Update))
	auth.Patch("/applications/reject/{id}", "applications.reject", ctx.Wrap(c.Applications.Reject))
	auth.Delete("/applications/delete/{id}", "applications.destroy", ctx.Wrap(c.Applications.Destroy))

	adm := auth.Group("/admin", admin)
	adm.Get("/tuitions/all", "admin.tuitions", ctx.Wrap(c.Admin.Tuitions))
	adm.Get("/payments-log", "admin.payments", ctx.Wrap(c.Admin.PaymentsLog))
	adm.Patch("/update-user/{userId}", "admin.users.update", ctx.Wrap(c.Admin.UpdateUser))
	adm.Patch("/tuitions/accept/{tuitionId}", "admin.tuitions.accept", ctx.Wrap(c.Admin.AcceptTuition))
	adm.Delete("/tuitions/delete/{tuitionId}", "admin.tuitions.destroy", ctx.Wrap(c.Admin.DeleteTuition))
	adm.Delete("/users/delete/{userId}", "admin.users.destroy", ctx.Wrap(c.Admin.DeleteUser))
}
