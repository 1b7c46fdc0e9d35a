package controllers

import (
	"github.com/etuition/etuition-api/app/services"
	"github.com/etuition/etuition-api/pkg/ctx"
)

// AdminController serves the routes behind the admin role gate.
type AdminController struct {
	users        *services.UserService
	tuitions     *services.TuitionService
	applications *services.ApplicationService
}

func NewAdminController(u *services.UserService, t *services.TuitionService, a *services.ApplicationService) *AdminController {
	return &AdminController{users: u, tuitions: t, applications: a}
}

func (ac *AdminController) Tuitions(c *ctx.Context) {
	list, err := ac.tuitions.All(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(list)
}

func (ac *AdminController) PaymentsLog(c *ctx.Context) {
	list, err := ac.applications.PaymentsLog(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(list)
}

func (ac *AdminController) UpdateUser(c *ctx.Context) {
	patch, ok := c.BindMap()
	if !ok {
		return
	}

	res, err := ac.users.AdminUpdate(c.Context(), c.Param("userId"), patch)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(modified(res.ModifiedCount))
}

func (ac *AdminController) AcceptTuition(c *ctx.Context) {
	if err := ac.tuitions.Approve(c.Context(), c.Param("tuitionId")); err != nil {
		c.Fail(err)
		return
	}
	c.OK(successResult{Success: true, Message: "accepted as admin successfully"})
}

func (ac *AdminController) DeleteTuition(c *ctx.Context) {
	if err := ac.tuitions.AdminDelete(c.Context(), c.Param("tuitionId")); err != nil {
		c.Fail(err)
		return
	}
	c.OK(successResult{Success: true, Message: "deleted as admin successfully"})
}

func (ac *AdminController) DeleteUser(c *ctx.Context) {
	if err := ac.users.Delete(c.Context(), c.Param("userId")); err != nil {
		c.Fail(err)
		return
	}
	c.OK(successResult{Success: true, Message: "deleted user as admin successfully"})
}
