package controllers

import (
	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/app/repositories"
	"github.com/etuition/etuition-api/app/services"
	"github.com/etuition/etuition-api/pkg/ctx"
	"github.com/etuition/etuition-api/pkg/paginate"
)

type TuitionController struct {
	tuitions     *services.TuitionService
	applications *services.ApplicationService
}

func NewTuitionController(t *services.TuitionService, a *services.ApplicationService) *TuitionController {
	return &TuitionController{tuitions: t, applications: a}
}

// Index lists approved postings a page at a time (?page=&limit=).
func (tc *TuitionController) Index(c *ctx.Context) {
	page, err := tc.tuitions.Page(c.Context(), paginate.Parse(c.Query("page"), c.Query("limit")))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(page)
}

func (tc *TuitionController) Latest(c *ctx.Context) {
	list, err := tc.tuitions.Latest(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(list)
}

func (tc *TuitionController) Show(c *ctx.Context) {
	t, err := tc.tuitions.Find(c.Context(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(t)
}

func (tc *TuitionController) ByCreator(c *ctx.Context) {
	list, err := tc.tuitions.ByCreator(c.Context(), c.Param("email"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(list)
}

// Payee lists the paid applications on a creator's postings.
func (tc *TuitionController) Payee(c *ctx.Context) {
	list, err := tc.applications.PaidByCreator(c.Context(), c.Param("email"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(list)
}

// Store creates a posting owned by the verified caller.
func (tc *TuitionController) Store(c *ctx.Context) {
	var in models.TuitionInput
	if !c.BindJSON(&in) {
		return
	}

	t, err := tc.tuitions.Create(c.Context(), c.Email(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(inserted(t.ID.Hex()))
}

func (tc *TuitionController) Update(c *ctx.Context) {
	patch, ok := c.BindMap()
	if !ok {
		return
	}

	res, err := tc.tuitions.Update(c.Context(), c.Email(), c.Param("id"), patch)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(struct {
		Message string                    `json:"message"`
		Updated repositories.UpdateResult `json:"updated"`
	}{"Tuition updated", res})
}

func (tc *TuitionController) Destroy(c *ctx.Context) {
	n, err := tc.tuitions.Delete(c.Context(), c.Email(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(deleteResult{Message: "deleted successfully", DeletedCount: n})
}
