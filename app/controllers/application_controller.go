package controllers

import (
	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/app/services"
	"github.com/etuition/etuition-api/pkg/ctx"
)

type ApplicationController struct {
	service *services.ApplicationService
}

func NewApplicationController(s *services.ApplicationService) *ApplicationController {
	return &ApplicationController{service: s}
}

// Apply submits the caller's application to a posting.
func (ac *ApplicationController) Apply(c *ctx.Context) {
	var in models.ApplicationInput
	if !c.BindJSON(&in) {
		return
	}

	a, err := ac.service.Apply(c.Context(), c.Email(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(map[string]string{"message": "Submitted", "insertedId": a.ID.Hex()})
}

// ByTutor lists the applications a tutor has sent.
func (ac *ApplicationController) ByTutor(c *ctx.Context) {
	list, err := ac.service.ByTutor(c.Context(), c.Param("email"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(list)
}

// ByCreator lists the applications received on a creator's postings.
func (ac *ApplicationController) ByCreator(c *ctx.Context) {
	list, err := ac.service.ByCreator(c.Context(), c.Param("creator"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(list)
}

func (ac *ApplicationController) Approved(c *ctx.Context) {
	list, err := ac.service.ApprovedByTutor(c.Context(), c.Param("tutorEmail"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(list)
}

func (ac *ApplicationController) Update(c *ctx.Context) {
	patch, ok := c.BindMap()
	if !ok {
		return
	}

	res, err := ac.service.Update(c.Context(), c.Email(), c.Param("id"), patch)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(modified(res.ModifiedCount))
}

func (ac *ApplicationController) Reject(c *ctx.Context) {
	if err := ac.service.Reject(c.Context(), c.Email(), c.Param("id")); err != nil {
		c.Fail(err)
		return
	}
	c.OK(successResult{Success: true, Message: "rejected tutor successfully."})
}

func (ac *ApplicationController) Destroy(c *ctx.Context) {
	n, err := ac.service.Delete(c.Context(), c.Email(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(deleteResult{Message: "deleted application", DeletedCount: n})
}
