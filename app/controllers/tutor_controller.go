package controllers

import (
	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/app/services"
	"github.com/etuition/etuition-api/pkg/ctx"
)

type TutorController struct {
	service *services.TutorService
}

func NewTutorController(s *services.TutorService) *TutorController {
	return &TutorController{service: s}
}

func (tc *TutorController) Index(c *ctx.Context) {
	tutors, err := tc.service.All(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(tutors)
}

func (tc *TutorController) Latest(c *ctx.Context) {
	tutors, err := tc.service.Latest(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(tutors)
}

func (tc *TutorController) Show(c *ctx.Context) {
	t, err := tc.service.Find(c.Context(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(t)
}

func (tc *TutorController) Store(c *ctx.Context) {
	var in models.TutorInput
	if !c.BindJSON(&in) {
		return
	}

	t, err := tc.service.Register(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(map[string]string{"insertedId": t.ID.Hex()})
}
