package controllers

import (
	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/app/services"
	"github.com/etuition/etuition-api/pkg/ctx"
)

type UserController struct {
	service *services.UserService
}

func NewUserController(s *services.UserService) *UserController {
	return &UserController{service: s}
}

func (uc *UserController) Index(c *ctx.Context) {
	users, err := uc.service.All(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(users)
}

func (uc *UserController) Show(c *ctx.Context) {
	u, err := uc.service.ByEmail(c.Context(), c.Param("email"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(u)
}

func (uc *UserController) Role(c *ctx.Context) {
	role, err := uc.service.Role(c.Context(), c.Param("email"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(map[string]string{"role": role})
}

// Store registers a user. A known email is answered with 200 and a message,
// not an error.
func (uc *UserController) Store(c *ctx.Context) {
	var in models.UserInput
	if !c.BindJSON(&in) {
		return
	}

	u, created, err := uc.service.Register(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	if !created {
		c.OK(map[string]string{"message": "user exists already..."})
		return
	}
	c.OK(inserted(u.ID.Hex()))
}

// Update applies the caller's patch to their own profile.
func (uc *UserController) Update(c *ctx.Context) {
	patch, ok := c.BindMap()
	if !ok {
		return
	}

	res, err := uc.service.UpdateSelf(c.Context(), c.Email(), c.Param("email"), patch)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(modified(res.ModifiedCount))
}
