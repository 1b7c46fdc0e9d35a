package controllers

import (
	"github.com/etuition/etuition-api/app/services"
	"github.com/etuition/etuition-api/pkg/auth"
	"github.com/etuition/etuition-api/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(s *services.AuthService) *AuthController {
	return &AuthController{service: s}
}

// Token signs a token for the posted identity.
func (ac *AuthController) Token(c *ctx.Context) {
	var id auth.Identity
	if !c.BindJSON(&id) {
		return
	}

	token, err := ac.service.IssueToken(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(map[string]string{"token": token})
}
