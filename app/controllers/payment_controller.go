package controllers

import (
	"github.com/etuition/etuition-api/app/services"
	"github.com/etuition/etuition-api/pkg/ctx"
)

type PaymentController struct {
	service *services.PaymentService
}

func NewPaymentController(s *services.PaymentService) *PaymentController {
	return &PaymentController{service: s}
}

// Checkout opens a hosted checkout for one of the caller's postings.
func (pc *PaymentController) Checkout(c *ctx.Context) {
	var ref recordRef
	if !c.BindJSON(&ref) {
		return
	}

	url, err := pc.service.CheckoutTuition(c.Context(), c.Email(), ref.ID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(map[string]string{"url": url})
}

// CheckoutTutor opens a hosted checkout paying the tutor of an application.
func (pc *PaymentController) CheckoutTutor(c *ctx.Context) {
	var ref recordRef
	if !c.BindJSON(&ref) {
		return
	}

	url, err := pc.service.CheckoutApplication(c.Context(), c.Email(), ref.ID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(map[string]string{"url": url})
}

// Success reconciles a finished checkout session. Safe to call repeatedly.
func (pc *PaymentController) Success(c *ctx.Context) {
	var body struct {
		SessionID string `json:"session_id"`
	}
	if !c.BindJSON(&body) {
		return
	}

	rec, err := pc.service.ConfirmSession(c.Context(), body.SessionID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(rec)
}
