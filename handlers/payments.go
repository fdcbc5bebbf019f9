package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hafiz229/doctors-portal-server/internal/payments"
)

// PaymentHandler creates payment intents for the client-side checkout.
type PaymentHandler struct {
	svc *payments.Service
}

func NewPaymentHandler(svc *payments.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) Register(r gin.IRoutes) {
	r.POST("/create-payment-intent", h.CreateIntent)
}

func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req payments.IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in, err := h.svc.CreateIntent(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": in.ClientSecret})
}
