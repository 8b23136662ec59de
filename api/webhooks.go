package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/staybook/internal/service/payment"
)

type WebhookHandler struct {
	payments payment.PaymentUseCase
}

func NewWebhookHandler(payments payment.PaymentUseCase) *WebhookHandler {
	return &WebhookHandler{payments: payments}
}

// Register mounts the handler on the group's exact path. Gateways do not
// follow trailing-slash redirects, so "/api/stripe" must match directly.
func (h *WebhookHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.stripe)
}

// stripe needs the raw body: signature verification covers the exact bytes the
// gateway sent.
func (h *WebhookHandler) stripe(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to read request body"})
		return
	}

	if err := h.payments.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
