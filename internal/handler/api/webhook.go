package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"saverly/internal/handler/httperr"
	"saverly/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 64 << 10

// BillingEventDecoder verifies a provider webhook and decodes it.
type BillingEventDecoder interface {
	Decode(payload []byte, signature string) (commands.BillingEvent, error)
}

type WebhookHandler struct {
	decoder BillingEventDecoder
	cmds    commands.SubscriptionCommands
}

func NewWebhookHandler(decoder BillingEventDecoder, cmds commands.SubscriptionCommands) *WebhookHandler {
	return &WebhookHandler{decoder: decoder, cmds: cmds}
}

// @Summary Stripe webhook
// @Description Keeps subscription status and billing period in sync. Requires a valid Stripe-Signature header.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe signature"
// @Success 200 {object} map[string]any
// @Failure 400 {object} httperr.Response
// @Router /api/v1/webhooks/stripe [post]
func (h *WebhookHandler) Stripe(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unreadable body", nil)
		return
	}

	ev, err := h.decoder.Decode(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		slog.Warn("rejected billing webhook", "error", err)
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid webhook", nil)
		return
	}

	result, err := h.cmds.ApplyBillingEvent(c.Request.Context(), ev)
	if errors.Is(err, commands.ErrCustomerNotFound) {
		// acknowledged so the provider stops retrying
		slog.Warn("billing event for unknown customer", "event_id", ev.ID, "customer", ev.CustomerID)
		c.JSON(http.StatusOK, gin.H{"received": true, "status": "unknown_customer"})
		return
	}
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to process webhook", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true, "status": result.Status})
}
