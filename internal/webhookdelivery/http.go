// Package webhookdelivery provides the stand-in merchant webhook endpoint.
//
// In production the webhook target runs on a different server; this
// endpoint exists so the relay pipeline can be exercised end to end.
package webhookdelivery

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/peerpay/internal/domain"
	"github.com/go-petr/peerpay/pkg/jsonresponse"
	"github.com/rs/zerolog"
)

// Handler facilitates webhook delivery layer logic.
type Handler struct{}

// NewHandler returns webhook handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Receive handles a dispatched webhook call.
func (h *Handler) Receive(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var payload domain.WebhookPayload
	if err := gctx.ShouldBindJSON(&payload); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	msg := fmt.Sprintf("Webhook received - Transaction ID: %s, Status: %s, Amount: %s",
		payload.TransactionID, payload.Status, payload.Amount)

	l.Info().Msg(msg)

	gctx.JSON(http.StatusOK, jsonresponse.Message(msg))
}
