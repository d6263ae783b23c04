// Package transactiondelivery manages delivery layer of transactions.
package transactiondelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/peerpay/internal/domain"
	"github.com/go-petr/peerpay/internal/middleware"
	"github.com/go-petr/peerpay/pkg/errorspkg"
	"github.com/go-petr/peerpay/pkg/jsonresponse"
	"github.com/go-petr/peerpay/pkg/tokenpkg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Transfer(ctx context.Context, senderID uuid.UUID, receiverEmail, amount string) (domain.TransferTxResult, error)
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type listData struct {
	Transactions []domain.Transaction `json:"transactions"`
}

type listResponse struct {
	Data listData `json:"data"`
}

// List handles http request to return the authenticated user's transaction history.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transactions, err := h.service.ListTransactions(ctx, authPayload.UserID)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, listResponse{Data: listData{Transactions: transactions}})
}

type sendRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Amount string `json:"amount" binding:"required,amount"`
}

type sendData struct {
	Transfer domain.TransferTxResult `json:"transfer"`
}

type sendResponse struct {
	Data sendData `json:"data"`
}

// Send handles http request to transfer money to another user by email.
func (h *Handler) Send(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req sendRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	result, err := h.service.Transfer(ctx, authPayload.UserID, req.Email, req.Amount)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case
			domain.ErrInvalidAmount,
			domain.ErrNegativeAmount,
			domain.ErrInsufficientBalance,
			domain.ErrSelfTransfer:
			gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

			return
		case
			domain.ErrUserNotFound,
			domain.ErrReceiverNotFound:
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, sendResponse{Data: sendData{Transfer: result}})
}
