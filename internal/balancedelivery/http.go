// Package balancedelivery manages delivery layer of balances.
package balancedelivery

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

// LedgerService provides ledger service layer interface needed by balance delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package balancedelivery
type LedgerService interface {
	Credit(ctx context.Context, userID uuid.UUID, amount string) (domain.CreditTxResult, error)
}

// UserService provides user service layer interface needed by balance delivery layer.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (domain.UserWithoutPassword, error)
}

// Handler facilitates balance delivery layer logic.
type Handler struct {
	ledgerService LedgerService
	userService   UserService
}

// NewHandler returns balance handler.
func NewHandler(ls LedgerService, us UserService) *Handler {
	return &Handler{
		ledgerService: ls,
		userService:   us,
	}
}

type balanceData struct {
	Balance string `json:"balance"`
}

type balanceResponse struct {
	Data balanceData `json:"data"`
}

// Get handles http request to return the authenticated user's balance.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	gotUser, err := h.userService.Get(ctx, authPayload.UserID)
	if err != nil {
		l.Info().Err(err).Send()

		if err == domain.ErrUserNotFound {
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, balanceResponse{Data: balanceData{Balance: gotUser.Balance}})
}

type addRequest struct {
	Amount string `json:"amount" binding:"required,amount"`
}

// Add handles http request to top up the authenticated user's balance.
func (h *Handler) Add(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req addRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	result, err := h.ledgerService.Credit(ctx, authPayload.UserID, req.Amount)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case domain.ErrInvalidAmount, domain.ErrNegativeAmount:
			gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))
			return
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, balanceResponse{Data: balanceData{Balance: result.Balance}})
}
