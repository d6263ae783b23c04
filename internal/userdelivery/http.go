// Package userdelivery manages delivery layer of users.
package userdelivery

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/peerpay/internal/domain"
	"github.com/go-petr/peerpay/internal/middleware"
	"github.com/go-petr/peerpay/pkg/errorspkg"
	"github.com/go-petr/peerpay/pkg/jsonresponse"
	"github.com/go-petr/peerpay/pkg/tokenpkg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by user delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package userdelivery
type Service interface {
	Create(ctx context.Context, email, password string) (domain.UserWithoutPassword, error)
	Get(ctx context.Context, id uuid.UUID) (domain.UserWithoutPassword, error)
	CheckPassword(ctx context.Context, email, password string) (domain.UserWithoutPassword, error)
}

// Handler facilitates user delivery layer logic.
type Handler struct {
	service             Service
	tokenMaker          tokenpkg.Maker
	accessTokenDuration time.Duration
}

// NewHandler returns user handler.
func NewHandler(us Service, tm tokenpkg.Maker, accessTokenDuration time.Duration) *Handler {
	return &Handler{
		service:             us,
		tokenMaker:          tm,
		accessTokenDuration: accessTokenDuration,
	}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type userData struct {
	User domain.UserWithoutPassword `json:"user"`
}

type userResponse struct {
	Data userData `json:"data"`
}

// Register handles http request to create a user.
func (h *Handler) Register(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req credentialsRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	createdUser, err := h.service.Create(ctx, req.Email, req.Password)
	if err != nil {
		l.Info().Err(err).Send()

		if err == domain.ErrEmailAlreadyExists {
			gctx.JSON(http.StatusConflict, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, userResponse{Data: userData{User: createdUser}})
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login handles http request to check user credentials and issue an access token.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req credentialsRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	gotUser, err := h.service.CheckPassword(ctx, req.Email, req.Password)
	if err != nil {
		l.Info().Err(err).Send()

		if err == domain.ErrWrongPassword {
			gctx.JSON(http.StatusUnauthorized, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	accessToken, _, err := h.tokenMaker.CreateToken(gotUser.ID, h.accessTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, loginResponse{AccessToken: accessToken})
}

// Get handles http request to return the authenticated user.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	gotUser, err := h.service.Get(ctx, authPayload.UserID)
	if err != nil {
		l.Info().Err(err).Send()

		if err == domain.ErrUserNotFound {
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, userResponse{Data: userData{User: gotUser}})
}
