// Package httpserver assembles the HTTP API server.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/peerpay/internal/balancedelivery"
	"github.com/go-petr/peerpay/internal/ledgerrepo"
	"github.com/go-petr/peerpay/internal/ledgerservice"
	"github.com/go-petr/peerpay/internal/middleware"
	"github.com/go-petr/peerpay/internal/transactiondelivery"
	"github.com/go-petr/peerpay/internal/userdelivery"
	"github.com/go-petr/peerpay/internal/userrepo"
	"github.com/go-petr/peerpay/internal/userservice"
	"github.com/go-petr/peerpay/internal/webhookdelivery"
	"github.com/go-petr/peerpay/pkg/configpkg"
	"github.com/go-petr/peerpay/pkg/jsonresponse"
	"github.com/go-petr/peerpay/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New wires repositories, services and handlers into a runnable server.
func New(db *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(db)
	ledgerRepo := ledgerrepo.NewRepoPGS(db)

	tokenMaker, err := tokenpkg.NewJWTMaker(config.TokenSecretKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	userService := userservice.New(userRepo)
	ledgerService := ledgerservice.New(ledgerRepo)

	userHandler := userdelivery.NewHandler(userService, tokenMaker, config.AccessTokenDuration)
	balanceHandler := balancedelivery.NewHandler(ledgerService, userService)
	transactionHandler := transactiondelivery.NewHandler(ledgerService)
	webhookHandler := webhookdelivery.NewHandler()

	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.GET("/health", func(gctx *gin.Context) {
		gctx.JSON(http.StatusOK, jsonresponse.Message("ok"))
	})

	engine.POST("/user/register", userHandler.Register)
	engine.POST("/user/login", userHandler.Login)
	engine.POST("/merchant/webhook", webhookHandler.Receive)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.GET("/user", userHandler.Get)
	authRoutes.GET("/balance", balanceHandler.Get)
	authRoutes.POST("/balance/add", balanceHandler.Add)
	authRoutes.GET("/transactions", transactionHandler.List)
	authRoutes.POST("/transaction/send", transactionHandler.Send)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("amount", balancedelivery.ValidAmount); err != nil {
			return nil, errors.New("cannot register amount validator")
		}
	}

	return &Server{DB: db, Engine: engine, Config: config}, nil
}
