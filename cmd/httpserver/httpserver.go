// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-teller/branch-bank/internal/chequedelivery"
	"github.com/go-teller/branch-bank/internal/chequerepo"
	"github.com/go-teller/branch-bank/internal/chequeservice"
	"github.com/go-teller/branch-bank/internal/customerdelivery"
	"github.com/go-teller/branch-bank/internal/customerrepo"
	"github.com/go-teller/branch-bank/internal/customerservice"
	"github.com/go-teller/branch-bank/internal/limitpolicy"
	"github.com/go-teller/branch-bank/internal/middleware"
	"github.com/go-teller/branch-bank/internal/notificationdelivery"
	"github.com/go-teller/branch-bank/internal/notificationrepo"
	"github.com/go-teller/branch-bank/internal/notificationservice"
	"github.com/go-teller/branch-bank/internal/sessiondelivery"
	"github.com/go-teller/branch-bank/internal/sessionrepo"
	"github.com/go-teller/branch-bank/internal/sessionservice"
	"github.com/go-teller/branch-bank/internal/tellerdelivery"
	"github.com/go-teller/branch-bank/internal/tellerrepo"
	"github.com/go-teller/branch-bank/internal/tellerservice"
	"github.com/go-teller/branch-bank/internal/transactiondelivery"
	"github.com/go-teller/branch-bank/internal/transactionrepo"
	"github.com/go-teller/branch-bank/internal/transactionservice"
	"github.com/go-teller/branch-bank/pkg/configpkg"
	"github.com/go-teller/branch-bank/pkg/tokenpkg"
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

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	policy, err := limitpolicy.FromConfig(config)
	if err != nil {
		return nil, err
	}

	tellerRepo := tellerrepo.NewRepoPGS(conn)
	sessionRepo := sessionrepo.NewRepoPGS(conn)
	customerRepo := customerrepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn, policy)
	chequeRepo := chequerepo.NewRepoPGS(conn, policy)
	notificationRepo := notificationrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	tellerService := tellerservice.New(tellerRepo)
	customerService := customerservice.New(customerRepo)
	notificationService := notificationservice.New(notificationRepo)
	transactionService := transactionservice.New(transactionRepo, notificationService)
	chequeService := chequeservice.New(chequeRepo)
	sessionService, err := sessionservice.New(sessionRepo, config, tokenMaker)

	if err != nil {
		return nil, errors.New("cannot initialize session service")
	}

	tellerHandler := tellerdelivery.NewHandler(tellerService, sessionService)
	sessionHandler := sessiondelivery.NewHandler(sessionService)
	customerHandler := customerdelivery.NewHandler(customerService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)
	chequeHandler := chequedelivery.NewHandler(chequeService)
	notificationHandler := notificationdelivery.NewHandler(notificationService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/tellers", tellerHandler.Create)
	engine.POST("/tellers/login", tellerHandler.Login)
	engine.POST("/sessions", sessionHandler.RenewAccessToken)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(sessionService.TokenMaker))

	authRoutes.POST("/customers", customerHandler.Create)
	authRoutes.GET("/customers", customerHandler.Search)
	authRoutes.GET("/customers/:id", customerHandler.Get)
	authRoutes.PATCH("/customers/:id", customerHandler.Update)
	authRoutes.GET("/customers/:id/transactions", transactionHandler.History)
	authRoutes.GET("/customers/:id/notifications", notificationHandler.List)
	authRoutes.GET("/customers/:id/notifications/unread", notificationHandler.CountUnread)

	authRoutes.POST("/transactions", transactionHandler.Process)

	authRoutes.POST("/cheques", chequeHandler.Submit)
	authRoutes.GET("/cheques", chequeHandler.List)
	authRoutes.GET("/cheques/:id", chequeHandler.Get)
	authRoutes.POST("/cheques/:id/process", chequeHandler.Process)

	authRoutes.PATCH("/notifications/:id/read", notificationHandler.MarkRead)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
