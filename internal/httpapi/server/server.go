package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/redhat-data-and-ai/addressbook/internal/httpapi/handlers"
	"github.com/redhat-data-and-ai/addressbook/internal/httpapi/middleware"
	"github.com/redhat-data-and-ai/addressbook/pkg/config"
	"github.com/redhat-data-and-ai/addressbook/pkg/store"
)

const shutdownTimeout = 10 * time.Second

type APIServer struct {
	config   *config.AppConfig
	router   *gin.Engine
	server   *http.Server
	handlers *handlers.Handlers
}

func NewAPIServer(cfg *config.AppConfig, dataStore *store.Store) *APIServer {
	if cfg.App.Environment == "local" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Tracing())
	router.Use(middleware.AccessLog())
	router.Use(middleware.CORS(&cfg.APIServer))

	s := &APIServer{
		config:   cfg,
		router:   router,
		handlers: handlers.NewHandlers(cfg, dataStore),
	}

	s.setupRoutes()
	return s
}

// Handler exposes the router, used by tests and embedding servers
func (s *APIServer) Handler() http.Handler {
	return s.router
}

func (s *APIServer) setupRoutes() {
	s.router.GET("/status", s.handlers.Status)

	api := s.router.Group("/api")
	api.Use(middleware.APIKeyAuth(s.config))

	api.POST("/user", s.handlers.AddUser)
	api.PUT("/user/:name", s.handlers.UpdateUser)
	api.DELETE("/user/:name", s.handlers.DeleteUser)
	api.GET("/user", s.handlers.GetAllUsers)
}

// Start serves until ctx is cancelled, then shuts the server down gracefully
func (s *APIServer) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.config.APIServer.Host, s.config.APIServer.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("address", s.server.Addr).Info("starting http API server")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start http API server : %w", err)
	case <-ctx.Done():
	}

	return s.StopServer()
}

func (s *APIServer) StopServer() error {
	logrus.Info("turning down http API server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Error during HTTP API server shutdown")
		return err
	}

	logrus.Info("http API server stopped")
	return nil
}
