// Package mockapi is an in-memory development backend speaking the AlumNet
// REST contract. Sessions travel in an HttpOnly cookie.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/alumnet-dev/alumnet/internal/config"
	"github.com/alumnet-dev/alumnet/internal/models"
)

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	store     *Store
	tokens    *Tokens
	config    config.MockAPIConfig
	logger    zerolog.Logger
	validator *validator.Validate
	cors      cors.Config
}

// defaultOrigins is used when no allowed origins are configured
var defaultOrigins = []string{"http://localhost:5173"}

// New creates a new server instance with a seeded admin account
func New(cfg config.MockAPIConfig, zlog zerolog.Logger) (*Server, error) {
	tokens, err := NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	validate.RegisterValidation("lonlat", func(fl validator.FieldLevel) bool {
		n := fl.Field().Len()
		return n == 0 || n == 2
	})

	corsConfig := newCORSConfig(cfg.AllowedOrigins)
	if err := corsConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid CORS settings: %w", err)
	}

	server := &Server{
		store:     NewStore(),
		tokens:    tokens,
		config:    cfg,
		logger:    zlog,
		validator: validate,
		cors:      corsConfig,
	}

	if cfg.AdminEmail != "" {
		admin := models.Alumni{
			FirstName:  "Site",
			LastName:   "Admin",
			Email:      cfg.AdminEmail,
			IsAdmin:    true,
			IsApproved: true,
		}
		if _, err := server.store.Create(admin, cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("failed to seed admin: %w", err)
		}
		zlog.Debug().Str("email", cfg.AdminEmail).Msg("Seeded admin account")
	}

	server.setupRouter()

	return server, nil
}

// Store exposes the account database, used for seeding
func (s *Server) Store() *Store {
	return s.store
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// newCORSConfig allows credentialed requests from the given origins
func newCORSConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	s.router.Use(cors.New(s.cors))

	s.router.GET("/health", s.healthCheck)

	api := s.router.Group("/api")

	// Public auth endpoints
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)
	api.POST("/auth/logout", s.logout)
	api.POST("/auth/forgot-password", s.forgotPassword)
	api.POST("/auth/verify-otp", s.verifyOTP)
	api.POST("/auth/reset-password", s.resetPassword)

	authed := api.Group("")
	authed.Use(SessionMiddleware(s.store, s.tokens, s.logger))
	{
		authed.GET("/auth/profile", s.profile)
		authed.PUT("/auth/change-password", s.changePassword)
		authed.PUT("/alumni/:id", s.updateAlumni)

		directory := authed.Group("/alumni")
		directory.Use(ApprovedOnlyMiddleware(s.logger))
		{
			directory.GET("", s.listAlumni)
			directory.GET("/map", s.mapData)
		}

		admin := authed.Group("/admin")
		admin.Use(AdminOnlyMiddleware(s.logger))
		{
			admin.GET("/alumni/pending", s.listPending)
			admin.PATCH("/alumni/:id/approve", s.approveAlumni)
		}
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", c.GetHeader("X-Request-ID")).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "alumnet-api",
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.config.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
