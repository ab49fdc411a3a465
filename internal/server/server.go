// Package server is the composition root: it opens the store, builds the
// services and handlers, and mounts them on a chi router.
//
//	config → sqlstore.DB → auth.Authenticator / services → handlers → routes
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/config"
	"github.com/sakif/blog-api/internal/handler"
	"github.com/sakif/blog-api/internal/middleware"
	"github.com/sakif/blog-api/internal/repository/sqlstore"
	"github.com/sakif/blog-api/internal/service"
)

// Server owns the router and the database handle. The database is closed
// when Start returns or Close is called.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqlstore.DB
}

// New opens the configured database (running migrations) and wires every
// route.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqlstore.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes configures middleware and routes.
//
//	GET    /healthz
//	POST   /api/auth/register
//	POST   /api/auth/login
//	POST   /api/auth/logout                             bearer
//	POST   /api/auth/logout-all                         bearer
//	GET    /api/auth/me                                 bearer
//	GET    /api/articles/
//	POST   /api/articles/                               bearer
//	GET    /api/articles/{articleID}
//	PUT    /api/articles/{articleID}                    bearer
//	DELETE /api/articles/{articleID}                    bearer
//	GET    /api/articles/{articleID}/comments
//	POST   /api/articles/{articleID}/comments           bearer
//	GET    /api/articles/{articleID}/comments/{commentID}
//	PUT    /api/articles/{articleID}/comments/{commentID}    bearer
//	DELETE /api/articles/{articleID}/comments/{commentID}    bearer
//	GET    /api/categories/
//
// Middleware order: RequestID, RealIP, Logger, Recoverer. Logger sits outside
// Recoverer so recovered panics are logged with their 500 status.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	authenticator := auth.NewAuthenticator(s.db)
	passwords := auth.NewPasswordService(s.config.BcryptCost)
	policy := auth.OwnerPolicy{}

	authService := service.NewAuthService(s.db, authenticator, passwords, s.logger)
	articleService := service.NewArticleService(s.db, s.db, policy, s.logger)
	commentService := service.NewCommentService(s.db, s.db, policy, s.logger)
	categoryService := service.NewCategoryService(s.db)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	articleHandler := handler.NewArticleHandler(articleService, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, s.logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.logger)

	requireToken := auth.RequireToken(authenticator, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)

			r.With(requireToken).Post("/logout", authHandler.HandleLogout)
			r.With(requireToken).Post("/logout-all", authHandler.HandleLogoutAll)
			r.With(requireToken).Get("/me", authHandler.HandleMe)
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", articleHandler.HandleList)
			r.With(requireToken).Post("/", articleHandler.HandleCreate)

			r.Get("/{articleID}", articleHandler.HandleGet)
			r.With(requireToken).Put("/{articleID}", articleHandler.HandleUpdate)
			r.With(requireToken).Delete("/{articleID}", articleHandler.HandleDelete)

			r.Get("/{articleID}/comments", commentHandler.HandleList)
			r.With(requireToken).Post("/{articleID}/comments", commentHandler.HandleCreate)
			r.Get("/{articleID}/comments/{commentID}", commentHandler.HandleGet)
			r.With(requireToken).Put("/{articleID}/comments/{commentID}", commentHandler.HandleUpdate)
			r.With(requireToken).Delete("/{articleID}/comments/{commentID}", commentHandler.HandleDelete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.HandleList)
		})
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves HTTP until SIGINT/SIGTERM, then drains in-flight requests for
// up to ShutdownTimeout and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("db_driver", s.config.DBDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
