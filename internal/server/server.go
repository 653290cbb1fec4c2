// Package server wires the dependency graph and owns the HTTP lifecycle:
// database, repositories, services, handlers, routes, graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/boardmate/boardmate/internal/auth"
	"github.com/boardmate/boardmate/internal/config"
	"github.com/boardmate/boardmate/internal/demodb"
	"github.com/boardmate/boardmate/internal/handler"
	"github.com/boardmate/boardmate/internal/middleware"
	"github.com/boardmate/boardmate/internal/repository/local"
	"github.com/boardmate/boardmate/internal/service"
	"github.com/boardmate/boardmate/internal/session"
)

// Server bundles the router with the resources it owns. The database is
// opened (and migrated) in New and closed during shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *demodb.DB
}

// New opens the database, runs pending migrations, and assembles the full
// dependency chain: db → repositories → services → handlers → routes.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := demodb.NewOpener(cfg.DBPath, logger).Open()
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.TokenSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	sessions := session.NewStore(s.config.SessionPath)
	repos := local.New(s.db, sessions, s.logger)

	authService := service.NewAuthService(repos.Users, sessions, tokens, s.logger)
	postService := service.NewPostService(repos.Posts, sessions, s.logger)
	commentService := service.NewCommentService(repos.Comments, repos.Posts, sessions, s.logger)
	profileService := service.NewProfileService(repos.Users, sessions, s.logger)
	demoService := service.NewDemoService(repos, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, s.logger)
	userHandler := handler.NewUserHandler(profileService, s.logger)
	demoHandler := handler.NewDemoHandler(demoService, s.logger)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/guest", authHandler.HandleGuestLogin)
			r.Post("/signout", authHandler.HandleSignOut)
			r.Get("/session", authHandler.HandleSession)
		})

		// Reads are public; writes go through OptionalAuth so the acting
		// guest is known but the persisted session can still fill in for
		// cookie-less demo clients.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))

			r.Get("/posts", postHandler.HandleList)
			r.Get("/posts/home", postHandler.HandleHome)
			r.Post("/posts", postHandler.HandleCreate)
			r.Get("/posts/{id}", postHandler.HandleGet)
			r.Put("/posts/{id}", postHandler.HandleUpdate)
			r.Delete("/posts/{id}", postHandler.HandleDelete)

			r.Get("/posts/{id}/comments", commentHandler.HandleListByPost)
			r.Post("/posts/{id}/comments", commentHandler.HandleCreate)
			r.Put("/comments/{id}", commentHandler.HandleUpdate)
			r.Delete("/comments/{id}", commentHandler.HandleDelete)

			r.Get("/users/{id}", userHandler.HandleGet)
			r.Get("/users/{id}/posts", postHandler.HandleListByAuthor)
			r.Put("/users/{id}", userHandler.HandleUpdate)
		})

		r.Post("/demo/reset", demoHandler.HandleReset)
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests, close the
// database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
