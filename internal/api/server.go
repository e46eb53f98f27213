// Package api serves habits and calendar tasks over an authenticated JSON
// HTTP interface.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/habits"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/storage"
	"github.com/julianstephens/streaks/internal/tasks"
	"github.com/julianstephens/streaks/internal/users"
)

// Config holds everything the server needs besides the store.
type Config struct {
	Secret         []byte
	TokenTTL       time.Duration
	AllowedOrigins []string
	Location       *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
	// UserOptions are passed to the users service (bcrypt cost in tests).
	UserOptions []users.Option
}

type Server struct {
	store  storage.Provider
	users  *users.Service
	cfg    Config
	logger *log.Logger

	mu     sync.Mutex
	habits map[string]*habits.Service
	tasks  map[string]*tasks.Service
}

func NewServer(store storage.Provider, cfg Config) *Server {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = constants.DefaultTokenTTL
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	l := logger.With("component", "api")
	if l == nil {
		l = log.New(io.Discard)
	}

	return &Server{
		store:  store,
		users:  users.NewService(store, cfg.UserOptions...),
		cfg:    cfg,
		logger: l,
		habits: make(map[string]*habits.Service),
		tasks:  make(map[string]*tasks.Service),
	}
}

// habitsFor returns the habit service of userID. Services are cached so all
// requests of one user share a lock.
func (s *Server) habitsFor(userID string) *habits.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.habits[userID]
	if !ok {
		svc = habits.NewService(s.store, userID,
			habits.WithLocation(s.cfg.Location), habits.WithClock(s.cfg.Now))
		s.habits[userID] = svc
	}
	return svc
}

func (s *Server) tasksFor(userID string) *tasks.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.tasks[userID]
	if !ok {
		svc = tasks.NewService(s.store, userID,
			tasks.WithLocation(s.cfg.Location), tasks.WithClock(s.cfg.Now))
		s.tasks[userID] = svc
	}
	return svc
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)
	})

	r.Route("/api/habits", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/", s.listHabits)
		r.Post("/", s.createHabit)
		r.Get("/day/{date}", s.habitsForDay)
		r.Get("/{id}", s.getHabit)
		r.Put("/{id}", s.updateHabit)
		r.Delete("/{id}", s.deleteHabit)
		r.Post("/{id}/toggle", s.toggleHabit)
	})

	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/", s.listTasks)
		r.Post("/", s.createTask)
		r.Get("/{id}", s.getTask)
		r.Put("/{id}", s.updateTask)
		r.Delete("/{id}", s.deleteTask)
		r.Post("/{id}/toggle", s.toggleTask)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
