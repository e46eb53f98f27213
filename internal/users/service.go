// Package users manages API accounts and their bcrypt password hashes.
package users

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/storage"
)

var (
	ErrEmailTaken         = errors.New("an account with that email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrNameRequired       = errors.New("name is required")
	ErrNotFound           = errors.New("user not found")
)

const minPasswordLen = 8

type Service struct {
	mu    sync.Mutex
	store storage.Provider
	cost  int
	now   func() time.Time
}

type Option func(*Service)

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func NewService(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store: store,
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) load() ([]models.User, error) {
	var users []models.User
	if _, err := storage.GetJSON(s.store, constants.UsersKey, &users); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

// normalizeEmail reduces email to its lowercased bare address, dropping any
// display name. Unparseable input is only trimmed and lowercased.
func normalizeEmail(email string) string {
	if addr, err := mail.ParseAddress(strings.TrimSpace(email)); err == nil {
		return strings.ToLower(addr.Address)
	}
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. The email is matched case-insensitively.
func (s *Service) Register(name, email, password string) (models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return models.User{}, ErrNameRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.User{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return models.User{}, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return models.User{}, ErrEmailTaken
		}
	}

	u := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	users = append(users, u)
	if err := storage.SetJSON(s.store, constants.UsersKey, users); err != nil {
		return models.User{}, fmt.Errorf("failed to save users: %w", err)
	}
	return u, nil
}

// Authenticate returns the account matching email and password. Unknown
// emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(email, password string) (models.User, error) {
	email = normalizeEmail(email)

	s.mu.Lock()
	users, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return models.User{}, err
	}

	for _, u := range users {
		if u.Email != email {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
			return models.User{}, ErrInvalidCredentials
		}
		return u, nil
	}
	return models.User{}, ErrInvalidCredentials
}

func (s *Service) Get(id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}
