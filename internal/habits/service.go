// Package habits stores a user's habits and applies completion toggles to them.
package habits

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/storage"
	"github.com/julianstephens/streaks/internal/streak"
	"github.com/julianstephens/streaks/internal/utils"
)

var (
	ErrNotFound      = errors.New("habit not found")
	ErrNameRequired  = errors.New("habit name is required")
	ErrDuplicateName = errors.New("a habit with that name already exists")
)

// Service reads and writes one user's habit collection. Every mutation
// loads the whole collection, changes it, and stores it back.
type Service struct {
	mu    sync.Mutex
	store storage.Provider
	key   string
	loc   *time.Location
	now   func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the timezone that decides which calendar day "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func NewService(store storage.Provider, userID string, opts ...Option) *Service {
	s := &Service{
		store: store,
		key:   storage.CollectionKey(constants.StoragePrefix, userID, constants.HabitsKey),
		loc:   time.Local,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar day in the service's timezone.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(constants.DateFormat)
}

// Location returns the timezone used for day boundaries.
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) load() ([]models.Habit, error) {
	var habits []models.Habit
	if _, err := storage.GetJSON(s.store, s.key, &habits); err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}
	return habits, nil
}

func (s *Service) save(habits []models.Habit) error {
	if habits == nil {
		habits = []models.Habit{}
	}
	if err := storage.SetJSON(s.store, s.key, habits); err != nil {
		return fmt.Errorf("failed to save habits: %w", err)
	}
	return nil
}

func indexOf(habits []models.Habit, id string) int {
	for i := range habits {
		if habits[i].ID == id {
			return i
		}
	}
	return -1
}

func nameTaken(habits []models.Habit, name, exceptID string) bool {
	for _, h := range habits {
		if h.ID != exceptID && strings.EqualFold(h.Name, name) {
			return true
		}
	}
	return false
}

// List returns every habit in insertion order.
func (s *Service) List() ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Service) Get(id string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.load()
	if err != nil {
		return models.Habit{}, err
	}
	i := indexOf(habits, id)
	if i < 0 {
		return models.Habit{}, ErrNotFound
	}
	return habits[i], nil
}

// FindByName looks a habit up by case-insensitive name.
func (s *Service) FindByName(name string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.load()
	if err != nil {
		return models.Habit{}, err
	}
	name = strings.TrimSpace(name)
	for _, h := range habits {
		if strings.EqualFold(h.Name, name) {
			return h, nil
		}
	}
	return models.Habit{}, ErrNotFound
}

// Resolve accepts either an ID or a name.
func (s *Service) Resolve(ref string) (models.Habit, error) {
	h, err := s.Get(ref)
	if errors.Is(err, ErrNotFound) {
		return s.FindByName(ref)
	}
	return h, err
}

func (s *Service) Add(name, description string) (models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Habit{}, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.load()
	if err != nil {
		return models.Habit{}, err
	}
	if nameTaken(habits, name, "") {
		return models.Habit{}, ErrDuplicateName
	}

	h := models.Habit{
		ID:             uuid.NewString(),
		Name:           name,
		Description:    strings.TrimSpace(description),
		CreatedAt:      s.now().UTC(),
		CompletedDates: []models.Completion{},
		Streak:         0,
	}
	habits = append(habits, h)
	if err := s.save(habits); err != nil {
		return models.Habit{}, err
	}

	logger.Debug("Habit added", "id", h.ID, "name", h.Name)
	return h, nil
}

// Update changes the name and description of the habit with h.ID. Streak
// and completion history are never taken from h.
func (s *Service) Update(h models.Habit) (models.Habit, error) {
	name := strings.TrimSpace(h.Name)
	if name == "" {
		return models.Habit{}, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.load()
	if err != nil {
		return models.Habit{}, err
	}
	i := indexOf(habits, h.ID)
	if i < 0 {
		return models.Habit{}, ErrNotFound
	}
	if nameTaken(habits, name, h.ID) {
		return models.Habit{}, ErrDuplicateName
	}

	habits[i].Name = name
	habits[i].Description = strings.TrimSpace(h.Description)
	if err := s.save(habits); err != nil {
		return models.Habit{}, err
	}
	return habits[i], nil
}

func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.load()
	if err != nil {
		return err
	}
	i := indexOf(habits, id)
	if i < 0 {
		return ErrNotFound
	}

	habits = append(habits[:i], habits[i+1:]...)
	if err := s.save(habits); err != nil {
		return err
	}
	logger.Debug("Habit deleted", "id", id)
	return nil
}

// Toggle flips the habit's completion for day and persists the result.
// Input that is not a recognizable day is treated as today.
func (s *Service) Toggle(id, day string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.load()
	if err != nil {
		return models.Habit{}, err
	}
	i := indexOf(habits, id)
	if i < 0 {
		return models.Habit{}, ErrNotFound
	}

	today := s.Today()
	normalized := utils.CoerceDay(day, today, s.loc)
	if normalized != strings.TrimSpace(day) {
		logger.Debug("Normalized toggle day", "input", day, "day", normalized)
	}

	habits[i] = streak.Toggle(habits[i], normalized, today)
	if err := s.save(habits); err != nil {
		return models.Habit{}, err
	}

	logger.Info("Habit toggled", "id", id, "day", normalized,
		"completed", streak.IsCompleted(habits[i], normalized), "streak", habits[i].Streak)
	return habits[i], nil
}

// ForDay returns every habit paired with its completion flag on day.
func (s *Service) ForDay(day string) ([]models.HabitDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]models.HabitDay, 0, len(habits))
	for _, h := range habits {
		out = append(out, models.HabitDay{
			Habit:     h,
			Day:       day,
			Completed: streak.IsCompleted(h, day),
		})
	}
	return out, nil
}

// Refresh recomputes every streak against today so runs that lapsed since
// the last toggle read as broken. The collection is only written back when
// a streak changed.
func (s *Service) Refresh() ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.load()
	if err != nil {
		return nil, err
	}

	today := s.Today()
	changed := false
	for i := range habits {
		if current := streak.Current(habits[i].CompletedDates, today); current != habits[i].Streak {
			habits[i].Streak = current
			changed = true
		}
	}

	if changed {
		if err := s.save(habits); err != nil {
			return nil, err
		}
	}
	return habits, nil
}

// Replace overwrites the whole collection, recomputing each streak rather
// than trusting the incoming value. Used by import.
func (s *Service) Replace(habits []models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.Today()
	seen := make(map[string]bool, len(habits))
	out := make([]models.Habit, len(habits))
	for i, h := range habits {
		if h.ID == "" || seen[h.ID] {
			if h.ID != "" {
				logger.Warn("Reassigning duplicate habit ID", "id", h.ID, "name", h.Name)
			}
			h.ID = uuid.NewString()
		}
		seen[h.ID] = true
		h.CompletedDates = dedupeCompletions(h.CompletedDates)
		h.Streak = streak.Current(h.CompletedDates, today)
		out[i] = h
	}
	return s.save(out)
}

// dedupeCompletions keeps one entry per day, the last one given, in first
// seen order.
func dedupeCompletions(completions []models.Completion) []models.Completion {
	last := make(map[string]int, len(completions))
	for i, c := range completions {
		last[c.Date] = i
	}
	out := make([]models.Completion, 0, len(last))
	for i, c := range completions {
		if last[c.Date] == i {
			out = append(out, c)
		}
	}
	return out
}
