// Package tasks keeps a per-user calendar of dated tasks.
package tasks

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/storage"
	"github.com/julianstephens/streaks/internal/utils"
)

var (
	ErrNotFound     = errors.New("task not found")
	ErrInvalidDate  = errors.New("invalid task date (expected YYYY-MM-DD)")
	ErrInvalidMonth = errors.New("invalid month (expected YYYY-MM)")
)

type Service struct {
	mu    sync.Mutex
	store storage.Provider
	key   string
	loc   *time.Location
	now   func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func NewService(store storage.Provider, userID string, opts ...Option) *Service {
	s := &Service{
		store: store,
		key:   storage.CollectionKey(constants.StoragePrefix, userID, constants.TasksKey),
		loc:   time.Local,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}

// Today returns the current calendar day in the service's timezone.
func (s *Service) Today() string {
	return s.clock().Format(constants.DateFormat)
}

func (s *Service) load() (models.Calendar, error) {
	cal := models.Calendar{}
	if _, err := storage.GetJSON(s.store, s.key, &cal); err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if cal == nil {
		cal = models.Calendar{}
	}
	return cal, nil
}

func (s *Service) save(cal models.Calendar) error {
	if err := storage.SetJSON(s.store, s.key, cal); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}

// locate returns the day and index of the task with id.
func locate(cal models.Calendar, id string) (string, int, bool) {
	for day, list := range cal {
		for i := range list {
			if list[i].ID == id {
				return day, i, true
			}
		}
	}
	return "", -1, false
}

func removeAt(cal models.Calendar, day string, i int) {
	list := cal[day]
	list = append(list[:i], list[i+1:]...)
	if len(list) == 0 {
		delete(cal, day)
		return
	}
	cal[day] = list
}

func (s *Service) Get(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal, err := s.load()
	if err != nil {
		return models.Task{}, err
	}
	day, i, ok := locate(cal, id)
	if !ok {
		return models.Task{}, ErrNotFound
	}
	return cal[day][i], nil
}

// Add stores t on t.Date, defaulting to today when the date is empty.
func (s *Service) Add(t models.Task) (models.Task, error) {
	day := strings.TrimSpace(t.Date)
	if day == "" {
		day = s.Today()
	}
	if !utils.ValidateDateFormat(day) {
		return models.Task{}, ErrInvalidDate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cal, err := s.load()
	if err != nil {
		return models.Task{}, err
	}

	t.ID = constants.TaskIDPrefix + uuid.NewString()
	t.Completed = false
	t.CreatedAt = time.Time{}
	t = Sanitize(t, day, s.clock())

	cal[day] = append(cal[day], t)
	if err := s.save(cal); err != nil {
		return models.Task{}, err
	}

	logger.Debug("Task added", "id", t.ID, "date", day)
	return t, nil
}

// Update replaces the stored task with t.ID, moving it when t.Date names a
// different day.
func (s *Service) Update(t models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal, err := s.load()
	if err != nil {
		return models.Task{}, err
	}
	oldDay, i, ok := locate(cal, t.ID)
	if !ok {
		return models.Task{}, ErrNotFound
	}

	day := strings.TrimSpace(t.Date)
	if day == "" {
		day = oldDay
	}
	if !utils.ValidateDateFormat(day) {
		return models.Task{}, ErrInvalidDate
	}

	t.CreatedAt = cal[oldDay][i].CreatedAt
	t = Sanitize(t, day, s.clock())

	if day == oldDay {
		cal[day][i] = t
	} else {
		removeAt(cal, oldDay, i)
		cal[day] = append(cal[day], t)
	}

	if err := s.save(cal); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal, err := s.load()
	if err != nil {
		return err
	}
	day, i, ok := locate(cal, id)
	if !ok {
		return ErrNotFound
	}

	removeAt(cal, day, i)
	return s.save(cal)
}

// Toggle flips the task's completion flag.
func (s *Service) Toggle(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal, err := s.load()
	if err != nil {
		return models.Task{}, err
	}
	day, i, ok := locate(cal, id)
	if !ok {
		return models.Task{}, ErrNotFound
	}

	t := cal[day][i]
	t.Completed = !t.Completed
	t.UpdatedAt = s.now().UTC()
	cal[day][i] = t

	if err := s.save(cal); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// ForDay returns the day's tasks, all-day entries first, then by time.
func (s *Service) ForDay(day string) ([]models.Task, error) {
	if !utils.ValidateDateFormat(day) {
		return nil, ErrInvalidDate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cal, err := s.load()
	if err != nil {
		return nil, err
	}

	list := append([]models.Task(nil), cal[day]...)
	sortTasks(list)
	return list, nil
}

// ForMonth returns the subset of the calendar inside month (YYYY-MM).
func (s *Service) ForMonth(month string) (models.Calendar, error) {
	if _, err := time.Parse(constants.MonthFormat, month); err != nil {
		return nil, ErrInvalidMonth
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cal, err := s.load()
	if err != nil {
		return nil, err
	}

	out := models.Calendar{}
	for day, list := range cal {
		if strings.HasPrefix(day, month+"-") {
			sorted := append([]models.Task(nil), list...)
			sortTasks(sorted)
			out[day] = sorted
		}
	}
	return out, nil
}

func (s *Service) All() (models.Calendar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Replace overwrites the calendar after sanitizing every entry. Entries
// under a malformed day are dropped.
func (s *Service) Replace(cal models.Calendar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	out := models.Calendar{}
	for day, list := range cal {
		if !utils.ValidateDateFormat(day) {
			logger.Warn("Dropping tasks under invalid date", "date", day, "count", len(list))
			continue
		}
		for _, t := range list {
			if t.ID == "" {
				t.ID = constants.TaskIDPrefix + uuid.NewString()
			}
			out[day] = append(out[day], Sanitize(t, day, now))
		}
	}
	return s.save(out)
}

func sortTasks(list []models.Task) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.AllDay != b.AllDay {
			return a.AllDay
		}
		if a.Time == nil || b.Time == nil {
			return false
		}
		return *a.Time < *b.Time
	})
}

// Days returns the calendar's days in ascending order.
func Days(cal models.Calendar) []string {
	days := make([]string, 0, len(cal))
	for d := range cal {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}
