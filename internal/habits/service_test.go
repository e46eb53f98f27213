package habits

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/storage"
	"github.com/julianstephens/streaks/internal/streak"
)

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(days int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.AddDate(0, 0, days)
}

func setupTestService(t *testing.T) (*Service, *clock, storage.Provider) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "streaks.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	c := &clock{t: time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)}
	svc := NewService(store, "local", WithClock(c.Now), WithLocation(time.UTC))
	return svc, c, store
}

func TestAdd(t *testing.T) {
	svc, _, _ := setupTestService(t)

	h, err := svc.Add("  Read  ", "ten pages")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if h.ID == "" || h.Name != "Read" || h.Streak != 0 || len(h.CompletedDates) != 0 {
		t.Errorf("unexpected habit %+v", h)
	}

	if _, err := svc.Add("", ""); !errors.Is(err, ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.Add("read", ""); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}

	habits, err := svc.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(habits) != 1 {
		t.Errorf("expected 1 habit, got %d", len(habits))
	}
}

func TestListEmpty(t *testing.T) {
	svc, _, _ := setupTestService(t)
	habits, err := svc.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("expected no habits, got %d", len(habits))
	}
}

func TestGetAndResolve(t *testing.T) {
	svc, _, _ := setupTestService(t)
	h, _ := svc.Add("Meditate", "")

	got, err := svc.Get(h.ID)
	if err != nil || got.Name != "Meditate" {
		t.Errorf("Get = %+v, %v", got, err)
	}
	if _, err := svc.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	byName, err := svc.Resolve("meditate")
	if err != nil || byName.ID != h.ID {
		t.Errorf("Resolve by name = %+v, %v", byName, err)
	}
	byID, err := svc.Resolve(h.ID)
	if err != nil || byID.ID != h.ID {
		t.Errorf("Resolve by id = %+v, %v", byID, err)
	}
	if _, err := svc.Resolve("nothing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestToggleAndPersist(t *testing.T) {
	svc, _, store := setupTestService(t)
	h, _ := svc.Add("Run", "")

	got, err := svc.Toggle(h.ID, "2024-06-15")
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if got.Streak != 1 || got.LastCompleted != "2024-06-15" {
		t.Errorf("unexpected habit after toggle %+v", got)
	}

	// A fresh service over the same store sees the persisted result
	other := NewService(store, "local", WithLocation(time.UTC))
	reloaded, err := other.Get(h.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(reloaded.CompletedDates) != 1 || !reloaded.CompletedDates[0].Completed {
		t.Errorf("toggle was not persisted: %+v", reloaded.CompletedDates)
	}

	if _, err := svc.Toggle("missing", "2024-06-15"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestToggleNormalizesDay(t *testing.T) {
	svc, _, _ := setupTestService(t)
	h, _ := svc.Add("Stretch", "")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "timestamp", input: "2024-06-14T22:00:00Z", want: "2024-06-14"},
		{name: "garbage becomes today", input: "someday", want: "2024-06-15"},
		{name: "empty becomes today", input: "", want: "2024-06-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Toggle(h.ID, tt.input)
			if err != nil {
				t.Fatalf("Toggle failed: %v", err)
			}
			if got.LastCompleted != tt.want {
				t.Errorf("LastCompleted = %q, want %q", got.LastCompleted, tt.want)
			}
		})
	}
}

func TestToggleBuildsStreak(t *testing.T) {
	svc, _, _ := setupTestService(t)
	h, _ := svc.Add("Write", "")

	for _, day := range []string{"2024-06-13", "2024-06-14", "2024-06-15"} {
		if _, err := svc.Toggle(h.ID, day); err != nil {
			t.Fatalf("Toggle(%s) failed: %v", day, err)
		}
	}

	got, _ := svc.Get(h.ID)
	if got.Streak != 3 {
		t.Errorf("expected streak 3, got %d", got.Streak)
	}

	// Un-marking the middle day is covered by the gap tolerance
	got, _ = svc.Toggle(h.ID, "2024-06-14")
	if got.Streak != 2 {
		t.Errorf("expected streak 2 after un-marking, got %d", got.Streak)
	}
	if len(got.CompletedDates) != 3 {
		t.Errorf("un-marking must keep the entry, got %d entries", len(got.CompletedDates))
	}
}

func TestRefreshDecaysStreak(t *testing.T) {
	svc, c, _ := setupTestService(t)
	h, _ := svc.Add("Floss", "")
	_, _ = svc.Toggle(h.ID, "2024-06-14")
	_, _ = svc.Toggle(h.ID, "2024-06-15")

	c.Advance(3)

	habits, err := svc.Refresh()
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if habits[0].Streak != 0 {
		t.Errorf("expected lapsed streak 0, got %d", habits[0].Streak)
	}

	stored, _ := svc.Get(h.ID)
	if stored.Streak != 0 {
		t.Errorf("refreshed streak was not persisted, got %d", stored.Streak)
	}
}

func TestUpdate(t *testing.T) {
	svc, _, _ := setupTestService(t)
	a, _ := svc.Add("A", "")
	_, _ = svc.Add("B", "")
	_, _ = svc.Toggle(a.ID, "2024-06-15")

	updated, err := svc.Update(models.Habit{ID: a.ID, Name: "A2", Description: "new", Streak: 99})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "A2" || updated.Description != "new" {
		t.Errorf("unexpected update result %+v", updated)
	}
	if updated.Streak != 1 || len(updated.CompletedDates) != 1 {
		t.Errorf("Update must not touch derived fields, got %+v", updated)
	}

	if _, err := svc.Update(models.Habit{ID: a.ID, Name: "b"}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	if _, err := svc.Update(models.Habit{ID: a.ID, Name: " "}); !errors.Is(err, ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.Update(models.Habit{ID: "missing", Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, _, _ := setupTestService(t)
	a, _ := svc.Add("A", "")
	b, _ := svc.Add("B", "")

	if err := svc.Delete(a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}

	habits, _ := svc.List()
	if len(habits) != 1 || habits[0].ID != b.ID {
		t.Errorf("unexpected habits after delete %+v", habits)
	}
}

func TestForDay(t *testing.T) {
	svc, _, _ := setupTestService(t)
	a, _ := svc.Add("A", "")
	_, _ = svc.Add("B", "")
	_, _ = svc.Toggle(a.ID, "2024-06-15")

	days, err := svc.ForDay("2024-06-15")
	if err != nil {
		t.Fatalf("ForDay failed: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(days))
	}
	if !days[0].Completed || days[1].Completed {
		t.Errorf("unexpected completion flags %v, %v", days[0].Completed, days[1].Completed)
	}
}

func TestReplaceRecomputesStreak(t *testing.T) {
	svc, _, _ := setupTestService(t)

	err := svc.Replace([]models.Habit{{
		Name:   "Imported",
		Streak: 42,
		CompletedDates: []models.Completion{
			{Date: "2024-06-15", Completed: true},
			{Date: "2024-06-14", Completed: true},
		},
	}})
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	habits, _ := svc.List()
	if len(habits) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(habits))
	}
	if habits[0].Streak != 2 {
		t.Errorf("expected recomputed streak 2, got %d", habits[0].Streak)
	}
	if habits[0].ID == "" {
		t.Error("Replace should assign missing IDs")
	}
}

func TestReplaceKeepsOneEntryPerDay(t *testing.T) {
	svc, _, _ := setupTestService(t)

	err := svc.Replace([]models.Habit{{
		ID:   "h1",
		Name: "Read",
		CompletedDates: []models.Completion{
			{Date: "2024-06-15", Completed: true},
			{Date: "2024-06-15", Completed: true},
			{Date: "2024-06-15", Completed: true},
		},
	}})
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	h, err := svc.Get("h1")
	if err != nil {
		t.Fatal(err)
	}
	if len(h.CompletedDates) != 1 || h.Streak != 1 {
		t.Fatalf("expected one entry and streak 1, got %d entries, streak %d", len(h.CompletedDates), h.Streak)
	}

	h, err = svc.Toggle("h1", "2024-06-15")
	if err != nil {
		t.Fatal(err)
	}
	if h.Streak != 0 || streak.IsCompleted(h, "2024-06-15") {
		t.Errorf("un-marking the only day should leave streak 0, got %+v", h)
	}
}

func TestReplaceReassignsDuplicateIDs(t *testing.T) {
	svc, _, _ := setupTestService(t)

	err := svc.Replace([]models.Habit{
		{ID: "h1", Name: "Read"},
		{ID: "h1", Name: "Walk"},
	})
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	habits, _ := svc.List()
	if len(habits) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(habits))
	}
	if habits[0].ID != "h1" || habits[1].ID == "h1" || habits[1].ID == "" {
		t.Fatalf("expected the second habit to get a fresh ID, got %q and %q", habits[0].ID, habits[1].ID)
	}

	walk, err := svc.Get(habits[1].ID)
	if err != nil || walk.Name != "Walk" {
		t.Errorf("expected Walk to be reachable by its new ID, got %+v, %v", walk, err)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	svc, _, store := setupTestService(t)
	_, _ = svc.Add("Mine", "")

	other := NewService(store, "someone-else")
	habits, err := other.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("expected another user's collection to be empty, got %d", len(habits))
	}
}

func TestConcurrentToggles(t *testing.T) {
	svc, _, _ := setupTestService(t)
	var ids []string
	for _, name := range []string{"a", "b", "c", "d"} {
		h, _ := svc.Add(name, "")
		ids = append(ids, h.ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := svc.Toggle(id, "2024-06-15"); err != nil {
				t.Errorf("Toggle failed: %v", err)
			}
		}(id)
	}
	wg.Wait()

	habits, _ := svc.List()
	for _, h := range habits {
		if h.Streak != 1 {
			t.Errorf("habit %s lost its toggle: streak %d", h.Name, h.Streak)
		}
	}
}
