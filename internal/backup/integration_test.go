package backup

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/habits"
	"github.com/julianstephens/streaks/internal/storage/sqlite"
)

// TestIntegrationBackupRestoreWorkflow runs a backup and restore against a
// real store holding habits.
func TestIntegrationBackupRestoreWorkflow(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "streaks.db")
	clock := func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) }

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	svc := habits.NewService(store, constants.LocalUserID, habits.WithClock(clock), habits.WithLocation(time.UTC))
	h, err := svc.Add("Read", "")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager(dbPath, WithClock(steppingClock()))
	snapshot, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	store = sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	svc = habits.NewService(store, constants.LocalUserID, habits.WithClock(clock), habits.WithLocation(time.UTC))
	if _, err := svc.Toggle(h.ID, "2024-06-15"); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.RestoreBackup(snapshot); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	store = sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("Load after restore failed: %v", err)
	}
	defer store.Close()
	svc = habits.NewService(store, constants.LocalUserID, habits.WithClock(clock), habits.WithLocation(time.UTC))

	restored, err := svc.Get(h.ID)
	if err != nil {
		t.Fatalf("Get after restore failed: %v", err)
	}
	if restored.Streak != 0 || len(restored.CompletedDates) != 0 {
		t.Errorf("expected the pre-toggle habit after restore, got %+v", restored)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Errorf("expected the snapshot plus a safety backup, got %d", len(backups))
	}
}
