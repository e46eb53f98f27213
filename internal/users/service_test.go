package users

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/streaks/internal/storage"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "streaks.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return NewService(store, WithCost(bcrypt.MinCost))
}

func TestRegister(t *testing.T) {
	svc := setupTestService(t)

	u, err := svc.Register("Ada", " Ada@Example.com ", "correct horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if u.ID == "" || u.Email != "ada@example.com" {
		t.Errorf("unexpected user %+v", u)
	}
	if u.PasswordHash == "" || strings.Contains(u.PasswordHash, "correct horse") {
		t.Error("password must be stored hashed")
	}

	got, err := svc.Get(u.ID)
	if err != nil || got.Email != u.Email {
		t.Errorf("Get = %+v, %v", got, err)
	}
	if _, err := svc.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRegisterStoresBareAddress(t *testing.T) {
	svc := setupTestService(t)

	u, err := svc.Register("Bob", "Bob <Bob@X.com>", "password1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if u.Email != "bob@x.com" {
		t.Errorf("expected bare address bob@x.com, got %q", u.Email)
	}

	if _, err := svc.Authenticate("bob@x.com", "password1"); err != nil {
		t.Errorf("expected login with the bare address, got %v", err)
	}
	if _, err := svc.Register("Other", "bob@x.com", "password1"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken for the same address, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := setupTestService(t)
	if _, err := svc.Register("Ada", "ada@example.com", "password1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{name: "duplicate email", userName: "Other", email: "ADA@example.com", password: "password1", wantErr: ErrEmailTaken},
		{name: "missing name", userName: " ", email: "b@example.com", password: "password1", wantErr: ErrNameRequired},
		{name: "bad email", userName: "B", email: "not-an-email", password: "password1", wantErr: ErrInvalidEmail},
		{name: "short password", userName: "B", email: "b@example.com", password: "short", wantErr: ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.userName, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc := setupTestService(t)
	registered, _ := svc.Register("Ada", "ada@example.com", "password1")

	u, err := svc.Authenticate("ADA@example.com", "password1")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if u.ID != registered.ID {
		t.Errorf("authenticated the wrong user: %+v", u)
	}

	if _, err := svc.Authenticate("ada@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate("nobody@example.com", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestPublicOmitsHash(t *testing.T) {
	svc := setupTestService(t)
	u, _ := svc.Register("Ada", "ada@example.com", "password1")

	pub := u.Public()
	if pub.ID != u.ID || pub.Email != u.Email || pub.Name != u.Name {
		t.Errorf("Public() = %+v", pub)
	}
}
