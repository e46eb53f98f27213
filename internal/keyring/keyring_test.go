package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://testuser@localhost:5432/testdb?sslmode=disable"
	if err := SetConnectionString(connStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("GetConnectionString() = %q, want %q", got, connStr)
	}
}

func TestSetEmptySecret(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
	if err := SetJWTSecret(""); err == nil {
		t.Error("SetJWTSecret(\"\") should return an error")
	}
}

func TestGetNotFound(t *testing.T) {
	gokeyring.MockInit()

	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
	if _, err := GetJWTSecret(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetJWTSecret() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := SetJWTSecret("s3cret"); err != nil {
		t.Fatalf("SetJWTSecret() failed: %v", err)
	}
	if err := DeleteJWTSecret(); err != nil {
		t.Fatalf("DeleteJWTSecret() failed: %v", err)
	}
	if _, err := GetJWTSecret(); !errors.Is(err, ErrNotFound) {
		t.Errorf("secret still present after delete: %v", err)
	}
	if err := DeleteJWTSecret(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want %v", err, ErrNotFound)
	}
}

func TestSecretsAreIndependent(t *testing.T) {
	gokeyring.MockInit()

	_ = SetConnectionString("postgres://a@localhost/db")
	_ = SetJWTSecret("jwt")

	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if got, err := GetJWTSecret(); err != nil || got != "jwt" {
		t.Errorf("JWT secret affected by connection delete: %q, %v", got, err)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("mock keyring should be available")
	}
}
