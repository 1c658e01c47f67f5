package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash equals plaintext")
	}
	if err := CheckPassword(hash, "correct horse battery"); err != nil {
		t.Fatalf("CheckPassword with right password: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, core.ErrBadCredentials) {
		t.Fatalf("CheckPassword with wrong password: got %v, want ErrBadCredentials", err)
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := NewSessionStore(time.Hour, 0)
	defer store.Close()

	id := store.Create(42)
	userID, err := store.Lookup(id)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if userID != 42 {
		t.Fatalf("Lookup user = %d, want 42", userID)
	}

	store.Revoke(id)
	if _, err := store.Lookup(id); !errors.Is(err, core.ErrBadCredentials) {
		t.Fatalf("Lookup after revoke: got %v, want ErrBadCredentials", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	store := NewSessionStore(time.Millisecond, 0)
	defer store.Close()

	id := store.Create(7)
	time.Sleep(5 * time.Millisecond)
	if _, err := store.Lookup(id); !errors.Is(err, core.ErrBadCredentials) {
		t.Fatalf("Lookup after expiry: got %v, want ErrBadCredentials", err)
	}
}

func TestSessionSweep(t *testing.T) {
	store := NewSessionStore(time.Millisecond, 0)
	defer store.Close()

	store.Create(1)
	store.Create(2)
	time.Sleep(5 * time.Millisecond)
	store.sweep()

	store.mu.Lock()
	n := len(store.sessions)
	store.mu.Unlock()
	if n != 0 {
		t.Fatalf("sweep left %d sessions", n)
	}
}
