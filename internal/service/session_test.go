package service

import (
	"errors"
	"testing"
	"time"
)

func TestSessionManager_CreateResolveDestroy(t *testing.T) {
	m := NewSessionManager(time.Hour)

	token := m.Create(7)
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	id, err := m.Resolve(token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected user 7, got %d", id)
	}

	m.Destroy(token)
	if _, err := m.Resolve(token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after Destroy, got %v", err)
	}
}

func TestSessionManager_Resolve_UnknownToken(t *testing.T) {
	m := NewSessionManager(time.Hour)

	for _, token := range []string{"", "bogus"} {
		if _, err := m.Resolve(token); !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("token %q: expected ErrUnauthenticated, got %v", token, err)
		}
	}
}

func TestSessionManager_TokensAreUnique(t *testing.T) {
	m := NewSessionManager(time.Hour)

	a := m.Create(1)
	b := m.Create(1)
	if a == b {
		t.Fatal("two sessions for the same user must not share a token")
	}
}

func TestSessionManager_Expiry(t *testing.T) {
	m := NewSessionManager(10 * time.Millisecond)

	token := m.Create(7)
	time.Sleep(25 * time.Millisecond)

	if _, err := m.Resolve(token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestSessionManager_Sweep(t *testing.T) {
	m := NewSessionManager(10 * time.Millisecond)

	m.Create(1)
	m.Create(2)
	live := m.Create(3)

	time.Sleep(25 * time.Millisecond)
	keep := m.Create(4) // fresh after the others expired

	m.sweep(time.Now())

	m.mu.Lock()
	remaining := len(m.sessions)
	m.mu.Unlock()
	if remaining != 1 {
		t.Fatalf("expected 1 live session after sweep, got %d", remaining)
	}
	if _, err := m.Resolve(keep); err != nil {
		t.Errorf("fresh session swept: %v", err)
	}
	if _, err := m.Resolve(live); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expired session survived sweep: %v", err)
	}
}
