package session

import (
	"testing"
	"time"
)

func newTestStore(ttl time.Duration) *Store {
	s := NewStore(ttl, time.Hour)
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := newTestStore(time.Hour)
	defer s.Close()

	s.Put(&Context{SessionID: "abc", FolderID: "f1"})

	got, ok := s.Get("abc")
	if !ok {
		t.Fatal("expected session to exist")
	}
	if got.FolderID != "f1" {
		t.Errorf("expected folder f1, got %q", got.FolderID)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("expected missing session to be absent")
	}
}

func TestStore_ExpiredSessionAbsentBeforeSweep(t *testing.T) {
	s := newTestStore(50 * time.Millisecond)
	defer s.Close()

	s.Put(&Context{SessionID: "abc"})
	time.Sleep(80 * time.Millisecond)

	if _, ok := s.Get("abc"); ok {
		t.Error("expected expired session to be treated as absent")
	}
	if s.Len() != 0 {
		t.Errorf("expected 0 sessions after expired lookup, got %d", s.Len())
	}
}

func TestStore_GetRefreshesActivity(t *testing.T) {
	s := newTestStore(100 * time.Millisecond)
	defer s.Close()

	s.Put(&Context{SessionID: "abc"})

	for i := 0; i < 3; i++ {
		time.Sleep(60 * time.Millisecond)
		if _, ok := s.Get("abc"); !ok {
			t.Fatalf("session expired despite activity on touch %d", i)
		}
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(time.Hour)
	defer s.Close()

	s.Put(&Context{SessionID: "a"})
	s.Put(&Context{SessionID: "b"})

	if n := s.Clear(); n != 2 {
		t.Errorf("expected 2 cleared, got %d", n)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}

func TestContext_HistoryWindow(t *testing.T) {
	c := &Context{}
	for i := 0; i < 15; i++ {
		c.AddExchange("q", "a")
	}

	if len(c.History) != historyWindow {
		t.Errorf("expected history capped at %d, got %d", historyWindow, len(c.History))
	}

	recent := c.RecentHistory(3)
	if len(recent) != 3 {
		t.Errorf("expected 3 recent exchanges, got %d", len(recent))
	}
}
