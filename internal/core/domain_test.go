package core

import (
	"testing"
	"time"
)

func TestEventValidate(t *testing.T) {
	base := Event{ID: "event_1", Name: "Trip", CreatedAt: time.Now(), CreatedBy: 1}

	if err := base.Validate(); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}

	noName := base
	noName.Name = "   "
	if err := noName.Validate(); err != ErrEmptyEventName {
		t.Fatalf("expected ErrEmptyEventName, got %v", err)
	}

	noID := base
	noID.ID = ""
	if err := noID.Validate(); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestEntryValidate(t *testing.T) {
	base := Entry{
		ID:        "event_1_7_abc",
		EventID:   "event_1",
		UserID:    7,
		Username:  "bob",
		Amount:    Money{Cents: 1250},
		Timestamp: time.Now(),
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}

	zero := base
	zero.Amount = Money{}
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount must be valid, got %v", err)
	}

	negative := base
	negative.Amount = Money{Cents: -1}
	if err := negative.Validate(); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestEventsByCreation(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewState()
	s.Events["event_c"] = Event{ID: "event_c", Name: "third", CreatedAt: t0.Add(2 * time.Hour)}
	s.Events["event_a"] = Event{ID: "event_a", Name: "first", CreatedAt: t0}
	s.Events["event_b"] = Event{ID: "event_b", Name: "second", CreatedAt: t0.Add(time.Hour)}

	got := s.EventsByCreation()
	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, got[i].Name)
		}
	}
}

func TestStateClone(t *testing.T) {
	s := NewState()
	s.Events["event_a"] = Event{ID: "event_a", Name: "Trip", CreatedAt: time.Now()}

	c := s.Clone()
	c.Events["event_b"] = Event{ID: "event_b", Name: "Party", CreatedAt: time.Now()}
	c.Entries["x"] = Entry{ID: "x", EventID: "event_a", Amount: Money{Cents: 100}, Timestamp: time.Now()}

	if len(s.Events) != 1 || len(s.Entries) != 0 {
		t.Fatal("mutating the clone leaked into the original state")
	}
}
