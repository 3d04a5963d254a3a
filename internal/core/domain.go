package core

import (
	"errors"
	"sort"
	"strings"
	"time"
)

type (
	// Event is a named bucket that spending entries attach to.
	Event struct {
		ID        string
		Name      string
		CreatedAt time.Time
		CreatedBy int64
	}

	// Entry is one participant's declared spent amount against one event.
	// Entries are immutable once written.
	Entry struct {
		ID        string
		EventID   string
		UserID    int64
		Username  string
		Amount    Money
		Timestamp time.Time
	}

	Money struct {
		Cents int64
	}

	// State is the whole application document: every operation loads it
	// fresh from the store and mutating operations write it back in full.
	State struct {
		Events  map[string]Event
		Entries map[string]Entry
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrEmptyEventName = errors.New("empty event name")
	ErrUnknownEvent   = errors.New("unknown event")
	ErrUnknownEntry   = errors.New("unknown entry")
)

// NewState returns an empty state with both maps allocated.
func NewState() State {
	return State{
		Events:  make(map[string]Event),
		Entries: make(map[string]Entry),
	}
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("empty event id")
	}
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyEventName
	}
	if e.CreatedAt.IsZero() {
		return errors.New("event creation time cannot be zero")
	}
	return nil
}

func (en Entry) Validate() error {
	if strings.TrimSpace(en.ID) == "" {
		return errors.New("empty entry id")
	}
	if strings.TrimSpace(en.EventID) == "" {
		return errors.New("empty entry event id")
	}
	if err := en.Amount.Validate(); err != nil {
		return err
	}
	if en.Timestamp.IsZero() {
		return errors.New("entry timestamp cannot be zero")
	}
	return nil
}

// Zero is a valid declared amount; only negative values are rejected.
func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// EventsByCreation returns all events ordered by creation time, ties broken
// by id. The persisted document is a JSON object, so listing order has to be
// reconstructed; creation timestamps are monotonic within a process, which
// makes this insertion order in practice.
func (s State) EventsByCreation() []Event {
	events := make([]Event, 0, len(s.Events))
	for _, ev := range s.Events {
		events = append(events, ev)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].ID < events[j].ID
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events
}

// Clone returns a deep copy of the state. Stores hand out clones so callers
// can mutate freely between Load and Save.
func (s State) Clone() State {
	out := State{
		Events:  make(map[string]Event, len(s.Events)),
		Entries: make(map[string]Entry, len(s.Entries)),
	}
	for id, ev := range s.Events {
		out.Events[id] = ev
	}
	for id, en := range s.Entries {
		out.Entries[id] = en
	}
	return out
}
