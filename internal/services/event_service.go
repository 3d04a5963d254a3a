// Package services orchestrates the event registry and the entry ledger on
// top of the whole-document store.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"whipbot/internal/core"
	"whipbot/internal/store"
)

// EventService is the event registry: create and list named buckets that
// entries attach to.
type EventService struct {
	store store.Store
}

func NewEventService(st store.Store) *EventService {
	return &EventService{store: st}
}

// Create registers a new event. Admin gating happens at the command layer.
// The name must be non-empty after trimming. Ids are random rather than
// timestamp-derived so concurrent creations cannot collide.
func (s *EventService) Create(ctx context.Context, actorID int64, name string) (core.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Event{}, core.ErrEmptyEventName
	}

	st, err := s.store.Load(ctx)
	if err != nil {
		return core.Event{}, fmt.Errorf("load state: %w", err)
	}

	ev := core.Event{
		ID:        "event_" + uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
		CreatedBy: actorID,
	}
	if err := ev.Validate(); err != nil {
		return core.Event{}, err
	}

	st.Events[ev.ID] = ev
	if err := s.store.Save(ctx, st); err != nil {
		return core.Event{}, fmt.Errorf("save state: %w", err)
	}

	slog.InfoContext(ctx, "Event created",
		"event_id", ev.ID,
		"event_name", ev.Name,
		"actor_id", actorID)

	return ev, nil
}

// List returns all events in creation order.
func (s *EventService) List(ctx context.Context) ([]core.Event, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return st.EventsByCreation(), nil
}

// Get returns one event by id.
func (s *EventService) Get(ctx context.Context, eventID string) (core.Event, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return core.Event{}, fmt.Errorf("load state: %w", err)
	}
	ev, ok := st.Events[eventID]
	if !ok {
		return core.Event{}, core.ErrUnknownEvent
	}
	return ev, nil
}
