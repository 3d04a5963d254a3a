package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"whipbot/internal/core"
	"whipbot/internal/store"
)

// SyncPublisher announces recorded entries to the export pipeline. Delivery
// is best effort and never affects the entry write.
type SyncPublisher interface {
	PublishEntrySync(ctx context.Context, entryID string) error
}

// EntryService is the entry ledger: it records declared amounts against
// events and derives per-event and grand totals.
type EntryService struct {
	store     store.Store
	publisher SyncPublisher // may be nil when AMQP is not configured
}

func NewEntryService(st store.Store, publisher SyncPublisher) *EntryService {
	return &EntryService{store: st, publisher: publisher}
}

// Record parses rawAmount (dot or comma decimals, zero allowed) and appends
// an immutable entry for the actor against eventID. The returned event name
// is "Unknown Event" when the id no longer resolves. A failed parse returns
// core.ErrInvalidAmount and leaves the state untouched.
func (s *EntryService) Record(ctx context.Context, actorID int64, displayName, eventID, rawAmount string) (core.Entry, string, error) {
	cents, err := core.ParseAmountToCents(rawAmount)
	if err != nil {
		return core.Entry{}, "", fmt.Errorf("parse amount %q: %w", rawAmount, core.ErrInvalidAmount)
	}

	st, err := s.store.Load(ctx)
	if err != nil {
		return core.Entry{}, "", fmt.Errorf("load state: %w", err)
	}

	username := displayName
	if username == "" {
		username = fmt.Sprintf("User_%d", actorID)
	}

	en := core.Entry{
		ID:        fmt.Sprintf("%s_%d_%s", eventID, actorID, uuid.NewString()),
		EventID:   eventID,
		UserID:    actorID,
		Username:  username,
		Amount:    core.Money{Cents: cents},
		Timestamp: time.Now(),
	}
	if err := en.Validate(); err != nil {
		return core.Entry{}, "", err
	}

	st.Entries[en.ID] = en
	if err := s.store.Save(ctx, st); err != nil {
		return core.Entry{}, "", fmt.Errorf("save state: %w", err)
	}

	eventName := core.UnknownEventName
	if ev, ok := st.Events[eventID]; ok {
		eventName = ev.Name
	}

	slog.InfoContext(ctx, "Entry recorded",
		"entry_id", en.ID,
		"event_id", eventID,
		"amount_cents", en.Amount.Cents)

	// Fire-and-forget: the export pipeline must never fail the write.
	if s.publisher != nil {
		if err := s.publisher.PublishEntrySync(ctx, en.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish entry sync message",
				"entry_id", en.ID, "error", err)
		}
	}

	return en, eventName, nil
}

// Totals aggregates all entries per event and returns the grand total.
func (s *EntryService) Totals(ctx context.Context) ([]core.EventTotal, core.Money, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, core.Money{}, fmt.Errorf("load state: %w", err)
	}
	totals := core.TotalsByEvent(st)
	return totals, core.GrandTotal(totals), nil
}

// GetEntry returns one entry and the name of its event (or "Unknown Event").
// Used by the export worker to resolve sync messages.
func (s *EntryService) GetEntry(ctx context.Context, entryID string) (core.Entry, string, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return core.Entry{}, "", fmt.Errorf("load state: %w", err)
	}
	en, ok := st.Entries[entryID]
	if !ok {
		return core.Entry{}, "", fmt.Errorf("entry %s: %w", entryID, core.ErrUnknownEntry)
	}
	eventName := core.UnknownEventName
	if ev, ok := st.Events[en.EventID]; ok {
		eventName = ev.Name
	}
	return en, eventName, nil
}

// ListEntries returns every entry in the store, for the worker's catch-up
// scan of rows missing from the export sheet.
func (s *EntryService) ListEntries(ctx context.Context) ([]core.Entry, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	entries := make([]core.Entry, 0, len(st.Entries))
	for _, en := range st.Entries {
		entries = append(entries, en)
	}
	return entries, nil
}

// IsInvalidAmount reports whether err stems from an unparsable or negative
// amount, for the retry prompt at the command layer.
func IsInvalidAmount(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount)
}
