// Package worker exports recorded entries to the admin spreadsheet. It reacts
// to sync messages from the bot and periodically scans for rows the messages
// missed.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"whipbot/internal/amqp"
	"whipbot/internal/core"
	"whipbot/internal/services"
	"whipbot/internal/sheets"
)

type SyncWorker struct {
	entries   *services.EntryService
	writer    sheets.EntryWriter
	reader    sheets.ExportReader
	batchSize int
}

func NewSyncWorker(entries *services.EntryService, writer sheets.EntryWriter, reader sheets.ExportReader, batchSize int) *SyncWorker {
	return &SyncWorker{
		entries:   entries,
		writer:    writer,
		reader:    reader,
		batchSize: batchSize,
	}
}

// HandleSyncMessage exports the entry named by one AMQP sync message. An
// entry that no longer exists is dropped without error so the delivery is
// not requeued forever.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "entry_id", msg.EntryID)

	entry, eventName, err := w.entries.GetEntry(ctx, msg.EntryID)
	if errors.Is(err, core.ErrUnknownEntry) {
		slog.WarnContext(ctx, "Entry in sync message no longer exists, dropping",
			"entry_id", msg.EntryID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get entry: %w", err)
	}

	return w.exportEntry(ctx, entry, eventName)
}

// ProcessPendingEntries appends entries missing from the export sheet, at
// most batchSize per run. This is the backup path for lost AMQP messages.
func (w *SyncWorker) ProcessPendingEntries(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize)
}

// StartupSyncCheck runs a larger catch-up scan once at worker startup to
// recover from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize*5)
}

func (w *SyncWorker) processPending(ctx context.Context, limit int) error {
	exported, err := w.reader.ListEntryIDs(ctx)
	if err != nil {
		return fmt.Errorf("list exported entry ids: %w", err)
	}

	all, err := w.entries.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	var pending []core.Entry
	for _, en := range all {
		if _, ok := exported[en.ID]; !ok {
			pending = append(pending, en)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	// Oldest first so the sheet grows in recording order.
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].Timestamp.Equal(pending[j].Timestamp) {
			return pending[i].ID < pending[j].ID
		}
		return pending[i].Timestamp.Before(pending[j].Timestamp)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	slog.InfoContext(ctx, "Processing pending entries", "count", len(pending))

	successCount := 0
	for _, en := range pending {
		_, eventName, err := w.entries.GetEntry(ctx, en.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to resolve entry", "entry_id", en.ID, "error", err)
			continue
		}
		if err := w.exportEntry(ctx, en, eventName); err != nil {
			slog.ErrorContext(ctx, "Failed to export entry", "entry_id", en.ID, "error", err)
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Pending entry sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", len(pending)-successCount)

	return nil
}

func (w *SyncWorker) exportEntry(ctx context.Context, entry core.Entry, eventName string) error {
	ref, err := w.writer.Append(ctx, sheets.ExportRow{
		EntryID:   entry.ID,
		EventName: eventName,
		Username:  entry.Username,
		Euros:     entry.Amount.Euros(),
		Timestamp: entry.Timestamp.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("append to sheet: %w", err)
	}

	slog.InfoContext(ctx, "Entry exported",
		"entry_id", entry.ID,
		"sheets_ref", ref,
		"amount_cents", entry.Amount.Cents)

	return nil
}
