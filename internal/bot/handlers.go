package bot

import (
	"context"
	"errors"
	"fmt"

	"whipbot/internal/core"
	"whipbot/internal/gateway"
	"whipbot/internal/log"
	"whipbot/internal/services"
)

func (d *Dispatcher) handleStart(ctx context.Context, u gateway.Update) error {
	return d.sender.SendMessage(ctx, u.Chat.ID, welcomeText(d.policy.IsAdmin(u.Actor.ID)))
}

func (d *Dispatcher) handleListEvents(ctx context.Context, u gateway.Update) error {
	events, err := d.events.List(ctx)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	if len(events) == 0 {
		return d.sender.SendMessage(ctx, u.Chat.ID, replyNoEventsYet)
	}
	return d.sender.SendMessage(ctx, u.Chat.ID, eventListText(events))
}

func (d *Dispatcher) handleEnterAmount(ctx context.Context, u gateway.Update) error {
	events, err := d.events.List(ctx)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	if len(events) == 0 {
		// Selecting from an empty list is prevented here, not downstream.
		return d.sender.SendMessage(ctx, u.Chat.ID, replyNoEventsForEntry)
	}

	buttons := make([]gateway.Button, 0, len(events))
	for _, ev := range events {
		buttons = append(buttons, gateway.Button{
			Label: ev.Name,
			Data:  callbackSelectPrefix + ev.ID,
		})
	}
	return d.sender.SendButtons(ctx, u.Chat.ID, replySelectEvent, buttons)
}

func (d *Dispatcher) handleAmountInput(ctx context.Context, u gateway.Update, eventID string) error {
	entry, eventName, err := d.entries.Record(ctx, u.Actor.ID, u.Actor.DisplayName, eventID, u.Text)
	if err != nil {
		if services.IsInvalidAmount(err) {
			// Pending selection stays armed so the actor can retry.
			return d.sender.SendMessage(ctx, u.Chat.ID, replyInvalidAmount)
		}
		if sendErr := d.sender.SendMessage(ctx, u.Chat.ID, replySomethingWrong); sendErr != nil {
			d.logger.ErrorContext(ctx, "Failed to send error reply",
				log.FieldActorID, u.Actor.ID, log.FieldError, sendErr)
		}
		return fmt.Errorf("record entry: %w", err)
	}

	d.flow.Clear(u.Actor.ID)

	if err := d.sender.SendMessage(ctx, u.Chat.ID, entryRecordedText(entry.Amount, eventName)); err != nil {
		d.logger.ErrorContext(ctx, "Failed to send confirmation",
			log.FieldActorID, u.Actor.ID, log.FieldError, err)
	}

	d.notifier.EntryRecorded(ctx, entry.Amount)
	return nil
}

func (d *Dispatcher) handleCreateEvent(ctx context.Context, u gateway.Update) error {
	ev, err := d.events.Create(ctx, u.Actor.ID, u.Args)
	if errors.Is(err, core.ErrEmptyEventName) {
		return d.sender.SendMessage(ctx, u.Chat.ID, replyCreateEventUsage)
	}
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return d.sender.SendMessage(ctx, u.Chat.ID, eventCreatedText(ev))
}

func (d *Dispatcher) handleViewEvents(ctx context.Context, u gateway.Update) error {
	events, err := d.events.List(ctx)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	if len(events) == 0 {
		return d.sender.SendMessage(ctx, u.Chat.ID, replyNoEventsCreated)
	}

	totals, _, err := d.entries.Totals(ctx)
	if err != nil {
		return fmt.Errorf("aggregate totals: %w", err)
	}
	byID := make(map[string]core.EventTotal, len(totals))
	for _, t := range totals {
		byID[t.EventID] = t
	}
	return d.sender.SendMessage(ctx, u.Chat.ID, eventOverviewText(events, byID))
}

func (d *Dispatcher) handleViewSums(ctx context.Context, u gateway.Update) error {
	totals, grand, err := d.entries.Totals(ctx)
	if err != nil {
		return fmt.Errorf("aggregate totals: %w", err)
	}

	entryCount := 0
	for _, t := range totals {
		entryCount += t.Count
	}
	if entryCount == 0 {
		return d.sender.SendMessage(ctx, u.Chat.ID, replyNoEntriesYet)
	}
	return d.sender.SendMessage(ctx, u.Chat.ID, sumsText(totals, grand))
}
