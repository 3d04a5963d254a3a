// Package bot routes inbound gateway updates to the event registry and the
// entry ledger, and owns the two-state enter-amount conversation.
package bot

import (
	"context"
	"strings"

	"whipbot/internal/gateway"
	"whipbot/internal/log"
	"whipbot/internal/policy"
	"whipbot/internal/services"
)

// Command names. Case-sensitive, no aliases.
const (
	cmdStart       = "start"
	cmdListEvents  = "list_events"
	cmdEnterAmount = "enter_amount"
	cmdCreateEvent = "create_event"
	cmdViewEvents  = "events"
	cmdViewSums    = "view_sums"
)

// callbackSelectPrefix encodes an event pick from the inline list.
const callbackSelectPrefix = "select_event_"

type Dispatcher struct {
	policy   *policy.Policy
	flow     *Flow
	events   *services.EventService
	entries  *services.EntryService
	sender   gateway.Sender
	notifier *Notifier
	logger   *log.Logger
}

func NewDispatcher(
	pol *policy.Policy,
	flow *Flow,
	events *services.EventService,
	entries *services.EntryService,
	sender gateway.Sender,
	notifier *Notifier,
	logger *log.Logger,
) *Dispatcher {
	return &Dispatcher{
		policy:   pol,
		flow:     flow,
		events:   events,
		entries:  entries,
		sender:   sender,
		notifier: notifier,
		logger:   logger.WithComponent(log.ComponentBot),
	}
}

// Dispatch classifies one inbound interaction and runs the matching handler.
// Handler failures are logged, never returned: the update loop must outlive
// any single bad interaction.
func (d *Dispatcher) Dispatch(ctx context.Context, u gateway.Update) {
	var err error
	switch {
	case u.Callback != "":
		err = d.handleCallback(ctx, u)
	case u.IsCommand():
		err = d.handleCommand(ctx, u)
	default:
		err = d.handleText(ctx, u)
	}
	if err != nil {
		d.logger.ErrorContext(ctx, "Handler failed",
			log.FieldActorID, u.Actor.ID,
			log.FieldChatID, u.Chat.ID,
			log.FieldCommand, u.Command,
			log.FieldError, err)
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, u gateway.Update) error {
	// Interactions failing the access gate are ignored without any reply.
	if !d.policy.CanInteract(u) {
		return nil
	}

	switch u.Command {
	case cmdStart:
		return d.handleStart(ctx, u)
	case cmdListEvents:
		return d.handleListEvents(ctx, u)
	case cmdEnterAmount:
		return d.handleEnterAmount(ctx, u)
	case cmdCreateEvent:
		return d.requireAdmin(ctx, u, d.handleCreateEvent)
	case cmdViewEvents:
		return d.requireAdmin(ctx, u, d.handleViewEvents)
	case cmdViewSums:
		return d.requireAdmin(ctx, u, d.handleViewSums)
	default:
		// Unknown commands get no reply, same as before.
		return nil
	}
}

func (d *Dispatcher) requireAdmin(ctx context.Context, u gateway.Update, next func(context.Context, gateway.Update) error) error {
	if !d.policy.IsAdmin(u.Actor.ID) {
		return d.sender.SendMessage(ctx, u.Chat.ID, replyAdminsOnly)
	}
	return next(ctx, u)
}

func (d *Dispatcher) handleText(ctx context.Context, u gateway.Update) error {
	// Amounts are accepted in private chats only, so financial figures are
	// never typed into shared chats.
	if u.Chat.IsPrivate() {
		if eventID, ok := d.flow.Peek(u.Actor.ID); ok {
			return d.handleAmountInput(ctx, u, eventID)
		}
		return nil
	}

	// Group fallback: a mention without a command and without a pending
	// amount context gets a generic help reply.
	if !d.policy.IsMentioned(u) {
		return nil
	}
	if _, pending := d.flow.Peek(u.Actor.ID); pending {
		return nil
	}
	return d.sender.SendMessage(ctx, u.Chat.ID, mentionHelpText(d.policy.IsAdmin(u.Actor.ID)))
}

func (d *Dispatcher) handleCallback(ctx context.Context, u gateway.Update) error {
	if !strings.HasPrefix(u.Callback, callbackSelectPrefix) {
		return nil
	}
	eventID := strings.TrimPrefix(u.Callback, callbackSelectPrefix)

	d.flow.Arm(u.Actor.ID, eventID)
	d.logger.InfoContext(ctx, "Event selected for amount entry",
		log.FieldActorID, u.Actor.ID,
		log.FieldEventID, eventID)

	return d.sender.EditMessage(ctx, u.Chat.ID, u.CallbackMessageID, replyAmountPrompt)
}
