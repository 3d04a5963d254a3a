package bot

import (
	"context"
	"fmt"

	"whipbot/internal/core"
	"whipbot/internal/gateway"
	"whipbot/internal/log"
)

// Notifier broadcasts a redacted note to every admin when an entry is
// recorded: amount only, no submitter identity. Delivery is sequential and
// best effort; one admin's failure is logged and does not affect the others
// or the entry itself.
type Notifier struct {
	sender   gateway.Sender
	adminIDs []int64
	logger   *log.Logger
}

func NewNotifier(sender gateway.Sender, adminIDs []int64, logger *log.Logger) *Notifier {
	return &Notifier{
		sender:   sender,
		adminIDs: adminIDs,
		logger:   logger.WithComponent(log.ComponentBot),
	}
}

func (n *Notifier) EntryRecorded(ctx context.Context, amount core.Money) {
	text := fmt.Sprintf("💰 New entry: %s €", amount)
	for _, adminID := range n.adminIDs {
		if err := n.sender.SendMessage(ctx, adminID, text); err != nil {
			n.logger.ErrorContext(ctx, "Failed to notify admin",
				log.FieldActorID, adminID,
				log.FieldError, err)
		}
	}
}
