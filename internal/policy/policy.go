// Package policy decides who may talk to the bot and who counts as an
// admin. The admin allow-list is an immutable configuration value injected
// at startup.
package policy

import (
	"strings"

	"whipbot/internal/gateway"
)

type Policy struct {
	admins    map[int64]struct{}
	botHandle string
}

func New(adminIDs []int64, botHandle string) *Policy {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Policy{
		admins:    admins,
		botHandle: strings.ToLower(strings.TrimPrefix(botHandle, "@")),
	}
}

// IsAdmin reports whether the actor is on the configured allow-list.
func (p *Policy) IsAdmin(actorID int64) bool {
	_, ok := p.admins[actorID]
	return ok
}

// HasAdmins reports whether any admin is configured at all.
func (p *Policy) HasAdmins() bool {
	return len(p.admins) > 0
}

// AdminIDs returns the allow-list for notification fan-out.
func (p *Policy) AdminIDs() []int64 {
	ids := make([]int64, 0, len(p.admins))
	for id := range p.admins {
		ids = append(ids, id)
	}
	return ids
}

// CanInteract is true for private chats, and for group chats only when the
// bot is mentioned. Interactions failing this gate are silently ignored so
// the bot never adds noise to a group.
func (p *Policy) CanInteract(u gateway.Update) bool {
	if u.Chat.IsPrivate() {
		return true
	}
	return p.IsMentioned(u)
}

// IsMentioned checks for the bot's handle in a group message, first by
// structured mention annotation, then by a case-insensitive substring match
// of "@handle" in the raw text. Either suffices.
func (p *Policy) IsMentioned(u gateway.Update) bool {
	if u.Chat.IsPrivate() || p.botHandle == "" {
		return false
	}
	for _, m := range u.Mentions {
		if strings.ToLower(strings.TrimPrefix(m, "@")) == p.botHandle {
			return true
		}
	}
	return strings.Contains(strings.ToLower(u.Text), "@"+p.botHandle)
}
