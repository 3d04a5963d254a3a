// Package gateway defines the transport-neutral ports between the bot core
// and whatever chat system carries its messages. The core only ever sees
// Updates and talks back through a Sender; the Telegram adapter lives in a
// subpackage.
package gateway

import "context"

type ChatKind string

const (
	ChatPrivate ChatKind = "private"
	ChatGroup   ChatKind = "group"
)

type (
	// Actor is the human behind an inbound interaction.
	Actor struct {
		ID          int64
		DisplayName string
	}

	Chat struct {
		ID   int64
		Kind ChatKind
	}

	// Update is one inbound interaction: a command, free text, or a button
	// press. Exactly one of Command/Text/Callback carries the payload.
	Update struct {
		Actor Actor
		Chat  Chat

		// Text is the raw message text, empty for button presses.
		Text string
		// Command is the bare command name ("start", "view_sums"), empty
		// when the message is not a command. Args carries the rest of the
		// line for commands that take arguments.
		Command string
		Args    string
		// Mentions lists structured @handle annotations found in the
		// message, lowercased without the leading '@'.
		Mentions []string

		// Callback is the button payload; CallbackMessageID identifies the
		// message carrying the pressed button so it can be edited.
		Callback          string
		CallbackMessageID int
	}

	// Button is one labeled selectable option rendered under a reply.
	Button struct {
		Label string
		Data  string
	}
)

// Sender carries replies back to the originating chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendButtons(ctx context.Context, chatID int64, text string, buttons []Button) error
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) error
	// Handle returns the bot's own registered handle, without '@', used for
	// group-mention gating.
	Handle() string
}

func (c Chat) IsPrivate() bool {
	return c.Kind == ChatPrivate
}

// IsCommand reports whether the update is a command invocation.
func (u Update) IsCommand() bool {
	return u.Command != ""
}
