package policy

import (
	"testing"

	"whipbot/internal/gateway"
)

func groupUpdate(text string, mentions ...string) gateway.Update {
	return gateway.Update{
		Actor:    gateway.Actor{ID: 7},
		Chat:     gateway.Chat{ID: -100, Kind: gateway.ChatGroup},
		Text:     text,
		Mentions: mentions,
	}
}

func TestIsAdmin(t *testing.T) {
	p := New([]int64{1, 2}, "whipbot")

	if !p.IsAdmin(1) || !p.IsAdmin(2) {
		t.Fatal("configured admins not recognized")
	}
	if p.IsAdmin(3) {
		t.Fatal("actor outside the allow-list treated as admin")
	}

	empty := New(nil, "whipbot")
	if empty.HasAdmins() {
		t.Fatal("empty allow-list reported admins")
	}
}

func TestCanInteract(t *testing.T) {
	p := New([]int64{1}, "WhipBot")

	private := gateway.Update{
		Actor: gateway.Actor{ID: 7},
		Chat:  gateway.Chat{ID: 7, Kind: gateway.ChatPrivate},
		Text:  "hello",
	}
	if !p.CanInteract(private) {
		t.Fatal("private chats must always pass the gate")
	}

	tests := []struct {
		name string
		u    gateway.Update
		want bool
	}{
		{"group without mention", groupUpdate("what do we owe?"), false},
		{"structured mention", groupUpdate("hey", "whipbot"), true},
		{"structured mention with at sign", groupUpdate("hey", "@WhipBot"), true},
		{"substring mention", groupUpdate("hey @whipbot what now"), true},
		{"substring mention case-insensitive", groupUpdate("HEY @WHIPBOT"), true},
		{"mention of someone else", groupUpdate("ask @otherbot", "otherbot"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.CanInteract(tt.u); got != tt.want {
				t.Fatalf("CanInteract = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsMentionedNeverInPrivate(t *testing.T) {
	p := New(nil, "whipbot")
	u := gateway.Update{
		Chat: gateway.Chat{ID: 7, Kind: gateway.ChatPrivate},
		Text: "@whipbot hi",
	}
	if p.IsMentioned(u) {
		t.Fatal("mention detection applies to group chats only")
	}
}
