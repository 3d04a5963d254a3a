package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"whipbot/internal/gateway"
	"whipbot/internal/log"
	"whipbot/internal/policy"
	"whipbot/internal/services"
	"whipbot/internal/store/memory"
)

type sentMessage struct {
	chatID  int64
	text    string
	buttons []gateway.Button
}

type fakeSender struct {
	mu        sync.Mutex
	messages  []sentMessage
	edits     []sentMessage
	failChats map[int64]error
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failChats[chatID]; ok {
		return err
	}
	f.messages = append(f.messages, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeSender) SendButtons(_ context.Context, chatID int64, text string, buttons []gateway.Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMessage{chatID: chatID, text: text, buttons: buttons})
	return nil
}

func (f *fakeSender) EditMessage(_ context.Context, chatID int64, _ int, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeSender) Handle() string { return "whipbot" }

func (f *fakeSender) sentTo(chatID int64) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, m := range f.messages {
		if m.chatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeSender) lastTo(t *testing.T, chatID int64) sentMessage {
	t.Helper()
	msgs := f.sentTo(chatID)
	if len(msgs) == 0 {
		t.Fatalf("no messages sent to chat %d", chatID)
	}
	return msgs[len(msgs)-1]
}

type testBot struct {
	dispatcher *Dispatcher
	sender     *fakeSender
	store      *memory.Store
	flow       *Flow
}

func newTestBot(adminIDs []int64) *testBot {
	st := memory.New()
	sender := &fakeSender{failChats: make(map[int64]error)}
	pol := policy.New(adminIDs, sender.Handle())
	flow := NewFlow()
	logger := log.New(log.Config{Level: slog.LevelError, Component: log.ComponentBot})

	events := services.NewEventService(st)
	entries := services.NewEntryService(st, nil)
	notifier := NewNotifier(sender, adminIDs, logger)

	return &testBot{
		dispatcher: NewDispatcher(pol, flow, events, entries, sender, notifier, logger),
		sender:     sender,
		store:      st,
		flow:       flow,
	}
}

func privateCommand(actorID int64, name, command, args string) gateway.Update {
	return gateway.Update{
		Actor:   gateway.Actor{ID: actorID, DisplayName: name},
		Chat:    gateway.Chat{ID: actorID, Kind: gateway.ChatPrivate},
		Command: command,
		Args:    args,
		Text:    "/" + command,
	}
}

func privateText(actorID int64, name, text string) gateway.Update {
	return gateway.Update{
		Actor: gateway.Actor{ID: actorID, DisplayName: name},
		Chat:  gateway.Chat{ID: actorID, Kind: gateway.ChatPrivate},
		Text:  text,
	}
}

func TestCreateEventAdminGate(t *testing.T) {
	ctx := context.Background()
	b := newTestBot([]int64{1})

	// Admin A creates an event
	b.dispatcher.Dispatch(ctx, privateCommand(1, "alice", "create_event", "Trip"))
	st, _ := b.store.Load(ctx)
	if len(st.Events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(st.Events))
	}
	for _, ev := range st.Events {
		if ev.Name != "Trip" {
			t.Fatalf("event name = %q", ev.Name)
		}
	}
	if !strings.Contains(b.sender.lastTo(t, 1).text, "✅ Event created successfully!") {
		t.Fatalf("missing creation confirmation: %q", b.sender.lastTo(t, 1).text)
	}

	// Non-admin B is rejected, store unchanged
	b.dispatcher.Dispatch(ctx, privateCommand(2, "bob", "create_event", "Hack"))
	st, _ = b.store.Load(ctx)
	if len(st.Events) != 1 {
		t.Fatalf("rejected command mutated the store: %d events", len(st.Events))
	}
	if b.sender.lastTo(t, 2).text != replyAdminsOnly {
		t.Fatalf("expected admin rejection, got %q", b.sender.lastTo(t, 2).text)
	}
}

func TestCreateEventUsageHint(t *testing.T) {
	ctx := context.Background()
	b := newTestBot([]int64{1})

	b.dispatcher.Dispatch(ctx, privateCommand(1, "alice", "create_event", "   "))
	if got := b.sender.lastTo(t, 1).text; got != replyCreateEventUsage {
		t.Fatalf("expected usage hint, got %q", got)
	}

	st, _ := b.store.Load(ctx)
	if len(st.Events) != 0 {
		t.Fatal("usage error must not create an event")
	}
}

func TestEnterAmountFullFlow(t *testing.T) {
	ctx := context.Background()
	b := newTestBot([]int64{1})

	// Admin creates "Trip"
	b.dispatcher.Dispatch(ctx, privateCommand(1, "alice", "create_event", "Trip"))
	st, _ := b.store.Load(ctx)
	var eventID string
	for id := range st.Events {
		eventID = id
	}

	// User B starts the flow and gets the event buttons
	b.dispatcher.Dispatch(ctx, privateCommand(2, "bob", "enter_amount", ""))
	sel := b.sender.lastTo(t, 2)
	if sel.text != replySelectEvent || len(sel.buttons) != 1 {
		t.Fatalf("expected selection keyboard, got %+v", sel)
	}
	if sel.buttons[0].Data != callbackSelectPrefix+eventID {
		t.Fatalf("button payload = %q", sel.buttons[0].Data)
	}

	// B presses the button: message is edited, selection armed
	b.dispatcher.Dispatch(ctx, gateway.Update{
		Actor:             gateway.Actor{ID: 2, DisplayName: "bob"},
		Chat:              gateway.Chat{ID: 2, Kind: gateway.ChatPrivate},
		Callback:          callbackSelectPrefix + eventID,
		CallbackMessageID: 10,
	})
	if len(b.sender.edits) != 1 || b.sender.edits[0].text != replyAmountPrompt {
		t.Fatalf("expected amount prompt edit, got %+v", b.sender.edits)
	}

	// Unparsable amount: retry prompt, selection still armed
	b.dispatcher.Dispatch(ctx, privateText(2, "bob", "abc"))
	if got := b.sender.lastTo(t, 2).text; got != replyInvalidAmount {
		t.Fatalf("expected invalid amount prompt, got %q", got)
	}
	if _, armed := b.flow.Peek(2); !armed {
		t.Fatal("pending selection lost after invalid amount")
	}

	// Valid amount: recorded, cleared, confirmed, admin notified redacted
	b.dispatcher.Dispatch(ctx, privateText(2, "bob", "12.5"))
	st, _ = b.store.Load(ctx)
	if len(st.Entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(st.Entries))
	}
	for _, en := range st.Entries {
		if en.Amount.Cents != 1250 || en.EventID != eventID {
			t.Fatalf("entry: %+v", en)
		}
	}
	if _, armed := b.flow.Peek(2); armed {
		t.Fatal("pending selection must be cleared on success")
	}
	if got := b.sender.lastTo(t, 2).text; !strings.Contains(got, "✅ Successfully entered 12.50 € for event: Trip") {
		t.Fatalf("confirmation = %q", got)
	}
	admin := b.sender.lastTo(t, 1)
	if admin.text != "💰 New entry: 12.50 €" {
		t.Fatalf("admin notification = %q", admin.text)
	}
	if strings.Contains(admin.text, "bob") {
		t.Fatal("notification must not carry submitter identity")
	}
}

func TestEnterAmountNoEvents(t *testing.T) {
	ctx := context.Background()
	b := newTestBot(nil)

	b.dispatcher.Dispatch(ctx, privateCommand(2, "bob", "enter_amount", ""))
	if got := b.sender.lastTo(t, 2).text; got != replyNoEventsForEntry {
		t.Fatalf("expected no-events reply, got %q", got)
	}
}

func TestViewSums(t *testing.T) {
	ctx := context.Background()
	b := newTestBot([]int64{1})

	b.dispatcher.Dispatch(ctx, privateCommand(1, "alice", "create_event", "Trip"))
	st, _ := b.store.Load(ctx)
	var eventID string
	for id := range st.Events {
		eventID = id
	}

	for _, amount := range []string{"10.00", "5,25"} {
		b.flow.Arm(2, eventID)
		b.dispatcher.Dispatch(ctx, privateText(2, "bob", amount))
	}

	b.dispatcher.Dispatch(ctx, privateCommand(1, "alice", "view_sums", ""))
	got := b.sender.lastTo(t, 1).text
	if !strings.Contains(got, "📅 Trip") ||
		!strings.Contains(got, "Total: 15.25 €") ||
		!strings.Contains(got, "Entries: 2") {
		t.Fatalf("per-event sums wrong: %q", got)
	}
	if !strings.Contains(got, "💰 Overall Total: 15.25 €") {
		t.Fatalf("grand total wrong: %q", got)
	}
	if strings.Contains(got, "bob") {
		t.Fatal("view_sums must not expose submitter identities")
	}
}

func TestViewSumsNoEntries(t *testing.T) {
	ctx := context.Background()
	b := newTestBot([]int64{1})

	b.dispatcher.Dispatch(ctx, privateCommand(1, "alice", "view_sums", ""))
	if got := b.sender.lastTo(t, 1).text; got != replyNoEntriesYet {
		t.Fatalf("expected no-entries reply, got %q", got)
	}
}

func TestListEventsEmpty(t *testing.T) {
	ctx := context.Background()
	b := newTestBot(nil)

	b.dispatcher.Dispatch(ctx, privateCommand(2, "bob", "list_events", ""))
	if got := b.sender.lastTo(t, 2).text; got != replyNoEventsYet {
		t.Fatalf("expected no-events reply, got %q", got)
	}
}

func TestGroupMessagesWithoutMentionAreIgnored(t *testing.T) {
	ctx := context.Background()
	b := newTestBot([]int64{1})

	b.dispatcher.Dispatch(ctx, gateway.Update{
		Actor: gateway.Actor{ID: 2, DisplayName: "bob"},
		Chat:  gateway.Chat{ID: -100, Kind: gateway.ChatGroup},
		Text:  "who is paying for dinner?",
	})
	b.dispatcher.Dispatch(ctx, gateway.Update{
		Actor:   gateway.Actor{ID: 2, DisplayName: "bob"},
		Chat:    gateway.Chat{ID: -100, Kind: gateway.ChatGroup},
		Command: "view_sums",
		Text:    "/view_sums",
	})

	if len(b.sender.messages) != 0 {
		t.Fatalf("group interaction without mention must produce no reply, got %+v", b.sender.messages)
	}
}

func TestGroupMentionHelp(t *testing.T) {
	ctx := context.Background()
	b := newTestBot([]int64{1})

	mention := gateway.Update{
		Actor:    gateway.Actor{ID: 2, DisplayName: "bob"},
		Chat:     gateway.Chat{ID: -100, Kind: gateway.ChatGroup},
		Text:     "hey @whipbot",
		Mentions: []string{"whipbot"},
	}
	b.dispatcher.Dispatch(ctx, mention)

	got := b.sender.lastTo(t, -100).text
	if !strings.Contains(got, "👋 Hi! I'm the Whip Bestell Bot!") {
		t.Fatalf("expected help reply, got %q", got)
	}
	if strings.Contains(got, "/create_event") {
		t.Fatal("non-admin help must not list admin commands")
	}

	// Admin sees the admin commands
	adminMention := mention
	adminMention.Actor = gateway.Actor{ID: 1, DisplayName: "alice"}
	b.dispatcher.Dispatch(ctx, adminMention)
	if got := b.sender.lastTo(t, -100).text; !strings.Contains(got, "/view_sums") {
		t.Fatalf("admin help missing admin commands: %q", got)
	}
}

func TestGroupTextNeverTreatedAsAmount(t *testing.T) {
	ctx := context.Background()
	b := newTestBot([]int64{1})

	b.dispatcher.Dispatch(ctx, privateCommand(1, "alice", "create_event", "Trip"))
	st, _ := b.store.Load(ctx)
	var eventID string
	for id := range st.Events {
		eventID = id
	}

	b.flow.Arm(2, eventID)
	b.dispatcher.Dispatch(ctx, gateway.Update{
		Actor:    gateway.Actor{ID: 2, DisplayName: "bob"},
		Chat:     gateway.Chat{ID: -100, Kind: gateway.ChatGroup},
		Text:     "@whipbot 12.50",
		Mentions: []string{"whipbot"},
	})

	st, _ = b.store.Load(ctx)
	if len(st.Entries) != 0 {
		t.Fatal("group text must never be interpreted as an amount")
	}
	if _, armed := b.flow.Peek(2); !armed {
		t.Fatal("pending selection must survive group chatter")
	}
}

func TestStartWelcome(t *testing.T) {
	ctx := context.Background()
	b := newTestBot([]int64{1})

	b.dispatcher.Dispatch(ctx, privateCommand(1, "alice", "start", ""))
	if got := b.sender.lastTo(t, 1).text; !strings.Contains(got, "You are an admin.") {
		t.Fatalf("admin welcome wrong: %q", got)
	}

	b.dispatcher.Dispatch(ctx, privateCommand(2, "bob", "start", ""))
	got := b.sender.lastTo(t, 2).text
	if strings.Contains(got, "You are an admin.") || !strings.Contains(got, "/enter_amount") {
		t.Fatalf("user welcome wrong: %q", got)
	}
}

func TestNotifierFailureIsolation(t *testing.T) {
	ctx := context.Background()
	b := newTestBot([]int64{1, 3})

	b.dispatcher.Dispatch(ctx, privateCommand(1, "alice", "create_event", "Trip"))
	st, _ := b.store.Load(ctx)
	var eventID string
	for id := range st.Events {
		eventID = id
	}

	b.sender.failChats[1] = errors.New("blocked the bot")
	b.flow.Arm(2, eventID)
	b.dispatcher.Dispatch(ctx, privateText(2, "bob", "7"))

	// The entry is recorded and the reachable admin still gets notified
	st, _ = b.store.Load(ctx)
	if len(st.Entries) != 1 {
		t.Fatal("delivery failure must not roll back the entry")
	}
	if got := b.sender.lastTo(t, 3).text; got != "💰 New entry: 7.00 €" {
		t.Fatalf("second admin not notified: %q", got)
	}
}

func TestUnknownCommandIgnored(t *testing.T) {
	ctx := context.Background()
	b := newTestBot(nil)

	b.dispatcher.Dispatch(ctx, privateCommand(2, "bob", "dance", ""))
	if len(b.sender.messages) != 0 {
		t.Fatalf("unknown command must get no reply, got %+v", b.sender.messages)
	}
}
