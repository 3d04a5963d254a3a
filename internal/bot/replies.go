package bot

import (
	"fmt"
	"strings"
	"time"

	"whipbot/internal/core"
)

// Reply wording kept compatible with the bot's previous incarnation.
const (
	replyNoEventsYet       = "No events available yet."
	replyNoEventsForEntry  = "No events available yet. Please ask an admin to create one."
	replyNoEventsCreated   = "No events created yet."
	replyNoEntriesYet      = "No entries yet."
	replySelectEvent       = "Select an event to enter your amount:"
	replyAmountPrompt      = "Please enter the amount you spent (e.g., 15.50 or 20):"
	replyInvalidAmount     = "❌ Invalid amount. Please enter a valid number (e.g., 15.50 or 20)."
	replyAdminsOnly        = "❌ This command is only available for admins."
	replyCreateEventUsage  = "Usage: /create_event <event_name>\nExample: /create_event New Year Party"
	replySomethingWrong    = "Something went wrong, please try again."
	replyPrivateAmountHint = "\n💡 Tip: For entering amounts, please message me privately for security."
)

func welcomeText(isAdmin bool) string {
	var b strings.Builder
	b.WriteString("Welcome to Whip Bestell Bot! 🎉\n\n")
	if isAdmin {
		b.WriteString("You are an admin. You can:\n")
		b.WriteString("/events - Manage events\n")
		b.WriteString("/view_sums - View only sums (no personal details)\n")
	} else {
		b.WriteString("You can:\n")
		b.WriteString("/list_events - View available events\n")
		b.WriteString("/enter_amount - Enter your money spent\n")
	}
	return b.String()
}

func eventListText(events []core.Event) string {
	var b strings.Builder
	b.WriteString("📅 Available Events:\n\n")
	for _, ev := range events {
		fmt.Fprintf(&b, "• %s\n", ev.Name)
		fmt.Fprintf(&b, "  ID: %s\n", ev.ID)
		fmt.Fprintf(&b, "  Created: %s\n\n", ev.CreatedAt.Format(time.RFC3339))
	}
	return b.String()
}

func eventCreatedText(ev core.Event) string {
	return fmt.Sprintf("✅ Event created successfully!\nName: %s\nID: %s", ev.Name, ev.ID)
}

func entryRecordedText(amount core.Money, eventName string) string {
	return fmt.Sprintf("✅ Successfully entered %s € for event: %s", amount, eventName)
}

func eventOverviewText(events []core.Event, totals map[string]core.EventTotal) string {
	var b strings.Builder
	b.WriteString("📅 All Events:\n\n")
	for _, ev := range events {
		t := totals[ev.ID]
		fmt.Fprintf(&b, "• %s\n", ev.Name)
		fmt.Fprintf(&b, "  ID: %s\n", ev.ID)
		fmt.Fprintf(&b, "  Total entries: %d\n", t.Count)
		fmt.Fprintf(&b, "  Total sum: %s €\n", t.Total)
		fmt.Fprintf(&b, "  Created: %s\n\n", ev.CreatedAt.Format(time.RFC3339))
	}
	return b.String()
}

func sumsText(totals []core.EventTotal, grand core.Money) string {
	var b strings.Builder
	b.WriteString("💰 Sums by Event (No Personal Details):\n\n")
	for _, t := range totals {
		if t.Count == 0 {
			continue
		}
		fmt.Fprintf(&b, "📅 %s\n", t.Name)
		fmt.Fprintf(&b, "   Total: %s €\n", t.Total)
		fmt.Fprintf(&b, "   Entries: %d\n\n", t.Count)
	}
	fmt.Fprintf(&b, "💰 Overall Total: %s €", grand)
	return b.String()
}

func mentionHelpText(isAdmin bool) string {
	var b strings.Builder
	b.WriteString("👋 Hi! I'm the Whip Bestell Bot!\n\n")
	b.WriteString("You can use commands like:\n")
	b.WriteString("• /list_events - View available events\n")
	b.WriteString("• /enter_amount - Enter your money spent\n")
	if isAdmin {
		b.WriteString("• /create_event <name> - Create a new event (admin)\n")
		b.WriteString("• /events - View all events (admin)\n")
		b.WriteString("• /view_sums - View sums (admin)\n")
	}
	b.WriteString(replyPrivateAmountHint)
	return b.String()
}
