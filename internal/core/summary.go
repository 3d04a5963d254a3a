package core

import "sort"

// UnknownEventName labels totals for entries whose event no longer resolves.
// Such entries are aggregated, never dropped.
const UnknownEventName = "Unknown Event"

// EventTotal is the aggregate of all entries attached to one event id.
type EventTotal struct {
	EventID string
	Name    string
	Total   Money
	Count   int
}

// TotalsByEvent aggregates entries per event id. Known events appear in
// creation order, including events without entries; entries referencing an
// unknown event id are grouped under that id with the UnknownEventName label
// and appended after the known events, ordered by id.
func TotalsByEvent(s State) []EventTotal {
	totals := make(map[string]*EventTotal, len(s.Events))
	for id, ev := range s.Events {
		totals[id] = &EventTotal{EventID: id, Name: ev.Name}
	}

	var unknownIDs []string
	for _, en := range s.Entries {
		t, ok := totals[en.EventID]
		if !ok {
			t = &EventTotal{EventID: en.EventID, Name: UnknownEventName}
			totals[en.EventID] = t
			unknownIDs = append(unknownIDs, en.EventID)
		}
		t.Total = t.Total.Add(en.Amount)
		t.Count++
	}

	sort.Strings(unknownIDs)

	out := make([]EventTotal, 0, len(totals))
	for _, ev := range s.EventsByCreation() {
		out = append(out, *totals[ev.ID])
	}
	for _, id := range unknownIDs {
		out = append(out, *totals[id])
	}
	return out
}

// GrandTotal sums the per-event totals. Grouping order does not matter.
func GrandTotal(totals []EventTotal) Money {
	var sum Money
	for _, t := range totals {
		sum = sum.Add(t.Total)
	}
	return sum
}
