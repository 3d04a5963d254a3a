package sheets

import "context"

// ExportRow is one recorded entry flattened for the admin export sheet.
type ExportRow struct {
	EntryID   string
	EventName string
	Username  string
	Euros     float64
	Timestamp string
}

// Ports for outbound export adapters.
type (
	EntryWriter interface {
		Append(ctx context.Context, row ExportRow) (rowRef string, err error)
	}

	// ExportReader lists the entry ids already present on the export sheet
	// so the worker can skip rows it has written before.
	ExportReader interface {
		ListEntryIDs(ctx context.Context) (map[string]struct{}, error)
	}
)
