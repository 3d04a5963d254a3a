package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldActorID     = "actor_id"
	FieldChatID      = "chat_id"
	FieldCommand     = "command"
	FieldEventID     = "event_id"
	FieldEventName   = "event_name"
	FieldEntryID     = "entry_id"
	FieldAmountCents = "amount_cents"
	FieldError       = "error"
	FieldBackend     = "backend"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentBot     = "bot"
	ComponentStore   = "store"
	ComponentGateway = "gateway"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
)
