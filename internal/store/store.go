// Package store defines the persistence port for the bot's application
// state. The contract is whole-document: Load returns the complete state
// (or an empty default when nothing has been written yet) and Save rewrites
// it in full. There are no partial updates.
package store

import (
	"context"

	"whipbot/internal/core"
)

type Store interface {
	Load(ctx context.Context) (core.State, error)
	Save(ctx context.Context, st core.State) error
}
