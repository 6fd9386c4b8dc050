package domain

import (
	"context"
	"errors"
)

// ErrSlotEmpty is returned by SlotStore.Load when nothing has been saved
// under the key yet.
var ErrSlotEmpty = errors.New("storage slot is empty")

// SlotStore is the durable key-value capability the state store depends on.
// A single key holds the latest serialized document; Save overwrites it.
type SlotStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
	Driver() string
}
