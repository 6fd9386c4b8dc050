// Package blobslot stores the roadmap slot as a JSON object in a blob store,
// so the document can live on local disk or in an S3 bucket.
package blobslot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"roadmapcore/internal/blob"
	"roadmapcore/pkg/domain"
)

var _ domain.SlotStore = (*Store)(nil)

// Prefix is prepended to every slot object key.
const Prefix = "slots/"

// Store adapts a blob.Store to the slot contract.
type Store struct {
	blobs blob.Store
}

// New wraps blobs.
func New(blobs blob.Store) *Store {
	return &Store{blobs: blobs}
}

// ObjectKey is the blob key a slot key is stored under.
func ObjectKey(key string) string {
	return path.Join(Prefix, key+".json")
}

// Load reads the slot object; a missing object yields domain.ErrSlotEmpty.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	_, rc, err := s.blobs.Get(ctx, ObjectKey(key))
	if errors.Is(err, blob.ErrNotFound) {
		return nil, domain.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", key, err)
	}
	return data, nil
}

// Save replaces the slot object.
func (s *Store) Save(ctx context.Context, key string, payload []byte) error {
	_, err := s.blobs.Put(ctx, ObjectKey(key), bytes.NewReader(payload), blob.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"slot": key},
	})
	if err != nil {
		return fmt.Errorf("put slot %s: %w", key, err)
	}
	return nil
}

// Driver reports the underlying blob driver, e.g. "file+s3".
func (s *Store) Driver() string { return "file+" + string(s.blobs.Driver()) }
