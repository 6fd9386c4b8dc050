package core

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"roadmapcore/internal/blob"
)

// ExportContentType is attached to exported roadmap objects.
const ExportContentType = "application/json"

// ExportKey is the blob key a document is exported under by default.
func ExportKey(doc Document) string {
	return fmt.Sprintf("exports/roadmap-%d.json", doc.Meta.Year)
}

// ExportTo writes the serialized document to blobs under key, or under
// ExportKey when key is empty.
func (s *Store) ExportTo(ctx context.Context, blobs blob.Store, key string) (info blob.Info, err error) {
	ctx, span := s.tracer.Start(ctx, "export")
	defer func() { span.End(err) }()

	doc := s.Document()
	if key == "" {
		key = ExportKey(doc)
	}
	payload, err := s.Export()
	if err != nil {
		return blob.Info{}, fmt.Errorf("serialize roadmap: %w", err)
	}
	info, err = blobs.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: ExportContentType,
		Metadata: map[string]string{
			"product": doc.Meta.ProductName,
			"year":    fmt.Sprint(doc.Meta.Year),
		},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("export roadmap to %s: %w", key, err)
	}
	s.logger.Info("roadmap exported", "key", key, "driver", blobs.Driver(), "bytes", info.Size)
	return info, nil
}

// ImportFrom reads key from blobs and applies it like Import.
func (s *Store) ImportFrom(ctx context.Context, blobs blob.Store, key string) (Result, error) {
	_, rc, err := blobs.Get(ctx, key)
	if err != nil {
		return Result{}, fmt.Errorf("import roadmap from %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", key, err)
	}
	return s.Import(ctx, data)
}
