package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"roadmapcore/internal/blob/core"
)

func TestMockStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMockForTests()
	if s.Driver() != core.DriverS3 {
		t.Fatalf("unexpected driver")
	}
	info, err := s.Put(ctx, "exports/roadmap-2026.json", strings.NewReader(`{"a":1}`), core.PutOptions{ContentType: "application/json", Metadata: map[string]string{"source": "test"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 7 || info.ContentType != "application/json" || info.ETag != "etag123" {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.Metadata["source"] != "test" {
		t.Fatalf("metadata lost: %+v", info.Metadata)
	}
	if _, err := s.Put(ctx, "exports/roadmap-2026.json", strings.NewReader(`{"a":2}`), core.PutOptions{ContentType: "application/json"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	_, rc, err := s.Get(ctx, "exports/roadmap-2026.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != `{"a":2}` {
		t.Fatalf("unexpected body %q", body)
	}
	list, err := s.List(ctx, "exports/")
	if err != nil || len(list) != 1 || list[0].Key != "exports/roadmap-2026.json" {
		t.Fatalf("list: %+v %v", list, err)
	}
	if ok, err := s.Delete(ctx, "exports/roadmap-2026.json"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := s.Delete(ctx, "exports/roadmap-2026.json"); err != nil || ok {
		t.Fatalf("second delete: %v %v", ok, err)
	}
}

func TestMockStoreNotFound(t *testing.T) {
	s := NewMockForTests()
	if _, _, err := s.Get(context.Background(), "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Head(context.Background(), "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
}

func TestNewWithStaticCredentials(t *testing.T) {
	s, err := New(context.Background(), Config{Bucket: "b", Endpoint: "http://localhost:9000", PathStyle: true, AccessKeyID: "id", SecretAccessKey: "secret"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.bucket != "b" {
		t.Fatalf("unexpected bucket %s", s.bucket)
	}
}

func TestDecodeChunked(t *testing.T) {
	dec, ok := decodeChunked([]byte("3\r\nabc\r\n0\r\nx-amz-checksum-crc32:AAAA\r\n\r\n"))
	if !ok || string(dec) != "abc" {
		t.Fatalf("unexpected decode %v %q", ok, dec)
	}
	if _, ok := decodeChunked([]byte(`{"plain":true}`)); ok {
		t.Fatalf("plain body must not decode")
	}
	if _, ok := decodeChunked([]byte("5\r\nabc\r\n0\r\n")); ok {
		t.Fatalf("short chunk must not decode")
	}
}
