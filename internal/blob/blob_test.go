package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"roadmapcore/internal/config"
)

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		cfg  config.Blob
		want Driver
	}{
		{config.Blob{Driver: "fs", FSRoot: t.TempDir()}, DriverFilesystem},
		{config.Blob{FSRoot: t.TempDir()}, DriverFilesystem},
		{config.Blob{Driver: "memory"}, DriverMemory},
		{config.Blob{Driver: "s3", S3: config.S3{Bucket: "exports", Region: "eu-west-1"}}, DriverS3},
	}
	for _, tc := range cases {
		store, err := Open(ctx, tc.cfg)
		if err != nil {
			t.Fatalf("open %+v: %v", tc.cfg, err)
		}
		if store.Driver() != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, store.Driver())
		}
	}
	if _, err := Open(ctx, config.Blob{Driver: "gcs"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
	if _, err := Open(ctx, config.Blob{Driver: "s3"}); err == nil {
		t.Fatalf("expected missing bucket error")
	}
}

func TestBackendsShareNotFoundSentinel(t *testing.T) {
	ctx := context.Background()
	fsStore, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("fs: %v", err)
	}
	for _, store := range []Store{NewMemory(), fsStore, NewMockS3ForTests()} {
		if _, _, err := store.Get(ctx, "absent.json"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", store.Driver(), err)
		}
		if _, err := store.Put(ctx, "present.json", strings.NewReader("{}"), PutOptions{ContentType: "application/json"}); err != nil {
			t.Fatalf("%s: put: %v", store.Driver(), err)
		}
		_, rc, err := store.Get(ctx, "present.json")
		if err != nil {
			t.Fatalf("%s: get: %v", store.Driver(), err)
		}
		body, _ := io.ReadAll(rc)
		_ = rc.Close()
		if string(body) != "{}" {
			t.Fatalf("%s: unexpected body %q", store.Driver(), body)
		}
	}
}
