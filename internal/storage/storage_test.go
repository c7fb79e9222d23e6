package storage

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// exerciseStore runs the shared KeyValueStore contract against s.
func exerciseStore(t *testing.T, s KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "user"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrObjectNotFound", err)
	}
	if err := s.Remove(ctx, "user"); err != nil {
		t.Fatalf("Remove(missing) = %v", err)
	}

	if err := s.Set(ctx, "user", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Set() = %v", err)
	}
	if err := s.Set(ctx, "user", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Set() overwrite = %v", err)
	}
	got, err := s.Get(ctx, "user")
	if err != nil || !bytes.Equal(got, []byte(`{"v":2}`)) {
		t.Fatalf("Get() = %s, %v", got, err)
	}

	// callers may keep and modify what they read
	got[0] = 'X'
	if again, _ := s.Get(ctx, "user"); again[0] != '{' {
		t.Error("Get() returned the store's own buffer")
	}

	if err := s.Remove(ctx, "user"); err != nil {
		t.Fatalf("Remove() = %v", err)
	}
	if _, err := s.Get(ctx, "user"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Get() after Remove error = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	s, err := OpenBoltStore(path)
	if err != nil {
		t.Fatalf("OpenBoltStore() = %v", err)
	}
	exerciseStore(t, s)

	if err := s.Set(context.Background(), "user", []byte("kept")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenBoltStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(context.Background(), "user")
	if err != nil || string(got) != "kept" {
		t.Errorf("value after reopen = %q, %v", got, err)
	}
}

func TestS3ObjectKey(t *testing.T) {
	tests := []struct {
		prefix, key, want string
	}{
		{"sessions", "user", "sessions/user"},
		{"sessions/", "user", "sessions/user"},
		{"", "user", "user"},
	}
	for _, tt := range tests {
		s := &s3Store{prefix: tt.prefix}
		if got := s.objectKey(tt.key); got != tt.want {
			t.Errorf("objectKey(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
		}
	}
}
