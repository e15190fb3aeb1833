package nativefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenCreateWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a")
	ctx := context.Background()

	w, err := NewOpenOptions().Write(true).Create(true).Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := w.Write(ctx, []byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	r, err := NewOpenOptions().Read(true).Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	buf := make([]byte, 5)
	n, err := r.Read(ctx, buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got, want := string(buf[:n]), "hello"; got != want {
		t.Fatalf("Read = %q, want %q", got, want)
	}
}

func TestCreateNewOnExistingPathFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a")
	ctx := context.Background()

	if _, err := NewOpenOptions().Write(true).Create(true).Open(ctx, path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := NewOpenOptions().Write(true).CreateNew(true).Open(ctx, path); !os.IsExist(err) {
		t.Fatalf("err = %v, want IsExist", err)
	}
}

func TestSeekFromEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a")
	ctx := context.Background()

	f, err := NewOpenOptions().Write(true).Read(true).Create(true).Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := f.Write(ctx, []byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.StartSeek(SeekFromEnd(-2)); err != nil {
		t.Fatalf("StartSeek: %v", err)
	}
	pos, err := f.PollComplete(ctx)
	if err != nil {
		t.Fatalf("PollComplete: %v", err)
	}
	if pos != 3 {
		t.Fatalf("pos = %d, want 3", pos)
	}
}
