package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Errze/note-bad-ideas/pkg/layout"
	"github.com/Errze/note-bad-ideas/pkg/viewport"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestNew(t *testing.T) {
	s := New("g1", layout.AlgorithmTree, layout.DefaultCanvas, time.Hour)
	if err := ValidateID(s.ID); err != nil {
		t.Errorf("ID %q: %v", s.ID, err)
	}
	if s.Viewport.Zoom != 1 {
		t.Errorf("Zoom = %v, want 1", s.Viewport.Zoom)
	}
	if s.IsExpired() {
		t.Error("fresh session expired")
	}
	if New("g1", layout.AlgorithmTree, layout.DefaultCanvas, time.Hour).ID == s.ID {
		t.Error("IDs should be unique")
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		id string
		ok bool
	}{
		{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"", false},
		{"../etc/passwd", false},
		{"6BA7B810-9DAD-11D1-80B4-00C04FD430C8", false},
		{"{6ba7b810-9dad-11d1-80b4-00c04fd430c8}", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if err := ValidateID(tt.id); (err == nil) != tt.ok {
				t.Errorf("ValidateID(%q) = %v", tt.id, err)
			}
		})
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			s := New("g1", layout.AlgorithmRadial, layout.Canvas{Width: 800, Height: 400}, time.Hour)
			s.Viewport = viewport.State{Zoom: 1.5, Pan: viewport.Point{X: 3, Y: -4}, SelectedID: "a", Drag: &viewport.Point{X: 1, Y: 2}}
			if err := store.Set(ctx, s); err != nil {
				t.Fatal(err)
			}

			got, err := store.Get(ctx, s.ID)
			if err != nil {
				t.Fatal(err)
			}
			if got.Group != "g1" || got.Algorithm != layout.AlgorithmRadial || got.Canvas.Width != 800 {
				t.Errorf("got %+v", got)
			}
			if got.Viewport.Zoom != 1.5 || got.Viewport.SelectedID != "a" || got.Viewport.Drag == nil || *got.Viewport.Drag != (viewport.Point{X: 1, Y: 2}) {
				t.Errorf("viewport = %+v", got.Viewport)
			}

			got.Viewport.Drag.X = 99
			again, _ := store.Get(ctx, s.ID)
			if again.Viewport.Drag.X != 1 {
				t.Error("stored session shares the drag anchor with callers")
			}

			if err := store.Delete(ctx, s.ID); err != nil {
				t.Fatal(err)
			}
			if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Delete = %v, want ErrNotFound", err)
			}
			if err := store.Delete(ctx, s.ID); err != nil {
				t.Errorf("second Delete: %v", err)
			}
		})
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s := New("g1", layout.AlgorithmForce, layout.DefaultCanvas, time.Hour)
			s.ExpiresAt = time.Now().Add(-time.Minute)
			if err := store.Set(ctx, s); err != nil {
				t.Fatal(err)
			}
			if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("expired Get = %v, want ErrNotFound", err)
			}
			if err := store.Cleanup(ctx); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestStoreRejectsBadID(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s := &Session{ID: "../escape", ExpiresAt: time.Now().Add(time.Hour)}
			if err := store.Set(ctx, s); !errors.Is(err, ErrInvalidID) {
				t.Errorf("Set = %v, want ErrInvalidID", err)
			}
			if _, err := store.Get(ctx, "../escape"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	live := New("g", layout.AlgorithmForce, layout.DefaultCanvas, time.Hour)
	dead := New("g", layout.AlgorithmForce, layout.DefaultCanvas, time.Hour)
	dead.ExpiresAt = time.Now().Add(-time.Second)
	store.Set(ctx, live)
	store.Set(ctx, dead)

	if err := store.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}

func TestFileStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dead := New("g", layout.AlgorithmForce, layout.DefaultCanvas, time.Hour)
	dead.ExpiresAt = time.Now().Add(-time.Second)
	if err := store.Set(ctx, dead); err != nil {
		t.Fatal(err)
	}
	if err := store.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(store.pathFor(dead.ID)); !os.IsNotExist(err) {
		t.Error("expired session file not removed")
	}
}

func TestFileStoreSkipsCorruptFiles(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	live := New("g", layout.AlgorithmTree, layout.DefaultCanvas, time.Hour)
	if err := store.Set(ctx, live); err != nil {
		t.Fatal(err)
	}
	broken := New("g", layout.AlgorithmTree, layout.DefaultCanvas, time.Hour)
	if err := os.WriteFile(store.pathFor(broken.ID), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Get(ctx, broken.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(corrupt) err = %v, want ErrNotFound", err)
	}
	if err := store.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(store.pathFor(broken.ID)); !os.IsNotExist(err) {
		t.Error("corrupt session file kept")
	}
	if _, err := store.Get(ctx, live.ID); err != nil {
		t.Errorf("live session: %v", err)
	}
}
