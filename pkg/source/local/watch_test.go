package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRelevant(t *testing.T) {
	tests := map[string]bool{
		"/v/g/note.md":      true,
		"/v/g/.note.md.swp": false,
		"/v/g/note.md~":     false,
		"/v/g/x.swp":        false,
		"/v/g/.DS_Store":    false,
	}
	for name, want := range tests {
		if got := relevant(name); got != want {
			t.Errorf("relevant(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestWatcherDebounces(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(root, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(paths []string) { changes <- paths })
	}()

	path := filepath.Join(root, "a.md")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("# A\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case paths := <-changes:
		if len(paths) != 1 || paths[0] != path {
			t.Errorf("paths = %v, want [%s]", paths, path)
		}
	case <-ctx.Done():
		t.Fatal("no change reported")
	}

	cancel()
	<-done
}
