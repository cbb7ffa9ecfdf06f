package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsFrames(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "laying out")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "laying out") {
		t.Errorf("output %q does not contain the message", out.String())
	}
}

func TestSpinnerStopsOnCancel(t *testing.T) {
	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &out, "waiting")
	s.Start()
	cancel()

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("spinner still running after cancel")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "idempotent")
	s.Start()
	s.Stop()
	s.Stop()
	s.StopWithSuccess("done")

	if !strings.Contains(out.String(), "done") {
		t.Errorf("output %q missing success line", out.String())
	}
}

func TestSpinReportsFailure(t *testing.T) {
	var out syncBuffer
	boom := errors.New("boom")
	if err := spin(context.Background(), &out, "rendering work", func() error { return boom }); err != boom {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out.String(), "rendering work failed") {
		t.Errorf("output %q missing failure line", out.String())
	}

	var quiet syncBuffer
	if err := spin(context.Background(), &quiet, "quiet", func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(quiet.String(), "failed") {
		t.Errorf("success printed a failure: %q", quiet.String())
	}
}
