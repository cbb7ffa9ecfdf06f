package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const (
	spinnerFrames = "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏"
	spinnerTick   = 80 * time.Millisecond
)

// spinner animates one status line on w until stopped or until its context
// ends.
type spinner struct {
	w      io.Writer
	msg    string
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	stop   sync.Once

	mu sync.Mutex // guards writes to w
}

func newSpinner(ctx context.Context, w io.Writer, msg string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &spinner{w: w, msg: msg, ctx: ctx, cancel: cancel, done: make(chan struct{})}
}

// spin runs fn behind a spinner and reports a failure on the status line.
func spin(ctx context.Context, w io.Writer, msg string, fn func() error) error {
	s := newSpinner(ctx, w, msg)
	s.Start()
	if err := fn(); err != nil {
		s.StopWithError(msg + " failed")
		return err
	}
	s.Stop()
	return nil
}

func (s *spinner) Start() {
	frames := []rune(spinnerFrames)
	go func() {
		defer close(s.done)
		t := time.NewTicker(spinnerTick)
		defer t.Stop()
		for n := 0; ; n++ {
			select {
			case <-s.ctx.Done():
				s.write("\r" + strings.Repeat(" ", len(s.msg)+4) + "\r")
				return
			case <-t.C:
				frame := styleIconSpinner.Render(string(frames[n%len(frames)]))
				s.write(fmt.Sprintf("\r%s %s", frame, StyleDim.Render(s.msg)))
			}
		}
	}()
}

func (s *spinner) write(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	io.WriteString(s.w, text)
}

// Stop clears the line. Calling it again is a no-op.
func (s *spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		<-s.done
	})
}

func (s *spinner) StopWithSuccess(msg string) {
	s.Stop()
	printSuccess(s.w, "%s", msg)
}

func (s *spinner) StopWithError(msg string) {
	s.Stop()
	printError(s.w, "%s", msg)
}
