package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	for _, level := range []log.Level{log.DebugLevel, log.InfoLevel, log.WarnLevel} {
		t.Run(level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, level)
			l.Debug("dbg")
			l.Info("inf")
			l.Warn("wrn")

			out := buf.String()
			for msg, lv := range map[string]log.Level{"dbg": log.DebugLevel, "inf": log.InfoLevel, "wrn": log.WarnLevel} {
				if got, want := strings.Contains(out, msg), lv >= level; got != want {
					t.Errorf("%s logged = %v, want %v\n%s", msg, got, want, out)
				}
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.done("laid out", "notes", 3)

	out := buf.String()
	for _, want := range []string{"laid out", "notes=3", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestProgressQuietBelowInfo(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.WarnLevel)).done("laid out")
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}
}
