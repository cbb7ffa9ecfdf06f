package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Errze/note-bad-ideas/pkg/errors"
	"github.com/Errze/note-bad-ideas/pkg/layout"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.LayoutParams() != layout.DefaultParams() {
		t.Error("layout params differ from package defaults")
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	in := `
[canvas]
width = 1600

[force]
iterations = 200
seed = 7

[viewport]
max_zoom = 4.0

[cache]
kind = "redis"
redis_url = "redis://localhost:6379/0"
ttl = "30m"
`
	cfg, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Canvas.Width != 1600 || cfg.Canvas.Height != 600 {
		t.Errorf("canvas = %+v", cfg.Canvas)
	}
	if cfg.Force.Iterations != 200 || cfg.Force.Seed != 7 || cfg.Force.Damping != 0.86 {
		t.Errorf("force = %+v", cfg.Force)
	}
	if cfg.Viewport.MaxZoom != 4 || cfg.Viewport.MinZoom != 0.1 {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.Cache.Kind != BackendRedis || cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":      "[force]\niteration = 3\n",
		"bad damping":      "[force]\ndamping = 1.5\n",
		"zero canvas":      "[canvas]\nwidth = 0\n",
		"zoom range":       "[viewport]\nmin_zoom = 2.0\nmax_zoom = 1.0\n",
		"redis needs url":  "[cache]\nkind = \"redis\"\n",
		"mongo needs uri":  "[source]\nkind = \"mongo\"\n",
		"unknown backend":  "[server]\nsession_store = \"etcd\"\n",
		"syntax":           "[force\n",
		"top above margin": "[tree]\nmargin = 200\ntop = 100\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(in))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9999\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("explicit missing file should fail")
	}
}

func TestLoadSearchesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil || cfg.Canvas != layout.DefaultCanvas {
		t.Fatalf("no file: cfg=%v err=%v", cfg, err)
	}

	if err := os.MkdirAll(filepath.Join(dir, AppName), 0o755); err != nil {
		t.Fatal(err)
	}
	data := []byte("[canvas]\nheight = 900\n")
	if err := os.WriteFile(filepath.Join(dir, AppName, FileName), data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Canvas.Height != 900 {
		t.Errorf("height = %v, want 900", cfg.Canvas.Height)
	}

	p, _ := Path()
	if p != filepath.Join(dir, AppName, FileName) {
		t.Errorf("Path() = %q", p)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	dir, err := CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/custom-cache", AppName) {
		t.Errorf("CacheDir() = %q", dir)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Force.Iterations = 99
	if err := cfg.Write(&buf); err != nil {
		t.Fatal(err)
	}
	back, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse(Write()): %v\n%s", err, buf.String())
	}
	if back.Force.Iterations != 99 {
		t.Errorf("iterations = %d", back.Force.Iterations)
	}
}
