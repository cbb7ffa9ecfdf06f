package cli

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Errze/note-bad-ideas/internal/server"
	"github.com/Errze/note-bad-ideas/pkg/config"
	"github.com/Errze/note-bad-ideas/pkg/observability"
	"github.com/Errze/note-bad-ideas/pkg/observability/prom"
	"github.com/Errze/note-bad-ideas/pkg/source/local"
)

type serveOpts struct {
	addr    string
	watch   bool
	noCache bool
	metrics bool
}

// serveCommand runs the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{watch: true, metrics: true}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve graphs, renders and viewport sessions over HTTP",
		Long: `Serve the configured source over HTTP.

  GET    /api/groups
  GET    /api/groups/{group}/graph
  GET    /api/groups/{group}/layout?algorithm=&width=&height=
  GET    /api/groups/{group}/render.{svg|png|dot|json}
  POST   /api/sessions
  GET    /api/sessions/{id}
  DELETE /api/sessions/{id}
  POST   /api/sessions/{id}/events
  POST   /api/sessions/{id}/center
  GET    /metrics
  GET    /healthz

With a local source, edits to note files are picked up without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.watch, "watch", opts.watch, "rebuild when local note files change")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout and render cache")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", opts.metrics, "expose Prometheus metrics at /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg := c.config()

	src, err := c.openSource(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(src, c.Logger, "source")

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer closeQuietly(runner, c.Logger, "cache")

	sessions, err := c.openSessions(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(sessions, c.Logger, "session store")

	srvOpts := []server.Option{server.WithLogger(c.Logger)}
	if opts.metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m := prom.New(reg)
		observability.SetPipelineHooks(m)
		observability.SetCacheHooks(m)
		observability.SetServerHooks(m)
		defer observability.Reset()
		srvOpts = append(srvOpts, server.WithMetrics(m.Handler()))
	}

	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	srv := server.New(server.Config{
		Addr:           addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SessionTTL:     cfg.Server.SessionTTL,
		Layout:         c.pipelineOptions(),
		Viewport:       cfg.Viewport,
	}, src, runner, sessions, srvOpts...)

	if opts.watch && cfg.Source.Kind == config.SourceLocal {
		w, err := local.NewWatcher(cfg.Source.Root, 0, c.Logger)
		if err != nil {
			c.Logger.Warn("file watching disabled", "root", cfg.Source.Root, "err", err)
		} else {
			defer closeQuietly(w, c.Logger, "watcher")
			go func() {
				err := w.Run(ctx, func(paths []string) {
					c.Logger.Info("notes changed", "files", len(paths))
					srv.Invalidate()
				})
				if err != nil && !errors.Is(err, context.Canceled) {
					c.Logger.Error("watcher stopped", "err", err)
				}
			}()
		}
	}

	printInfo(c.Out, "Serving %s on %s", cfg.Source.Kind, addr)
	return srv.ListenAndServe(ctx)
}
