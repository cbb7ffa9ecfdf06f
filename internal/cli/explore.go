package cli

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Errze/note-bad-ideas/pkg/config"
	"github.com/Errze/note-bad-ideas/pkg/pipeline"
	"github.com/Errze/note-bad-ideas/pkg/source/local"
	"github.com/Errze/note-bad-ideas/pkg/viewport"
)

// exploreCommand opens the interactive terminal viewer.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		opts  layoutOpts
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "explore <group>",
		Short: "Browse a group's graph in the terminal",
		Long: `Browse a group's graph in the terminal.

Drag empty space to pan, use the wheel or +/- to zoom, click a note to select
it and press o (or enter) over a note to open it. a cycles the layout
algorithm; with a local source, edits to notes show up as they are saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0], &opts, watch)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&watch, "watch", true, "reload when local note files change")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, group string, lo *layoutOpts, watch bool) error {
	cfg := c.config()
	opts := lo.apply(c)

	src, err := c.openSource(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(src, c.Logger, "source")

	res, err := c.loadGroup(ctx, src, group)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, lo.noCache)
	if err != nil {
		return err
	}
	defer closeQuietly(runner, c.Logger, "cache")

	// The alternate screen owns the terminal while the program runs.
	quiet := log.New(io.Discard)
	runner.Logger = quiet
	opts.Logger = quiet

	m := newExploreModel(ctx, group)
	ws, err := pipeline.NewWorkspace(runner, opts, viewport.New(cfg.Viewport, m.onOpen))
	if err != nil {
		return err
	}
	m.attach(ws)
	if _, err := ws.Rebuild(ctx, res.Documents); err != nil {
		return err
	}
	m.setDocs(res.Documents)

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseAllMotion())

	if watch && cfg.Source.Kind == config.SourceLocal {
		w, err := local.NewWatcher(cfg.Source.Root, 0, quiet)
		if err != nil {
			c.Logger.Warn("file watching disabled", "err", err)
		} else {
			defer closeQuietly(w, c.Logger, "watcher")
			go func() {
				_ = w.Run(ctx, func([]string) {
					res, err := pipeline.Load(ctx, src, group)
					if err != nil {
						p.Send(errMsg{err})
						return
					}
					p.Send(docsMsg(res.Documents))
				})
			}()
		}
	}

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	if m.opened != "" {
		printInfo(c.Out, "Last opened: %s", m.opened)
	}
	return nil
}
