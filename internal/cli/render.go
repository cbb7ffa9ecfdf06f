package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Errze/note-bad-ideas/pkg/errors"
	"github.com/Errze/note-bad-ideas/pkg/pipeline"
	"github.com/Errze/note-bad-ideas/pkg/render"
)

type renderOpts struct {
	layoutOpts
	output  string
	formats []string
	labels  bool
}

// renderCommand writes laid-out graphs as images or data files.
func (c *CLI) renderCommand() *cobra.Command {
	var formats string
	opts := renderOpts{labels: true}

	cmd := &cobra.Command{
		Use:   "render <group>",
		Short: "Render a group's graph to SVG, PNG, DOT or JSON",
		Long: `Render a group's graph.

  svg   Graphviz drawing with pinned node positions (default)
  png   the same drawing as a raster image
  dot   the Graphviz source, for further processing
  json  the scene: nodes with label, colour, size and position, plus edges`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formats)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (default: <group>)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "draw labels next to nodes")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, f := range render.Formats() {
			names = append(names, string(f))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := render.ParseFormat(f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "--format")
		}
	}
	return nil
}

func (c *CLI) runRender(cmd *cobra.Command, group string, ro *renderOpts) error {
	ctx := cmd.Context()
	opts := ro.apply(c)
	opts.Formats = ro.formats
	opts.Labels = ro.labels
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	src, err := c.openSource(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(src, c.Logger, "source")

	res, err := c.loadGroup(ctx, src, group)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return err
	}
	defer closeQuietly(runner, c.Logger, "cache")

	var result *pipeline.Result
	if err := spin(ctx, cmd.ErrOrStderr(), "Rendering "+group, func() (err error) {
		result, err = runner.Execute(ctx, res.Documents, opts)
		return err
	}); err != nil {
		return err
	}
	c.Logger.Debug("render timings",
		"build", result.Stats.BuildTime, "layout", result.Stats.LayoutTime, "render", result.Stats.RenderTime)

	base := ro.output
	if base == "" {
		base = group
	}
	paths := outputPaths(base, opts.Formats)

	printSuccess(c.Out, "Rendered %s", group)
	printStats(c.Out, result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.Unresolved,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	for _, f := range opts.Formats {
		if err := c.writeOutput(paths[f], result.Artifacts[f]); err != nil {
			return fmt.Errorf("write %s: %w", f, err)
		}
		printFile(c.Out, paths[f])
	}
	return nil
}

// outputPaths maps each format to its file. A single format whose extension
// base already carries, or "-", uses base as is; otherwise the format's
// extension replaces a format extension on base or is appended.
func outputPaths(base string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	ext := filepath.Ext(base)
	if len(formats) == 1 && (base == "-" || strings.EqualFold(strings.TrimPrefix(ext, "."), formats[0])) {
		paths[formats[0]] = base
		return paths
	}
	if _, err := render.ParseFormat(ext); err == nil && ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
