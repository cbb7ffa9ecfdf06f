package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Errze/note-bad-ideas/pkg/graph"
	"github.com/Errze/note-bad-ideas/pkg/layout"
	"github.com/Errze/note-bad-ideas/pkg/pipeline"
)

// layoutOpts holds the flags shared by layout, render and explore.
type layoutOpts struct {
	algorithm string
	width     float64
	height    float64
	seed      uint64
	noCache   bool
	refresh   bool
}

func (o *layoutOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.algorithm, "algorithm", "a", string(layout.DefaultAlgorithm), "layout algorithm: force, tree, radial")
	cmd.Flags().Float64Var(&o.width, "width", 0, "canvas width (default from config)")
	cmd.Flags().Float64Var(&o.height, "height", 0, "canvas height (default from config)")
	cmd.Flags().Uint64Var(&o.seed, "seed", 0, "random seed for force layout (default from config)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the layout and render cache")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "recompute even when a cached result exists")
	_ = cmd.RegisterFlagCompletionFunc("algorithm", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(layout.Algorithms()))
		for _, a := range layout.Algorithms() {
			names = append(names, string(a))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// apply overlays the flags on the configured pipeline options.
func (o *layoutOpts) apply(c *CLI) pipeline.Options {
	opts := c.pipelineOptions()
	opts.Algorithm = layout.Algorithm(o.algorithm)
	if o.width > 0 {
		opts.Width = o.width
	}
	if o.height > 0 {
		opts.Height = o.height
	}
	if o.seed != 0 {
		opts.Params.Force.Seed = o.seed
	}
	opts.Refresh = o.refresh
	return opts
}

// layoutCommand computes positions for a group's graph.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		opts   layoutOpts
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout <group>",
		Short: "Compute node positions for a group",
		Long: `Compute node positions for a group and write them as JSON.

  force   spring embedder, nodes repel and links attract (default)
  tree    nodes without incoming links at the top, children below
  radial  nodes on rings by their distance from the roots`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], &opts, output)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <group>.layout.json, - for stdout)")

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, group string, lo *layoutOpts, output string) error {
	ctx := cmd.Context()
	opts := lo.apply(c)
	if err := opts.ValidateForLayout(); err != nil {
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

	runner, err := c.newRunner(ctx, lo.noCache)
	if err != nil {
		return err
	}
	defer closeQuietly(runner, c.Logger, "cache")

	g := runner.Build(ctx, res.Documents)

	prog := newProgress(c.Logger)
	var (
		l   graph.Layout
		hit bool
	)
	msg := fmt.Sprintf("Laying out %d notes (%s)", len(g.Nodes), opts.Algorithm)
	if err := spin(ctx, cmd.ErrOrStderr(), msg, func() (err error) {
		l, hit, err = runner.Layout(ctx, g, opts, nil)
		return err
	}); err != nil {
		return err
	}
	prog.done("layout complete", "algorithm", opts.Algorithm, "nodes", len(g.Nodes), "cached", hit)

	data, err := graph.MarshalLayout(l)
	if err != nil {
		return err
	}
	if output == "" {
		output = group + ".layout.json"
	}
	if err := c.writeOutput(output, data); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	if output == "-" {
		return nil
	}

	printSuccess(c.Out, "Laid out %s with %s", group, opts.Algorithm)
	printStats(c.Out, len(g.Nodes), len(g.Edges), g.Diagnostics.Unresolved, hit)
	printFile(c.Out, output)
	return nil
}
