package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Errze/note-bad-ideas/pkg/graph"
)

// groupsCommand lists the groups of the configured source.
func (c *CLI) groupsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List the note groups of the source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.openSource(cmd.Context())
			if err != nil {
				return err
			}
			defer closeQuietly(src, c.Logger, "source")

			groups, err := src.Groups(cmd.Context())
			if err != nil {
				return err
			}
			if len(groups) == 0 {
				printInfo(c.Out, "No groups found")
				return nil
			}
			for _, g := range groups {
				title := g.Title
				if title == "" {
					title = StyleDim.Render("untitled")
				}
				printKeyValue(c.Out, g.ID, title)
			}
			return nil
		},
	}
}

type graphOpts struct {
	output string
	stats  bool
}

// graphCommand builds a group's graph and prints it as JSON.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph <group>",
		Short: "Build the link graph of a group",
		Long: `Build the link graph of a group and write it as JSON.

Every note becomes a node. A link to another note of the group becomes an
edge; links to unknown notes are counted as unresolved in the diagnostics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print diagnostics instead of the graph")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, group string, opts graphOpts) error {
	ctx := cmd.Context()
	src, err := c.openSource(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(src, c.Logger, "source")

	res, err := c.loadGroup(ctx, src, group)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	g := runner.Build(ctx, res.Documents)

	if opts.stats {
		printDiagnostics(c, g)
		return nil
	}

	if opts.output == "" {
		return graph.WriteGraph(g, c.Out)
	}
	if err := graph.WriteGraphFile(g, opts.output); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	printSuccess(c.Out, "Built graph of %s", group)
	printStats(c.Out, len(g.Nodes), len(g.Edges), g.Diagnostics.Unresolved, false)
	printFile(c.Out, opts.output)
	printNextStep(c.Out, "Explore it", fmt.Sprintf("%s explore %s", appName, group))
	return nil
}

func printDiagnostics(c *CLI, g *graph.Graph) {
	d := g.Diagnostics
	rows := []struct {
		key string
		val int
	}{
		{"documents", d.Documents},
		{"with content", d.WithContent},
		{"references", d.RawReferences},
		{"by id", d.IDReferences},
		{"by title", d.TitleReferences},
		{"resolved id", d.ResolvedByID},
		{"resolved title", d.ResolvedByTitle},
		{"unresolved", d.Unresolved},
		{"self links", d.SelfReferences},
		{"duplicates", d.Duplicates},
		{"edges", d.Edges},
	}
	for _, r := range rows {
		printKeyValue(c.Out, r.key, strconv.Itoa(r.val))
	}
	for _, ds := range d.PerDocument {
		if ds.Unresolved > 0 {
			printWarning(c.Out, "%s: %d unresolved", ds.ID, ds.Unresolved)
		}
	}
}

// writeOutput writes data to path, or to the CLI's output when path is "-".
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := c.Out.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
