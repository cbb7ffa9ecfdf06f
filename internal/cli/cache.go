package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Errze/note-bad-ideas/pkg/cache"
	"github.com/Errze/note-bad-ideas/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := c.openCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closeQuietly(ch, c.Logger, "cache")

			if _, ok := ch.(cache.Clearer); !ok {
				printInfo(c.Out, "Caching is disabled, nothing to clear")
				return nil
			}
			n, err := cache.Clear(cmd.Context(), ch)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess(c.Out, "Cleared %d cached entries", n)
			if fc, ok := ch.(*cache.FileCache); ok {
				printDetail(c.Out, "Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := c.config().Cache
			switch cc.Kind {
			case config.BackendRedis:
				fmt.Fprintln(c.Out, cc.RedisURL)
				return nil
			case config.BackendNone:
				printInfo(c.Out, "Caching is disabled")
				return nil
			}
			dir := cc.Dir
			if dir == "" {
				d, err := config.CacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				dir = d
			}
			fmt.Fprintln(c.Out, dir)
			return nil
		},
	}
}
