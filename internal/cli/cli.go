package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Errze/note-bad-ideas/pkg/buildinfo"
	"github.com/Errze/note-bad-ideas/pkg/cache"
	"github.com/Errze/note-bad-ideas/pkg/config"
	"github.com/Errze/note-bad-ideas/pkg/pipeline"
	"github.com/Errze/note-bad-ideas/pkg/session"
	"github.com/Errze/note-bad-ideas/pkg/source"
	"github.com/Errze/note-bad-ideas/pkg/source/local"
	"github.com/Errze/note-bad-ideas/pkg/source/mongo"
)

const appName = config.AppName

// Levels main can pass to New and SetLogLevel.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI is the state shared by every notegraph command: the logger, where
// command output goes and the configuration loaded by the root pre-run.
type CLI struct {
	Logger *log.Logger

	// Out receives command output; status lines go to the logger.
	Out io.Writer

	configPath string
	cfg        *config.Config
}

// New returns a CLI logging to w at level and writing output to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the notegraph command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Turn linked notes into an explorable graph",
		Long: `notegraph reads a group of notes, resolves the [[wiki]] and note: links
between them and lays the resulting graph out. Explore it in the terminal,
render it to SVG, PNG, DOT or JSON, or serve it over HTTP.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return c.loadConfig() },
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/notegraph/config.toml)")

	root.AddCommand(
		c.groupsCommand(),
		c.graphCommand(),
		c.layoutCommand(),
		c.renderCommand(),
		c.exploreCommand(),
		c.serveCommand(),
		c.cacheCommand(),
		c.configCommand(),
		c.completionCommand(),
	)
	return root
}

// loadConfig reads the configuration once per process.
func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// config returns the loaded configuration, or the defaults when commands run
// without the root pre-run (tests).
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// newRunner wires the configured cache into a pipeline runner.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.TTL = c.config().Cache.TTL
	return r, nil
}

// openCache opens the configured cache backend. A backend that cannot be
// opened is logged and replaced by no caching; the command still runs.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cc := c.config().Cache
	if noCache || cc.Kind == config.BackendNone {
		return cache.NewNullCache(), nil
	}

	var (
		ch  cache.Cache
		err error
	)
	if cc.Kind == config.BackendRedis {
		ch, err = cache.NewRedisCache(ctx, cc.RedisURL)
	} else {
		dir := cc.Dir
		if dir == "" {
			dir, err = config.CacheDir()
		}
		if err == nil {
			ch, err = cache.NewFileCache(dir)
		}
	}
	if err != nil {
		c.Logger.Warn("caching disabled", "backend", cc.Kind, "err", err)
		return cache.NewNullCache(), nil
	}
	return ch, nil
}

// openSource opens the configured document source.
func (c *CLI) openSource(ctx context.Context) (source.Source, error) {
	sc := c.config().Source
	switch sc.Kind {
	case config.SourceMongo:
		return mongo.Open(ctx, mongo.Config{
			URI:        sc.MongoURI,
			Database:   sc.MongoDatabase,
			Collection: sc.MongoCollection,
		})
	default:
		if sc.Format == config.FormatMarkdown {
			return local.NewVault(sc.Root)
		}
		return local.NewStore(sc.Root)
	}
}

// openSessions opens the configured session store.
func (c *CLI) openSessions(ctx context.Context) (session.Store, error) {
	sc := c.config().Server
	switch sc.SessionStore {
	case config.BackendRedis:
		return session.NewRedisStore(ctx, sc.RedisURL)
	case config.BackendFile:
		return session.NewFileStore(sc.SessionDir)
	default:
		return session.NewMemoryStore(), nil
	}
}

// pipelineOptions maps the configuration onto pipeline options.
func (c *CLI) pipelineOptions() pipeline.Options {
	cfg := c.config()
	params := cfg.LayoutParams()
	return pipeline.Options{
		Width:  cfg.Canvas.Width,
		Height: cfg.Canvas.Height,
		Params: &params,
		Logger: c.Logger,
	}
}

// loadGroup reads one group, warning about skipped notes.
func (c *CLI) loadGroup(ctx context.Context, src source.Source, group string) (*source.Result, error) {
	res, err := pipeline.Load(ctx, src, group)
	if err != nil {
		return nil, err
	}
	if res.Skipped > 0 {
		c.Logger.Warn("skipped unreadable notes", "group", group, "count", res.Skipped)
	}
	return res, nil
}

// parseFormats splits a --format value such as "svg, png". Empty means the
// default format.
func parseFormats(s string) []string {
	if s == "" {
		return []string{string(pipeline.DefaultFormat)}
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func closeQuietly(c io.Closer, logger *log.Logger, what string) {
	if err := c.Close(); err != nil {
		logger.Warn(fmt.Sprintf("close %s", what), "err", err)
	}
}
