package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/auctions-dev/bsconf/internal/config"
	"github.com/auctions-dev/bsconf/internal/errors"
	"github.com/auctions-dev/bsconf/internal/logger"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	dir        string
	verbose    bool
	noColor    bool

	color bool
	log   logger.Logger
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "bsconf",
		Short: "Manage the live-reload dev server configuration",
		Long: `bsconf manages the configuration read by the browser live-reload proxy.

The configuration names three things:

  • proxy         the upstream host:port to forward requests to
  • files         glob patterns whose changes trigger a reload
  • watchOptions  watcher tuning, here the ignored dependency pattern

Values come from built-in defaults, an optional bs-config.json or
bs-config.yaml, and BSCONF_PROXY, BSCONF_FILES and BSCONF_WATCH_IGNORED.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			g.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.configPath, "config", "c", "", "Config file (default: bs-config.json or bs-config.yaml in the project)")
	flags.StringVarP(&g.dir, "dir", "C", "", "Project directory (default: working directory)")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Log diagnostic details to stderr")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		showCmd(g),
		initCmd(g),
		filesCmd(g),
		matchCmd(g),
		checkCmd(g),
		keysCmd(),
		versionCmd(),
	)

	return rootCmd
}

// setup configures logging and colors once flags are parsed.
func (g *globals) setup(cmd *cobra.Command) {
	level := logger.WarnLevel
	if g.verbose {
		level = logger.DebugLevel
	}
	g.log = logger.New(&logger.Config{
		Level:      level,
		Output:     cmd.ErrOrStderr(),
		TimeFormat: "15:04:05",
	})

	g.color = !g.noColor && isTerminal(cmd.OutOrStdout())
	if g.color {
		errors.EnableColors()
	} else {
		errors.DisableColors()
	}
}

// projectDir returns the directory commands operate on.
func (g *globals) projectDir() (string, error) {
	if g.configPath != "" {
		return filepath.Dir(g.configPath), nil
	}
	if g.dir != "" {
		return g.dir, nil
	}
	return os.Getwd()
}

// load resolves and loads the configuration record.
func (g *globals) load() (*config.DevServerConfig, *config.Loader, error) {
	loader := config.NewLoader()

	path := g.configPath
	if path == "" {
		dir, err := g.projectDir()
		if err != nil {
			return nil, nil, err
		}
		root, err := config.FindProjectRoot(dir)
		switch {
		case err == nil:
			path, _ = config.FindFile(root)
		case errors.HasCode(err, "E202"):
			g.logger().Debug("no config file found, using defaults", "dir", dir)
		default:
			return nil, nil, err
		}
	}

	cfg, err := loader.Load(path)
	if err != nil {
		return nil, nil, err
	}

	for _, key := range loader.SourceKeys() {
		g.logger().Debug("resolved", "key", key, "source", loader.Sources()[key])
	}
	if cfg.Path() != "" {
		g.logger().Debug("loaded config", "path", cfg.Path())
	}
	return cfg, loader, nil
}

func (g *globals) logger() logger.Logger {
	if g.log == nil {
		return logger.Discard()
	}
	return g.log
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// success prints a success message.
func (g *globals) success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", g.paint(successStyle, "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func (g *globals) warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", g.paint(warnStyle, "⚠"), fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func (g *globals) errorMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", g.paint(failStyle, "✗"), fmt.Sprintf(format, args...))
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD93D")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
)

func (g *globals) paint(style lipgloss.Style, text string) string {
	if !g.color {
		return text
	}
	return style.Render(text)
}
