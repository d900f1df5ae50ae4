package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neilberkman/cchistory/internal/core/config"
	"github.com/neilberkman/cchistory/internal/core/logging"
	"github.com/neilberkman/cchistory/internal/core/projects"
	"github.com/neilberkman/cchistory/internal/core/search"
	"github.com/neilberkman/cchistory/internal/interface/render"
)

var (
	projectsDir string
	verbose     bool
	versionInfo string

	cfg    = config.Default()
	logger = zap.NewNop()

	// now is the reference time for date filters
	now = time.Now
)

// errNoResults signals exit status 1 after the "no conversations" message was printed
var errNoResults = errors.New("no results")

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNoResults) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cchistory [query...]",
	Short: "Search past Claude Code conversations",
	Long: `cchistory - find how you solved it last time

Searches the Claude Code session logs under ~/.claude/projects and ranks
conversations by how well they match a free-text query. Every run rescans
the logs; nothing is indexed or cached.

Examples:
  cchistory "EMFILE error"
  cchistory "vitest browser mode" --limit 5
  cchistory --today newsletter
  cchistory --days 7 refactor
  cchistory digest yesterday --project ~/Projects/myapp`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync(logger)
	},
	RunE: runSearch,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&projectsDir, "projects-dir", "", "Claude projects directory (default $CLAUDE_HOME/projects or ~/.claude/projects)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print diagnostics for skipped files and lines")

	addSearchFlags(rootCmd)
}

// setup loads config and builds the diagnostic logger
func setup(cmd *cobra.Command, args []string) error {
	logger = logging.New(cmd.ErrOrStderr(), verbose)

	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	return nil
}

func newSearcher() *search.Searcher {
	root := projectsDir
	if root == "" {
		root = cfg.ProjectsDir
	}
	logger.Debug("scanning projects", zap.String("root", root))
	return search.NewSearcher(projects.NewDirLister(root, logger), search.WithLogger(logger))
}

// outputFormat resolves --format against the configured default
func outputFormat(flag string) (string, error) {
	format := flag
	if format == "" {
		format = cfg.Format
	}
	if !render.ValidFormat(format) {
		return "", fmt.Errorf("invalid format %q: must be text or json", format)
	}
	return format, nil
}
