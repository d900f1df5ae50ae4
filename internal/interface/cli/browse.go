package cli

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/neilberkman/cchistory/internal/core/daterange"
	"github.com/neilberkman/cchistory/internal/core/projects"
	"github.com/neilberkman/cchistory/internal/core/search"
	"github.com/neilberkman/cchistory/internal/core/session"
	"github.com/neilberkman/cchistory/internal/interface/tui"
)

var (
	browseProject string
	browseLimit   int
)

var browseCmd = &cobra.Command{
	Use:   "browse [query...]",
	Short: "Browse matching conversations interactively",
	Long: `Open an interactive browser over the conversations matching a query, or
over today's sessions when no query is given.

Press enter to see the problem, solution and commands of a conversation,
r to resume it in Claude Code, or c to copy the resume command.

Examples:
  cchistory browse "docker compose networking"
  cchistory browse --project api`,
	Args: cobra.ArbitraryArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().StringVarP(&browseProject, "project", "p", "", "Only include this project (path or partial name)")
	browseCmd.Flags().IntVarP(&browseLimit, "limit", "l", 50, "Max conversations to list")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))

	project, err := projects.NormalizeProject(browseProject)
	if err != nil {
		return err
	}

	load, title := browseLoader(newSearcher(), query, project)
	model := tui.New(load, cfg, title)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}

	// Check if user wants to resume a conversation
	if m, ok := finalModel.(tui.Model); ok && m.Launch != nil {
		return execClaude(*m.Launch)
	}

	return nil
}

// browseLoader ranks query matches, or lists today's sessions when the query is blank
func browseLoader(searcher *search.Searcher, query, project string) (tui.Loader, string) {
	if query == "" {
		day := daterange.StartOfDay(now())
		title := "Sessions from " + day.Format("January 02, 2006")
		return func() ([]tui.Item, error) {
			convs, err := searcher.Digest(day, project)
			if err != nil {
				return nil, err
			}
			return tui.ItemsFromConversations(convs), nil
		}, title
	}

	title := fmt.Sprintf("Conversations matching '%s'", query)
	return func() ([]tui.Item, error) {
		results, err := searcher.Search(search.Options{Query: query, Project: project, Limit: browseLimit})
		if err != nil {
			return nil, err
		}
		return tui.ItemsFromResults(results), nil
	}, title
}

// execClaude replaces this process with a login shell running the resume command
func execClaude(item tui.Item) error {
	cmd, err := session.BuildResumeCommand(item.Conversation, cfg, now())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "[cchistory] %s\n", cmd)

	// Find shell
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/bash"
	}

	// Use -l so version managers (asdf/mise) are loaded
	return syscall.Exec(shell, []string{shell, "-l", "-c", cmd}, os.Environ())
}
