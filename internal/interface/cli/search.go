package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neilberkman/cchistory/internal/core/daterange"
	"github.com/neilberkman/cchistory/internal/core/projects"
	"github.com/neilberkman/cchistory/internal/core/search"
	"github.com/neilberkman/cchistory/internal/interface/render"
)

var (
	searchProject   string
	searchLimit     int
	searchFormat    string
	searchToday     bool
	searchYesterday bool
	searchDays      int
	searchSince     string
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Rank past conversations against a query",
	Long: `Rank Claude Code conversations by how well they match a query.

Matches in the session summary weigh most, then your own messages, then
turns that ran tools. Each result shows the problem, the solution and the
shell commands that were run.

Examples:
  cchistory search "EMFILE too many open files"
  cchistory search "auth middleware" --project ~/work/api
  cchistory search flaky test --since 2025-01-01 --format json`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addSearchFlags(searchCmd)
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&searchProject, "project", "p", "", "Only search this project (path or partial name)")
	cmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "Max results (default from config, 5)")
	cmd.Flags().StringVarP(&searchFormat, "format", "f", "", "Output format: text or json")
	cmd.Flags().BoolVar(&searchToday, "today", false, "Only sessions from today")
	cmd.Flags().BoolVar(&searchYesterday, "yesterday", false, "Only sessions from yesterday")
	cmd.Flags().IntVar(&searchDays, "days", 0, "Only sessions from the last N days")
	cmd.Flags().StringVar(&searchSince, "since", "", "Only sessions since YYYY-MM-DD")
}

func searchFilter() daterange.Filter {
	return daterange.Filter{
		Today:     searchToday,
		Yesterday: searchYesterday,
		Days:      searchDays,
		Since:     searchSince,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Join all args as query
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("query is required (use 'cchistory digest' for a daily summary)")
	}

	format, err := outputFormat(searchFormat)
	if err != nil {
		return err
	}

	limit := searchLimit
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}

	ref := now()
	filter := searchFilter()
	interval, err := filter.Resolve(ref)
	if err != nil {
		return err
	}

	project, err := projects.NormalizeProject(searchProject)
	if err != nil {
		return err
	}

	results, err := newSearcher().Search(search.Options{
		Query:    query,
		Project:  project,
		Limit:    limit,
		Interval: interval,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	noResultsDesc, headerDesc := render.FilterDescriptions(filter)
	if len(results) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "No conversations found%s matching: %s\n", noResultsDesc, query)
		return errNoResults
	}

	report := search.NewSearchReport(query, results)
	if format == render.FormatJSON {
		return render.JSON(cmd.OutOrStdout(), report)
	}
	return render.SearchText(cmd.OutOrStdout(), report, headerDesc, ref)
}
