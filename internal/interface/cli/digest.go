package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neilberkman/cchistory/internal/core/daterange"
	"github.com/neilberkman/cchistory/internal/core/projects"
	"github.com/neilberkman/cchistory/internal/interface/render"
)

var (
	digestProject string
	digestFormat  string
)

var digestCmd = &cobra.Command{
	Use:   "digest [today|yesterday|YYYY-MM-DD]",
	Short: "Summarise one day's sessions",
	Long: `List the sessions that started on one day, oldest first, with the
problem, branch, files touched, commands run and topics of each.

The day defaults to today. English expressions also work.

Examples:
  cchistory digest
  cchistory digest yesterday --project ~/Projects/myapp
  cchistory digest 2025-01-04 --format json
  cchistory digest last friday`,
	Args: cobra.ArbitraryArgs,
	RunE: runDigest,
}

func init() {
	rootCmd.AddCommand(digestCmd)
	digestCmd.Flags().StringVarP(&digestProject, "project", "p", "", "Only include this project (path or partial name)")
	digestCmd.Flags().StringVarP(&digestFormat, "format", "f", "", "Output format: text or json")
}

func runDigest(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(digestFormat)
	if err != nil {
		return err
	}

	day, err := daterange.ParseDay(strings.Join(args, " "), now())
	if err != nil {
		return err
	}

	project, err := projects.NormalizeProject(digestProject)
	if err != nil {
		return err
	}

	report, err := newSearcher().DigestReport(day, project)
	if err != nil {
		return fmt.Errorf("digest failed: %w", err)
	}

	if format == render.FormatJSON {
		return render.JSON(cmd.OutOrStdout(), report)
	}
	return render.DigestText(cmd.OutOrStdout(), report)
}
