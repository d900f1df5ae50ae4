// Package render writes search results and digests as text or JSON
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/neilberkman/cchistory/internal/core/daterange"
	"github.com/neilberkman/cchistory/internal/core/excerpt"
	"github.com/neilberkman/cchistory/internal/core/models"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	maxShownCommands = 5
	maxCommandLen    = 80
	maxShownFiles    = 5
	maxTitleLen      = 60
	shortIDLen       = 8
)

var rule = strings.Repeat("=", 60)

// ValidFormat reports whether format is supported
func ValidFormat(format string) bool {
	return format == FormatText || format == FormatJSON
}

// JSON writes v as indented JSON
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

type styles struct {
	heading lipgloss.Style
	label   lipgloss.Style
	dim     lipgloss.Style
}

// newStyles binds styles to w so that pipes and files get plain text
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:   r.NewStyle().Bold(true),
		dim:     r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// SearchText writes the ranked results. desc qualifies the query in the header,
// e.g. " (today only)".
func SearchText(w io.Writer, report models.SearchReport, desc string, now time.Time) error {
	st := newStyles(w)

	var b strings.Builder
	fmt.Fprintf(&b, "\nFound %d relevant conversations for: '%s'%s\n\n", report.TotalResults, report.Query, desc)

	for i, r := range report.Results {
		b.WriteString("\n" + rule + "\n")
		b.WriteString(st.heading.Render(fmt.Sprintf("Result #%d (Score: %.2f)", i+1, r.Score)) + "\n")
		b.WriteString(rule + "\n")
		fmt.Fprintf(&b, "Project: %s\n", r.Project)
		fmt.Fprintf(&b, "Session: %s...\n", shortID(r.SessionID))
		fmt.Fprintf(&b, "Branch: %s\n", orNA(r.GitBranch))
		fmt.Fprintf(&b, "Date: %s\n", dateLine(r.Timestamp, now))
		b.WriteString("\n" + st.label.Render("PROBLEM:") + "\n")
		b.WriteString(r.Problem + "\n")
		b.WriteString("\n" + st.label.Render("SOLUTION:") + "\n")
		b.WriteString(r.Solution + "\n")

		if len(r.Commands) > 0 {
			b.WriteString("\n" + st.label.Render(fmt.Sprintf("COMMANDS RUN (%d total):", len(r.Commands))) + "\n")
			for j, cmd := range r.Commands {
				if j == maxShownCommands {
					break
				}
				fmt.Fprintf(&b, "  $ %s\n", excerpt.Truncate(cmd, maxCommandLen))
			}
			if len(r.Commands) > maxShownCommands {
				b.WriteString(st.dim.Render(fmt.Sprintf("  ... and %d more", len(r.Commands)-maxShownCommands)) + "\n")
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// DigestText writes a markdown digest of one day's sessions
func DigestText(w io.Writer, report models.DigestReport) error {
	day := report.Day
	if day.IsZero() {
		if parsed, err := time.Parse(daterange.DayLayout, report.Date); err == nil {
			day = parsed
		}
	}
	dateStr := day.Format("January 02, 2006")

	var b strings.Builder
	if len(report.Sessions) == 0 {
		fmt.Fprintf(&b, "## %s - No sessions found\n", dateStr)
		_, err := io.WriteString(w, b.String())
		return err
	}

	plural := "s"
	if len(report.Sessions) == 1 {
		plural = ""
	}
	fmt.Fprintf(&b, "## %s - %d session%s\n\n", dateStr, len(report.Sessions), plural)

	for i, s := range report.Sessions {
		title := strings.ReplaceAll(excerpt.Truncate(s.Problem, maxTitleLen), "\n", " ")
		fmt.Fprintf(&b, "### %d. %s\n", i+1, title)
		fmt.Fprintf(&b, "   Session: `%s`\n", shortID(s.SessionID))
		if s.Branch != "" {
			fmt.Fprintf(&b, "   Branch: `%s`\n", s.Branch)
		}
		if len(s.Files) > 0 {
			files := s.Files
			if len(files) > maxShownFiles {
				files = files[:maxShownFiles]
			}
			fmt.Fprintf(&b, "   Files: %s\n", strings.Join(files, ", "))
		}
		if s.CommandsCount > 0 {
			fmt.Fprintf(&b, "   Commands: %d executed\n", s.CommandsCount)
		}
		if len(s.Topics) > 0 {
			fmt.Fprintf(&b, "   Topics: %s\n", strings.Join(s.Topics, ", "))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FilterDescriptions returns the phrases used when reporting a date-filtered
// search: one for the "no results" message, one for the results header
func FilterDescriptions(f daterange.Filter) (noResults, header string) {
	if !f.Active() {
		return "", ""
	}
	switch {
	case f.Today:
		return " from today", " (today only)"
	case f.Yesterday:
		return " from yesterday", " (yesterday only)"
	case f.Days > 0:
		return fmt.Sprintf(" from the last %d days", f.Days), fmt.Sprintf(" (last %d days)", f.Days)
	case f.Since != "":
		return " since " + f.Since, fmt.Sprintf(" (since %s)", f.Since)
	}
	return "", ""
}

// dateLine renders "2025-01-10 (3 days ago)"
func dateLine(timestamp string, now time.Time) string {
	if timestamp == "" {
		return "N/A"
	}
	date := timestamp
	if len(date) > len(daterange.DayLayout) {
		date = date[:len(daterange.DayLayout)]
	}
	if t, ok := daterange.ParseTimestamp(timestamp, now.Location()); ok {
		return fmt.Sprintf("%s (%s)", date, humanize.RelTime(t, now, "ago", "from now"))
	}
	return date
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
