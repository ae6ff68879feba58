// package formatter reads export files and renders migration results (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/amx/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// HistoryFormat selects how [FormatHistory] renders run history.
type HistoryFormat string

const (
	HistoryText     HistoryFormat = "text"
	HistoryCSV      HistoryFormat = "csv"
	HistoryMarkdown HistoryFormat = "markdown"
)

// ParseHistoryFormat validates a --format flag value.
func ParseHistoryFormat(s string) (HistoryFormat, error) {
	switch f := HistoryFormat(s); f {
	case HistoryText, HistoryCSV, HistoryMarkdown:
		return f, nil
	case "":
		return HistoryText, nil
	default:
		return "", fmt.Errorf("unknown history format %q (want text, csv or markdown)", s)
	}
}

// FormatHistory renders runs in the requested format.
func FormatHistory(runs []*models.Run, format HistoryFormat) ([]byte, error) {
	switch format {
	case HistoryCSV:
		return HistoryToCSV(runs)
	case HistoryMarkdown:
		return HistoryToMarkdown(runs), nil
	default:
		return HistoryToText(runs), nil
	}
}

// HistoryToCSV converts runs to CSV with columns: Sequence, Kind, Source, Target, Status, Total, Converted, Failed, Percentage, Started, Completed, Error
func HistoryToCSV(runs []*models.Run) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "Kind", "Source", "Target", "Status", "Total", "Converted", "Failed", "Percentage", "Started", "Completed", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, run := range runs {
		record := []string{
			strconv.Itoa(run.Sequence()),
			string(run.Kind()),
			run.Source(),
			run.Target(),
			string(run.Status()),
			strconv.Itoa(run.Total()),
			strconv.Itoa(run.Converted()),
			strconv.Itoa(run.Failed()),
			strconv.Itoa(run.Percentage()),
			run.StartedAt().Format(timeLayout),
			formatOptionalTime(run.CompletedAt()),
			run.ErrorMessage(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// HistoryToMarkdown converts runs to a Markdown table
func HistoryToMarkdown(runs []*models.Run) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Migration History\n\n")
	buf.WriteString(fmt.Sprintf("**Runs**: %d\n\n", len(runs)))

	if len(runs) == 0 {
		return buf.Bytes()
	}

	buf.WriteString("| # | Kind | Source | Target | Status | Converted | Started |\n")
	buf.WriteString("|---|------|--------|--------|--------|-----------|---------|\n")
	for _, run := range runs {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %d/%d (%d%%) | %s |\n",
			run.Sequence(), run.Kind(), escapePipes(run.Source()), escapePipes(run.Target()), run.Status(),
			run.Converted(), run.Total(), run.Percentage(), run.StartedAt().Format(timeLayout)))
	}

	return buf.Bytes()
}

// HistoryToText converts runs to plain text, one line per run
func HistoryToText(runs []*models.Run) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Runs: %d\n\n", len(runs)))
	for _, run := range runs {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s %s -> %s: %d/%d converted (%d%%)\n",
			run.Sequence(), run.Status(), run.Kind(), run.Source(), targetOrDash(run.Target()),
			run.Converted(), run.Total(), run.Percentage()))
		if msg := run.ErrorMessage(); msg != "" {
			buf.WriteString(fmt.Sprintf("   error: %s\n", msg))
		}
	}

	return buf.Bytes()
}

// SyncSummary is the stat report printed after each playlist.
func SyncSummary(result *models.SyncResult) string {
	var buf bytes.Buffer
	buf.WriteString("\n - STAT REPORT -\n")
	buf.WriteString(fmt.Sprintf("Playlist Songs: %d\n", result.Total))
	buf.WriteString(fmt.Sprintf("Converted Songs: %d\n", result.Converted))
	buf.WriteString(fmt.Sprintf("Failed Songs: %d\n", result.Failed))
	buf.WriteString(fmt.Sprintf("Playlist converted at %d%%\n", result.Percentage()))
	return buf.String()
}

// AlbumSummary is the stat report printed after the albums export.
func AlbumSummary(result *models.AlbumResult) string {
	var buf bytes.Buffer
	buf.WriteString("\n - STAT REPORT -\n")
	buf.WriteString(fmt.Sprintf("Albums: %d\n", result.Total))
	buf.WriteString(fmt.Sprintf("Added Albums: %d\n", result.Added))
	buf.WriteString(fmt.Sprintf("Failed Albums: %d\n", result.Failed))
	buf.WriteString(fmt.Sprintf("Albums added at %d%%\n", result.Percentage()))
	return buf.String()
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}

func targetOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
