// Package reporter renders scan reports and cleanup summaries for
// non-interactive output.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/shirou/gopsutil/v4/disk"

	"github.com/devtrim/devtrim/internal/cleaner"
	"github.com/devtrim/devtrim/internal/scanner"
	"github.com/devtrim/devtrim/pkg/utils"
)

// OutputFormat selects how reports are rendered.
type OutputFormat string

const (
	FormatSummary OutputFormat = "summary"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	totalStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Reporter writes reports to one destination in one format.
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a Reporter.
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{writer: writer, format: format}
}

// Report renders a scan report. The registry supplies descriptions and
// deletability per category.
func (r *Reporter) Report(report *scanner.Report, registry []scanner.Entry) error {
	switch r.format {
	case FormatSummary:
		return r.reportSummary(report, registry)
	case FormatTable:
		return r.reportTable(report, registry)
	case FormatJSON:
		return r.reportJSON(report)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) reportSummary(report *scanner.Report, registry []scanner.Entry) error {
	fmt.Fprintln(r.writer, headerStyle.Render("Scan results"))
	for _, root := range report.Roots {
		fmt.Fprintf(r.writer, "  root: %s\n", root)
	}
	fmt.Fprintln(r.writer)

	for _, entry := range registry {
		result := report.Result(entry.Category)
		if result.Count == 0 {
			continue
		}
		note := ""
		if !entry.Deletable {
			note = dimStyle.Render("  (review only)")
		}
		fmt.Fprintf(r.writer, "  %-12s %4d items  %10s%s\n",
			entry.Category, result.Count, utils.FormatBytes(result.TotalSize), note)
	}

	fmt.Fprintf(r.writer, "\n%s\n", totalStyle.Render(
		fmt.Sprintf("Total reclaimable: %s", utils.FormatBytes(report.TotalSize))))

	if usage, err := disk.Usage(firstRoot(report)); err == nil {
		fmt.Fprintf(r.writer, "%s\n", dimStyle.Render(
			fmt.Sprintf("Volume free space: %s of %s",
				utils.FormatBytes(int64(usage.Free)), utils.FormatBytes(int64(usage.Total)))))
	}

	r.printWarnings(report)
	return nil
}

func (r *Reporter) reportTable(report *scanner.Report, registry []scanner.Entry) error {
	fmt.Fprintf(r.writer, "%-68s %12s %10s %s\n", "PATH", "SIZE", "AGE", "CATEGORY")
	for _, entry := range registry {
		result := report.Result(entry.Category)
		result.SortBySize()
		for _, item := range result.Items {
			path := item.Path
			if len(path) > 68 {
				path = "..." + path[len(path)-65:]
			}
			fmt.Fprintf(r.writer, "%-68s %12s %10s %s\n",
				path, utils.FormatBytes(item.Size), utils.FormatDays(item.AgeDays), entry.Category)
		}
	}
	fmt.Fprintf(r.writer, "\nTotal: %s\n", utils.FormatBytes(report.TotalSize))
	r.printWarnings(report)
	return nil
}

func (r *Reporter) reportJSON(report *scanner.Report) error {
	type jsonItem struct {
		Path    string `json:"path"`
		Size    int64  `json:"size_bytes"`
		AgeDays int    `json:"age_days"`
		Project string `json:"project,omitempty"`
		Version string `json:"version,omitempty"`
		Active  bool   `json:"active,omitempty"`
	}
	type jsonCategory struct {
		Category  string     `json:"category"`
		Count     int        `json:"count"`
		TotalSize int64      `json:"total_size_bytes"`
		Items     []jsonItem `json:"items"`
	}
	out := struct {
		Roots      []string       `json:"roots"`
		TotalSize  int64          `json:"total_size_bytes"`
		Categories []jsonCategory `json:"categories"`
		Warnings   []string       `json:"warnings,omitempty"`
	}{
		Roots:     report.Roots,
		TotalSize: report.TotalSize,
	}

	for _, cat := range scanner.Categories() {
		result := report.Result(cat)
		jc := jsonCategory{
			Category:  string(cat),
			Count:     result.Count,
			TotalSize: result.TotalSize,
			Items:     []jsonItem{},
		}
		for _, item := range result.Items {
			jc.Items = append(jc.Items, jsonItem{
				Path:    item.Path,
				Size:    item.Size,
				AgeDays: item.AgeDays,
				Project: item.Project,
				Version: item.Version,
				Active:  item.Active,
			})
		}
		out.Categories = append(out.Categories, jc)
	}
	for _, warn := range report.Warnings {
		out.Warnings = append(out.Warnings, warn.Error())
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Summary renders the result of a cleanup batch.
func (r *Reporter) Summary(summary *cleaner.Summary) error {
	label := "Freed"
	if summary.DryRun {
		label = "Would free"
	}
	fmt.Fprintf(r.writer, "\n%s\n", totalStyle.Render(
		fmt.Sprintf("%s %s (%d items)", label, utils.FormatBytes(summary.FreedBytes), summary.Succeeded)))

	if summary.Failed > 0 {
		fmt.Fprintf(r.writer, "%s\n", failStyle.Render(fmt.Sprintf("%d items failed:", summary.Failed)))
		for _, outcome := range summary.Failures() {
			fmt.Fprintf(r.writer, "  %s\n", outcome.Message())
		}
	}
	return nil
}

func (r *Reporter) printWarnings(report *scanner.Report) {
	for _, warn := range report.Warnings {
		fmt.Fprintf(r.writer, "%s\n", warnStyle.Render(fmt.Sprintf("warning: %v", warn)))
	}
}

func firstRoot(report *scanner.Report) string {
	if len(report.Roots) > 0 {
		return report.Roots[0]
	}
	return "/"
}
