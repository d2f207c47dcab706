// Package ui implements the interactive selection flow: pick a category,
// mark items (individually or through age/size filters), confirm, clean.
// The age and size buckets live here deliberately; they are presentation
// conveniences layered over the scan report, not scanning logic.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/devtrim/devtrim/internal/cleaner"
	"github.com/devtrim/devtrim/internal/scanner"
	"github.com/devtrim/devtrim/pkg/utils"
)

const (
	olderThan3Months  = 90
	olderThan6Months  = 180
	olderThan12Months = 365
	largerThan500MB   = 500 * 1024 * 1024
	largerThan1GB     = 1024 * 1024 * 1024
)

type state int

const (
	stateCategories state = iota
	stateItems
	stateConfirm
	stateCleaning
	stateDone
)

type categoryRow struct {
	entry  scanner.Entry
	result *scanner.CategoryResult
}

type cleanDoneMsg struct {
	summary *cleaner.Summary
}

// Model drives the selection flow over one scan report.
type Model struct {
	report  *scanner.Report
	rows    []categoryRow
	cleaner *cleaner.Cleaner
	dryRun  bool

	state    state
	cursor   int
	catIndex int

	// selections accumulates every filter application and the manual
	// check set as separate Selection values; the cleaner deduplicates
	// overlapping paths.
	selections []cleaner.Selection
	// checked tracks manually toggled paths per category for display.
	checked map[scanner.Category]map[string]bool

	spin    spinner.Model
	summary *cleaner.Summary
}

// New builds the flow. Categories with no findings are hidden.
func New(report *scanner.Report, registry []scanner.Entry, cl *cleaner.Cleaner, dryRun bool) *Model {
	var rows []categoryRow
	for _, entry := range registry {
		result := report.Result(entry.Category)
		if result.Count == 0 {
			continue
		}
		result.SortBySize()
		rows = append(rows, categoryRow{entry: entry, result: result})
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		report:  report,
		rows:    rows,
		cleaner: cl,
		dryRun:  dryRun,
		checked: make(map[scanner.Category]map[string]bool),
		spin:    sp,
	}
}

// Summary returns the cleanup result once the flow finishes.
func (m *Model) Summary() *cleaner.Summary {
	return m.summary
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case cleanDoneMsg:
		m.summary = msg.summary
		m.state = stateDone
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case stateCategories:
		return m.handleCategoriesKey(key)
	case stateItems:
		return m.handleItemsKey(key)
	case stateConfirm:
		switch key {
		case "y", "enter":
			m.state = stateCleaning
			return m, tea.Batch(m.spin.Tick, m.runClean())
		case "n", "esc", "q":
			m.state = stateCategories
			m.cursor = 0
		}
	case stateDone:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleCategoriesKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "enter", "right", "l":
		if len(m.rows) == 0 {
			return m, nil
		}
		row := m.rows[m.cursor]
		if !row.entry.Deletable {
			return m, nil
		}
		m.catIndex = m.cursor
		m.cursor = 0
		m.state = stateItems
	case "c":
		if m.selectedCount() > 0 {
			m.state = stateConfirm
		}
	}
	return m, nil
}

func (m *Model) handleItemsKey(key string) (tea.Model, tea.Cmd) {
	row := m.rows[m.catIndex]
	items := row.result.Items

	switch key {
	case "esc", "q", "left", "h":
		m.flushChecked(row)
		m.state = stateCategories
		m.cursor = m.catIndex
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case " ", "x":
		if len(items) > 0 {
			m.toggle(row.entry.Category, items[m.cursor].Path)
		}
	case "a":
		m.applyFilter(row, "all", func(scanner.Item) bool { return true })
	case "3":
		m.applyFilter(row, "older than 3 months", func(it scanner.Item) bool { return it.AgeDays >= olderThan3Months })
	case "6":
		m.applyFilter(row, "older than 6 months", func(it scanner.Item) bool { return it.AgeDays >= olderThan6Months })
	case "y":
		m.applyFilter(row, "older than a year", func(it scanner.Item) bool { return it.AgeDays >= olderThan12Months })
	case "m":
		m.applyFilter(row, "larger than 500MB", func(it scanner.Item) bool { return it.Size >= largerThan500MB })
	case "g":
		m.applyFilter(row, "larger than 1GB", func(it scanner.Item) bool { return it.Size >= largerThan1GB })
	case "c":
		m.flushChecked(row)
		if m.selectedCount() > 0 {
			m.state = stateConfirm
		}
	}
	return m, nil
}

func (m *Model) toggle(cat scanner.Category, path string) {
	if m.checked[cat] == nil {
		m.checked[cat] = make(map[string]bool)
	}
	m.checked[cat][path] = !m.checked[cat][path]
}

// applyFilter records a bulk selection as its own Selection value and
// marks the matching items checked for display.
func (m *Model) applyFilter(row categoryRow, _ string, match func(scanner.Item) bool) {
	var picked []scanner.Item
	for _, item := range row.result.Items {
		if match(item) {
			picked = append(picked, item)
			m.toggleOn(row.entry.Category, item.Path)
		}
	}
	if len(picked) > 0 {
		m.selections = append(m.selections, cleaner.Selection{
			Category: row.entry.Category,
			Items:    picked,
		})
	}
}

func (m *Model) toggleOn(cat scanner.Category, path string) {
	if m.checked[cat] == nil {
		m.checked[cat] = make(map[string]bool)
	}
	m.checked[cat][path] = true
}

// flushChecked converts the category's manual check set into a Selection.
// Overlap with earlier filter selections is fine; deduplication is the
// cleaner's job.
func (m *Model) flushChecked(row categoryRow) {
	set := m.checked[row.entry.Category]
	if len(set) == 0 {
		return
	}
	var picked []scanner.Item
	for _, item := range row.result.Items {
		if set[item.Path] {
			picked = append(picked, item)
		}
	}
	if len(picked) > 0 {
		m.selections = append(m.selections, cleaner.Selection{
			Category: row.entry.Category,
			Items:    picked,
		})
	}
}

func (m *Model) selectedCount() int {
	return len(cleaner.Flatten(m.selections))
}

func (m *Model) selectedSize() int64 {
	var total int64
	for _, t := range cleaner.Flatten(m.selections) {
		total += t.Item.Size
	}
	return total
}

func (m *Model) runClean() tea.Cmd {
	selections := m.selections
	dryRun := m.dryRun
	cl := m.cleaner
	return func() tea.Msg {
		return cleanDoneMsg{summary: cl.Clean(context.Background(), selections, dryRun)}
	}
}

func (m *Model) View() string {
	switch m.state {
	case stateCategories:
		return m.viewCategories()
	case stateItems:
		return m.viewItems()
	case stateConfirm:
		return m.viewConfirm()
	case stateCleaning:
		return fmt.Sprintf("\n  %s cleaning up...\n", m.spin.View())
	case stateDone:
		return m.viewDone()
	}
	return ""
}

func (m *Model) viewCategories() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("devtrim — what can go?"))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("  nothing found — your projects are tidy\n"))
		b.WriteString(helpStyle.Render("  q quit"))
		return b.String()
	}

	for i, row := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%-14s %4d items  %10s",
			row.entry.Category, row.result.Count, utils.FormatBytes(row.result.TotalSize))
		if !row.entry.Deletable {
			line += dimStyle.Render("  review only")
		}
		b.WriteString(cursor + line + "\n")
	}

	b.WriteString(helpStyle.Render(fmt.Sprintf(
		"  enter open · c clean %d selected (%s) · q quit",
		m.selectedCount(), utils.FormatBytes(m.selectedSize()))))
	return b.String()
}

func (m *Model) viewItems() string {
	row := m.rows[m.catIndex]
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s — %s", row.entry.Category, row.entry.Description)))
	b.WriteString("\n")

	checked := m.checked[row.entry.Category]
	for i, item := range row.result.Items {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		mark := "[ ]"
		if checked[item.Path] {
			mark = selectedStyle.Render("[x]")
		}
		label := item.Path
		if item.Version != "" {
			label = fmt.Sprintf("%s (%s)", label, item.Version)
		}
		if item.Active {
			label += activeStyle.Render("  active")
		}
		b.WriteString(fmt.Sprintf("%s%s %10s  %-8s %s\n",
			cursor, mark, utils.FormatBytes(item.Size), utils.FormatDays(item.AgeDays), label))
	}

	b.WriteString(helpStyle.Render(
		"  space toggle · a all · 3/6/y older than 3/6/12 months · m/g larger than 500MB/1GB · c clean · esc back"))
	return b.String()
}

func (m *Model) viewConfirm() string {
	verb := "Move to trash"
	if m.dryRun {
		verb = "Dry run: would move to trash"
	}
	return fmt.Sprintf("\n  %s %d items (%s)? [y/n]\n",
		verb, m.selectedCount(), utils.FormatBytes(m.selectedSize()))
}

func (m *Model) viewDone() string {
	var b strings.Builder
	label := "Freed"
	if m.summary.DryRun {
		label = "Would free"
	}
	b.WriteString(summaryStyle.Render(fmt.Sprintf(
		"\n  %s %s (%d items)", label, utils.FormatBytes(m.summary.FreedBytes), m.summary.Succeeded)))
	b.WriteString("\n")
	if m.summary.Failed > 0 {
		b.WriteString(failStyle.Render(fmt.Sprintf("  %d failed:\n", m.summary.Failed)))
		for _, outcome := range m.summary.Failures() {
			b.WriteString("    " + outcome.Message() + "\n")
		}
	}
	b.WriteString(helpStyle.Render("  press any key to exit"))
	return b.String()
}
