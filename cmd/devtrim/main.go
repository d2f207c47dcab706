package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/devtrim/devtrim/internal/cleaner"
	"github.com/devtrim/devtrim/internal/config"
	"github.com/devtrim/devtrim/internal/history"
	"github.com/devtrim/devtrim/internal/platform"
	"github.com/devtrim/devtrim/internal/progress"
	"github.com/devtrim/devtrim/internal/reporter"
	"github.com/devtrim/devtrim/internal/scanner"
	"github.com/devtrim/devtrim/internal/security"
	"github.com/devtrim/devtrim/internal/sizer"
	"github.com/devtrim/devtrim/internal/trash"
	"github.com/devtrim/devtrim/internal/ui"
	"github.com/devtrim/devtrim/pkg/utils"
)

var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	rootFlags  []string
	categories []string
	outputFmt  string
	dryRun     bool
	assumeYes  bool
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "devtrim",
	Short: "Find and trash disposable development artifacts",
	Long: `devtrim scans your projects for disposable development artifacts —
dependency caches like node_modules, virtualenvs, build output, unused
toolchain versions — shows how much disk they hold, and moves the ones
you pick to the trash, where they stay recoverable.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringSliceVar(&rootFlags, "root", nil, "scan root (repeatable, overrides config)")
	rootCmd.PersistentFlags().StringSliceVar(&categories, "category", nil, "only these categories (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print directories as they are scanned")

	scanCmd.Flags().StringVarP(&outputFmt, "format", "f", "summary", "output format: summary, table, json")

	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be freed without touching anything")
	cleanCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the interactive flow and clean everything found")

	rootCmd.AddCommand(scanCmd, cleanCmd, historyCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for disposable artifacts and report, without changing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.prog.Close()
		report := app.scan(cmd.Context())

		rptr := reporter.New(os.Stdout, reporter.OutputFormat(outputFmt))
		return rptr.Report(report, app.registry)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Scan, select, and move artifacts to the trash",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.prog.Close()
		report := app.scan(cmd.Context())

		interactive := !assumeYes &&
			isatty.IsTerminal(os.Stdin.Fd()) &&
			isatty.IsTerminal(os.Stdout.Fd())

		var summary *cleaner.Summary
		if interactive {
			model := ui.New(report, app.registry, app.cleaner, dryRun)
			if _, err := tea.NewProgram(model).Run(); err != nil {
				return fmt.Errorf("interactive selection failed: %w", err)
			}
			summary = model.Summary()
			if summary == nil {
				return nil // user backed out
			}
		} else {
			if !assumeYes {
				return fmt.Errorf("not a terminal; pass --yes to clean everything found (or --dry-run first)")
			}
			summary = app.cleaner.Clean(cmd.Context(), app.selectAll(report), dryRun)
		}

		rptr := reporter.New(os.Stdout, reporter.FormatSummary)
		if err := rptr.Summary(summary); err != nil {
			return err
		}
		return app.recordHistory(summary)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past cleanups",
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := platform.GetInfo()
		if err != nil {
			return err
		}
		entries, err := history.New(history.DefaultPath(info.ConfigDir)).Entries()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no cleanups recorded yet")
			return nil
		}
		for _, entry := range entries {
			note := ""
			if entry.DryRun {
				note = " (dry run)"
			}
			fmt.Printf("%s  freed %s  %d items  %v%s\n",
				entry.Timestamp.Format(time.RFC3339),
				utils.FormatBytes(entry.FreedBytes),
				entry.ItemsDeleted, entry.Categories, note)
		}
		return nil
	},
}

// app wires the core components for one invocation.
type app struct {
	info     *platform.Info
	cfg      *config.Config
	roots    []string
	enabled  map[scanner.Category]bool
	registry []scanner.Entry
	orch     *scanner.Orchestrator
	cleaner  *cleaner.Cleaner
	prog     *progress.Reporter
}

func newApp() (*app, error) {
	info, err := platform.GetInfo()
	if err != nil {
		return nil, err
	}

	path := configPath
	if path == "" {
		path = config.DefaultPath(info.ConfigDir)
	}
	cfg, err := config.Load(path, info.HomeDir)
	if err != nil {
		return nil, err
	}

	roots := cfg.Roots
	if len(rootFlags) > 0 {
		roots = rootFlags
	}
	valid, droppedRoots := config.FilterRoots(roots)
	for _, root := range droppedRoots {
		fmt.Fprintf(os.Stderr, "warning: skipping invalid root %s\n", root)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid scan roots")
	}

	enabled := cfg.Categories.Enabled()
	if len(categories) > 0 {
		enabled = make(map[scanner.Category]bool)
		for _, c := range categories {
			enabled[scanner.Category(c)] = true
		}
	}

	prog := progress.NewReporter()
	env := &scanner.Env{
		Home:        info.HomeDir,
		Oracle:      sizer.New(),
		MaxDepth:    cfg.MaxDepth,
		IgnoreNames: cfg.IgnoreNames,
		OnEnter: func(cat scanner.Category, dir string) {
			prog.UpdateScan(progress.ScanProgress{
				Phase:      progress.PhaseScanning,
				Category:   cat,
				CurrentDir: dir,
			})
		},
	}
	registry := scanner.DefaultRegistry(env)

	var mover cleaner.Mover
	if cfg.TrashDir != "" {
		mover = trash.NewAt(cfg.TrashDir)
	} else {
		mover = trash.New(info.HomeDir)
	}

	return &app{
		info:     info,
		cfg:      cfg,
		roots:    valid,
		enabled:  enabled,
		registry: registry,
		orch:     scanner.NewOrchestrator(registry),
		cleaner:  cleaner.New(security.NewGate(info.HomeDir), mover).WithProgress(prog),
		prog:     prog,
	}, nil
}

// scan runs the orchestrator with Ctrl-C cancellation and optional
// directory-level progress echo.
func (a *app) scan(parent context.Context) *scanner.Report {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if verbose {
		updates := a.prog.Subscribe()
		go func() {
			for update := range updates {
				switch p := update.(type) {
				case progress.ScanProgress:
					fmt.Fprintf(os.Stderr, "scanning %-10s %s\n", p.Category, p.CurrentDir)
				case progress.CleanProgress:
					if p.Phase == progress.PhaseCleaning {
						fmt.Fprintf(os.Stderr, "trashing (%d/%d) %s\n", p.Done, p.Total, p.CurrentPath)
					}
				}
			}
		}()
	} else {
		fmt.Fprintln(os.Stderr, "Scanning...")
	}

	report := a.orch.Run(ctx, a.roots, a.enabled)
	report.FilterMinSize(a.cfg.MinSizeBytes())
	return report
}

// selectAll builds one selection per deletable category covering every
// item, for the non-interactive path.
func (a *app) selectAll(report *scanner.Report) []cleaner.Selection {
	var selections []cleaner.Selection
	for _, entry := range a.registry {
		if !entry.Deletable {
			continue
		}
		result := report.Result(entry.Category)
		if result.Count == 0 {
			continue
		}
		selections = append(selections, cleaner.Selection{
			Category: entry.Category,
			Items:    result.Items,
		})
	}
	return selections
}

func (a *app) recordHistory(summary *cleaner.Summary) error {
	if summary.Succeeded == 0 && summary.Failed == 0 {
		return nil
	}
	var cats []string
	for _, c := range summary.Categories() {
		cats = append(cats, string(c))
	}
	return history.New(history.DefaultPath(a.info.ConfigDir)).Append(history.Entry{
		Timestamp:    time.Now(),
		FreedBytes:   summary.FreedBytes,
		ItemsDeleted: summary.Succeeded,
		Categories:   cats,
		DryRun:       summary.DryRun,
	})
}
