package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/treykane/ward-roster/internal/app"
	"github.com/treykane/ward-roster/internal/config"
	"github.com/treykane/ward-roster/internal/logging"
	"github.com/treykane/ward-roster/internal/records"
)

var log = logging.New("main")

type options struct {
	configPath  string
	writeConfig bool
	printWindow bool
	scroll      float64
	width       int
	height      int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	if opts.writeConfig {
		if err := writeConfig(opts.configPath, cfg); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		fmt.Fprintln(stdout, "config written")
		return 0
	}

	store := records.NewStore(cfg.PatientCount, cfg.Seed)
	if opts.printWindow {
		snap, err := app.RenderSnapshot(context.Background(), cfg, store, opts.width, opts.height, opts.scroll)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		fmt.Fprint(stdout, snap.String())
		return 0
	}

	m, err := app.New(cfg, store)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

// parseFlags loads the config file and applies command-line overrides on
// top of it. Only flags that were set override the file.
func parseFlags(args []string, stderr io.Writer) (config.Config, options, error) {
	flags := pflag.NewFlagSet("roster", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	var opts options
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.ward-roster/config.json)")
	flags.BoolVar(&opts.writeConfig, "write-config", false, "save the effective settings to the config file and exit")
	flags.BoolVar(&opts.printWindow, "print-window", false, "print the roster window for --scroll and exit")
	flags.Float64Var(&opts.scroll, "scroll", 0, "scroll offset in rows for --print-window")
	flags.IntVar(&opts.width, "width", 100, "terminal width for --print-window")
	flags.IntVar(&opts.height, "height", 30, "terminal height for --print-window")
	fixedHeight := flags.Int("fixed-height", 0, "render every row at this height (0 measures rows)")
	overscan := flags.Int("overscan", 0, "extra rows rendered past each edge of the viewport")
	pageSize := flags.Int("page-size", 0, "patients fetched per page")
	patients := flags.Int("patients", 0, "size of the mock census")
	seed := flags.Uint64("seed", 0, "seed for the mock census")

	if err := flags.Parse(args); err != nil {
		return config.Config{}, opts, err
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return config.Config{}, opts, err
	}
	if flags.Changed("fixed-height") {
		cfg.FixedRowHeight = *fixedHeight
	}
	if flags.Changed("overscan") {
		cfg.Overscan = *overscan
	}
	if flags.Changed("page-size") {
		cfg.PageSize = *pageSize
	}
	if flags.Changed("patients") {
		cfg.PatientCount = *patients
	}
	if flags.Changed("seed") {
		cfg.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, opts, err
	}
	if opts.width <= 0 || opts.height <= 0 {
		return config.Config{}, opts, fmt.Errorf("--width and --height must be > 0")
	}
	return cfg, opts, nil
}

// loadConfig reads path, or the default config location when path is empty.
// A missing file is not an error.
func loadConfig(path string) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if errors.Is(err, config.ErrNotConfigured) {
		log.Debug("no config file; using defaults", "path", path)
		return cfg, nil
	}
	return cfg, err
}

func writeConfig(path string, cfg config.Config) error {
	if path != "" {
		return config.SaveFile(path, cfg)
	}
	return config.Save(cfg)
}
