// locgen — locale hierarchy generator: computes fallback parents, minimal
// override sets and a per-language resolution dispatcher from a directory
// of locale resource files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minios-linux/locgen/bundle"
	"github.com/minios-linux/locgen/config"
	"github.com/minios-linux/locgen/emit"
	"github.com/minios-linux/locgen/genlock"
	"github.com/minios-linux/locgen/hierarchy"
	"github.com/minios-linux/locgen/i18n"
	"github.com/minios-linux/locgen/loader"
	"github.com/minios-linux/locgen/resolve"
	"github.com/minios-linux/locgen/validate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "locgen",
		Short: "Locale hierarchy and fallback dispatcher generator",
		Long: `locgen — locale hierarchy generator.

Reads per-locale resource files (JSON or YAML), computes for every locale
its fallback parent and the minimal set of values it overrides, and
generates a deterministic dispatcher that resolves any (language, script,
country) triple to the most specific locale present in the data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&rootDir, "directory", "C", ".",
		"project root directory")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newGenerateCmd())

	return root
}

func main() {
	i18n.Init("") // auto-detect from LANGUAGE/LC_ALL/LC_MESSAGES/LANG

	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("locgen version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// init (scaffold project configuration)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .locgen.yaml with default settings",
		Long: `Write a .locgen.yaml configuration file into the project root and
create the locales directory if it does not exist. Refuses to overwrite
an existing configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}

	return cmd
}

func runInit() error {
	cfg := config.Default()
	if err := cfg.Write(rootDir); err != nil {
		return err
	}
	logSuccess(i18n.T("Created %s"), filepath.Join(rootDir, config.FileName))

	dir := filepath.Join(rootDir, cfg.LocalesDir)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		logSuccess(i18n.T("Created %s"), dir)
	}

	return nil
}

// ---------------------------------------------------------------------------
// check (validate the locale set without generating)
// ---------------------------------------------------------------------------

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the locale set against the baseline",
		Long: `Load every locale file and verify the baseline contract: the baseline
locale exists, declares attribute metadata for each of its keys, and
covers every key any other locale uses. Exits non-zero on the first
violation without producing any output file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, err := loadAndValidate()
			if err != nil {
				return err
			}
			logSuccess(i18n.T("Validation passed"))
			return nil
		},
	}

	return cmd
}

// loadAndValidate runs the shared front half of every pipeline: config,
// loader, validator.
func loadAndValidate() (*config.Config, *loaderResult, error) {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return nil, nil, err
	}

	dir := filepath.Join(rootDir, cfg.LocalesDir)
	set, err := loader.LoadDir(dir, cfg.Baseline)
	if err != nil {
		return nil, nil, err
	}
	n := len(set.Locales())
	logInfo(i18n.N("Loaded %d locale", "Loaded %d locales", n), n)

	if err := validate.Check(set); err != nil {
		return nil, nil, err
	}

	return cfg, &loaderResult{dir: dir, set: set}, nil
}

type loaderResult struct {
	dir string
	set *bundle.Set
}

// ---------------------------------------------------------------------------
// status (read-only: project info + locale coverage)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show project info and locale coverage",
		Long: `Show the project configuration, the computed language hierarchy and
per-locale coverage relative to the baseline. Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}

	return cmd
}

func runStatus() error {
	cfg, res, err := loadAndValidate()
	if err != nil {
		return err
	}

	forest, err := hierarchy.Build(res.set)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n%sProject%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	absRoot, _ := filepath.Abs(rootDir)
	fmt.Fprintf(os.Stderr, "  Root:       %s\n", absRoot)
	fmt.Fprintf(os.Stderr, "  Locales:    %s\n", cfg.LocalesDir)
	fmt.Fprintf(os.Stderr, "  Baseline:   %s\n", cfg.Baseline)
	fmt.Fprintf(os.Stderr, "  Output:     %s (%s)\n", cfg.Output, cfg.Format)
	fmt.Fprintf(os.Stderr, "  Languages:  %s\n", strings.Join(forest.Languages(), ", "))
	fmt.Fprintln(os.Stderr)

	// Coverage per locale, with the fallback chain next to each bar.
	fmt.Fprintf(os.Stderr, "%sCoverage%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	report := validate.Stats(res.set)
	for _, st := range report.Locales {
		pct := 100
		if report.BaselineKeys > 0 {
			pct = (report.BaselineKeys - st.Missing) * 100 / report.BaselineKeys
		}
		chain := forest.Chain(st.Locale)
		parts := make([]string, len(chain))
		for i, k := range chain {
			parts[i] = k.Raw
		}
		fmt.Fprintf(os.Stderr, "  %-14s %s  %s\n",
			st.Locale, progressBar(pct, 20), strings.Join(parts, " → "))
	}
	fmt.Fprintln(os.Stderr)

	// Staleness relative to the last generation.
	lf, err := genlock.Load(rootDir)
	if err != nil {
		return err
	}
	hashes, err := genlock.HashDir(res.dir)
	if err != nil {
		return err
	}
	if stale := lf.StaleInputs(hashes); len(stale) > 0 {
		logWarning("%d file(s) changed since last generation: %s",
			len(stale), strings.Join(stale, ", "))
	} else {
		logInfo("No input changes since last generation")
	}

	return nil
}

// progressBar renders a fixed-width colored bar for a 0-100 percentage.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := percent * width / 100
	color := colorGreen
	switch {
	case percent < 50:
		color = colorRed
	case percent < 100:
		color = colorYellow
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s%s%s %3d%%", color, bar, colorReset, percent)
}

// ---------------------------------------------------------------------------
// generate (the full pipeline)
// ---------------------------------------------------------------------------

func newGenerateCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate the locale hierarchy artifact",
		Long: `Run the full pipeline: load locale files, validate them, build the
fallback hierarchy and the per-language resolution tables, and write the
generated artifact.

When the inputs are unchanged since the last run (tracked in locgen.lock)
nothing is written; use --force to regenerate anyway.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false,
		"regenerate even when inputs are unchanged")

	return cmd
}

func runGenerate(force bool) error {
	cfg, res, err := loadAndValidate()
	if err != nil {
		return err
	}

	forest, err := hierarchy.Build(res.set)
	if err != nil {
		return err
	}
	resolver := resolve.New(forest)

	var artifact []byte
	switch cfg.Format {
	case "json":
		artifact, err = emit.JSON(forest, resolver)
		if err != nil {
			return err
		}
	default:
		artifact = emit.Go(forest, resolver, emit.Options{Package: cfg.Package})
	}

	if cfg.Output == "-" {
		_, err := os.Stdout.Write(artifact)
		return err
	}

	lf, err := genlock.Load(rootDir)
	if err != nil {
		return err
	}
	hashes, err := genlock.HashDir(res.dir)
	if err != nil {
		return err
	}

	outPath := filepath.Join(rootDir, cfg.Output)
	if !force && lf.UpToDate(hashes, genlock.Hash(artifact)) {
		if _, err := os.Stat(outPath); err == nil {
			logInfo(i18n.T("Everything up to date, nothing to generate"))
			return nil
		}
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(outPath, artifact, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	lf.Record(hashes, genlock.Hash(artifact))
	if err := lf.Save(); err != nil {
		return err
	}

	logSuccess(i18n.T("Generated %s"), outPath)
	return nil
}
