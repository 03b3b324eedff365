package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/antislop/internal/aggregator"
	"github.com/corvid-labs/antislop/internal/config"
	"github.com/corvid-labs/antislop/internal/output"
	"github.com/corvid-labs/antislop/internal/progress"
	"github.com/corvid-labs/antislop/internal/walker"
	"github.com/corvid-labs/antislop/pkg/detector"
	"github.com/corvid-labs/antislop/pkg/models"
	"github.com/corvid-labs/antislop/pkg/parser"
	"github.com/corvid-labs/antislop/pkg/registry"
)

// fileResult pairs one walked file's path with the findings DetectFile
// produced for it, so MapFiles' generic result slice can be routed into
// the Aggregator per-file.
type fileResult struct {
	Path     string
	Findings []models.Finding
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, cfgSource, err := loadEffectiveConfig()
	if err != nil {
		return err
	}

	if flagListLanguages {
		return printLanguages(cmd)
	}
	if flagListProfiles {
		return printLocalProfiles(cmd)
	}
	if flagPrintConfig {
		return printConfig(cmd, cfg, cfgSource)
	}

	profilePath, err := resolveProfileFile(flagProfile, cfg)
	if err != nil {
		return err
	}

	projectConfigPath := ""
	if found, ok := config.FindConfigFile("."); ok {
		projectConfigPath = found
	}

	reg, profileName, err := buildRegistry(projectConfigPath, profilePath)
	if err != nil {
		return err
	}

	composeOpts := cfg.ComposeOptions()
	ruleset, err := reg.Compose(profileName, composeOpts)
	if err != nil {
		return err
	}

	paths := getPaths(args)
	items, err := walkPaths(paths, cfg, ruleset)
	if err != nil {
		return err
	}

	agg := aggregator.New(cfg.Suppress)

	if len(items) > 0 {
		det := detector.New(ruleset)
		tracker := progress.NewTracker("Scanning", len(items))

		results, procErrs := walker.MapFiles(context.Background(), items, tracker.WalkerProgressFunc(),
			func(psr *parser.Parser, item models.FileWorkItem) (fileResult, error) {
				findings, err := det.DetectFile(psr, item)
				if err != nil {
					return fileResult{}, err
				}
				return fileResult{Path: item.AbsolutePath, Findings: findings}, nil
			})

		if procErrs != nil && procErrs.HasErrors() {
			tracker.FinishError(procErrs)
			for _, pe := range procErrs.Errors {
				fmt.Fprintf(os.Stderr, "antislop: %s\n", pe.Error())
			}
		} else {
			tracker.FinishSuccess()
		}

		for _, r := range results {
			agg.AddFile(r.Path, r.Findings)
		}
	}

	result := agg.Result()

	formatter, err := output.NewFormatter(output.ParseFormat(cfg.Output.Format), flagOutput, cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	report := &output.ScanReport{Result: result}
	if err := formatter.Output(report); err != nil {
		return err
	}

	if flagHygiene {
		if err := printHygieneSurvey(paths[0], formatter); err != nil {
			return err
		}
	}

	if result.TotalFindings > 0 {
		os.Exit(1)
	}
	return nil
}

// loadEffectiveConfig loads configuration per --config (or discovery),
// then overlays the flags the user actually set, so a flag always wins
// over a file value.
func loadEffectiveConfig() (*config.Config, string, error) {
	var opts []config.LoadOption
	if flagConfig != "" {
		opts = append(opts, config.WithPath(flagConfig))
	}
	res, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, "", err
	}
	cfg := res.Config

	if len(flagOnly) > 0 {
		cfg.Only = flagOnly
	}
	if len(flagDisable) > 0 {
		cfg.Disable = flagDisable
	}
	if flagNoGit {
		cfg.Gitignore = false
	}
	if flagNoCache {
		cfg.Cache.Enabled = false
	}
	if flagFormat != "" {
		cfg.Output.Format = flagFormat
	}
	if flagNoColor {
		cfg.Output.Color = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", &models.ConfigError{Source: res.Source, Reason: "validation failed after applying flags", Err: err}
	}
	return cfg, res.Source, nil
}

func getPaths(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

func walkPaths(paths []string, cfg *config.Config, ruleset *registry.CompiledRuleset) ([]models.FileWorkItem, error) {
	maxSizeKB := ruleset.MaxFileSizeKB
	if flagMaxSizeKB > 0 {
		maxSizeKB = flagMaxSizeKB
	}
	ext := ruleset.FileExtensions
	if len(flagExt) > 0 {
		ext = flagExt
	}

	w := walker.New(walker.Options{
		Exclude:          ruleset.Exclude,
		RespectGitignore: cfg.Gitignore,
		MaxFileSizeKB:    maxSizeKB,
		Extensions:       ext,
	})

	var all []models.FileWorkItem
	for _, p := range paths {
		items, err := w.Walk(p)
		if err != nil {
			return nil, &models.IoError{Path: p, Err: err}
		}
		all = append(all, items...)
	}
	return all, nil
}

func printLanguages(cmd *cobra.Command) error {
	langs := []models.Language{
		models.LangC, models.LangCPP, models.LangCSharp, models.LangGo,
		models.LangHaskell, models.LangJava, models.LangJavaScript,
		models.LangKotlin, models.LangLua, models.LangPerl, models.LangPHP,
		models.LangPython, models.LangR, models.LangRuby, models.LangRust,
		models.LangScala, models.LangShell, models.LangSwift, models.LangTypeScript,
	}
	w := cmd.OutOrStdout()
	for _, l := range langs {
		fmt.Fprintln(w, string(l))
	}
	return nil
}

func printLocalProfiles(cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	entries, err := os.ReadDir(localProfileDir)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "no profiles found under %s\n", localProfileDir)
		return nil
	}
	if err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".toml" {
			names = append(names, e.Name()[:len(e.Name())-len(".toml")])
		}
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
	return nil
}

// printConfig writes the resolved configuration as a pure JSON document
// on stdout; where it was loaded from is diagnostic information and goes
// to stderr instead. Config has no json tags, so the keys are the Go
// field names: a later --config load of the saved file (with a .json
// extension) matches most of them case-insensitively, but not
// Cache.TTLHours or a suppress rule's PatternIDs, whose config keys are
// ttl_hours and pattern_ids.
func printConfig(cmd *cobra.Command, cfg *config.Config, source string) error {
	if source != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "# loaded from %s\n", source)
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), "# no configuration file found; using defaults")
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}
