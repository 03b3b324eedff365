package main

import (
	"github.com/spf13/cobra"

	"github.com/corvid-labs/antislop/internal/config"
	"github.com/corvid-labs/antislop/internal/lsp"
	"github.com/corvid-labs/antislop/pkg/detector"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Serve diagnostics over the Language Server Protocol on stdio",
	Long: `Starts a minimal language server: every textDocument/didSave
re-scans the saved file and pushes its findings as a
textDocument/publishDiagnostics notification. Intended to be launched by
an editor, not run interactively.`,
	RunE: runLSP,
}

func init() {
	rootCmd.AddCommand(lspCmd)
}

func runLSP(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadEffectiveConfig()
	if err != nil {
		return err
	}

	projectConfigPath := ""
	if found, ok := config.FindConfigFile("."); ok {
		projectConfigPath = found
	}

	profilePath, err := resolveProfileFile(flagProfile, cfg)
	if err != nil {
		return err
	}

	reg, profileName, err := buildRegistry(projectConfigPath, profilePath)
	if err != nil {
		return err
	}

	ruleset, err := reg.Compose(profileName, cfg.ComposeOptions())
	if err != nil {
		return err
	}

	server := lsp.New(detector.New(ruleset))
	return server.RunStdio()
}
