package main

import (
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagProfile   string
	flagOnly      []string
	flagDisable   []string
	flagExt       []string
	flagMaxSizeKB int64
	flagFormat    string
	flagOutput    string
	flagNoColor   bool
	flagNoCache   bool
	flagNoGit     bool

	flagListLanguages bool
	flagPrintConfig   bool
	flagListProfiles  bool
	flagHygiene       bool
)

var rootCmd = &cobra.Command{
	Use:   "antislop [path...]",
	Short: "Scan source trees for AI slop: placeholders, hedging, and stub code",
	Long: `antislop scans a source tree for signs of unfinished or AI-generated
code: TODO/FIXME placeholders, hedging language in comments, and
structural stubs like empty catch blocks or bodies that only "pass" or
"raise NotImplementedError".

It reports one diagnostic per finding with a severity, category, and
location, plus an aggregate score for the whole scan.`,
	RunE:         runScan,
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Path to configuration file (TOML, YAML, or JSON)")
	rootCmd.Flags().StringVarP(&flagProfile, "profile", "p", "", "Profile to compose: a name under .antislop/profiles, a file path, or a URL")
	rootCmd.Flags().StringSliceVar(&flagOnly, "only", nil, "Only report these categories (comma-separated)")
	rootCmd.Flags().StringSliceVar(&flagDisable, "disable", nil, "Disable these categories (comma-separated)")
	rootCmd.Flags().StringSliceVar(&flagExt, "extensions", nil, "Restrict the scan to these file extensions (e.g. .go,.py)")
	rootCmd.Flags().Int64Var(&flagMaxSizeKB, "max-size", 0, "Skip files larger than this many KB (0 = use the configured limit, if any)")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "", "Output format: text, json, markdown, sarif")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write output to a file instead of stdout")
	rootCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "Disable colored text output")
	rootCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Disable the remote profile cache")
	rootCmd.Flags().BoolVar(&flagNoGit, "no-gitignore", false, "Do not honor .gitignore while walking")

	rootCmd.Flags().BoolVar(&flagListLanguages, "list-languages", false, "Print the recognized languages and exit")
	rootCmd.Flags().BoolVar(&flagPrintConfig, "print-config", false, "Print the resolved configuration and exit")
	rootCmd.Flags().BoolVar(&flagListProfiles, "list-profiles", false, "Print the discovered local profiles and exit")
	rootCmd.Flags().BoolVar(&flagHygiene, "hygiene", false, "Also run a golangci-lint survey and print its issue counts by linter")
}

// exitCodeFor maps a runScan error to a process exit code: 2 for any
// configuration or I/O failure severe enough to abort the scan before a
// result exists. A completed scan with findings exits 1 from inside
// runScan itself, not through an error return.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	return 2
}
