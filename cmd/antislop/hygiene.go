package main

import (
	"context"
	"fmt"

	"github.com/corvid-labs/antislop/internal/hygiene"
	"github.com/corvid-labs/antislop/internal/output"
)

// printHygieneSurvey runs the golangci-lint survey against dir and
// writes a one-line-per-linter summary, so the scan's findings can be
// read alongside what a conventional linter already caught rather than
// in place of it.
func printHygieneSurvey(dir string, f *output.Formatter) error {
	summary, err := hygiene.Survey(context.Background(), dir)
	if err != nil {
		return err
	}
	w := f.Writer()

	if !summary.Available {
		fmt.Fprintln(w, "\nhygiene survey: golangci-lint not found on PATH, skipped")
		return nil
	}

	fmt.Fprintf(w, "\nhygiene survey: %d golangci-lint issue(s)\n", summary.Total)
	for _, name := range summary.LinterNames() {
		fmt.Fprintf(w, "  %-20s %d\n", name, summary.ByLinter[name])
	}
	return nil
}
