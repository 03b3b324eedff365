// Package hygiene surveys what a conventional linter already caught, so
// a scan can report its own findings alongside (not instead of) that
// signal. It shells out to golangci-lint with a CommandContext, captured
// stdout, and a dedicated parser for the tool's own output shape.
package hygiene

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
)

// Summary counts golangci-lint issues by the linter that raised them.
type Summary struct {
	Total     int            `json:"total"`
	ByLinter  map[string]int `json:"by_linter"`
	Available bool           `json:"available"`
}

type golangciReport struct {
	Issues []struct {
		FromLinter string `json:"FromLinter"`
	} `json:"Issues"`
}

// Survey runs `golangci-lint run --out-format json` against dir and
// summarizes the result. Available is false, with no error, when
// golangci-lint isn't on $PATH: hygiene survey is a best-effort
// complement to the scan, not a hard dependency of it.
func Survey(ctx context.Context, dir string) (*Summary, error) {
	binPath, err := exec.LookPath("golangci-lint")
	if err != nil {
		return &Summary{ByLinter: map[string]int{}, Available: false}, nil
	}

	cmd := exec.CommandContext(ctx, binPath, "run", "--out-format", "json")
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// golangci-lint exits non-zero when it finds issues, which is not a
	// failure of the survey itself; only a JSON-decode failure is.
	_ = cmd.Run()

	var report golangciReport
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		return nil, fmt.Errorf("parse golangci-lint output: %w (stderr: %s)", err, stderr.String())
	}

	summary := &Summary{ByLinter: map[string]int{}, Available: true}
	for _, issue := range report.Issues {
		summary.Total++
		summary.ByLinter[issue.FromLinter]++
	}
	return summary, nil
}

// LinterNames returns the linters that reported at least one issue,
// sorted for stable output.
func (s *Summary) LinterNames() []string {
	names := make([]string, 0, len(s.ByLinter))
	for name := range s.ByLinter {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
