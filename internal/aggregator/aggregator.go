// Package aggregator collects per-file Findings produced by the
// detector's workers into a single ScanResult: sorted, suppressed, and
// scored.
package aggregator

import (
	"sort"
	"sync"

	"github.com/corvid-labs/antislop/internal/config"
	"github.com/corvid-labs/antislop/pkg/models"
)

// Aggregator is a concurrency-safe sink workers feed findings into as
// each file finishes. It is not itself parallel; the mutex-protected
// sink is deliberately simple, guaranteeing no finding is lost even
// under concurrent AddFile calls.
type Aggregator struct {
	mu       sync.Mutex
	findings []models.Finding
	suppress []compiledSuppressRule

	filesScanned int
}

type compiledSuppressRule struct {
	path       string
	patternIDs map[string]bool // nil/empty means "every pattern"
}

// New returns an Aggregator that suppresses findings matching rules.
func New(rules []config.SuppressRule) *Aggregator {
	a := &Aggregator{}
	for _, r := range rules {
		cr := compiledSuppressRule{path: r.Path}
		if len(r.PatternIDs) > 0 {
			cr.patternIDs = make(map[string]bool, len(r.PatternIDs))
			for _, id := range r.PatternIDs {
				cr.patternIDs[id] = true
			}
		}
		a.suppress = append(a.suppress, cr)
	}
	return a
}

// AddFile records that one more file was scanned and adds its findings,
// after suppression filtering. Safe to call concurrently from worker
// goroutines.
func (a *Aggregator) AddFile(path string, findings []models.Finding) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.filesScanned++
	for _, f := range findings {
		if a.suppressed(path, f.PatternID) {
			continue
		}
		a.findings = append(a.findings, f)
	}
}

func (a *Aggregator) suppressed(path, patternID string) bool {
	for _, rule := range a.suppress {
		if !pathMatches(rule.path, path) {
			continue
		}
		if len(rule.patternIDs) == 0 {
			return true
		}
		if rule.patternIDs[patternID] {
			return true
		}
	}
	return false
}

// pathMatches reports whether a suppression rule's path is identical to
// the scanned file's path or is a leading run of its whole path
// components (so "build" matches "build/x.go" but not
// "buildtools/x.go"). Suppression rules are
// plain path prefixes rather than globs: the Walker's exclude globs
// already cover the glob-matching concern, so suppression only needs
// to address "findings I've reviewed and accepted in this file or
// directory."
func pathMatches(rulePath, filePath string) bool {
	if rulePath == filePath {
		return true
	}
	n := len(rulePath)
	return len(filePath) > n && filePath[:n] == rulePath && (rulePath[n-1] == '/' || filePath[n] == '/')
}

// Result assembles the accumulated findings into a ScanResult: sorted by
// (file, line, column), with counts and the severity-weighted score.
func (a *Aggregator) Result() models.ScanResult {
	a.mu.Lock()
	findings := append([]models.Finding(nil), a.findings...)
	filesScanned := a.filesScanned
	a.mu.Unlock()

	sort.Slice(findings, func(i, j int) bool {
		fi, fj := findings[i], findings[j]
		if fi.FilePath != fj.FilePath {
			return fi.FilePath < fj.FilePath
		}
		if fi.Line != fj.Line {
			return fi.Line < fj.Line
		}
		return fi.Column < fj.Column
	})

	filesWithFindings := make(map[string]bool)
	var counts models.CountsBySeverity
	score := 0
	for _, f := range findings {
		filesWithFindings[f.FilePath] = true
		counts.Add(f.Severity)
		score += f.Severity.Weight()
	}

	return models.ScanResult{
		Findings:          findings,
		FilesScanned:      filesScanned,
		FilesWithFindings: len(filesWithFindings),
		TotalFindings:     len(findings),
		Score:             score,
		CountsBySeverity:  counts,
	}
}
