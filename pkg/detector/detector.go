package detector

import (
	"os"

	"github.com/corvid-labs/antislop/pkg/langdetect"
	"github.com/corvid-labs/antislop/pkg/models"
	"github.com/corvid-labs/antislop/pkg/parser"
	"github.com/corvid-labs/antislop/pkg/registry"
)

// Detector evaluates a CompiledRuleset against a single file, selecting
// the AST or regex-fallback strategy by grammar availability (a
// capability-set question, not a branch on language identity).
type Detector struct {
	ruleset *registry.CompiledRuleset
}

// New returns a Detector bound to ruleset, shared read-only across every
// worker for the duration of a scan.
func New(ruleset *registry.CompiledRuleset) *Detector {
	return &Detector{ruleset: ruleset}
}

// DetectFile reads path, parses it with psr if a grammar is available
// for item's language, and returns every surviving Finding after
// same-span deduplication. A parse error degrades to the regex-fallback
// strategy rather than failing the file outright, per the AST strategy's
// "parse errors are recoverable" contract.
func (d *Detector) DetectFile(psr *parser.Parser, item models.FileWorkItem) ([]models.Finding, error) {
	source, err := os.ReadFile(item.AbsolutePath)
	if err != nil {
		return nil, &models.IoError{Path: item.AbsolutePath, Err: err}
	}
	return d.Detect(psr, item.AbsolutePath, item.DetectedLanguage, source)
}

// Detect evaluates source (already in memory, classified as lang) and
// returns deduplicated, position-translated Findings for path.
func (d *Detector) Detect(psr *parser.Parser, path string, lang models.Language, source []byte) ([]models.Finding, error) {
	var candidates []candidate

	if langdetect.HasGrammar(lang) {
		result, err := psr.Parse(source, lang, path)
		if err == nil {
			candidates = detectAST(result, d.ruleset)
		} else {
			candidates = detectFallback(source, lang, d.ruleset)
		}
	} else {
		candidates = detectFallback(source, lang, d.ruleset)
	}

	deduped := dedupeSameSpan(candidates)
	li := newLineIndex(source)
	return toFindings(deduped, li, path), nil
}
