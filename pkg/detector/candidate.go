// Package detector implements the hybrid comment/stub detection pipeline:
// an AST strategy for languages with an embedded tree-sitter grammar, and
// a regex fallback for everything else, unified behind a single Detect
// entry point that also performs same-span deduplication.
package detector

import (
	"github.com/corvid-labs/antislop/pkg/models"
	"github.com/corvid-labs/antislop/pkg/registry"
)

// candidate is a detected match before position translation and
// same-span deduplication.
type candidate struct {
	Start, End  int // byte offsets into the source, [Start, End)
	MatchedText string
	PatternID   string
	Category    models.Category
	Severity    models.Severity
	Message     string
	InsertOrder int
}

// stubPatternMatches runs rs's stub-category patterns (explicit
// unimplemented markers, bare exception catches) against the raw source
// text. These apply identically whether the file is handled by the AST
// or regex-fallback strategy, since they describe a literal textual
// shape rather than anything a parse tree adds.
func stubPatternMatches(source []byte, patterns []registry.CompiledPattern, lang models.Language) []candidate {
	var out []candidate
	for _, p := range patterns {
		if !p.Pattern.AppliesTo(lang) {
			continue
		}
		for _, loc := range p.Regexp.FindAllIndex(source, -1) {
			out = append(out, candidate{
				Start:       loc[0],
				End:         loc[1],
				MatchedText: string(source[loc[0]:loc[1]]),
				PatternID:   p.ID,
				Category:    p.Category,
				Severity:    p.Severity,
				Message:     p.Message,
				InsertOrder: p.InsertOrder,
			})
		}
	}
	return out
}

// matchPatternsInSpan applies patterns to source[start:end] (a comment
// span) and returns candidates with positions translated back to
// absolute offsets into source.
func matchPatternsInSpan(source []byte, start, end int, patterns []registry.CompiledPattern, lang models.Language) []candidate {
	text := source[start:end]
	var out []candidate
	for _, p := range patterns {
		if !p.Pattern.AppliesTo(lang) {
			continue
		}
		for _, loc := range p.Regexp.FindAllIndex(text, -1) {
			out = append(out, candidate{
				Start:       start + loc[0],
				End:         start + loc[1],
				MatchedText: string(text[loc[0]:loc[1]]),
				PatternID:   p.ID,
				Category:    p.Category,
				Severity:    p.Severity,
				Message:     p.Message,
				InsertOrder: p.InsertOrder,
			})
		}
	}
	return out
}

// noOpBodyPatternID identifies the synthetic pattern used for structural
// no-op-body/statement findings, which have no backing regex.
const (
	noOpBodyPatternID      = "builtin.stub.noop_body"
	emptyFunctionPatternID = "builtin.stub.empty_function_body"
)

func noOpBodyCandidate(start, end int, source []byte, insertOrder int) candidate {
	return candidate{
		Start:       start,
		End:         end,
		MatchedText: string(source[start:end]),
		PatternID:   noOpBodyPatternID,
		Category:    models.CategoryStub,
		Severity:    models.SeverityCritical,
		Message:     "body contains only a no-op placeholder statement",
		InsertOrder: insertOrder,
	}
}

func emptyFunctionCandidate(start, end int, source []byte, insertOrder int) candidate {
	return candidate{
		Start:       start,
		End:         end,
		MatchedText: string(source[start:end]),
		PatternID:   emptyFunctionPatternID,
		Category:    models.CategoryStub,
		Severity:    models.SeverityCritical,
		Message:     "function/method body is empty",
		InsertOrder: insertOrder,
	}
}

// dedupeSameSpan keeps exactly one candidate per identical [Start, End)
// byte span: the highest-severity match, breaking ties by the lower
// registry insertion order (the earlier-registered pattern wins).
func dedupeSameSpan(candidates []candidate) []candidate {
	type key struct{ start, end int }
	best := make(map[key]candidate, len(candidates))
	order := make([]key, 0, len(candidates))

	for _, c := range candidates {
		k := key{c.Start, c.End}
		existing, ok := best[k]
		if !ok {
			best[k] = c
			order = append(order, k)
			continue
		}
		if c.Severity.Weight() > existing.Severity.Weight() ||
			(c.Severity.Weight() == existing.Severity.Weight() && c.InsertOrder < existing.InsertOrder) {
			best[k] = c
		}
	}

	out := make([]candidate, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}

// toFindings converts candidates to Findings, translating byte spans to
// 1-based, code-point-counted positions via li.
func toFindings(candidates []candidate, li *lineIndex, path string) []models.Finding {
	findings := make([]models.Finding, 0, len(candidates))
	for _, c := range candidates {
		startLine, startCol := li.position(c.Start)
		endLine, endCol := li.position(maxInt(c.Start, c.End-1))
		findings = append(findings, models.Finding{
			FilePath:    path,
			Line:        startLine,
			Column:      startCol,
			EndLine:     endLine,
			EndColumn:   endCol,
			MatchedText: c.MatchedText,
			PatternID:   c.PatternID,
			Category:    c.Category,
			Severity:    c.Severity,
			Message:     c.Message,
		}.WithInsertOrder(c.InsertOrder))
	}
	return findings
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
