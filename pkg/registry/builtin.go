package registry

import "github.com/corvid-labs/antislop/pkg/models"

// builtinPatterns is the set of patterns embedded in the binary, merged
// first (lowest precedence) into every composed ruleset. The wording is
// grounded on the marker vocabulary of self-admitted technical debt
// scanners (TODO/FIXME/HACK/XXX) and on hedging phrasing observed in
// code left behind by hurried or AI-assisted edits ("for now", "should
// work", "simplified").
//
// Patterns loaded from a profile file without an explicit ID are assigned
// one from hash(regex || category || message) at load time (see stableID
// in profile.go).
func builtinPatterns() []models.Pattern {
	var all []models.Pattern
	all = append(all, placeholderPatterns()...)
	all = append(all, deferralPatterns()...)
	all = append(all, hedgingPatterns()...)
	all = append(all, noisePatterns()...)
	all = append(all, namingConventionPatterns()...)
	all = append(all, stubTextPatterns()...)
	all = append(all, bareCatchPatterns...)
	return all
}

// placeholderPatterns match literal incomplete-work markers left in
// comments: TODO, FIXME, HACK, XXX and the like.
func placeholderPatterns() []models.Pattern {
	return []models.Pattern{
		{
			ID:       "builtin.placeholder.todo",
			Regex:    `(?i)\bTODO\b`,
			Severity: models.SeverityMedium,
			Category: models.CategoryPlaceholder,
			Message:  "TODO marker left in source",
		},
		{
			ID:       "builtin.placeholder.fixme",
			Regex:    `(?i)\bFIXME\b`,
			Severity: models.SeverityHigh,
			Category: models.CategoryPlaceholder,
			Message:  "FIXME marker indicates known-broken code",
		},
		{
			ID:       "builtin.placeholder.xxx",
			Regex:    `(?i)\bXXX\b`,
			Severity: models.SeverityMedium,
			Category: models.CategoryPlaceholder,
			Message:  "XXX marker left in source",
		},
		{
			ID:       "builtin.placeholder.hack",
			Regex:    `(?i)\b(HACK|KLUDGE)\b`,
			Severity: models.SeverityMedium,
			Category: models.CategoryPlaceholder,
			Message:  "HACK/KLUDGE marker indicates a known workaround",
		},
		{
			ID:       "builtin.placeholder.placeholder",
			Regex:    `(?i)\bplaceholder\b`,
			Severity: models.SeverityMedium,
			Category: models.CategoryPlaceholder,
			Message:  "explicit placeholder marker",
		},
		{
			ID:       "builtin.placeholder.stub_comment",
			Regex:    `(?i)\bstub\b(?:\s+(?:implementation|function|method|out))?`,
			Severity: models.SeverityMedium,
			Category: models.CategoryPlaceholder,
			Message:  "comment admits a stub implementation",
		},
	}
}

// deferralPatterns match language the author used to defer real work to
// later ("for now", "temporarily", "in the meantime").
func deferralPatterns() []models.Pattern {
	return []models.Pattern{
		{
			ID:       "builtin.deferral.for_now",
			Regex:    `(?i)\bfor now\b`,
			Severity: models.SeverityMedium,
			Category: models.CategoryDeferral,
			Message:  `"for now" defers real work to an unspecified later change`,
		},
		{
			ID:       "builtin.deferral.temporary",
			Regex:    `(?i)\b(temporarily|temporary|in the meantime)\b`,
			Severity: models.SeverityMedium,
			Category: models.CategoryDeferral,
			Message:  "temporary workaround admitted in comment",
		},
		{
			ID:       "builtin.deferral.will_fix_later",
			Regex:    `(?i)\b(will (fix|add|implement|handle)|fix (this|it) later|later on)\b`,
			Severity: models.SeverityMedium,
			Category: models.CategoryDeferral,
			Message:  "deferred follow-up work with no tracked owner",
		},
		{
			ID:       "builtin.deferral.keeping_simple",
			Regex:    `(?i)\bkeeping (it |this )?simple for now\b`,
			Severity: models.SeverityMedium,
			Category: models.CategoryDeferral,
			Message:  "scope intentionally narrowed and deferred",
		},
		{
			ID:       "builtin.deferral.revisit",
			Regex:    `(?i)\b(revisit|come back to) this\b`,
			Severity: models.SeverityLow,
			Category: models.CategoryDeferral,
			Message:  "comment defers a decision to a future revisit",
		},
	}
}

// hedgingPatterns match uncertain, unverified, or apologetic phrasing
// that commonly accompanies under-tested or under-thought-through code.
func hedgingPatterns() []models.Pattern {
	return []models.Pattern{
		{
			ID:       "builtin.hedging.should_work",
			Regex:    `(?i)\bshould work\b`,
			Severity: models.SeverityHigh,
			Category: models.CategoryHedging,
			Message:  `"should work" is an unverified claim about correctness`,
		},
		{
			ID:       "builtin.hedging.probably",
			Regex:    `(?i)\bprobably\b`,
			Severity: models.SeverityLow,
			Category: models.CategoryHedging,
			Message:  "hedge word signals unverified behavior",
		},
		{
			ID:       "builtin.hedging.i_think",
			Regex:    `(?i)\bI (think|believe|assume)\b`,
			Severity: models.SeverityMedium,
			Category: models.CategoryHedging,
			Message:  "first-person hedge suggests the author did not verify this",
		},
		{
			ID:       "builtin.hedging.simplified",
			Regex:    `(?i)\b(simplified|simplistic|simplification)\b`,
			Severity: models.SeverityMedium,
			Category: models.CategoryHedging,
			Message:  "comment admits a simplified stand-in for the real behavior",
		},
		{
			ID:       "builtin.hedging.for_simplicity",
			Regex:    `(?i)\bfor simplicity\b`,
			Severity: models.SeverityLow,
			Category: models.CategoryHedging,
			Message:  "scope reduced for simplicity, possibly dropping required behavior",
		},
		{
			ID:       "builtin.hedging.basic_implementation",
			Regex:    `(?i)\bbasic (implementation|version|filter|approach)\b`,
			Severity: models.SeverityMedium,
			Category: models.CategoryHedging,
			Message:  "comment admits a minimal stand-in implementation",
		},
		{
			ID:       "builtin.hedging.real_implementation",
			Regex:    `(?i)\b(real|actual|production) implementation would\b`,
			Severity: models.SeverityHigh,
			Category: models.CategoryHedging,
			Message:  "comment admits the present code is not the real implementation",
		},
		{
			ID:       "builtin.hedging.not_fully",
			Regex:    `(?i)\bnot (fully|completely|properly) (implemented|tested|supported|handled)\b`,
			Severity: models.SeverityHigh,
			Category: models.CategoryHedging,
			Message:  "comment admits incomplete implementation or test coverage",
		},
		{
			ID:       "builtin.hedging.might_not_work",
			Regex:    `(?i)\bmight not work\b`,
			Severity: models.SeverityHigh,
			Category: models.CategoryHedging,
			Message:  "explicit admission of uncertain correctness",
		},
	}
}

// noisePatterns match filler commentary that carries no information about
// the code's behavior: restated obviousness, excessive apology, or
// narration of the edit itself rather than of the resulting code.
func noisePatterns() []models.Pattern {
	return []models.Pattern{
		{
			ID:       "builtin.noise.note_to_self",
			Regex:    `(?i)\b(note to self|just log for now|for debugging)\b`,
			Severity: models.SeverityLow,
			Category: models.CategoryNoise,
			Message:  "narration of the editing process rather than the code's behavior",
		},
		{
			ID:       "builtin.noise.as_an_ai",
			Regex:    `(?i)\b(as an ai|as a language model|I cannot actually)\b`,
			Severity: models.SeverityHigh,
			Category: models.CategoryNoise,
			Message:  "generation artifact leaked into source comments",
		},
		{
			ID:       "builtin.noise.sorry",
			Regex:    `(?i)\b(sorry|apologies) (for|about)\b`,
			Severity: models.SeverityLow,
			Category: models.CategoryNoise,
			Message:  "apology in comment carries no information about behavior",
		},
	}
}

// namingConventionPatterns flag generically-named identifiers that are a
// common tell of scaffolded or auto-generated code (tmp, foo, data2,
// helper, result2). These are deliberately conservative: word-boundary
// matches against an exact, short deny-list rather than a broad heuristic,
// since identifier names are otherwise legitimately project-specific.
func namingConventionPatterns() []models.Pattern {
	return []models.Pattern{
		{
			ID:       "builtin.naming.generic_tmp",
			Regex:    `(?i)\b(tmp|temp)[0-9]*\s*=`,
			Severity: models.SeverityLow,
			Category: models.CategoryNamingConvention,
			Message:  "generic temporary-variable name suggests scaffolded code",
		},
		{
			ID:       "builtin.naming.foo_bar",
			Regex:    `\b(foo|bar|baz|qux)\d*\s*[:=]`,
			Severity: models.SeverityLow,
			Category: models.CategoryNamingConvention,
			Message:  "placeholder identifier name (foo/bar/baz) left in shipped code",
		},
		{
			ID:       "builtin.naming.numbered_rename",
			Regex:    `\b\w+(?:2|_2|New|Copy)\s*[:=]\s*\w+\(`,
			Severity: models.SeverityLow,
			Category: models.CategoryNamingConvention,
			Message:  "numbered/duplicate-suffixed name suggests an unreconciled copy-paste",
		},
	}
}

// stubTextPatterns are the textual (not structural) half of stub
// detection: explicit "unimplemented" markers that both the AST and the
// regex-fallback strategies match anywhere in the file's text. These carry
// critical severity per the structural stub contract.
func stubTextPatterns() []models.Pattern {
	return []models.Pattern{
		{
			ID:       "builtin.stub.rust_todo_macro",
			Regex:    `\btodo!\s*\(\s*\)`,
			Severity: models.SeverityCritical,
			Category: models.CategoryStub,
			Message:  "todo!() marks this path as explicitly unimplemented",
			Languages: []string{string("rust")},
		},
		{
			ID:       "builtin.stub.rust_unimplemented_macro",
			Regex:    `\bunimplemented!\s*\(\s*\)`,
			Severity: models.SeverityCritical,
			Category: models.CategoryStub,
			Message:  "unimplemented!() marks this path as explicitly unimplemented",
			Languages: []string{string("rust")},
		},
		{
			ID:       "builtin.stub.python_not_implemented",
			Regex:    `\braise\s+NotImplementedError\b`,
			Severity: models.SeverityCritical,
			Category: models.CategoryStub,
			Message:  "raises NotImplementedError instead of providing a real body",
			Languages: []string{string("python")},
		},
		{
			ID:       "builtin.stub.js_throw_not_implemented",
			Regex:    `(?i)throw\s+new\s+Error\(\s*['"` + "`" + `]not implemented`,
			Severity: models.SeverityCritical,
			Category: models.CategoryStub,
			Message:  `throws "not implemented" instead of providing a real body`,
			Languages: []string{string("javascript"), string("typescript")},
		},
		{
			ID:       "builtin.stub.go_panic_not_implemented",
			Regex:    `(?i)panic\(\s*["` + "`" + `]not implemented`,
			Severity: models.SeverityCritical,
			Category: models.CategoryStub,
			Message:  `panics with "not implemented" instead of providing a real body`,
			Languages: []string{string("go")},
		},
	}
}
