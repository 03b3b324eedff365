package registry

import (
	"strings"

	"github.com/corvid-labs/antislop/pkg/models"
)

// NoOpStatement is a single idiomatic "do nothing" statement form that, as
// the sole statement in a function/method body, makes that body a stub.
// The set is conservative and fixed per language in noOpStatements below;
// a profile cannot add to it. A profile's own stub-category [[patterns]]
// entries are regexes matched against the whole file's text, not entries
// of this set.
type NoOpStatement struct {
	// Text is matched against the trimmed source text of a body that
	// contains exactly one statement (ignoring a single trailing
	// semicolon/newline). It is a literal, not a regex, except where
	// noted by HasPrefix below.
	Text string
	// HasPrefix, when true, means Text is a prefix match rather than an
	// exact match (for forms followed by arguments). No built-in entry
	// sets it.
	HasPrefix bool
}

// noOpStatements enumerates, per language, the idiomatic bodies that
// amount to "no real work happens here." Grounded on the glossary's
// definition of Stub ("a function/method whose body is absent,
// placeholder, or an explicit unimplemented marker") and extended with
// each language's conventional single-statement placeholder.
var noOpStatements = map[models.Language][]NoOpStatement{
	models.LangPython: {
		{Text: "pass"},
		{Text: "...", HasPrefix: false},
		{Text: "return None"},
		{Text: "return"},
	},
	models.LangGo: {
		{Text: "return nil"},
		{Text: "return"},
		{Text: "panic(\"unimplemented\")"},
		{Text: "panic(\"not implemented\")"},
	},
	models.LangRust: {
		{Text: ";"},
		{Text: "return None"},
		{Text: "None"},
		{Text: "Default::default()"},
		{Text: "()"},
	},
	models.LangJavaScript: {
		{Text: "return undefined"},
		{Text: "return null"},
		{Text: "return"},
	},
	models.LangTypeScript: {
		{Text: "return undefined"},
		{Text: "return null"},
		{Text: "return"},
	},
	models.LangJava: {
		{Text: "return null"},
		{Text: "return;"},
	},
	models.LangCSharp: {
		{Text: "return null;"},
		{Text: "return default;"},
		{Text: "throw new NotImplementedException();"},
	},
	models.LangC: {
		{Text: "return 0;"},
		{Text: "return;"},
	},
	models.LangCPP: {
		{Text: "return 0;"},
		{Text: "return;"},
	},
	models.LangRuby: {
		{Text: "nil"},
	},
	models.LangPHP: {
		{Text: "return null;"},
		{Text: "return;"},
	},
	models.LangLua: {
		{Text: "return nil"},
		{Text: "return"},
	},
}

// NoOpStatementsFor returns the no-op body forms registered for lang, or
// nil if the language has none configured (AST stub detection simply
// skips the no-op-body check for such languages, still catching explicit
// unimplemented markers and bare-catch blocks).
func NoOpStatementsFor(lang models.Language) []NoOpStatement {
	return noOpStatements[lang]
}

// IsNoOpBody reports whether the trimmed source text of a single-statement
// function body matches one of lang's idiomatic no-op forms.
func IsNoOpBody(lang models.Language, trimmedBody string) bool {
	withoutSemicolon := strings.TrimSuffix(trimmedBody, ";")
	for _, noop := range noOpStatements[lang] {
		if noop.HasPrefix {
			if len(trimmedBody) >= len(noop.Text) && trimmedBody[:len(noop.Text)] == noop.Text {
				return true
			}
			continue
		}
		if trimmedBody == noop.Text || withoutSemicolon == noop.Text {
			return true
		}
	}
	return false
}

// bareCatchPatterns are regexes describing a language's "swallow the error
// silently" idiom: an empty catch/except/rescue block. Grounded on the
// shape of exception-handling bad-smell detectors that flag empty catch
// bodies rather than bare excepts in general.
var bareCatchPatterns = []models.Pattern{
	{
		ID:       "builtin.stub.empty_catch_brace",
		Regex:    `(?s)catch\s*\([^)]*\)\s*\{\s*\}`,
		Severity: models.SeverityHigh,
		Category: models.CategoryStub,
		Message:  "catch block discards the error with no handling",
		Languages: []string{
			string(models.LangJava), string(models.LangJavaScript), string(models.LangTypeScript),
			string(models.LangCSharp), string(models.LangC), string(models.LangCPP), string(models.LangPHP),
		},
	},
	{
		ID:       "builtin.stub.python_bare_except_pass",
		Regex:    `(?s)except\s*(?:[^:\n]+)?:\s*\n\s*pass\b`,
		Severity: models.SeverityHigh,
		Category: models.CategoryStub,
		Message:  "except block discards the error with only pass",
		Languages: []string{string(models.LangPython)},
	},
	{
		ID:       "builtin.stub.ruby_rescue_nil",
		Regex:    `(?s)rescue(?:\s*=>\s*\w+)?\s*\n?\s*nil\s*\n\s*end\b`,
		Severity: models.SeverityHigh,
		Category: models.CategoryStub,
		Message:  "rescue block discards the error and returns nil",
		Languages: []string{string(models.LangRuby)},
	},
}

// BareCatchPatterns returns the registered bare-exception-catch patterns.
func BareCatchPatterns() []models.Pattern {
	return bareCatchPatterns
}
