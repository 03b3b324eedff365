package detector

import (
	"github.com/corvid-labs/antislop/pkg/models"
	"github.com/corvid-labs/antislop/pkg/registry"
)

// fallbackState is one state of the byte-classifying state machine that
// finds comment spans when no tree-sitter grammar is available. There is
// no separate escape state: stateString skips an escaped byte inline.
type fallbackState int

const (
	stateCode fallbackState = iota
	stateLineComment
	stateBlockComment
	stateString
)

// stringDelim describes one quoting form a language supports; Escape is
// 0 when that quote form has no escape character (e.g. shell single
// quotes).
type stringDelim struct {
	Open, Close string
	Escape      byte
}

// delimiterTable is a per-language table of comment and string
// delimiters driving the fallback state machine. The same state machine
// code runs for every language; only this table varies.
type delimiterTable struct {
	LineComments []string
	BlockOpen    string
	BlockClose   string
	Strings      []stringDelim
}

var delimiterTables = map[models.Language]delimiterTable{
	models.LangGo: {
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		Strings: []stringDelim{{`"`, `"`, '\\'}, {"`", "`", 0}},
	},
	models.LangC: {
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		Strings: []stringDelim{{`"`, `"`, '\\'}, {"'", "'", '\\'}},
	},
	models.LangCPP: {
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		Strings: []stringDelim{{`"`, `"`, '\\'}, {"'", "'", '\\'}},
	},
	models.LangCSharp: {
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		Strings: []stringDelim{{`"`, `"`, '\\'}, {"'", "'", '\\'}},
	},
	models.LangJava: {
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		Strings: []stringDelim{{`"`, `"`, '\\'}, {"'", "'", '\\'}},
	},
	models.LangJavaScript: {
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		Strings: []stringDelim{{`"`, `"`, '\\'}, {"'", "'", '\\'}, {"`", "`", '\\'}},
	},
	models.LangTypeScript: {
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		Strings: []stringDelim{{`"`, `"`, '\\'}, {"'", "'", '\\'}, {"`", "`", '\\'}},
	},
	models.LangRust: {
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		Strings: []stringDelim{{`"`, `"`, '\\'}},
	},
	models.LangPHP: {
		LineComments: []string{"//", "#"},
		BlockOpen:    "/*", BlockClose: "*/",
		Strings: []stringDelim{{`"`, `"`, '\\'}, {"'", "'", '\\'}},
	},
	models.LangPython: {
		LineComments: []string{"#"},
		Strings:      []stringDelim{{`"""`, `"""`, '\\'}, {"'''", "'''", '\\'}, {`"`, `"`, '\\'}, {"'", "'", '\\'}},
	},
	models.LangRuby: {
		LineComments: []string{"#"},
		Strings:      []stringDelim{{`"`, `"`, '\\'}, {"'", "'", '\\'}},
	},
	models.LangShell: {
		LineComments: []string{"#"},
		Strings:      []stringDelim{{`"`, `"`, '\\'}, {"'", "'", 0}},
	},
	models.LangLua: {
		LineComments: []string{"--"},
		BlockOpen:    "--[[", BlockClose: "]]",
		Strings: []stringDelim{{`"`, `"`, '\\'}, {"'", "'", '\\'}},
	},
}

func hasPrefixAt(source []byte, pos int, prefix string) bool {
	if prefix == "" {
		return false
	}
	if pos+len(prefix) > len(source) {
		return false
	}
	return string(source[pos:pos+len(prefix)]) == prefix
}

// commentSpan is a [Start, End) byte range recognized as comment text by
// the fallback state machine.
type commentSpan struct{ Start, End int }

// findCommentSpans runs the delimiter-table-driven state machine over
// source, returning every line/block comment span found. Languages with
// no registered delimiter table (fallback-only languages this pack has
// no grammar or table for) yield no comment spans: their files still get
// the file-wide stub-text patterns, just no comment-text matching.
func findCommentSpans(source []byte, lang models.Language) []commentSpan {
	table, ok := delimiterTables[lang]
	if !ok {
		return nil
	}

	var spans []commentSpan
	state := stateCode
	var activeString stringDelim
	commentStart := 0
	pos := 0
	n := len(source)

	for pos < n {
		switch state {
		case stateCode:
			// Block openers are tried first: Lua's "--[[" starts with its
			// line-comment marker "--".
			if table.BlockOpen != "" && hasPrefixAt(source, pos, table.BlockOpen) {
				state = stateBlockComment
				commentStart = pos
				pos += len(table.BlockOpen)
				continue
			}
			matched := false
			for _, lc := range table.LineComments {
				if hasPrefixAt(source, pos, lc) {
					state = stateLineComment
					commentStart = pos
					pos += len(lc)
					matched = true
					break
				}
			}
			if matched {
				continue
			}
			for _, sd := range table.Strings {
				if hasPrefixAt(source, pos, sd.Open) {
					state = stateString
					activeString = sd
					pos += len(sd.Open)
					matched = true
					break
				}
			}
			if matched {
				continue
			}
			pos++

		case stateLineComment:
			if source[pos] == '\n' {
				spans = append(spans, commentSpan{commentStart, pos})
				state = stateCode
				pos++
				continue
			}
			pos++
			if pos == n {
				spans = append(spans, commentSpan{commentStart, pos})
			}

		case stateBlockComment:
			if hasPrefixAt(source, pos, table.BlockClose) {
				pos += len(table.BlockClose)
				spans = append(spans, commentSpan{commentStart, pos})
				state = stateCode
				continue
			}
			pos++
			if pos == n {
				spans = append(spans, commentSpan{commentStart, pos})
			}

		case stateString:
			if activeString.Escape != 0 && source[pos] == activeString.Escape && pos+1 < n {
				pos += 2
				continue
			}
			if hasPrefixAt(source, pos, activeString.Close) {
				pos += len(activeString.Close)
				state = stateCode
				continue
			}
			pos++
		}
	}

	return spans
}

// detectFallback runs the regex-fallback strategy: stub-category
// patterns apply to the whole file, comment-category patterns apply
// only within spans the state machine classifies as comments. This
// strategy has no access to a parse tree, so it cannot evaluate the
// structural no-op-body check; it may also produce false positives
// inside string literals the delimiter table doesn't model exactly,
// a documented caveat rather than a defect.
func detectFallback(source []byte, lang models.Language, rs *registry.CompiledRuleset) []candidate {
	var candidates []candidate
	candidates = append(candidates, stubPatternMatches(source, rs.StubPatterns, lang)...)

	for _, span := range findCommentSpans(source, lang) {
		candidates = append(candidates, matchPatternsInSpan(source, span.Start, span.End, rs.CommentPatterns, lang)...)
	}

	return candidates
}
