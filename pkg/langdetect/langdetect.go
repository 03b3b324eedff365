// Package langdetect maps a file path to one of the scanner's closed set
// of supported languages. The mapping is a pure function of the path (and,
// for extensionless shebang-bearing files, the first line of content).
package langdetect

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/corvid-labs/antislop/pkg/models"
)

// byExtension maps a lowercased extension (including the leading dot) to a
// Language. Ties are resolved by specificity: more specific extensions
// (e.g. .tsx) must be checked before less specific ones, which this map
// naturally satisfies since lookups are exact-match on the full extension.
var byExtension = map[string]models.Language{
	".c":     models.LangC,
	".h":     models.LangC,
	".cc":    models.LangCPP,
	".cpp":   models.LangCPP,
	".cxx":   models.LangCPP,
	".hpp":   models.LangCPP,
	".hxx":   models.LangCPP,
	".hh":    models.LangCPP,
	".cs":    models.LangCSharp,
	".go":    models.LangGo,
	".hs":    models.LangHaskell,
	".lhs":   models.LangHaskell,
	".java":  models.LangJava,
	".js":    models.LangJavaScript,
	".jsx":   models.LangJavaScript,
	".mjs":   models.LangJavaScript,
	".cjs":   models.LangJavaScript,
	".kt":    models.LangKotlin,
	".kts":   models.LangKotlin,
	".lua":   models.LangLua,
	".pl":    models.LangPerl,
	".pm":    models.LangPerl,
	".php":   models.LangPHP,
	".phtml": models.LangPHP,
	".py":    models.LangPython,
	".pyw":   models.LangPython,
	".pyi":   models.LangPython,
	".r":     models.LangR,
	".rb":    models.LangRuby,
	".rake":  models.LangRuby,
	".rs":    models.LangRust,
	".scala": models.LangScala,
	".sc":    models.LangScala,
	".sh":    models.LangShell,
	".bash":  models.LangShell,
	".zsh":   models.LangShell,
	".swift": models.LangSwift,
	".ts":    models.LangTypeScript,
	".tsx":   models.LangTypeScript,
}

// byBasename handles extensionless or conventionally-named files.
var byBasename = map[string]models.Language{
	"dockerfile": models.LangShell,
	"makefile":   models.LangUnknown,
}

var shebangInterpreters = map[string]models.Language{
	"sh":      models.LangShell,
	"bash":    models.LangShell,
	"zsh":     models.LangShell,
	"python":  models.LangPython,
	"python3": models.LangPython,
	"perl":    models.LangPerl,
	"ruby":    models.LangRuby,
	"node":    models.LangJavaScript,
}

// Classify determines the Language of path without reading its content.
func Classify(path string) models.Language {
	base := strings.ToLower(filepath.Base(path))
	ext := strings.ToLower(filepath.Ext(base))

	if lang, ok := byExtension[ext]; ok {
		return lang
	}
	if lang, ok := byBasename[base]; ok {
		return lang
	}
	return models.LangUnknown
}

// ClassifyFile is like Classify but, for extensionless files, consults the
// shebang line of the file's content to resolve the interpreter.
func ClassifyFile(path string) models.Language {
	if lang := Classify(path); lang != models.LangUnknown {
		return lang
	}
	if filepath.Ext(path) != "" {
		return models.LangUnknown
	}

	f, err := os.Open(path)
	if err != nil {
		return models.LangUnknown
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 4096), 4096)
	if !scanner.Scan() {
		return models.LangUnknown
	}
	return ClassifyShebang(scanner.Text())
}

// ClassifyShebang inspects a shebang line (e.g. "#!/usr/bin/env python3")
// and returns the interpreter's language, or Unknown if unrecognized.
func ClassifyShebang(firstLine string) models.Language {
	if !strings.HasPrefix(firstLine, "#!") {
		return models.LangUnknown
	}
	line := strings.TrimPrefix(firstLine, "#!")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return models.LangUnknown
	}

	interp := fields[0]
	if filepath.Base(interp) == "env" && len(fields) > 1 {
		interp = fields[1]
	} else {
		interp = filepath.Base(interp)
	}
	interp = strings.ToLower(interp)

	if lang, ok := shebangInterpreters[interp]; ok {
		return lang
	}
	return models.LangUnknown
}

// HasGrammar reports whether Language has an embedded tree-sitter grammar
// available (a "parse-capable" language per the capability-set design).
// Languages without a grammar are fallback-only: the detector still scans
// them with the regex strategy if their extension is in the allowlist.
func HasGrammar(lang models.Language) bool {
	switch lang {
	case models.LangC, models.LangCPP, models.LangCSharp, models.LangGo,
		models.LangJava, models.LangJavaScript, models.LangLua, models.LangPHP,
		models.LangPython, models.LangRuby, models.LangRust, models.LangShell,
		models.LangTypeScript:
		return true
	default:
		return false
	}
}
