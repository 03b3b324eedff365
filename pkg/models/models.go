// Package models holds the data types shared across the scanning engine:
// patterns, profiles, findings, and scan results.
package models

// Severity is the urgency of a finding.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Weight returns the fixed severity weight used to compute a scan's score.
// These values are part of the external contract (JSON/SARIF consumers
// depend on them) and changing them is a breaking change.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 50
	case SeverityHigh:
		return 15
	case SeverityMedium:
		return 5
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// Category classifies the kind of slop a pattern detects.
type Category string

const (
	CategoryPlaceholder      Category = "placeholder"
	CategoryDeferral         Category = "deferral"
	CategoryHedging          Category = "hedging"
	CategoryStub             Category = "stub"
	CategoryNoise            Category = "noise"
	CategoryNamingConvention Category = "naming_convention"
)

// Valid reports whether c is one of the six known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPlaceholder, CategoryDeferral, CategoryHedging, CategoryStub, CategoryNoise, CategoryNamingConvention:
		return true
	default:
		return false
	}
}

// Language is a fixed, closed set of source languages the classifier can
// produce. Unknown disables AST detection but not fallback regex scanning.
type Language string

const (
	LangC          Language = "c"
	LangCPP        Language = "cpp"
	LangCSharp     Language = "csharp"
	LangGo         Language = "go"
	LangHaskell    Language = "haskell"
	LangJava       Language = "java"
	LangJavaScript Language = "javascript"
	LangKotlin     Language = "kotlin"
	LangLua        Language = "lua"
	LangPerl       Language = "perl"
	LangPHP        Language = "php"
	LangPython     Language = "python"
	LangR          Language = "r"
	LangRuby       Language = "ruby"
	LangRust       Language = "rust"
	LangScala      Language = "scala"
	LangShell      Language = "shell"
	LangSwift      Language = "swift"
	LangTypeScript Language = "typescript"
	LangUnknown    Language = "unknown"
)

// Pattern is a single detection rule: a compiled regex plus metadata.
type Pattern struct {
	ID        string   `json:"id" toml:"id"`
	Regex     string   `json:"regex" toml:"regex"`
	Severity  Severity `json:"severity" toml:"severity"`
	Category  Category `json:"category" toml:"category"`
	Message   string   `json:"message" toml:"message"`
	Languages []string `json:"languages,omitempty" toml:"languages,omitempty"`
}

// AppliesTo reports whether the pattern is restricted to specific languages
// and, if so, whether lang is one of them. An empty Languages list applies
// to every language.
func (p Pattern) AppliesTo(lang Language) bool {
	if len(p.Languages) == 0 {
		return true
	}
	for _, l := range p.Languages {
		if Language(l) == lang {
			return true
		}
	}
	return false
}

// Finding is one located occurrence of a pattern match in a file.
// Line and Column are 1-based; Column counts Unicode code points.
type Finding struct {
	FilePath    string   `json:"path"`
	Line        int      `json:"line"`
	Column      int      `json:"column"`
	EndLine     int      `json:"end_line"`
	EndColumn   int      `json:"end_column"`
	MatchedText string   `json:"matched_text"`
	PatternID   string   `json:"pattern_id"`
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`

	// insertOrder is the registry insertion order of the pattern that
	// produced this finding, used only to break same-span dedup ties.
	// Not part of the external contract.
	insertOrder int
}

// InsertOrder returns the originating pattern's registry insertion order.
func (f Finding) InsertOrder() int { return f.insertOrder }

// WithInsertOrder returns a copy of f with its insert order set.
func (f Finding) WithInsertOrder(n int) Finding {
	f.insertOrder = n
	return f
}

// CountsBySeverity tallies findings per severity bucket.
type CountsBySeverity struct {
	Low      int `json:"low"`
	Medium   int `json:"medium"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// Add increments the bucket matching sev.
func (c *CountsBySeverity) Add(sev Severity) {
	switch sev {
	case SeverityLow:
		c.Low++
	case SeverityMedium:
		c.Medium++
	case SeverityHigh:
		c.High++
	case SeverityCritical:
		c.Critical++
	}
}

// Total returns the sum of all four buckets.
func (c CountsBySeverity) Total() int {
	return c.Low + c.Medium + c.High + c.Critical
}

// ScanResult is the output of a complete scan.
type ScanResult struct {
	Findings          []Finding        `json:"findings"`
	FilesScanned      int              `json:"files_scanned"`
	FilesWithFindings int              `json:"files_with_findings"`
	TotalFindings     int              `json:"total_findings"`
	Score             int              `json:"score"`
	CountsBySeverity  CountsBySeverity `json:"by_severity"`
}

// FileWorkItem is a single file discovered by the walker and handed to a
// worker for detection. It is exclusively owned by the worker processing
// it and discarded once its findings are drained.
type FileWorkItem struct {
	AbsolutePath     string
	DetectedLanguage Language
	SizeBytes        int64
}
