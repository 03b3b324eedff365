package models

import "fmt"

// ConfigError is fatal (exit 2): malformed TOML, unknown severity/category,
// cyclic or missing extends, or an invalid regex.
type ConfigError struct {
	Source string // file path or profile name the error came from
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("config error in %s: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IoError is per-file and non-fatal: unreadable file, missing path, or
// permission denied. It is counted and does not abort the scan.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// DetectorTimeout is per-file and non-fatal: regex or parser exceeded its
// per-file budget. The file yields no findings and is counted as
// partially scanned.
type DetectorTimeout struct {
	Path   string
	RuleID string
}

func (e *DetectorTimeout) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("%s: detector timeout (rule %s)", e.Path, e.RuleID)
	}
	return fmt.Sprintf("%s: detector timeout", e.Path)
}

// Cancelled is scan-level: an external interruption terminated the scan
// with whatever findings had already completed.
type Cancelled struct {
	Err error
}

func (e *Cancelled) Error() string { return "scan cancelled" }
func (e *Cancelled) Unwrap() error { return e.Err }

// RenderError is produced by renderers, never by the core.
type RenderError struct {
	Format string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render (%s): %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ProfileCycle reports that a profile's extends graph is cyclic.
type ProfileCycle struct {
	Cycle []string
}

func (e *ProfileCycle) Error() string {
	s := "profile cycle detected:"
	for i, name := range e.Cycle {
		if i > 0 {
			s += " ->"
		}
		s += " " + name
	}
	return s
}

// InvalidRegex reports a pattern whose regex failed to compile, or whose
// compile-time probe indicated catastrophic backtracking risk.
type InvalidRegex struct {
	Pattern string
	Reason  string
	Err     error
}

func (e *InvalidRegex) Error() string {
	return fmt.Sprintf("invalid regex %q: %s", e.Pattern, e.Reason)
}

func (e *InvalidRegex) Unwrap() error { return e.Err }

// InvalidSeverity reports a pattern with an unrecognized severity value.
type InvalidSeverity struct {
	PatternID string
	Value     string
}

func (e *InvalidSeverity) Error() string {
	return fmt.Sprintf("pattern %s: invalid severity %q", e.PatternID, e.Value)
}

// InvalidCategory reports a pattern with an unrecognized category value.
type InvalidCategory struct {
	PatternID string
	Value     string
}

func (e *InvalidCategory) Error() string {
	return fmt.Sprintf("pattern %s: invalid category %q", e.PatternID, e.Value)
}
