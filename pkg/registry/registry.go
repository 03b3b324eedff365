// Package registry implements the Pattern Registry & Profile Composer: it
// loads pattern definitions from built-ins, profile files, and project
// configuration, resolves profile inheritance, and compiles the result
// into a runnable CompiledRuleset shared read-only by every detector.
package registry

import (
	"path/filepath"
	"regexp"
	"time"

	"github.com/corvid-labs/antislop/pkg/models"
)

// compileTimeout bounds how long a single regex is allowed to take to
// compile, guarding against catastrophic-backtracking patterns being
// accepted at load time.
const compileTimeout = 2 * time.Second

// Registry holds every pattern known after loading, keyed by profile name
// (the empty-string key "" holds the built-in/project-level baseline
// patterns that apply regardless of which profile is composed).
type Registry struct {
	profiles map[string]*Profile
}

// Source is a single pattern source to merge into the registry, in
// increasing precedence order: built-ins first, then profile files, then
// the project configuration file.
type Source struct {
	Name string // profile name this source contributes to; "" for baseline
	File *ProfileFile
}

// NewRegistry returns a Registry seeded with only the embedded built-in
// defaults under the baseline ("") profile.
func NewRegistry() *Registry {
	r := &Registry{profiles: map[string]*Profile{}}
	r.profiles[""] = &Profile{Name: "", Patterns: builtinPatterns()}
	return r
}

// Load merges pattern definitions from sources into the registry, in
// precedence order: (1) built-in defaults (already present from
// NewRegistry), (2) profile files, (3) the project configuration file.
// Each source's own pattern list overrides earlier
// ones loaded into the same named profile by pattern id.
func Load(sources ...*Profile) (*Registry, error) {
	r := NewRegistry()
	for _, p := range sources {
		if err := r.merge(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// AddProfile registers or merges a parsed Profile under its own name.
func (r *Registry) AddProfile(p *Profile) error {
	return r.merge(p)
}

func (r *Registry) merge(p *Profile) error {
	name := p.Name
	existing, ok := r.profiles[name]
	if !ok {
		cp := *p
		r.profiles[name] = &cp
		return nil
	}

	merged := *existing
	merged.Extends = p.Extends
	if len(p.FileExtensions) > 0 {
		merged.FileExtensions = p.FileExtensions
	}
	if p.MaxFileSizeKB != 0 {
		merged.MaxFileSizeKB = p.MaxFileSizeKB
	}
	if len(p.Exclude) > 0 {
		merged.Exclude = append(merged.Exclude, p.Exclude...)
	}

	byID := make(map[string]int, len(merged.Patterns))
	for i, pat := range merged.Patterns {
		byID[pat.ID] = i
	}
	for _, pat := range p.Patterns {
		if idx, exists := byID[pat.ID]; exists {
			merged.Patterns[idx] = pat
		} else {
			byID[pat.ID] = len(merged.Patterns)
			merged.Patterns = append(merged.Patterns, pat)
		}
	}
	r.profiles[name] = &merged
	return nil
}

// CompiledPattern is a Pattern whose regex has been compiled and whose
// registry insertion order is fixed, for same-span dedup tie-breaking.
type CompiledPattern struct {
	models.Pattern
	Regexp      *regexp.Regexp
	InsertOrder int
}

// CompiledRuleset is the immutable, shared-read-only output of
// composition: every pattern a scan will evaluate, split by whether it
// applies to comment text or is a structural stub pattern.
type CompiledRuleset struct {
	CommentPatterns []CompiledPattern
	StubPatterns    []CompiledPattern

	FileExtensions []string
	Exclude        []string
	MaxFileSizeKB  int64
}

// ComposeOptions controls category filtering applied after profile
// flattening: only/disable category filters apply last.
type ComposeOptions struct {
	Only    []models.Category
	Disable []models.Category
}

// Compose resolves profileName's extends DAG, flattens its pattern list
// against the baseline built-ins, applies only/disable category filters,
// and compiles every surviving pattern's regex. profileName may be ""
// to compose just the baseline.
func (r *Registry) Compose(profileName string, opts ComposeOptions) (*CompiledRuleset, error) {
	baseline := r.profiles[""]

	var flattened *Profile
	if profileName == "" {
		flattened = baseline
	} else {
		resolved, err := resolveExtends(profileName, r.profiles)
		if err != nil {
			return nil, err
		}
		merged := *resolved
		byID := make(map[string]int, len(baseline.Patterns)+len(resolved.Patterns))
		var patterns []models.Pattern
		for _, pat := range baseline.Patterns {
			byID[pat.ID] = len(patterns)
			patterns = append(patterns, pat)
		}
		for _, pat := range resolved.Patterns {
			if idx, exists := byID[pat.ID]; exists {
				patterns[idx] = pat
			} else {
				byID[pat.ID] = len(patterns)
				patterns = append(patterns, pat)
			}
		}
		merged.Patterns = patterns
		if len(resolved.FileExtensions) > 0 {
			merged.FileExtensions = resolved.FileExtensions
		} else {
			merged.FileExtensions = baseline.FileExtensions
		}
		merged.Exclude = append(append([]string{}, baseline.Exclude...), resolved.Exclude...)
		if merged.MaxFileSizeKB == 0 {
			merged.MaxFileSizeKB = baseline.MaxFileSizeKB
		}
		flattened = &merged
	}

	filtered := applyFilters(flattened.Patterns, opts)

	ruleset := &CompiledRuleset{
		FileExtensions: flattened.FileExtensions,
		Exclude:        flattened.Exclude,
		MaxFileSizeKB:  flattened.MaxFileSizeKB,
	}

	for i, pat := range filtered {
		compiled, err := compilePattern(pat)
		if err != nil {
			return nil, err
		}
		cp := CompiledPattern{Pattern: pat, Regexp: compiled, InsertOrder: i}
		if pat.Category == models.CategoryStub {
			ruleset.StubPatterns = append(ruleset.StubPatterns, cp)
		} else {
			ruleset.CommentPatterns = append(ruleset.CommentPatterns, cp)
		}
	}
	return ruleset, nil
}

func applyFilters(patterns []models.Pattern, opts ComposeOptions) []models.Pattern {
	if len(opts.Only) == 0 && len(opts.Disable) == 0 {
		return patterns
	}
	only := toSet(opts.Only)
	disable := toSet(opts.Disable)

	var out []models.Pattern
	for _, p := range patterns {
		if len(only) > 0 && !only[p.Category] {
			continue
		}
		if disable[p.Category] {
			continue
		}
		out = append(out, p)
	}
	return out
}

func toSet(cats []models.Category) map[models.Category]bool {
	s := make(map[models.Category]bool, len(cats))
	for _, c := range cats {
		s[c] = true
	}
	return s
}

// compilePattern compiles pat.Regex, running the compile on a bounded
// goroutine so a pathological pattern cannot hang registry loading
// indefinitely (the regexp/syntax compile itself is not preemptible, so
// this is a best-effort budget, not a hard kill).
func compilePattern(pat models.Pattern) (*regexp.Regexp, error) {
	type result struct {
		re  *regexp.Regexp
		err error
	}
	done := make(chan result, 1)
	go func() {
		re, err := regexp.Compile(pat.Regex)
		done <- result{re, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, &models.InvalidRegex{Pattern: pat.Regex, Reason: r.err.Error(), Err: r.err}
		}
		return r.re, nil
	case <-time.After(compileTimeout):
		return nil, &models.InvalidRegex{Pattern: pat.Regex, Reason: "compilation exceeded timeout (possible catastrophic backtracking)"}
	}
}

// DiscoverProjectConfig searches, in order, for antislop.toml,
// .antislop.toml, and .antislop in dir, returning the first that exists.
func DiscoverProjectConfig(dir string) (string, bool) {
	for _, name := range []string{"antislop.toml", ".antislop.toml", ".antislop"} {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
