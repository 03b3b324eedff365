package registry

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/zeebo/blake3"

	"github.com/corvid-labs/antislop/pkg/models"
)

// ProfileFile is the on-disk TOML shape of a profile or project
// configuration file's pattern block: file_extensions, max_file_size_kb,
// exclude globs, [[patterns]], and [metadata]/extends for profile files
// specifically.
type ProfileFile struct {
	Metadata        ProfileMetadata `toml:"metadata"`
	Extends         []string        `toml:"extends"`
	FileExtensions  []string        `toml:"file_extensions"`
	MaxFileSizeKB   int64           `toml:"max_file_size_kb"`
	Exclude         []string        `toml:"exclude"`
	Patterns        []PatternFile   `toml:"patterns"`
}

// ProfileMetadata is the [metadata] table of a profile file.
type ProfileMetadata struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
}

// PatternFile is the on-disk shape of a single [[patterns]] entry.
type PatternFile struct {
	ID        string   `toml:"id"`
	Regex     string   `toml:"regex"`
	Severity  string   `toml:"severity"`
	Category  string   `toml:"category"`
	Message   string   `toml:"message"`
	Languages []string `toml:"languages"`
}

// Profile is the in-memory, named, versioned collection of patterns plus
// composition metadata, after a ProfileFile has been parsed but before
// its extends graph has been resolved.
type Profile struct {
	Name           string
	Version        string
	Description    string
	Extends        []string
	FileExtensions []string
	MaxFileSizeKB  int64
	Exclude        []string
	Patterns       []models.Pattern
}

// LoadProfileFile parses a TOML profile (or project configuration) file
// from path using go-toml, distinct from the koanf-backed Configuration
// loader used for the higher-level runtime config (see internal/config).
func LoadProfileFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.IoError{Path: path, Err: err}
	}
	return ParseProfileFile(path, data)
}

// ParseProfileFile parses raw TOML bytes into a Profile, assigning a
// stable id to any pattern that omits one.
func ParseProfileFile(source string, data []byte) (*Profile, error) {
	var pf ProfileFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return nil, &models.ConfigError{Source: source, Reason: "malformed TOML", Err: err}
	}

	p := &Profile{
		Name:           pf.Metadata.Name,
		Version:        pf.Metadata.Version,
		Description:    pf.Metadata.Description,
		Extends:        pf.Extends,
		FileExtensions: pf.FileExtensions,
		MaxFileSizeKB:  pf.MaxFileSizeKB,
		Exclude:        pf.Exclude,
	}

	for _, pat := range pf.Patterns {
		converted, err := convertPattern(source, pat)
		if err != nil {
			return nil, err
		}
		p.Patterns = append(p.Patterns, converted)
	}
	return p, nil
}

func convertPattern(source string, pf PatternFile) (models.Pattern, error) {
	sev := models.Severity(pf.Severity)
	if !sev.Valid() {
		return models.Pattern{}, &models.ConfigError{
			Source: source,
			Reason: fmt.Sprintf("pattern %q: invalid severity %q", pf.ID, pf.Severity),
			Err:    &models.InvalidSeverity{PatternID: pf.ID, Value: pf.Severity},
		}
	}
	cat := models.Category(pf.Category)
	if !cat.Valid() {
		return models.Pattern{}, &models.ConfigError{
			Source: source,
			Reason: fmt.Sprintf("pattern %q: invalid category %q", pf.ID, pf.Category),
			Err:    &models.InvalidCategory{PatternID: pf.ID, Value: pf.Category},
		}
	}

	p := models.Pattern{
		ID:        pf.ID,
		Regex:     pf.Regex,
		Severity:  sev,
		Category:  cat,
		Message:   pf.Message,
		Languages: pf.Languages,
	}
	if p.ID == "" {
		p.ID = stableID(p)
	}
	return p, nil
}

// stableID derives a pattern id from hash(regex || category || message)
// so that two otherwise-identical patterns loaded from different sources
// collide to the same id and later-wins-by-id composition can address
// them.
func stableID(p models.Pattern) string {
	h := blake3.New()
	h.Write([]byte(p.Regex))
	h.Write([]byte("\x00"))
	h.Write([]byte(p.Category))
	h.Write([]byte("\x00"))
	h.Write([]byte(p.Message))
	sum := h.Sum(nil)
	return "anon." + hex.EncodeToString(sum[:8])
}

// resolveExtends flattens name's extends DAG by depth-first traversal,
// merging patterns with duplicate-by-id later-wins semantics (a pattern
// from a profile listed later, or from the profile itself, overrides one
// inherited earlier). Cycles are rejected with *models.ProfileCycle.
func resolveExtends(name string, profiles map[string]*Profile) (*Profile, error) {
	visited := make(map[string]int) // 0=unvisited 1=in-progress 2=done
	var path []string

	var visit func(n string) (*Profile, error)
	visit = func(n string) (*Profile, error) {
		switch visited[n] {
		case 1:
			cycle := append(append([]string{}, path...), n)
			return nil, &models.ProfileCycle{Cycle: cycle}
		case 2:
			return profiles[n], nil
		}

		prof, ok := profiles[n]
		if !ok {
			return nil, &models.ConfigError{Source: n, Reason: "unknown profile reference"}
		}

		visited[n] = 1
		path = append(path, n)

		merged := &Profile{
			Name:           prof.Name,
			Version:        prof.Version,
			Description:    prof.Description,
			FileExtensions: prof.FileExtensions,
			MaxFileSizeKB:  prof.MaxFileSizeKB,
			Exclude:        prof.Exclude,
		}
		byID := make(map[string]int) // id -> index in merged.Patterns

		for _, parentName := range prof.Extends {
			parent, err := visit(parentName)
			if err != nil {
				return nil, err
			}
			for _, pat := range parent.Patterns {
				if idx, exists := byID[pat.ID]; exists {
					merged.Patterns[idx] = pat
				} else {
					byID[pat.ID] = len(merged.Patterns)
					merged.Patterns = append(merged.Patterns, pat)
				}
			}
		}
		for _, pat := range prof.Patterns {
			if idx, exists := byID[pat.ID]; exists {
				merged.Patterns[idx] = pat
			} else {
				byID[pat.ID] = len(merged.Patterns)
				merged.Patterns = append(merged.Patterns, pat)
			}
		}

		path = path[:len(path)-1]
		visited[n] = 2
		profiles[n] = merged
		return merged, nil
	}

	return visit(name)
}
