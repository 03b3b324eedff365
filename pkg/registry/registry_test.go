package registry

import (
	"testing"

	"github.com/corvid-labs/antislop/pkg/models"
)

func TestComposeBaselineIncludesBuiltins(t *testing.T) {
	r := NewRegistry()
	rs, err := r.Compose("", ComposeOptions{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(rs.CommentPatterns) == 0 {
		t.Fatal("expected built-in comment patterns to be present")
	}
	if len(rs.StubPatterns) == 0 {
		t.Fatal("expected built-in stub patterns to be present")
	}
}

func TestComposeExtendsLaterWinsByID(t *testing.T) {
	r := NewRegistry()
	base := &Profile{
		Name: "base",
		Patterns: []models.Pattern{
			{ID: "shared", Regex: "foo", Severity: models.SeverityLow, Category: models.CategoryNoise, Message: "from base"},
		},
	}
	child := &Profile{
		Name:    "child",
		Extends: []string{"base"},
		Patterns: []models.Pattern{
			{ID: "shared", Regex: "foo", Severity: models.SeverityCritical, Category: models.CategoryNoise, Message: "from child"},
		},
	}
	if err := r.AddProfile(base); err != nil {
		t.Fatalf("AddProfile(base): %v", err)
	}
	if err := r.AddProfile(child); err != nil {
		t.Fatalf("AddProfile(child): %v", err)
	}

	rs, err := r.Compose("child", ComposeOptions{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	var found *CompiledPattern
	for i := range rs.CommentPatterns {
		if rs.CommentPatterns[i].ID == "shared" {
			found = &rs.CommentPatterns[i]
		}
	}
	if found == nil {
		t.Fatal("expected pattern 'shared' to survive composition")
	}
	if found.Message != "from child" {
		t.Errorf("Message = %q, want %q (child should win by id)", found.Message, "from child")
	}
}

func TestComposeExtendsCycleDetected(t *testing.T) {
	r := NewRegistry()
	p := &Profile{Name: "p", Extends: []string{"q"}}
	q := &Profile{Name: "q", Extends: []string{"p"}}
	if err := r.AddProfile(p); err != nil {
		t.Fatalf("AddProfile(p): %v", err)
	}
	if err := r.AddProfile(q); err != nil {
		t.Fatalf("AddProfile(q): %v", err)
	}

	_, err := r.Compose("p", ComposeOptions{})
	if err == nil {
		t.Fatal("expected ProfileCycle error")
	}
	if _, ok := err.(*models.ProfileCycle); !ok {
		t.Errorf("err = %T, want *models.ProfileCycle", err)
	}
}

func TestComposeOnlyDisableFilters(t *testing.T) {
	r := NewRegistry()
	rs, err := r.Compose("", ComposeOptions{Only: []models.Category{models.CategoryPlaceholder}})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	for _, p := range rs.CommentPatterns {
		if p.Category != models.CategoryPlaceholder {
			t.Fatalf("found category %q with --only placeholder in effect", p.Category)
		}
	}

	rs2, err := r.Compose("", ComposeOptions{Disable: []models.Category{models.CategoryHedging}})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	for _, p := range rs2.CommentPatterns {
		if p.Category == models.CategoryHedging {
			t.Fatal("found disabled category hedging in composed ruleset")
		}
	}
}

func TestStableIDDeterministic(t *testing.T) {
	p := models.Pattern{Regex: "foo", Category: models.CategoryNoise, Message: "m"}
	id1 := stableID(p)
	id2 := stableID(p)
	if id1 != id2 {
		t.Errorf("stableID not deterministic: %q != %q", id1, id2)
	}

	other := models.Pattern{Regex: "bar", Category: models.CategoryNoise, Message: "m"}
	if stableID(other) == id1 {
		t.Error("distinct regex produced the same stable id")
	}
}

func TestParseProfileFileInvalidSeverity(t *testing.T) {
	src := []byte(`
[metadata]
name = "bad"

[[patterns]]
id = "x"
regex = "foo"
severity = "extreme"
category = "noise"
message = "m"
`)
	_, err := ParseProfileFile("bad.toml", src)
	if err == nil {
		t.Fatal("expected error for invalid severity")
	}
}

func TestIsNoOpBody(t *testing.T) {
	if !IsNoOpBody(models.LangPython, "pass") {
		t.Error("python 'pass' should be a no-op body")
	}
	if IsNoOpBody(models.LangPython, "return compute()") {
		t.Error("python body calling compute() should not be a no-op body")
	}
	if !IsNoOpBody(models.LangRust, ";") {
		t.Error("rust ';' should be a no-op body")
	}
}
