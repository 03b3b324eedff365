package models

import "testing"

func TestSeverityWeight(t *testing.T) {
	cases := []struct {
		sev  Severity
		want int
	}{
		{SeverityLow, 1},
		{SeverityMedium, 5},
		{SeverityHigh, 15},
		{SeverityCritical, 50},
		{Severity("bogus"), 0},
	}
	for _, c := range cases {
		if got := c.sev.Weight(); got != c.want {
			t.Errorf("Severity(%q).Weight() = %d, want %d", c.sev, got, c.want)
		}
	}
}

func TestCountsBySeverityTotal(t *testing.T) {
	var c CountsBySeverity
	c.Add(SeverityLow)
	c.Add(SeverityLow)
	c.Add(SeverityMedium)
	c.Add(SeverityCritical)
	if c.Total() != 4 {
		t.Errorf("Total() = %d, want 4", c.Total())
	}
	if c.Low != 2 || c.Medium != 1 || c.Critical != 1 {
		t.Errorf("unexpected bucket values: %+v", c)
	}
}

func TestPatternAppliesTo(t *testing.T) {
	p := Pattern{ID: "p1"}
	if !p.AppliesTo(LangGo) {
		t.Error("pattern with no language restriction should apply to every language")
	}

	p.Languages = []string{"python", "ruby"}
	if p.AppliesTo(LangGo) {
		t.Error("pattern restricted to python/ruby should not apply to go")
	}
	if !p.AppliesTo(LangPython) {
		t.Error("pattern restricted to python/ruby should apply to python")
	}
}

func TestCategoryValid(t *testing.T) {
	valid := []Category{CategoryPlaceholder, CategoryDeferral, CategoryHedging, CategoryStub, CategoryNoise, CategoryNamingConvention}
	for _, c := range valid {
		if !c.Valid() {
			t.Errorf("Category(%q).Valid() = false, want true", c)
		}
	}
	if Category("bogus").Valid() {
		t.Error("bogus category should be invalid")
	}
}
