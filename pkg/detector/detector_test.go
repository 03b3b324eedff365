package detector

import (
	"testing"

	"github.com/corvid-labs/antislop/pkg/models"
	"github.com/corvid-labs/antislop/pkg/parser"
	"github.com/corvid-labs/antislop/pkg/registry"
)

func testRuleset(t *testing.T) *registry.CompiledRuleset {
	t.Helper()
	rs, err := registry.NewRegistry().Compose("", registry.ComposeOptions{})
	if err != nil {
		t.Fatalf("compose baseline ruleset: %v", err)
	}
	return rs
}

func findByCategory(t *testing.T, findings []models.Finding, cat models.Category) models.Finding {
	t.Helper()
	for _, f := range findings {
		if f.Category == cat {
			return f
		}
	}
	t.Fatalf("no finding with category %q among %d findings: %+v", cat, len(findings), findings)
	return models.Finding{}
}

// a.py: a module whose entire body is a TODO comment followed by a bare
// "pass" — two findings, a placeholder on the comment and a critical stub
// on the no-op module body.
func TestDetectPythonTodoAndBarePass(t *testing.T) {
	source := []byte("# TODO: later\npass\n")
	rs := testRuleset(t)
	d := New(rs)
	psr := parser.New()
	defer psr.Close()

	findings, err := d.Detect(psr, "a.py", models.LangPython, source)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("want 2 findings, got %d: %+v", len(findings), findings)
	}

	todo := findByCategory(t, findings, models.CategoryPlaceholder)
	if todo.Line != 1 || todo.Column != 3 {
		t.Errorf("TODO finding at (%d,%d), want (1,3)", todo.Line, todo.Column)
	}
	if todo.Severity != models.SeverityMedium {
		t.Errorf("TODO severity = %s, want medium", todo.Severity)
	}

	stub := findByCategory(t, findings, models.CategoryStub)
	if stub.Line != 2 || stub.Column != 1 {
		t.Errorf("pass finding at (%d,%d), want (2,1)", stub.Line, stub.Column)
	}
	if stub.Severity != models.SeverityCritical {
		t.Errorf("pass severity = %s, want critical", stub.Severity)
	}

	score := todo.Severity.Weight() + stub.Severity.Weight()
	if score != 55 {
		t.Errorf("combined score = %d, want 55", score)
	}
}

// b.rs: a function whose body is exactly an explicit todo!() macro call —
// one critical stub finding, not doubled up with a structural no-op match.
func TestDetectRustTodoMacro(t *testing.T) {
	source := []byte("fn x() { todo!() }\n")
	rs := testRuleset(t)
	d := New(rs)
	psr := parser.New()
	defer psr.Close()

	findings, err := d.Detect(psr, "b.rs", models.LangRust, source)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("want 1 finding, got %d: %+v", len(findings), findings)
	}

	f := findings[0]
	if f.Category != models.CategoryStub || f.Severity != models.SeverityCritical {
		t.Errorf("got category=%s severity=%s, want stub/critical", f.Category, f.Severity)
	}
	if f.Line != 1 || f.Column != 10 {
		t.Errorf("finding at (%d,%d), want (1,10)", f.Line, f.Column)
	}
}

// c.js: a try block whose catch swallows the error silently — one high
// stub finding on the empty catch, regardless of AST availability.
func TestDetectJSEmptyCatch(t *testing.T) {
	source := []byte("function f(){try{g()}catch(e){}}\n")
	rs := testRuleset(t)
	d := New(rs)
	psr := parser.New()
	defer psr.Close()

	findings, err := d.Detect(psr, "c.js", models.LangJavaScript, source)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("want 1 finding, got %d: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.Category != models.CategoryStub || f.Severity != models.SeverityHigh {
		t.Errorf("got category=%s severity=%s, want stub/high", f.Category, f.Severity)
	}
}

// A TODO-shaped word living inside a string literal is not a comment: the
// AST strategy must not flag it, and the regex fallback's delimiter table
// correctly tracks the string so it doesn't either.
func TestDetectStringLiteralNotFlaggedAsComment(t *testing.T) {
	source := []byte(`const s = "// TODO fix this";` + "\n")
	rs := testRuleset(t)

	psr := parser.New()
	defer psr.Close()
	astFindings, err := New(rs).Detect(psr, "d.js", models.LangJavaScript, source)
	if err != nil {
		t.Fatalf("Detect (AST): %v", err)
	}
	if len(astFindings) != 0 {
		t.Errorf("AST strategy: want 0 findings, got %d: %+v", len(astFindings), astFindings)
	}

	fallbackCandidates := detectFallback(source, models.LangJavaScript, rs)
	if len(fallbackCandidates) != 0 {
		t.Errorf("fallback strategy: want 0 candidates, got %d: %+v", len(fallbackCandidates), fallbackCandidates)
	}
}

// A language with no registered delimiter table still gets file-wide stub
// pattern matching from the fallback strategy, just no comment matching.
func TestDetectFallbackUnknownLanguageNoCommentSpans(t *testing.T) {
	source := []byte("# TODO unsupported language comment\n")
	spans := findCommentSpans(source, models.LangHaskell)
	if spans != nil {
		t.Errorf("want nil comment spans for a language with no delimiter table, got %v", spans)
	}

	candidates := detectFallback(source, models.LangHaskell, testRuleset(t))
	if len(candidates) != 0 {
		t.Errorf("want 0 candidates (no stub-category match here), got %+v", candidates)
	}
}

func TestDedupeSameSpanKeepsHighestSeverity(t *testing.T) {
	candidates := []candidate{
		{Start: 0, End: 5, Severity: models.SeverityLow, PatternID: "a", InsertOrder: 0},
		{Start: 0, End: 5, Severity: models.SeverityCritical, PatternID: "b", InsertOrder: 1},
		{Start: 0, End: 5, Severity: models.SeverityHigh, PatternID: "c", InsertOrder: 2},
	}
	out := dedupeSameSpan(candidates)
	if len(out) != 1 {
		t.Fatalf("want 1 deduped candidate, got %d", len(out))
	}
	if out[0].PatternID != "b" {
		t.Errorf("kept pattern %q, want the critical one (b)", out[0].PatternID)
	}
}

func TestDedupeSameSpanTieBreaksByInsertOrder(t *testing.T) {
	candidates := []candidate{
		{Start: 0, End: 5, Severity: models.SeverityHigh, PatternID: "second", InsertOrder: 3},
		{Start: 0, End: 5, Severity: models.SeverityHigh, PatternID: "first", InsertOrder: 1},
	}
	out := dedupeSameSpan(candidates)
	if len(out) != 1 || out[0].PatternID != "first" {
		t.Fatalf("want the lower insert-order pattern to win, got %+v", out)
	}
}

func TestLineIndexPositionASCII(t *testing.T) {
	source := []byte("abc\ndef\nghi")
	li := newLineIndex(source)

	cases := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{0, 1, 1},
		{3, 1, 4},
		{4, 2, 1},
		{7, 2, 4},
		{8, 3, 1},
	}
	for _, c := range cases {
		line, col := li.position(c.offset)
		if line != c.wantLine || col != c.wantCol {
			t.Errorf("position(%d) = (%d,%d), want (%d,%d)", c.offset, line, col, c.wantLine, c.wantCol)
		}
	}
}

func TestLineIndexPositionUnicodeColumns(t *testing.T) {
	// "héllo" has a 2-byte 'é' at byte offset 1; the 'l' that follows it
	// is one code point in, not two bytes in.
	source := []byte("héllo\n")
	li := newLineIndex(source)

	line, col := li.position(3) // first 'l', after h(1) + é(2 bytes)
	if line != 1 || col != 3 {
		t.Errorf("position of first 'l' = (%d,%d), want (1,3)", line, col)
	}
}

func TestDetectEmptyFile(t *testing.T) {
	rs := testRuleset(t)
	d := New(rs)
	psr := parser.New()
	defer psr.Close()

	findings, err := d.Detect(psr, "empty.go", models.LangGo, []byte(""))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("want 0 findings for an empty file, got %+v", findings)
	}
}
