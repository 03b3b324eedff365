package aggregator

import (
	"sync"
	"testing"

	"github.com/corvid-labs/antislop/internal/config"
	"github.com/corvid-labs/antislop/pkg/models"
)

func finding(path string, line, col int, sev models.Severity, patternID string) models.Finding {
	return models.Finding{
		FilePath:  path,
		Line:      line,
		Column:    col,
		EndLine:   line,
		EndColumn: col,
		PatternID: patternID,
		Category:  models.CategoryStub,
		Severity:  sev,
	}
}

func TestResultSortsByFileLineColumn(t *testing.T) {
	a := New(nil)
	a.AddFile("b.go", []models.Finding{finding("b.go", 1, 1, models.SeverityLow, "p1")})
	a.AddFile("a.go", []models.Finding{
		finding("a.go", 2, 1, models.SeverityLow, "p1"),
		finding("a.go", 1, 5, models.SeverityLow, "p1"),
		finding("a.go", 1, 2, models.SeverityLow, "p1"),
	})

	result := a.Result()
	want := []string{"a.go:1:2", "a.go:1:5", "a.go:2:1", "b.go:1:1"}
	if len(result.Findings) != len(want) {
		t.Fatalf("got %d findings, want %d", len(result.Findings), len(want))
	}
	for i, f := range result.Findings {
		got := f.FilePath + ":" + itoa(f.Line) + ":" + itoa(f.Column)
		if got != want[i] {
			t.Errorf("findings[%d] = %s, want %s", i, got, want[i])
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestResultComputesScoreAndCounts(t *testing.T) {
	a := New(nil)
	a.AddFile("a.py", []models.Finding{
		finding("a.py", 1, 3, models.SeverityMedium, "p1"),
		finding("a.py", 2, 1, models.SeverityCritical, "p2"),
	})

	result := a.Result()
	if result.Score != 55 {
		t.Errorf("score = %d, want 55", result.Score)
	}
	if result.CountsBySeverity.Medium != 1 || result.CountsBySeverity.Critical != 1 {
		t.Errorf("counts = %+v, want 1 medium + 1 critical", result.CountsBySeverity)
	}
	if result.TotalFindings != 2 {
		t.Errorf("total = %d, want 2", result.TotalFindings)
	}
	if result.FilesWithFindings != 1 {
		t.Errorf("files with findings = %d, want 1", result.FilesWithFindings)
	}
	if result.FilesScanned != 1 {
		t.Errorf("files scanned = %d, want 1", result.FilesScanned)
	}
}

func TestFilesWithFindingsLessThanOrEqualFilesScanned(t *testing.T) {
	a := New(nil)
	a.AddFile("clean.go", nil)
	a.AddFile("dirty.go", []models.Finding{finding("dirty.go", 1, 1, models.SeverityLow, "p1")})

	result := a.Result()
	if result.FilesScanned != 2 {
		t.Errorf("files scanned = %d, want 2", result.FilesScanned)
	}
	if result.FilesWithFindings != 1 {
		t.Errorf("files with findings = %d, want 1", result.FilesWithFindings)
	}
	if result.FilesWithFindings > result.FilesScanned {
		t.Error("files_with_findings must not exceed files_scanned")
	}
}

func TestSuppressWholeFile(t *testing.T) {
	a := New([]config.SuppressRule{{Path: "vendor/generated.go"}})
	a.AddFile("vendor/generated.go", []models.Finding{
		finding("vendor/generated.go", 1, 1, models.SeverityHigh, "p1"),
	})
	result := a.Result()
	if result.TotalFindings != 0 {
		t.Errorf("expected all findings suppressed, got %d", result.TotalFindings)
	}
}

func TestSuppressSpecificPatternOnly(t *testing.T) {
	a := New([]config.SuppressRule{{Path: "a.go", PatternIDs: []string{"builtin.placeholder.todo"}}})
	a.AddFile("a.go", []models.Finding{
		finding("a.go", 1, 1, models.SeverityMedium, "builtin.placeholder.todo"),
		finding("a.go", 2, 1, models.SeverityHigh, "builtin.stub.empty_catch_brace"),
	})
	result := a.Result()
	if result.TotalFindings != 1 {
		t.Fatalf("got %d findings, want 1 (only the non-suppressed pattern)", result.TotalFindings)
	}
	if result.Findings[0].PatternID != "builtin.stub.empty_catch_brace" {
		t.Errorf("kept pattern %q, want the un-suppressed one", result.Findings[0].PatternID)
	}
}

func TestSuppressPathIsPrefixNotSubstring(t *testing.T) {
	a := New([]config.SuppressRule{{Path: "build"}})
	a.AddFile("buildtools/x.go", []models.Finding{
		finding("buildtools/x.go", 1, 1, models.SeverityLow, "p1"),
	})
	result := a.Result()
	if result.TotalFindings != 1 {
		t.Errorf("a path rule for %q should not suppress %q, got %d findings", "build", "buildtools/x.go", result.TotalFindings)
	}
}

func TestAddFileConcurrentSafe(t *testing.T) {
	a := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			a.AddFile("f.go", []models.Finding{finding("f.go", n+1, 1, models.SeverityLow, "p1")})
		}(i)
	}
	wg.Wait()

	result := a.Result()
	if result.FilesScanned != 50 || result.TotalFindings != 50 {
		t.Errorf("got scanned=%d total=%d, want 50/50", result.FilesScanned, result.TotalFindings)
	}
}
