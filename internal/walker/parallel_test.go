package walker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/corvid-labs/antislop/pkg/models"
	"github.com/corvid-labs/antislop/pkg/parser"
)

func createTestFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file %s: %v", name, err)
	}
	return path
}

func workItems(paths ...string) []models.FileWorkItem {
	items := make([]models.FileWorkItem, len(paths))
	for i, p := range paths {
		items[i] = models.FileWorkItem{AbsolutePath: p, DetectedLanguage: models.LangGo}
	}
	return items
}

func TestMapFiles(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		createTestFile(t, tmpDir, "file1.go", "package main\nfunc main() {}"),
		createTestFile(t, tmpDir, "file2.go", "package main\nfunc test() {}"),
		createTestFile(t, tmpDir, "file3.go", "package main\nfunc validate() {}"),
	}

	results, errs := MapFiles(context.Background(), workItems(files...), nil, func(p *parser.Parser, item models.FileWorkItem) (string, error) {
		return filepath.Base(item.AbsolutePath), nil
	})
	if errs != nil {
		t.Errorf("unexpected errors: %v", errs)
	}
	if len(results) != len(files) {
		t.Errorf("expected %d results, got %d", len(files), len(results))
	}
}

func TestMapFilesEmpty(t *testing.T) {
	results, errs := MapFiles(context.Background(), nil, nil, func(p *parser.Parser, item models.FileWorkItem) (string, error) {
		return item.AbsolutePath, nil
	})
	if results != nil || errs != nil {
		t.Errorf("expected nil, nil for an empty file list, got %v, %v", results, errs)
	}
}

func TestMapFilesWithErrors(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		createTestFile(t, tmpDir, "good1.go", "package main"),
		createTestFile(t, tmpDir, "bad.go", "package main"),
		createTestFile(t, tmpDir, "good2.go", "package main"),
	}

	var processed atomic.Int32
	results, errs := MapFiles(context.Background(), workItems(files...), nil, func(p *parser.Parser, item models.FileWorkItem) (string, error) {
		processed.Add(1)
		if filepath.Base(item.AbsolutePath) == "bad.go" {
			return "", fmt.Errorf("simulated failure")
		}
		return filepath.Base(item.AbsolutePath), nil
	})

	if processed.Load() != 3 {
		t.Errorf("expected all 3 files to be processed, got %d", processed.Load())
	}
	if len(results) != 2 {
		t.Errorf("expected 2 successful results, got %d", len(results))
	}
	if errs == nil || len(errs.Errors) != 1 {
		t.Fatalf("expected exactly 1 error, got %v", errs)
	}
}

func TestMapFilesParserAvailable(t *testing.T) {
	tmpDir := t.TempDir()
	file := createTestFile(t, tmpDir, "test.go", "package main\nfunc main() {}")

	results, errs := MapFiles(context.Background(), workItems(file), nil, func(p *parser.Parser, item models.FileWorkItem) (bool, error) {
		if p == nil {
			t.Fatal("parser should not be nil")
		}
		result, err := p.ParseFile(item.AbsolutePath)
		if err != nil {
			return false, err
		}
		return result != nil && result.Tree != nil, nil
	})
	if errs != nil {
		t.Errorf("unexpected errors: %v", errs)
	}
	if len(results) != 1 || !results[0] {
		t.Errorf("expected parser to successfully parse the file, got %v", results)
	}
}

func TestMapFilesProgressCallback(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		createTestFile(t, tmpDir, "file1.go", "package main"),
		createTestFile(t, tmpDir, "file2.go", "package main"),
		createTestFile(t, tmpDir, "file3.go", "package main"),
	}

	var mu sync.Mutex
	var seen []string
	onProgress := func(path string) {
		mu.Lock()
		seen = append(seen, filepath.Base(path))
		mu.Unlock()
	}

	results, errs := MapFiles(context.Background(), workItems(files...), onProgress, func(p *parser.Parser, item models.FileWorkItem) (int, error) {
		return 1, nil
	})
	if errs != nil {
		t.Errorf("unexpected errors: %v", errs)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 progress callbacks, got %d", len(seen))
	}
}

func TestMapFilesCancellation(t *testing.T) {
	tmpDir := t.TempDir()
	fileCount := 50
	files := make([]string, fileCount)
	for i := range fileCount {
		files[i] = createTestFile(t, tmpDir, fmt.Sprintf("file%d.go", i), "package main")
	}

	ctx, cancel := context.WithCancel(context.Background())
	var started atomic.Int32
	go func() {
		for started.Load() < 5 {
			runtime.Gosched()
		}
		cancel()
	}()

	results, errs := MapFiles(ctx, workItems(files...), nil, func(p *parser.Parser, item models.FileWorkItem) (string, error) {
		started.Add(1)
		for range 1000 {
			runtime.Gosched()
		}
		return filepath.Base(item.AbsolutePath), nil
	})

	errorCount := 0
	if errs != nil {
		errorCount = len(errs.Errors)
	}
	if len(results)+errorCount > fileCount {
		t.Errorf("results (%d) + errors (%d) should not exceed file count (%d)", len(results), errorCount, fileCount)
	}
}

func TestProcessingErrorsMessages(t *testing.T) {
	errs := &ProcessingErrors{}
	if errs.HasErrors() {
		t.Error("a fresh ProcessingErrors should report no errors")
	}
	if errs.Error() != "no errors" {
		t.Errorf("Error() = %q, want %q", errs.Error(), "no errors")
	}

	errs.Add("/file1.go", fmt.Errorf("error1"))
	if errs.Error() != "/file1.go: error1" {
		t.Errorf("Error() = %q", errs.Error())
	}

	errs.Add("/file2.go", fmt.Errorf("error2"))
	want := "2 files failed to process (first: /file1.go: error1)"
	if errs.Error() != want {
		t.Errorf("Error() = %q, want %q", errs.Error(), want)
	}
}

func TestProcessingErrorsConcurrentAdd(t *testing.T) {
	errs := &ProcessingErrors{}
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs.Add(fmt.Sprintf("/file%d.go", n), fmt.Errorf("error %d", n))
		}(i)
	}
	wg.Wait()
	if len(errs.Errors) != 100 {
		t.Errorf("expected 100 errors, got %d", len(errs.Errors))
	}
}
