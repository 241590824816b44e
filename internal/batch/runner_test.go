package batch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Tirthankar03/PD-manipulation/internal/config"
	"github.com/Tirthankar03/PD-manipulation/internal/pdf"
)

// writeTitledPDF writes a minimal one-page PDF drawing each line in 18pt
// Helvetica, starting near the top of the page
func writeTitledPDF(t *testing.T, path string, lines ...string) {
	t.Helper()

	var ops strings.Builder
	ops.WriteString("BT\n/F1 18 Tf\n0 0 0 rg\n")
	y := 720
	for _, line := range lines {
		fmt.Fprintf(&ops, "1 0 0 1 72 %d Tm\n(%s) Tj\n", y, line)
		y -= 40
	}
	ops.WriteString("ET\n")
	stream := ops.String()

	var buf bytes.Buffer
	offsets := make([]int, 6)
	addObj := func(n int, body string) {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}

	buf.WriteString("%PDF-1.4\n")
	addObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	addObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	addObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
		"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>")
	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	addObj(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding "+
		"/FirstChar 32 /LastChar 126 /Widths [ "+widths+" ] >>")
	addObj(5, fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream))

	xref := buf.Len()
	buf.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for n := 1; n <= 5; n++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[n])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write test PDF: %v", err)
	}
}

func newTestRunner(t *testing.T, inputDir string) (*Runner, *config.Config) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.InputDir = inputDir
	cfg.OutputDir = filepath.Join(inputDir, "processed")

	service, err := pdf.NewService(cfg.MaxFileSize, cfg.OutputDir, false)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	runner, err := NewRunner(cfg, service)
	if err != nil {
		t.Fatalf("failed to create runner: %v", err)
	}
	return runner, cfg
}

func TestNewRunner(t *testing.T) {
	service, err := pdf.NewService(1024, "", false)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	if _, err := NewRunner(nil, service); err == nil {
		t.Error("Expected error for nil config, got nil")
	}
	if _, err := NewRunner(config.DefaultConfig(), nil); err == nil {
		t.Error("Expected error for nil service, got nil")
	}
	if _, err := NewRunner(config.DefaultConfig(), service); err != nil {
		t.Errorf("Expected runner to be created, got error: %v", err)
	}
}

func TestRunner_RunEmptyDirectory(t *testing.T) {
	tempDir := t.TempDir()
	runner, _ := newTestRunner(t, tempDir)

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	if result.RunID == "" {
		t.Error("Expected a run ID to be assigned")
	}
	if result.Replaced != 0 || result.Skipped != 0 || result.Failed != 0 {
		t.Errorf("Expected empty run, got replaced=%d skipped=%d failed=%d",
			result.Replaced, result.Skipped, result.Failed)
	}
	if len(result.Files) != 0 {
		t.Errorf("Expected no file results, got %d", len(result.Files))
	}
}

func TestRunner_RunNonexistentDirectory(t *testing.T) {
	tempDir := t.TempDir()
	runner, cfg := newTestRunner(t, tempDir)
	cfg.InputDir = filepath.Join(tempDir, "missing")

	if _, err := runner.Run(context.Background()); err == nil {
		t.Error("Expected error for nonexistent input directory, got nil")
	}
}

func TestRunner_RunRecordsFailures(t *testing.T) {
	tempDir := t.TempDir()

	// A file with a PDF extension and header but no real structure is
	// discovered by the scan and then fails processing
	broken := filepath.Join(tempDir, "broken.pdf")
	if err := os.WriteFile(broken, []byte("%PDF-1.4\nnot a real pdf"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	runner, cfg := newTestRunner(t, tempDir)

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	if result.Failed != 1 {
		t.Fatalf("Expected 1 failed file, got %d (replaced=%d skipped=%d)",
			result.Failed, result.Replaced, result.Skipped)
	}

	fr := result.Files[0]
	if fr.Outcome != OutcomeFailed {
		t.Errorf("Expected outcome '%s', got '%s'", OutcomeFailed, fr.Outcome)
	}
	if fr.Message == "" {
		t.Error("Expected a failure message")
	}
	if fr.RelPath != "broken.pdf" {
		t.Errorf("Expected relative path 'broken.pdf', got '%s'", fr.RelPath)
	}
	expectedOut := filepath.Join(cfg.OutputDir, "broken.pdf")
	if fr.OutputPath != expectedOut {
		t.Errorf("Expected output path '%s', got '%s'", expectedOut, fr.OutputPath)
	}

	// The broken input must remain untouched
	data, err := os.ReadFile(broken)
	if err != nil {
		t.Fatalf("failed to read input file: %v", err)
	}
	if string(data) != "%PDF-1.4\nnot a real pdf" {
		t.Error("Expected input file to be unchanged after a failed run")
	}
}

func TestRunner_RunReplacesAndMirrors(t *testing.T) {
	tempDir := t.TempDir()
	writeTitledPDF(t, filepath.Join(tempDir, "report.pdf"), "KYC Report")

	runner, cfg := newTestRunner(t, tempDir)

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	if result.Replaced != 1 || result.Skipped != 0 || result.Failed != 0 {
		t.Fatalf("Expected 1 replaced file, got replaced=%d skipped=%d failed=%d",
			result.Replaced, result.Skipped, result.Failed)
	}

	fr := result.Files[0]
	if fr.Outcome != OutcomeReplaced {
		t.Errorf("Expected outcome '%s', got '%s'", OutcomeReplaced, fr.Outcome)
	}
	if fr.Method == "" {
		t.Error("Expected the winning method to be recorded")
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "report.pdf")); err != nil {
		t.Errorf("Expected output file to be written: %v", err)
	}

	// The replaced output carries the new title on its first page
	hasNew, err := runner.service.ContainsOnFirstPage(fr.OutputPath, cfg.NewText)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !hasNew {
		t.Errorf("Expected output first page to contain %q", cfg.NewText)
	}
}

func TestRunner_RunSkipsAlreadyRetitled(t *testing.T) {
	tempDir := t.TempDir()

	// A cover-method output keeps the old phrase in the text layer under
	// the redrawn title; the new phrase alone marks it as processed
	writeTitledPDF(t, filepath.Join(tempDir, "done.pdf"), "PD Report", "KYC Report")

	runner, _ := newTestRunner(t, tempDir)

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	if result.Skipped != 1 || result.Replaced != 0 {
		t.Fatalf("Expected 1 skipped file, got replaced=%d skipped=%d failed=%d",
			result.Replaced, result.Skipped, result.Failed)
	}

	fr := result.Files[0]
	if fr.Outcome != OutcomeSkipped {
		t.Errorf("Expected outcome '%s', got '%s'", OutcomeSkipped, fr.Outcome)
	}
	if !strings.Contains(fr.Message, "already contains") {
		t.Errorf("Expected an already-contains message, got '%s'", fr.Message)
	}
}

func TestRunner_RunSkipsPhraseMissing(t *testing.T) {
	tempDir := t.TempDir()
	writeTitledPDF(t, filepath.Join(tempDir, "other.pdf"), "Annual Summary")

	runner, _ := newTestRunner(t, tempDir)

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	if result.Skipped != 1 {
		t.Fatalf("Expected 1 skipped file, got replaced=%d skipped=%d failed=%d",
			result.Replaced, result.Skipped, result.Failed)
	}
	if !strings.Contains(result.Files[0].Message, "not found on first page") {
		t.Errorf("Expected a not-found message, got '%s'", result.Files[0].Message)
	}
}

func TestRunner_RunSkipsOutputTree(t *testing.T) {
	tempDir := t.TempDir()
	outputDir := filepath.Join(tempDir, "processed")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		t.Fatalf("failed to create output dir: %v", err)
	}

	// A previously processed file inside the default output tree must not
	// be picked up as new input
	prev := filepath.Join(outputDir, "done.pdf")
	if err := os.WriteFile(prev, []byte("%PDF-1.4\nprior output"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	runner, _ := newTestRunner(t, tempDir)

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	if len(result.Files) != 0 {
		t.Errorf("Expected output tree to be excluded, got %d file results", len(result.Files))
	}
}

func TestRunner_RunHonorsCancellation(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "a.pdf"), []byte("%PDF-1.4\nx"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	runner, _ := newTestRunner(t, tempDir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := runner.Run(ctx)
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if result == nil {
		t.Fatal("Expected a partial result even when cancelled")
	}
	if len(result.Files) != 0 {
		t.Errorf("Expected no files processed after immediate cancel, got %d", len(result.Files))
	}
}

func TestRunner_IsWithinOutput(t *testing.T) {
	tempDir := t.TempDir()
	runner, cfg := newTestRunner(t, tempDir)

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(cfg.OutputDir, "a.pdf"), true},
		{filepath.Join(cfg.OutputDir, "nested", "a.pdf"), true},
		{filepath.Join(tempDir, "a.pdf"), false},
		{filepath.Join(tempDir, "processed_old", "a.pdf"), false},
	}

	for _, tt := range tests {
		if got := runner.isWithinOutput(tt.path); got != tt.want {
			t.Errorf("isWithinOutput(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestResult_Summary(t *testing.T) {
	r := &Result{RunID: "test-run", Replaced: 2, Skipped: 1, Failed: 0}

	s := r.Summary()
	if s == "" {
		t.Fatal("Expected non-empty summary")
	}
}
