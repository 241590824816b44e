package pdf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSearch_SearchDirectory(t *testing.T) {
	search := NewSearch(1024 * 1024) // 1MB limit

	tempDir := t.TempDir()

	// Create test files
	testFiles := map[string][]byte{
		"client_report.pdf":  make([]byte, 1024),
		"kyc_summary.pdf":    make([]byte, 2048),
		"annual_review.pdf":  make([]byte, 512),
		"notes.txt":          []byte("not a pdf"),
		"empty.pdf":          {},                        // Empty file
		"oversized.pdf":      make([]byte, 2*1024*1024), // Too large
	}

	for filename, content := range testFiles {
		filePath := filepath.Join(tempDir, filename)
		if err := os.WriteFile(filePath, content, 0o644); err != nil {
			t.Fatalf("failed to create test file %s: %v", filename, err)
		}
	}

	// Nested directory, mirrored trees are walked recursively
	nestedDir := filepath.Join(tempDir, "2024")
	if err := os.MkdirAll(nestedDir, 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(nestedDir, "q1_report.pdf"), make([]byte, 256), 0o644); err != nil {
		t.Fatalf("failed to create nested test file: %v", err)
	}

	// Hidden directories are skipped
	hiddenDir := filepath.Join(tempDir, ".cache")
	if err := os.MkdirAll(hiddenDir, 0o755); err != nil {
		t.Fatalf("failed to create hidden dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(hiddenDir, "hidden.pdf"), make([]byte, 256), 0o644); err != nil {
		t.Fatalf("failed to create hidden test file: %v", err)
	}

	tests := []struct {
		name          string
		req           PDFSearchDirectoryRequest
		expectedCount int
		expectedError bool
	}{
		{
			name:          "all pdfs including nested",
			req:           PDFSearchDirectoryRequest{Directory: tempDir},
			expectedCount: 4, // client_report, kyc_summary, annual_review, 2024/q1_report
		},
		{
			name:          "query matches one file",
			req:           PDFSearchDirectoryRequest{Directory: tempDir, Query: "kyc"},
			expectedCount: 1,
		},
		{
			name:          "query matches word fragment",
			req:           PDFSearchDirectoryRequest{Directory: tempDir, Query: "report"},
			expectedCount: 2, // client_report and q1_report
		},
		{
			name:          "non-matching query",
			req:           PDFSearchDirectoryRequest{Directory: tempDir, Query: "invoice"},
			expectedCount: 0,
		},
		{
			name:          "empty directory argument",
			req:           PDFSearchDirectoryRequest{Directory: ""},
			expectedError: true,
		},
		{
			name:          "nonexistent directory",
			req:           PDFSearchDirectoryRequest{Directory: filepath.Join(tempDir, "missing")},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := search.SearchDirectory(tt.req)
			if tt.expectedError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("SearchDirectory() returned unexpected error: %v", err)
			}
			if result.TotalCount != tt.expectedCount {
				t.Errorf("Expected %d files, got %d", tt.expectedCount, result.TotalCount)
			}
			if result.SearchQuery != tt.req.Query {
				t.Errorf("Expected search query '%s', got '%s'", tt.req.Query, result.SearchQuery)
			}
		})
	}
}

func TestSearch_FindPDFsInDirectory(t *testing.T) {
	search := NewSearch(1024 * 1024)

	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "a.pdf"), make([]byte, 100), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "b.pdf"), make([]byte, 100), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	files, err := search.FindPDFsInDirectory(tempDir)
	if err != nil {
		t.Fatalf("FindPDFsInDirectory() returned unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("Expected 2 files, got %d", len(files))
	}

	count, err := search.CountPDFsInDirectory(tempDir)
	if err != nil {
		t.Fatalf("CountPDFsInDirectory() returned unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count of 2, got %d", count)
	}
}

func TestSearch_MatchesQuery(t *testing.T) {
	search := NewSearch(1024)

	tests := []struct {
		filename string
		query    string
		want     bool
	}{
		{"kyc_report_2024.pdf", "kyc", true},
		{"kyc_report_2024.pdf", "report", true},
		{"kyc_report_2024.pdf", "2024", true},
		{"kyc_report_2024.pdf", "kyc report", true},
		{"kyc_report_2024.pdf", "invoice", false},
		{"KYC-Report.pdf", "kyc", true},
		{"summary.pdf", "", true},
	}

	for _, tt := range tests {
		got := search.matchesQuery(tt.filename, tt.query)
		if got != tt.want {
			t.Errorf("matchesQuery(%q, %q) = %v, want %v", tt.filename, tt.query, got, tt.want)
		}
	}
}
