// Package batch walks an input directory tree, applies the first-page
// phrase replacement to every PDF found and mirrors the results into an
// output tree. Files are processed sequentially and independently; a
// failure on one file never stops the rest of the batch.
package batch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tirthankar03/PD-manipulation/internal/config"
	"github.com/Tirthankar03/PD-manipulation/internal/pdf"
)

// Outcome classifies the result of processing one file
type Outcome string

const (
	OutcomeReplaced Outcome = "replaced"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// FileResult is the per-file processing record
type FileResult struct {
	InputPath   string  `json:"input_path"`
	OutputPath  string  `json:"output_path"`
	RelPath     string  `json:"rel_path"`
	Outcome     Outcome `json:"outcome"`
	Method      string  `json:"method,omitempty"`
	Occurrences int     `json:"occurrences,omitempty"`
	Message     string  `json:"message,omitempty"`
}

// Result summarizes a whole batch run
type Result struct {
	RunID     string        `json:"run_id"`
	InputDir  string        `json:"input_dir"`
	OutputDir string        `json:"output_dir"`
	Method    string        `json:"method"`
	Replaced  int           `json:"replaced"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Files     []FileResult  `json:"files"`
	Duration  time.Duration `json:"duration"`
}

// Summary returns a one-line human readable summary of the run
func (r *Result) Summary() string {
	return fmt.Sprintf("run %s: %d replaced, %d skipped, %d failed (%d files in %s)",
		r.RunID, r.Replaced, r.Skipped, r.Failed, len(r.Files), r.Duration.Round(time.Millisecond))
}

// Runner executes batch replacement runs
type Runner struct {
	cfg     *config.Config
	service *pdf.Service
}

// NewRunner creates a batch runner
func NewRunner(cfg *config.Config, service *pdf.Service) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	return &Runner{cfg: cfg, service: service}, nil
}

// Run discovers every PDF under the input directory and processes each in
// turn. Only an unreadable input directory is fatal.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	result := &Result{
		RunID:     uuid.NewString(),
		InputDir:  r.cfg.InputDir,
		OutputDir: r.cfg.OutputDir,
		Method:    r.cfg.Method,
	}

	files, err := r.service.FindPDFsInDirectory(r.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	log.Printf("Found %d PDF files in %s", len(files), r.cfg.InputDir)
	if len(files) == 0 {
		log.Printf("WARN: no PDF files found in %s", r.cfg.InputDir)
		result.Duration = time.Since(start)
		return result, nil
	}

	for _, file := range files {
		select {
		case <-ctx.Done():
			result.Duration = time.Since(start)
			return result, ctx.Err()
		default:
		}

		// The default output tree lives inside the input tree; never
		// pick previous results up as new inputs.
		if r.isWithinOutput(file.Path) {
			continue
		}

		fr := r.processFile(file)
		result.Files = append(result.Files, fr)

		switch fr.Outcome {
		case OutcomeReplaced:
			result.Replaced++
			log.Printf("Replaced %q with %q in %s (method: %s)",
				r.cfg.OldText, r.cfg.NewText, fr.RelPath, fr.Method)
		case OutcomeSkipped:
			result.Skipped++
			log.Printf("Skipped %s: %s", fr.RelPath, fr.Message)
		case OutcomeFailed:
			result.Failed++
			log.Printf("ERROR: failed to process %s: %s", fr.RelPath, fr.Message)
		}
	}

	result.Duration = time.Since(start)
	log.Printf("Processing complete: %s", result.Summary())

	return result, nil
}

// processFile applies the replacement pipeline to a single file
func (r *Runner) processFile(file pdf.FileInfo) FileResult {
	rel, err := filepath.Rel(r.cfg.InputDir, file.Path)
	if err != nil {
		rel = file.Name
	}

	fr := FileResult{
		InputPath:  file.Path,
		OutputPath: filepath.Join(r.cfg.OutputDir, rel),
		RelPath:    rel,
	}

	// The presence of the new phrase marks a file as already processed and
	// wins over the old phrase: cover-method outputs keep the old phrase in
	// the text layer underneath the redrawn title, so checking the old
	// phrase first would reprocess them on every run.
	hasNew, err := r.service.ContainsOnFirstPage(file.Path, r.cfg.NewText)
	if err != nil {
		fr.Outcome = OutcomeFailed
		fr.Message = err.Error()
		return fr
	}
	if hasNew {
		fr.Outcome = OutcomeSkipped
		fr.Message = fmt.Sprintf("already contains %q", r.cfg.NewText)
		return fr
	}

	hasOld, err := r.service.ContainsOnFirstPage(file.Path, r.cfg.OldText)
	if err != nil {
		fr.Outcome = OutcomeFailed
		fr.Message = err.Error()
		return fr
	}
	if !hasOld {
		fr.Outcome = OutcomeSkipped
		fr.Message = fmt.Sprintf("text %q not found on first page", r.cfg.OldText)
		return fr
	}

	res, err := r.service.PDFReplaceFile(pdf.PDFReplaceFileRequest{
		InputPath:  file.Path,
		OutputPath: fr.OutputPath,
		OldText:    r.cfg.OldText,
		NewText:    r.cfg.NewText,
		Method:     r.cfg.Method,
	})
	if err != nil {
		fr.Outcome = OutcomeFailed
		fr.Message = err.Error()
		return fr
	}
	if !res.Success {
		fr.Outcome = OutcomeFailed
		fr.Message = res.Message
		return fr
	}

	fr.Outcome = OutcomeReplaced
	fr.Method = res.Method
	fr.Occurrences = res.Occurrences
	return fr
}

// isWithinOutput reports whether path sits inside the output directory
func (r *Runner) isWithinOutput(path string) bool {
	out := filepath.Clean(r.cfg.OutputDir)
	if !strings.HasSuffix(out, string(filepath.Separator)) {
		out += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(path), out)
}
