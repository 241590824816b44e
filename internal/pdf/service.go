package pdf

import (
	"errors"
	"fmt"

	"github.com/Tirthankar03/PD-manipulation/internal/pdf/editor"
	"github.com/Tirthankar03/PD-manipulation/internal/pdf/security"
)

// Service handles PDF file operations by orchestrating the reader,
// validator, search, stats and editor components
type Service struct {
	maxFileSize   int64
	reader        *Reader
	validator     *Validator
	stats         *Stats
	search        *Search
	editor        *editor.Editor
	pathValidator *security.PathValidator
}

// NewService creates a new PDF service. outputRoot bounds where replacement
// results may be written; an empty root disables the containment check
// (the MCP server runs without a fixed output tree).
func NewService(maxFileSize int64, outputRoot string, debug bool) (*Service, error) {
	var pathValidator *security.PathValidator
	if outputRoot != "" {
		var err error
		pathValidator, err = security.NewPathValidator(outputRoot)
		if err != nil {
			return nil, fmt.Errorf("failed to create path validator: %w", err)
		}
	}

	return &Service{
		maxFileSize:   maxFileSize,
		reader:        NewReader(maxFileSize),
		validator:     NewValidator(maxFileSize),
		stats:         NewStats(maxFileSize),
		search:        NewSearch(maxFileSize),
		editor:        editor.NewEditor(debug),
		pathValidator: pathValidator,
	}, nil
}

// PDFReplaceFile replaces a phrase on the first page of a PDF, writing the
// result to the requested output path. Replacement failures (phrase not
// found, every method failed) are reported in the result; only broken
// preconditions surface as errors.
func (s *Service) PDFReplaceFile(req PDFReplaceFileRequest) (*PDFReplaceFileResult, error) {
	if req.InputPath == "" {
		return nil, fmt.Errorf("input path cannot be empty")
	}
	if req.OutputPath == "" {
		return nil, fmt.Errorf("output path cannot be empty")
	}
	if s.pathValidator != nil {
		if err := s.pathValidator.ValidatePath(req.OutputPath); err != nil {
			return nil, fmt.Errorf("security validation failed: %w", err)
		}
	}

	result := &PDFReplaceFileResult{
		InputPath:  req.InputPath,
		OutputPath: req.OutputPath,
	}

	if err := s.validator.validatePDFFile(req.InputPath); err != nil {
		result.Message = err.Error()
		return result, nil
	}

	editorResult, err := s.editor.Replace(editor.ReplaceRequest{
		InputPath:  req.InputPath,
		OutputPath: req.OutputPath,
		OldText:    req.OldText,
		NewText:    req.NewText,
		Method:     req.Method,
	})
	if err != nil {
		if errors.Is(err, editor.ErrPhraseNotFound) {
			result.Message = fmt.Sprintf("text %q not found on first page", req.OldText)
		} else {
			result.Message = err.Error()
		}
		return result, nil
	}

	result.Success = true
	result.Method = editorResult.Method
	result.Occurrences = editorResult.Occurrences
	return result, nil
}

// PDFReadFile reads the first page text of a PDF file
func (s *Service) PDFReadFile(req PDFReadFileRequest) (*PDFReadFileResult, error) {
	return s.reader.ReadFile(req)
}

// ContainsOnFirstPage reports whether the first page contains the phrase
func (s *Service) ContainsOnFirstPage(path, phrase string) (bool, error) {
	return s.reader.ContainsOnFirstPage(path, phrase)
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	return s.validator.ValidateFile(req)
}

// PDFStatsFile returns detailed statistics about a single PDF file
func (s *Service) PDFStatsFile(req PDFStatsFileRequest) (*PDFStatsFileResult, error) {
	return s.stats.GetFileStats(req)
}

// PDFSearchDirectory searches for PDF files in a directory
func (s *Service) PDFSearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	return s.search.SearchDirectory(req)
}

// PDFStatsDirectory returns statistics about PDF files in a directory
func (s *Service) PDFStatsDirectory(req PDFStatsDirectoryRequest) (*PDFStatsDirectoryResult, error) {
	return s.stats.GetDirectoryStats(req)
}

// FindPDFsInDirectory finds all PDF files under a directory tree
func (s *Service) FindPDFsInDirectory(directory string) ([]FileInfo, error) {
	return s.search.FindPDFsInDirectory(directory)
}

// CountPDFsInDirectory counts the number of valid PDF files in a directory
func (s *Service) CountPDFsInDirectory(directory string) (int, error) {
	return s.search.CountPDFsInDirectory(directory)
}

// IsValidPDF performs a quick validation check on a file
func (s *Service) IsValidPDF(filePath string) bool {
	return s.validator.IsValidPDF(filePath)
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}
