package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reader handles PDF text reading operations. Only the first page is ever
// mutated by this tool, so reads are first-page centric.
type Reader struct {
	maxFileSize int64
	maxTextSize int
	cache       *pageTextCache
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
		cache:       newPageTextCache(128),
	}
}

// ReadFile extracts the first page's plain text from a PDF file
func (r *Reader) ReadFile(req PDFReadFileRequest) (*PDFReadFileResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(req.Path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", req.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := r.validatePDFFile(req.Path, fileInfo); err != nil {
		return nil, err
	}

	f, pdfReader, err := pdf.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	firstPage, err := r.FirstPageText(pdfReader)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text content: %w", err)
	}
	r.cache.put(req.Path, firstPage, fileInfo.Size(), fileInfo.ModTime())

	result := &PDFReadFileResult{
		Path:      req.Path,
		Pages:     pdfReader.NumPage(),
		Size:      fileInfo.Size(),
		FirstPage: firstPage,
	}

	return result, nil
}

// ContainsOnFirstPage reports whether the first page's plain text contains
// the given phrase. Extractions are served from the cache while the file is
// unchanged on disk.
func (r *Reader) ContainsOnFirstPage(path, phrase string) (bool, error) {
	if fileInfo, err := os.Stat(path); err == nil {
		if text, ok := r.cache.get(path, fileInfo.Size(), fileInfo.ModTime()); ok {
			return strings.Contains(text, phrase), nil
		}
	}

	result, err := r.ReadFile(PDFReadFileRequest{Path: path})
	if err != nil {
		return false, err
	}
	return strings.Contains(result.FirstPage, phrase), nil
}

// FirstPageText extracts plain text from page 1 of an open PDF reader
func (r *Reader) FirstPageText(pdfReader *pdf.Reader) (string, error) {
	if pdfReader.NumPage() < 1 {
		return "", fmt.Errorf("PDF has no pages")
	}

	page := pdfReader.Page(1)
	if page.V.IsNull() {
		return "", fmt.Errorf("first page is unreadable")
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract first page text: %w", err)
	}

	if len(content) > r.maxTextSize {
		content = content[:r.maxTextSize]
	}

	return content, nil
}

// validatePDFFile performs basic validation on a PDF file
func (r *Reader) validatePDFFile(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() > r.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), r.maxFileSize)
	}

	return nil
}
