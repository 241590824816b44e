package pdf

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// PDFReadFileRequest represents a request to read the first page of a PDF file
type PDFReadFileRequest struct {
	Path string `json:"path"`
}

// PDFReplaceFileRequest represents a request to replace a phrase on the
// first page of a PDF file
type PDFReplaceFileRequest struct {
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`
	OldText    string `json:"old_text"`
	NewText    string `json:"new_text"`
	Method     string `json:"method"`
}

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// PDFStatsFileRequest represents a request to get stats about a PDF file
type PDFStatsFileRequest struct {
	Path string `json:"path"`
}

// PDFSearchDirectoryRequest represents a request to search for PDF files in a directory
type PDFSearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// PDFStatsDirectoryRequest represents a request to get directory statistics
type PDFStatsDirectoryRequest struct {
	Directory string `json:"directory"`
}

// Response Types

// PDFReadFileResult represents the result of reading the first page of a PDF
type PDFReadFileResult struct {
	Path      string `json:"path"`
	Pages     int    `json:"pages"`
	Size      int64  `json:"size"`
	FirstPage string `json:"first_page"`
}

// PDFReplaceFileResult represents the outcome of a replacement operation
type PDFReplaceFileResult struct {
	InputPath   string `json:"input_path"`
	OutputPath  string `json:"output_path"`
	Success     bool   `json:"success"`
	Method      string `json:"method"` // method that actually produced the output
	Occurrences int    `json:"occurrences"`
	Message     string `json:"message,omitempty"`
}

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// PDFStatsFileResult represents the result of a PDF file stats operation
type PDFStatsFileResult struct {
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Pages        int    `json:"pages"`
	ModifiedDate string `json:"modified_date"`
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	Producer     string `json:"producer,omitempty"`
}

// PDFSearchDirectoryResult represents the result of a PDF search operation
type PDFSearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// PDFStatsDirectoryResult represents the result of directory statistics
type PDFStatsDirectoryResult struct {
	Directory        string `json:"directory"`
	TotalFiles       int    `json:"total_files"`
	TotalSize        int64  `json:"total_size"`
	LargestFileSize  int64  `json:"largest_file_size"`
	LargestFileName  string `json:"largest_file_name"`
	SmallestFileSize int64  `json:"smallest_file_size"`
	SmallestFileName string `json:"smallest_file_name"`
	AverageFileSize  int64  `json:"average_file_size"`
}
