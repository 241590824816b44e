package descriptions

// Tool descriptions with practical examples and use cases

const (
	PDFReplaceFileDescription = `Replace a text phrase on the first page of a single PDF file.

**When to use:** Need to retitle one report PDF, e.g. change "KYC Report" to "PD Report" on its cover page.

**How it works:** The phrase is located on the first page and rewritten in place. Several replacement methods are tried in order (clean, minimal, direct, overlay, precise, standard, simple) until one succeeds, so documents with unusual content streams still get processed.

**Examples:**
• Retitle a report: "Replace 'KYC Report' with 'PD Report' in /reports/client-a.pdf, write to /out/client-a.pdf"
• Force a method: "Replace the title in summary.pdf using the overlay method"

**Best practices:** Validate the file first with pdf_validate_file; the input file is never modified, the result is always written to output_path.`

	PDFProcessDirectoryDescription = `Replace a text phrase on the first page of every PDF under a directory tree.

**When to use:** Need to retitle a whole folder of report PDFs in one pass.

**How it works:** The directory is scanned recursively, each PDF is processed independently and the edited copies are written to the output directory mirroring the input structure. Files that already contain the new phrase are skipped, so repeated runs are safe. A failure on one file never stops the rest of the batch.

**Examples:**
• Batch retitle: "Process /reports/2024/ replacing 'KYC Report' with 'PD Report'"
• Explicit output: "Process /reports/ into /retitled/ keeping the folder structure"

**Best practices:** Run pdf_stats_directory first to gauge the collection size; review the per-file outcomes in the response for skipped and failed files.`

	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before attempting to process any PDF file, especially in automated workflows or when handling files of unknown origin.

**Why it's useful:** Prevents processing errors and identifies corrupted files early.

**Examples:**
• Batch processing safety: "Validate all PDFs in /reports/ before bulk replacement"
• Quality control: "Check client-upload.pdf is a readable PDF"

**Best practices:** Always run this first in automated workflows; a file that fails validation is skipped by batch runs, not treated as an error.`

	PDFStatsFileDescription = `Get metadata and statistics about a PDF document.

**When to use:** Need page count, file size or document properties before processing.

**Examples:**
• Processing decisions: "Check page count and size of annual-report.pdf"
• Audit trail: "Get producer and title metadata from signed-agreement.pdf"

**Best practices:** Useful for spotting files whose declared Title metadata still carries the old phrase after a replacement run.`

	PDFSearchDirectoryDescription = `Discover and filter PDF files across directories with fuzzy search.

**When to use:** Need to find specific PDFs by name patterns, explore unknown directories, or build file inventories.

**Examples:**
• Find reports: "Search /documents/ for files containing 'kyc' or '2024'"
• Inventory building: "List all PDFs in /archive/ to understand the scope of a batch run"

**Best practices:** Use fuzzy search for partial matches; combine with pdf_stats_directory for a full overview before processing.`

	PDFStatsDirectoryDescription = `Analyze PDF collections and get directory-level statistics.

**When to use:** Need an overview of collection size, total file count, or storage usage to assess a batch run before starting it.

**Examples:**
• Capacity planning: "Analyze /reports/ to estimate batch processing time"
• Collection overview: "Get statistics on /contracts/ before retitling"

**Best practices:** Essential before bulk processing of large document collections.`

	PDFServerInfoDescription = `Get server status, configured defaults, and available tools.

**When to use:** Starting a session, troubleshooting, or checking which phrase and method the server defaults to.

**Examples:**
• System check: "Verify the server defaults before a batch run"
• Capability discovery: "See all available tools and the replacement fallback order"`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"pdf_replace_file":      PDFReplaceFileDescription,
	"pdf_process_directory": PDFProcessDirectoryDescription,
	"pdf_validate_file":     PDFValidateFileDescription,
	"pdf_stats_file":        PDFStatsFileDescription,
	"pdf_search_directory":  PDFSearchDirectoryDescription,
	"pdf_stats_directory":   PDFStatsDirectoryDescription,
	"pdf_server_info":       PDFServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
