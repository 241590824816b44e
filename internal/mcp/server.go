package mcp

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Tirthankar03/PD-manipulation/internal/batch"
	"github.com/Tirthankar03/PD-manipulation/internal/config"
	"github.com/Tirthankar03/PD-manipulation/internal/descriptions"
	"github.com/Tirthankar03/PD-manipulation/internal/pdf"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	// Register PDF replace file tool
	pdfReplaceFileTool := mcp.NewTool(
		"pdf_replace_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_replace_file")),
		mcp.WithString("input_path",
			mcp.Required(),
			mcp.Description("Full path to the source PDF file"),
		),
		mcp.WithString("output_path",
			mcp.Required(),
			mcp.Description("Full path the edited PDF is written to"),
		),
		mcp.WithString("old_text",
			mcp.Description("Phrase to replace (uses the configured default if empty)"),
		),
		mcp.WithString("new_text",
			mcp.Description("Replacement phrase (uses the configured default if empty)"),
		),
		mcp.WithString("method",
			mcp.Description("Replacement method to start from: clean, minimal, direct, overlay, precise, standard or simple"),
		),
	)
	s.mcpServer.AddTool(pdfReplaceFileTool, s.handlePDFReplaceFile)

	// Register PDF process directory tool
	pdfProcessDirectoryTool := mcp.NewTool(
		"pdf_process_directory",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_process_directory")),
		mcp.WithString("input_dir",
			mcp.Required(),
			mcp.Description("Directory tree to scan for PDF files"),
		),
		mcp.WithString("output_dir",
			mcp.Description("Directory the edited PDFs are written to (defaults to <input_dir>/processed)"),
		),
		mcp.WithString("old_text",
			mcp.Description("Phrase to replace (uses the configured default if empty)"),
		),
		mcp.WithString("new_text",
			mcp.Description("Replacement phrase (uses the configured default if empty)"),
		),
		mcp.WithString("method",
			mcp.Description("Replacement method to start from: clean, minimal, direct, overlay, precise, standard or simple"),
		),
	)
	s.mcpServer.AddTool(pdfProcessDirectoryTool, s.handlePDFProcessDirectory)

	// Register PDF validate file tool
	pdfValidateFileTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_validate_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(pdfValidateFileTool, s.handlePDFValidateFile)

	// Register PDF search directory tool
	pdfSearchDirectoryTool := mcp.NewTool(
		"pdf_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_search_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy matching"),
		),
	)
	s.mcpServer.AddTool(pdfSearchDirectoryTool, s.handlePDFSearchDirectory)

	// Register PDF stats directory tool
	pdfStatsDirectoryTool := mcp.NewTool(
		"pdf_stats_directory",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_stats_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory path to analyze (uses default if empty)"),
		),
	)
	s.mcpServer.AddTool(pdfStatsDirectoryTool, s.handlePDFStatsDirectory)

	// Register PDF stats file tool
	pdfStatsFileTool := mcp.NewTool(
		"pdf_stats_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_stats_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(pdfStatsFileTool, s.handlePDFStatsFile)

	// Register PDF server info tool
	pdfServerInfoTool := mcp.NewTool(
		"pdf_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_server_info")),
	)
	s.mcpServer.AddTool(pdfServerInfoTool, s.handlePDFServerInfo)
}

// Handler functions
func (s *Server) handlePDFReplaceFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inputPath, err := request.RequireString("input_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outputPath, err := request.RequireString("output_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()

	method := s.stringArg(args, "method", s.config.Method)
	if !config.IsValidMethod(method) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown replacement method: %s", method)), nil
	}

	req := pdf.PDFReplaceFileRequest{
		InputPath:  inputPath,
		OutputPath: outputPath,
		OldText:    s.stringArg(args, "old_text", s.config.OldText),
		NewText:    s.stringArg(args, "new_text", s.config.NewText),
		Method:     method,
	}

	result, err := s.pdfService.PDFReplaceFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Success {
		responseText = fmt.Sprintf("Replaced %q with %q in %s\n", req.OldText, req.NewText, result.InputPath)
		responseText += fmt.Sprintf("Output: %s\n", result.OutputPath)
		responseText += fmt.Sprintf("Method: %s\n", result.Method)
		responseText += fmt.Sprintf("Occurrences: %d\n", result.Occurrences)
	} else {
		responseText = fmt.Sprintf("Replacement failed for %s: %s", result.InputPath, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFProcessDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	inputDir, err := request.RequireString("input_dir")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()

	// Derive a per-call config so batch runs started over MCP honor
	// the same defaults as the CLI.
	runCfg := *s.config
	runCfg.InputDir = inputDir
	runCfg.OutputDir = s.stringArg(args, "output_dir", "")
	runCfg.OldText = s.stringArg(args, "old_text", s.config.OldText)
	runCfg.NewText = s.stringArg(args, "new_text", s.config.NewText)
	runCfg.Method = s.stringArg(args, "method", s.config.Method)
	if err := runCfg.ApplyDefaults(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	runner, err := batch.NewRunner(&runCfg, s.pdfService)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := runner.Run(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatBatchResult(result)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.PDFValidateFileRequest{Path: path}
	result, err := s.pdfService.PDFValidateFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFStatsFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.PDFStatsFileRequest{Path: path}
	result, err := s.pdfService.PDFStatsFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatPDFStatsFileResult(result)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.stringArg(args, "directory", s.config.InputDir)
	query := s.stringArg(args, "query", "")

	req := pdf.PDFSearchDirectoryRequest{
		Directory: directory,
		Query:     query,
	}

	result, err := s.pdfService.PDFSearchDirectory(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = s.formatPDFSearchDirectoryResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFStatsDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.stringArg(args, "directory", s.config.InputDir)

	req := pdf.PDFStatsDirectoryRequest{Directory: directory}
	result, err := s.pdfService.PDFStatsDirectory(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatPDFStatsDirectoryResult(result)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := fmt.Sprintf("%s v%s\n\n", s.config.ServerName, s.config.Version)
	text += "Defaults:\n"
	text += fmt.Sprintf("  Old text: %q\n", s.config.OldText)
	text += fmt.Sprintf("  New text: %q\n", s.config.NewText)
	text += fmt.Sprintf("  Method: %s\n", s.config.Method)
	text += fmt.Sprintf("  Max file size: %d MB\n\n", s.pdfService.GetMaxFileSize()/(1024*1024))
	text += "Tools:\n"
	text += "  pdf_replace_file      - replace a phrase on the first page of one PDF\n"
	text += "  pdf_process_directory - replace a phrase in every PDF under a directory tree\n"
	text += "  pdf_validate_file     - check that a file is a readable PDF\n"
	text += "  pdf_stats_file        - metadata and size details for one PDF\n"
	text += "  pdf_search_directory  - list PDFs in a directory, optionally fuzzy matched\n"
	text += "  pdf_stats_directory   - aggregate size statistics for a directory\n\n"
	text += "Replacement falls back through clean, minimal, direct, overlay, precise,\n"
	text += "standard and simple until one method succeeds. In directory runs, files\n"
	text += "whose first page does not contain the old text are skipped, not treated\n"
	text += "as errors."

	return mcp.NewToolResultText(text), nil
}

// stringArg reads an optional string argument with a fallback default
func (s *Server) stringArg(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Formatting methods
func (s *Server) formatBatchResult(result *batch.Result) string {
	text := fmt.Sprintf("Batch run %s\n", result.RunID)
	text += fmt.Sprintf("Input: %s\n", result.InputDir)
	text += fmt.Sprintf("Output: %s\n", result.OutputDir)
	text += fmt.Sprintf("Replaced: %d, Skipped: %d, Failed: %d\n", result.Replaced, result.Skipped, result.Failed)
	text += fmt.Sprintf("Duration: %s\n", result.Duration.Round(time.Millisecond))

	if len(result.Files) > 0 {
		text += "\nFiles:\n"
		for _, f := range result.Files {
			text += fmt.Sprintf("  [%s] %s", f.Outcome, f.RelPath)
			if f.Method != "" {
				text += fmt.Sprintf(" (method: %s)", f.Method)
			}
			if f.Message != "" {
				text += fmt.Sprintf(" - %s", f.Message)
			}
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatPDFSearchDirectoryResult(result *pdf.PDFSearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatPDFStatsDirectoryResult(result *pdf.PDFStatsDirectoryResult) string {
	text := "PDF Directory Statistics\n"
	text += fmt.Sprintf("Directory: %s\n", result.Directory)
	text += fmt.Sprintf("Total PDF files: %d\n", result.TotalFiles)
	text += fmt.Sprintf("Total size: %d bytes\n", result.TotalSize)

	if result.TotalFiles > 0 {
		text += fmt.Sprintf("Average file size: %d bytes\n", result.AverageFileSize)
		if result.LargestFileName != "" {
			text += fmt.Sprintf("Largest file: %s (%d bytes)\n", result.LargestFileName, result.LargestFileSize)
		}
		if result.SmallestFileName != "" {
			text += fmt.Sprintf("Smallest file: %s (%d bytes)\n", result.SmallestFileName, result.SmallestFileSize)
		}
	}

	return text
}

func (s *Server) formatPDFStatsFileResult(result *pdf.PDFStatsFileResult) string {
	text := "PDF File Statistics\n"
	text += fmt.Sprintf("File: %s\n", result.Path)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Modified: %s\n", result.ModifiedDate)

	if result.Title != "" {
		text += fmt.Sprintf("Title: %s\n", result.Title)
	}
	if result.Author != "" {
		text += fmt.Sprintf("Author: %s\n", result.Author)
	}
	if result.Producer != "" {
		text += fmt.Sprintf("Producer: %s\n", result.Producer)
	}

	return text
}

// Run starts the MCP server on stdio
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting %s in stdio mode", s.config.ServerName)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
