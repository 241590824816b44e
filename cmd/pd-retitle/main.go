package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/Tirthankar03/PD-manipulation/internal/batch"
	"github.com/Tirthankar03/PD-manipulation/internal/config"
	"github.com/Tirthankar03/PD-manipulation/internal/mcp"
	"github.com/Tirthankar03/PD-manipulation/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the execution mode. In CLI mode
// the log goes to stderr and, when configured, a log file as well.
func setupLogging(cfg *config.Config) (*os.File, error) {
	if cfg.IsStdioMode() {
		// In stdio mode, keep stdout clean for the MCP protocol
		log.SetOutput(os.Stderr)
		if !cfg.IsDebug() {
			log.SetOutput(io.Discard)
		}
		return nil, nil
	}

	log.SetFlags(log.LstdFlags)

	if cfg.LogFile == "" {
		log.SetOutput(os.Stderr)
		return nil, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return f, nil
}

// runCLIMode executes a single batch replacement run
func runCLIMode(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, service *pdf.Service) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalCh
		log.Printf("Received signal: %s, stopping", sig)
		cancel()
	}()

	runner, err := batch.NewRunner(cfg, service)
	if err != nil {
		log.Fatalf("Failed to create batch runner: %v", err)
	}

	result, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("Batch run failed: %v", err)
	}

	fmt.Println(result.Summary())
	if result.Failed > 0 {
		os.Exit(1)
	}
}

// runStdioMode serves MCP tool calls over stdin/stdout
func runStdioMode(ctx context.Context, cfg *config.Config, service *pdf.Service) {
	server, err := mcp.NewServer(cfg, service)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	// The parent process controls our lifecycle; exit cleanly when stdin
	// closes or the transport errors out.
	if err := server.Run(ctx); err != nil {
		if os.Getenv("DEBUG") != "" {
			log.Printf("Server error: %v", err)
		}
		os.Exit(1)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := setupLogging(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() && cfg.IsCLIMode() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	// The MCP server takes output paths per call, so path containment is
	// only enforced for batch runs.
	outputRoot := ""
	if cfg.IsCLIMode() {
		outputRoot = cfg.OutputDir
	}
	service, err := pdf.NewService(cfg.MaxFileSize, outputRoot, cfg.IsDebug())
	if err != nil {
		log.Fatalf("Failed to create PDF service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsCLIMode() {
		runCLIMode(ctx, cancel, cfg, service)
	} else {
		runStdioMode(ctx, cfg, service)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("pd-retitle\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
