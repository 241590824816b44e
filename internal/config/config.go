package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeCLI   = "cli"
	ModeStdio = "stdio"

	// Replacement method constants
	MethodClean    = "clean"
	MethodMinimal  = "minimal"
	MethodDirect   = "direct"
	MethodOverlay  = "overlay"
	MethodPrecise  = "precise"
	MethodStandard = "standard"
	MethodSimple   = "simple"

	// Default values
	DefaultMethod      = MethodClean
	DefaultOldText     = "KYC Report"
	DefaultNewText     = "PD Report"
	DefaultLogLevel    = "info"
	DefaultLogFile     = "pd-retitle.log"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the PDF retitle tool
type Config struct {
	// Execution configuration
	Mode string // "cli" for batch processing, "stdio" for MCP server

	// Directory configuration
	InputDir  string
	OutputDir string

	// Replacement configuration
	Method  string
	OldText string
	NewText string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	LogFile     string
	Verbose     bool
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// Methods returns the valid replacement method names in fallback order
func Methods() []string {
	return []string{
		MethodClean, MethodMinimal, MethodDirect, MethodOverlay,
		MethodPrecise, MethodStandard, MethodSimple,
	}
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:        ModeCLI,
		InputDir:    "",
		OutputDir:   "",
		Method:      DefaultMethod,
		OldText:     DefaultOldText,
		NewText:     DefaultNewText,
		Version:     "1.0.0",
		ServerName:  "pd-retitle",
		LogLevel:    DefaultLogLevel,
		LogFile:     DefaultLogFile,
		Verbose:     false,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	// Load a local .env file if present; environment always wins
	_ = godotenv.Load()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// The --simple switch is a shorthand for --method=simple
	if viper.GetBool("simple") {
		cfg.Method = MethodSimple
	}

	// Verbose implies debug logging
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	cfg.expandDirectories()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// expandDirectories resolves the directory settings to absolute paths and
// derives the default output directory from the input directory
func (c *Config) expandDirectories() {
	if c.InputDir != "" {
		if expandedPath, err := filepath.Abs(c.InputDir); err == nil {
			c.InputDir = expandedPath
		}
	}
	if c.OutputDir == "" && c.InputDir != "" {
		c.OutputDir = filepath.Join(c.InputDir, "processed")
	}
	if c.OutputDir != "" {
		if expandedPath, err := filepath.Abs(c.OutputDir); err == nil {
			c.OutputDir = expandedPath
		}
	}
}

// ApplyDefaults normalizes the directory settings and validates them for a
// batch run. Used when a configuration is assembled outside LoadFromFlags,
// e.g. for a directory run requested over the MCP server.
func (c *Config) ApplyDefaults() error {
	c.Mode = ModeCLI
	c.expandDirectories()
	return c.Validate()
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("PD_RETITLE")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("input-dir", cfg.InputDir)
	viper.SetDefault("output-dir", cfg.OutputDir)
	viper.SetDefault("method", cfg.Method)
	viper.SetDefault("old-text", cfg.OldText)
	viper.SetDefault("new-text", cfg.NewText)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("logfile", cfg.LogFile)
	viper.SetDefault("verbose", cfg.Verbose)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("simple", false)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Execution mode: 'cli' for batch processing, 'stdio' for MCP server")
	pflag.StringP("input-dir", "i", cfg.InputDir, "Directory containing PDF files to process")
	pflag.StringP("output-dir", "o", cfg.OutputDir, "Directory for processed PDF files (default: <input-dir>/processed)")
	pflag.String("method", cfg.Method, "Replacement method (clean, minimal, direct, overlay, precise, standard, simple)")
	pflag.Bool("simple", false, "Use the simple stamp method instead of text replacement")
	pflag.String("old-text", cfg.OldText, "Phrase to replace on the first page")
	pflag.String("new-text", cfg.NewText, "Replacement phrase")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.String("logfile", cfg.LogFile, "Log file path (empty disables the log file)")
	pflag.BoolP("verbose", "v", cfg.Verbose, "Enable verbose logging")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("input-dir", pflag.Lookup("input-dir"))
	_ = viper.BindPFlag("output-dir", pflag.Lookup("output-dir"))
	_ = viper.BindPFlag("method", pflag.Lookup("method"))
	_ = viper.BindPFlag("simple", pflag.Lookup("simple"))
	_ = viper.BindPFlag("old-text", pflag.Lookup("old-text"))
	_ = viper.BindPFlag("new-text", pflag.Lookup("new-text"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("logfile", pflag.Lookup("logfile"))
	_ = viper.BindPFlag("verbose", pflag.Lookup("verbose"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\npd-retitle - Batch replace report titles on the first page of PDF files\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --input-dir=./PD                        "+
			"# process ./PD into ./PD/processed\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i ./PD -o ./processed_pdfs             "+
			"# explicit output directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i ./PD --method=overlay                # pick a replacement method\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i ./PD --simple                        # stamp fallback method\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio                            # run as an MCP server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PD_RETITLE_MODE        Execution mode\n")
		fmt.Fprintf(os.Stderr, "  PD_RETITLE_INPUT_DIR   Input directory\n")
		fmt.Fprintf(os.Stderr, "  PD_RETITLE_OUTPUT_DIR  Output directory\n")
		fmt.Fprintf(os.Stderr, "  PD_RETITLE_METHOD      Replacement method\n")
		fmt.Fprintf(os.Stderr, "  PD_RETITLE_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  PD_RETITLE_LOGFILE     Log file path\n")
		fmt.Fprintf(os.Stderr, "  PD_RETITLE_MAXFILESIZE Maximum file size\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.InputDir = viper.GetString("input-dir")
	cfg.OutputDir = viper.GetString("output-dir")
	cfg.Method = viper.GetString("method")
	cfg.OldText = viper.GetString("old-text")
	cfg.NewText = viper.GetString("new-text")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.LogFile = viper.GetString("logfile")
	cfg.Verbose = viper.GetBool("verbose")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeCLI && c.Mode != ModeStdio {
		return errors.New("mode must be either 'cli' or 'stdio'")
	}

	// Validate method
	if !IsValidMethod(c.Method) {
		return fmt.Errorf("invalid method: %s (must be one of: clean, minimal, direct, overlay, precise, standard, simple)",
			c.Method)
	}

	// Validate replacement phrases
	if c.OldText == "" {
		return errors.New("old-text cannot be empty")
	}
	if c.NewText == "" {
		return errors.New("new-text cannot be empty")
	}

	// Validate input directory (CLI mode only; the MCP server takes paths per call)
	if c.Mode == ModeCLI {
		if c.InputDir == "" {
			return errors.New("input directory is required")
		}
		info, err := os.Stat(c.InputDir)
		if os.IsNotExist(err) {
			return fmt.Errorf("input directory does not exist: %s", c.InputDir)
		}
		if err != nil {
			return fmt.Errorf("cannot access input directory %s: %w", c.InputDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("input path is not a directory: %s", c.InputDir)
		}

		if c.OutputDir == "" {
			return errors.New("output directory cannot be empty")
		}
		// Create the output directory if it doesn't exist yet
		if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
			if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
		}
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsValidMethod reports whether name is a known replacement method
func IsValidMethod(name string) bool {
	for _, m := range Methods() {
		if m == name {
			return true
		}
	}
	return false
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsCLIMode returns true if the tool runs as a batch processor
func (c *Config) IsCLIMode() bool {
	return c.Mode == ModeCLI
}

// IsStdioMode returns true if the tool runs as an MCP server
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, InputDir: %s, OutputDir: %s, Method: %s, OldText: %q, NewText: %q, "+
		"LogLevel: %s, LogFile: %s, MaxFileSize: %d}",
		c.Mode, c.InputDir, c.OutputDir, c.Method, c.OldText, c.NewText, c.LogLevel, c.LogFile, c.MaxFileSize)
}
