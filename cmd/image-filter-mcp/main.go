package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/image-filter-mcp/internal/config"
	"github.com/ironsheep/image-filter-mcp/internal/logging"
	"github.com/ironsheep/image-filter-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var configFile string

	// Handle --version, --help and --config
	for i := 1; i < len(os.Args); i++ {
		switch os.Args[i] {
		case "--version", "-v", "version":
			fmt.Printf("image-filter-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "--config", "-c":
			if i+1 >= len(os.Args) {
				fmt.Fprintln(os.Stderr, "--config needs a file path")
				os.Exit(2)
			}
			i++
			configFile = os.Args[i]
		default:
			fmt.Fprintf(os.Stderr, "unknown argument: %s\n", os.Args[i])
			os.Exit(2)
		}
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr (stdout is for MCP protocol)
	logger, err := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Debug("image filter MCP server starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit),
		zap.Int("default_quality", cfg.DefaultQuality),
		zap.String("default_behavior", cfg.DefaultBehavior),
		zap.Int("max_sessions", cfg.MaxSessions))

	srv := server.New(cfg, logger, Version)
	if err := srv.Run(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func printHelp() {
	fmt.Println("image-filter-mcp - MCP server for resizing, padding and orienting images")
	fmt.Println()
	fmt.Println("Usage: image-filter-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config, -c FILE  Read settings from a YAML file")
	fmt.Println("  --version, -v      Print version information")
	fmt.Println("  --help, -h         Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  IMAGE_FILTER_LOG_LEVEL=debug        Log level (debug, info, warn, error)")
	fmt.Println("  IMAGE_FILTER_LOG_FILE=PATH          Also log JSON lines to a rotated file")
	fmt.Println("  IMAGE_FILTER_DEFAULT_QUALITY=90     JPEG quality when a call gives none")
	fmt.Println("  IMAGE_FILTER_DEFAULT_BEHAVIOR=both  Resize behavior when a call gives none")
	fmt.Println("  IMAGE_FILTER_MAX_SESSIONS=16        Maximum images held open at once")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Register it as a stdio server in your MCP client.")
}
