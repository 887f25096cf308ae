package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/ironsheep/image-hash-mcp/internal/config"
	"github.com/ironsheep/image-hash-mcp/internal/imaging"
	"github.com/ironsheep/image-hash-mcp/internal/server"
	"github.com/ironsheep/image-hash-mcp/internal/store"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// stdout is for MCP protocol
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	flags := pflag.NewFlagSet("image-hash-mcp", pflag.ExitOnError)
	showVersion := flags.BoolP("version", "v", false, "Print version information")
	showHelp := flags.BoolP("help", "h", false, "Print this help message")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Hash index file; index tools are disabled when empty")
	flags.IntVar(&cfg.Threshold, "threshold", cfg.Threshold, "Default similarity threshold (1-65)")
	grayscale := flags.String("grayscale", string(cfg.Grayscale), "Gray conversion for the dct hash (rec601, rec709, lightness)")
	flags.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent workers for batch hashing")
	flags.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("image-hash-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}
	if *showHelp {
		fmt.Println("image-hash-mcp - MCP server for perceptual image hashing")
		fmt.Println()
		fmt.Println("Usage: image-hash-mcp [options]")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Print(flags.FlagUsages())
		fmt.Println()
		fmt.Println("Environment variables:")
		fmt.Printf("  %s, %s, %s,\n", config.EnvLogLevel, config.EnvDBPath, config.EnvThreshold)
		fmt.Printf("  %s, %s\n", config.EnvGrayscale, config.EnvWorkers)
		fmt.Println()
		fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
		return
	}
	cfg.Grayscale = imaging.GrayscaleMode(*grayscale)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.SetLevel(cfg.Level())

	log.WithFields(logrus.Fields{
		"version":   Version,
		"built":     BuildTime,
		"commit":    GitCommit,
		"threshold": cfg.Threshold,
		"grayscale": cfg.Grayscale,
	}).Debug("starting image-hash-mcp")

	var index *store.Store
	if cfg.DBPath != "" {
		index, err = store.Open(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open index: %v", err)
		}
		defer index.Close()
		log.WithField("path", cfg.DBPath).Info("hash index opened")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, index, log)
	srv.Version = Version
	if err := srv.Run(ctx); err != nil && err != context.Canceled {
		log.Errorf("Server error: %v", err)
		if index != nil {
			index.Close()
		}
		os.Exit(1)
	}
}
