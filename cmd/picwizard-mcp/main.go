package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/picwizard/internal/config"
	"github.com/ironsheep/picwizard/internal/dispatch"
	"github.com/ironsheep/picwizard/internal/logging"
	"github.com/ironsheep/picwizard/internal/server"
	"github.com/ironsheep/picwizard/internal/transform"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("picwizard-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  Denoise backend: %s\n", transform.DenoiseBackend)
			return
		case "--help", "-h", "help":
			fmt.Println("picwizard-mcp - MCP server for image enhancement")
			fmt.Println()
			fmt.Println("Usage: picwizard-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  PICWIZARD_CONFIG=/path/to/picwizard.yaml   Optional config file")
			fmt.Println("  PICWIZARD_LOG__LEVEL=debug                 Enable debug logging")
			fmt.Println("  PICWIZARD_OUTPUT__FORMAT=jpeg              Default output encoding")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	cfg, err := config.Load(os.Getenv("PICWIZARD_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "picwizard-mcp: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr; stdout is for MCP protocol
	if err := logging.Init(cfg.Log.Level, cfg.Log.JSON); err != nil {
		fmt.Fprintf(os.Stderr, "picwizard-mcp: %v\n", err)
		os.Exit(1)
	}

	log.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Str("denoise_backend", transform.DenoiseBackend).
		Msg("starting picwizard MCP server")

	if Version != "dev" {
		server.Version = Version
	}
	d := dispatch.New(dispatch.WithPaletteOptions(cfg.Palette))
	srv := server.New(
		server.WithDispatcher(d),
		server.WithOutput(cfg.Output.Format, cfg.Output.JPEGQuality),
	)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
