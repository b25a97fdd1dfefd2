package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/image-highlights-mcp/internal/config"
	"github.com/ironsheep/image-highlights-mcp/internal/logging"
	"github.com/ironsheep/image-highlights-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("HIGHLIGHTS_MCP_LOG_LEVEL") == "debug"
	logging.SetDebug(debug)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("highlights-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "extract":
			os.Exit(extractMain(os.Args[2:], os.Stdout, os.Stderr))
		}
	}

	if debug {
		log.Printf("Image Highlights MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New(config.Default())
	if err := srv.Run(os.Stdin, os.Stdout); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("highlights-mcp - find and cut out the busy regions of an image")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  highlights-mcp [options]            Run the MCP server on stdin/stdout")
	fmt.Println("  highlights-mcp extract [flags] img  Process images in batch")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Extract flags:")
	fmt.Println("  -config file     YAML pipeline configuration")
	fmt.Println("  -out dir         Output directory (default \"highlights\")")
	fmt.Println("  -workers n       Images processed at once (default: CPU count)")
	fmt.Println("  -plot            Also write convergence.png per image")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  HIGHLIGHTS_MCP_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println()
	fmt.Println("In server mode it communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
