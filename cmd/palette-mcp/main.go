package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ironsheep/palette-tools-mcp/internal/authority"
	"github.com/ironsheep/palette-tools-mcp/internal/config"
	"github.com/ironsheep/palette-tools-mcp/internal/devicecolor"
	"github.com/ironsheep/palette-tools-mcp/internal/engine"
	"github.com/ironsheep/palette-tools-mcp/internal/logger"
	"github.com/ironsheep/palette-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var configPath string

	// Handle --version, --help and --config
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("palette-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "--config", "-c":
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, "--config needs a file path")
				os.Exit(2)
			}
			configPath = os.Args[2]
		default:
			fmt.Fprintf(os.Stderr, "unknown argument %q, see --help\n", os.Args[1])
			os.Exit(2)
		}
	}

	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr; stdout is for MCP protocol
	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer l.Sync() //nolint:errcheck // stderr sync fails on some terminals
	zap.ReplaceGlobals(l)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(logger.NewContext(ctx, l), cfg); err != nil {
		l.Error("server error", zap.Error(err))
		l.Sync() //nolint:errcheck
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("palette-tools-mcp - MCP server for Adobe Swatch Exchange palettes")
	fmt.Println()
	fmt.Println("Usage: palette-tools-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v        Print version information")
	fmt.Println("  --help, -h           Print this help message")
	fmt.Println("  --config, -c FILE    Read settings from a YAML file")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=FILE        YAML settings file\n", config.EnvConfig)
	fmt.Printf("  %s=debug    Log level: debug, info, warn, error\n", config.EnvLogLevel)
	fmt.Printf("  %s=FILE     Extra reference swatches (YAML)\n", config.EnvAuthority)
	fmt.Printf("  %s=true     Treat CSS color names as references\n", config.EnvCSSNames)
	fmt.Printf("  %s=FILE  ICC output profile for CMYK colors\n", config.EnvCMYKProfile)
	fmt.Printf("  %s=sv          Locale for sorting group names\n", config.EnvLocale)
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func run(ctx context.Context, cfg config.Config) error {
	l := logger.L(ctx)
	if Version != "dev" {
		server.Version = Version
	}
	l.Debug("starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit))

	refs, err := buildReferences(cfg.Authority)
	if err != nil {
		return err
	}
	l.Info("reference table ready", zap.Int("references", refs.Len()))

	opts := []engine.Option{engine.WithLogger(l)}
	if cfg.CMYKProfile != "" {
		svc := devicecolor.NewService()
		svc.Start(ctx, devicecolor.LoadProfileFile(cfg.CMYKProfile))
		go func() {
			if err := svc.Wait(ctx); err != nil {
				l.Warn("CMYK profile unavailable, using analytic conversion",
					zap.String("profile", cfg.CMYKProfile), zap.Error(err))
				return
			}
			l.Info("CMYK profile loaded", zap.String("profile", cfg.CMYKProfile))
		}()
		opts = append(opts, engine.WithDeviceTransform(svc))
	}

	srv := server.New(
		server.WithEngine(engine.New(refs, opts...)),
		server.WithLogger(l),
		server.WithLanguage(cfg.Language()),
	)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// buildReferences merges the reference tables in increasing priority: CSS
// color names when enabled, the built-in table, then the configured file.
func buildReferences(cfg config.Authority) (*authority.Table, error) {
	var css, file *authority.Table
	if cfg.CSSNames {
		css = authority.CSSColors()
	}
	if cfg.File != "" {
		t, err := authority.LoadFile(cfg.File)
		if err != nil {
			return nil, err
		}
		file = t
	}
	return authority.Merge(css, authority.Default(), file), nil
}
