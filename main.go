package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hexirules/hexirules/api"
	"github.com/hexirules/hexirules/config"
	"github.com/hexirules/hexirules/engine"
	"github.com/hexirules/hexirules/service"
	"github.com/hexirules/hexirules/ui"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		guiMode     = flag.Bool("gui", false, "Use the desktop viewer instead of the terminal panel")
		apiServer   = flag.Bool("api-server", false, "Start HTTP API server mode")
		apiPort     = flag.Int("port", 0, "API server port (default from config)")
		radius      = flag.Int("radius", 0, "World radius (default from config)")
		seed        = flag.Int64("seed", 0, "RNG seed")
		rulesFile   = flag.String("rules", "", "File with HexiDirect rules to load")
		saveFile    = flag.String("save", "", "Write a world snapshot to this file on exit")
		configFile  = flag.String("config", "", "Config file path (default: platform config dir)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("hexirules %s (%s, %s)\n", Version, Commit, Date)
		return
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if *apiServer {
		port := *apiPort
		if port == 0 {
			port = cfg.Server.Port
		}
		runServer(port)
		return
	}

	svc := service.NewWorldService(pickSeed(*seed, cfg), cfg.Engine.HistorySize)
	if err := setupWorld(svc, cfg, *radius, *rulesFile, flag.Arg(0)); err != nil {
		log.Fatalf("world: %v", err)
	}

	if *guiMode {
		ui.NewGUI(svc, cfg).Run()
	} else {
		if err := ui.NewTUI(svc, cfg).Run(); err != nil {
			log.Fatalf("tui: %v", err)
		}
	}

	if *saveFile != "" {
		if err := saveSnapshot(svc, *saveFile); err != nil {
			log.Fatalf("save: %v", err)
		}
	}
}

// loadConfig loads the config file, or the defaults when none exists
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// pickSeed prefers a non-zero -seed flag over the configured default; a
// -seed of 0 falls back to the configured seed
func pickSeed(flagSeed int64, cfg *config.Config) int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return cfg.Engine.Seed
}

// setupWorld creates the initial world from flags, config and an
// optional snapshot file argument
func setupWorld(svc *service.WorldService, cfg *config.Config, radius int, rulesFile, snapshotFile string) error {
	if radius == 0 {
		radius = cfg.Engine.DefaultRadius
	}
	if err := svc.CreateWorld("main", radius); err != nil {
		return err
	}

	if snapshotFile != "" {
		f, err := os.Open(snapshotFile) // #nosec G304 -- user-supplied snapshot path
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		snap, err := engine.ReadSnapshot(f)
		if err != nil {
			return err
		}
		return svc.Restore(snap)
	}

	rules := cfg.Engine.DefaultRules
	if rulesFile != "" {
		data, err := os.ReadFile(rulesFile) // #nosec G304 -- user-supplied rules path
		if err != nil {
			return err
		}
		rules = string(data)
	}
	if rules == "" {
		return nil
	}
	if err := svc.SetRules(rules); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	return nil
}

// saveSnapshot writes the current world snapshot to a file
func saveSnapshot(svc *service.WorldService, path string) error {
	snap, err := svc.Snapshot()
	if err != nil {
		return err
	}
	f, err := os.Create(path) // #nosec G304 -- user-supplied output path
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return engine.WriteSnapshot(f, snap)
}

// runServer starts the API server and blocks until interrupted
func runServer(port int) {
	server := api.NewServer(port)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-done
	log.Print("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
