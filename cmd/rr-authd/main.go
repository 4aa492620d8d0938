package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haukened/rr-authd/internal/dns/common/clock"
	"github.com/haukened/rr-authd/internal/dns/common/log"
	"github.com/haukened/rr-authd/internal/dns/config"
	"github.com/haukened/rr-authd/internal/dns/gateways/transport"
	"github.com/haukened/rr-authd/internal/dns/gateways/wire"
	"github.com/haukened/rr-authd/internal/dns/repos/journal"
	"github.com/haukened/rr-authd/internal/dns/repos/msgcache"
	"github.com/haukened/rr-authd/internal/dns/repos/zone"
	"github.com/haukened/rr-authd/internal/dns/repos/zonetree"
	"github.com/haukened/rr-authd/internal/dns/services/authority"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "rr-authd"

	// defaultRecordTTL applies to zone file records without a ttl key.
	defaultRecordTTL = 300 * time.Second

	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the components of the DNS server.
type Application struct {
	config     *config.AppConfig
	transports []transport.ServerTransport
	responder  *authority.Responder
	journal    *journal.Journal
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	err = log.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"app":           appName,
		"version":       version,
		"env":           cfg.Env,
		"log_level":     cfg.LogLevel,
		"port":          cfg.Port,
		"tcp_enabled":   cfg.TCPEnabled,
		"zone_dir":      cfg.ZoneDir,
		"edns_udp_size": cfg.EDNSUDPSize,
		"cache_size":    cfg.CacheSize,
	}, "Starting authoritative DNS server")

	// Build application with all dependencies
	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Server failed")
	}

	log.Info(nil, "Authoritative DNS server stopped gracefully")
}

// buildApplication constructs all components and wires them together.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()
	codec := wire.NewCodec(logger)

	zones, jnl, err := loadZones(cfg)
	if err != nil {
		return nil, err
	}

	cache, err := buildCache(cfg)
	if err != nil {
		return nil, err
	}

	responder := authority.NewResponder(authority.ResponderOptions{
		Zones:      zones,
		Cache:      cache,
		Logger:     logger,
		MaxUDPSize: cfg.EDNSUDPSize,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	transports := []transport.ServerTransport{
		transport.NewUDPTransport(addr, codec, logger),
	}
	if cfg.TCPEnabled {
		transports = append(transports, transport.NewTCPTransport(addr, codec, logger))
	}

	return &Application{
		config:     cfg,
		transports: transports,
		responder:  responder,
		journal:    jnl,
	}, nil
}

// loadZones reads every zone file, replays the update journal over the fresh
// trees, and publishes them as the served zone set.
func loadZones(cfg *config.AppConfig) (*zonetree.ZoneSet, *journal.Journal, error) {
	trees, err := zone.LoadZoneDirectory(cfg.ZoneDir, defaultRecordTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load zone directory: %w", err)
	}

	var jnl *journal.Journal
	if cfg.JournalPath != "" {
		jnl, err = journal.Open(cfg.JournalPath, clock.RealClock{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open update journal: %w", err)
		}
	}

	zones := zonetree.NewZoneSet()
	for _, tree := range trees {
		if jnl != nil {
			replayed := 0
			err := jnl.Replay(tree.Apex(), func(e journal.Entry) error {
				set, err := e.RRSet()
				if err != nil {
					return err
				}
				replayed++
				return tree.Insert(set)
			})
			if err != nil {
				return nil, nil, fmt.Errorf("failed to replay journal for %s: %w", tree.Apex(), err)
			}
			if replayed > 0 {
				log.Info(map[string]any{
					"zone":    tree.Apex(),
					"entries": replayed,
				}, "Replayed journaled updates")
			}
		}
		zones.Publish(tree)
		log.Info(map[string]any{
			"zone":   tree.Apex(),
			"rrsets": tree.Len(),
		}, "Zone published")
	}

	log.Info(map[string]any{
		"zone_dir": cfg.ZoneDir,
		"zones":    zones.Count(),
	}, "Zone set initialized")

	return zones, jnl, nil
}

// buildCache creates the packed-response cache, or a disabled one when
// caching is turned off.
func buildCache(cfg *config.AppConfig) (msgcache.Cache, error) {
	if cfg.DisableCache {
		log.Info(map[string]any{"disabled": true}, "Response caching disabled")
		return msgcache.New(0)
	}
	size := cfg.CacheSize
	if size > uint(^uint(0)>>1) {
		return nil, fmt.Errorf("cache size too large: %d", size)
	}
	cache, err := msgcache.New(int(size))
	if err != nil {
		return nil, fmt.Errorf("failed to create response cache: %w", err)
	}
	log.Info(map[string]any{
		"type": "LRU",
		"size": cfg.CacheSize,
	}, "Response cache configured")
	return cache, nil
}

// Run starts the transports and blocks until the context is cancelled.
func (app *Application) Run(ctx context.Context) error {
	started := make([]transport.ServerTransport, 0, len(app.transports))
	for _, tr := range app.transports {
		if err := tr.Start(ctx, app.responder); err != nil {
			for _, s := range started {
				_ = s.Stop()
			}
			return fmt.Errorf("failed to start transport: %w", err)
		}
		started = append(started, tr)
		log.Info(map[string]any{"address": tr.Address()}, "DNS transport serving")
	}

	<-ctx.Done()

	log.Info(nil, "Shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for _, tr := range app.transports {
			if err := tr.Stop(); err != nil {
				log.Warn(map[string]any{"error": err}, "Error during transport shutdown")
			}
		}
		if app.journal != nil {
			if err := app.journal.Close(); err != nil {
				log.Warn(map[string]any{"error": err}, "Error closing update journal")
			}
		}
		close(done)
	}()

	select {
	case <-done:
		log.Info(nil, "Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		log.Warn(map[string]any{"timeout": defaultShutdownTimeout}, "Shutdown timeout exceeded")
		return fmt.Errorf("shutdown timeout")
	}
}
