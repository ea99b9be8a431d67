// Command travelsync is the composition root for the offline-sync core:
// it wires config, storage backends, and the remote API clients, and exposes
// the two flows as subcommands.
//
//	travelsync convert -from EUR -to XOF -amount 1000
//	travelsync sync -user <id> [-once]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	log "github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	infrakv "github.com/voyago/travelsync/infra/kv"
	infraoffline "github.com/voyago/travelsync/infra/offline"
	"github.com/voyago/travelsync/infra/provider"
	"github.com/voyago/travelsync/pkg/config"
	"github.com/voyago/travelsync/pkg/exchange"
	"github.com/voyago/travelsync/pkg/kv"
	"github.com/voyago/travelsync/pkg/syncer"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: travelsync <convert|sync> [flags]")
	}

	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "convert":
		return runConvert(ctx, cfg, logger, args[1:])
	case "sync":
		return runSync(ctx, cfg, logger, args[1:])
	default:
		return fmt.Errorf("unknown command %q (want convert or sync)", args[0])
	}
}

func runConvert(ctx context.Context, cfg *config.App, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	from := fs.String("from", "", "source currency code")
	to := fs.String("to", "", "target currency code")
	amount := fs.Float64("amount", 0, "amount to convert")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *from == "" || *to == "" {
		return fmt.Errorf("convert requires -from and -to")
	}

	store, closeStore := newKVStore(cfg.Redis, logger)
	defer closeStore()

	cache := exchange.NewCache(store, logger, exchange.WithTTL(cfg.Exchange.TTL))
	converter := exchange.NewCachedConverter(
		provider.NewCurrencyAPI(*cfg.Currency, logger),
		cache,
		logger,
	)

	conv, err := converter.Convert(ctx, *from, *to, *amount)
	if err != nil {
		return err
	}

	fmt.Printf("%g %s = %g %s (rate %g)\n",
		conv.Amount, conv.FromCurrency, conv.Converted, conv.ToCurrency, conv.Rate)
	return nil
}

func runSync(ctx context.Context, cfg *config.App, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	userID := fs.String("user", "", "user id whose bookings are synced")
	once := fs.Bool("once", false, "drain and refresh once instead of looping")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID == "" {
		return fmt.Errorf("sync requires -user")
	}

	store, err := infraoffline.Open(cfg.Offline.Path, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	remote := provider.NewBookingsAPI(*cfg.Bookings, logger)
	s := syncer.New(store, remote, logger, syncer.WithMaxRetries(cfg.Offline.SyncRetries))

	if *once {
		if _, err := s.Drain(ctx); err != nil {
			return err
		}
		return s.Refresh(ctx, *userID)
	}

	logger.Info("starting sync loop",
		"user_id", *userID,
		"interval", cfg.Offline.SyncInterval,
		"db", cfg.Offline.Path,
	)
	err = s.Run(ctx, *userID, cfg.Offline.SyncInterval)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// newKVStore picks the persistent backend when Redis is configured, falling
// back to memory so the convert path still works without one.
func newKVStore(cfg *config.Redis, logger *slog.Logger) (kv.Store, func()) {
	if cfg == nil || cfg.URL == "" {
		return infrakv.NewMemory(), func() {}
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		logger.Warn("invalid redis URL, using in-memory cache store", "error", err)
		return infrakv.NewMemory(), func() {}
	}
	r := infrakv.NewRedis(opt, cfg.KeyPrefix, logger)
	return r, func() { _ = r.Close() }
}

func newLogger(cfg *config.Log) *slog.Logger {
	if cfg == nil {
		cfg = &config.Log{Format: "json"}
	}
	opts := &slog.HandlerOptions{Level: slog.Level(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
