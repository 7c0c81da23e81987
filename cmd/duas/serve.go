package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/prophets-duas-bot/internal/catalog"
	"github.com/aliskhannn/prophets-duas-bot/internal/config"
	"github.com/aliskhannn/prophets-duas-bot/internal/delivery/telegram"
	"github.com/aliskhannn/prophets-duas-bot/internal/delivery/web"
	"github.com/aliskhannn/prophets-duas-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/prophets-duas-bot/internal/infra/postgres/repository"
	redisinfra "github.com/aliskhannn/prophets-duas-bot/internal/infra/redis"
	"github.com/aliskhannn/prophets-duas-bot/internal/preferences"
	"github.com/aliskhannn/prophets-duas-bot/internal/service"
	"github.com/aliskhannn/prophets-duas-bot/internal/session"
	"github.com/aliskhannn/prophets-duas-bot/internal/storage"
)

const watchDebounce = 250 * time.Millisecond

var errNothingToServe = errors.New("both telegram.enabled and http.enabled are false")

// serveCmd runs the bot and the web surface until interrupted
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and the web server",
	Long: `Loads the dataset, opens the preferences storage (storage.driver) and runs
the enabled surfaces. The dataset is reloaded on dataset.refresh_cron and,
with dataset.watch, whenever the local file changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// botCommands is the command menu shown by Telegram clients.
var botCommands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start the bot"},
	{Command: "home", Description: "Featured & recent"},
	{Command: "prophets", Description: "Browse by prophet"},
	{Command: "topics", Description: "Browse by topic"},
	{Command: "favorites", Description: "Saved duas"},
	{Command: "daily", Description: "The dua of the day"},
	{Command: "search", Description: "Search (usage: /search patience)"},
	{Command: "reset", Description: "Clear filters"},
	{Command: "settings", Description: "Language, fields and font size"},
	{Command: "tour", Description: "Replay the introduction"},
	{Command: "about", Description: "About & sources"},
	{Command: "help", Description: "Help"},
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !cfg.Telegram.Enabled && !cfg.HTTP.Enabled {
		return errNothingToServe
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeKV, err := openStorage(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	defer closeKV()

	repo := datasetRepository(cfg)
	catalogs := service.NewCatalogService(repo, zlog)
	catalogs.Subscribe(func(c *catalog.Catalog) {
		zlog.Debug("catalog published", zap.Int("duas", c.Len()))
	})

	// A failed first load keeps the surfaces up; they offer a retry.
	if err := catalogs.Load(ctx); err != nil {
		zlog.Warn("initial dataset load failed", zap.Error(err))
	}

	sessions := session.NewManager(kv, catalogs, zlog, cfg.Telegram.SearchDebounce)
	defer sessions.Close()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Telegram.Enabled {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		bot.Debug = cfg.Telegram.Debug
		if _, err := bot.Request(tgbotapi.NewSetMyCommands(botCommands...)); err != nil {
			zlog.Warn("failed to set bot commands", zap.Error(err))
		}
		zlog.Info("authorized on telegram", zap.String("username", bot.Self.UserName))

		handler := telegram.NewHandler(bot, zlog, catalogs, sessions, telegram.Config{
			PublicURL:       cfg.HTTP.PublicURL,
			PageSize:        cfg.Telegram.PageSize,
			OnboardingDelay: cfg.Telegram.OnboardingDelay,
		})
		g.Go(func() error {
			return ignoreCanceled(handler.Run(gctx))
		})
	}

	if cfg.HTTP.Enabled {
		srv, err := web.NewServer(web.Config{
			Addr:           cfg.HTTP.Addr,
			PublicURL:      cfg.HTTP.PublicURL,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			Production:     cfg.IsProduction(),
			TourDelay:      cfg.Telegram.OnboardingDelay,
		}, catalogs, sessions, zlog)
		if err != nil {
			return fmt.Errorf("web: %w", err)
		}
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	if cfg.Session.SweepCron != "" && cfg.Session.IdleTTL > 0 {
		g.Go(func() error {
			return sessions.RunEviction(gctx, cfg.Session.SweepCron, cfg.Session.IdleTTL)
		})
	}

	if cfg.Dataset.RefreshCron != "" {
		g.Go(func() error {
			return catalogs.RefreshCatalog(gctx, cfg.Dataset.RefreshCron)
		})
	}

	if cfg.Dataset.Watch {
		if path := repo.Path(); path != "" {
			g.Go(func() error {
				return catalogs.WatchFile(gctx, path, watchDebounce)
			})
		} else {
			zlog.Warn("dataset.watch ignored for remote datasets", zap.String("url", cfg.Dataset.URL))
		}
	}

	err = g.Wait()
	zlog.Info("shutdown complete")
	return err
}

// openStorage opens the preferences backend selected by storage.driver.
func openStorage(ctx context.Context, c *config.Config, logger *zap.Logger) (preferences.KV, func(), error) {
	switch c.Storage.Driver {
	case config.StoragePostgres:
		dsn, err := c.DB.DSN()
		if err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(c.DB.MaxConnections),
			MaxConnLifetime: c.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("preferences stored in postgres")
		return pgrepo.NewKVRepository(pool, postgres.NewTransactor(pool)), pool.Close, nil

	case config.StorageRedis:
		rdb, err := redisinfra.NewClient(ctx, redisinfra.Options{
			Addr:     c.Redis.Addr,
			Username: c.Redis.Username,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		logger.Info("preferences stored in redis", zap.String("addr", c.Redis.Addr))
		return redisinfra.NewKVStorage(rdb, c.Redis.TTL), func() { _ = rdb.Close() }, nil

	default:
		logger.Info("preferences kept in memory")
		return storage.NewKVStorage(), func() {}, nil
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
