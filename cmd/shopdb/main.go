package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"murshop24/config"
	"murshop24/internal/admin"
	"murshop24/internal/db"
	"murshop24/internal/logger"
	"murshop24/internal/services"
)

const usage = `usage: shopdb <command> [flags]

commands:
  migrate        создать или обновить схему
  serve          миграция, затем планировщик и HTTP (/health, /metrics)
  register-bot   зарегистрировать бота по токену (-token, -operator, -reviews-channel)
  backup         сделать дамп в BACKUP_DIR
  restore        восстановить БД из дампа (-file)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := config.LoadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(config.AppCfg.Env); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

var commands = map[string]bool{
	"migrate":      true,
	"serve":        true,
	"register-bot": true,
	"backup":       true,
	"restore":      true,
}

func run(ctx context.Context, cmd string, args []string) error {
	// Неизвестная команда не должна доходить до подключения и миграции
	if !commands[cmd] {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
	cfg := config.AppCfg
	switch cmd {
	case "backup":
		file, err := admin.AutoBackupDatabase(ctx, cfg.BackupDir, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		fmt.Println(file)
		return nil
	case "restore":
		fs := flag.NewFlagSet("restore", flag.ExitOnError)
		file := fs.String("file", "", "путь к дампу")
		fs.Parse(args)
		if *file == "" {
			return errors.New("restore: -file is required")
		}
		return admin.RestoreDatabase(ctx, filepath.Clean(*file), cfg.DatabaseURL)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	logger.Info("schema migrated")

	switch cmd {
	case "migrate":
		return nil
	case "register-bot":
		return registerBot(ctx, store, args)
	case "serve":
		initNotifier(cfg)
		return serve(ctx, cfg, store)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func openStore(cfg config.AppConfig) (*db.Store, error) {
	level, err := db.ParseLogLevel(cfg.DB.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := db.DefaultOptions()
	opts.MaxOpenConns = cfg.DB.MaxOpenConns
	opts.MaxIdleConns = cfg.DB.MaxIdleConns
	opts.ConnMaxLifetime = cfg.DB.ConnMaxLifetime
	opts.Logger = logger.L()
	opts.LogLevel = level
	return db.Open(cfg.DatabaseURL, opts)
}

// initNotifier включает уведомления админу, если задан токен служебного бота
func initNotifier(cfg config.AppConfig) {
	if cfg.AdminBotToken == "" || cfg.AdminTelegramID == 0 {
		logger.Info("admin notifications disabled")
		return
	}
	bot, err := tgbotapi.NewBotAPI(cfg.AdminBotToken)
	if err != nil {
		logger.Warn("failed to create admin bot", zap.Error(err))
		return
	}
	logger.InitNotifier(bot, cfg.AdminTelegramID)
	logger.Info("admin notifications enabled", zap.String("bot", bot.Self.UserName))
}

func registerBot(ctx context.Context, store *db.Store, args []string) error {
	fs := flag.NewFlagSet("register-bot", flag.ExitOnError)
	token := fs.String("token", "", "токен бота")
	operator := fs.Int64("operator", 0, "id оператора")
	channel := fs.Int64("reviews-channel", 0, "id канала отзывов (0 - без канала)")
	fs.Parse(args)

	if _, err := db.Get[db.TgOperator](ctx, store, *operator); err != nil {
		return err
	}
	p := services.RegisterBotParams{Token: *token, OperatorID: *operator}
	if *channel != 0 {
		p.ReviewsChannelID = channel
	}
	bot, err := services.RegisterBot(ctx, store, services.TelegramResolver{}, p)
	if err != nil {
		return err
	}
	logger.Info("bot registered", zap.Int64("id", bot.ID), zap.String("username", bot.TgUsername))
	return nil
}

func serve(ctx context.Context, cfg config.AppConfig, store *db.Store) error {
	c := cron.New()
	// Автоматический бэкап БД раз в сутки
	c.AddFunc("0 3 * * *", func() {
		defer logger.NotifyOnPanic("backup")
		services.RunBackup(ctx, cfg.BackupDir, cfg.DatabaseURL)
	})
	// Отчёт по заказам каждый час
	c.AddFunc("@hourly", func() {
		defer logger.NotifyOnPanic("order report")
		services.PublishOrderReport(ctx, store)
	})
	c.Start()
	defer c.Stop()

	mux := http.NewServeMux()
	mux.Handle("/health", services.HealthHandler(store))
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server started", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
