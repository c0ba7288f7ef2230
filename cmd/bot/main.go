package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"
	"github.com/uptrace/bun"

	"github.com/dkazarov/statusbot/internal/bot"
	"github.com/dkazarov/statusbot/internal/config"
	"github.com/dkazarov/statusbot/internal/dialog"
	"github.com/dkazarov/statusbot/internal/domain/audience"
	"github.com/dkazarov/statusbot/internal/domain/registry"
	"github.com/dkazarov/statusbot/internal/domain/suggestions"
	"github.com/dkazarov/statusbot/internal/infra/db"
	httpx "github.com/dkazarov/statusbot/internal/infra/http"
	"github.com/dkazarov/statusbot/internal/infra/logger"
	"github.com/dkazarov/statusbot/internal/moderation"
	"github.com/dkazarov/statusbot/migrations"
)

func runMigrations(bdb *bun.DB, log *slog.Logger) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	if err := goose.Up(bdb.DB, "."); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)
	log.Info("using sqlite store", "path", cfg.SQLite.Path)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bdb, err := db.Open(ctx, cfg.SQLite.Path)
	if err != nil {
		log.Error("db open failed", "err", err)
		return
	}
	defer func() { _ = bdb.Close() }()
	log.Info("db connected")

	if err := runMigrations(bdb, log); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram init failed", "err", err)
		return
	}
	log.Info("telegram authorized", "bot", api.Self.UserName)

	admins := make([]moderation.Admin, 0, len(cfg.Admins))
	for _, a := range cfg.Admins {
		admins = append(admins, moderation.Admin{ID: a.ID, Name: a.Name})
	}
	gate := moderation.NewGate(admins)

	audit := bot.NewAuditLog(api, log, cfg.Telegram.LogChannelID)
	svc := moderation.NewService(log, gate,
		registry.NewRepo(bdb), suggestions.NewRepo(bdb), audience.NewRepo(bdb),
		audit, cfg.StatusAliases)

	b := bot.New(api, log, svc, dialog.NewRepo(bdb), cfg.Channels, cfg.Telegram.SuggestionChannelID)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	if err := b.Run(ctx, 30); err != nil && ctx.Err() == nil {
		log.Error("bot stopped", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
