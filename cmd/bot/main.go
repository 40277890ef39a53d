// Package main contains the entrypoint for the enrollment bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/enrollbot/internal/bot"
	"github.com/edgard/enrollbot/internal/bot/handlers"
	"github.com/edgard/enrollbot/internal/bot/tasks"
	"github.com/edgard/enrollbot/internal/config"
	"github.com/edgard/enrollbot/internal/database"
	"github.com/edgard/enrollbot/internal/logger"
	"github.com/edgard/enrollbot/internal/registration"
	"github.com/edgard/enrollbot/internal/server"
	"github.com/edgard/enrollbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires config, logger, store, registration service, Telegram client,
// scheduler and ops server, then blocks until shutdown. It returns the exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	service := registration.NewService(store, log, registration.Options{
		OperationTimeout: cfg.Database.OperationTimeout,
		MaxVideoSize:     cfg.Intake.MaxVideoSize,
	})
	router := handlers.NewRouter(handlers.HandlerDeps{
		Logger:       log,
		Config:       cfg,
		Registration: service,
	})

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log), handlers.Recover(log)),
		tgbot.WithDefaultHandler(router.Handle),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	if err := telegram.RegisterCommands(ctx, tg, log, cfg.Telegram.Commands); err != nil {
		// Commands still work without the menu.
		log.Warn("Continuing without command menu", "error", err)
	}

	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{Logger: log, Store: store, Config: cfg})
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, taskMap)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	var ops bot.Runner
	if cfg.Server.Enabled {
		ops = server.New(&cfg.Server, log, store)
	}

	app := bot.NewBot(log, tg, sched, ops)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
