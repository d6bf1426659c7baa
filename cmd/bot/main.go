package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/slack-go/slack"
	"github.com/teamtrack/attendance-bot/internal/config"
	"github.com/teamtrack/attendance-bot/internal/database"
	"github.com/teamtrack/attendance-bot/internal/domain/service"
	"github.com/teamtrack/attendance-bot/internal/handlers"
	"github.com/teamtrack/attendance-bot/migrator/sqlite"
	"github.com/teamtrack/attendance-bot/pkg/logging"
)

func main() {
	logging.Setup()

	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found")
	}

	cfg := config.Load()

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("running migrations")
	if err := sqlite.Migrate(db.DB()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	dm := database.NewInstance(db)
	slackClient := slack.New(cfg.SlackBotToken)
	loc := cfg.Location()

	services := service.NewInstance(dm, slackClient, loc, service.SummaryConfig{
		ChannelID:  cfg.SlackChannelID,
		Time:       cfg.SummaryTime,
		ActiveDays: cfg.ActiveDays,
		Location:   loc,
	})

	services.Scheduler.Start()
	defer services.Scheduler.Stop()

	handler := handlers.New(services.Attendance, cfg.SlackSigningSecret, cfg.ManagerPassword)

	http.HandleFunc("/slack/commands", handler.HandleSlashCommand)
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	})

	slog.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
