package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/pranavarma/bellhop/config"
	"github.com/pranavarma/bellhop/events"
	"github.com/pranavarma/bellhop/letterboxd"
	"github.com/pranavarma/bellhop/metrics"
	"github.com/pranavarma/bellhop/spotify"
	"github.com/pranavarma/bellhop/utils"
)

func main() {

	if err := godotenv.Load(); err != nil {
		fmt.Println(err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.GetLogLevel(),
	}))
	slog.SetDefault(logger)

	events.Init()

	m := metrics.New()
	httpClient := utils.NewHTTPClient()

	sp := spotify.NewClient(cfg, httpClient, m)
	lb := letterboxd.NewService(cfg, httpClient, m)

	jobScheduler := SetupInBackground(lb)

	if cfg.Bellhop.BackgroundJobsEnabled {
		jobScheduler.StartAsync()
		slog.Info("Background jobs have started up in the background.")
	} else {
		slog.Info("Background jobs are disabled.")
	}

	router := RegisterRoutes(http.NewServeMux(), cfg, sp, lb, m)

	slog.Info(fmt.Sprintf("Bellhop is running at http://localhost:%s", cfg.Bellhop.Port))

	if err := http.ListenAndServe(":"+cfg.Bellhop.Port, router); err != nil {
		slog.With("error", err).Error("Server exited")
		jobScheduler.Stop()
		os.Exit(1)
	}
}
