package main

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/pranavarma/bellhop/letterboxd"
)

// SetupInBackground schedules the hourly feed cache prewarm. The cache is
// still bounded at an hour either way; this just means the first visitor
// after expiry doesn't wait on Letterboxd.
func SetupInBackground(lb *letterboxd.Service) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)

	s.Every(1).Hour().Do(func() {
		if err := lb.Refresh(); err != nil {
			slog.With("error", err).Warn("Failed to prewarm activity feed cache")
		}
	})

	return s
}
