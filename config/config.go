package config

import (
	"log/slog"
	"strings"

	golobby "github.com/golobby/config/v3"
	"github.com/golobby/config/v3/pkg/feeder"
)

type Config struct {
	Bellhop    BellhopConfig
	Spotify    SpotifyConfig
	Letterboxd LetterboxdConfig
	Photos     PhotosConfig
	Pushover   PushoverConfig
}

type BellhopConfig struct {
	Port                  string `env:"PORT"`
	LogLevel              string `env:"LOG_LEVEL"`
	BackgroundJobsEnabled bool   `env:"BACKGROUND_JOBS_ENABLED"`
}

type SpotifyConfig struct {
	ClientId       string `env:"SPOTIFY_CLIENT_ID"`
	ClientSecret   string `env:"SPOTIFY_CLIENT_SECRET"`
	RefreshToken   string `env:"SPOTIFY_REFRESH_TOKEN"`
	RedirectUri    string `env:"SPOTIFY_REDIRECT_URI"`
	PublicClientId string `env:"SPOTIFY_PUBLIC_CLIENT_ID"`
}

type LetterboxdConfig struct {
	FeedUrl string `env:"LETTERBOXD_FEED_URL"`
}

type PhotosConfig struct {
	Dir string `env:"PHOTOS_DIR"`
}

type PushoverConfig struct {
	Recipient string `env:"PUSHOVER_RECIPIENT"`
	Token     string `env:"PUSHOVER_TOKEN"`
}

// Load builds a Config from the process environment. Defaults are applied
// first so the env feeder only overrides what is actually set.
func Load() (Config, error) {
	cfg := Config{
		Bellhop: BellhopConfig{
			Port:                  "8080",
			LogLevel:              "info",
			BackgroundJobsEnabled: true,
		},
		Spotify: SpotifyConfig{
			RedirectUri: "http://127.0.0.1:8080/api/spotify/callback",
		},
		Letterboxd: LetterboxdConfig{
			FeedUrl: "https://letterboxd.com/pranavarma/rss/",
		},
		Photos: PhotosConfig{
			Dir: "public/photos",
		},
	}

	c := golobby.New()
	c.AddFeeder(feeder.Env{})
	c.AddStruct(&cfg)
	if err := c.Feed(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) GetLogLevel() slog.Leveler {
	logLevel := strings.ToLower(c.Bellhop.LogLevel)
	if logLevel == "error" {
		return slog.LevelError
	}
	if logLevel == "warning" {
		return slog.LevelWarn
	}
	if logLevel == "debug" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
