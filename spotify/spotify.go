package spotify

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gregdel/pushover"

	"github.com/pranavarma/bellhop/config"
	"github.com/pranavarma/bellhop/events"
	"github.com/pranavarma/bellhop/metrics"
	"github.com/pranavarma/bellhop/models"
	"github.com/pranavarma/bellhop/utils"
)

const (
	tokenEndpoint      = "https://accounts.spotify.com/api/token"
	nowPlayingEndpoint = "https://api.spotify.com/v1/me/player/currently-playing"
)

// defaultTrack is what visitors see before the first successful fetch of a
// server process. Its accent colour is derived lazily, at most once.
var defaultTrack = models.Song{
	IsPlaying:     false,
	Title:         "Midnight City",
	Artist:        "M83",
	Album:         "Hurry Up, We're Dreaming",
	AlbumImageUrl: "https://i.scdn.co/image/ab67616d0000b2735598b4c00b072b077f78d1ca",
	SongUrl:       "https://open.spotify.com/track/1eyzqe2QqGZUmfcPZtrIyt",
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	Error        string `json:"error"`
}

type playingResponse struct {
	IsPlaying bool         `json:"is_playing"`
	Item      *playingItem `json:"item"`
}

type playingItem struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name   string `json:"name"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	ExternalUrls struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

// Client serves playback snapshots against the Spotify Web API. It owns
// the process-wide snapshot cache; everything else is per-request.
type Client struct {
	cfg        config.SpotifyConfig
	pushCfg    config.PushoverConfig
	httpClient *http.Client
	metrics    *metrics.Metrics
	cache      snapshotCache

	defaultOnce sync.Once
	defaultSong models.Song

	notifyOnce sync.Once
}

func NewClient(cfg config.Config, httpClient *http.Client, m *metrics.Metrics) *Client {
	return &Client{
		cfg:        cfg.Spotify,
		pushCfg:    cfg.Pushover,
		httpClient: httpClient,
		metrics:    m,
	}
}

// NowPlaying reports what is currently (or was most recently) playing.
// It never fails: any upstream problem degrades to the cached snapshot,
// or to the default track if nothing has been cached yet.
func (c *Client) NowPlaying() models.Song {
	accessToken, err := c.exchangeRefreshToken()
	if err != nil {
		slog.With("error", err).Error("Failed to exchange refresh token")
		c.metrics.IncUpstreamErrors("spotify")
		c.notifyAuthFailure(err)
		return c.fallback()
	}

	req, err := http.NewRequest("GET", nowPlayingEndpoint, nil)
	if err != nil {
		return c.fallback()
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := c.httpClient.Do(req)
	if err != nil {
		slog.With("error", err).Error("Failed to query current playback")
		c.metrics.IncUpstreamErrors("spotify")
		return c.fallback()
	}
	defer res.Body.Close()

	// 204 means nothing is playing. Anything past 400 means Spotify is
	// having a moment. Either way the visitor gets the last known song.
	if res.StatusCode == http.StatusNoContent || res.StatusCode > 400 {
		return c.fallback()
	}

	var playing playingResponse
	if err := json.NewDecoder(res.Body).Decode(&playing); err != nil {
		slog.With("error", err).Error("Failed to decode current playback")
		c.metrics.IncUpstreamErrors("spotify")
		return c.fallback()
	}

	// Podcast episodes and other non-track content don't expose enough
	// metadata to render, so they count as nothing playing.
	if playing.Item == nil || playing.Item.Type != "track" {
		return c.fallback()
	}

	item := playing.Item
	if item.Name == "" || len(item.Artists) == 0 || item.Album.Name == "" || len(item.Album.Images) == 0 {
		return c.fallback()
	}

	artists := make([]string, 0, len(item.Artists))
	for _, a := range item.Artists {
		artists = append(artists, a.Name)
	}

	song := models.Song{
		IsPlaying:     playing.IsPlaying,
		Title:         item.Name,
		Artist:        strings.Join(artists, ", "),
		Album:         item.Album.Name,
		AlbumImageUrl: item.Album.Images[0].URL,
		SongUrl:       item.ExternalUrls.Spotify,
	}
	song.BackgroundColor = c.accentColour(song.AlbumImageUrl)

	c.storeSnapshot(song)

	return song
}

// accentColour derives a background colour for the given artwork. The
// colour is only recomputed when the artwork changes; on failure the
// previously cached colour carries over, possibly empty.
func (c *Client) accentColour(albumImageUrl string) string {
	if prev, ok := c.cache.Get(); ok && prev.AlbumImageUrl == albumImageUrl && prev.BackgroundColor != "" {
		return prev.BackgroundColor
	}
	colour, err := utils.FetchAccentColour(c.httpClient, albumImageUrl)
	if err != nil {
		slog.With("error", err).With("image_url", albumImageUrl).Warn("Failed to derive accent colour")
		return c.cache.LastColour()
	}
	return colour
}

// storeSnapshot updates the process-wide cache and lets SSE listeners
// know when the snapshot they're rendering has gone stale.
func (c *Client) storeSnapshot(song models.Song) {
	previous, ok := c.cache.Get()
	c.cache.Set(song)
	if ok && previous.GenerateHash() == song.GenerateHash() {
		return
	}
	byteStream := new(bytes.Buffer)
	if err := json.NewEncoder(byteStream).Encode(song); err != nil {
		return
	}
	events.PublishPlaying(byteStream.Bytes())
}

// fallback returns the last known good snapshot with playback marked
// stopped, or the default track on a cold start.
func (c *Client) fallback() models.Song {
	c.metrics.IncSnapshotFallbacks()
	if song, ok := c.cache.Get(); ok {
		song.IsPlaying = false
		return song
	}
	return c.getDefaultSong()
}

func (c *Client) getDefaultSong() models.Song {
	c.defaultOnce.Do(func() {
		c.defaultSong = defaultTrack
		colour, err := utils.FetchAccentColour(c.httpClient, defaultTrack.AlbumImageUrl)
		if err != nil {
			slog.With("error", err).Warn("Failed to derive accent colour for default track")
			return
		}
		c.defaultSong.BackgroundColor = colour
	})
	return c.defaultSong
}

// exchangeRefreshToken trades the long-lived refresh token for a fresh
// access token. There is no retry here: a failed exchange fails the whole
// request and the caller degrades to the cached snapshot.
func (c *Client) exchangeRefreshToken() (string, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", c.cfg.RefreshToken)

	req, err := http.NewRequest("POST", tokenEndpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+basicAuth(c.cfg.ClientId, c.cfg.ClientSecret))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange returned %s", res.Status)
	}

	var token tokenResponse
	if err := json.NewDecoder(res.Body).Decode(&token); err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned no access token")
	}

	return token.AccessToken, nil
}

// notifyAuthFailure pings me once per process when the refresh token has
// gone bad, since the widget itself will never show an error.
func (c *Client) notifyAuthFailure(cause error) {
	if c.pushCfg.Token == "" || c.pushCfg.Recipient == "" {
		return
	}
	c.notifyOnce.Do(func() {
		app := pushover.New(c.pushCfg.Token)
		recipient := pushover.NewRecipient(c.pushCfg.Recipient)
		message := &pushover.Message{
			Message:   fmt.Sprintf("Token exchange is failing: %v. Visit /spotify-auth to mint a new refresh token.", cause),
			Title:     "Bellhop can't talk to Spotify",
			Priority:  pushover.PriorityHigh,
			Timestamp: time.Now().Unix(),
		}
		if _, err := app.SendMessage(message, recipient); err != nil {
			slog.With("error", err).Error("Failed to send auth failure notification")
		}
	})
}

func basicAuth(clientId, clientSecret string) string {
	return base64.StdEncoding.EncodeToString([]byte(clientId + ":" + clientSecret))
}
