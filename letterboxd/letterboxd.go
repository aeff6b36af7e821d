package letterboxd

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pranavarma/bellhop/config"
	"github.com/pranavarma/bellhop/metrics"
	"github.com/pranavarma/bellhop/models"
)

const (
	// maxFilms bounds the response to the most recent entries. The feed is
	// reverse-chronological so truncation keeps the newest watches.
	maxFilms = 6
	cacheTTL = time.Hour
)

// feed models just enough of the Letterboxd RSS document. Field names
// match local element names so the letterboxd: namespaced fields resolve
// without declaring the namespace URL.
type feed struct {
	XMLName xml.Name   `xml:"rss"`
	Items   []feedItem `xml:"channel>item"`
}

type feedItem struct {
	Title        string `xml:"title"`
	Link         string `xml:"link"`
	FilmTitle    string `xml:"filmTitle"`
	FilmYear     string `xml:"filmYear"`
	MemberRating string `xml:"memberRating"`
	WatchedDate  string `xml:"watchedDate"`
	Description  string `xml:"description"`
}

// Service fetches and parses the diary feed. Parsed results are held for
// an hour so a burst of visitors doesn't hammer Letterboxd.
type Service struct {
	feedUrl    string
	httpClient *http.Client
	metrics    *metrics.Metrics

	mu        sync.Mutex
	cached    []models.Film
	fetchedAt time.Time
}

func NewService(cfg config.Config, httpClient *http.Client, m *metrics.Metrics) *Service {
	return &Service{
		feedUrl:    cfg.Letterboxd.FeedUrl,
		httpClient: httpClient,
		metrics:    m,
	}
}

// RecentFilms returns up to six recently logged watches, in feed order.
// A failed fetch is never cached; the next request tries again.
func (s *Service) RecentFilms() ([]models.Film, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.fetchedAt) < cacheTTL {
		s.metrics.IncFeedCacheHits()
		return s.cached, nil
	}

	films, err := s.fetch()
	if err != nil {
		s.metrics.IncUpstreamErrors("letterboxd")
		return nil, err
	}

	s.cached = films
	s.fetchedAt = time.Now()

	return films, nil
}

// Refresh forces a fetch regardless of cache age. The hourly prewarm job
// uses it so the first visitor after expiry doesn't pay the round trip.
func (s *Service) Refresh() error {
	films, err := s.fetch()
	if err != nil {
		s.metrics.IncUpstreamErrors("letterboxd")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = films
	s.fetchedAt = time.Now()

	slog.With("films", len(films)).Debug("Refreshed activity feed cache")

	return nil
}

func (s *Service) fetch() ([]models.Film, error) {
	req, err := http.NewRequest("GET", s.feedUrl, nil)
	if err != nil {
		return nil, err
	}

	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed fetch returned %s", res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	return parseFeed(body)
}

// parseFeed extracts logged watches from the raw feed. Items whose title
// carries no rating glyph are list publications, not watches, and are
// skipped. Items missing any required field are dropped whole; partial
// entries never reach the widget.
func parseFeed(data []byte) ([]models.Film, error) {
	var f feed
	if err := xml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	films := []models.Film{}
	for _, item := range f.Items {
		if !strings.Contains(item.Title, "★") && !strings.Contains(item.Title, "½") {
			continue
		}

		year, err := strconv.Atoi(strings.TrimSpace(item.FilmYear))
		if err != nil {
			continue
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(item.MemberRating), 64)
		if err != nil {
			continue
		}
		poster := extractPoster(item.Description)

		if item.FilmTitle == "" || item.Link == "" || poster == "" {
			continue
		}

		films = append(films, models.Film{
			Title:         item.FilmTitle,
			Year:          year,
			Poster:        poster,
			Rating:        rating,
			LetterboxdUrl: item.Link,
			WatchedDate:   item.WatchedDate,
		})

		if len(films) == maxFilms {
			break
		}
	}

	return films, nil
}

// extractPoster pulls the poster URL out of the HTML snippet embedded in
// an item's description.
func extractPoster(description string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return ""
	}
	return doc.Find("img").First().AttrOr("src", "")
}
