package spotify

import (
	"sync"

	"github.com/pranavarma/bellhop/models"
)

// snapshotCache is the process-wide cell holding the last fully valid
// playback snapshot. A single lock acquisition covers each read or write
// so concurrent requests never observe a torn snapshot. Last write wins.
type snapshotCache struct {
	mu    sync.RWMutex
	song  models.Song
	valid bool
}

func (sc *snapshotCache) Get() (models.Song, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.song, sc.valid
}

func (sc *snapshotCache) Set(song models.Song) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.song = song
	sc.valid = true
}

// LastColour returns the accent colour of the cached snapshot, or empty
// if no colour has ever been derived.
func (sc *snapshotCache) LastColour() string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.song.BackgroundColor
}
