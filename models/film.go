package models

// Film is one logged watch pulled out of the Letterboxd RSS feed.
// WatchedDate may be empty as the feed omits it for some entry types.
type Film struct {
	Title         string  `json:"title"`
	Year          int     `json:"year"`
	Poster        string  `json:"poster"`
	Rating        float64 `json:"rating"`
	LetterboxdUrl string  `json:"letterboxdUrl"`
	WatchedDate   string  `json:"watchedDate"`
}
