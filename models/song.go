package models

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Song is the playback snapshot served to the now playing widget. The JSON
// field names are part of the public contract so the widget can consume the
// payload without any mapping layer.
type Song struct {
	IsPlaying       bool   `json:"isPlaying"`
	Title           string `json:"title,omitempty"`
	Artist          string `json:"artist,omitempty"`
	Album           string `json:"album,omitempty"`
	AlbumImageUrl   string `json:"albumImageUrl,omitempty"`
	SongUrl         string `json:"songUrl,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// GenerateHash produces a stable fingerprint of a snapshot so callers can
// tell whether anything the widget renders has actually changed.
func (s Song) GenerateHash() uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%t|%s|%s|%s|%s|%s|%s",
		s.IsPlaying,
		s.Title,
		s.Artist,
		s.Album,
		s.AlbumImageUrl,
		s.SongUrl,
		s.BackgroundColor,
	))
}
