// package models defines the domain types shared across the fetcher,
// progress calculator, and publisher.
package models

import "strings"

// ContentType selects which of the user's lists is fetched.
type ContentType string

const (
	ContentAnime ContentType = "anime"
	ContentManga ContentType = "manga"
)

// Valid reports whether the content type is one of the supported lists.
func (c ContentType) Valid() bool {
	return c == ContentAnime || c == ContentManga
}

// Status is the watch/read state of a list entry.
//
// Downstream logic only cares whether an entry is currently in progress,
// so every other upstream status collapses into [StatusOther].
type Status int

const (
	StatusOther Status = iota
	StatusWatching
)

// ParseStatus maps an upstream status string onto the internal enumeration.
// "watching" and "reading" are in progress; everything else is not.
func ParseStatus(s string) Status {
	switch s {
	case "watching", "reading":
		return StatusWatching
	default:
		return StatusOther
	}
}

// Entry is one normalized list item.
//
// Exactly one of the numeric groups is populated depending on the content
// type: episodes for anime, chapters/volumes for manga. Fields absent
// upstream stay zero.
type Entry struct {
	Title  string `json:"title"`
	Status Status `json:"status"`

	NumEpisodes        int `json:"num_episodes,omitempty"`
	NumWatchedEpisodes int `json:"num_watched_episodes,omitempty"`

	NumChapters     int `json:"num_chapters,omitempty"`
	NumVolumes      int `json:"num_volumes,omitempty"`
	NumReadChapters int `json:"num_read_chapters,omitempty"`
	NumReadVolumes  int `json:"num_read_volumes,omitempty"`
}

// StatusFilter is the configured list slice to publish ("current", "completed",
// "on-hold" or "dropped").
type StatusFilter string

// Phrase renders the filter as the human-readable fragment used in the gist
// file name. Returns false for unrecognized filters, which callers treat as a
// soft configuration error.
func (s StatusFilter) Phrase(contentType ContentType) (string, bool) {
	switch s {
	case "current":
		switch contentType {
		case ContentAnime:
			return "I'm currently watching", true
		case ContentManga:
			return "I'm currently reading", true
		}
		return "", false
	case "completed", "on-hold", "dropped":
		return "I have " + strings.ReplaceAll(string(s), "-", " "), true
	default:
		return "", false
	}
}
