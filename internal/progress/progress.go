// package progress turns list entries into ranked progress records and
// renders them as fixed-width display lines.
package progress

import (
	"fmt"
	"math"

	"github.com/philosolog/mal-progress-box/internal/models"
)

// Record is the progress derived from one in-progress entry.
//
// It is a two-variant type: a ranked record carries a completion percentage,
// an unranked one carries a raw-count label plus the count itself for
// sorting. Unranked records exist because MAL reports a zero total for
// ongoing series, so no percentage can be computed.
type Record struct {
	Title  string `json:"title"`
	Ranked bool   `json:"ranked"`

	// Percent is the completion percentage. Ranked records only.
	Percent int `json:"percent,omitempty"`

	// Label is the raw-count display text, e.g. "Ep. 12". Unranked records only.
	Label string `json:"label,omitempty"`
	// Count is the raw progress count used for sorting. Unranked records only.
	Count int `json:"count,omitempty"`
}

// DisplayLabel returns the text shown in the progress column: "{pct}%" for
// ranked records, the raw-count label otherwise.
func (r Record) DisplayLabel() string {
	if r.Ranked {
		return fmt.Sprintf("%d%%", r.Percent)
	}
	return r.Label
}

// percent rounds a ratio to a whole percentage, half away from zero.
func percent(ratio float64) int {
	return int(math.Round(ratio * 100))
}

// Classify derives a Record from an entry.
//
// Anime entries rank by watched/total episodes. Manga entries rank by the
// higher of the chapter and volume completion ratios. When no denominator is
// known the record is unranked, labeled with the raw count; for manga the
// larger of read chapters and read volumes is used, chapters winning ties.
func Classify(entry models.Entry, contentType models.ContentType) Record {
	rec := Record{Title: entry.Title}

	switch contentType {
	case models.ContentAnime:
		if entry.NumEpisodes != 0 {
			rec.Ranked = true
			rec.Percent = percent(float64(entry.NumWatchedEpisodes) / float64(entry.NumEpisodes))
		} else {
			rec.Label = fmt.Sprintf("Ep. %d", entry.NumWatchedEpisodes)
			rec.Count = entry.NumWatchedEpisodes
		}
	case models.ContentManga:
		if entry.NumChapters != 0 || entry.NumVolumes != 0 {
			chapterRatio := 0.0
			if entry.NumChapters != 0 {
				chapterRatio = float64(entry.NumReadChapters) / float64(entry.NumChapters)
			}
			volumeRatio := 0.0
			if entry.NumVolumes != 0 {
				volumeRatio = float64(entry.NumReadVolumes) / float64(entry.NumVolumes)
			}
			rec.Ranked = true
			rec.Percent = percent(math.Max(chapterRatio, volumeRatio))
		} else if entry.NumReadChapters >= entry.NumReadVolumes {
			rec.Label = fmt.Sprintf("Ch. %d", entry.NumReadChapters)
			rec.Count = entry.NumReadChapters
		} else {
			rec.Label = fmt.Sprintf("Vol. %d", entry.NumReadVolumes)
			rec.Count = entry.NumReadVolumes
		}
	}

	return rec
}

// ClassifyAll derives records for every in-progress entry, preserving
// encounter order. Entries with any other status are skipped.
func ClassifyAll(entries []models.Entry, contentType models.ContentType) []Record {
	var records []Record
	for _, entry := range entries {
		if entry.Status != models.StatusWatching {
			continue
		}
		records = append(records, Classify(entry, contentType))
	}
	return records
}
