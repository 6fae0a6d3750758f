package progress

import (
	"testing"

	"github.com/philosolog/mal-progress-box/internal/models"
)

func TestClassify(t *testing.T) {
	t.Run("Anime", func(t *testing.T) {
		t.Run("known episode total yields a ranked percentage", func(t *testing.T) {
			entry := models.Entry{
				Title:              "Example Show",
				Status:             models.StatusWatching,
				NumEpisodes:        24,
				NumWatchedEpisodes: 12,
			}

			rec := Classify(entry, models.ContentAnime)
			if !rec.Ranked {
				t.Fatal("expected a ranked record")
			}
			if rec.Percent != 50 {
				t.Errorf("expected 50%%, got %d%%", rec.Percent)
			}
			if rec.Title != "Example Show" {
				t.Errorf("expected title to carry over, got %q", rec.Title)
			}
		})

		t.Run("zero episode total falls back to a raw episode count", func(t *testing.T) {
			entry := models.Entry{
				Title:              "Ongoing Show",
				Status:             models.StatusWatching,
				NumWatchedEpisodes: 1071,
			}

			rec := Classify(entry, models.ContentAnime)
			if rec.Ranked {
				t.Fatal("expected an unranked record")
			}
			if rec.Label != "Ep. 1071" {
				t.Errorf("expected label Ep. 1071, got %q", rec.Label)
			}
			if rec.Count != 1071 {
				t.Errorf("expected sort key 1071, got %d", rec.Count)
			}
		})

		t.Run("rounds half away from zero", func(t *testing.T) {
			// 9/24 = 37.5% must round to 38 every run
			rec := Classify(models.Entry{NumEpisodes: 24, NumWatchedEpisodes: 9}, models.ContentAnime)
			if rec.Percent != 38 {
				t.Errorf("expected 38%%, got %d%%", rec.Percent)
			}

			rec = Classify(models.Entry{NumEpisodes: 8, NumWatchedEpisodes: 1}, models.ContentAnime)
			if rec.Percent != 13 {
				t.Errorf("expected 13%%, got %d%%", rec.Percent)
			}
		})

		t.Run("percentage stays within bounds", func(t *testing.T) {
			for watched := 0; watched <= 24; watched++ {
				rec := Classify(models.Entry{NumEpisodes: 24, NumWatchedEpisodes: watched}, models.ContentAnime)
				if rec.Percent < 0 || rec.Percent > 100 {
					t.Fatalf("watched=%d: percentage %d out of bounds", watched, rec.Percent)
				}
			}
		})
	})

	t.Run("Manga", func(t *testing.T) {
		t.Run("uses the higher of chapter and volume ratios", func(t *testing.T) {
			entry := models.Entry{
				Title:           "Some Manga",
				NumChapters:     100,
				NumVolumes:      10,
				NumReadChapters: 30,
				NumReadVolumes:  8,
			}

			rec := Classify(entry, models.ContentManga)
			if !rec.Ranked {
				t.Fatal("expected a ranked record")
			}
			// volume ratio 80% beats chapter ratio 30%
			if rec.Percent != 80 {
				t.Errorf("expected 80%%, got %d%%", rec.Percent)
			}
		})

		t.Run("zero denominator ratio counts as zero", func(t *testing.T) {
			entry := models.Entry{
				NumChapters:     50,
				NumReadChapters: 25,
				NumReadVolumes:  99,
			}

			rec := Classify(entry, models.ContentManga)
			if !rec.Ranked || rec.Percent != 50 {
				t.Errorf("expected ranked 50%%, got ranked=%v %d%%", rec.Ranked, rec.Percent)
			}
		})

		t.Run("no totals fall back to the larger raw count", func(t *testing.T) {
			entry := models.Entry{
				NumReadChapters: 5,
				NumReadVolumes:  2,
			}

			rec := Classify(entry, models.ContentManga)
			if rec.Ranked {
				t.Fatal("expected an unranked record")
			}
			if rec.Label != "Ch. 5" || rec.Count != 5 {
				t.Errorf("expected Ch. 5 with sort key 5, got %q/%d", rec.Label, rec.Count)
			}

			entry = models.Entry{NumReadChapters: 1, NumReadVolumes: 4}
			rec = Classify(entry, models.ContentManga)
			if rec.Label != "Vol. 4" || rec.Count != 4 {
				t.Errorf("expected Vol. 4 with sort key 4, got %q/%d", rec.Label, rec.Count)
			}
		})

		t.Run("equal raw counts prefer chapters", func(t *testing.T) {
			rec := Classify(models.Entry{NumReadChapters: 3, NumReadVolumes: 3}, models.ContentManga)
			if rec.Label != "Ch. 3" {
				t.Errorf("expected chapters to win the tie, got %q", rec.Label)
			}
		})
	})

	t.Run("DisplayLabel", func(t *testing.T) {
		ranked := Record{Ranked: true, Percent: 62}
		if ranked.DisplayLabel() != "62%" {
			t.Errorf("expected 62%%, got %q", ranked.DisplayLabel())
		}

		unranked := Record{Label: "Ep. 12"}
		if unranked.DisplayLabel() != "Ep. 12" {
			t.Errorf("expected Ep. 12, got %q", unranked.DisplayLabel())
		}
	})
}

func TestClassifyAll(t *testing.T) {
	entries := []models.Entry{
		{Title: "A", Status: models.StatusWatching, NumEpisodes: 10, NumWatchedEpisodes: 5},
		{Title: "B", Status: models.StatusOther, NumEpisodes: 10, NumWatchedEpisodes: 10},
		{Title: "C", Status: models.StatusWatching, NumWatchedEpisodes: 3},
	}

	records := ClassifyAll(entries, models.ContentAnime)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Title != "A" || records[1].Title != "C" {
		t.Errorf("expected encounter order A, C; got %q, %q", records[0].Title, records[1].Title)
	}
	if !records[0].Ranked {
		t.Error("expected A to be ranked")
	}
	if records[1].Ranked {
		t.Error("expected C to be unranked")
	}
}
