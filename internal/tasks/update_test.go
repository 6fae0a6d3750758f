package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/philosolog/mal-progress-box/internal/models"
	"github.com/philosolog/mal-progress-box/internal/ratelimit"
	"github.com/philosolog/mal-progress-box/internal/shared"
	tu "github.com/philosolog/mal-progress-box/internal/testing"
)

func testConfig(contentType, contentStatus string) *shared.Config {
	return &shared.Config{
		Gist: shared.GistConfig{ID: "gist123", Token: "tok"},
		MAL: shared.MALConfig{
			Username:      "tester",
			ContentType:   contentType,
			ContentStatus: contentStatus,
			ClientID:      "cid",
			API:           shared.APIOfficial,
		},
	}
}

func watchingEntries() []models.Entry {
	return []models.Entry{
		{Title: "Half Done", Status: models.StatusWatching, NumEpisodes: 24, NumWatchedEpisodes: 12},
		{Title: "Nearly There", Status: models.StatusWatching, NumEpisodes: 10, NumWatchedEpisodes: 9},
		{Title: "Finished Long Ago", Status: models.StatusOther, NumEpisodes: 12, NumWatchedEpisodes: 12},
		{Title: "Endless", Status: models.StatusWatching, NumWatchedEpisodes: 300},
	}
}

func TestEngineUpdate(t *testing.T) {
	t.Run("publishes ranked lines and commits the gate", func(t *testing.T) {
		list := &tu.MockListService{Entries: watchingEntries()}
		gist := &tu.MockPublisher{}
		gate := ratelimit.NewGate(filepath.Join(t.TempDir(), "stamp"), time.Hour, nil)

		engine := NewEngine(list, gist, gate, nil)
		result, err := engine.Update(context.Background(), testConfig("anime", "current"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Outcome != Published {
			t.Fatalf("expected Published, got %v", result.Outcome)
		}
		if gist.Calls != 1 {
			t.Fatalf("expected one publish, got %d", gist.Calls)
		}
		if gist.GistID != "gist123" {
			t.Errorf("unexpected gist ID %q", gist.GistID)
		}
		if gist.FileName != "🍖 MAL anime I'm currently watching" {
			t.Errorf("unexpected file name %q", gist.FileName)
		}

		lines := strings.Split(gist.Content, "\n")
		if len(lines) != 3 {
			t.Fatalf("expected 3 lines, got %d: %q", len(lines), gist.Content)
		}
		// 90% ranks above 50%, both above the unranked raw count
		if !strings.Contains(lines[0], "Nearly There") {
			t.Errorf("expected Nearly There first, got %q", lines[0])
		}
		if !strings.Contains(lines[1], "Half Done") {
			t.Errorf("expected Half Done second, got %q", lines[1])
		}
		if !strings.Contains(lines[2], "Endless") {
			t.Errorf("expected Endless last, got %q", lines[2])
		}

		if _, ok := gate.Last(); !ok {
			t.Error("expected the gate to be committed after a publish")
		}
	})

	t.Run("skips when rate limited without fetching", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stamp")
		gate := ratelimit.NewGate(path, time.Hour, nil)
		gate.Commit()

		list := &tu.MockListService{Entries: watchingEntries()}
		gist := &tu.MockPublisher{}

		engine := NewEngine(list, gist, gate, nil)
		result, err := engine.Update(context.Background(), testConfig("anime", "current"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Outcome != RateLimited {
			t.Errorf("expected RateLimited, got %v", result.Outcome)
		}
		if list.Calls != 0 {
			t.Error("rate limited runs should not hit the API")
		}
		if gist.Calls != 0 {
			t.Error("rate limited runs should not publish")
		}
	})

	t.Run("nothing to publish ends cleanly", func(t *testing.T) {
		list := &tu.MockListService{Entries: []models.Entry{
			{Title: "Done", Status: models.StatusOther, NumEpisodes: 12, NumWatchedEpisodes: 12},
		}}
		gist := &tu.MockPublisher{}
		gate := ratelimit.NewGate(filepath.Join(t.TempDir(), "stamp"), time.Hour, nil)

		engine := NewEngine(list, gist, gate, nil)
		result, err := engine.Update(context.Background(), testConfig("anime", "current"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Outcome != NothingToPublish {
			t.Errorf("expected NothingToPublish, got %v", result.Outcome)
		}
		if gist.Calls != 0 {
			t.Error("empty output should not publish")
		}
		if _, ok := gate.Last(); ok {
			t.Error("skipped runs should not commit the gate")
		}
	})

	t.Run("bad status filter aborts the publish softly", func(t *testing.T) {
		list := &tu.MockListService{Entries: watchingEntries()}
		gist := &tu.MockPublisher{}

		engine := NewEngine(list, gist, nil, nil)
		result, err := engine.Update(context.Background(), testConfig("anime", "plan-to-watch"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Outcome != BadStatusFilter {
			t.Errorf("expected BadStatusFilter, got %v", result.Outcome)
		}
		if gist.Calls != 0 {
			t.Error("a bad status filter should not publish")
		}
	})

	t.Run("fetch failures propagate", func(t *testing.T) {
		list := &tu.MockListService{Err: errors.New("boom")}
		engine := NewEngine(list, &tu.MockPublisher{}, nil, nil)

		if _, err := engine.Update(context.Background(), testConfig("anime", "current")); err == nil {
			t.Error("expected the fetch error to propagate")
		}
	})

	t.Run("publish failures propagate and leave the gate alone", func(t *testing.T) {
		gate := ratelimit.NewGate(filepath.Join(t.TempDir(), "stamp"), time.Hour, nil)
		list := &tu.MockListService{Entries: watchingEntries()}
		gist := &tu.MockPublisher{Err: errors.New("boom")}

		engine := NewEngine(list, gist, gate, nil)
		if _, err := engine.Update(context.Background(), testConfig("anime", "current")); err == nil {
			t.Error("expected the publish error to propagate")
		}
		if _, ok := gate.Last(); ok {
			t.Error("failed publishes should not commit the gate")
		}
	})

	t.Run("manga runs use the reading phrase", func(t *testing.T) {
		list := &tu.MockListService{Entries: []models.Entry{
			{Title: "Some Manga", Status: models.StatusWatching, NumChapters: 100, NumReadChapters: 40},
		}}
		gist := &tu.MockPublisher{}

		engine := NewEngine(list, gist, nil, nil)
		result, err := engine.Update(context.Background(), testConfig("manga", "current"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Outcome != Published {
			t.Fatalf("expected Published, got %v", result.Outcome)
		}
		if gist.FileName != "🍖 MAL manga I'm currently reading" {
			t.Errorf("unexpected file name %q", gist.FileName)
		}
	})
}

func TestEnginePreview(t *testing.T) {
	t.Run("renders without publishing", func(t *testing.T) {
		list := &tu.MockListService{Entries: watchingEntries()}
		gist := &tu.MockPublisher{}

		engine := NewEngine(list, gist, nil, nil)
		result, err := engine.Preview(context.Background(), testConfig("anime", "current"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Outcome != Previewed {
			t.Errorf("expected Previewed, got %v", result.Outcome)
		}
		if len(result.Lines) != 3 {
			t.Errorf("expected 3 lines, got %d", len(result.Lines))
		}
		if result.Entries != 4 {
			t.Errorf("expected 4 fetched entries, got %d", result.Entries)
		}
		if gist.Calls != 0 {
			t.Error("preview should never publish")
		}
	})
}
