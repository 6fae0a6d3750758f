// package tasks orchestrates the fetch → classify → render → publish run.
//
// The core abstraction is Engine, which wires the list service, the gist
// publisher, and the rate-limit gate together. Soft skips (rate limited,
// nothing to show, misconfigured status filter) are outcomes, not errors, so
// the process can exit zero on them.
package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/philosolog/mal-progress-box/internal/models"
	"github.com/philosolog/mal-progress-box/internal/progress"
	"github.com/philosolog/mal-progress-box/internal/ratelimit"
	"github.com/philosolog/mal-progress-box/internal/services"
	"github.com/philosolog/mal-progress-box/internal/shared"
)

// Outcome enumerates how a run ended without failing.
type Outcome int

const (
	Published Outcome = iota
	Previewed
	RateLimited
	NothingToPublish
	BadStatusFilter
)

func (o Outcome) String() string {
	switch o {
	case Published:
		return "published"
	case Previewed:
		return "previewed"
	case RateLimited:
		return "rate_limited"
	case NothingToPublish:
		return "nothing_to_publish"
	case BadStatusFilter:
		return "bad_status_filter"
	default:
		return ""
	}
}

// RunResult contains all data from one run.
type RunResult struct {
	Outcome  Outcome           // How the run ended
	FileName string            // Gist file name targeted (empty when skipped early)
	Lines    []string          // Rendered display lines
	Records  []progress.Record // Classified in-progress records, ranked
	Entries  int               // Total list entries fetched
}

// Engine orchestrates a single update run.
type Engine struct {
	list   services.ListService
	gist   services.Publisher
	gate   *ratelimit.Gate
	logger *log.Logger
}

// NewEngine creates an engine from its collaborators.
func NewEngine(list services.ListService, gist services.Publisher, gate *ratelimit.Gate, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{list: list, gist: gist, gate: gate, logger: logger}
}

// Update runs the full job: gate check, fetch, classify, render, publish,
// and finally the gate commit. Only the publish mutates anything remote, so
// a failure anywhere earlier leaves no partial state behind.
func (e *Engine) Update(ctx context.Context, cfg *shared.Config) (*RunResult, error) {
	if e.gate != nil && !e.gate.Allowed() {
		e.logger.Info("skipping update due to rate limit")
		return &RunResult{Outcome: RateLimited}, nil
	}

	result, err := e.render(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if result.Outcome != Previewed {
		return result, nil
	}

	contentType := models.ContentType(cfg.MAL.ContentType)
	phrase, ok := models.StatusFilter(cfg.MAL.ContentStatus).Phrase(contentType)
	if !ok {
		e.logger.Error("your CONTENT_STATUS setting has not been properly set", "content_status", cfg.MAL.ContentStatus)
		result.Outcome = BadStatusFilter
		return result, nil
	}

	result.FileName = fmt.Sprintf("🍖 MAL %s %s", contentType, phrase)

	if err := e.gist.Update(ctx, cfg.Gist.ID, result.FileName, strings.Join(result.Lines, "\n")); err != nil {
		return nil, err
	}

	if e.gate != nil {
		e.gate.Commit()
	}

	result.Outcome = Published
	e.logger.Info("successfully updated gist", "file", result.FileName, "lines", len(result.Lines))
	return result, nil
}

// Preview runs everything except the gate and the publish.
func (e *Engine) Preview(ctx context.Context, cfg *shared.Config) (*RunResult, error) {
	return e.render(ctx, cfg)
}

// Fetch retrieves the user's normalized list entries.
func (e *Engine) Fetch(ctx context.Context, cfg *shared.Config) ([]models.Entry, error) {
	return e.list.Fetch(ctx, cfg.MAL.Username, models.ContentType(cfg.MAL.ContentType))
}

// render fetches, classifies, and formats. The returned result has outcome
// [Previewed] when there are lines to publish and [NothingToPublish]
// otherwise.
func (e *Engine) render(ctx context.Context, cfg *shared.Config) (*RunResult, error) {
	contentType := models.ContentType(cfg.MAL.ContentType)

	entries, err := e.Fetch(ctx, cfg)
	if err != nil {
		return nil, err
	}

	records := progress.ClassifyAll(entries, contentType)
	result := &RunResult{
		Outcome: Previewed,
		Records: progress.Rank(records),
		Lines:   progress.Render(records),
		Entries: len(entries),
	}

	if len(result.Lines) == 0 {
		e.logger.Info("no items to display")
		result.Outcome = NothingToPublish
	}

	return result, nil
}
