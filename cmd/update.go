package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/philosolog/mal-progress-box/internal/models"
	"github.com/philosolog/mal-progress-box/internal/ratelimit"
	"github.com/philosolog/mal-progress-box/internal/shared"
	"github.com/philosolog/mal-progress-box/internal/tasks"
	"github.com/urfave/cli/v3"
)

// loadConfig reloads config from the --config path when the file exists,
// falling back to the config the Runner was constructed with.
func (r *Runner) loadConfig(cmd *cli.Command) *shared.Config {
	configPath := cmd.String("config")
	if configPath == "" {
		return r.config
	}

	if _, err := os.Stat(configPath); err == nil {
		if config, err := shared.LoadConfig(configPath); err == nil {
			return config
		} else {
			r.logger.Warnf("failed to load config, keeping current config: %v", err)
		}
	}
	return r.config
}

// Update runs the full job: rate gate, fetch, render, publish.
func (r *Runner) Update(ctx context.Context, cmd *cli.Command) error {
	cfg := r.loadConfig(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	engine, err := r.engine(cfg)
	if err != nil {
		return err
	}

	r.logger.Info("starting update", "username", cfg.MAL.Username, "content_type", cfg.MAL.ContentType)

	result, err := engine.Update(ctx, cfg)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case tasks.Published:
		r.writePlain("%s\n", r.styles.OK("✓ Gist updated: "+result.FileName))
		for _, line := range result.Lines {
			r.writePlain("%s\n", line)
		}
	case tasks.RateLimited:
		r.writePlain("%s\n", r.styles.Warn("Skipped: published too recently"))
	case tasks.NothingToPublish:
		r.writePlain("%s\n", r.styles.Warn("No items to display; nothing published"))
	case tasks.BadStatusFilter:
		r.writePlain("%s\n", r.styles.Err("CONTENT_STATUS is not properly set; nothing published"))
	}

	return nil
}

// Preview renders the gist content locally without publishing.
func (r *Runner) Preview(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	cfg := r.loadConfig(cmd)

	engine, err := r.engine(cfg)
	if err != nil {
		return err
	}

	result, err := engine.Preview(ctx, cfg)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result.Records, pretty)
	}

	if len(result.Lines) == 0 {
		r.writePlain("%s\n", r.styles.Warn("No items to display"))
		return nil
	}

	r.writePlain("%s\n", r.styles.Title(fmt.Sprintf("Top %d of %d entries", len(result.Lines), result.Entries)))
	for _, line := range result.Lines {
		r.writePlain("%s\n", line)
	}
	r.writePlain("%s\n", r.styles.Help("Run `malbox update` to publish"))

	return nil
}

// Entries fetches and prints the user's normalized list entries.
func (r *Runner) Entries(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	limit := cmd.Int("limit")

	cfg := r.loadConfig(cmd)

	engine, err := r.engine(cfg)
	if err != nil {
		return err
	}

	entries, err := engine.Fetch(ctx, cfg)
	if err != nil {
		return err
	}

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	if useJSON {
		return r.writeJSON(entries, pretty)
	}

	r.writePlain("Found %d entries:\n\n", len(entries))
	for i, e := range entries {
		r.writePlain("%d. %s\n", i+1, e.Title)
		if e.Status == models.StatusWatching {
			r.writePlain("   Status: in progress\n")
		} else {
			r.writePlain("   Status: not in progress\n")
		}
		if models.ContentType(cfg.MAL.ContentType) == models.ContentAnime {
			r.writePlain("   Episodes: %d/%d\n", e.NumWatchedEpisodes, e.NumEpisodes)
		} else {
			r.writePlain("   Chapters: %d/%d\n", e.NumReadChapters, e.NumChapters)
			r.writePlain("   Volumes: %d/%d\n", e.NumReadVolumes, e.NumVolumes)
		}
		r.writePlain("\n")
	}

	return nil
}

// Status shows the rate gate state.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	cfg := r.loadConfig(cmd)

	interval := time.Duration(cfg.RateLimit.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = ratelimit.DefaultInterval
	}
	gate := r.gate
	if gate == nil {
		gate = ratelimit.NewGate(cfg.RateLimit.Path, interval, r.logger)
	}

	last, ok := gate.Last()
	if !ok {
		r.writePlain("No publish recorded yet; next update is allowed now\n")
		return nil
	}

	r.writePlain("Last published: %s\n", last.Format(time.RFC1123))
	next := last.Add(interval)
	if time.Now().Before(next) {
		r.writePlain("Next update allowed: %s\n", next.Format(time.RFC1123))
	} else {
		r.writePlain("Next update allowed: now\n")
	}

	return nil
}

// Setup scaffolds config.toml from the embedded example.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.writePlain("%s\n", r.styles.OK("✓ Created "+configPath))
	r.writePlain("%s\n", r.styles.Help("Fill in the gist and MAL sections, then run `malbox update`"))
	return nil
}
