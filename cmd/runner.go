package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/philosolog/mal-progress-box/internal/ratelimit"
	"github.com/philosolog/mal-progress-box/internal/services"
	"github.com/philosolog/mal-progress-box/internal/shared"
	"github.com/philosolog/mal-progress-box/internal/tasks"
	"github.com/philosolog/mal-progress-box/internal/ui"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	list   services.ListService
	gist   services.Publisher
	gate   *ratelimit.Gate
	logger *log.Logger
	output io.Writer
	styles *ui.Palette
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	List   services.ListService
	Gist   services.Publisher
	Gate   *ratelimit.Gate
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		list:   opts.List,
		gist:   opts.Gist,
		gate:   opts.Gate,
		logger: opts.Logger,
		output: opts.Output,
		styles: ui.Styles,
	}
}

// engine builds the task engine from the given config, reusing any injected
// collaborators. The config must be the one the command loaded, so a run
// started with --config uses that file's credentials and gate throughout.
func (r *Runner) engine(cfg *shared.Config) (*tasks.Engine, error) {
	list := r.list
	if list == nil {
		svc, err := services.NewMALService(cfg.MAL, r.logger)
		if err != nil {
			return nil, err
		}
		list = svc
	}

	gist := r.gist
	if gist == nil {
		gist = services.NewGistService(cfg.Gist.Token, nil, r.logger)
	}

	gate := r.gate
	if gate == nil {
		interval := time.Duration(cfg.RateLimit.IntervalHours) * time.Hour
		gate = ratelimit.NewGate(cfg.RateLimit.Path, interval, r.logger)
	}

	return tasks.NewEngine(list, gist, gate, r.logger), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) {
	fmt.Fprintf(r.output, format, args...)
}

func (r *Runner) writePlainln(format string, args ...any) {
	fmt.Fprintf(r.output, "\n"+format+"\n", args...)
}
