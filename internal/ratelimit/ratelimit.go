// package ratelimit gates publishing to at most once per interval.
//
// The last successful publish time lives in a small local file so the gate
// survives across invocations of the job. Every failure mode fails open: a
// missing, unreadable, or corrupt file just allows the run, and a failed
// write only costs an extra run next time.
package ratelimit

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/philosolog/mal-progress-box/internal/shared"
)

// DefaultInterval is the minimum time between publishes.
const DefaultInterval = time.Hour

// Gate reads and writes the last-publish timestamp file.
//
// No locking: the job is single-instance and single-shot, so concurrent
// invocations are not a supported scenario.
type Gate struct {
	path     string
	interval time.Duration
	logger   *log.Logger

	now func() time.Time
}

// NewGate creates a gate backed by the timestamp file at path.
// A non-positive interval falls back to [DefaultInterval].
func NewGate(path string, interval time.Duration, logger *log.Logger) *Gate {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Gate{
		path:     path,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Last returns the recorded time of the last publish, or zero time and false
// when no usable timestamp exists.
func (g *Gate) Last() (time.Time, bool) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if !os.IsNotExist(err) {
			g.logger.Warn("could not read rate limit file", "path", g.path, "error", err)
		}
		return time.Time{}, false
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		g.logger.Warn("could not parse rate limit file", "path", g.path, "error", err)
		return time.Time{}, false
	}

	sec, frac := int64(seconds), seconds-float64(int64(seconds))
	return time.Unix(sec, int64(frac*float64(time.Second))), true
}

// Allowed reports whether enough time has passed since the last publish.
func (g *Gate) Allowed() bool {
	last, ok := g.Last()
	if !ok {
		return true
	}

	elapsed := g.now().Sub(last)
	if elapsed < g.interval {
		g.logger.Info("rate limited", "last_update", last, "elapsed", elapsed.Round(time.Second), "interval", g.interval)
		return false
	}
	return true
}

// Commit records the current time as the last publish. The write is atomic:
// a temp file in the same directory renamed over the target.
func (g *Gate) Commit() {
	seconds := float64(g.now().UnixNano()) / float64(time.Second)
	content := strconv.FormatFloat(seconds, 'f', -1, 64)

	dir := filepath.Dir(g.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(g.path)+".*")
	if err != nil {
		g.logger.Warn("could not write rate limit file", "path", g.path, "error", err)
		return
	}

	_, werr := tmp.WriteString(content)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp.Name())
		g.logger.Warn("could not write rate limit file", "path", g.path, "error", fmt.Errorf("write: %v, close: %v", werr, cerr))
		return
	}

	if err := os.Rename(tmp.Name(), g.path); err != nil {
		os.Remove(tmp.Name())
		g.logger.Warn("could not replace rate limit file", "path", g.path, "error", err)
	}
}
