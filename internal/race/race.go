// Package race runs all retrieval sources concurrently for one lookup and
// accepts the first non-empty success.
package race

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"goregion/internal/core"
	"goregion/internal/metrics"
	"goregion/internal/sources"
)

// DefaultDeadline bounds the total latency of one resolve call. The UI must
// never wait on a lookup indefinitely.
const DefaultDeadline = 10 * time.Second

// Orchestrator races a fixed set of sources per resolve call.
type Orchestrator struct {
	sources  []sources.Source
	deadline time.Duration
}

// New creates an orchestrator over srcs. A non-positive deadline uses
// DefaultDeadline.
func New(srcs []sources.Source, deadline time.Duration) *Orchestrator {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	return &Orchestrator{sources: srcs, deadline: deadline}
}

// outcome is one source's terminal result inside a race.
type outcome struct {
	source  string
	regions []core.Region
	err     error
	took    time.Duration
}

// Resolve launches every source against one shared deadline-bound context
// and returns the first non-empty success, cancelling the losers. The
// winner is decided purely by completion order; declaration order carries
// no priority. If every source fails, or the deadline elapses first,
// Resolve returns core.ErrAllSourcesExhausted — an explicit terminal state,
// never a guessed timeout.
//
// Late results from cancelled losers land in a buffered channel and are
// discarded; only the returned winner ever reaches the cache (the service
// writes exactly one result per call).
func (o *Orchestrator) Resolve(ctx context.Context, kind core.Kind, parentCode string) ([]core.Region, error) {
	if len(o.sources) == 0 {
		return nil, core.ErrAllSourcesExhausted
	}

	raceID := uuid.NewString()[:8]
	ctx, cancel := context.WithTimeout(ctx, o.deadline)
	defer cancel()

	results := make(chan outcome, len(o.sources))
	for _, s := range o.sources {
		go func(s sources.Source) {
			start := time.Now()
			metrics.SourceAttemptsTotal.WithLabelValues(s.Name()).Inc()
			regions, err := s.Fetch(ctx, kind, parentCode)
			took := time.Since(start)
			metrics.SourceDurationSeconds.WithLabelValues(s.Name()).Observe(took.Seconds())
			if err == nil && len(regions) == 0 {
				// A valid parent always has children in this hierarchy;
				// empty answers lose the race like any other failure.
				err = core.NewEmptyResultError(s.Name())
			}
			results <- outcome{source: s.Name(), regions: regions, err: err, took: took}
		}(s)
	}

	for pending := len(o.sources); pending > 0; pending-- {
		select {
		case <-ctx.Done():
			metrics.RaceExhaustedTotal.WithLabelValues(kind.String()).Inc()
			slog.Warn("region race deadline elapsed",
				"race", raceID, "kind", kind, "parent", parentCode)
			return nil, core.ErrAllSourcesExhausted
		case out := <-results:
			if out.err != nil {
				metrics.SourceFailuresTotal.WithLabelValues(out.source).Inc()
				slog.Debug("region source failed",
					"race", raceID, "source", out.source, "took", out.took, "error", out.err)
				continue
			}
			cancel()
			metrics.SourceWinsTotal.WithLabelValues(out.source).Inc()
			slog.Debug("region race won",
				"race", raceID, "kind", kind, "parent", parentCode,
				"source", out.source, "count", len(out.regions), "took", out.took)
			return out.regions, nil
		}
	}

	metrics.RaceExhaustedTotal.WithLabelValues(kind.String()).Inc()
	slog.Warn("region race exhausted, every source failed",
		"race", raceID, "kind", kind, "parent", parentCode)
	return nil, core.ErrAllSourcesExhausted
}
