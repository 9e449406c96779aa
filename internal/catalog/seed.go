package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/greenmap/internal/feature"
)

// Status describes the progress of the initial catalog population.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"

	// StatusEmpty is terminal: every attempt returned no features.
	StatusEmpty Status = "empty"

	// StatusCanceled means population stopped before the attempts ran out.
	StatusCanceled Status = "canceled"
)

// QueryFunc returns the features currently rendered in the viewport.
type QueryFunc func(ctx context.Context) ([]feature.Raw, error)

// Backoff bounds the seeding retries.
type Backoff struct {
	Attempts     int           `yaml:"attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
}

// DefaultBackoff is used for zero fields of a Backoff.
var DefaultBackoff = Backoff{
	Attempts:     5,
	InitialDelay: 250 * time.Millisecond,
	MaxDelay:     4 * time.Second,
}

func (b Backoff) withDefaults() Backoff {
	if b.Attempts <= 0 {
		b.Attempts = DefaultBackoff.Attempts
	}
	if b.InitialDelay <= 0 {
		b.InitialDelay = DefaultBackoff.InitialDelay
	}
	if b.MaxDelay <= 0 {
		b.MaxDelay = DefaultBackoff.MaxDelay
	}
	if b.MaxDelay < b.InitialDelay {
		b.MaxDelay = b.InitialDelay
	}
	return b
}

// Seeder populates a catalog from a viewport query. Rendered-feature
// queries can come back empty right after the map becomes interactive, so
// the query is retried with exponential backoff up to a fixed number of
// attempts before the catalog is declared empty.
type Seeder struct {
	Catalog *Catalog
	Query   QueryFunc
	Backoff Backoff

	// OnAttempt, when set, is called after every attempt.
	OnAttempt func(attempt, found int)

	mu     sync.RWMutex
	status Status
}

// Status returns the population state. A catalog filled by later
// viewport merges reports ready even if seeding itself found nothing.
func (s *Seeder) Status() Status {
	s.mu.RLock()
	st := s.status
	s.mu.RUnlock()

	switch st {
	case "":
		return StatusIdle
	case StatusEmpty, StatusCanceled:
		if s.Catalog != nil && s.Catalog.Len() > 0 {
			return StatusReady
		}
	}
	return st
}

func (s *Seeder) setStatus(st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

// Run blocks until the catalog is seeded, the attempts are exhausted or
// ctx is done. Query errors count as empty attempts.
func (s *Seeder) Run(ctx context.Context) Status {
	b := s.Backoff.withDefaults()
	delay := b.InitialDelay

	s.setStatus(StatusLoading)

	for attempt := 1; ; attempt++ {
		fs, err := s.Query(ctx)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("Catalog query failed")
		}

		found := 0
		if err == nil {
			found = countAreas(fs)
		}
		if found > 0 {
			// merge keeps entries another viewport event may already have added
			s.Catalog.Merge(fs)
		}
		if s.OnAttempt != nil {
			s.OnAttempt(attempt, found)
		}

		if found > 0 {
			log.Info().
				Int("attempt", attempt).
				Int("entries", s.Catalog.Len()).
				Msg("Catalog populated")
			s.setStatus(StatusReady)
			return StatusReady
		}

		if attempt >= b.Attempts {
			log.Warn().
				Int("attempts", attempt).
				Msg("No area features rendered, catalog left empty")
			s.setStatus(StatusEmpty)
			return StatusEmpty
		}

		log.Debug().
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("Catalog query returned nothing, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Debug().Int("attempt", attempt).Msg("Catalog population canceled")
			s.setStatus(StatusCanceled)
			return StatusCanceled
		case <-timer.C:
		}

		delay *= 2
		if delay > b.MaxDelay {
			delay = b.MaxDelay
		}
	}
}

func countAreas(fs []feature.Raw) int {
	n := 0
	for _, f := range fs {
		if feature.KindOf(f) != feature.KindTree {
			n++
		}
	}
	return n
}
