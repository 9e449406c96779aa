package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/woozymasta/greenmap/internal/feature"
)

var fastBackoff = Backoff{Attempts: 4, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestSeederRetriesUntilFeatures(t *testing.T) {
	calls := 0
	s := &Seeder{
		Catalog: New(),
		Backoff: fastBackoff,
		Query: func(context.Context) ([]feature.Raw, error) {
			calls++
			switch calls {
			case 1:
				return nil, nil
			case 2:
				return nil, errors.New("style not loaded")
			case 3:
				// trees only do not count as a populated viewport
				return []feature.Raw{tree("t")}, nil
			}
			return []feature.Raw{area(geojson.Properties{"name": "Parco"})}, nil
		},
	}

	if st := s.Run(context.Background()); st != StatusReady {
		t.Fatalf("status = %s", st)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
	if s.Catalog.Len() != 1 || s.Status() != StatusReady {
		t.Errorf("len = %d status = %s", s.Catalog.Len(), s.Status())
	}
}

func TestSeederGivesUp(t *testing.T) {
	var attempts []int
	s := &Seeder{
		Catalog:   New(),
		Backoff:   fastBackoff,
		Query:     func(context.Context) ([]feature.Raw, error) { return nil, nil },
		OnAttempt: func(attempt, _ int) { attempts = append(attempts, attempt) },
	}

	if s.Status() != StatusIdle {
		t.Errorf("initial status = %s", s.Status())
	}
	if st := s.Run(context.Background()); st != StatusEmpty {
		t.Fatalf("status = %s", st)
	}
	if len(attempts) != fastBackoff.Attempts {
		t.Errorf("attempts = %v", attempts)
	}
}

func TestSeederKeepsMergedEntries(t *testing.T) {
	c := New()
	c.Merge([]feature.Raw{area(geojson.Properties{"name": "from viewport"})})

	s := &Seeder{
		Catalog: c,
		Backoff: fastBackoff,
		Query: func(context.Context) ([]feature.Raw, error) {
			return []feature.Raw{area(geojson.Properties{"name": "from seed"})}, nil
		},
	}
	s.Run(context.Background())

	if got := identities(c.Filter("")); !equal(got, []string{"from viewport", "from seed"}) {
		t.Errorf("entries = %v", got)
	}
}

func TestSeederStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Seeder{
		Catalog: New(),
		Backoff: Backoff{Attempts: 10, InitialDelay: time.Hour},
		Query:   func(context.Context) ([]feature.Raw, error) { return nil, nil },
	}
	if st := s.Run(ctx); st != StatusCanceled {
		t.Errorf("status = %s", st)
	}
	if st := s.Status(); st != StatusCanceled {
		t.Errorf("reported status = %s", st)
	}
}

func TestSeederStatusFollowsLaterMerges(t *testing.T) {
	c := New()
	s := &Seeder{
		Catalog: c,
		Backoff: fastBackoff,
		Query:   func(context.Context) ([]feature.Raw, error) { return nil, nil },
	}
	if st := s.Run(context.Background()); st != StatusEmpty {
		t.Fatalf("status = %s", st)
	}
	if st := s.Status(); st != StatusEmpty {
		t.Fatalf("reported status = %s", st)
	}

	c.Merge([]feature.Raw{area(geojson.Properties{"name": "late"})})
	if st := s.Status(); st != StatusReady {
		t.Errorf("status after merge = %s, want ready", st)
	}
}

func TestBackoffDefaults(t *testing.T) {
	b := Backoff{}.withDefaults()
	if b != DefaultBackoff {
		t.Errorf("defaults = %+v", b)
	}
	b = Backoff{InitialDelay: time.Second, MaxDelay: time.Millisecond}.withDefaults()
	if b.MaxDelay != time.Second {
		t.Errorf("max delay = %v", b.MaxDelay)
	}
}
