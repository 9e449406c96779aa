package server

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/greenmap/internal/catalog"
	"github.com/woozymasta/greenmap/internal/kpi"
	"github.com/woozymasta/greenmap/internal/selection"
	"github.com/woozymasta/greenmap/internal/viewer"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Viewer    *viewer.Viewer
	Channels  *selection.Channels
	Formatter *kpi.Formatter
	Seeder    *catalog.Seeder
}

// NewServerContext wires the handlers to a viewer whose selection state
// publishes into channels.
func NewServerContext(v *viewer.Viewer, channels *selection.Channels, f *kpi.Formatter, seed catalog.Backoff) *ServerContext {
	return &ServerContext{
		Viewer:    v,
		Channels:  channels,
		Formatter: f,
		Seeder:    v.Seeder(seed),
	}
}

// StartSeeding populates the catalog in the background.
func (s *ServerContext) StartSeeding(ctx context.Context) {
	go func() {
		status := s.Seeder.Run(ctx)
		log.Info().
			Str("status", string(status)).
			Int("entries", s.Viewer.Catalog().Len()).
			Msg("Catalog population finished")
	}()
}
