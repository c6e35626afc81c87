package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/workspace-sim/internal/config"
	"github.com/nhle/workspace-sim/internal/content"
	"github.com/nhle/workspace-sim/internal/dist"
	"github.com/nhle/workspace-sim/internal/generator"
	"github.com/nhle/workspace-sim/internal/logger"
	"github.com/nhle/workspace-sim/internal/model"
)

// Now is the fixed instant used by generated test datasets (a Wednesday).
var Now = time.Date(2025, time.June, 18, 15, 0, 0, 0, time.UTC)

// NewDataset generates an offline dataset with default rates.
func NewDataset(t *testing.T, users int, seed uint64) *model.Dataset {
	t.Helper()

	cfg := &config.Config{
		Population: config.PopulationConfig{Users: users},
		History:    config.HistoryConfig{Days: 730},
		Rates: config.RatesConfig{
			ArchivedProject: 0.15,
			UnassignedTask:  0.15,
			NullDescription: 0.10,
			Comment:         0.40,
		},
		Generation: config.GenerationConfig{Seed: seed, ScopedOwners: true},
	}

	rng, _ := dist.NewRand(seed)
	provider := content.NewProvider(nil, rng, content.Options{}, logger.Nop())
	g := generator.New(cfg, provider, rng, logger.Nop(), generator.WithNow(Now))
	return g.Run(context.Background())
}
