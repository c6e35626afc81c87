// Package generator builds a synthetic organization and its project
// activity. Generation is a single-goroutine pipeline: each stage reads
// only the outputs of earlier stages, so a Dataset is consistent by
// construction.
package generator

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"github.com/nhle/workspace-sim/internal/config"
	"github.com/nhle/workspace-sim/internal/content"
	"github.com/nhle/workspace-sim/internal/dates"
	"github.com/nhle/workspace-sim/internal/model"
)

// Generator holds the shared random state for one run.
type Generator struct {
	population int
	rates      config.RatesConfig
	history    time.Duration
	generation config.GenerationConfig

	rng     *rand.Rand
	dates   *dates.Sampler
	faker   *gofakeit.Faker
	content *content.Provider
	log     *zap.SugaredLogger
	now     time.Time
}

// Option customizes a Generator.
type Option func(*Generator)

// WithNow pins the generator's notion of the current instant.
func WithNow(now time.Time) Option {
	return func(g *Generator) {
		g.now = now.UTC()
	}
}

// New creates a generator. rng drives every random choice, including
// the fake-data source that entity IDs are drawn from, so a seeded rng
// gives a reproducible run as long as the content provider runs offline.
func New(
	cfg *config.Config,
	provider *content.Provider,
	rng *rand.Rand,
	log *zap.SugaredLogger,
	opts ...Option,
) *Generator {
	g := &Generator{
		population: cfg.Population.Users,
		rates:      cfg.Rates,
		history:    cfg.History.Window(),
		generation: cfg.Generation,
		rng:        rng,
		dates:      dates.NewSampler(rng),
		faker:      gofakeit.New(rng.Uint64()),
		content:    provider,
		log:        log.Named("generator"),
		now:        time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run executes every stage in dependency order and returns the result.
func (g *Generator) Run(ctx context.Context) *model.Dataset {
	start := time.Now()

	ws := g.GenerateWorkspace()
	g.log.Infow("workspace generated", "name", ws.Name, "domain", ws.Domain)

	ds := &model.Dataset{Workspace: ws}
	ds.Users = g.GenerateUsers(ws, g.population)
	ds.Teams, ds.Memberships = g.GenerateTeams(ws, ds.Users)
	g.log.Infow("organization generated",
		"users", len(ds.Users),
		"teams", len(ds.Teams),
		"memberships", len(ds.Memberships),
	)

	ds.Projects, ds.Sections = g.GenerateProjects(ctx, ws.ID, ds.Teams, ds.Users, ds.Memberships)
	g.log.Infow("structure generated", "projects", len(ds.Projects), "sections", len(ds.Sections))

	ds.Tasks, ds.Stories = g.GenerateTasks(ctx, ws.ID, ds.Projects, ds.Sections, ds.Users, ds.Memberships)

	stats := g.content.Stats()
	g.log.Infow("activity generated",
		"tasks", len(ds.Tasks),
		"stories", len(ds.Stories),
		"content_calls", stats.BackendCalls,
		"content_cache_hits", stats.CacheHits,
		"content_fallbacks", stats.Fallbacks,
		"elapsed", time.Since(start).String(),
	)

	return ds
}

// newID returns a UUID drawn from the run's fake-data source.
func (g *Generator) newID() string {
	return g.faker.UUID()
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
