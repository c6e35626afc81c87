// Package content supplies human-like text for generated entities. A
// Provider fronts an optional text-generation backend; when the backend
// is missing or fails, it answers from built-in pools so callers never
// handle an unavailable path.
package content

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// batchSize is how many items one batched prompt asks for.
const batchSize = 20

// minBatchItems is the fewest parsed lines accepted from a batched
// response before falling back to the built-in pool.
const minBatchItems = 3

var errUnusable = errors.New("unusable response")

// Options tune a single generation call. Zero fields take the
// provider's defaults.
type Options struct {
	Temperature float64
	Model       string
}

// Backend is a text-generation service.
type Backend interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// Stats counts provider activity for the run summary.
type Stats struct {
	BackendCalls int
	CacheHits    int
	Fallbacks    int
}

// Provider owns the prompt cache and the memoized text pools for one
// generation run.
type Provider struct {
	backend  Backend
	defaults Options
	log      *zap.SugaredLogger

	mu    sync.Mutex
	rng   *rand.Rand
	cache map[string]string
	pools map[string][]string
	stats Stats
}

// NewProvider creates a provider. A nil backend puts the provider in
// offline mode.
func NewProvider(backend Backend, rng *rand.Rand, defaults Options, log *zap.SugaredLogger) *Provider {
	return &Provider{
		backend:  backend,
		defaults: defaults,
		log:      log.Named("content"),
		rng:      rng,
		cache:    make(map[string]string),
		pools:    make(map[string][]string),
	}
}

// Available reports whether a backend is configured.
func (p *Provider) Available() bool {
	return p.backend != nil
}

// Stats returns a snapshot of provider counters.
func (p *Provider) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// GenerateText returns generated text for prompt. It never fails: with
// no backend, a backend error, or an unusable response it returns a
// fallback string chosen by the prompt's category. Successful responses
// are cached by prompt for the provider's lifetime.
func (p *Provider) GenerateText(ctx context.Context, prompt string, opts Options) string {
	text, err := p.complete(ctx, prompt, opts)
	if err != nil {
		return p.Fallback(prompt)
	}
	return text
}

// Fallback returns offline text for prompt. Repeated calls draw from the
// same category pool but may return different values.
func (p *Provider) Fallback(prompt string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Fallbacks++

	if pool := PoolFor(Classify(prompt)); pool != nil {
		return pool[p.rng.IntN(len(pool))]
	}

	short := []rune(prompt)
	if len(short) > 30 {
		short = short[:30]
	}
	return "Task related to: " + string(short)
}

// TaskNames returns the task-name pool for a section of a department's
// project. One backend call fills the pool; later calls for the same
// key are served from memory.
func (p *Provider) TaskNames(ctx context.Context, department, section string) []string {
	key := "tasks|" + department + "|" + section
	prompt := fmt.Sprintf(
		"Generate %d realistic, concise task names for tasks sitting in the %q column "+
			"of a %s team's project board. Return one task name per line, no numbering.",
		batchSize, section, department,
	)
	return p.batch(ctx, key, prompt, taskNamePool)
}

// Comments returns the comment pool shared by every task.
func (p *Provider) Comments(ctx context.Context) []string {
	prompt := fmt.Sprintf(
		"Generate %d short, realistic comments that coworkers leave on tasks in a "+
			"project management tool. Return one comment per line, no numbering.",
		batchSize,
	)
	return p.batch(ctx, "comments", prompt, commentPool)
}

// Descriptions returns the task description pool for a department.
func (p *Provider) Descriptions(ctx context.Context, department string) []string {
	prompt := fmt.Sprintf(
		"Generate %d realistic one or two sentence task descriptions written by a %s team. "+
			"Return one description per line, no numbering.",
		batchSize, department,
	)
	return p.batch(ctx, "descriptions|"+department, prompt, descriptionPool)
}

// ProjectName asks the backend for the name of a team's nth project. It
// reports false when no backend is configured or the response is
// unusable, leaving the caller to synthesize a name.
func (p *Provider) ProjectName(ctx context.Context, department, team string, n int) (string, bool) {
	if !p.Available() {
		return "", false
	}

	prompt := fmt.Sprintf(
		"Generate a realistic enterprise project name for project #%d of the %s team (%s department). "+
			"Return only the name.",
		n, team, department,
	)
	text, err := p.complete(ctx, prompt, Options{Temperature: 0.8})
	if err != nil {
		return "", false
	}

	items := parseList(text)
	if len(items) == 0 {
		return "", false
	}
	return items[0], true
}

func (p *Provider) batch(ctx context.Context, key, prompt string, fallback []string) []string {
	p.mu.Lock()
	if pool, ok := p.pools[key]; ok {
		p.mu.Unlock()
		return pool
	}
	p.mu.Unlock()

	pool := fallback
	if p.Available() {
		text, err := p.complete(ctx, prompt, Options{})
		if err == nil {
			if items := parseList(text); len(items) >= minBatchItems {
				pool = items
			} else {
				p.log.Warnw("batched response unusable, using built-in pool", "key", key, "items", len(items))
			}
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.pools[key]; ok {
		return existing
	}
	p.pools[key] = pool
	return pool
}

// complete calls the backend through the prompt cache. Errors mean the
// caller should fall back; they are logged here and never retried.
func (p *Provider) complete(ctx context.Context, prompt string, opts Options) (string, error) {
	if p.backend == nil {
		return "", ErrNoCredentials
	}

	p.mu.Lock()
	if text, ok := p.cache[prompt]; ok {
		p.stats.CacheHits++
		p.mu.Unlock()
		return text, nil
	}
	p.stats.BackendCalls++
	p.mu.Unlock()

	if opts.Model == "" {
		opts.Model = p.defaults.Model
	}
	if opts.Temperature == 0 {
		opts.Temperature = p.defaults.Temperature
	}

	text, err := p.backend.Complete(ctx, prompt, opts)
	if err != nil {
		p.log.Warnw("text generation failed, using fallback", "error", err)
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" || containsPlaceholder(text) {
		p.log.Warnw("text generation returned unusable text, using fallback", "length", len(text))
		return "", errUnusable
	}

	p.mu.Lock()
	p.cache[prompt] = text
	p.mu.Unlock()
	return text, nil
}

var listPrefix = regexp.MustCompile(`^(?:[-*•]+|\d+[.)])\s*`)

// parseList splits a newline-separated response into clean, unique
// items.
func parseList(text string) []string {
	seen := make(map[string]bool)
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = listPrefix.ReplaceAllString(line, "")
		line = strings.Trim(line, "\"'`*")
		line = strings.TrimSpace(line)
		if line == "" || len(line) > 160 || containsPlaceholder(line) {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		items = append(items, line)
	}
	return items
}
