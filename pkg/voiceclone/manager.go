package voiceclone

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kaiwachan/voiceforge/pkg/audio/wave"
	"github.com/kaiwachan/voiceforge/pkg/profilestore"
)

// Progress reports pipeline advancement during profile creation. current
// counts completed steps out of total; msg names the step. Returning
// false requests cancellation, honored at the next step boundary.
type Progress func(current, total int, msg string) bool

// Manager is the facade over the whole pipeline: preprocess, extract,
// aggregate, persist. It also fronts the store's query and mutation
// operations so callers hold a single handle.
type Manager struct {
	store    *profilestore.Store
	pre      *Preprocessor
	ext      *Extractor
	agg      *Aggregator
	cache    *FeatureCache
	embedder Embedder
	workers  int
}

// Option configures a Manager.
type Option func(*Manager)

// WithEmbedder sets the speaker embedding backend. Without one, every
// sample gets a flagged random placeholder embedding.
func WithEmbedder(e Embedder) Option {
	return func(m *Manager) { m.embedder = e }
}

// WithCache enables per-sample feature caching.
func WithCache(c *FeatureCache) Option {
	return func(m *Manager) { m.cache = c }
}

// WithWorkers bounds concurrent sample extraction. Defaults to
// runtime.NumCPU.
func WithWorkers(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.workers = n
		}
	}
}

// WithPreprocessConfig overrides waveform normalization parameters.
func WithPreprocessConfig(cfg PreprocessConfig) Option {
	return func(m *Manager) { m.pre = NewPreprocessor(cfg) }
}

// WithExtractorConfig overrides feature extraction parameters.
func WithExtractorConfig(cfg ExtractorConfig) Option {
	return func(m *Manager) { m.ext = NewExtractor(cfg, m.embedder) }
}

// WithAggregatorConfig overrides aggregation parameters.
func WithAggregatorConfig(cfg AggregatorConfig) Option {
	return func(m *Manager) { m.agg = NewAggregator(cfg) }
}

// NewManager builds a Manager over an opened profile store.
// WithEmbedder, if used, must come before WithExtractorConfig.
func NewManager(store *profilestore.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		pre:     NewPreprocessor(DefaultPreprocessConfig()),
		agg:     NewAggregator(DefaultAggregatorConfig()),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.ext == nil {
		m.ext = NewExtractor(DefaultExtractorConfig(), m.embedder)
	}
	return m
}

// CreateProfile runs the full pipeline over samplePaths and persists the
// result under a sanitized form of name, returning the stored profile.
// Samples are processed concurrently; individual failures are logged and
// skipped. Nothing is persisted unless at least one sample yields
// features. progress may be nil.
func (m *Manager) CreateProfile(ctx context.Context, name string, samplePaths []string, progress Progress) (*profilestore.Profile, error) {
	if len(samplePaths) == 0 {
		return nil, ErrNoSamples
	}

	// One step per sample, plus aggregate and save.
	total := len(samplePaths) + 2
	done := 0
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	// Serialize progress callbacks so callers never see them reentrantly.
	var progressMu sync.Mutex
	report := func(msg string) error {
		progressMu.Lock()
		done++
		if progress != nil && !progress(done, total, msg) {
			cancel()
		}
		progressMu.Unlock()
		return ctx.Err()
	}

	features := make([]*SampleFeatures, len(samplePaths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, path := range samplePaths {
		g.Go(func() error {
			feat, err := m.extractSample(gctx, path)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Warn("skipping sample", "path", path, "error", err)
			}
			features[i] = feat
			return report(fmt.Sprintf("processed %s", filepath.Base(path)))
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile, err := m.agg.Aggregate(features)
	if err != nil {
		return nil, err
	}
	if err := report("aggregated features"); err != nil {
		return nil, err
	}

	profile.Name = name
	for _, f := range features {
		if f != nil {
			profile.SampleFiles = append(profile.SampleFiles, filepath.Base(f.SourcePath))
		}
	}
	id, err := m.store.Save(name, profile)
	if err != nil {
		return nil, err
	}
	report("saved profile")

	saved, _ := m.store.Get(id)
	slog.Info("profile created", "id", id, "name", name,
		"samples", profile.SampleCount, "requested", len(samplePaths))
	return saved, nil
}

// extractSample runs decode, preprocess, and extract for one file, with
// the cache consulted first.
func (m *Manager) extractSample(ctx context.Context, path string) (*SampleFeatures, error) {
	if m.cache != nil {
		if feat, ok := m.cache.Get(ctx, path); ok {
			slog.Debug("feature cache hit", "path", path)
			return feat, nil
		}
	}

	wf, err := wave.DecodeFile(path)
	if err != nil {
		return nil, &SampleError{Path: path, Stage: "decode", Err: err}
	}
	wf, err = m.pre.Process(wf)
	if err != nil {
		return nil, &SampleError{Path: path, Stage: "preprocess", Err: err}
	}
	feat, err := m.ext.Extract(ctx, wf, path)
	if err != nil {
		return nil, &SampleError{Path: path, Stage: "extract", Err: err}
	}

	if m.cache != nil {
		m.cache.Put(ctx, path, feat)
	}
	return feat, nil
}

// GetProfile returns the stored profile for id.
func (m *Manager) GetProfile(id string) (*profilestore.Profile, error) {
	p, ok := m.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return p, nil
}

// ProfileIDs returns all stored profile IDs, sorted.
func (m *Manager) ProfileIDs() []string { return m.store.IDs() }

// ProfileNames maps profile IDs to display names.
func (m *Manager) ProfileNames() map[string]string { return m.store.Names() }

// RenameProfile changes a profile's display name.
func (m *Manager) RenameProfile(id, newName string) error {
	if !m.store.Rename(id, newName) {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return nil
}

// DeleteProfile removes a profile. Deleting an unknown ID is a no-op.
func (m *Manager) DeleteProfile(id string) bool { return m.store.Delete(id) }

// SystemInfo describes the manager's runtime configuration.
type SystemInfo struct {
	ProfilesDir  string `json:"profiles_dir"`
	ProfileCount int    `json:"profile_count"`
	HasEmbedder  bool   `json:"has_embedder"`
	CacheEnabled bool   `json:"cache_enabled"`
	Workers      int    `json:"workers"`
}

// SystemInfo reports where profiles live and which optional pieces are
// active.
func (m *Manager) SystemInfo() SystemInfo {
	return SystemInfo{
		ProfilesDir:  m.store.Dir(),
		ProfileCount: m.store.Len(),
		HasEmbedder:  m.embedder != nil,
		CacheEnabled: m.cache != nil,
		Workers:      m.workers,
	}
}

// Close releases the embedder and cache, if any.
func (m *Manager) Close() error {
	var first error
	if m.embedder != nil {
		if err := m.embedder.Close(); err != nil {
			first = err
		}
	}
	if m.cache != nil {
		if err := m.cache.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
