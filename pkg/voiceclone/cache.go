package voiceclone

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/kaiwachan/voiceforge/pkg/kv"
)

// Cache key layout: features:<schema version>:<sha256 of file content>.
// Keying on content, not path, means a re-recorded file misses and a
// renamed file still hits. Bump the version when SampleFeatures or the
// extraction parameters change shape.
const cacheSchemaVersion = 1

// FeatureCache memoizes per-sample extraction results in a key-value
// store. Extraction dominates profile creation time, so re-adding a
// sample to a second profile should not pay for it twice.
type FeatureCache struct {
	store kv.Store
}

func NewFeatureCache(store kv.Store) *FeatureCache {
	return &FeatureCache{store: store}
}

// Get returns the cached features for the file at path, or false on any
// miss. Cache failures are logged and degrade to a miss; the cache is an
// optimization, never a correctness dependency.
func (c *FeatureCache) Get(ctx context.Context, path string) (*SampleFeatures, bool) {
	key, err := cacheKey(path)
	if err != nil {
		return nil, false
	}
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			slog.Warn("feature cache read failed", "path", path, "error", err)
		}
		return nil, false
	}
	feat := &SampleFeatures{}
	if err := msgpack.Unmarshal(raw, feat); err != nil {
		slog.Warn("feature cache entry corrupt, dropping", "path", path, "error", err)
		c.store.Delete(ctx, key)
		return nil, false
	}
	return feat, true
}

// Put stores the features for the file at path.
func (c *FeatureCache) Put(ctx context.Context, path string, feat *SampleFeatures) {
	key, err := cacheKey(path)
	if err != nil {
		return
	}
	raw, err := msgpack.Marshal(feat)
	if err != nil {
		slog.Warn("feature cache encode failed", "path", path, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, raw); err != nil {
		slog.Warn("feature cache write failed", "path", path, "error", err)
	}
}

// Close releases the underlying store.
func (c *FeatureCache) Close() error { return c.store.Close() }

func cacheKey(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("features:%d:%s", cacheSchemaVersion, hex.EncodeToString(h.Sum(nil))), nil
}
