package profilestore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kaiwachan/voiceforge/pkg/jsontime"
)

// Prefixes for transient directories under the store root. Anything
// matching these is ignored at load time and swept on Open.
const (
	stagingPrefix = ".staging-"
	trashPrefix   = ".trash-"
)

// Store maps profile IDs to profile directories under a root, mirroring
// the directory contents in memory for cheap reads. All writes go through
// a staging directory and are promoted with a rename, so readers never
// observe a half-written profile.
//
// Store is safe for concurrent use.
type Store struct {
	root string

	mu       sync.RWMutex
	profiles map[string]*Profile
}

// Open creates the root directory if needed, sweeps leftover staging
// directories from interrupted saves, and loads every valid profile.
func Open(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("profilestore: create root: %w", err)
	}
	s := &Store{
		root:     root,
		profiles: make(map[string]*Profile),
	}
	if err := s.loadAll(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the store root directory.
func (s *Store) Dir() string { return s.root }

func (s *Store) loadAll() error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("profilestore: read root: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, stagingPrefix) || strings.HasPrefix(name, trashPrefix) {
			// Leftover from an interrupted save. Never promoted, safe to drop.
			slog.Warn("removing stale staging directory", "dir", name)
			os.RemoveAll(filepath.Join(s.root, name))
			continue
		}
		p, err := s.loadProfile(name)
		if err != nil {
			slog.Warn("skipping unreadable profile directory", "id", name, "error", err)
			continue
		}
		s.profiles[name] = p
	}
	slog.Info("profile store opened", "root", s.root, "profiles", len(s.profiles))
	return nil
}

func (s *Store) loadProfile(id string) (*Profile, error) {
	dir := filepath.Join(s.root, id)
	raw, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	p := &Profile{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	p.ID = id

	// Sidecars are optional: an absent file leaves the field zero.
	if v, err := readVector32(filepath.Join(dir, EmbeddingFile)); err == nil {
		p.Embedding = v
	} else if !os.IsNotExist(err) {
		slog.Warn("unreadable embedding sidecar", "id", id, "error", err)
	}
	if v, err := readVector64(filepath.Join(dir, F0SamplesFile)); err == nil {
		p.F0Samples = v
	} else if !os.IsNotExist(err) {
		slog.Warn("unreadable f0 sidecar", "id", id, "error", err)
	}
	if m, err := readMatrix32(filepath.Join(dir, MelSpecFile)); err == nil {
		p.MelSpecMean = m
	} else if !os.IsNotExist(err) {
		slog.Warn("unreadable mel sidecar", "id", id, "error", err)
	}
	return p, nil
}

// Get returns the profile for id, or false when unknown. The returned
// profile and its slices must be treated as read-only.
func (s *Store) Get(id string) (*Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, false
	}
	return p.clone(), true
}

// IDs returns all profile IDs in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Names returns a map from profile ID to display name.
func (s *Store) Names() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make(map[string]string, len(s.profiles))
	for id, p := range s.profiles {
		names[id] = p.Name
	}
	return names
}

// Len returns the number of stored profiles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// Save persists the profile under a sanitized form of id and returns the
// ID actually used. An existing profile with the same ID is replaced
// atomically; its CreatedAt is preserved. On any error nothing visible
// changes, on disk or in memory.
func (s *Store) Save(id string, p *Profile) (string, error) {
	id = SanitizeID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveLocked(id, p); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) saveLocked(id string, p *Profile) error {
	cp := p.clone()
	cp.ID = id
	now := jsontime.NowEpoch()
	if prev, ok := s.profiles[id]; ok && !prev.CreatedAt.IsZero() {
		cp.CreatedAt = prev.CreatedAt
	} else if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now

	staging := filepath.Join(s.root, stagingPrefix+uuid.NewString())
	if err := s.writeProfileDir(staging, cp); err != nil {
		os.RemoveAll(staging)
		return err
	}
	if err := s.promote(staging, id); err != nil {
		os.RemoveAll(staging)
		return err
	}
	s.profiles[id] = cp
	slog.Info("profile saved", "id", id, "name", cp.Name, "samples", cp.SampleCount)
	return nil
}

func (s *Store) writeProfileDir(dir string, p *Profile) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("profilestore: create staging: %w", err)
	}
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("profilestore: encode metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, MetadataFile), raw, 0o644); err != nil {
		return fmt.Errorf("profilestore: write metadata: %w", err)
	}
	if len(p.Embedding) > 0 {
		if err := writeVector32(filepath.Join(dir, EmbeddingFile), p.Embedding); err != nil {
			return fmt.Errorf("profilestore: write embedding: %w", err)
		}
	}
	if len(p.F0Samples) > 0 {
		if err := writeVector64(filepath.Join(dir, F0SamplesFile), p.F0Samples); err != nil {
			return fmt.Errorf("profilestore: write f0 samples: %w", err)
		}
	}
	if len(p.MelSpecMean) > 0 {
		if err := writeMatrix32(filepath.Join(dir, MelSpecFile), p.MelSpecMean); err != nil {
			return fmt.Errorf("profilestore: write mel template: %w", err)
		}
	}
	return nil
}

// promote swaps the staged directory into place. A pre-existing target is
// moved aside first because rename does not replace non-empty directories.
func (s *Store) promote(staging, id string) error {
	target := filepath.Join(s.root, id)
	trash := ""
	if _, err := os.Stat(target); err == nil {
		trash = filepath.Join(s.root, trashPrefix+uuid.NewString())
		if err := os.Rename(target, trash); err != nil {
			return fmt.Errorf("profilestore: displace old profile: %w", err)
		}
	}
	if err := os.Rename(staging, target); err != nil {
		if trash != "" {
			os.Rename(trash, target)
		}
		return fmt.Errorf("profilestore: promote profile: %w", err)
	}
	if trash != "" {
		os.RemoveAll(trash)
	}
	return nil
}

// Delete removes the profile from disk and memory. Deleting an unknown ID
// is a no-op returning false. When the directory cannot be removed the
// in-memory entry is kept so memory stays consistent with disk.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		return false
	}
	if err := os.RemoveAll(filepath.Join(s.root, id)); err != nil {
		slog.Error("delete profile directory", "id", id, "error", err)
		return false
	}
	delete(s.profiles, id)
	slog.Info("profile deleted", "id", id)
	return true
}

// Rename changes the profile's display name, keeping its ID. Returns
// false for an unknown ID or when persisting the change fails. The
// lookup and the save happen under one critical section, so a rename
// can never revive a concurrently deleted profile.
func (s *Store) Rename(id, newName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return false
	}
	cp := p.clone()
	cp.Name = newName
	if err := s.saveLocked(id, cp); err != nil {
		slog.Error("rename profile", "id", id, "error", err)
		return false
	}
	return true
}
