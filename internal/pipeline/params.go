// Package pipeline sequences detection, matching, and clustering against a
// reference model cached at startup, and owns the live-tunable threshold
// state shared between the control surface and the frame loop.
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Params holds the two live-tunable thresholds of the matching pipeline.
type Params struct {
	// CornerThreshold is the keypoint response floor. Zero keeps every
	// detected keypoint; raising it keeps only pronounced corners.
	CornerThreshold float64 `json:"corner_threshold"`

	// MatchRatio caps the nearest-to-second-nearest distance ratio a match
	// may have. 1.0 accepts any strict nearest match; lower values demand a
	// clearer distinctness gap.
	MatchRatio float64 `json:"match_ratio"`
}

// DefaultParams returns the startup thresholds: keep every corner, accept
// any distinct nearest match.
func DefaultParams() Params {
	return Params{
		CornerThreshold: 0.0,
		MatchRatio:      1.0,
	}
}

// WithCornerThreshold returns a copy with the response floor replaced.
func (p Params) WithCornerThreshold(t float64) Params {
	p.CornerThreshold = t
	return p
}

// WithMatchRatio returns a copy with the distinctness ceiling replaced.
func (p Params) WithMatchRatio(r float64) Params {
	p.MatchRatio = r
	return p
}

// LoadParams reads a JSON threshold profile.
func LoadParams(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, err
	}

	var p Params
	if err := json.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("parse params %s: %w", path, err)
	}
	return p, nil
}

// Save writes the thresholds as an indented JSON profile.
func (p Params) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Store holds the process-wide thresholds. The control surface writes
// through the raw setters while the frame loop reads one Snapshot per
// frame, so each frame sees the most recent write as a coherent pair.
type Store struct {
	mu sync.RWMutex
	p  Params
}

// NewStore creates a store seeded with p.
func NewStore(p Params) *Store {
	return &Store{p: p}
}

// Snapshot returns the current thresholds.
func (s *Store) Snapshot() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.p
}

// Set replaces both thresholds.
func (s *Store) Set(p Params) {
	s.mu.Lock()
	s.p = p
	s.mu.Unlock()
}

// SetCornerThreshold maps a raw control position in [0,100] to a response
// floor of raw/1000. Out-of-range positions saturate.
func (s *Store) SetCornerThreshold(raw int) {
	v := float64(clampRaw(raw)) / 1000.0
	s.mu.Lock()
	s.p.CornerThreshold = v
	s.mu.Unlock()
}

// SetMatchRatioThreshold maps a raw control position in [0,100] to a
// distinctness ceiling of raw/100. Out-of-range positions saturate.
func (s *Store) SetMatchRatioThreshold(raw int) {
	v := float64(clampRaw(raw)) / 100.0
	s.mu.Lock()
	s.p.MatchRatio = v
	s.mu.Unlock()
}

func clampRaw(raw int) int {
	if raw < 0 {
		return 0
	}
	if raw > 100 {
		return 100
	}
	return raw
}
