// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package observation

// Info is the observation value plus the bookkeeping flags the core
// tracks for audit and replay (§3): consensused, once the payload has
// been included in an emitted block, and createdByUs, set for
// observations this peer itself voted for.
type Info struct {
	Observation Observation
	Consensused bool
	CreatedByUs bool
}

// Store holds every Info this peer has created or received, keyed by its
// Key. Entries are created on first vote or first sighting and are never
// removed (§3: "destroyed never, kept for audit and replay within one
// run").
type Store struct {
	byKey map[Key]*Info
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{byKey: make(map[Key]*Info)}
}

// Get returns the Info for key, or nil if unknown.
func (s *Store) Get(key Key) *Info {
	return s.byKey[key]
}

// Insert records o under key if not already present, returning the
// (possibly pre-existing) Info and whether it already existed.
func (s *Store) Insert(key Key, o Observation, createdByUs bool) (*Info, bool) {
	if info, ok := s.byKey[key]; ok {
		if createdByUs {
			info.CreatedByUs = true
		}
		return info, true
	}
	info := &Info{Observation: o, CreatedByUs: createdByUs}
	s.byKey[key] = info
	return info, false
}

// MarkConsensused flags key's Info as consensused. It is a no-op if key
// is unknown, which should never happen for a payload the driver just
// elected.
func (s *Store) MarkConsensused(key Key) {
	if info, ok := s.byKey[key]; ok {
		info.Consensused = true
	}
}

// Has reports whether key has already been recorded.
func (s *Store) Has(key Key) bool {
	_, ok := s.byKey[key]
	return ok
}

// Len reports the number of distinct observations recorded.
func (s *Store) Len() int {
	return len(s.byKey)
}
