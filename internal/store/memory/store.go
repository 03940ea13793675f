// Package memory provides a map-backed slot repository for tests and
// ephemeral deployments.
package memory

import (
	"context"
	"sort"
	"sync"

	"smart-parking/internal/parking"
)

var _ parking.Repository = (*Store)(nil)

// Store guards its map with a mutex so single calls are safe to make
// concurrently. It does not make a Find followed by a Save atomic.
type Store struct {
	mu    sync.RWMutex
	slots map[int]parking.Slot
}

func New() *Store {
	return &Store{slots: make(map[int]parking.Slot)}
}

func (s *Store) Find(_ context.Context, filter parking.Filter) ([]parking.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]parking.Slot, 0, len(s.slots))
	for _, slot := range s.slots {
		if filter.Match(slot) {
			out = append(out, clone(slot))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) FindByID(_ context.Context, id int) (*parking.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.slots[id]
	if !ok {
		return nil, parking.NotFoundError(id)
	}
	c := clone(slot)
	return &c, nil
}

func (s *Store) Create(_ context.Context, slot *parking.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.slots[slot.ID]; ok {
		return parking.DuplicateIDError(slot.ID)
	}
	s.slots[slot.ID] = clone(*slot)
	return nil
}

func (s *Store) Save(_ context.Context, slot *parking.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.slots[slot.ID]; !ok {
		return parking.NotFoundError(slot.ID)
	}
	s.slots[slot.ID] = clone(*slot)
	return nil
}

func (s *Store) Close() error {
	return nil
}

// clone detaches the VehicleType pointer from the caller's copy.
func clone(slot parking.Slot) parking.Slot {
	if slot.VehicleType != nil {
		vt := *slot.VehicleType
		slot.VehicleType = &vt
	}
	return slot
}
