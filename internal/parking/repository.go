package parking

import "context"

// Repository is the slot store the parking lot operates on. Find returns
// slots ordered ascending by ID. FindByID and Save report a missing slot
// with ErrNotFound; Create reports an existing ID with ErrDuplicateID and
// leaves the store untouched.
type Repository interface {
	Find(ctx context.Context, filter Filter) ([]Slot, error)
	FindByID(ctx context.Context, id int) (*Slot, error)
	Create(ctx context.Context, slot *Slot) error
	Save(ctx context.Context, slot *Slot) error
}

// Filter is an equality predicate over slot attributes. Nil fields match
// any value.
type Filter struct {
	Occupied   *bool
	Covered    *bool
	EVCharging *bool
}

func (f Filter) Match(s Slot) bool {
	if f.Occupied != nil && s.Occupied != *f.Occupied {
		return false
	}
	if f.Covered != nil && s.Covered != *f.Covered {
		return false
	}
	if f.EVCharging != nil && s.EVCharging != *f.EVCharging {
		return false
	}
	return true
}

func AvailableFilter() Filter {
	return Filter{Occupied: boolPtr(false)}
}

// AllocationFilter matches free slots carrying every requested feature.
// An unrequested feature is left unconstrained.
func AllocationFilter(needsEV, needsCovered bool) Filter {
	f := AvailableFilter()
	if needsEV {
		f.EVCharging = boolPtr(true)
	}
	if needsCovered {
		f.Covered = boolPtr(true)
	}
	return f
}

func boolPtr(b bool) *bool {
	return &b
}
