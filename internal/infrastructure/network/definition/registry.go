package networkdefinition

import (
	"fmt"
	"sync/atomic"

	"chain_insight/internal/app/port"
	"chain_insight/internal/domain/entity"
)

// Registry holds the fixed set of network profiles and the currently active one.
// The active profile is swapped as a single pointer; readers call Active once per request
// and keep the returned value for the whole request.
type Registry struct {
	logger  port.Logger
	ordered []entity.NetworkProfile
	byID    map[string]*entity.NetworkProfile
	active  atomic.Pointer[entity.NetworkProfile]
}

var _ port.NetworkRegistry = (*Registry)(nil)

// NewRegistry builds a registry from profiles and activates defaultID.
func NewRegistry(log port.Logger, profiles []entity.NetworkProfile, defaultID string) (*Registry, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("network registry needs at least one profile")
	}

	r := &Registry{
		logger:  log,
		ordered: make([]entity.NetworkProfile, len(profiles)),
		byID:    make(map[string]*entity.NetworkProfile, len(profiles)),
	}
	copy(r.ordered, profiles)
	for i := range r.ordered {
		p := &r.ordered[i]
		if _, dup := r.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate network id %q", p.ID)
		}
		r.byID[p.ID] = p
	}

	initial, ok := r.byID[defaultID]
	if !ok {
		return nil, fmt.Errorf("%w: default %q", entity.ErrUnknownNetwork, defaultID)
	}
	r.active.Store(initial)

	r.logger.Info("Network registry initialized", "networks", len(r.ordered), "active", defaultID)
	return r, nil
}

// Active returns a snapshot of the active profile.
func (r *Registry) Active() entity.NetworkProfile {
	return *r.active.Load()
}

// Lookup returns the profile with the given id.
func (r *Registry) Lookup(id string) (entity.NetworkProfile, bool) {
	p, ok := r.byID[id]
	if !ok {
		return entity.NetworkProfile{}, false
	}
	return *p, true
}

// Switch makes id the active profile and returns the previous and new ones.
// An unknown id returns entity.ErrUnknownNetwork and leaves the active profile untouched.
func (r *Registry) Switch(id string) (entity.NetworkProfile, entity.NetworkProfile, error) {
	next, ok := r.byID[id]
	if !ok {
		r.logger.Warn("Rejected switch to unknown network", "network", id)
		return entity.NetworkProfile{}, entity.NetworkProfile{}, fmt.Errorf("%w: %q", entity.ErrUnknownNetwork, id)
	}
	prev := r.active.Swap(next)
	r.logger.Info("Active network switched", "from", prev.ID, "to", next.ID)
	return *prev, *next, nil
}

// List returns the display-safe view of every profile in configuration order.
func (r *Registry) List() []entity.NetworkSummary {
	out := make([]entity.NetworkSummary, 0, len(r.ordered))
	for _, p := range r.ordered {
		out = append(out, p.Summary())
	}
	return out
}
