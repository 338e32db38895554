package port

import "chain_insight/internal/domain/entity"

// NetworkRegistry is the single piece of shared mutable state: which network is active.
type NetworkRegistry interface {
	// Active returns a snapshot of the active profile. Callers must read it once per request.
	Active() entity.NetworkProfile

	// Lookup returns a profile by id.
	Lookup(id string) (entity.NetworkProfile, bool)

	// Switch atomically replaces the active profile. Unknown ids fail with entity.ErrUnknownNetwork.
	Switch(id string) (prev entity.NetworkProfile, next entity.NetworkProfile, err error)

	// List returns the display-safe subset of every profile, in configuration order.
	List() []entity.NetworkSummary
}
