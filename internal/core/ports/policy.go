package ports

import "context"

// Role enumerates the permissions consulted before privileged operations.
type Role int

const (
	// RoleAdmin can update the global and per-pair fee rates.
	RoleAdmin Role = iota
	// RoleFeeManager can withdraw accumulated fees.
	RoleFeeManager
)

// AccessPolicy is the access-control and pause collaborator consulted at the
// top of every mutating entry point.
type AccessPolicy interface {
	// IsPaused returns whether the engine is globally paused.
	IsPaused(ctx context.Context) bool
	// HasRole returns whether the account holds the given role.
	HasRole(ctx context.Context, account string, role Role) bool
}
