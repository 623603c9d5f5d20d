// Package policy provides the default access-control and pause collaborator.
package policy

import (
	"context"
	"sync"

	"github.com/curvex-network/curvex-daemon/internal/core/ports"
)

type AccessPolicy struct {
	paused bool
	roles  map[string]map[ports.Role]struct{}
	lock   sync.RWMutex
}

// NewAccessPolicy returns an unpaused policy granting all roles to the given
// admin account.
func NewAccessPolicy(admin string) *AccessPolicy {
	p := &AccessPolicy{roles: map[string]map[ports.Role]struct{}{}}
	if admin != "" {
		p.Grant(admin, ports.RoleAdmin)
		p.Grant(admin, ports.RoleFeeManager)
	}
	return p
}

var _ ports.AccessPolicy = (*AccessPolicy)(nil)

// Grant gives the account the given role.
func (p *AccessPolicy) Grant(account string, role ports.Role) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if _, ok := p.roles[account]; !ok {
		p.roles[account] = map[ports.Role]struct{}{}
	}
	p.roles[account][role] = struct{}{}
}

// SetPaused flips the global pause switch.
func (p *AccessPolicy) SetPaused(paused bool) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.paused = paused
}

func (p *AccessPolicy) IsPaused(_ context.Context) bool {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.paused
}

func (p *AccessPolicy) HasRole(
	_ context.Context, account string, role ports.Role,
) bool {
	p.lock.RLock()
	defer p.lock.RUnlock()

	_, ok := p.roles[account][role]
	return ok
}
