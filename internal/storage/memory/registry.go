// Package memory is the in-process guest registry used when no database is configured.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/samber/lo"

	"frontdesk_kiosk/internal/domain"
)

type Registry struct {
	mu     sync.RWMutex
	guests []domain.GuestProfile
}

func New() *Registry { return &Registry{} }

// FindByIdentity returns the first profile registered under the identity.
func (r *Registry) FindByIdentity(_ context.Context, idType, idNumber string) (domain.GuestProfile, error) {
	key := domain.IdentityKey(idType, idNumber)
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := lo.Find(r.guests, func(g domain.GuestProfile) bool { return g.Key() == key })
	if !ok {
		return domain.GuestProfile{}, domain.ErrNotFound
	}
	return p, nil
}

// Upsert replaces the profile with the same identity in place, keeping its
// guest id and active-since date, or appends a new one.
func (r *Registry) Upsert(_ context.Context, p domain.GuestProfile) error {
	p.IDType = strings.ToUpper(strings.TrimSpace(p.IDType))
	p.IDNumber = strings.TrimSpace(p.IDNumber)

	r.mu.Lock()
	defer r.mu.Unlock()
	_, i, ok := lo.FindIndexOf(r.guests, func(g domain.GuestProfile) bool { return g.Key() == p.Key() })
	if !ok {
		r.guests = append(r.guests, p)
		return nil
	}
	cur := r.guests[i]
	p.GuestID = cur.GuestID
	if cur.ActiveSince != "" {
		p.ActiveSince = cur.ActiveSince
	}
	if strings.TrimSpace(p.FullName) == "" {
		p.FullName = cur.FullName
	}
	if p.LatestActivity == "" {
		p.LatestActivity = cur.LatestActivity
	}
	r.guests[i] = p
	return nil
}

func (r *Registry) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.guests), nil
}
