package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"frontdesk_kiosk/internal/domain"
)

// ---- fakes ----

type fakeRegistry struct {
	mu      sync.Mutex
	byKey   map[string]domain.GuestProfile
	finds   int
	failAll error
}

func newFakeRegistry(ps ...domain.GuestProfile) *fakeRegistry {
	r := &fakeRegistry{byKey: map[string]domain.GuestProfile{}}
	for _, p := range ps {
		r.byKey[p.Key()] = p
	}
	return r
}

func (r *fakeRegistry) FindByIdentity(ctx context.Context, idType, idNumber string) (domain.GuestProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.failAll != nil {
		return domain.GuestProfile{}, r.failAll
	}
	p, ok := r.byKey[domain.IdentityKey(idType, idNumber)]
	if !ok {
		return domain.GuestProfile{}, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakeRegistry) Upsert(ctx context.Context, p domain.GuestProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return r.failAll
	}
	if cur, ok := r.byKey[p.Key()]; ok {
		p.GuestID, p.ActiveSince = cur.GuestID, cur.ActiveSince
	}
	r.byKey[p.Key()] = p
	return nil
}

func (r *fakeRegistry) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey), nil
}

// reloadFailRegistry accepts writes but fails every read.
type reloadFailRegistry struct{ *fakeRegistry }

func (r *reloadFailRegistry) FindByIdentity(ctx context.Context, idType, idNumber string) (domain.GuestProfile, error) {
	return domain.GuestProfile{}, errBoom
}

// fakeCache stores JSON like the redis adapter does, so cached values never alias.
type fakeCache struct {
	store   map[string][]byte
	getErr  error
	deleted []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.deleted = append(c.deleted, key)
	delete(c.store, key)
	return nil
}

var errBoom = errors.New("boom")
