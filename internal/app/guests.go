package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"frontdesk_kiosk/internal/domain"
)

const newGuestRating = "B"

// demoProfile is inserted into an empty registry so a scan of the sample
// license exercises the returning-guest branch.
var demoProfile = domain.GuestProfile{
	GuestID:        "G-10001",
	FullName:       "Jane Sample",
	IDType:         "DL",
	IDNumber:       "S1234567",
	Rating:         "A",
	ActiveSince:    "2022-04-18",
	LatestActivity: "2025-11-02",
}

type GuestService struct {
	registry domain.GuestRegistry
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewGuestService wires the registry with an optional read-through cache (c may be nil).
func NewGuestService(r domain.GuestRegistry, c domain.Cache, ttl time.Duration) *GuestService {
	return &GuestService{registry: r, cache: c, cacheTTL: ttl}
}

func guestKey(idType, idNumber string) string {
	return "guest:" + domain.IdentityKey(idType, idNumber)
}

// Lookup classifies the identity as a returning guest (Found) or a new one.
// Only hits are cached so a guest registered later is seen on the next scan.
func (s *GuestService) Lookup(ctx context.Context, idType, idNumber string) (domain.LookupResult, error) {
	idType = strings.ToUpper(strings.TrimSpace(idType))
	if idType == "" {
		idType = domain.DefaultIDType
	}
	idNumber = strings.TrimSpace(idNumber)
	if idNumber == "" {
		return domain.LookupResult{}, nil
	}

	key := guestKey(idType, idNumber)
	if s.cache != nil {
		var p domain.GuestProfile
		ok, err := s.cache.Get(ctx, key, &p)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("guest cache read failed")
		} else if ok {
			return domain.LookupResult{Found: true, Profile: p}, nil
		}
	}

	p, err := s.registry.FindByIdentity(ctx, idType, idNumber)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.LookupResult{}, nil
	}
	if err != nil {
		return domain.LookupResult{}, fmt.Errorf("lookup guest %s: %w", key, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("guest cache write failed")
		}
	}
	return domain.LookupResult{Found: true, Profile: p}, nil
}

// Register saves the form's identity as a new profile with a standard rating
// and returns the profile as stored.
func (s *GuestService) Register(ctx context.Context, form domain.GuestForm, today time.Time) (domain.GuestProfile, error) {
	idType := strings.ToUpper(strings.TrimSpace(form.IDType))
	if idType == "" {
		idType = domain.DefaultIDType
	}
	p := domain.GuestProfile{
		GuestID:        "G-" + strings.ToUpper(uuid.NewString()[:8]),
		FullName:       strings.TrimSpace(form.FullName),
		IDType:         idType,
		IDNumber:       strings.TrimSpace(form.IDNumber),
		Rating:         newGuestRating,
		ActiveSince:    today.Format(domain.DateLayout),
		LatestActivity: today.Format(domain.DateLayout),
	}
	if err := s.registry.Upsert(ctx, p); err != nil {
		return domain.GuestProfile{}, fmt.Errorf("register guest: %w", err)
	}
	// An existing identity keeps its stored guest id.
	stored, err := s.registry.FindByIdentity(ctx, p.IDType, p.IDNumber)
	if err != nil {
		return domain.GuestProfile{}, fmt.Errorf("reload registered guest: %w", err)
	}
	p = stored
	s.invalidate(ctx, p)

	log.Info().Str("guest_id", p.GuestID).Str("id_type", p.IDType).Msg("guest registered")
	return p, nil
}

// Seed inserts the demo profile when the registry is empty and reports whether it did.
func (s *GuestService) Seed(ctx context.Context) (bool, error) {
	n, err := s.registry.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count guests: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := s.registry.Upsert(ctx, demoProfile); err != nil {
		return false, fmt.Errorf("seed guests: %w", err)
	}
	return true, nil
}

func (s *GuestService) invalidate(ctx context.Context, p domain.GuestProfile) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, guestKey(p.IDType, p.IDNumber))
}
