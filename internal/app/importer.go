package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"frontdesk_kiosk/internal/aamva"
	"frontdesk_kiosk/internal/domain"
)

// ImportService loads guest profiles captured outside the kiosk into the registry:
// raw license payloads saved by scanners, and JSON exports of other systems.
type ImportService struct {
	registry domain.GuestRegistry
	cache    domain.Cache
	now      func() time.Time
}

func NewImportService(r domain.GuestRegistry, cache domain.Cache) *ImportService {
	return &ImportService{registry: r, cache: cache, now: time.Now}
}

// ImportFile upserts every profile found in one file and returns how many were saved.
// Unusable records are logged as misses and skipped; registry failures are returned.
func (s *ImportService) ImportFile(ctx context.Context, name string, data []byte) (int, error) {
	today := s.now()

	var profiles []domain.GuestProfile
	if strings.EqualFold(filepath.Ext(name), ".json") {
		records, err := decodeRecords(data)
		if err != nil {
			s.logMiss(name, "json", err.Error())
			return 0, nil
		}
		for i, r := range records {
			p, ok := mapExportedProfile(r, today)
			if !ok {
				s.logMiss(name, "json", fmt.Sprintf("record %d has no id number", i))
				continue
			}
			profiles = append(profiles, p)
		}
	} else {
		raw := string(data)
		fields, err := aamva.Decode(raw)
		if err != nil {
			s.logMiss(name, "payload", err.Error())
			return 0, nil
		}
		p, ok := mapScannedProfile(fields, raw, today)
		if !ok {
			s.logMiss(name, "payload", "no id number")
			return 0, nil
		}
		profiles = append(profiles, p)
	}

	saved := 0
	for _, p := range profiles {
		if err := s.registry.Upsert(ctx, p); err != nil {
			// do not swallow this; a failing registry stops the import
			return saved, fmt.Errorf("upsert guest %s from %s: %w", p.GuestID, name, err)
		}
		// evict so the kiosk never serves the pre-import profile
		if s.cache != nil {
			_ = s.cache.Del(ctx, guestKey(p.IDType, p.IDNumber))
		}
		saved++
	}
	return saved, nil
}

// decodeRecords accepts a single JSON object or an array of objects.
func decodeRecords(data []byte) ([]map[string]any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}
	if data[0] == '[' {
		var out []map[string]any
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var one map[string]any
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, err
	}
	return []map[string]any{one}, nil
}

func (s *ImportService) logMiss(name, kind, reason string) {
	log.Warn().Str("file", name).Str("kind", kind).Str("reason", reason).Msg("import miss")
}
