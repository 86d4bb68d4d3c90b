package policystore

import (
	"encoding/json"
	"fmt"
	"treatment-site-service/internal/domain"
)

// Setting keys shared by every backend.
const (
	DurationsKey = "treatment_durations"
	PausedKey    = "paused_types"
)

func encodePolicy(p domain.Policy) (durations []byte, paused []byte, err error) {
	durations, err = json.Marshal(p.Durations)
	if err != nil {
		return nil, nil, fmt.Errorf("encode %s: %w", DurationsKey, err)
	}
	paused, err = json.Marshal(p.Paused)
	if err != nil {
		return nil, nil, fmt.Errorf("encode %s: %w", PausedKey, err)
	}
	return durations, paused, nil
}

// decodePolicy parses stored values; a nil value means the key is absent.
func decodePolicy(durations []byte, paused []byte) (domain.Policy, error) {
	p := domain.Policy{
		Durations: map[domain.SiteType]domain.Duration{},
		Paused:    map[domain.SiteType]bool{},
	}
	if durations != nil {
		if err := json.Unmarshal(durations, &p.Durations); err != nil {
			return domain.Policy{}, fmt.Errorf("decode %s: %w", DurationsKey, err)
		}
	}
	if paused != nil {
		if err := json.Unmarshal(paused, &p.Paused); err != nil {
			return domain.Policy{}, fmt.Errorf("decode %s: %w", PausedKey, err)
		}
	}
	return p, nil
}
