package storage

import (
	"time"
	"treatment-site-service/internal/domain"
)

// Wire form of a site, shared by the REST collaborator and seed files.
type siteRecord struct {
	ID            int64      `json:"id"`
	Type          string     `json:"type"`
	Lat           float64    `json:"lat"`
	Lng           float64    `json:"lng"`
	District      string     `json:"district"`
	Neighborhood  string     `json:"neighborhood"`
	Address       string     `json:"address"`
	Notes         string     `json:"notes"`
	SubType       string     `json:"sub_type"`
	Image         string     `json:"image"`
	LastTreatedAt *time.Time `json:"last_treated_at"`
	Treated       bool       `json:"treated"`
}

func (r siteRecord) toDomain() domain.Site {
	return domain.Site{
		ID:            r.ID,
		Type:          domain.SiteType(r.Type),
		Location:      domain.Coordinates{Lat: r.Lat, Lon: r.Lng},
		District:      r.District,
		Neighborhood:  r.Neighborhood,
		Address:       r.Address,
		Notes:         r.Notes,
		SubType:       r.SubType,
		Image:         r.Image,
		LastTreatedAt: r.LastTreatedAt,
		Treated:       r.Treated,
	}
}

type createRecord struct {
	Type         string  `json:"type"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	District     string  `json:"district,omitempty"`
	Neighborhood string  `json:"neighborhood,omitempty"`
	Address      string  `json:"address,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	SubType      string  `json:"sub_type,omitempty"`
	Image        string  `json:"image,omitempty"`
}

func newCreateRecord(n domain.NewSite) createRecord {
	return createRecord{
		Type:         string(n.Type),
		Lat:          n.Location.Lat,
		Lng:          n.Location.Lon,
		District:     n.District,
		Neighborhood: n.Neighborhood,
		Address:      n.Address,
		Notes:        n.Notes,
		SubType:      n.SubType,
		Image:        n.Image,
	}
}

// Partial update; only set fields are sent.
type patchRecord struct {
	Type          *string    `json:"type,omitempty"`
	Lat           *float64   `json:"lat,omitempty"`
	Lng           *float64   `json:"lng,omitempty"`
	District      *string    `json:"district,omitempty"`
	Neighborhood  *string    `json:"neighborhood,omitempty"`
	Address       *string    `json:"address,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	SubType       *string    `json:"sub_type,omitempty"`
	Image         *string    `json:"image,omitempty"`
	LastTreatedAt *time.Time `json:"last_treated_at,omitempty"`
	Treated       *bool      `json:"treated,omitempty"`
}

func newPatchRecord(p domain.SitePatch) patchRecord {
	var typ *string
	if p.Type != nil {
		t := string(*p.Type)
		typ = &t
	}
	return patchRecord{
		Type:          typ,
		Lat:           p.Lat,
		Lng:           p.Lon,
		District:      p.District,
		Neighborhood:  p.Neighborhood,
		Address:       p.Address,
		Notes:         p.Notes,
		SubType:       p.SubType,
		Image:         p.Image,
		LastTreatedAt: p.LastTreatedAt,
		Treated:       p.Treated,
	}
}
