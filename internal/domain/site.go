package domain

import "time"

type SiteType string

const (
	SiteTypeMosquitoBreeding SiteType = "mosquito-breeding"
	SiteTypeFlyBreeding      SiteType = "fly-breeding"
	SiteTypeWasteContainer   SiteType = "waste-container"
	SiteTypeSewerInlet       SiteType = "sewer-inlet"
)

// SiteTypes lists every known site type in display order.
var SiteTypes = []SiteType{
	SiteTypeMosquitoBreeding,
	SiteTypeFlyBreeding,
	SiteTypeWasteContainer,
	SiteTypeSewerInlet,
}

func (t SiteType) Valid() bool {
	for _, known := range SiteTypes {
		if t == known {
			return true
		}
	}
	return false
}

// A location tracked for pest and vector treatment.
// Storage is the system of record; Site values held by the service are
// snapshot copies.
type Site struct {
	ID            int64
	Type          SiteType
	Location      Coordinates
	District      string
	Neighborhood  string
	Address       string
	Notes         string
	SubType       string
	Image         string
	LastTreatedAt *time.Time
	Treated       bool
}

// TreatedAt returns the last treatment instant when the site counts as treated.
func (s Site) TreatedAt() (time.Time, bool) {
	if !s.Treated || s.LastTreatedAt == nil {
		return time.Time{}, false
	}
	return *s.LastTreatedAt, true
}

// Apply returns a copy of s with every non-nil patch field set.
func (s Site) Apply(p SitePatch) Site {
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.Lat != nil {
		s.Location.Lat = *p.Lat
	}
	if p.Lon != nil {
		s.Location.Lon = *p.Lon
	}
	if p.District != nil {
		s.District = *p.District
	}
	if p.Neighborhood != nil {
		s.Neighborhood = *p.Neighborhood
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	if p.SubType != nil {
		s.SubType = *p.SubType
	}
	if p.Image != nil {
		s.Image = *p.Image
	}
	if p.LastTreatedAt != nil {
		at := *p.LastTreatedAt
		s.LastTreatedAt = &at
	}
	if p.Treated != nil {
		s.Treated = *p.Treated
	}
	return s
}

// Input for creating a site. Type and location are required.
type NewSite struct {
	Type         SiteType `validate:"required,sitetype"`
	Location     Coordinates
	District     string
	Neighborhood string
	Address      string
	Notes        string
	SubType      string
	Image        string
}

func (n NewSite) Validate() error {
	if err := validateStruct(n); err != nil {
		return err
	}
	return n.Location.Validate()
}

// Partial update of a site. Nil fields are left untouched.
type SitePatch struct {
	Type          *SiteType `validate:"omitempty,sitetype"`
	Lat           *float64
	Lon           *float64
	District      *string
	Neighborhood  *string
	Address       *string
	Notes         *string
	SubType       *string
	Image         *string
	LastTreatedAt *time.Time
	Treated       *bool
}

// TreatmentPatch marks a site as treated at the given instant.
func TreatmentPatch(at time.Time) SitePatch {
	treated := true
	at = at.UTC()
	return SitePatch{LastTreatedAt: &at, Treated: &treated}
}

func (p SitePatch) IsEmpty() bool {
	return p.Type == nil && p.Lat == nil && p.Lon == nil &&
		p.District == nil && p.Neighborhood == nil && p.Address == nil &&
		p.Notes == nil && p.SubType == nil && p.Image == nil &&
		p.LastTreatedAt == nil && p.Treated == nil
}

// TouchesTreatment reports whether the patch changes treatment state.
func (p SitePatch) TouchesTreatment() bool {
	return p.LastTreatedAt != nil || p.Treated != nil
}

func (p SitePatch) Validate() error {
	if p.IsEmpty() {
		return Invalid("patch has no fields")
	}
	if err := validateStruct(p); err != nil {
		return err
	}
	probe := Coordinates{}
	if p.Lat != nil {
		probe.Lat = *p.Lat
	}
	if p.Lon != nil {
		probe.Lon = *p.Lon
	}
	if err := probe.Validate(); err != nil {
		return err
	}
	if p.Treated != nil && *p.Treated && p.LastTreatedAt == nil {
		return Invalid("treated requires last_treated_at")
	}
	return nil
}
