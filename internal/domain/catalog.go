package domain

// Describes a site type: its display label, sub-types and the default
// treatment duration used until a policy is saved.
type CatalogEntry struct {
	Type            SiteType `yaml:"type" json:"type" validate:"required,sitetype"`
	Label           string   `yaml:"label" json:"label"`
	SubTypes        []string `yaml:"sub_types" json:"sub_types"`
	DefaultDuration Duration `yaml:"default_duration" json:"default_duration"`
}

type Catalog struct {
	Entries []CatalogEntry `yaml:"types" json:"types" validate:"dive"`
}

func DefaultCatalog() Catalog {
	return Catalog{Entries: []CatalogEntry{
		{
			Type:            SiteTypeMosquitoBreeding,
			Label:           "Mosquito breeding site",
			SubTypes:        []string{"Fountain", "Canal", "Stream", "Reed bed", "Marsh", "Standing water"},
			DefaultDuration: Days(15),
		},
		{
			Type:            SiteTypeFlyBreeding,
			Label:           "Fly breeding site",
			SubTypes:        []string{"Manure pile", "Manure channel", "Dump"},
			DefaultDuration: Days(15),
		},
		{
			Type:            SiteTypeWasteContainer,
			Label:           "Waste container",
			SubTypes:        []string{},
			DefaultDuration: Days(20),
		},
		{
			Type:            SiteTypeSewerInlet,
			Label:           "Sewer inlet",
			SubTypes:        []string{},
			DefaultDuration: Days(10),
		},
	}}
}

func (c Catalog) Lookup(t SiteType) (CatalogEntry, bool) {
	for _, e := range c.Entries {
		if e.Type == t {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// DefaultPolicy builds the unpaused policy from the catalog defaults.
func (c Catalog) DefaultPolicy() Policy {
	p := Policy{
		Durations: make(map[SiteType]Duration, len(c.Entries)),
		Paused:    make(map[SiteType]bool, len(c.Entries)),
	}
	for _, e := range c.Entries {
		p.Durations[e.Type] = e.DefaultDuration
	}
	return p
}

func (c Catalog) Validate() error {
	if len(c.Entries) == 0 {
		return Invalid("catalog has no site types")
	}
	seen := make(map[SiteType]struct{}, len(c.Entries))
	for i, e := range c.Entries {
		if _, dup := seen[e.Type]; dup {
			return Invalid("catalog entry %d: duplicate type %q", i+1, e.Type)
		}
		seen[e.Type] = struct{}{}
	}
	return validateStruct(c)
}
