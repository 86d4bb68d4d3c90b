package domain

import (
	"errors"
	"testing"
)

func TestDurationSeconds(t *testing.T) {
	d := Duration{Days: 1, Hours: 2, Minutes: 3}
	if got := d.Seconds(); got != 93780 {
		t.Fatalf("seconds = %d, want 93780", got)
	}
	if got := (Duration{}).Seconds(); got != 0 {
		t.Fatalf("zero duration seconds = %d, want 0", got)
	}
}

func TestPolicyDurationFallback(t *testing.T) {
	p := Policy{Durations: map[SiteType]Duration{SiteTypeSewerInlet: Days(10)}}

	if got := p.DurationFor(SiteTypeSewerInlet); got != Days(10) {
		t.Fatalf("sewer duration = %+v, want 10 days", got)
	}
	if got := p.DurationFor(SiteTypeWasteContainer); got != FallbackDuration {
		t.Fatalf("missing type duration = %+v, want fallback", got)
	}
}

func TestPolicyCloneIsIndependent(t *testing.T) {
	p := DefaultCatalog().DefaultPolicy()
	c := p.Clone()
	c.Durations[SiteTypeFlyBreeding] = Days(1)
	c.Paused[SiteTypeFlyBreeding] = true

	if p.DurationFor(SiteTypeFlyBreeding) != Days(15) {
		t.Fatalf("clone mutation leaked into original durations")
	}
	if p.IsPaused(SiteTypeFlyBreeding) {
		t.Fatalf("clone mutation leaked into original pause flags")
	}
}

func TestPolicyValidate(t *testing.T) {
	neg := Policy{Durations: map[SiteType]Duration{SiteTypeFlyBreeding: {Days: -1}}}
	if err := neg.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative duration: expected validation error, got %v", err)
	}

	unknown := Policy{Paused: map[SiteType]bool{"beehive": true}}
	if err := unknown.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown type: expected validation error, got %v", err)
	}

	if err := DefaultCatalog().DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy: unexpected error: %v", err)
	}
}

func TestCatalogDefaults(t *testing.T) {
	c := DefaultCatalog()
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[SiteType]int{
		SiteTypeMosquitoBreeding: 15,
		SiteTypeFlyBreeding:      15,
		SiteTypeWasteContainer:   20,
		SiteTypeSewerInlet:       10,
	}
	p := c.DefaultPolicy()
	for typ, days := range want {
		if got := p.DurationFor(typ); got != Days(days) {
			t.Errorf("%s duration = %+v, want %d days", typ, got, days)
		}
	}

	e, ok := c.Lookup(SiteTypeFlyBreeding)
	if !ok || len(e.SubTypes) != 3 {
		t.Fatalf("fly-breeding sub types = %v, want 3", e.SubTypes)
	}

	dup := Catalog{Entries: []CatalogEntry{{Type: SiteTypeSewerInlet}, {Type: SiteTypeSewerInlet}}}
	if err := dup.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("duplicate entry: expected validation error, got %v", err)
	}
}
