package domain

import "fmt"

// Protection period after a treatment. Each part is a non-negative count.
type Duration struct {
	Days    int `json:"days" yaml:"days" validate:"gte=0"`
	Hours   int `json:"hours" yaml:"hours" validate:"gte=0"`
	Minutes int `json:"minutes" yaml:"minutes" validate:"gte=0"`
}

func Days(n int) Duration { return Duration{Days: n} }

func (d Duration) Seconds() int64 {
	return int64(d.Days)*86400 + int64(d.Hours)*3600 + int64(d.Minutes)*60
}

func (d Duration) Validate() error {
	return validateStruct(d)
}

// FallbackDuration applies to a type that has no entry in the policy.
var FallbackDuration = Days(15)

// Per-type treatment durations and type-wide pause flags.
// A Policy is a value: mutate a Clone, never a shared instance.
type Policy struct {
	Durations map[SiteType]Duration
	Paused    map[SiteType]bool
}

func (p Policy) DurationFor(t SiteType) Duration {
	if d, ok := p.Durations[t]; ok {
		return d
	}
	return FallbackDuration
}

func (p Policy) IsPaused(t SiteType) bool { return p.Paused[t] }

func (p Policy) Clone() Policy {
	out := Policy{
		Durations: make(map[SiteType]Duration, len(p.Durations)),
		Paused:    make(map[SiteType]bool, len(p.Paused)),
	}
	for k, v := range p.Durations {
		out.Durations[k] = v
	}
	for k, v := range p.Paused {
		out.Paused[k] = v
	}
	return out
}

// Merge returns a copy of p with every entry of over applied on top.
func (p Policy) Merge(over Policy) Policy {
	out := p.Clone()
	for k, v := range over.Durations {
		out.Durations[k] = v
	}
	for k, v := range over.Paused {
		out.Paused[k] = v
	}
	return out
}

func (p Policy) Validate() error {
	for t, d := range p.Durations {
		if !t.Valid() {
			return Invalid("unknown site type %q", t)
		}
		if err := d.Validate(); err != nil {
			return fmt.Errorf("duration for %q: %w", t, err)
		}
	}
	for t := range p.Paused {
		if !t.Valid() {
			return Invalid("unknown site type %q", t)
		}
	}
	return nil
}
