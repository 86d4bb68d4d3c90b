package services

import (
	"fmt"
	"strconv"
	"treatment-site-service/internal/domain"
)

// Exact-match site filter. Empty fields match everything; set fields are
// combined with AND.
type SiteFilter struct {
	Type         domain.SiteType `json:"type,omitempty"`
	District     string          `json:"district,omitempty"`
	SubType      string          `json:"sub_type,omitempty"`
	Neighborhood string          `json:"neighborhood,omitempty"`
}

func (f SiteFilter) Matches(s domain.Site) bool {
	if f.Type != "" && s.Type != f.Type {
		return false
	}
	if f.District != "" && s.District != f.District {
		return false
	}
	if f.SubType != "" && s.SubType != f.SubType {
		return false
	}
	if f.Neighborhood != "" && s.Neighborhood != f.Neighborhood {
		return false
	}
	return true
}

const maxWindowDays = 7

// Filter on remaining time. The zero value matches every site.
type WindowFilter struct {
	expired bool
	days    int
}

// ParseWindowFilter accepts "", "expired" or a day count from 1 to 7.
func ParseWindowFilter(raw string) (WindowFilter, error) {
	switch raw {
	case "":
		return WindowFilter{}, nil
	case "expired":
		return WindowFilter{expired: true}, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxWindowDays {
		return WindowFilter{}, domain.Invalid("window filter must be \"expired\" or 1-%d, got %q", maxWindowDays, raw)
	}
	return WindowFilter{days: n}, nil
}

// Matches reports whether rem passes the filter. A site that was never
// treated never passes a non-empty filter. Day filters compare whole days
// left, floored, so sites already expired pass as well.
func (w WindowFilter) Matches(rem Remaining) bool {
	if w.IsZero() {
		return true
	}
	if !rem.Set {
		return false
	}
	if w.expired {
		return rem.Seconds < 0
	}
	return floorDiv(rem.Seconds, 86400) <= int64(w.days)
}

func (w WindowFilter) IsZero() bool { return !w.expired && w.days == 0 }

func (w WindowFilter) String() string {
	switch {
	case w.expired:
		return "expired"
	case w.days > 0:
		return fmt.Sprintf("%d", w.days)
	default:
		return ""
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
