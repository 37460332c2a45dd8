package weather

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OffsetKind tags the active variant of a DateOffset.
type OffsetKind int

const (
	OffsetNow OffsetKind = iota
	OffsetHours
	OffsetDays
)

func (k OffsetKind) String() string {
	switch k {
	case OffsetNow:
		return "now"
	case OffsetHours:
		return "hours"
	case OffsetDays:
		return "days"
	default:
		return fmt.Sprintf("OffsetKind(%d)", int(k))
	}
}

// DateOffset is a provider-agnostic relative time: now, +/-N hours or +/-N days.
// Positive amounts point to the future, negative ones to the past.
// The zero value is Now.
type DateOffset struct {
	kind   OffsetKind
	amount int
}

// Now returns the offset for the present moment.
func Now() DateOffset { return DateOffset{} }

// Hours returns an offset of h hours from the origin.
func Hours(h int) DateOffset { return DateOffset{kind: OffsetHours, amount: h} }

// Days returns an offset of d days from the origin.
func Days(d int) DateOffset { return DateOffset{kind: OffsetDays, amount: d} }

// Kind reports which variant is active.
func (o DateOffset) Kind() OffsetKind { return o.kind }

// Amount is the signed number of hours or days; always 0 for Now.
func (o DateOffset) Amount() int { return o.amount }

// IsNow reports whether the offset points to the present, zero amounts included.
func (o DateOffset) IsNow() bool { return o.kind == OffsetNow || o.amount == 0 }

// Resolve converts the offset into an absolute time relative to origin.
// Days are exact 24 hour periods so resolving is reversible.
func (o DateOffset) Resolve(origin time.Time) time.Time {
	switch o.kind {
	case OffsetHours:
		return origin.Add(time.Duration(o.amount) * time.Hour)
	case OffsetDays:
		return origin.Add(time.Duration(o.amount) * 24 * time.Hour)
	default:
		return origin
	}
}

func (o DateOffset) String() string {
	switch o.kind {
	case OffsetHours:
		return fmt.Sprintf("HourOffset(%d)", o.amount)
	case OffsetDays:
		return fmt.Sprintf("DayOffset(%d)", o.amount)
	default:
		return "Now"
	}
}

// ParseDateOffset reads a date token such as "h5d" (5 days ago) or "h8h" (8 hours ago).
//
// The leading character is the direction marker and the trailing one the unit; only
// 'h' (history) is recognised as a direction. Anything malformed yields Now, the token
// never fails a lookup.
func ParseDateOffset(token string) DateOffset {
	t := strings.ToLower(token)
	if len(t) <= 2 {
		return Now()
	}
	if t[0] != 'h' {
		return Now()
	}

	amount, err := strconv.Atoi(t[1 : len(t)-1])
	if err != nil {
		return Now()
	}
	amount = -amount
	if amount == 0 {
		return Now()
	}

	switch t[len(t)-1] {
	case 'h':
		return Hours(amount)
	case 'd':
		return Days(amount)
	default:
		return Now()
	}
}
