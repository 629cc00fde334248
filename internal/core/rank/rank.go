// Package rank orders, paginates and aggregates hits
package rank

import (
	"fmt"
	"sort"
	"strings"

	"aspectscan/internal/core/hit"
)

// Order selects the sort key
type Order uint8

// Orders
const (
	ByTime Order = iota
	BySeverity
	ByOrb
)

var orderNames = [...]string{"time", "severity", "orb"}

// Orders lists every supported order
func Orders() []Order { return []Order{ByTime, BySeverity, ByOrb} }

// String returns the wire name
func (o Order) String() string {
	if int(o) >= len(orderNames) {
		return fmt.Sprintf("order(%d)", uint8(o))
	}
	return orderNames[o]
}

// ParseOrder resolves a wire name; empty means ByTime
func ParseOrder(s string) (Order, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return ByTime, nil
	}
	for i, n := range orderNames {
		if n == key {
			return Order(i), nil
		}
	}
	return ByTime, fmt.Errorf("unknown order %q (want time, severity or orb)", s)
}

// MarshalText implements encoding.TextMarshaler
func (o Order) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Order) UnmarshalText(p []byte) error {
	v, err := ParseOrder(string(p))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Sort orders hits in place. Severity sorts descending, orb ascending, both
// tied by exact time; remaining ties fall through to pair, angle, branch,
// severity and orb so the order does not depend on input order.
func Sort(hits []hit.Hit, o Order) {
	sort.SliceStable(hits, func(i, j int) bool { return less(&hits[i], &hits[j], o) })
}

func less(a, b *hit.Hit, o Order) bool {
	switch o {
	case BySeverity:
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
	case ByOrb:
		if a.Orb != b.Orb {
			return a.Orb < b.Orb
		}
	}
	if !a.Exact.Equal(b.Exact) {
		return a.Exact.Before(b.Exact)
	}
	if a.A != b.A {
		return a.A.Less(b.A)
	}
	if a.B != b.B {
		return a.B.Less(b.B)
	}
	if a.Aspect.Degrees != b.Aspect.Degrees {
		return a.Aspect.Degrees < b.Aspect.Degrees
	}
	if a.Target != b.Target {
		return a.Target < b.Target
	}
	if a.Severity != b.Severity {
		return a.Severity > b.Severity
	}
	if a.Orb != b.Orb {
		return a.Orb < b.Orb
	}
	return a.OrbLimit < b.OrbLimit
}

// Page slices an already sorted list. limit 0 means no limit.
func Page(hits []hit.Hit, limit, offset int) []hit.Hit {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(hits) {
		return []hit.Hit{}
	}
	end := len(hits)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return hits[offset:end]
}
