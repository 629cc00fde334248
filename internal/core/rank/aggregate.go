package rank

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"aspectscan/internal/core/hit"
)

// Period is the bin width
type Period uint8

// Periods
const (
	Daily Period = iota
	Monthly
)

// Agg rolls constituent severities into a bin score
type Agg uint8

// Aggregations
const (
	// Sum adds severities
	Sum Agg = iota
	// WeightedMean averages severities weighted by each hit's base weight
	WeightedMean
)

// ParsePeriod accepts "day"/"daily" and "month"/"monthly"
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day", "daily":
		return Daily, nil
	case "month", "monthly":
		return Monthly, nil
	}
	return Daily, fmt.Errorf("unknown period %q (want day or month)", s)
}

// String returns the wire name
func (p Period) String() string {
	if p == Monthly {
		return "month"
	}
	return "day"
}

// ParseAgg accepts "sum" and "mean"/"weighted_mean"
func ParseAgg(s string) (Agg, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sum":
		return Sum, nil
	case "mean", "weighted_mean":
		return WeightedMean, nil
	}
	return Sum, fmt.Errorf("unknown aggregation %q (want sum or weighted_mean)", s)
}

// String returns the wire name
func (a Agg) String() string {
	if a == WeightedMean {
		return "weighted_mean"
	}
	return "sum"
}

// Bin is one UTC day or month
type Bin struct {
	Start time.Time `json:"start"`
	Count int       `json:"count"`
	Score float64   `json:"score"`
}

// Aggregate bins hits by UTC calendar period. It sees only the hits it is
// given: callers that filtered first get bins over the filtered set.
func Aggregate(hits []hit.Hit, p Period, a Agg) []Bin {
	type acc struct {
		count     int
		sum, wsum float64
		weightSum float64
	}
	bins := make(map[time.Time]*acc)
	for i := range hits {
		h := &hits[i]
		k := floor(h.Exact, p)
		b := bins[k]
		if b == nil {
			b = &acc{}
			bins[k] = b
		}
		b.count++
		b.sum += h.Severity
		b.wsum += h.Severity * h.Weight
		b.weightSum += h.Weight
	}

	out := make([]Bin, 0, len(bins))
	for k, b := range bins {
		score := b.sum
		if a == WeightedMean {
			if b.weightSum > 0 {
				score = b.wsum / b.weightSum
			} else {
				score = b.sum / float64(b.count)
			}
		}
		out = append(out, Bin{Start: k, Count: b.count, Score: score})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// DailyBins is Aggregate by UTC day
func DailyBins(hits []hit.Hit, a Agg) []Bin { return Aggregate(hits, Daily, a) }

// MonthlyBins is Aggregate by UTC month
func MonthlyBins(hits []hit.Hit, a Agg) []Bin { return Aggregate(hits, Monthly, a) }

func floor(t time.Time, p Period) time.Time {
	u := t.UTC()
	if p == Monthly {
		return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
