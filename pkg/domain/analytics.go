package domain

import (
	"encoding/json"
	"fmt"
)

// AnalyticsPoint is one time bucket of engagement values, keyed by platform.
type AnalyticsPoint struct {
	Name   string
	Values map[Platform]float64
}

// AnalyticsSeries is an ordered sequence of buckets.
type AnalyticsSeries []AnalyticsPoint

// UnmarshalJSON decodes rows shaped like {"name": "Mon", "Meta": 4000, "TikTok": 2400}.
// Non-numeric extra fields are ignored.
func (p *AnalyticsPoint) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("analytics point: %w", err)
	}
	point := AnalyticsPoint{Values: make(map[Platform]float64, len(raw))}
	for k, v := range raw {
		if k == "name" {
			if err := json.Unmarshal(v, &point.Name); err != nil {
				return fmt.Errorf("analytics point name: %w", err)
			}
			continue
		}
		var n float64
		if err := json.Unmarshal(v, &n); err != nil {
			continue
		}
		point.Values[Platform(k)] = n
	}
	*p = point
	return nil
}

// MarshalJSON encodes the point in the same flat shape it is decoded from.
func (p AnalyticsPoint) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Values)+1)
	out["name"] = p.Name
	for k, v := range p.Values {
		out[string(k)] = v
	}
	return json.Marshal(out)
}

// Max returns the largest value in the series, or 0 when empty.
func (s AnalyticsSeries) Max() float64 {
	var m float64
	for _, p := range s {
		for _, v := range p.Values {
			if v > m {
				m = v
			}
		}
	}
	return m
}
