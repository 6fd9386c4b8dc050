// Package validation holds the pure per-field checks applied to roadmap
// input before it reaches the state document.
package validation

import (
	"math"
	"net/url"
	"strings"

	"roadmapcore/pkg/domain"
)

// Allocation bounds in percent.
const (
	MinAllocation = 0
	MaxAllocation = 100
)

// ClampAllocation constrains value to [0,100]. NaN maps to 0.
func ClampAllocation(value float64) float64 {
	if math.IsNaN(value) {
		return MinAllocation
	}
	return math.Min(MaxAllocation, math.Max(MinAllocation, value))
}

// IsValidURL reports whether value is an absolute http or https URL.
func IsValidURL(value string) bool {
	u, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// InvalidLinks returns the indexes of links whose URL fails IsValidURL.
func InvalidLinks(links []domain.Link) []int {
	var bad []int
	for i, link := range links {
		if !IsValidURL(link.URL) {
			bad = append(bad, i)
		}
	}
	return bad
}
