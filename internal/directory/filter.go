// Package directory holds the pure filter and rank rules for the public
// provider listing. Nothing here performs I/O and no input slice is mutated.
package directory

import (
	"sort"
	"strconv"
	"strings"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
)

// AllCategories matches every provider category.
const AllCategories = "All"

// Filter is the public search input.
type Filter struct {
	Query     string
	Category  string
	MinRating float64
	// OpenNow is accepted but not evaluated: there is no schedule data.
	OpenNow bool
}

// Match reports whether p satisfies all three predicates of f.
func (f Filter) Match(p domain.Provider) bool {
	if q := strings.ToLower(f.Query); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Location), q) {
			return false
		}
	}
	if f.Category != "" && f.Category != AllCategories && f.Category != p.Category {
		return false
	}
	return p.Rating >= f.MinRating
}

// FilterProviders keeps the providers matching f, in catalog order.
func FilterProviders(providers []domain.Provider, f Filter) []domain.Provider {
	out := make([]domain.Provider, 0, len(providers))
	for _, p := range providers {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Featured returns the featured providers in catalog order.
func Featured(providers []domain.Provider) []domain.Provider {
	out := make([]domain.Provider, 0, len(providers))
	for _, p := range providers {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// TopRated returns the non-featured providers sorted by rating, highest first.
// Equal ratings keep catalog order.
func TopRated(providers []domain.Provider) []domain.Provider {
	out := make([]domain.Provider, 0, len(providers))
	for _, p := range providers {
		if !p.Featured {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	return out
}

// LookupResult distinguishes the outcomes of Lookup.
type LookupResult int

const (
	// NoIDRequested means the caller passed an empty id.
	NoIDRequested LookupResult = iota
	NotFound
	Found
)

// Lookup scans for the provider whose id, rendered as a string, equals id.
func Lookup(providers []domain.Provider, id string) (domain.Provider, LookupResult) {
	if id == "" {
		return domain.Provider{}, NoIDRequested
	}
	for _, p := range providers {
		if strconv.FormatInt(p.ID, 10) == id {
			return p, Found
		}
	}
	return domain.Provider{}, NotFound
}

// EnabledCategories drops disabled categories, keeping display order.
func EnabledCategories(categories []domain.ServiceCategory) []domain.ServiceCategory {
	out := make([]domain.ServiceCategory, 0, len(categories))
	for _, c := range categories {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out
}
