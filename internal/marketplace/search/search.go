// Package search holds the pure, synchronous filter evaluation over an
// already-fetched ad collection. No I/O, no mutation of inputs.
package search

import (
	"strconv"
	"strings"

	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
)

// SimilarLimit caps the "similar ads" strip on the detail page.
const SimilarLimit = 4

// Filter applies the active criteria predicates in sequence, composed as a
// logical AND. Input order is preserved; default criteria return the input
// unchanged. Year bounds that fail to parse are skipped, not rejected.
func Filter(ads []*domain.VehicleAd, c domain.SearchCriteria) []*domain.VehicleAd {
	results := make([]*domain.VehicleAd, len(ads))
	copy(results, ads)

	if c.Query != "" {
		q := strings.ToLower(c.Query)
		results = keep(results, func(ad *domain.VehicleAd) bool {
			return strings.Contains(strings.ToLower(ad.Title), q) ||
				strings.Contains(strings.ToLower(ad.Location), q)
		})
	}
	if c.Category != "" && c.Category != domain.CategoryAll {
		results = keep(results, func(ad *domain.VehicleAd) bool {
			return ad.Category == c.Category
		})
	}
	if from, err := strconv.Atoi(c.YearFrom); err == nil {
		results = keep(results, func(ad *domain.VehicleAd) bool {
			return ad.Year >= from
		})
	}
	if to, err := strconv.Atoi(c.YearTo); err == nil {
		results = keep(results, func(ad *domain.VehicleAd) bool {
			return ad.Year <= to
		})
	}
	return results
}

// Similar returns other ads sharing the focal ad's category or location,
// excluding the focal ad itself, truncated to SimilarLimit in collection
// order. No relevance ranking.
func Similar(focal *domain.VehicleAd, ads []*domain.VehicleAd) []*domain.VehicleAd {
	similar := make([]*domain.VehicleAd, 0, SimilarLimit)
	for _, ad := range ads {
		if ad.ID == focal.ID {
			continue
		}
		if ad.Category == focal.Category || ad.Location == focal.Location {
			similar = append(similar, ad)
			if len(similar) == SimilarLimit {
				break
			}
		}
	}
	return similar
}

func keep(ads []*domain.VehicleAd, pred func(*domain.VehicleAd) bool) []*domain.VehicleAd {
	out := ads[:0]
	for _, ad := range ads {
		if pred(ad) {
			out = append(out, ad)
		}
	}
	return out
}
