package store

import (
	"context"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
)

// DefaultRadiusKm is used by Near when no positive radius is given.
const DefaultRadiusKm = 5.0

// Nearby is a record found by a proximity query.
type Nearby[T any] struct {
	Record     T       `json:"record"`
	DistanceKm float64 `json:"distance_km"`
}

// Near returns the records located within radiusKm (great-circle distance)
// of center, closest first. Records without a location are skipped.
func (s *Store[T]) Near(ctx context.Context, center orb.Point, radiusKm float64, opts ListOptions) ([]Nearby[T], error) {
	if s.schema.Location == nil {
		return nil, apperrors.Validation("%s records have no location", s.schema.Table)
	}
	if !validPoint(center) {
		return nil, apperrors.Validation("invalid center coordinate (lat %f, lng %f)", center.Lat(), center.Lon())
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	radiusM := radiusKm * 1000

	recs, err := s.GetAll(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Грубый фильтр по bounding box; у антимеридиана он ненадежен
	bound := geo.NewBoundAroundPoint(center, radiusM)
	useBound := bound.Min.Lon() >= -180 && bound.Max.Lon() <= 180

	var out []Nearby[T]
	for _, rec := range recs {
		p, ok := s.schema.Location(rec)
		if !ok {
			continue
		}
		if useBound && !bound.Contains(p) {
			continue
		}
		if d := geo.DistanceHaversine(center, p); d <= radiusM {
			out = append(out, Nearby[T]{Record: rec, DistanceKm: d / 1000})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}

func validPoint(p orb.Point) bool {
	return p.Lat() >= -90 && p.Lat() <= 90 && p.Lon() >= -180 && p.Lon() <= 180
}
