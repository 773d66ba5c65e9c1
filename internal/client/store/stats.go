package store

import (
	"context"

	"github.com/shopspring/decimal"
)

// Stats is derived from the stored records on every call.
type Stats struct {
	ByCategory map[string]map[string]int `json:"by_category"`
	Amount     *decimal.Decimal          `json:"amount,omitempty"`
	Total      int                       `json:"total"`
	Active     int                       `json:"active"`
	Inactive   int                       `json:"inactive"`
}

// Stats counts records, active/inactive, and active records per category.
func (s *Store[T]) Stats(ctx context.Context) (Stats, error) {
	recs, err := s.GetAll(ctx, ListOptions{IncludeInactive: true})
	if err != nil {
		return Stats{}, err
	}

	st := Stats{ByCategory: make(map[string]map[string]int, len(s.schema.Categories))}
	for name := range s.schema.Categories {
		st.ByCategory[name] = map[string]int{}
	}

	amount := decimal.Zero
	for _, rec := range recs {
		st.Total++
		if !rec.Active() {
			st.Inactive++
			continue
		}
		st.Active++

		for name, extract := range s.schema.Categories {
			key := extract(rec)
			if key == "" {
				key = "unknown"
			}
			st.ByCategory[name][key]++
		}
		if s.schema.Amount != nil {
			amount = amount.Add(s.schema.Amount(rec))
		}
	}

	if s.schema.Amount != nil {
		st.Amount = &amount
	}
	return st, nil
}
