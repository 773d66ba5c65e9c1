package store

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/validation"
)

// Schema describes how a table is indexed, located and aggregated.
type Schema[T models.Record] struct {
	// Indexes extract secondary index values. Empty values are not indexed.
	Indexes map[string]func(T) string
	// Location returns the record coordinate, false if it has none.
	Location func(T) (orb.Point, bool)
	// Categories are the fields counted by Stats.
	Categories map[string]func(T) string
	// Amount is summed by Stats over active records when set.
	Amount func(T) decimal.Decimal
	// Check runs cross-field rules after struct tag validation.
	Check func(T) error
	Table string
}

// IndexNames returns the declared index names, sorted.
func (s Schema[T]) IndexNames() []string {
	names := make([]string, 0, len(s.Indexes))
	for name := range s.Indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s Schema[T]) indexValues(rec T) map[string]string {
	if len(s.Indexes) == 0 {
		return nil
	}
	values := make(map[string]string, len(s.Indexes))
	for name, extract := range s.Indexes {
		if v := extract(rec); v != "" {
			values[name] = v
		}
	}
	return values
}

func (s Schema[T]) validate(rec T) error {
	if err := validation.Struct(rec); err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, err, "invalid "+s.Table+" record")
	}
	if s.Check != nil {
		if err := s.Check(rec); err != nil {
			return apperrors.Wrap(apperrors.CodeValidation, err, "invalid "+s.Table+" record")
		}
	}
	return nil
}

// AddressSchema indexes addresses by administrative area.
func AddressSchema() Schema[*models.Address] {
	return Schema[*models.Address]{
		Table: models.TableAddresses,
		Indexes: map[string]func(*models.Address) string{
			"department": func(a *models.Address) string { return a.Department },
			"commune":    func(a *models.Address) string { return a.Commune },
			"ward":       func(a *models.Address) string { return a.Ward },
			"district":   func(a *models.Address) string { return a.District },
		},
		Location: func(a *models.Address) (orb.Point, bool) {
			if a.Location == nil {
				return orb.Point{}, false
			}
			return a.Location.Point(), true
		},
		Categories: map[string]func(*models.Address) string{
			"department": func(a *models.Address) string { return a.Department },
			"commune":    func(a *models.Address) string { return a.Commune },
		},
	}
}

// OrderSchema indexes orders by workflow state, customer and address.
func OrderSchema() Schema[*models.Order] {
	return Schema[*models.Order]{
		Table: models.TableOrders,
		Indexes: map[string]func(*models.Order) string{
			"status":       func(o *models.Order) string { return string(o.Status) },
			"type":         func(o *models.Order) string { return string(o.Type) },
			"client_phone": func(o *models.Order) string { return o.Client.Phone },
			"address_id": func(o *models.Order) string {
				if o.Delivery == nil {
					return ""
				}
				return o.Delivery.AddressID
			},
		},
		Categories: map[string]func(*models.Order) string{
			"status":         func(o *models.Order) string { return string(o.Status) },
			"type":           func(o *models.Order) string { return string(o.Type) },
			"payment_status": func(o *models.Order) string { return string(o.Payment.Status) },
		},
		Amount: func(o *models.Order) decimal.Decimal { return o.Total() },
		Check:  func(o *models.Order) error { return o.Check() },
	}
}
