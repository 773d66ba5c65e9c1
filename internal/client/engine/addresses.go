package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/store"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
)

// CreateAddress stores a new address locally and queues it for the backend.
func (e *Engine) CreateAddress(ctx context.Context, in models.AddressInput) Result[*models.Address] {
	return run(e, "create address", func() (*models.Address, error) {
		return e.addresses.create(ctx, models.NewAddress(uuid.NewString(), in))
	})
}

// UpdateAddress merges patch into the address.
func (e *Engine) UpdateAddress(ctx context.Context, id string, patch models.AddressPatch) Result[*models.Address] {
	return run(e, "update address", func() (*models.Address, error) {
		if patch.IsEmpty() {
			return nil, apperrors.Validation("address update changes nothing")
		}
		return e.addresses.update(ctx, id, patch, patch.Apply)
	})
}

func (e *Engine) DeactivateAddress(ctx context.Context, id string) Result[*models.Address] {
	return run(e, "deactivate address", func() (*models.Address, error) {
		return e.addresses.setActive(ctx, id, false)
	})
}

func (e *Engine) ActivateAddress(ctx context.Context, id string) Result[*models.Address] {
	return run(e, "activate address", func() (*models.Address, error) {
		return e.addresses.setActive(ctx, id, true)
	})
}

// DeleteAddress removes the address permanently. Data is the deleted id.
func (e *Engine) DeleteAddress(ctx context.Context, id string) Result[string] {
	return run(e, "delete address", func() (string, error) {
		return e.addresses.remove(ctx, id)
	})
}

func (e *Engine) GetAllAddresses(ctx context.Context, includeInactive bool) Result[[]*models.Address] {
	return run(e, "list addresses", func() ([]*models.Address, error) {
		return e.addresses.store.GetAll(ctx, store.ListOptions{IncludeInactive: includeInactive})
	})
}

func (e *Engine) GetAddress(ctx context.Context, id string) Result[*models.Address] {
	return run(e, "get address", func() (*models.Address, error) {
		return e.addresses.store.GetByID(ctx, id)
	})
}

// SearchAddressesByField looks addresses up by department, commune or
// district.
func (e *Engine) SearchAddressesByField(ctx context.Context, field, value string) Result[[]*models.Address] {
	return run(e, "search addresses", func() ([]*models.Address, error) {
		return e.addresses.store.FindBy(ctx, field, value, store.ListOptions{})
	})
}

// SearchAddressesByProximity returns active addresses within radiusKm of
// (lat, lng), closest first. A non-positive radius means 5 km.
func (e *Engine) SearchAddressesByProximity(ctx context.Context, lat, lng, radiusKm float64) Result[[]store.Nearby[*models.Address]] {
	return run(e, "search addresses by proximity", func() ([]store.Nearby[*models.Address], error) {
		center := models.GeoPoint{Lat: lat, Lng: lng}
		return e.addresses.store.Near(ctx, center.Point(), radiusKm, store.ListOptions{})
	})
}

func (e *Engine) AddressStats(ctx context.Context) Result[store.Stats] {
	return run(e, "address stats", func() (store.Stats, error) {
		return e.addresses.store.Stats(ctx)
	})
}
