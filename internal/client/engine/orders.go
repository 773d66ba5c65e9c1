package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/store"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
)

// CreateOrder stores a new pending order and queues it.
func (e *Engine) CreateOrder(ctx context.Context, in models.OrderInput) Result[*models.Order] {
	return run(e, "create order", func() (*models.Order, error) {
		return e.orders.create(ctx, models.NewOrder(uuid.NewString(), in))
	})
}

func (e *Engine) UpdateOrder(ctx context.Context, id string, patch models.OrderPatch) Result[*models.Order] {
	return run(e, "update order", func() (*models.Order, error) {
		if patch.IsEmpty() {
			return nil, apperrors.Validation("order update changes nothing")
		}
		return e.orders.update(ctx, id, patch, patch.Apply)
	})
}

// SetOrderStatus is UpdateOrder with only the status changed.
func (e *Engine) SetOrderStatus(ctx context.Context, id string, status models.OrderStatus) Result[*models.Order] {
	if !status.IsValid() {
		return fail[*models.Order](apperrors.Validation("invalid order status %q", status))
	}
	return e.UpdateOrder(ctx, id, models.OrderPatch{Status: &status})
}

func (e *Engine) DeactivateOrder(ctx context.Context, id string) Result[*models.Order] {
	return run(e, "deactivate order", func() (*models.Order, error) {
		return e.orders.setActive(ctx, id, false)
	})
}

func (e *Engine) ActivateOrder(ctx context.Context, id string) Result[*models.Order] {
	return run(e, "activate order", func() (*models.Order, error) {
		return e.orders.setActive(ctx, id, true)
	})
}

func (e *Engine) DeleteOrder(ctx context.Context, id string) Result[string] {
	return run(e, "delete order", func() (string, error) {
		return e.orders.remove(ctx, id)
	})
}

func (e *Engine) GetAllOrders(ctx context.Context, includeInactive bool) Result[[]*models.Order] {
	return run(e, "list orders", func() ([]*models.Order, error) {
		return e.orders.store.GetAll(ctx, store.ListOptions{IncludeInactive: includeInactive})
	})
}

func (e *Engine) GetOrder(ctx context.Context, id string) Result[*models.Order] {
	return run(e, "get order", func() (*models.Order, error) {
		return e.orders.store.GetByID(ctx, id)
	})
}

// SearchOrdersByField looks orders up by status, type, client_phone or
// address_id.
func (e *Engine) SearchOrdersByField(ctx context.Context, field, value string) Result[[]*models.Order] {
	return run(e, "search orders", func() ([]*models.Order, error) {
		return e.orders.store.FindBy(ctx, field, value, store.ListOptions{})
	})
}

// OrderStats counts orders by status and type; Amount is the revenue of
// active orders.
func (e *Engine) OrderStats(ctx context.Context) Result[store.Stats] {
	return run(e, "order stats", func() (store.Stats, error) {
		return e.orders.store.Stats(ctx)
	})
}
