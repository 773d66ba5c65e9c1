package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderType describes how the order is served.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

var validOrderTypes = []OrderType{OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery}

// IsValid reports whether the value is a known order type.
func (t OrderType) IsValid() bool {
	for _, candidate := range validOrderTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseOrderType converts raw input into OrderType.
func ParseOrderType(value string) (OrderType, error) {
	for _, candidate := range validOrderTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order type %q", value)
}

// OrderStatus is the kitchen/delivery progress of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// IsValid reports whether the value is a known order status.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentMobileMoney PaymentMethod = "mobile_money"
	PaymentCard        PaymentMethod = "card"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// ClientInfo identifies the customer.
type ClientInfo struct {
	Name  string `json:"name" validate:"required,max=128"`
	Phone string `json:"phone,omitempty" validate:"max=32"`
}

// OrderItem is a single line of an order.
type OrderItem struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Name      string          `json:"name" validate:"required,max=128"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
}

// Subtotal returns quantity × unit price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// PaymentDetails holds what the cashier recorded.
type PaymentDetails struct {
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Method     PaymentMethod   `json:"method,omitempty" validate:"omitempty,oneof=cash mobile_money card"`
	Status     PaymentStatus   `json:"status" validate:"required,oneof=unpaid partial paid"`
}

// DeliveryDetails is required for delivery orders.
type DeliveryDetails struct {
	ScheduledAt *time.Time      `json:"scheduled_at,omitempty"`
	Fee         decimal.Decimal `json:"fee"`
	AddressID   string          `json:"address_id" validate:"required"`
	Courier     string          `json:"courier,omitempty" validate:"max=64"`
}

// Order is a customer order taken at the counter or by phone.
type Order struct {
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Delivery  *DeliveryDetails `json:"delivery,omitempty"`
	Client    ClientInfo       `json:"client"`
	ID        string           `json:"id" validate:"required"`
	Type      OrderType        `json:"type" validate:"required,oneof=dine_in takeaway delivery"`
	Status    OrderStatus      `json:"status" validate:"required,oneof=pending preparing ready out_for_delivery completed cancelled"`
	Notes     string           `json:"notes,omitempty" validate:"max=512"`
	Payment   PaymentDetails   `json:"payment"`
	Items     []OrderItem      `json:"items" validate:"required,min=1,dive"`
	Version   int64            `json:"version"`
	IsActive  bool             `json:"is_active"`
}

func (o *Order) RecordID() string     { return o.ID }
func (o *Order) RecordVersion() int64 { return o.Version }
func (o *Order) Active() bool         { return o.IsActive }

func (o *Order) SetActive(active bool, at time.Time) {
	o.IsActive = active
	o.UpdatedAt = at
}

func (o *Order) Stamp(at time.Time) {
	o.CreatedAt = at
	o.UpdatedAt = at
}

func (o *Order) Touch(at time.Time) { o.UpdatedAt = at }

// Total returns the sum of the item subtotals plus the delivery fee.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	if o.Delivery != nil {
		total = total.Add(o.Delivery.Fee)
	}
	return total
}

// Check verifies cross-field rules that struct tags cannot express.
func (o *Order) Check() error {
	if o.Type == OrderTypeDelivery && o.Delivery == nil {
		return fmt.Errorf("delivery details are required for delivery orders")
	}
	if o.Type != OrderTypeDelivery && o.Delivery != nil {
		return fmt.Errorf("delivery details are only allowed for delivery orders")
	}
	for _, item := range o.Items {
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("item %q has a negative unit price", item.Name)
		}
	}
	if o.Payment.AmountPaid.IsNegative() {
		return fmt.Errorf("amount paid cannot be negative")
	}
	return nil
}

// OrderInput carries the user-supplied fields of a new order.
type OrderInput struct {
	Delivery *DeliveryDetails `json:"delivery,omitempty"`
	Client   ClientInfo       `json:"client"`
	Type     OrderType        `json:"type"`
	Notes    string           `json:"notes,omitempty"`
	Payment  PaymentDetails   `json:"payment"`
	Items    []OrderItem      `json:"items"`
}

// NewOrder builds a pending, active order with the given id.
func NewOrder(id string, in OrderInput) *Order {
	payment := in.Payment
	if payment.Status == "" {
		payment.Status = PaymentUnpaid
	}
	return &Order{
		ID:       id,
		Type:     in.Type,
		Status:   OrderStatusPending,
		Client:   in.Client,
		Items:    in.Items,
		Payment:  payment,
		Delivery: in.Delivery,
		Notes:    in.Notes,
		IsActive: true,
	}
}

// OrderPatch is a partial update of an order. Nil fields are left untouched.
type OrderPatch struct {
	Status   *OrderStatus     `json:"status,omitempty"`
	Client   *ClientInfo      `json:"client,omitempty"`
	Items    []OrderItem      `json:"items,omitempty"`
	Payment  *PaymentDetails  `json:"payment,omitempty"`
	Delivery *DeliveryDetails `json:"delivery,omitempty"`
	Notes    *string          `json:"notes,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p OrderPatch) IsEmpty() bool {
	return p.Status == nil && p.Client == nil && p.Items == nil &&
		p.Payment == nil && p.Delivery == nil && p.Notes == nil
}

// Apply merges the patch into o.
func (p OrderPatch) Apply(o *Order) {
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.Client != nil {
		o.Client = *p.Client
	}
	if p.Items != nil {
		o.Items = append([]OrderItem(nil), p.Items...)
	}
	if p.Payment != nil {
		o.Payment = *p.Payment
	}
	if p.Delivery != nil {
		d := *p.Delivery
		o.Delivery = &d
	}
	if p.Notes != nil {
		o.Notes = *p.Notes
	}
}
