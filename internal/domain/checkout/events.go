package checkout

import (
	"github.com/google/uuid"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeOrderPlaced = "OrderPlaced"
)

// OrderPlacedEvent is raised when a checkout session becomes an order.
// The cart collaborator clears the customer's cart on it and the
// shipping report records the resolved zone and cost.
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID       `json:"order_id"`
	OrderNumber     string          `json:"order_number"`
	SessionID       uuid.UUID       `json:"session_id"`
	CustomerID      *uuid.UUID      `json:"customer_id,omitempty"`
	ZoneID          string          `json:"zone_id"`
	ZoneName        string          `json:"zone_name"`
	ShippingMethod  string          `json:"shipping_method"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	DiscountApplied bool            `json:"discount_applied"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Total           decimal.Decimal `json:"total"`
	ItemCount       int             `json:"item_count"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(order *Order, discountApplied bool) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SessionID:       order.SessionID,
		CustomerID:      order.CustomerID,
		ZoneID:          order.Summary.ShippingZoneID,
		ZoneName:        order.Summary.ShippingZoneName,
		ShippingMethod:  order.Summary.ShippingMethod.String(),
		ShippingCost:    order.Summary.ShippingCost.Amount(),
		DiscountApplied: discountApplied,
		Subtotal:        order.Summary.Subtotal.Amount(),
		Total:           order.Summary.Total.Amount(),
		ItemCount:       order.ItemCount(),
	}
}

// EventType returns the event type name
func (e *OrderPlacedEvent) EventType() string {
	return EventTypeOrderPlaced
}
