package checkout

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/partsshop/storefront/internal/domain/shipping"
)

// OrderSummary is the finalized pricing handed to order persistence.
// It is stored verbatim and never recomputed after placement.
type OrderSummary struct {
	Subtotal            valueobject.Money `json:"subtotal"`
	ShippingZoneID      string            `json:"shipping_zone_id"`
	ShippingZoneName    string            `json:"shipping_zone_name"`
	ShippingMethod      shipping.Method   `json:"shipping_method"`
	ShippingCost        valueobject.Money `json:"shipping_cost"`
	DiscountDescription string            `json:"discount_description,omitempty"`
	Total               valueobject.Money `json:"total"`
}

// Order is an immutable placed order
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber       string                    `json:"order_number"`
	SessionID         uuid.UUID                 `json:"session_id"`
	CustomerID        *uuid.UUID                `json:"customer_id,omitempty"`
	Email             string                    `json:"email"`
	Phone             string                    `json:"phone,omitempty"`
	Newsletter        bool                      `json:"newsletter"`
	Address           ShippingAddress           `json:"address"`
	Lines             []CartLine                `json:"lines"`
	Summary           OrderSummary              `json:"summary"`
	Payment           PaymentSummary            `json:"payment"`
	EstimatedDelivery shipping.DeliveryEstimate `json:"estimated_delivery"`
	PlacedAt          time.Time                 `json:"placed_at"`
}

func normalizeOrderNumber(orderNumber string) (string, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Order number cannot exceed 50 characters")
	}
	return orderNumber, nil
}

func newOrder(s *Session, orderNumber string, quote shipping.Quote) (*Order, error) {
	orderNumber, err := normalizeOrderNumber(orderNumber)
	if err != nil {
		return nil, err
	}

	subtotal := s.Cart.Subtotal()
	total, err := subtotal.Add(quote.Cost)
	if err != nil {
		return nil, err
	}
	if total.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Order total cannot be negative")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SessionID:         s.ID,
		CustomerID:        s.CustomerID,
		Email:             s.Contact.Email,
		Phone:             s.Contact.Phone,
		Newsletter:        s.Contact.Newsletter,
		Address:           *s.Address,
		Lines:             append([]CartLine(nil), s.Cart...),
		Summary: OrderSummary{
			Subtotal:            subtotal,
			ShippingZoneID:      quote.Zone.ID,
			ShippingZoneName:    quote.Zone.Name,
			ShippingMethod:      quote.Method,
			ShippingCost:        quote.Cost,
			DiscountDescription: quote.DiscountDescription,
			Total:               total,
		},
		Payment:           s.Payment.Masked(),
		EstimatedDelivery: quote.EstimatedDelivery,
		PlacedAt:          time.Now(),
	}
	order.AddDomainEvent(NewOrderPlacedEvent(order, quote.DiscountApplied))
	return order, nil
}

// Renumber assigns a new order number before the order is first saved,
// after the previous number was taken. Pending events follow the change.
func (o *Order) Renumber(orderNumber string) error {
	orderNumber, err := normalizeOrderNumber(orderNumber)
	if err != nil {
		return err
	}
	o.OrderNumber = orderNumber
	for _, e := range o.GetDomainEvents() {
		if placed, ok := e.(*OrderPlacedEvent); ok {
			placed.OrderNumber = orderNumber
		}
	}
	return nil
}

// ItemCount returns the total quantity ordered
func (o *Order) ItemCount() int {
	return Cart(o.Lines).ItemCount()
}
