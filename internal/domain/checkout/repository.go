package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/partsshop/storefront/internal/domain/shipping"
)

// SessionRepository stores in-progress checkout sessions
type SessionRepository interface {
	// Save creates or replaces a session
	Save(ctx context.Context, session *Session) error

	// FindByID returns shared.ErrNotFound when the session does not exist or expired
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// Delete removes a session; deleting a missing session is not an error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderFilter pages through a customer's orders, newest first
type OrderFilter struct {
	Page     int
	PageSize int
}

// Normalize applies defaults and bounds
func (f OrderFilter) Normalize() OrderFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	return f
}

// Offset returns the number of rows to skip
func (f OrderFilter) Offset() int {
	f = f.Normalize()
	return (f.Page - 1) * f.PageSize
}

// OrderRepository persists placed orders
type OrderRepository interface {
	// Save persists a new order
	Save(ctx context.Context, order *Order) error

	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its human-readable number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindBySessionID finds the order a checkout session was converted into
	FindBySessionID(ctx context.Context, sessionID uuid.UUID) (*Order, error)

	// FindByCustomer lists a customer's orders, newest first
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter OrderFilter) ([]Order, int64, error)

	// NextOrderNumber generates a unique order number
	NextOrderNumber(ctx context.Context, at time.Time) (string, error)
}

// ShippingTotals aggregates placed orders for one zone and method
type ShippingTotals struct {
	ZoneID             string            `json:"zone_id"`
	ZoneName           string            `json:"zone_name"`
	Method             shipping.Method   `json:"method"`
	Orders             int64             `json:"orders"`
	FreeShippingOrders int64             `json:"free_shipping_orders"`
	ShippingCharged    valueobject.Money `json:"shipping_charged"`
	OrderValue         valueobject.Money `json:"order_value"`
}

// ShippingReportRepository aggregates shipping data from placed orders
type ShippingReportRepository interface {
	// SummarizeShipping groups orders placed in [from, to) by zone and method
	SummarizeShipping(ctx context.Context, from, to time.Time) ([]ShippingTotals, error)
}
