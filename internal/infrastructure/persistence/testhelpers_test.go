package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/partsshop/storefront/internal/domain/checkout"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

// newTestDatabase opens a private in-memory SQLite database with the
// order schema
func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type orderOpt func(*checkout.Order)

func withZone(id, name string, method shipping.Method, cost int64) orderOpt {
	return func(o *checkout.Order) {
		o.Summary.ShippingZoneID = id
		o.Summary.ShippingZoneName = name
		o.Summary.ShippingMethod = method
		o.Summary.ShippingCost = valueobject.NewMoneyAUDFromInt(cost)
		o.Summary.Total = o.Summary.Subtotal.MustAdd(o.Summary.ShippingCost)
	}
}

func withFreeShipping() orderOpt {
	return func(o *checkout.Order) {
		o.Summary.ShippingCost = valueobject.ZeroAUD()
		o.Summary.DiscountDescription = "Free standard shipping on orders over $100"
		o.Summary.Total = o.Summary.Subtotal
	}
}

func placedAt(at time.Time) orderOpt {
	return func(o *checkout.Order) { o.PlacedAt = at }
}

func forCustomer(id uuid.UUID) orderOpt {
	return func(o *checkout.Order) { o.CustomerID = &id }
}

func newTestOrder(number string, opts ...orderOpt) *checkout.Order {
	subtotal := valueobject.NewMoneyAUDFromInt(50)
	o := &checkout.Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       number,
		SessionID:         uuid.New(),
		Email:             "buyer@example.com",
		Phone:             "0400 000 000",
		Address: checkout.ShippingAddress{
			FirstName: "Sam",
			LastName:  "Driver",
			Street:    "1 Moorabool St",
			City:      "Geelong",
			State:     "VIC",
			Postcode:  "3220",
			Country:   "AU",
		},
		Lines: []checkout.CartLine{
			{
				ProductID:  uuid.New(),
				Name:       "Brake pads",
				UnitPrice:  valueobject.NewMoneyAUDFromInt(20),
				Quantity:   2,
				UnitWeight: valueobject.MustNewWeight("1.5"),
			},
			{
				ProductID:  uuid.New(),
				Name:       "Oil filter",
				UnitPrice:  valueobject.NewMoneyAUDFromInt(10),
				Quantity:   1,
				UnitWeight: valueobject.MustNewWeight("0.4"),
			},
		},
		Summary: checkout.OrderSummary{Subtotal: subtotal},
		Payment: checkout.PaymentSummary{Method: checkout.PaymentCreditCard, CardLast4: "4242", NameOnCard: "Sam Driver"},
		EstimatedDelivery: shipping.DeliveryEstimate{
			MinDays: 1, MaxDays: 2, Unit: "business days",
		},
		PlacedAt: time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
	}
	withZone("zone-1", "Geelong Metro", shipping.MethodStandard, 10)(o)
	for _, opt := range opts {
		opt(o)
	}
	return o
}
