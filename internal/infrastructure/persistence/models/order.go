package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/partsshop/storefront/internal/domain/checkout"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// OrderModel is the orders table. The shipping summary is stored
// verbatim as priced at placement.
type OrderModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
	Version     int        `gorm:"not null;default:1"`
	OrderNumber string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	SessionID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID  *uuid.UUID `gorm:"type:uuid;index"`

	Email      string `gorm:"type:varchar(254);not null"`
	Phone      string `gorm:"type:varchar(30)"`
	Newsletter bool   `gorm:"not null;default:false"`

	ShipFirstName string `gorm:"type:varchar(100);not null"`
	ShipLastName  string `gorm:"type:varchar(100);not null"`
	ShipStreet    string `gorm:"type:varchar(200);not null"`
	ShipCity      string `gorm:"type:varchar(100);not null"`
	ShipState     string `gorm:"type:varchar(10);not null"`
	ShipPostcode  string `gorm:"type:varchar(4);not null"`
	ShipCountry   string `gorm:"type:varchar(2);not null"`

	Subtotal            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingZoneID      string          `gorm:"type:varchar(50);not null;index:idx_orders_zone_method,priority:1"`
	ShippingZoneName    string          `gorm:"type:varchar(100);not null"`
	ShippingMethod      string          `gorm:"type:varchar(20);not null;index:idx_orders_zone_method,priority:2"`
	ShippingCost        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountDescription string          `gorm:"type:varchar(200)"`
	Total               decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	PaymentMethod string `gorm:"type:varchar(20);not null"`
	CardLast4     string `gorm:"type:varchar(4)"`
	NameOnCard    string `gorm:"type:varchar(100)"`

	DeliveryMinDays int    `gorm:"not null"`
	DeliveryMaxDays int    `gorm:"not null"`
	DeliveryUnit    string `gorm:"type:varchar(20);not null"`

	PlacedAt time.Time        `gorm:"not null;index"`
	Lines    []OrderLineModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model to a domain order
func (m *OrderModel) ToDomain() *checkout.Order {
	lines := make([]checkout.CartLine, len(m.Lines))
	for i := range m.Lines {
		lines[i] = m.Lines[i].ToDomain()
	}

	return &checkout.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		OrderNumber: m.OrderNumber,
		SessionID:   m.SessionID,
		CustomerID:  m.CustomerID,
		Email:       m.Email,
		Phone:       m.Phone,
		Newsletter:  m.Newsletter,
		Address: checkout.ShippingAddress{
			FirstName: m.ShipFirstName,
			LastName:  m.ShipLastName,
			Street:    m.ShipStreet,
			City:      m.ShipCity,
			State:     m.ShipState,
			Postcode:  m.ShipPostcode,
			Country:   m.ShipCountry,
		},
		Lines: lines,
		Summary: checkout.OrderSummary{
			Subtotal:            valueobject.NewMoneyAUD(m.Subtotal),
			ShippingZoneID:      m.ShippingZoneID,
			ShippingZoneName:    m.ShippingZoneName,
			ShippingMethod:      shipping.Method(m.ShippingMethod),
			ShippingCost:        valueobject.NewMoneyAUD(m.ShippingCost),
			DiscountDescription: m.DiscountDescription,
			Total:               valueobject.NewMoneyAUD(m.Total),
		},
		Payment: checkout.PaymentSummary{
			Method:     checkout.PaymentMethod(m.PaymentMethod),
			CardLast4:  m.CardLast4,
			NameOnCard: m.NameOnCard,
		},
		EstimatedDelivery: shipping.DeliveryEstimate{
			MinDays: m.DeliveryMinDays,
			MaxDays: m.DeliveryMaxDays,
			Unit:    m.DeliveryUnit,
		},
		PlacedAt: m.PlacedAt,
	}
}

// OrderModelFromDomain converts a domain order to its model
func OrderModelFromDomain(o *checkout.Order) *OrderModel {
	m := &OrderModel{
		ID:          o.ID,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Version:     o.Version,
		OrderNumber: o.OrderNumber,
		SessionID:   o.SessionID,
		CustomerID:  o.CustomerID,
		Email:       o.Email,
		Phone:       o.Phone,
		Newsletter:  o.Newsletter,

		ShipFirstName: o.Address.FirstName,
		ShipLastName:  o.Address.LastName,
		ShipStreet:    o.Address.Street,
		ShipCity:      o.Address.City,
		ShipState:     o.Address.State,
		ShipPostcode:  o.Address.Postcode,
		ShipCountry:   o.Address.Country,

		Subtotal:            o.Summary.Subtotal.Amount(),
		ShippingZoneID:      o.Summary.ShippingZoneID,
		ShippingZoneName:    o.Summary.ShippingZoneName,
		ShippingMethod:      string(o.Summary.ShippingMethod),
		ShippingCost:        o.Summary.ShippingCost.Amount(),
		DiscountDescription: o.Summary.DiscountDescription,
		Total:               o.Summary.Total.Amount(),

		PaymentMethod: string(o.Payment.Method),
		CardLast4:     o.Payment.CardLast4,
		NameOnCard:    o.Payment.NameOnCard,

		DeliveryMinDays: o.EstimatedDelivery.MinDays,
		DeliveryMaxDays: o.EstimatedDelivery.MaxDays,
		DeliveryUnit:    o.EstimatedDelivery.Unit,

		PlacedAt: o.PlacedAt,
	}

	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i, l := range o.Lines {
		m.Lines[i] = OrderLineModelFromDomain(o.ID, i+1, l)
	}
	return m
}

// OrderLineModel is the order_lines table
type OrderLineModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo     int             `gorm:"not null"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	Name       string          `gorm:"type:varchar(200);not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity   int             `gorm:"not null"`
	UnitWeight decimal.Decimal `gorm:"type:decimal(10,3);not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the model to a cart line snapshot
func (m *OrderLineModel) ToDomain() checkout.CartLine {
	weight, err := valueobject.NewWeight(m.UnitWeight)
	if err != nil {
		weight = valueobject.ZeroWeight()
	}
	return checkout.CartLine{
		ProductID:  m.ProductID,
		Name:       m.Name,
		UnitPrice:  valueobject.NewMoneyAUD(m.UnitPrice),
		Quantity:   m.Quantity,
		UnitWeight: weight,
	}
}

// OrderLineModelFromDomain converts a cart line snapshot to its model
func OrderLineModelFromDomain(orderID uuid.UUID, lineNo int, l checkout.CartLine) OrderLineModel {
	return OrderLineModel{
		ID:         uuid.New(),
		OrderID:    orderID,
		LineNo:     lineNo,
		ProductID:  l.ProductID,
		Name:       l.Name,
		UnitPrice:  l.UnitPrice.Amount(),
		Quantity:   l.Quantity,
		UnitWeight: l.UnitWeight.Kilograms(),
	}
}
