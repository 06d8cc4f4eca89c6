package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/partsshop/storefront/internal/domain/checkout"
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// ==================== Requests ====================

// StartCheckoutRequest snapshots the cart into a new session
type StartCheckoutRequest struct {
	CustomerID *uuid.UUID      `json:"customerId"`
	Items      []CartLineInput `json:"items" binding:"required,min=1,max=100,dive"`
}

// CartLineInput is one cart item
type CartLineInput struct {
	ProductID  uuid.UUID       `json:"productId" binding:"required"`
	Name       string          `json:"name" binding:"required,min=1,max=200"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity" binding:"required,min=1,max=999"`
	UnitWeight decimal.Decimal `json:"unitWeight"`
}

// UpdateContactRequest sets contact details
type UpdateContactRequest struct {
	Email      string `json:"email" binding:"max=254"`
	Phone      string `json:"phone" binding:"max=30"`
	Newsletter bool   `json:"newsletter"`
}

// UpdateAddressRequest sets the delivery address
type UpdateAddressRequest struct {
	FirstName string `json:"firstName" binding:"max=100"`
	LastName  string `json:"lastName" binding:"max=100"`
	Street    string `json:"street" binding:"max=200"`
	City      string `json:"city" binding:"max=100"`
	State     string `json:"state" binding:"max=10"`
	Postcode  string `json:"postcode" binding:"max=10"`
	Country   string `json:"country" binding:"max=60"`
}

// SelectShippingRequest chooses a shipping method
type SelectShippingRequest struct {
	Method string `json:"method" binding:"required,max=20"`
}

// UpdatePaymentRequest sets payment details. Card fields are only read
// for credit_card.
type UpdatePaymentRequest struct {
	Method     string `json:"method" binding:"max=20"`
	CardNumber string `json:"cardNumber" binding:"max=30"`
	Expiry     string `json:"expiry" binding:"max=5"`
	CVV        string `json:"cvv" binding:"max=4"`
	NameOnCard string `json:"nameOnCard" binding:"max=100"`
}

// BackRequest navigates to an earlier stage
type BackRequest struct {
	Stage string `json:"stage" binding:"required"`
}

// PlaceOrderRequest confirms the order
type PlaceOrderRequest struct {
	AcceptTerms bool `json:"acceptTerms"`
}

// OrderListFilter pages through a customer's orders
type OrderListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ==================== Responses ====================

// CartLineResponse is one line of the cart snapshot
type CartLineResponse struct {
	ProductID  uuid.UUID       `json:"productId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	UnitWeight decimal.Decimal `json:"unitWeight"`
	LineTotal  decimal.Decimal `json:"lineTotal"`
}

// ContactResponse is the stored contact details
type ContactResponse struct {
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Newsletter bool   `json:"newsletter"`
}

// AddressResponse is the stored delivery address
type AddressResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
}

// ShippingResponse is the current shipping selection. Cost is absent
// while the selection is stale.
type ShippingResponse struct {
	Method              string                     `json:"method"`
	Stale               bool                       `json:"stale"`
	ZoneID              string                     `json:"zoneId,omitempty"`
	ZoneName            string                     `json:"zoneName,omitempty"`
	RateID              string                     `json:"rateId,omitempty"`
	Cost                *decimal.Decimal           `json:"cost,omitempty"`
	DiscountApplied     bool                       `json:"discountApplied"`
	DiscountDescription string                     `json:"discountDescription,omitempty"`
	EstimatedDelivery   *shipping.DeliveryEstimate `json:"estimatedDelivery,omitempty"`
}

// PaymentResponse is the masked payment selection
type PaymentResponse struct {
	Method     string `json:"method"`
	CardLast4  string `json:"cardLast4,omitempty"`
	NameOnCard string `json:"nameOnCard,omitempty"`
}

// SummaryResponse is the running total
type SummaryResponse struct {
	ItemCount           int                        `json:"itemCount"`
	Weight              decimal.Decimal            `json:"weight"`
	Subtotal            decimal.Decimal            `json:"subtotal"`
	ShippingPending     bool                       `json:"shippingPending"`
	ShippingCost        *decimal.Decimal           `json:"shippingCost,omitempty"`
	DiscountDescription string                     `json:"discountDescription,omitempty"`
	EstimatedDelivery   *shipping.DeliveryEstimate `json:"estimatedDelivery,omitempty"`
	Total               decimal.Decimal            `json:"total"`
	Currency            string                     `json:"currency"`
}

// SessionResponse is a checkout session
type SessionResponse struct {
	ID            uuid.UUID          `json:"id"`
	Stage         string             `json:"stage"`
	CustomerID    *uuid.UUID         `json:"customerId,omitempty"`
	Items         []CartLineResponse `json:"items"`
	Contact       *ContactResponse   `json:"contact,omitempty"`
	Address       *AddressResponse   `json:"address,omitempty"`
	Shipping      *ShippingResponse  `json:"shipping,omitempty"`
	Payment       *PaymentResponse   `json:"payment,omitempty"`
	Summary       SummaryResponse    `json:"summary"`
	TermsAccepted bool               `json:"termsAccepted"`
	OrderID       *uuid.UUID         `json:"orderId,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// OrderResponse is a placed order
type OrderResponse struct {
	ID                  uuid.UUID                 `json:"id"`
	OrderNumber         string                    `json:"orderNumber"`
	SessionID           uuid.UUID                 `json:"sessionId"`
	CustomerID          *uuid.UUID                `json:"customerId,omitempty"`
	Email               string                    `json:"email"`
	Phone               string                    `json:"phone,omitempty"`
	Address             AddressResponse           `json:"address"`
	Items               []CartLineResponse        `json:"items"`
	Subtotal            decimal.Decimal           `json:"subtotal"`
	ShippingZoneID      string                    `json:"shippingZoneId"`
	ShippingZoneName    string                    `json:"shippingZoneName"`
	ShippingMethod      string                    `json:"shippingMethod"`
	ShippingCost        decimal.Decimal           `json:"shippingCost"`
	DiscountDescription string                    `json:"discountDescription,omitempty"`
	Total               decimal.Decimal           `json:"total"`
	Currency            string                    `json:"currency"`
	Payment             PaymentResponse           `json:"payment"`
	EstimatedDelivery   shipping.DeliveryEstimate `json:"estimatedDelivery"`
	PlacedAt            time.Time                 `json:"placedAt"`
}

// ==================== Converters ====================

func toCartLineResponses(lines []checkout.CartLine) []CartLineResponse {
	out := make([]CartLineResponse, len(lines))
	for i, l := range lines {
		out[i] = CartLineResponse{
			ProductID:  l.ProductID,
			Name:       l.Name,
			UnitPrice:  l.UnitPrice.Amount(),
			Quantity:   l.Quantity,
			UnitWeight: l.UnitWeight.Kilograms(),
			LineTotal:  l.LineTotal().Amount(),
		}
	}
	return out
}

func toAddressResponse(a checkout.ShippingAddress) AddressResponse {
	return AddressResponse{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		Postcode:  a.Postcode,
		Country:   a.Country,
	}
}

func toPaymentResponse(p checkout.PaymentSummary) PaymentResponse {
	return PaymentResponse{Method: string(p.Method), CardLast4: p.CardLast4, NameOnCard: p.NameOnCard}
}

// ToSessionResponse converts a session. Card details are always masked.
func ToSessionResponse(s *checkout.Session) SessionResponse {
	resp := SessionResponse{
		ID:            s.ID,
		Stage:         s.Stage.String(),
		CustomerID:    s.CustomerID,
		Items:         toCartLineResponses(s.Cart),
		TermsAccepted: s.TermsAccepted,
		OrderID:       s.OrderID,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.Contact != nil {
		resp.Contact = &ContactResponse{Email: s.Contact.Email, Phone: s.Contact.Phone, Newsletter: s.Contact.Newsletter}
	}
	if s.Address != nil {
		addr := toAddressResponse(*s.Address)
		resp.Address = &addr
	}
	if s.Shipping != nil {
		sr := &ShippingResponse{Method: s.Shipping.Method.String(), Stale: s.Shipping.Stale}
		if s.Shipping.IsPriced() {
			q := s.Shipping.Quote
			cost := q.Cost.Amount()
			est := q.EstimatedDelivery
			sr.ZoneID = q.Zone.ID
			sr.ZoneName = q.Zone.Name
			sr.RateID = q.Rate.ID
			sr.Cost = &cost
			sr.DiscountApplied = q.DiscountApplied
			sr.DiscountDescription = q.DiscountDescription
			sr.EstimatedDelivery = &est
		}
		resp.Shipping = sr
	}
	if s.Payment != nil {
		pr := toPaymentResponse(s.Payment.Masked())
		resp.Payment = &pr
	}

	sum := s.Summary()
	resp.Summary = SummaryResponse{
		ItemCount:           sum.ItemCount,
		Weight:              sum.Weight.Kilograms(),
		Subtotal:            sum.Subtotal.Amount(),
		ShippingPending:     sum.ShippingPending,
		DiscountDescription: sum.DiscountDescription,
		EstimatedDelivery:   sum.EstimatedDelivery,
		Total:               sum.Total.Amount(),
		Currency:            string(sum.Total.Currency()),
	}
	if sum.ShippingCost != nil {
		cost := sum.ShippingCost.Amount()
		resp.Summary.ShippingCost = &cost
	}
	return resp
}

// ToOrderResponse converts a placed order
func ToOrderResponse(o *checkout.Order) OrderResponse {
	return OrderResponse{
		ID:                  o.ID,
		OrderNumber:         o.OrderNumber,
		SessionID:           o.SessionID,
		CustomerID:          o.CustomerID,
		Email:               o.Email,
		Phone:               o.Phone,
		Address:             toAddressResponse(o.Address),
		Items:               toCartLineResponses(o.Lines),
		Subtotal:            o.Summary.Subtotal.Amount(),
		ShippingZoneID:      o.Summary.ShippingZoneID,
		ShippingZoneName:    o.Summary.ShippingZoneName,
		ShippingMethod:      o.Summary.ShippingMethod.String(),
		ShippingCost:        o.Summary.ShippingCost.Amount(),
		DiscountDescription: o.Summary.DiscountDescription,
		Total:               o.Summary.Total.Amount(),
		Currency:            string(o.Summary.Total.Currency()),
		Payment:             toPaymentResponse(o.Payment),
		EstimatedDelivery:   o.EstimatedDelivery,
		PlacedAt:            o.PlacedAt,
	}
}
