package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/partsshop/storefront/internal/domain/shipping"
)

// Aggregate type constants
const (
	AggregateTypeSession = "CheckoutSession"
	AggregateTypeOrder   = "Order"
)

// QuoteResolver prices shipping. *shipping.Resolver satisfies it.
type QuoteResolver interface {
	Resolve(req shipping.QuoteRequest) (shipping.Quote, error)
}

// ShippingSelection is the chosen shipping method and the quote it was
// priced with. Quote is nil while the selection is stale.
type ShippingSelection struct {
	Method         shipping.Method    `json:"method"`
	Quote          *shipping.Quote    `json:"quote,omitempty"`
	QuotedPostcode string             `json:"quoted_postcode,omitempty"`
	QuotedWeight   valueobject.Weight `json:"quoted_weight"`
	Stale          bool               `json:"stale"`
}

// IsPriced reports whether the selection carries a fresh quote
func (s *ShippingSelection) IsPriced() bool {
	return s != nil && s.Quote != nil && !s.Stale
}

// Session is the in-progress state of one purchase attempt.
// It is mutated stage by stage and converted into an Order on placement.
type Session struct {
	shared.BaseAggregateRoot
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	Cart          Cart               `json:"cart"`
	Contact       *ContactInfo       `json:"contact,omitempty"`
	Address       *ShippingAddress   `json:"address,omitempty"`
	Shipping      *ShippingSelection `json:"shipping,omitempty"`
	Payment       *PaymentInfo       `json:"payment,omitempty"`
	Stage         Stage              `json:"stage"`
	TermsAccepted bool               `json:"terms_accepted"`
	OrderID       *uuid.UUID         `json:"order_id,omitempty"`
	PlacedAt      *time.Time         `json:"placed_at,omitempty"`
}

// NewSession starts checkout for a non-empty cart. customerID may be nil
// for guest checkout.
func NewSession(customerID *uuid.UUID, lines []CartLine) (*Session, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Cannot start checkout with an empty cart")
	}
	cart := make(Cart, 0, len(lines))
	for _, l := range lines {
		line, err := NewCartLine(l.ProductID, l.Name, l.UnitPrice, l.Quantity, l.UnitWeight)
		if err != nil {
			return nil, err
		}
		cart = append(cart, line)
	}
	return &Session{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Cart:              cart,
		Stage:             StageInformation,
	}, nil
}

func (s *Session) requireStage(stage Stage, action string) error {
	if s.Stage == StagePlaced {
		return shared.ErrAlreadyPlaced
	}
	if s.Stage != stage {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot %s at the %s stage", action, s.Stage))
	}
	return nil
}

// SetContactInfo records contact details. Only allowed at INFORMATION.
func (s *Session) SetContactInfo(c ContactInfo) error {
	if err := s.requireStage(StageInformation, "change contact details"); err != nil {
		return err
	}
	c = c.normalized()
	s.Contact = &c
	s.Touch()
	return nil
}

// SetShippingAddress records the delivery address. Only allowed at
// INFORMATION. Any change after a shipping method was chosen drops the
// quote so shipping must be priced again before PAYMENT.
func (s *Session) SetShippingAddress(a ShippingAddress) error {
	if err := s.requireStage(StageInformation, "change the shipping address"); err != nil {
		return err
	}
	a = a.normalized()
	if s.Shipping != nil && (s.Address == nil || *s.Address != a) {
		s.Shipping.Quote = nil
		s.Shipping.Stale = true
	}
	s.Address = &a
	s.Touch()
	return nil
}

// SelectShippingMethod chooses a method and prices it for the current
// address and cart weight. Only allowed at SHIPPING.
func (s *Session) SelectShippingMethod(method shipping.Method, resolver QuoteResolver) error {
	if err := s.requireStage(StageShipping, "choose a shipping method"); err != nil {
		return err
	}
	if method == "" {
		return &ValidationError{Stage: StageShipping, Fields: []FieldError{{Field: "shippingMethod", Message: "shipping method is required"}}}
	}
	quote, err := s.quote(method, resolver)
	if err != nil {
		return err
	}
	s.Shipping = &ShippingSelection{
		Method:         method,
		Quote:          &quote,
		QuotedPostcode: quote.Postcode,
		QuotedWeight:   quote.Weight,
	}
	s.Touch()
	return nil
}

// SetPaymentInfo records payment details. Only allowed at PAYMENT.
func (s *Session) SetPaymentInfo(p PaymentInfo) error {
	if err := s.requireStage(StagePayment, "change payment details"); err != nil {
		return err
	}
	p = p.normalized()
	s.Payment = &p
	s.Touch()
	return nil
}

// Continue advances to the next stage once the current and all prior
// stages validate. Leaving SHIPPING re-prices the selected method against
// the current address and cart weight. REVIEW is left only through Place.
func (s *Session) Continue(resolver QuoteResolver) error {
	switch s.Stage {
	case StagePlaced:
		return shared.ErrAlreadyPlaced
	case StageReview:
		return shared.NewDomainError(shared.CodeInvalidState, "Accept the terms and place the order to finish checkout")
	}

	if err := s.validateInformation(); err != nil {
		return err
	}
	if s.Stage == StageInformation {
		return s.advance()
	}

	if s.Shipping == nil || s.Shipping.Method == "" {
		return &ValidationError{Stage: StageShipping, Fields: []FieldError{{Field: "shippingMethod", Message: "shipping method is required"}}}
	}
	if s.Stage == StageShipping {
		if err := s.reprice(resolver); err != nil {
			return err
		}
		return s.advance()
	}

	if !s.Shipping.IsPriced() {
		return &ValidationError{Stage: StageShipping, Fields: []FieldError{{Field: "shippingMethod", Message: "shipping must be recalculated for the current address"}}}
	}
	if err := s.validatePayment(); err != nil {
		return err
	}
	return s.advance()
}

// Back returns to an earlier stage. Entered data is kept.
func (s *Session) Back(target Stage) error {
	if s.Stage == StagePlaced {
		return shared.ErrAlreadyPlaced
	}
	if !s.Stage.CanGoBackTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot go back from %s to %s", s.Stage, target))
	}
	s.Stage = target
	s.TermsAccepted = false
	s.Touch()
	return nil
}

// Place converts the session into an immutable Order. The stored shipping
// cost must equal a fresh resolution; if it does not the new quote is kept
// and a ValidationError asks the customer to review the updated total.
// On success the cart is cleared, card secrets are dropped and the session
// becomes PLACED.
func (s *Session) Place(acceptTerms bool, resolver QuoteResolver, orderNumber string) (*Order, error) {
	if err := s.requireStage(StageReview, "place the order"); err != nil {
		return nil, err
	}
	if !acceptTerms {
		return nil, &ValidationError{Stage: StageReview, Fields: []FieldError{{Field: "acceptTerms", Message: "you must accept the terms and conditions"}}}
	}
	if err := s.validateInformation(); err != nil {
		return nil, err
	}
	if !s.Shipping.IsPriced() {
		return nil, &ValidationError{Stage: StageShipping, Fields: []FieldError{{Field: "shippingMethod", Message: "shipping must be recalculated for the current address"}}}
	}
	if err := s.validatePayment(); err != nil {
		return nil, err
	}

	fresh, err := s.quote(s.Shipping.Method, resolver)
	if err != nil {
		return nil, err
	}
	if !fresh.SameCost(*s.Shipping.Quote) {
		s.setQuote(fresh)
		s.Touch()
		return nil, &ValidationError{Stage: StageReview, Fields: []FieldError{{Field: "shippingCost", Message: "shipping cost has changed, please review the updated total"}}}
	}

	order, err := newOrder(s, orderNumber, fresh)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s.TermsAccepted = true
	s.Cart = nil
	if s.Payment != nil {
		redacted := s.Payment.Redacted()
		s.Payment = &redacted
	}
	s.Stage = StagePlaced
	s.OrderID = &order.ID
	s.PlacedAt = &now
	s.Touch()
	return order, nil
}

// IsPlaced reports whether the session has been converted into an order
func (s *Session) IsPlaced() bool {
	return s.Stage == StagePlaced
}

// SessionSummary is the running total shown during checkout
type SessionSummary struct {
	ItemCount           int                        `json:"item_count"`
	Weight              valueobject.Weight         `json:"weight"`
	Subtotal            valueobject.Money          `json:"subtotal"`
	ShippingPending     bool                       `json:"shipping_pending"`
	ShippingCost        *valueobject.Money         `json:"shipping_cost,omitempty"`
	ShippingMethod      shipping.Method            `json:"shipping_method,omitempty"`
	ShippingZone        string                     `json:"shipping_zone,omitempty"`
	DiscountDescription string                     `json:"discount_description,omitempty"`
	EstimatedDelivery   *shipping.DeliveryEstimate `json:"estimated_delivery,omitempty"`
	Total               valueobject.Money          `json:"total"`
}

// Summary returns subtotal, shipping and total. Shipping is only included
// while the quote is fresh.
func (s *Session) Summary() SessionSummary {
	sum := SessionSummary{
		ItemCount:       s.Cart.ItemCount(),
		Weight:          s.Cart.TotalWeight(),
		Subtotal:        s.Cart.Subtotal(),
		ShippingPending: true,
	}
	sum.Total = sum.Subtotal
	if s.Shipping.IsPriced() {
		q := s.Shipping.Quote
		cost := q.Cost
		est := q.EstimatedDelivery
		sum.ShippingPending = false
		sum.ShippingCost = &cost
		sum.ShippingMethod = q.Method
		sum.ShippingZone = q.Zone.Name
		sum.DiscountDescription = q.DiscountDescription
		sum.EstimatedDelivery = &est
		sum.Total = sum.Subtotal.MustAdd(cost)
	}
	return sum
}

func (s *Session) advance() error {
	s.Stage = s.Stage.Next()
	s.Touch()
	return nil
}

func (s *Session) reprice(resolver QuoteResolver) error {
	quote, err := s.quote(s.Shipping.Method, resolver)
	if err != nil {
		return err
	}
	s.setQuote(quote)
	return nil
}

func (s *Session) setQuote(q shipping.Quote) {
	s.Shipping.Quote = &q
	s.Shipping.QuotedPostcode = q.Postcode
	s.Shipping.QuotedWeight = q.Weight
	s.Shipping.Stale = false
}

func (s *Session) quote(method shipping.Method, resolver QuoteResolver) (shipping.Quote, error) {
	if s.Address == nil {
		return shipping.Quote{}, &ValidationError{Stage: StageInformation, Fields: []FieldError{{Field: "address", Message: "shipping address is required"}}}
	}
	if resolver == nil {
		return shipping.Quote{}, errors.New("checkout: no shipping resolver configured")
	}
	return resolver.Resolve(shipping.QuoteRequest{
		Postcode: s.Address.Postcode,
		Weight:   s.Cart.TotalWeight().Kilograms(),
		Items:    s.Cart.shippingItems(),
		Method:   method,
	})
}

func (s *Session) validateInformation() error {
	v := &fieldCollector{}
	s.Contact.validate(v)
	s.Address.validate(v)
	return v.err(StageInformation)
}

func (s *Session) validatePayment() error {
	v := &fieldCollector{}
	s.Payment.validate(v)
	return v.err(StagePayment)
}
