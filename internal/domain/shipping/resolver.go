package shipping

import (
	"math"

	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CartItem is the resolver's read-only view of a cart line
type CartItem struct {
	Price      valueobject.Money  `json:"price"`
	Quantity   int                `json:"quantity"`
	UnitWeight valueobject.Weight `json:"unitWeight"`
}

// Subtotal returns the sum of price x quantity over the items, 0 when empty
func Subtotal(items []CartItem) valueobject.Money {
	total := valueobject.ZeroAUD()
	for _, it := range items {
		total = total.MustAdd(it.Price.MultiplyByInt(int64(it.Quantity)))
	}
	return total
}

// TotalWeight returns the sum of unit weight x quantity over the items
func TotalWeight(items []CartItem) valueobject.Weight {
	total := valueobject.ZeroWeight()
	for _, it := range items {
		total = total.Add(it.UnitWeight.MultiplyByInt(int64(it.Quantity)))
	}
	return total
}

// QuoteRequest is the resolver input. An empty Method means standard.
type QuoteRequest struct {
	Postcode string
	Weight   decimal.Decimal
	Items    []CartItem
	Method   Method
}

// Quote is the resolver output
type Quote struct {
	Zone                Zone               `json:"zone"`
	Method              Method             `json:"method"`
	Rate                RateBand           `json:"rate"`
	BaseCost            valueobject.Money  `json:"baseCost"`
	Cost                valueobject.Money  `json:"cost"`
	DiscountApplied     bool               `json:"discountApplied"`
	DiscountRuleID      string             `json:"discountRuleId,omitempty"`
	DiscountDescription string             `json:"discountDescription,omitempty"`
	EstimatedDelivery   DeliveryEstimate   `json:"estimatedDelivery"`
	Postcode            string             `json:"postcode"`
	Weight              valueobject.Weight `json:"weight"`
	Subtotal            valueobject.Money  `json:"subtotal"`
}

// SameCost reports whether two quotes price shipping identically
func (q Quote) SameCost(other Quote) bool {
	return q.Zone.ID == other.Zone.ID &&
		q.Method == other.Method &&
		q.Rate.ID == other.Rate.ID &&
		q.Cost.Equals(other.Cost)
}

// Resolver maps a postcode, weight and cart to a shipping quote.
// It only reads its Tables and is safe for concurrent use.
type Resolver struct {
	tables *Tables
}

// NewResolver creates a resolver over the given tables
func NewResolver(tables *Tables) *Resolver {
	return &Resolver{tables: tables}
}

// Tables returns the reference tables the resolver reads
func (r *Resolver) Tables() *Tables {
	return r.tables
}

// Resolve prices shipping for a request. It returns an *InvalidInputError
// for malformed input and a *ConfigurationError when the tables cannot
// price a well-formed request. It never falls back to a default cost.
func (r *Resolver) Resolve(req QuoteRequest) (Quote, error) {
	postcode, value, err := ParsePostcode(req.Postcode)
	if err != nil {
		return Quote{}, err
	}
	if req.Weight.IsNegative() {
		return Quote{}, newInvalidInput("weight", "cannot be negative")
	}
	weight, err := valueobject.NewWeight(req.Weight)
	if err != nil {
		return Quote{}, newInvalidInput("weight", err.Error())
	}

	method := req.Method
	if method == "" {
		method = MethodStandard
	}
	info, ok := r.tables.Method(method)
	if !ok {
		return Quote{}, newInvalidInput("method", "unknown shipping method "+string(method))
	}

	for _, it := range req.Items {
		if it.Price.Currency() != valueobject.DefaultCurrency {
			return Quote{}, newInvalidInput("items.price", "must be in "+string(valueobject.DefaultCurrency))
		}
		if it.Price.IsNegative() {
			return Quote{}, newInvalidInput("items.price", "cannot be negative")
		}
		if it.Quantity < 0 {
			return Quote{}, newInvalidInput("items.quantity", "cannot be negative")
		}
	}

	zone, ok := r.zoneFor(value)
	if !ok {
		return Quote{}, &ConfigurationError{Method: method, Weight: req.Weight, Postcode: postcode, Reason: "no zone matches postcode"}
	}

	bands := r.tables.Bands(zone.ID, method)
	if len(bands) == 0 {
		return Quote{}, &ConfigurationError{ZoneID: zone.ID, Method: method, Weight: req.Weight, Postcode: postcode, Reason: "zone has no rate bands for method"}
	}
	band, ok := matchBand(bands, req.Weight)
	if !ok {
		return Quote{}, &ConfigurationError{ZoneID: zone.ID, Method: method, Weight: req.Weight, Postcode: postcode, Reason: "weight falls outside every rate band"}
	}

	subtotal := Subtotal(req.Items)
	quote := Quote{
		Zone:              zone,
		Method:            method,
		Rate:              band,
		BaseCost:          band.Cost,
		Cost:              band.Cost,
		EstimatedDelivery: zone.Estimate,
		Postcode:          postcode,
		Weight:            weight,
		Subtotal:          subtotal,
	}
	if info.Estimate != nil {
		quote.EstimatedDelivery = *info.Estimate
	}
	if quote.EstimatedDelivery.Unit == "" {
		quote.EstimatedDelivery.Unit = DeliveryUnit
	}

	for _, rule := range r.tables.DiscountRules() {
		if rule.AppliesTo(subtotal, method) {
			quote.Cost = rule.Apply(band.Cost)
			quote.DiscountApplied = true
			quote.DiscountRuleID = rule.ID
			quote.DiscountDescription = rule.Description
			break
		}
	}

	return quote, nil
}

// ResolveFloat resolves a request whose weight arrives as a float64,
// rejecting NaN and infinities before conversion.
func (r *Resolver) ResolveFloat(postcode string, weightKg float64, items []CartItem, method Method) (Quote, error) {
	if math.IsNaN(weightKg) || math.IsInf(weightKg, 0) {
		return Quote{}, newInvalidInput("weight", "must be a finite number")
	}
	return r.Resolve(QuoteRequest{
		Postcode: postcode,
		Weight:   decimal.NewFromFloat(weightKg),
		Items:    items,
		Method:   method,
	})
}

func (r *Resolver) zoneFor(postcode int) (Zone, bool) {
	for _, z := range r.tables.zones {
		if z.Matches(postcode) {
			return z.clone(), true
		}
	}
	return Zone{}, false
}

func matchBand(bands []RateBand, weight decimal.Decimal) (RateBand, bool) {
	for _, b := range bands {
		if b.Covers(weight) {
			return b, true
		}
	}
	return RateBand{}, false
}
