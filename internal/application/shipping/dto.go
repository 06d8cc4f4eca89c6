package shipping

import (
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// CalculateRequest is the public rate calculation input. Weight is in
// kilograms; items are only needed for subtotal discounts.
type CalculateRequest struct {
	Postcode string          `json:"postcode"`
	Weight   *float64        `json:"weight"`
	Items    []CalculateItem `json:"items" binding:"omitempty,dive"`
	Method   string          `json:"method" binding:"omitempty,max=20"`
}

// CalculateItem is a priced cart line
type CalculateItem struct {
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// QuoteResponse is the calculated shipping cost for one destination
type QuoteResponse struct {
	Zone                ZoneRef                   `json:"zone"`
	Rate                RateResponse              `json:"rate"`
	Method              string                    `json:"method"`
	BaseCost            decimal.Decimal           `json:"baseCost"`
	Cost                decimal.Decimal           `json:"cost"`
	Currency            string                    `json:"currency"`
	DiscountApplied     bool                      `json:"discountApplied"`
	DiscountDescription string                    `json:"discountDescription,omitempty"`
	EstimatedDelivery   shipping.DeliveryEstimate `json:"estimatedDelivery"`
}

// ZoneRef identifies a zone
type ZoneRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ZoneResponse is a zone as listed for administrators
type ZoneResponse struct {
	ID                string                    `json:"id"`
	Name              string                    `json:"name"`
	Ranges            []shipping.PostcodeRange  `json:"ranges"`
	CatchAll          bool                      `json:"catchAll"`
	EstimatedDelivery shipping.DeliveryEstimate `json:"estimatedDelivery"`
}

// RateResponse is one weight band
type RateResponse struct {
	ID          string           `json:"id"`
	ZoneID      string           `json:"zoneId"`
	Method      string           `json:"method"`
	MinWeight   decimal.Decimal  `json:"minWeight"`
	MaxWeight   *decimal.Decimal `json:"maxWeight"`
	Cost        decimal.Decimal  `json:"cost"`
	Description string           `json:"description"`
}

// MethodResponse is a shipping method offered at checkout
type MethodResponse struct {
	Code              string                     `json:"code"`
	Name              string                     `json:"name"`
	Description       string                     `json:"description,omitempty"`
	EstimatedDelivery *shipping.DeliveryEstimate `json:"estimatedDelivery,omitempty"`
}

// ValidateTablesResponse is the result of a tables dry run
type ValidateTablesResponse struct {
	Valid      bool     `json:"valid"`
	Zones      int      `json:"zones"`
	Bands      int      `json:"bands"`
	Violations []string `json:"violations"`
}

// ToQuoteResponse converts a domain quote
func ToQuoteResponse(q shipping.Quote) QuoteResponse {
	return QuoteResponse{
		Zone:                ZoneRef{ID: q.Zone.ID, Name: q.Zone.Name},
		Rate:                ToRateResponse(q.Rate),
		Method:              q.Method.String(),
		BaseCost:            q.BaseCost.Amount(),
		Cost:                q.Cost.Amount(),
		Currency:            string(q.Cost.Currency()),
		DiscountApplied:     q.DiscountApplied,
		DiscountDescription: q.DiscountDescription,
		EstimatedDelivery:   q.EstimatedDelivery,
	}
}

// ToZoneResponse converts a domain zone
func ToZoneResponse(z shipping.Zone) ZoneResponse {
	ranges := z.Ranges
	if ranges == nil {
		ranges = []shipping.PostcodeRange{}
	}
	return ZoneResponse{
		ID:                z.ID,
		Name:              z.Name,
		Ranges:            ranges,
		CatchAll:          z.IsCatchAll(),
		EstimatedDelivery: z.Estimate,
	}
}

// ToRateResponse converts a domain rate band
func ToRateResponse(b shipping.RateBand) RateResponse {
	return RateResponse{
		ID:          b.ID,
		ZoneID:      b.ZoneID,
		Method:      b.Method.String(),
		MinWeight:   b.MinWeight,
		MaxWeight:   b.MaxWeight,
		Cost:        b.Cost.Amount(),
		Description: b.Description,
	}
}
