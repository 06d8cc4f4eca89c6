package shipping

import (
	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// RateBand maps a weight interval within a zone to a fixed cost.
// MaxWeight nil means the band has no upper bound.
type RateBand struct {
	ID          string            `json:"id"`
	ZoneID      string            `json:"zoneId"`
	Method      Method            `json:"method"`
	MinWeight   decimal.Decimal   `json:"minWeight"`
	MaxWeight   *decimal.Decimal  `json:"maxWeight"`
	Cost        valueobject.Money `json:"cost"`
	Description string            `json:"description"`
}

// Covers reports whether MinWeight <= weight <= MaxWeight
func (b RateBand) Covers(weight decimal.Decimal) bool {
	if weight.LessThan(b.MinWeight) {
		return false
	}
	return b.MaxWeight == nil || weight.LessThanOrEqual(*b.MaxWeight)
}

// IsUnbounded reports whether the band extends to infinity
func (b RateBand) IsUnbounded() bool {
	return b.MaxWeight == nil
}

func (b RateBand) clone() RateBand {
	c := b
	if b.MaxWeight != nil {
		m := *b.MaxWeight
		c.MaxWeight = &m
	}
	return c
}

// DiscountEffect is what a matching discount rule does to the cost
type DiscountEffect string

// EffectFreeShipping overrides the matched rate's cost to zero
const EffectFreeShipping DiscountEffect = "free_shipping"

// DiscountRule is a predicate over the cart subtotal. Rules with an empty
// Methods list apply to every method.
type DiscountRule struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	MinSubtotal valueobject.Money `json:"minSubtotal"`
	Methods     []Method          `json:"methods,omitempty"`
	Effect      DiscountEffect    `json:"effect"`
}

// AppliesTo reports whether the rule matches the subtotal and method
func (r DiscountRule) AppliesTo(subtotal valueobject.Money, method Method) bool {
	if len(r.Methods) > 0 {
		found := false
		for _, m := range r.Methods {
			if m == method {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return subtotal.Amount().GreaterThanOrEqual(r.MinSubtotal.Amount())
}

// Apply returns the cost after the rule's effect
func (r DiscountRule) Apply(cost valueobject.Money) valueobject.Money {
	switch r.Effect {
	case EffectFreeShipping:
		return valueobject.Zero(cost.Currency())
	}
	return cost
}

func (r DiscountRule) clone() DiscountRule {
	c := r
	c.Methods = append([]Method(nil), r.Methods...)
	return c
}
