package shipping

import (
	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Zone identifiers of the built-in configuration
const (
	ZoneGeelongMetro     = "zone-1"
	ZoneMelbourneMetro   = "zone-2"
	ZoneRegionalVictoria = "zone-3"
	ZoneInterstate       = "zone-4"
)

// FreeShippingRuleID identifies the built-in free shipping rule
const FreeShippingRuleID = "free-shipping-over-100"

// DefaultTables returns the built-in storefront configuration.
// Geelong is listed before Melbourne so 3200-3207 resolves to Geelong.
func DefaultTables() *Tables {
	zones := []Zone{
		{ID: ZoneGeelongMetro, Name: "Geelong Metro", Ranges: []PostcodeRange{{Min: 3200, Max: 3220}}, Estimate: NewDeliveryEstimate(1, 2)},
		{ID: ZoneMelbourneMetro, Name: "Melbourne Metro", Ranges: []PostcodeRange{{Min: 3000, Max: 3207}}, Estimate: NewDeliveryEstimate(2, 3)},
		{ID: ZoneRegionalVictoria, Name: "Regional Victoria", Ranges: []PostcodeRange{{Min: 3221, Max: 3999}}, Estimate: NewDeliveryEstimate(3, 5)},
		{ID: ZoneInterstate, Name: "Interstate", Estimate: NewDeliveryEstimate(3, 5)},
	}

	standard := map[string][3]int64{
		ZoneGeelongMetro:     {10, 15, 25},
		ZoneMelbourneMetro:   {15, 25, 35},
		ZoneRegionalVictoria: {20, 30, 45},
		ZoneInterstate:       {30, 45, 65},
	}

	var bands []RateBand
	for _, z := range zones {
		costs := standard[z.ID]
		bands = append(bands,
			RateBand{
				ID: z.ID + "-standard-light", ZoneID: z.ID, Method: MethodStandard,
				MinWeight: decimal.Zero, MaxWeight: weightPtr(5),
				Cost: valueobject.NewMoneyAUDFromInt(costs[0]), Description: "Standard Shipping (0-5kg)",
			},
			RateBand{
				ID: z.ID + "-standard-medium", ZoneID: z.ID, Method: MethodStandard,
				MinWeight: decimal.NewFromInt(5), MaxWeight: weightPtr(20),
				Cost: valueobject.NewMoneyAUDFromInt(costs[1]), Description: "Standard Shipping (5-20kg)",
			},
			RateBand{
				ID: z.ID + "-standard-heavy", ZoneID: z.ID, Method: MethodStandard,
				MinWeight: decimal.NewFromInt(20),
				Cost:      valueobject.NewMoneyAUDFromInt(costs[2]), Description: "Heavy Item Shipping (20kg+)",
			},
			RateBand{
				ID: z.ID + "-express", ZoneID: z.ID, Method: MethodExpress,
				MinWeight: decimal.Zero,
				Cost:      valueobject.NewMoneyAUDFromInt(25), Description: "Express Shipping",
			},
		)
	}

	expressEstimate := NewDeliveryEstimate(1, 2)
	methods := []MethodInfo{
		{Code: MethodStandard, Name: "Standard Shipping", Description: "3-5 business days"},
		{Code: MethodExpress, Name: "Express Shipping", Description: "1-2 business days", Estimate: &expressEstimate},
	}

	rules := []DiscountRule{
		{
			ID:          FreeShippingRuleID,
			Description: "Free shipping on orders over $100",
			MinSubtotal: valueobject.NewMoneyAUDFromInt(100),
			Methods:     []Method{MethodStandard},
			Effect:      EffectFreeShipping,
		},
	}

	return NewTables(zones, bands, rules, methods)
}
