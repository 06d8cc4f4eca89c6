package shipping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// TablesDocument is the file and API representation of the reference
// tables. Zones are listed in priority order.
type TablesDocument struct {
	Methods   []MethodInfo       `json:"methods" yaml:"methods" binding:"required,min=1,dive"`
	Zones     []ZoneDocument     `json:"zones" yaml:"zones" binding:"required,min=1,dive"`
	Discounts []DiscountDocument `json:"discounts" yaml:"discounts"`
}

// ZoneDocument describes one zone and its bands keyed by method
type ZoneDocument struct {
	ID       string                    `json:"id" yaml:"id" binding:"required"`
	Name     string                    `json:"name" yaml:"name" binding:"required"`
	Ranges   []PostcodeRange           `json:"ranges,omitempty" yaml:"ranges,omitempty"`
	Delivery DeliveryEstimate          `json:"delivery" yaml:"delivery"`
	Rates    map[Method][]BandDocument `json:"rates" yaml:"rates"`
}

// BandDocument describes one weight band. A missing max means unbounded.
type BandDocument struct {
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Min         float64  `json:"min" yaml:"min"`
	Max         *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Cost        float64  `json:"cost" yaml:"cost"`
	Description string   `json:"description" yaml:"description"`
}

// DiscountDocument describes one discount rule
type DiscountDocument struct {
	ID          string   `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	MinSubtotal float64  `json:"minSubtotal" yaml:"minSubtotal"`
	Methods     []Method `json:"methods,omitempty" yaml:"methods,omitempty"`
	Effect      string   `json:"effect,omitempty" yaml:"effect,omitempty"`
}

// TablesError is returned when a tables document breaks the invariants
type TablesError struct {
	Violations []TableViolation
}

// Error implements the error interface
func (e *TablesError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return "invalid shipping tables: " + strings.Join(msgs, "; ")
}

// Build converts the document into Tables without validating invariants.
// Non-finite numbers are rejected since they have no decimal form.
func (d TablesDocument) Build() (*Tables, error) {
	var (
		zones []Zone
		bands []RateBand
		rules []DiscountRule
	)
	for _, zd := range d.Zones {
		zones = append(zones, Zone{
			ID:       zd.ID,
			Name:     zd.Name,
			Ranges:   append([]PostcodeRange(nil), zd.Ranges...),
			Estimate: zd.Delivery,
		})
		for method, list := range zd.Rates {
			for i, bd := range list {
				band, err := bd.toBand(zd.ID, method, i)
				if err != nil {
					return nil, err
				}
				bands = append(bands, band)
			}
		}
	}
	for _, dd := range d.Discounts {
		if !finite(dd.MinSubtotal) {
			return nil, fmt.Errorf("discount %q: min subtotal must be finite", dd.ID)
		}
		effect := DiscountEffect(dd.Effect)
		if effect == "" {
			effect = EffectFreeShipping
		}
		rules = append(rules, DiscountRule{
			ID:          dd.ID,
			Description: dd.Description,
			MinSubtotal: valueobject.NewMoneyAUD(decimal.NewFromFloat(dd.MinSubtotal)),
			Methods:     append([]Method(nil), dd.Methods...),
			Effect:      effect,
		})
	}
	return NewTables(zones, bands, rules, d.Methods), nil
}

func (bd BandDocument) toBand(zoneID string, method Method, index int) (RateBand, error) {
	if !finite(bd.Min) || !finite(bd.Cost) || (bd.Max != nil && !finite(*bd.Max)) {
		return RateBand{}, fmt.Errorf("zone %q method %q band %d: weights and cost must be finite", zoneID, method, index+1)
	}
	id := bd.ID
	if id == "" {
		id = fmt.Sprintf("%s-%s-%d", zoneID, method, index+1)
	}
	band := RateBand{
		ID:          id,
		ZoneID:      zoneID,
		Method:      method,
		MinWeight:   decimal.NewFromFloat(bd.Min),
		Cost:        valueobject.NewMoneyAUD(decimal.NewFromFloat(bd.Cost)),
		Description: bd.Description,
	}
	if bd.Max != nil {
		m := decimal.NewFromFloat(*bd.Max)
		band.MaxWeight = &m
	}
	return band, nil
}

// BuildValidated converts the document and rejects it with a *TablesError
// if any invariant is broken.
func (d TablesDocument) BuildValidated() (*Tables, error) {
	t, err := d.Build()
	if err != nil {
		return nil, err
	}
	if v := t.Validate(); len(v) > 0 {
		return nil, &TablesError{Violations: v}
	}
	return t, nil
}

// ParseTables decodes a YAML tables document and validates it. Unknown
// keys are rejected so a misspelled field cannot silently default to zero.
func ParseTables(data []byte) (*Tables, error) {
	var doc TablesDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode shipping tables: %w", err)
	}
	if len(doc.Zones) == 0 {
		return nil, errors.New("decode shipping tables: no zones defined")
	}
	return doc.BuildValidated()
}

// Document converts Tables back to the file representation
func (t *Tables) Document() TablesDocument {
	doc := TablesDocument{Methods: t.Methods()}
	for _, z := range t.zones {
		zd := ZoneDocument{
			ID:       z.ID,
			Name:     z.Name,
			Ranges:   append([]PostcodeRange(nil), z.Ranges...),
			Delivery: z.Estimate,
			Rates:    make(map[Method][]BandDocument),
		}
		for _, m := range t.methods {
			for _, b := range t.bands[bandKey{zoneID: z.ID, method: m.Code}] {
				bd := BandDocument{
					ID:          b.ID,
					Min:         b.MinWeight.InexactFloat64(),
					Cost:        b.Cost.Float64(),
					Description: b.Description,
				}
				if b.MaxWeight != nil {
					mx := b.MaxWeight.InexactFloat64()
					bd.Max = &mx
				}
				zd.Rates[m.Code] = append(zd.Rates[m.Code], bd)
			}
		}
		doc.Zones = append(doc.Zones, zd)
	}
	for _, r := range t.rules {
		doc.Discounts = append(doc.Discounts, DiscountDocument{
			ID:          r.ID,
			Description: r.Description,
			MinSubtotal: r.MinSubtotal.Float64(),
			Methods:     append([]Method(nil), r.Methods...),
			Effect:      string(r.Effect),
		})
	}
	return doc
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
