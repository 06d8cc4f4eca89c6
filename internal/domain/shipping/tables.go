package shipping

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Postcode space covered by Australian four digit postcodes
const (
	MinPostcode = 0
	MaxPostcode = 9999
)

type bandKey struct {
	zoneID string
	method Method
}

// Tables is the immutable reference data the resolver reads: zones in
// priority order, rate bands per zone and method, discount rules and the
// method catalogue. Accessors return copies.
type Tables struct {
	zones   []Zone
	bands   map[bandKey][]RateBand
	rules   []DiscountRule
	methods []MethodInfo
}

// NewTables builds Tables from raw definitions. Zone order is kept as the
// priority order. Bands are grouped by zone and method and sorted by
// MinWeight. No invariant checks run here; see Validate.
func NewTables(zones []Zone, bands []RateBand, rules []DiscountRule, methods []MethodInfo) *Tables {
	t := &Tables{
		zones:   make([]Zone, 0, len(zones)),
		bands:   make(map[bandKey][]RateBand),
		rules:   make([]DiscountRule, 0, len(rules)),
		methods: make([]MethodInfo, 0, len(methods)),
	}
	for _, z := range zones {
		t.zones = append(t.zones, z.clone())
	}
	for _, b := range bands {
		k := bandKey{zoneID: b.ZoneID, method: b.Method}
		t.bands[k] = append(t.bands[k], b.clone())
	}
	for k := range t.bands {
		list := t.bands[k]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].MinWeight.LessThan(list[j].MinWeight)
		})
	}
	for _, r := range rules {
		t.rules = append(t.rules, r.clone())
	}
	for _, m := range methods {
		mc := m
		if m.Estimate != nil {
			e := *m.Estimate
			mc.Estimate = &e
		}
		t.methods = append(t.methods, mc)
	}
	return t
}

// Zones returns the zones in priority order
func (t *Tables) Zones() []Zone {
	out := make([]Zone, len(t.zones))
	for i, z := range t.zones {
		out[i] = z.clone()
	}
	return out
}

// Zone returns the zone with the given ID
func (t *Tables) Zone(id string) (Zone, bool) {
	for _, z := range t.zones {
		if z.ID == id {
			return z.clone(), true
		}
	}
	return Zone{}, false
}

// Bands returns the bands of a zone for a method in ascending weight order
func (t *Tables) Bands(zoneID string, method Method) []RateBand {
	src := t.bands[bandKey{zoneID: zoneID, method: method}]
	out := make([]RateBand, len(src))
	for i, b := range src {
		out[i] = b.clone()
	}
	return out
}

// AllBands returns every band, ordered by zone priority, then method
// catalogue order, then weight. Bands keyed to unknown zones or methods
// are appended last in a stable order.
func (t *Tables) AllBands() []RateBand {
	var out []RateBand
	seen := make(map[bandKey]bool)
	for _, z := range t.zones {
		for _, m := range t.methods {
			k := bandKey{zoneID: z.ID, method: m.Code}
			seen[k] = true
			out = append(out, t.Bands(z.ID, m.Code)...)
		}
	}
	var rest []bandKey
	for k := range t.bands {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		if rest[i].zoneID != rest[j].zoneID {
			return rest[i].zoneID < rest[j].zoneID
		}
		return rest[i].method < rest[j].method
	})
	for _, k := range rest {
		out = append(out, t.Bands(k.zoneID, k.method)...)
	}
	return out
}

// DiscountRules returns the discount rules in evaluation order
func (t *Tables) DiscountRules() []DiscountRule {
	out := make([]DiscountRule, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.clone()
	}
	return out
}

// Methods returns the method catalogue
func (t *Tables) Methods() []MethodInfo {
	out := make([]MethodInfo, len(t.methods))
	copy(out, t.methods)
	for i := range out {
		if out[i].Estimate != nil {
			e := *out[i].Estimate
			out[i].Estimate = &e
		}
	}
	return out
}

// Method returns the catalogue entry for a method code
func (t *Tables) Method(code Method) (MethodInfo, bool) {
	for _, m := range t.Methods() {
		if m.Code == code {
			return m, true
		}
	}
	return MethodInfo{}, false
}

// TableViolation describes one broken invariant in the reference tables
type TableViolation struct {
	ZoneID  string `json:"zoneId,omitempty"`
	Method  Method `json:"method,omitempty"`
	Message string `json:"message"`
}

// String returns a readable form of the violation
func (v TableViolation) String() string {
	switch {
	case v.ZoneID != "" && v.Method != "":
		return fmt.Sprintf("%s/%s: %s", v.ZoneID, v.Method, v.Message)
	case v.ZoneID != "":
		return fmt.Sprintf("%s: %s", v.ZoneID, v.Message)
	case v.Method != "":
		return fmt.Sprintf("%s: %s", v.Method, v.Message)
	}
	return v.Message
}

// Validate checks the invariants administrative edits must preserve:
// a well-defined postcode priority order covering every postcode, and
// full contiguous weight-band coverage from 0 to infinity for every zone
// and method. An empty result means the tables are sound.
func (t *Tables) Validate() []TableViolation {
	var out []TableViolation
	add := func(zoneID string, method Method, format string, args ...any) {
		out = append(out, TableViolation{ZoneID: zoneID, Method: method, Message: fmt.Sprintf(format, args...)})
	}

	if len(t.methods) == 0 {
		add("", "", "no shipping methods defined")
	}
	methodSet := make(map[Method]bool)
	for _, m := range t.methods {
		if m.Code == "" {
			add("", "", "method code cannot be empty")
			continue
		}
		if methodSet[m.Code] {
			add("", m.Code, "duplicate method")
		}
		methodSet[m.Code] = true
		if m.Estimate != nil {
			validateEstimate(*m.Estimate, func(msg string) { add("", m.Code, "%s", msg) })
		}
	}

	if len(t.zones) == 0 {
		add("", "", "no zones defined")
	}
	zoneSet := make(map[string]bool)
	hasCatchAll := false
	var allRanges []PostcodeRange
	for i, z := range t.zones {
		if z.ID == "" {
			add("", "", "zone at position %d has no id", i+1)
		}
		if zoneSet[z.ID] {
			add(z.ID, "", "duplicate zone id")
		}
		zoneSet[z.ID] = true
		if z.Name == "" {
			add(z.ID, "", "zone name cannot be empty")
		}
		if z.IsCatchAll() {
			if i != len(t.zones)-1 {
				add(z.ID, "", "catch-all zone must be last in priority order")
			}
			hasCatchAll = true
		}
		for _, r := range z.Ranges {
			if r.Min > r.Max {
				add(z.ID, "", "postcode range %04d-%04d is inverted", r.Min, r.Max)
			}
			if r.Min < MinPostcode || r.Max > MaxPostcode {
				add(z.ID, "", "postcode range %d-%d is outside %04d-%04d", r.Min, r.Max, MinPostcode, MaxPostcode)
			}
		}
		allRanges = append(allRanges, z.Ranges...)
		validateEstimate(z.Estimate, func(msg string) { add(z.ID, "", "%s", msg) })

		for _, m := range t.methods {
			t.validateBands(z.ID, m.Code, add)
		}
	}
	if len(t.zones) > 0 && !hasCatchAll {
		if gap, ok := firstUncoveredPostcode(allRanges); ok {
			add("", "", "postcode %04d is not covered by any zone and there is no catch-all zone", gap)
		}
	}

	for k := range t.bands {
		if !zoneSet[k.zoneID] {
			add(k.zoneID, k.method, "bands reference an unknown zone")
		}
		if !methodSet[k.method] {
			add(k.zoneID, k.method, "bands reference an unknown method")
		}
	}

	ruleSet := make(map[string]bool)
	for _, r := range t.rules {
		if r.ID == "" {
			add("", "", "discount rule id cannot be empty")
		} else if ruleSet[r.ID] {
			add("", "", "duplicate discount rule %q", r.ID)
		}
		ruleSet[r.ID] = true
		if r.Description == "" {
			add("", "", "discount rule %q has no description", r.ID)
		}
		if r.MinSubtotal.IsNegative() {
			add("", "", "discount rule %q has a negative minimum subtotal", r.ID)
		}
		if r.Effect != EffectFreeShipping {
			add("", "", "discount rule %q has unsupported effect %q", r.ID, r.Effect)
		}
		for _, m := range r.Methods {
			if !methodSet[m] {
				add("", m, "discount rule %q references an unknown method", r.ID)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

func (t *Tables) validateBands(zoneID string, method Method, add func(string, Method, string, ...any)) {
	bands := t.bands[bandKey{zoneID: zoneID, method: method}]
	if len(bands) == 0 {
		add(zoneID, method, "no rate bands defined")
		return
	}
	if !bands[0].MinWeight.IsZero() {
		add(zoneID, method, "first band must start at 0kg, starts at %skg", bands[0].MinWeight)
	}
	ids := make(map[string]bool)
	for i, b := range bands {
		if b.ID != "" {
			if ids[b.ID] {
				add(zoneID, method, "duplicate band id %q", b.ID)
			}
			ids[b.ID] = true
		}
		if b.Cost.IsNegative() {
			add(zoneID, method, "band %q has a negative cost", b.ID)
		}
		if b.MaxWeight != nil && !b.MaxWeight.GreaterThan(b.MinWeight) {
			add(zoneID, method, "band %q has max weight %skg not above min weight %skg", b.ID, b.MaxWeight, b.MinWeight)
		}
		last := i == len(bands)-1
		if b.MaxWeight == nil {
			if !last {
				add(zoneID, method, "only the last band may be unbounded, band %q is not last", b.ID)
			}
			continue
		}
		if last {
			add(zoneID, method, "last band %q must be unbounded, ends at %skg", b.ID, b.MaxWeight)
			continue
		}
		next := bands[i+1].MinWeight
		switch {
		case next.GreaterThan(*b.MaxWeight):
			add(zoneID, method, "gap between %skg and %skg", b.MaxWeight, next)
		case next.LessThan(*b.MaxWeight):
			add(zoneID, method, "bands overlap between %skg and %skg", next, b.MaxWeight)
		}
	}
}

func validateEstimate(e DeliveryEstimate, report func(string)) {
	if e.MinDays < 0 || e.MaxDays < 0 {
		report("delivery estimate cannot be negative")
	}
	if e.MinDays > e.MaxDays {
		report(fmt.Sprintf("delivery estimate min %d exceeds max %d", e.MinDays, e.MaxDays))
	}
	if e.Unit != "" && e.Unit != DeliveryUnit {
		report(fmt.Sprintf("delivery estimate unit must be %q", DeliveryUnit))
	}
}

func firstUncoveredPostcode(ranges []PostcodeRange) (int, bool) {
	sorted := append([]PostcodeRange(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })
	next := MinPostcode
	for _, r := range sorted {
		if r.Min > next {
			return next, true
		}
		if r.Max+1 > next {
			next = r.Max + 1
		}
	}
	if next <= MaxPostcode {
		return next, true
	}
	return 0, false
}

func weightPtr(kg int64) *decimal.Decimal {
	d := decimal.NewFromInt(kg)
	return &d
}
