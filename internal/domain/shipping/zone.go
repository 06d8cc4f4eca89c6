package shipping

import (
	"regexp"
	"strconv"
	"strings"
)

// DeliveryUnit is the only unit delivery windows are expressed in
const DeliveryUnit = "business days"

var postcodeFormat = regexp.MustCompile(`^\d{4}$`)

// PostcodeRange is an inclusive interval of numeric postcodes
type PostcodeRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether the postcode value lies within the range
func (r PostcodeRange) Contains(postcode int) bool {
	return postcode >= r.Min && postcode <= r.Max
}

// DeliveryEstimate is a static delivery window
type DeliveryEstimate struct {
	MinDays int    `json:"min" yaml:"min"`
	MaxDays int    `json:"max" yaml:"max"`
	Unit    string `json:"unit" yaml:"unit,omitempty"`
}

// NewDeliveryEstimate creates an estimate in business days
func NewDeliveryEstimate(minDays, maxDays int) DeliveryEstimate {
	return DeliveryEstimate{MinDays: minDays, MaxDays: maxDays, Unit: DeliveryUnit}
}

// Zone is a named group of postcodes sharing a rate table.
// A zone without ranges matches every postcode and must be evaluated last.
type Zone struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Ranges   []PostcodeRange  `json:"ranges"`
	Estimate DeliveryEstimate `json:"estimatedDelivery"`
}

// IsCatchAll reports whether the zone matches any postcode
func (z Zone) IsCatchAll() bool {
	return len(z.Ranges) == 0
}

// Matches reports whether the postcode value belongs to this zone
func (z Zone) Matches(postcode int) bool {
	if z.IsCatchAll() {
		return true
	}
	for _, r := range z.Ranges {
		if r.Contains(postcode) {
			return true
		}
	}
	return false
}

func (z Zone) clone() Zone {
	c := z
	c.Ranges = append([]PostcodeRange(nil), z.Ranges...)
	return c
}

// ParsePostcode trims the input and converts a four digit postcode to its
// numeric value. Anything else is an InvalidInputError.
func ParsePostcode(s string) (string, int, error) {
	s = strings.TrimSpace(s)
	if !postcodeFormat.MatchString(s) {
		return "", 0, newInvalidInput("postcode", "must be exactly 4 digits")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return "", 0, newInvalidInput("postcode", "must be numeric")
	}
	return s, n, nil
}
