package valueobject

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Address is a value object representing an Australian delivery address
// It is immutable - all operations return new Address instances
type Address struct {
	street   string
	city     string
	state    string
	postcode string
	country  string
}

// DefaultCountry is used when no country is supplied
const DefaultCountry = "Australia"

var postcodePattern = regexp.MustCompile(`^\d{4}$`)

// Australian states and territories accepted in the state field
var validStates = map[string]bool{
	"ACT": true,
	"NSW": true,
	"NT":  true,
	"QLD": true,
	"SA":  true,
	"TAS": true,
	"VIC": true,
	"WA":  true,
}

// ErrInvalidPostcode is returned when a postcode is not exactly four digits
var ErrInvalidPostcode = errors.New("postcode must be exactly 4 digits")

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithCountry sets the country for the address
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		a.country = strings.TrimSpace(country)
	}
}

// NewAddress creates a new Address with the required fields.
// All fields are trimmed and the state is upper-cased.
func NewAddress(street, city, state, postcode string, opts ...AddressOption) (Address, error) {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	state = strings.ToUpper(strings.TrimSpace(state))
	postcode = strings.TrimSpace(postcode)

	if street == "" {
		return Address{}, errors.New("street cannot be empty")
	}
	if len(street) > 200 {
		return Address{}, errors.New("street cannot exceed 200 characters")
	}
	if city == "" {
		return Address{}, errors.New("city cannot be empty")
	}
	if len(city) > 100 {
		return Address{}, errors.New("city cannot exceed 100 characters")
	}
	if !validStates[state] {
		return Address{}, fmt.Errorf("invalid state: %q", state)
	}
	if err := ValidatePostcode(postcode); err != nil {
		return Address{}, err
	}

	addr := Address{
		street:   street,
		city:     city,
		state:    state,
		postcode: postcode,
		country:  DefaultCountry,
	}
	for _, opt := range opts {
		opt(&addr)
	}
	if addr.country == "" {
		addr.country = DefaultCountry
	}
	return addr, nil
}

// ValidatePostcode checks that the trimmed postcode is exactly four ASCII digits
func ValidatePostcode(postcode string) error {
	if !postcodePattern.MatchString(strings.TrimSpace(postcode)) {
		return ErrInvalidPostcode
	}
	return nil
}

// IsValidState reports whether the code names an Australian state or territory
func IsValidState(state string) bool {
	return validStates[strings.ToUpper(strings.TrimSpace(state))]
}

// Street returns the street line
func (a Address) Street() string {
	return a.street
}

// City returns the city or suburb
func (a Address) City() string {
	return a.city
}

// State returns the state code
func (a Address) State() string {
	return a.state
}

// Postcode returns the four digit postcode
func (a Address) Postcode() string {
	return a.postcode
}

// Country returns the country
func (a Address) Country() string {
	return a.country
}

// IsEmpty returns true if the address is the zero value
func (a Address) IsEmpty() bool {
	return a.street == "" && a.postcode == ""
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a.street == other.street &&
		a.city == other.city &&
		a.state == other.state &&
		a.postcode == other.postcode &&
		a.country == other.country
}

// String returns a single-line representation of the address
func (a Address) String() string {
	return fmt.Sprintf("%s, %s %s %s, %s", a.street, a.city, a.state, a.postcode, a.country)
}
