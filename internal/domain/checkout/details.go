package checkout

import (
	"regexp"
	"strings"

	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
	cardPattern   = regexp.MustCompile(`^\d{12,19}$`)
)

// ContactInfo is collected at the INFORMATION stage
type ContactInfo struct {
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Newsletter bool   `json:"newsletter"`
}

func (c ContactInfo) normalized() ContactInfo {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	return c
}

func (c *ContactInfo) validate(v *fieldCollector) {
	if c == nil || c.Email == "" {
		v.add("email", "email is required")
		return
	}
	if !emailPattern.MatchString(c.Email) {
		v.add("email", "email is not a valid address")
	}
}

// ShippingAddress is the delivery address collected at the INFORMATION stage
type ShippingAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
}

func (a ShippingAddress) normalized() ShippingAddress {
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
	a.Street = strings.TrimSpace(a.Street)
	a.City = normalizeCity(a.City)
	a.State = strings.ToUpper(strings.TrimSpace(a.State))
	a.Postcode = strings.TrimSpace(a.Postcode)
	a.Country = strings.TrimSpace(a.Country)
	if a.Country == "" {
		a.Country = valueobject.DefaultCountry
	}
	return a
}

// normalizeCity title-cases a city typed entirely in one case and leaves
// mixed-case input such as "McKinnon" alone.
func normalizeCity(city string) string {
	city = strings.Join(strings.Fields(city), " ")
	if city == strings.ToLower(city) || city == strings.ToUpper(city) {
		return cases.Title(language.English).String(city)
	}
	return city
}

func (a *ShippingAddress) validate(v *fieldCollector) {
	if a == nil {
		v.add("address", "shipping address is required")
		return
	}
	if a.FirstName == "" {
		v.add("firstName", "first name is required")
	}
	if a.LastName == "" {
		v.add("lastName", "last name is required")
	}
	if a.Street == "" {
		v.add("street", "street is required")
	}
	if a.City == "" {
		v.add("city", "city is required")
	}
	if a.State == "" {
		v.add("state", "state is required")
	} else if !valueobject.IsValidState(a.State) {
		v.add("state", "state must be an Australian state or territory")
	}
	if a.Postcode == "" {
		v.add("postcode", "postcode is required")
	} else if valueobject.ValidatePostcode(a.Postcode) != nil {
		v.add("postcode", "postcode must be exactly 4 digits")
	}
	switch {
	case a.Country == "":
		v.add("country", "country is required")
	case !strings.EqualFold(a.Country, valueobject.DefaultCountry) && !strings.EqualFold(a.Country, "AU"):
		v.add("country", "we only ship within Australia")
	}
}

// ToAddress converts to the Address value object
func (a ShippingAddress) ToAddress() (valueobject.Address, error) {
	return valueobject.NewAddress(a.Street, a.City, a.State, a.Postcode, valueobject.WithCountry(a.Country))
}

// PaymentMethod is how the customer intends to pay
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentPayPal     PaymentMethod = "paypal"
	PaymentAfterpay   PaymentMethod = "afterpay"
)

// IsValid checks if the payment method is supported
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCreditCard, PaymentPayPal, PaymentAfterpay:
		return true
	}
	return false
}

// PaymentInfo is collected at the PAYMENT stage. Card fields are only
// required for credit_card; no gateway call is made with them.
type PaymentInfo struct {
	Method     PaymentMethod `json:"method"`
	CardNumber string        `json:"card_number,omitempty"`
	Expiry     string        `json:"expiry,omitempty"`
	CVV        string        `json:"cvv,omitempty"`
	NameOnCard string        `json:"name_on_card,omitempty"`
	// CardLast4 replaces CardNumber once the card secrets are redacted
	CardLast4 string `json:"card_last4,omitempty"`
}

func (p PaymentInfo) normalized() PaymentInfo {
	p.Method = PaymentMethod(strings.ToLower(strings.TrimSpace(string(p.Method))))
	p.CardNumber = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(p.CardNumber))
	p.Expiry = strings.TrimSpace(p.Expiry)
	p.CVV = strings.TrimSpace(p.CVV)
	p.NameOnCard = strings.TrimSpace(p.NameOnCard)
	if p.Method != PaymentCreditCard {
		p.CardNumber, p.Expiry, p.CVV, p.NameOnCard = "", "", "", ""
	}
	return p
}

func (p *PaymentInfo) validate(v *fieldCollector) {
	if p == nil || p.Method == "" {
		v.add("paymentMethod", "payment method is required")
		return
	}
	if !p.Method.IsValid() {
		v.add("paymentMethod", "payment method is not supported")
		return
	}
	if p.Method != PaymentCreditCard {
		return
	}
	if !cardPattern.MatchString(p.CardNumber) {
		v.add("cardNumber", "card number must be 12 to 19 digits")
	}
	if !expiryPattern.MatchString(p.Expiry) {
		v.add("expiry", "expiry must be in MM/YY format")
	}
	if !cvvPattern.MatchString(p.CVV) {
		v.add("cvv", "CVV must be 3 or 4 digits")
	}
	if p.NameOnCard == "" {
		v.add("nameOnCard", "name on card is required")
	}
}

// PaymentSummary is the masked payment view safe to persist and display
type PaymentSummary struct {
	Method     PaymentMethod `json:"method"`
	CardLast4  string        `json:"card_last4,omitempty"`
	NameOnCard string        `json:"name_on_card,omitempty"`
}

// Masked returns the payment details without card secrets
func (p PaymentInfo) Masked() PaymentSummary {
	s := PaymentSummary{Method: p.Method, NameOnCard: p.NameOnCard, CardLast4: p.CardLast4}
	if n := len(p.CardNumber); n >= 4 {
		s.CardLast4 = p.CardNumber[n-4:]
	}
	return s
}

// Redacted drops the card number, expiry and CVV, keeping what Masked shows
func (p PaymentInfo) Redacted() PaymentInfo {
	m := p.Masked()
	return PaymentInfo{Method: m.Method, NameOnCard: m.NameOnCard, CardLast4: m.CardLast4}
}
