package checkout

import (
	"strings"

	"github.com/google/uuid"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/partsshop/storefront/internal/domain/shipping"
)

// CartLine is a snapshot of one cart item taken when checkout starts
type CartLine struct {
	ProductID  uuid.UUID          `json:"product_id"`
	Name       string             `json:"name"`
	UnitPrice  valueobject.Money  `json:"unit_price"`
	Quantity   int                `json:"quantity"`
	UnitWeight valueobject.Weight `json:"unit_weight"`
}

// NewCartLine creates a validated cart line
func NewCartLine(productID uuid.UUID, name string, unitPrice valueobject.Money, quantity int, unitWeight valueobject.Weight) (CartLine, error) {
	name = strings.TrimSpace(name)
	if productID == uuid.Nil {
		return CartLine{}, shared.NewDomainError(shared.CodeInvalidInput, "Product ID cannot be empty")
	}
	if name == "" {
		return CartLine{}, shared.NewDomainError(shared.CodeInvalidInput, "Product name cannot be empty")
	}
	if quantity <= 0 {
		return CartLine{}, shared.NewDomainError(shared.CodeInvalidInput, "Quantity must be positive")
	}
	if unitPrice.Currency() != valueobject.DefaultCurrency {
		return CartLine{}, shared.NewDomainError(shared.CodeInvalidInput, "Unit price must be in "+string(valueobject.DefaultCurrency))
	}
	if unitPrice.IsNegative() {
		return CartLine{}, shared.NewDomainError(shared.CodeInvalidInput, "Unit price cannot be negative")
	}
	return CartLine{
		ProductID:  productID,
		Name:       name,
		UnitPrice:  unitPrice,
		Quantity:   quantity,
		UnitWeight: unitWeight,
	}, nil
}

// LineTotal returns unit price x quantity
func (l CartLine) LineTotal() valueobject.Money {
	return l.UnitPrice.MultiplyByInt(int64(l.Quantity))
}

// Cart is the ordered list of lines held by a session
type Cart []CartLine

// Subtotal returns the sum of line totals, zero for an empty cart
func (c Cart) Subtotal() valueobject.Money {
	return shipping.Subtotal(c.shippingItems())
}

// TotalWeight returns the combined weight of all lines
func (c Cart) TotalWeight() valueobject.Weight {
	return shipping.TotalWeight(c.shippingItems())
}

// ItemCount returns the total quantity across lines
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c {
		n += l.Quantity
	}
	return n
}

func (c Cart) shippingItems() []shipping.CartItem {
	items := make([]shipping.CartItem, len(c))
	for i, l := range c {
		items[i] = shipping.CartItem{Price: l.UnitPrice, Quantity: l.Quantity, UnitWeight: l.UnitWeight}
	}
	return items
}
