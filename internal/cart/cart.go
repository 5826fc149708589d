package cart

import (
	"github.com/google/uuid"

	"github.com/nithyasundar/bakehouse-backend/pkg/db/types"
	pkgerrors "github.com/nithyasundar/bakehouse-backend/pkg/errors"
	"github.com/nithyasundar/bakehouse-backend/pkg/pricing"
)

// Line is one cart entry. Identity is the (ProductID, Weight) pair: the
// same product added at a different weight variant becomes a separate
// line.
type Line struct {
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	UnitPrice  float64   `json:"unit_price"`
	Weight     float64   `json:"weight"`
	WeightUnit string    `json:"weight_unit"`
	Quantity   int       `json:"quantity"`
}

// Total is the rounded line total.
func (l Line) Total() int {
	return pricing.LineTotal(l.UnitPrice, l.Quantity)
}

// Cart holds the storefront cart state. Lines keep insertion order.
type Cart struct {
	Lines []Line `json:"lines"`
}

// AddInput describes an add-to-cart request.
type AddInput struct {
	ProductID  uuid.UUID
	Name       string
	UnitPrice  float64
	Weight     *float64
	WeightUnit string
	Quantity   int
}

// Add merges the item into the cart. Matching (product, weight) lines
// accumulate quantity instead of duplicating.
func (c *Cart) Add(input AddInput) error {
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	weight := resolveWeight(input.Weight, input.WeightUnit)
	for i := range c.Lines {
		if c.Lines[i].ProductID == input.ProductID && c.Lines[i].Weight == weight {
			c.Lines[i].Quantity += input.Quantity
			return nil
		}
	}

	c.Lines = append(c.Lines, Line{
		ProductID:  input.ProductID,
		Name:       input.Name,
		UnitPrice:  input.UnitPrice,
		Weight:     weight,
		WeightUnit: input.WeightUnit,
		Quantity:   input.Quantity,
	})
	return nil
}

// UpdateQuantity sets the quantity for the identified line. Zero
// removes the line.
func (c *Cart) UpdateQuantity(productID uuid.UUID, weight float64, quantity int) error {
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].Weight == weight {
			if quantity == 0 {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
				return nil
			}
			c.Lines[i].Quantity = quantity
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
}

// Remove drops the identified line if present.
func (c *Cart) Remove(productID uuid.UUID, weight float64) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].Weight == weight {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Subtotal sums the rounded line totals.
func (c *Cart) Subtotal() int {
	subtotal := 0
	for _, line := range c.Lines {
		subtotal += line.Total()
	}
	return subtotal
}

// ItemCount sums quantities across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

func resolveWeight(weight *float64, unit string) float64 {
	if types.IsPieceUnit(unit) && (weight == nil || *weight == 0) {
		return 1
	}
	if weight == nil {
		return 0
	}
	return *weight
}
