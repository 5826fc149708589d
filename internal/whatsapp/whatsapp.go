package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nithyasundar/bakehouse-backend/pkg/db/models"
	pkgerrors "github.com/nithyasundar/bakehouse-backend/pkg/errors"
)

// Builder renders order confirmations as wa.me links pointed at the
// bakery's admin number.
type Builder struct {
	adminNumber string
}

// NewBuilder validates the configured admin number.
func NewBuilder(adminNumber string) (*Builder, error) {
	digits := digitsOnly(adminNumber)
	if len(digits) < 10 {
		return nil, fmt.Errorf("whatsapp admin number %q too short", adminNumber)
	}
	return &Builder{adminNumber: digits}, nil
}

// OrderMessage renders the plain-text order summary sent to the bakery.
// Line totals are listed per item; the subtotal excludes shipping and
// discount, which the bakery confirms manually.
func (b *Builder) OrderMessage(order *models.Order) (string, error) {
	if order == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order required")
	}

	var sb strings.Builder
	sb.WriteString("New order from " + order.CustomerName + "\n")
	if order.CustomerPhone != "" {
		sb.WriteString("Phone: " + order.CustomerPhone + "\n")
	}
	if order.CustomerAddress != "" {
		sb.WriteString("Address: " + order.CustomerAddress + "\n")
	}
	if order.DeliveryDate != nil {
		sb.WriteString("Expected Delivery: " + order.DeliveryDate.Format("02 Jan 2006") + "\n")
	}
	sb.WriteString("\n")
	for i, item := range order.Items {
		sb.WriteString(fmt.Sprintf("%d. %s x %d = %d\n", i+1, item.ProductName, item.Quantity, item.Total))
	}
	sb.WriteString(fmt.Sprintf("\nSubtotal: %d\n", order.Subtotal))
	sb.WriteString("Shipping and any discount will be confirmed separately.")
	return sb.String(), nil
}

// OrderLink builds the wa.me URL carrying the rendered message.
func (b *Builder) OrderLink(order *models.Order) (string, error) {
	message, err := b.OrderMessage(order)
	if err != nil {
		return "", err
	}
	return "https://wa.me/" + b.adminNumber + "?text=" + url.QueryEscape(message), nil
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
