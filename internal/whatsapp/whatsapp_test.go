package whatsapp

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithyasundar/bakehouse-backend/pkg/db/models"
)

func testOrder() *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		CustomerName:  "Meera",
		CustomerPhone: "9000000000",
		Subtotal:      748,
		Total:         723,
		Items: []models.OrderItem{
			{ProductName: "Sourdough Loaf", Quantity: 3, Total: 598},
			{ProductName: "Veg Puff", Quantity: 2, Total: 150},
		},
	}
}

func TestNewBuilder_stripsFormatting(t *testing.T) {
	b, err := NewBuilder("+91 9677349169")
	require.NoError(t, err)

	link, err := b.OrderLink(testOrder())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/919677349169?text="), link)
}

func TestNewBuilder_rejectsShortNumber(t *testing.T) {
	_, err := NewBuilder("12345")
	assert.Error(t, err)
}

func TestOrderMessage_listsLinesAndSubtotal(t *testing.T) {
	b, err := NewBuilder("919677349169")
	require.NoError(t, err)

	msg, err := b.OrderMessage(testOrder())
	require.NoError(t, err)
	assert.Contains(t, msg, "New order from Meera")
	assert.Contains(t, msg, "1. Sourdough Loaf x 3 = 598")
	assert.Contains(t, msg, "2. Veg Puff x 2 = 150")
	assert.Contains(t, msg, "Subtotal: 748")
	assert.Contains(t, msg, "confirmed separately")
	assert.NotContains(t, msg, "Expected Delivery")
}

func TestOrderMessage_includesDeliveryDate(t *testing.T) {
	b, err := NewBuilder("919677349169")
	require.NoError(t, err)

	order := testOrder()
	delivery := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	order.DeliveryDate = &delivery

	msg, err := b.OrderMessage(order)
	require.NoError(t, err)
	assert.Contains(t, msg, "Expected Delivery: 10 Sep 2026")
}

func TestOrderLink_roundTripsMessage(t *testing.T) {
	b, err := NewBuilder("919677349169")
	require.NoError(t, err)

	order := testOrder()
	link, err := b.OrderLink(order)
	require.NoError(t, err)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	decoded := parsed.Query().Get("text")

	expected, err := b.OrderMessage(order)
	require.NoError(t, err)
	assert.Equal(t, expected, decoded)
}
