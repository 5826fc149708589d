package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nithyasundar/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/nithyasundar/bakehouse-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupOrdersTestDB(t)
	svc, err := NewService(NewRepository(db), testTxRunner{db: db})
	require.NoError(t, err)
	return svc, db
}

func ptr[T any](v T) *T {
	return &v
}

func TestServiceCheckout_derivesTotals(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.Checkout(context.Background(), CheckoutInput{
		CustomerName:  "Meera",
		CustomerPhone: "9000000000",
		Lines: []CheckoutLine{
			{ProductID: ptr(uuid.New()), Name: "Sourdough Loaf", UnitPrice: 199.4, Quantity: 3},
			{ProductID: ptr(uuid.New()), Name: "Veg Puff", UnitPrice: 74.8, Quantity: 2},
		},
		ShippingCharges: 50,
		DiscountPercent: 10,
	})
	require.NoError(t, err)

	// 199.4*3 = 598.2 -> 598; 74.8*2 = 149.6 -> 150; subtotal 748
	// discount 10% of 748 = 74.8 -> 75; total 748 + 50 - 75 = 723
	assert.Equal(t, 748, order.Subtotal)
	assert.Equal(t, 75.0, order.DiscountAmount)
	assert.Equal(t, 723, order.Total)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 598, order.Items[0].Total)
	assert.Equal(t, 150, order.Items[1].Total)
}

func TestServiceCheckout_mergesDuplicateLines(t *testing.T) {
	svc, _ := newTestService(t)

	productID := uuid.New()
	order, err := svc.Checkout(context.Background(), CheckoutInput{
		CustomerName:  "Kavya",
		CustomerPhone: "9222222222",
		Lines: []CheckoutLine{
			{ProductID: ptr(productID), Name: "Chocolate Cake", UnitPrice: 500, Quantity: 1, Weight: ptr(0.5)},
			{ProductID: ptr(productID), Name: "Chocolate Cake", UnitPrice: 500, Quantity: 2, Weight: ptr(0.5)},
			{ProductID: ptr(productID), Name: "Chocolate Cake", UnitPrice: 900, Quantity: 1, Weight: ptr(1.0)},
		},
	})
	require.NoError(t, err)

	// Same product at the same weight collapses; a different weight
	// stays its own line.
	require.Len(t, order.Items, 2)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 1500, order.Items[0].Total)
	assert.Equal(t, 1, order.Items[1].Quantity)
	assert.Equal(t, 900, order.Items[1].Total)
	assert.Equal(t, 2400, order.Subtotal)
}

func TestServiceCheckout_carriesDeliveryDate(t *testing.T) {
	svc, _ := newTestService(t)

	delivery := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	order, err := svc.Checkout(context.Background(), CheckoutInput{
		CustomerName:  "Meera",
		CustomerPhone: "9000000000",
		Lines: []CheckoutLine{
			{Name: "Plum Cake", UnitPrice: 350, Quantity: 1},
		},
		DeliveryDate: &delivery,
	})
	require.NoError(t, err)
	require.NotNil(t, order.DeliveryDate)
	assert.True(t, order.DeliveryDate.Equal(delivery))
}

func TestServiceCheckout_pieceLineDefaultsWeight(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.Checkout(context.Background(), CheckoutInput{
		CustomerName:  "Arjun",
		CustomerPhone: "9111111111",
		Lines: []CheckoutLine{
			{Name: "Egg Puff", UnitPrice: 30, Quantity: 2, WeightUnit: ptr("pieces")},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	require.NotNil(t, order.Items[0].Weight)
	assert.Equal(t, 1.0, *order.Items[0].Weight)
}

func TestServiceCheckout_validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Checkout(ctx, CheckoutInput{CustomerPhone: "9", Lines: []CheckoutLine{{Name: "Bun", UnitPrice: 10, Quantity: 1}}})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Checkout(ctx, CheckoutInput{CustomerName: "A", CustomerPhone: "9"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Checkout(ctx, CheckoutInput{
		CustomerName:    "A",
		CustomerPhone:   "9",
		Lines:           []CheckoutLine{{Name: "Bun", UnitPrice: 10, Quantity: 1}},
		DiscountPercent: 120,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceUpdateOrder_absoluteDiscountReconcilesTotal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.Checkout(ctx, CheckoutInput{
		CustomerName:  "Meera",
		CustomerPhone: "9000000000",
		Lines: []CheckoutLine{
			{Name: "Fruit Cake", UnitPrice: 400, Quantity: 1},
		},
		ShippingCharges: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, 460, order.Total)

	updated, err := svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{
		DiscountAmount: ptr(35.5),
	})
	require.NoError(t, err)
	assert.Equal(t, 400, updated.Subtotal)
	assert.Equal(t, 35.5, updated.DiscountAmount)
	// 400 + 60 - 35.5 = 424.5 -> 425
	assert.Equal(t, 425, updated.Total)
}

func TestServiceUpdateOrder_replacingItemsRecomputesEverything(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.Checkout(ctx, CheckoutInput{
		CustomerName:  "Meera",
		CustomerPhone: "9000000000",
		Lines: []CheckoutLine{
			{Name: "Fruit Cake", UnitPrice: 400, Quantity: 1},
		},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{
		ShippingCharges: ptr(50.0),
		Items: []UpdateOrderItemInput{
			{Name: "Fruit Cake", UnitPrice: 400, Quantity: 2},
			{Name: "Brownie", UnitPrice: 120.5, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)
	// 800 + 121 (120.5 rounds up) = 921; + 50 shipping = 971
	assert.Equal(t, 921, updated.Subtotal)
	assert.Equal(t, 971, updated.Total)
}

func TestServiceUpdateOrder_statusAndShipment(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.Checkout(ctx, CheckoutInput{
		CustomerName:  "Meera",
		CustomerPhone: "9000000000",
		Lines:         []CheckoutLine{{Name: "Bun", UnitPrice: 20, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{
		Status:         ptr(enums.OrderStatusShipped),
		ShipmentNumber: ptr("AWB123456"),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.Status)
	require.NotNil(t, updated.ShipmentNumber)
	assert.Equal(t, "AWB123456", *updated.ShipmentNumber)

	_, err = svc.UpdateStatus(ctx, order.ID, enums.OrderStatus("lost"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceUpdateOrder_notFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateOrder(context.Background(), uuid.New(), UpdateOrderInput{CustomerName: ptr("X")})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceDeleteOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.Checkout(ctx, CheckoutInput{
		CustomerName:  "Meera",
		CustomerPhone: "9000000000",
		Lines:         []CheckoutLine{{Name: "Bun", UnitPrice: 20, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))

	_, err = svc.GetOrder(ctx, order.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceListOrdersByUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	userID := uuid.New()
	_, err := svc.Checkout(ctx, CheckoutInput{
		UserID:        &userID,
		CustomerName:  "Meera",
		CustomerPhone: "9000000000",
		Lines:         []CheckoutLine{{Name: "Bun", UnitPrice: 20, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = svc.Checkout(ctx, CheckoutInput{
		CustomerName:  "Guest",
		CustomerPhone: "9222222222",
		Lines:         []CheckoutLine{{Name: "Rusk", UnitPrice: 50, Quantity: 1}},
	})
	require.NoError(t, err)

	mine, err := svc.ListOrdersByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Meera", mine[0].CustomerName)
}
