package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nithyasundar/bakehouse-backend/internal/cart"
	"github.com/nithyasundar/bakehouse-backend/pkg/db/models"
	"github.com/nithyasundar/bakehouse-backend/pkg/db/types"
	"github.com/nithyasundar/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/nithyasundar/bakehouse-backend/pkg/errors"
	"github.com/nithyasundar/bakehouse-backend/pkg/pricing"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order operations beyond repository reads.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filters OrderFilters) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Checkout places a storefront order. The discount arrives as a
// percentage and is converted to a rounded absolute amount before the
// totals are derived.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	if input.ShippingCharges < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping charges cannot be negative")
	}
	if input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
	}

	lines, err := mergeCheckoutLines(input.Lines)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(lines))
	lineTotals := make([]int, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if strings.TrimSpace(line.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line name required")
		}
		total := pricing.LineTotal(line.UnitPrice, line.Quantity)
		lineTotals = append(lineTotals, total)
		items = append(items, models.OrderItem{
			ID:           uuid.New(),
			ProductID:    line.ProductID,
			ProductName:  line.Name,
			ProductPrice: line.UnitPrice,
			Quantity:     line.Quantity,
			Total:        total,
			Weight:       resolveLineWeight(line.Weight, line.WeightUnit),
			WeightUnit:   line.WeightUnit,
		})
	}

	subtotal := 0
	for _, total := range lineTotals {
		subtotal += total
	}
	discountAmount := float64(pricing.DiscountFromPercent(subtotal, input.DiscountPercent))
	subtotal, grandTotal := pricing.OrderTotals(lineTotals, input.ShippingCharges, discountAmount)

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          input.UserID,
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		CustomerEmail:   strings.TrimSpace(input.CustomerEmail),
		CustomerAddress: strings.TrimSpace(input.CustomerAddress),
		Subtotal:        subtotal,
		ShippingCharges: input.ShippingCharges,
		DiscountAmount:  discountAmount,
		Total:           grandTotal,
		Status:          enums.OrderStatusPending,
		DeliveryDate:    input.DeliveryDate,
		Items:           items,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, filters OrderFilters) ([]models.Order, error) {
	orders, err := s.repo.ListOrders(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

func (s *service) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	orders, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user orders")
	}
	return orders, nil
}

// UpdateOrder applies an admin edit. Monetary fields are reconciled
// eagerly: any change to items, shipping, or discount recomputes the
// stored subtotal and total before the write lands.
func (s *service) UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ShippingCharges != nil && *input.ShippingCharges < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping charges cannot be negative")
	}
	if input.DiscountAmount != nil && *input.DiscountAmount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount amount cannot be negative")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrderByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		updates := map[string]any{}
		if input.CustomerName != nil {
			updates["customer_name"] = strings.TrimSpace(*input.CustomerName)
		}
		if input.CustomerPhone != nil {
			updates["customer_phone"] = strings.TrimSpace(*input.CustomerPhone)
		}
		if input.CustomerEmail != nil {
			updates["customer_email"] = strings.TrimSpace(*input.CustomerEmail)
		}
		if input.CustomerAddress != nil {
			updates["customer_address"] = strings.TrimSpace(*input.CustomerAddress)
		}
		if input.Status != nil {
			updates["status"] = *input.Status
		}
		if input.ShipmentNumber != nil {
			updates["shipment_number"] = *input.ShipmentNumber
		}
		if input.CustomOrderDate != nil {
			updates["custom_order_date"] = *input.CustomOrderDate
		}
		if input.CustomInvoiceDate != nil {
			updates["custom_invoice_date"] = *input.CustomInvoiceDate
		}
		if input.DeliveryDate != nil {
			updates["delivery_date"] = *input.DeliveryDate
		}

		shipping := order.ShippingCharges
		if input.ShippingCharges != nil {
			shipping = *input.ShippingCharges
			updates["shipping_charges"] = shipping
		}
		discount := order.DiscountAmount
		if input.DiscountAmount != nil {
			discount = *input.DiscountAmount
			updates["discount_amount"] = discount
		}

		lineTotals := make([]int, 0, len(order.Items))
		if input.Items != nil {
			items := make([]models.OrderItem, 0, len(input.Items))
			for _, line := range input.Items {
				if line.Quantity <= 0 {
					return pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
				}
				if strings.TrimSpace(line.Name) == "" {
					return pkgerrors.New(pkgerrors.CodeValidation, "line name required")
				}
				total := pricing.LineTotal(line.UnitPrice, line.Quantity)
				lineTotals = append(lineTotals, total)
				items = append(items, models.OrderItem{
					ID:           uuid.New(),
					ProductID:    line.ProductID,
					ProductName:  line.Name,
					ProductPrice: line.UnitPrice,
					Quantity:     line.Quantity,
					Total:        total,
					Weight:       resolveLineWeight(line.Weight, line.WeightUnit),
					WeightUnit:   line.WeightUnit,
				})
			}
			if err := repo.ReplaceOrderItems(ctx, order.ID, items); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order items")
			}
		} else {
			for _, item := range order.Items {
				lineTotals = append(lineTotals, item.Total)
			}
		}

		subtotal, total := pricing.OrderTotals(lineTotals, shipping, discount)
		updates["subtotal"] = subtotal
		updates["total"] = total

		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		reloaded, err := repo.FindOrderByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	return s.UpdateOrder(ctx, id, UpdateOrderInput{Status: &status})
}

func (s *service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindOrderByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if err := repo.DeleteOrder(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return nil
	})
}

// mergeCheckoutLines collapses repeated submissions of the same
// (product, resolved weight) identity into one line with a summed
// quantity. Ad-hoc lines without a product id pass through as sent.
func mergeCheckoutLines(lines []CheckoutLine) ([]CheckoutLine, error) {
	var basket cart.Cart
	merged := make([]CheckoutLine, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == nil {
			merged = append(merged, line)
			continue
		}
		unit := ""
		if line.WeightUnit != nil {
			unit = *line.WeightUnit
		}
		if err := basket.Add(cart.AddInput{
			ProductID:  *line.ProductID,
			Name:       line.Name,
			UnitPrice:  line.UnitPrice,
			Weight:     line.Weight,
			WeightUnit: unit,
			Quantity:   line.Quantity,
		}); err != nil {
			return nil, err
		}
	}
	for _, entry := range basket.Lines {
		productID := entry.ProductID
		line := CheckoutLine{
			ProductID: &productID,
			Name:      entry.Name,
			UnitPrice: entry.UnitPrice,
			Quantity:  entry.Quantity,
		}
		if entry.Weight != 0 {
			weight := entry.Weight
			line.Weight = &weight
		}
		if entry.WeightUnit != "" {
			unit := entry.WeightUnit
			line.WeightUnit = &unit
		}
		merged = append(merged, line)
	}
	return merged, nil
}

func resolveLineWeight(weight *float64, unit *string) *float64 {
	if unit != nil && types.IsPieceUnit(*unit) && (weight == nil || *weight == 0) {
		one := 1.0
		return &one
	}
	return weight
}
