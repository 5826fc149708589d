package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/nithyasundar/bakehouse-backend/api/middleware"
	"github.com/nithyasundar/bakehouse-backend/internal/orders"
	"github.com/nithyasundar/bakehouse-backend/internal/whatsapp"
	"github.com/nithyasundar/bakehouse-backend/pkg/db/models"
)

func TestCheckoutPlacesGuestOrder(t *testing.T) {
	logg := testControllerLogger()

	var captured orders.CheckoutInput
	stub := &stubOrdersService{
		checkoutFn: func(ctx context.Context, input orders.CheckoutInput) (*models.Order, error) {
			captured = input
			return &models.Order{ID: uuid.New(), CustomerName: input.CustomerName, Subtotal: 900, Total: 855}, nil
		},
	}

	builder, err := whatsapp.NewBuilder("919876543210")
	if err != nil {
		t.Fatalf("builder: %v", err)
	}

	body := strings.NewReader(`{
		"customer_name": "Anu",
		"customer_phone": "9876501234",
		"lines": [{"name": "Fruit Cake", "unit_price": 450, "quantity": 2, "weight": 0.5, "weight_unit": "kg"}],
		"shipping_charges": 50,
		"discount_percent": 10,
		"delivery_date": "2026-09-10"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	Checkout(stub, builder, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.UserID != nil {
		t.Fatalf("guest checkout should carry no user id, got %v", captured.UserID)
	}
	if captured.DiscountPercent != 10 {
		t.Fatalf("expected discount percent 10, got %v", captured.DiscountPercent)
	}
	if len(captured.Lines) != 1 || captured.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected lines: %+v", captured.Lines)
	}
	if captured.DeliveryDate == nil || captured.DeliveryDate.Format("2006-01-02") != "2026-09-10" {
		t.Fatalf("expected delivery date on checkout input, got %v", captured.DeliveryDate)
	}

	var envelope struct {
		Data struct {
			WhatsAppLink string `json:"whatsapp_link"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(envelope.Data.WhatsAppLink, "wa.me/919876543210") {
		t.Fatalf("expected whatsapp link in response, got %q", envelope.Data.WhatsAppLink)
	}
}

func TestCheckoutAttachesSessionUser(t *testing.T) {
	logg := testControllerLogger()
	userID := uuid.New()

	var captured orders.CheckoutInput
	stub := &stubOrdersService{
		checkoutFn: func(ctx context.Context, input orders.CheckoutInput) (*models.Order, error) {
			captured = input
			return &models.Order{ID: uuid.New()}, nil
		},
	}

	body := strings.NewReader(`{
		"customer_name": "Anu",
		"customer_phone": "9876501234",
		"lines": [{"name": "Brownie", "unit_price": 120, "quantity": 1}],
		"shipping_charges": 0,
		"discount_percent": 0
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", body)
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	rec := httptest.NewRecorder()
	Checkout(stub, nil, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.UserID == nil || *captured.UserID != userID {
		t.Fatalf("expected session user on checkout input, got %v", captured.UserID)
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	logg := testControllerLogger()

	body := strings.NewReader(`{
		"customer_name": "Anu",
		"customer_phone": "9876501234",
		"lines": [],
		"shipping_charges": 0,
		"discount_percent": 0
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	Checkout(&stubOrdersService{}, nil, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", rec.Code)
	}
}

func TestCheckoutRejectsMalformedDeliveryDate(t *testing.T) {
	logg := testControllerLogger()

	body := strings.NewReader(`{
		"customer_name": "Anu",
		"customer_phone": "9876501234",
		"lines": [{"name": "Brownie", "unit_price": 120, "quantity": 1}],
		"delivery_date": "10/09/2026"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	Checkout(&stubOrdersService{}, nil, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed delivery date, got %d", rec.Code)
	}
}
