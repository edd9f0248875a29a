package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/divinobizcochito/storefront-backend/api/middleware"
	"github.com/divinobizcochito/storefront-backend/internal/cart"
	"github.com/divinobizcochito/storefront-backend/pkg/enums"
	"github.com/divinobizcochito/storefront-backend/pkg/types"
)

type stubCartService struct {
	loaded    *cart.Cart
	lastInput cart.AddItemInput
	lastDelta int
	removed   uuid.UUID
	cleared   bool
}

func (s *stubCartService) Load(ctx context.Context, owner uuid.UUID) (*cart.Cart, error) {
	return s.loaded, nil
}

func (s *stubCartService) AddItem(ctx context.Context, owner uuid.UUID, input cart.AddItemInput) (*cart.Cart, error) {
	s.lastInput = input
	return s.loaded, nil
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, owner uuid.UUID, lineID uuid.UUID, delta int) (*cart.Cart, error) {
	s.lastDelta = delta
	return s.loaded, nil
}

func (s *stubCartService) RemoveItem(ctx context.Context, owner uuid.UUID, lineID uuid.UUID) (*cart.Cart, error) {
	s.removed = lineID
	return s.loaded, nil
}

func (s *stubCartService) Clear(ctx context.Context, owner uuid.UUID) error {
	s.cleared = true
	return nil
}

func (s *stubCartService) QuoteFor(ctx context.Context, owner uuid.UUID, mode enums.DeliveryMode) (*cart.Quote, error) {
	return &cart.Quote{DeliveryMode: mode}, nil
}

func authedRequest(method, target, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	return req.WithContext(ctx)
}

func TestGetCartRequiresUser(t *testing.T) {
	rec := httptest.NewRecorder()
	GetCart(&stubCartService{}, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAddCartItemPassesSelections(t *testing.T) {
	svc := &stubCartService{loaded: &cart.Cart{Items: types.CartLines{}}}
	body := `{"productId":3,"cantidad":2,"topping":"chocolate","relleno":"manjar","mensajePersonalizado":"feliz cumple"}`

	rec := httptest.NewRecorder()
	AddCartItem(svc, testLogger()).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastInput.ProductID != 3 || svc.lastInput.Topping != "chocolate" || svc.lastInput.Filling != "manjar" {
		t.Fatalf("unexpected input %+v", svc.lastInput)
	}
	if svc.lastInput.Message != "feliz cumple" {
		t.Fatalf("expected personalization message, got %q", svc.lastInput.Message)
	}
}

func TestAddCartItemRejectsMissingTopping(t *testing.T) {
	svc := &stubCartService{loaded: &cart.Cart{}}
	body := `{"productId":3,"relleno":"manjar"}`

	rec := httptest.NewRecorder()
	AddCartItem(svc, testLogger()).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUpdateCartItemRejectsWildDelta(t *testing.T) {
	svc := &stubCartService{loaded: &cart.Cart{}}
	lineID := uuid.New()

	req := authedRequest(http.MethodPatch, "/api/v1/cart/items/"+lineID.String(), `{"delta":5}`)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("lineID", lineID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	UpdateCartItem(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestRemoveCartItemParsesLineID(t *testing.T) {
	svc := &stubCartService{loaded: &cart.Cart{}}
	lineID := uuid.New()

	req := authedRequest(http.MethodDelete, "/api/v1/cart/items/"+lineID.String(), "")
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("lineID", lineID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	RemoveCartItem(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.removed != lineID {
		t.Fatalf("expected removal of %s got %s", lineID, svc.removed)
	}
}

func TestQuoteCartRequiresDeliveryMode(t *testing.T) {
	svc := &stubCartService{}

	rec := httptest.NewRecorder()
	QuoteCart(svc, testLogger()).ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/cart/quote", ""))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	QuoteCart(svc, testLogger()).ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/cart/quote?modoEntrega=envio", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
