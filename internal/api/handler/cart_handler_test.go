package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type stubCartService struct {
	ports.CartService

	lastCart  string
	lastID    int64
	lastQty   int
	lastInfo  ports.ShippingInfo
	changed   bool
	checkout  *ports.CheckoutResult
	returnErr error
}

func (s *stubCartService) view(cartID string) *ports.CartView {
	return &ports.CartView{ID: cartID, Lines: []ports.CartLineView{}}
}

func (s *stubCartService) Get(ctx context.Context, cartID string) (*ports.CartView, error) {
	s.lastCart = cartID
	return s.view(cartID), s.returnErr
}

func (s *stubCartService) AddItem(ctx context.Context, cartID string, productID int64, delta int) (*ports.CartView, error) {
	s.lastCart, s.lastID, s.lastQty = cartID, productID, delta
	if s.returnErr != nil {
		return nil, s.returnErr
	}
	return s.view(cartID), nil
}

func (s *stubCartService) SetQuantity(ctx context.Context, cartID string, productID int64, qty int) (*ports.CartView, bool, error) {
	s.lastCart, s.lastID, s.lastQty = cartID, productID, qty
	return s.view(cartID), s.changed, s.returnErr
}

func (s *stubCartService) Checkout(ctx context.Context, cartID string, info ports.ShippingInfo) (*ports.CheckoutResult, error) {
	s.lastCart, s.lastInfo = cartID, info
	if s.returnErr != nil {
		return nil, s.returnErr
	}
	return s.checkout, nil
}

func TestCartHandler_AssignsCartID(t *testing.T) {
	e := newTestEcho()
	svc := &stubCartService{}
	h := NewCartHandler(svc, testCookies)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/cart", nil), rec)

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	id := rec.Header().Get(CartHeader)
	if id == "" || id != svc.lastCart {
		t.Fatalf("expected generated cart id in header, got %q (service saw %q)", id, svc.lastCart)
	}
	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CartCookie {
			cookie = ck
		}
	}
	if cookie == nil || cookie.Value != id {
		t.Fatalf("expected cart cookie %q, got %+v", id, cookie)
	}
}

func TestCartHandler_UsesProvidedCartID(t *testing.T) {
	e := newTestEcho()

	t.Run("header", func(t *testing.T) {
		svc := &stubCartService{}
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set(CartHeader, "cart-1")
		rec := httptest.NewRecorder()

		_ = NewCartHandler(svc, testCookies).Get(e.NewContext(req, rec))

		if svc.lastCart != "cart-1" {
			t.Fatalf("expected cart-1, got %q", svc.lastCart)
		}
		if rec.Header().Get(CartHeader) != "" {
			t.Fatalf("existing cart must not be reassigned")
		}
	})

	t.Run("cookie", func(t *testing.T) {
		svc := &stubCartService{}
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.AddCookie(&http.Cookie{Name: CartCookie, Value: "cart-2"})

		_ = NewCartHandler(svc, testCookies).Get(e.NewContext(req, httptest.NewRecorder()))

		if svc.lastCart != "cart-2" {
			t.Fatalf("expected cart-2, got %q", svc.lastCart)
		}
	})
}

func TestCartHandler_AddItem_DefaultsQuantity(t *testing.T) {
	e := newTestEcho()
	svc := &stubCartService{}
	h := NewCartHandler(svc, testCookies)

	req := jsonRequest(http.MethodPost, "/cart/items", `{"productId":3}`)
	req.Header.Set(CartHeader, "c")
	rec := httptest.NewRecorder()

	if err := h.AddItem(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.lastID != 3 || svc.lastQty != 1 {
		t.Fatalf("expected product 3 x1, got %d x%d", svc.lastID, svc.lastQty)
	}
}

func TestCartHandler_AddItem_Invalid(t *testing.T) {
	e := newTestEcho()
	h := NewCartHandler(&stubCartService{}, testCookies)

	for _, body := range []string{
		`{}`,
		`{"productId":-1}`,
		`{"productId":1,"quantity":-2}`,
		`{"productId":1,"quantity":10001}`,
		`{"productId":1,"quantity":9223372036854775807}`,
	} {
		req := jsonRequest(http.MethodPost, "/cart/items", body)
		req.Header.Set(CartHeader, "c")

		err := h.AddItem(e.NewContext(req, httptest.NewRecorder()))
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", body, err)
		}
	}
}

func TestCartHandler_SetQuantity(t *testing.T) {
	e := newTestEcho()
	svc := &stubCartService{changed: true}
	h := NewCartHandler(svc, testCookies)

	req := jsonRequest(http.MethodPut, "/cart/items/2", `{"quantity":0}`)
	req.Header.Set(CartHeader, "c")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("productId")
	c.SetParamValues("2")

	if err := h.SetQuantity(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.lastID != 2 || svc.lastQty != 0 {
		t.Fatalf("unexpected call: %d x%d", svc.lastID, svc.lastQty)
	}
	if changed := decodeMap(t, rec)["changed"]; changed != true {
		t.Fatalf("expected changed=true, got %v", changed)
	}
}

func TestCartHandler_SetQuantity_AboveLimit(t *testing.T) {
	e := newTestEcho()
	svc := &stubCartService{}
	h := NewCartHandler(svc, testCookies)

	req := jsonRequest(http.MethodPut, "/cart/items/2", `{"quantity":10001}`)
	req.Header.Set(CartHeader, "c")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("productId")
	c.SetParamValues("2")

	err := h.SetQuantity(c)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "quantity must be at most 10000") {
		t.Fatalf("unexpected message: %v", err)
	}
	if svc.lastID != 0 {
		t.Fatalf("service must not be called for a rejected quantity")
	}
}

func TestCartHandler_SetQuantity_BadProductID(t *testing.T) {
	e := newTestEcho()
	h := NewCartHandler(&stubCartService{}, testCookies)

	c := e.NewContext(jsonRequest(http.MethodPut, "/cart/items/x", `{"quantity":1}`), httptest.NewRecorder())
	c.SetParamNames("productId")
	c.SetParamValues("x")

	if err := h.SetQuantity(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCartHandler_Checkout(t *testing.T) {
	e := newTestEcho()
	svc := &stubCartService{checkout: &ports.CheckoutResult{
		Order:   &domain.Order{ID: "ORD-002", CustomerName: "Ana", Amount: 19.99},
		Message: "Payment of ₱19.99 processed with card",
	}}
	h := NewCartHandler(svc, testCookies)

	req := jsonRequest(http.MethodPost, "/checkout", `{"name":"Ana","address":"Main St","paymentMethod":"card","total":19.99}`)
	req.Header.Set(CartHeader, "c")
	rec := httptest.NewRecorder()

	if err := h.Checkout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.lastInfo.Name != "Ana" || svc.lastInfo.PaymentMethod != "card" || svc.lastInfo.Total != 19.99 {
		t.Fatalf("unexpected shipping info: %+v", svc.lastInfo)
	}

	resp := decodeMap(t, rec)
	if resp["success"] != true || resp["message"] != "Payment of ₱19.99 processed with card" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	order, _ := resp["order"].(map[string]any)
	if order["id"] != "ORD-002" {
		t.Fatalf("unexpected order: %+v", resp["order"])
	}
}

func TestCartHandler_Checkout_PropagatesConflict(t *testing.T) {
	e := newTestEcho()
	h := NewCartHandler(&stubCartService{returnErr: domain.ErrConflict}, testCookies)

	req := jsonRequest(http.MethodPost, "/checkout", `{"name":"A","address":"B","paymentMethod":"card","total":1}`)
	req.Header.Set(CartHeader, "c")

	if err := h.Checkout(e.NewContext(req, httptest.NewRecorder())); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
