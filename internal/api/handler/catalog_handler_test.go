package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type stubCatalogService struct {
	ports.CatalogService

	token   string
	input   ports.ProductInput
	patch   domain.ProductPatch
	removed string
	err     error
}

func (s *stubCatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: id, Name: "T-Shirt", Price: 19.99}, nil
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, token string, in ports.ProductInput) (*domain.Product, error) {
	s.token, s.input = token, in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: 7, Name: in.Name, Price: in.Price}, nil
}

func (s *stubCatalogService) UpdateProduct(ctx context.Context, token string, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	s.token, s.patch = token, patch
	return &domain.Product{ID: id}, s.err
}

func (s *stubCatalogService) RemoveCategory(ctx context.Context, token, name string) error {
	s.token, s.removed = token, name
	return s.err
}

func TestCatalogHandler_CreateProduct_ForwardsToken(t *testing.T) {
	e := newTestEcho()
	svc := &stubCatalogService{}
	h := NewCatalogHandler(svc)

	req := jsonRequest(http.MethodPost, "/catalog/products", `{"name":"Cap","price":9.5,"category":"Accessories"}`)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()

	if err := h.CreateProduct(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.token != "admin-token" {
		t.Fatalf("expected bearer token forwarded, got %q", svc.token)
	}
	if svc.input.Name != "Cap" || svc.input.Price != 9.5 || svc.input.Category != "Accessories" {
		t.Fatalf("unexpected input: %+v", svc.input)
	}
}

func TestCatalogHandler_CreateProduct_MissingPrice(t *testing.T) {
	e := newTestEcho()
	svc := &stubCatalogService{}
	h := NewCatalogHandler(svc)

	_ = h.CreateProduct(e.NewContext(jsonRequest(http.MethodPost, "/catalog/products", `{"name":"Cap"}`), httptest.NewRecorder()))

	if !math.IsNaN(svc.input.Price) {
		t.Fatalf("expected missing price to reach the service as NaN, got %v", svc.input.Price)
	}
}

func TestCatalogHandler_CreateProduct_Forbidden(t *testing.T) {
	e := newTestEcho()
	h := NewCatalogHandler(&stubCatalogService{err: domain.ErrForbidden})

	err := h.CreateProduct(e.NewContext(jsonRequest(http.MethodPost, "/catalog/products", `{"name":"Cap","price":1}`), httptest.NewRecorder()))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCatalogHandler_UpdateProduct_PartialPatch(t *testing.T) {
	e := newTestEcho()
	svc := &stubCatalogService{}
	h := NewCatalogHandler(svc)

	c := e.NewContext(jsonRequest(http.MethodPut, "/catalog/products/1", `{"price":25}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.UpdateProduct(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.patch.Price == nil || *svc.patch.Price != 25 {
		t.Fatalf("expected price patch, got %+v", svc.patch)
	}
	if svc.patch.Name != nil || svc.patch.Category != nil {
		t.Fatalf("absent fields must stay nil: %+v", svc.patch)
	}
}

func TestCatalogHandler_GetProduct_BadID(t *testing.T) {
	e := newTestEcho()
	h := NewCatalogHandler(&stubCatalogService{})

	for _, raw := range []string{"abc", "0", "-4"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/catalog/products/"+raw, nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)

		if err := h.GetProduct(c); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", raw, err)
		}
	}
}

func TestCatalogHandler_RemoveCategory_PathOrQuery(t *testing.T) {
	e := newTestEcho()

	t.Run("path", func(t *testing.T) {
		svc := &stubCatalogService{}
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/catalog/categories/Footwear", nil), rec)
		c.SetParamNames("name")
		c.SetParamValues("Footwear")

		if err := NewCatalogHandler(svc).RemoveCategory(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if svc.removed != "Footwear" {
			t.Fatalf("expected Footwear, got %q", svc.removed)
		}
		if msg := decodeMap(t, rec)["message"]; msg != "Category deleted" {
			t.Fatalf("unexpected message: %v", msg)
		}
	})

	t.Run("query", func(t *testing.T) {
		svc := &stubCatalogService{}
		c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/catalog/categories?category=Clothing", nil), httptest.NewRecorder())

		_ = NewCatalogHandler(svc).RemoveCategory(c)

		if svc.removed != "Clothing" {
			t.Fatalf("expected Clothing, got %q", svc.removed)
		}
	})
}
