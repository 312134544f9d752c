package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"petmarket/internal/domain"
	cartsvc "petmarket/internal/service/cart"
)

func TestCart_RequiresIdentity(t *testing.T) {
	router := mustRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", rec.Code)
	}
}

func TestCart_GuestTokenWorks(t *testing.T) {
	deps := testDeps()
	deps.AccountSvc = &stubAccountSvc{guestID: "guest-42"}
	router := mustRouter(t, deps)

	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer guest-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with guest token, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCart_AddItemDefaultsQuantity(t *testing.T) {
	deps := testDeps()
	deps.AccountSvc = &stubAccountSvc{user: &domain.User{ID: "u1", Role: domain.RoleCustomer}}
	router := mustRouter(t, deps)

	body := `{"petId":"p1"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"quantity":1`) {
		t.Fatalf("expected quantity default 1: %s", rec.Body.String())
	}
}

func TestCart_Quote(t *testing.T) {
	deps := testDeps()
	deps.AccountSvc = &stubAccountSvc{user: &domain.User{ID: "u1", Role: domain.RoleCustomer}}
	deps.CartSvc = &stubCartSvc{quote: &cartsvc.Quote{ItemsPrice: 200000, ShippingFee: 30000, Discount: 0, Total: 230000}}
	router := mustRouter(t, deps)

	req := httptest.NewRequest(http.MethodGet, "/v1/cart/quote?coupon=SAVE", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"total":230000`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCouponValidate_AgainstCartSubtotal(t *testing.T) {
	deps := testDeps()
	deps.AccountSvc = &stubAccountSvc{user: &domain.User{ID: "u1", Role: domain.RoleCustomer}}
	deps.CouponSvc = &stubCouponSvc{discount: 25000}
	router := mustRouter(t, deps)

	body := `{"code":"SAVE25"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/coupons/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"discount":25000`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
