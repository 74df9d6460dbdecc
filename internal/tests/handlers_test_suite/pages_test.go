package handlers_test_suite

import (
	"net/http"
	"strings"
	"testing"

	"github.com/rogerio-castellano/storefront-console/internal/models"
)

func TestStaticPages(t *testing.T) {
	e := newEnv(t)
	b := e.browser()

	tests := []struct {
		path string
		want string
	}{
		{"/", "Welcome to the Storefront"},
		{"/about", "<title>About"},
		{"/contact", "<title>Contact"},
		{"/blog", "<title>Blog"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := b.get(tt.path)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			body := w.Body.String()
			if !strings.Contains(body, tt.want) {
				t.Errorf("expected %q in page", tt.want)
			}
			if !strings.Contains(body, `href="/signin"`) {
				t.Errorf("anonymous navbar should offer sign in")
			}
		})
	}
}

func TestSessionCookieIssuedOnce(t *testing.T) {
	e := newEnv(t)
	b := e.browser()

	first := b.get("/")
	if len(first.Result().Cookies()) != 1 {
		t.Fatalf("expected a session cookie on first visit")
	}
	second := b.get("/about")
	if len(second.Result().Cookies()) != 0 {
		t.Errorf("expected the session cookie to be reused")
	}
}

func TestProductsPage(t *testing.T) {
	e := newEnv(t)
	e.api.AddProduct(models.Product{Name: "Trail Shoe", Description: "Grippy", Price: 89.5, CountInStock: 4})

	w := e.browser().get("/products")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Trail Shoe") || !strings.Contains(body, "$89.50") {
		t.Errorf("expected product row in page, got %s", body)
	}
}

func TestProductsPage_Empty(t *testing.T) {
	e := newEnv(t)

	w := e.browser().get("/products")
	if !strings.Contains(w.Body.String(), "No products found.") {
		t.Errorf("expected empty catalogue notice")
	}
}

func TestProductsPage_APIFailure(t *testing.T) {
	e := newEnv(t)
	e.api.Fail(http.MethodGet, "/products", http.StatusInternalServerError)

	w := e.browser().get("/products")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Error fetching products: Please try again.") {
		t.Errorf("expected error banner")
	}
}

func TestProfile(t *testing.T) {
	e := newEnv(t)
	b := e.browser()

	expectRedirect(t, b.get("/profile"), "/signin")

	b.signIn(t, customerEmail)
	w := b.get("/profile")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, customerEmail) || !strings.Contains(body, "Jane Doe") {
		t.Errorf("expected the stored user on the profile page")
	}
	if strings.Contains(body, "Admin Dashboard") {
		t.Errorf("customers must not see the dashboard link")
	}
}
