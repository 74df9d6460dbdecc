package handlers_test_suite

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	rl "github.com/rogerio-castellano/storefront-console/internal/http/rate_limiter"
)

func TestSignIn_AdminGoesToDashboard(t *testing.T) {
	e := newEnv(t)
	b := e.browser()

	w := b.postForm("/signin", url.Values{"email": {adminEmail}, "password": {password}})
	expectRedirect(t, w, "/admin")

	page := b.get("/")
	if !strings.Contains(page.Body.String(), "Admin Dashboard") {
		t.Errorf("admins should see the dashboard link outside the dashboard")
	}
}

func TestSignIn_CustomerGoesToLanding(t *testing.T) {
	e := newEnv(t)
	b := e.browser()

	w := b.postForm("/signin", url.Values{"email": {customerEmail}, "password": {password}})
	expectRedirect(t, w, "/")

	expectRedirect(t, b.get("/admin"), "/")
}

func TestSignIn_AdminFlagFromToken(t *testing.T) {
	e := newEnv(t)
	e.api.SetLoginOmitsAdminFlag(true)
	b := e.browser()

	w := b.postForm("/signin", url.Values{"email": {adminEmail}, "password": {password}})
	expectRedirect(t, w, "/admin")

	sid := b.cookies["sid"].Value
	u, err := e.sessions.Load(context.Background(), sid)
	if err != nil {
		t.Fatalf("expected a stored user: %v", err)
	}
	if !u.IsAdmin || u.ID != e.admin.Key() {
		t.Errorf("expected admin %s from token claims, got %+v", e.admin.Key(), u)
	}
}

func TestSignIn_Failures(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		want      string
		wantCalls int
	}{
		{"missing password", url.Values{"email": {adminEmail}}, "Email and password are required.", 0},
		{"blank email", url.Values{"email": {"  "}, "password": {password}}, "Email and password are required.", 0},
		{"wrong password", url.Values{"email": {adminEmail}, "password": {"nope"}}, "Sign in failed. Please check your credentials and try again.", 1},
		{"unknown user", url.Values{"email": {"ghost@example.com"}, "password": {password}}, "Sign in failed. Please check your credentials and try again.", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			b := e.browser()

			w := b.postForm("/signin", tt.form)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("expected %q in page", tt.want)
			}
			if got := e.api.CallCount(http.MethodPost, "/users/login"); got != tt.wantCalls {
				t.Errorf("expected %d login calls, got %d", tt.wantCalls, got)
			}
			if _, err := e.sessions.Load(context.Background(), b.cookies["sid"].Value); err == nil {
				t.Errorf("a failed sign in must not store a user")
			}
		})
	}
}

func TestSignUp(t *testing.T) {
	e := newEnv(t)
	b := e.browser()

	w := b.postForm("/signup", url.Values{
		"name":     {"New Person"},
		"email":    {"new@example.com"},
		"password": {"pw"},
		"city":     {"Lisbon"},
	})
	expectRedirect(t, w, "/")

	var found bool
	for _, u := range e.api.Users() {
		if u.Email == "new@example.com" {
			found = true
			if u.City != "Lisbon" {
				t.Errorf("expected optional fields to be sent, got %+v", u)
			}
		}
	}
	if !found {
		t.Fatalf("expected the account to be registered")
	}

	expectRedirect(t, b.get("/profile"), "/signin")
}

func TestSignUp_Failures(t *testing.T) {
	e := newEnv(t)
	b := e.browser()

	w := b.postForm("/signup", url.Values{"name": {"No Email"}, "password": {"pw"}})
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Name, email, and password are required.") {
		t.Fatalf("expected missing fields error, got %d", w.Code)
	}
	if e.api.CallCount(http.MethodPost, "/users/register") != 0 {
		t.Errorf("invalid registration must not reach the API")
	}

	w = b.postForm("/signup", url.Values{"name": {"Dup"}, "email": {customerEmail}, "password": {"pw"}})
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Registration failed. Please try again.") {
		t.Fatalf("expected registration failure, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `value="Dup"`) {
		t.Errorf("expected the form to keep what was typed")
	}
}

func TestSignOut(t *testing.T) {
	e := newEnv(t)
	b := e.browser()
	b.signIn(t, adminEmail)
	if w := b.get("/admin"); w.Code != http.StatusOK {
		t.Fatalf("expected dashboard, got %d", w.Code)
	}

	expectRedirect(t, b.postForm("/signout", nil), "/")

	expectRedirect(t, b.get("/admin"), "/")
	if !strings.Contains(b.get("/").Body.String(), `href="/signin"`) {
		t.Errorf("expected anonymous navbar after sign out")
	}
}

func TestSignIn_RateLimited(t *testing.T) {
	e := newEnv(t, withVisitors(rl.NewVisitors(0.001, 1)))
	b := e.browser()

	b.signIn(t, customerEmail)
	w := b.postForm("/signin", url.Values{"email": {customerEmail}, "password": {password}})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	if w := b.get("/signin"); w.Code != http.StatusOK {
		t.Errorf("the sign in page itself is not throttled, got %d", w.Code)
	}
}
