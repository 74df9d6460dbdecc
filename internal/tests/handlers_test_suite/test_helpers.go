package handlers_test_suite

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rogerio-castellano/storefront-console/internal/apiclient"
	"github.com/rogerio-castellano/storefront-console/internal/apitest"
	"github.com/rogerio-castellano/storefront-console/internal/auth"
	"github.com/rogerio-castellano/storefront-console/internal/dashboard"
	"github.com/rogerio-castellano/storefront-console/internal/http/handlers"
	rl "github.com/rogerio-castellano/storefront-console/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront-console/internal/http/router"
	"github.com/rogerio-castellano/storefront-console/internal/metrics"
	"github.com/rogerio-castellano/storefront-console/internal/models"
	"github.com/rogerio-castellano/storefront-console/internal/resources"
	"github.com/rogerio-castellano/storefront-console/internal/session"
	"github.com/rogerio-castellano/storefront-console/internal/web"
)

const (
	adminEmail    = "admin@example.com"
	customerEmail = "jane@example.com"
	password      = "secret"
	clientAddr    = "192.0.2.10:5555"
)

// env is one console wired against a fresh fake storefront API.
type env struct {
	api      *apitest.Server
	router   http.Handler
	sessions *session.MemoryStore
	uploads  *fakeUploader
	metrics  *metrics.Recorder
	admin    models.User
	customer models.User
}

type option func(*router.Options)

func withVisitors(v *rl.Visitors) option {
	return func(o *router.Options) { o.Visitors = v }
}

func newEnv(t *testing.T, opts ...option) *env {
	t.Helper()

	fake := apitest.NewServer()
	t.Cleanup(fake.Close)

	e := &env{
		api:      fake,
		sessions: session.NewMemoryStore(),
		uploads:  &fakeUploader{baseURL: "https://cdn.example.com/"},
		metrics:  metrics.NewRecorder(),
	}
	e.admin = fake.AddUser(models.User{Name: "Ada Admin", Email: adminEmail, Phone: "555-0100", Password: password, IsAdmin: true})
	e.customer = fake.AddUser(models.User{Name: "Jane Doe", Email: customerEmail, Phone: "555-0101", Password: password})

	client, err := apiclient.New(apiclient.Config{BaseURL: fake.BaseURL()},
		apiclient.WithHTTPClient(fake.Client()),
		apiclient.WithObserver(e.metrics),
	)
	if err != nil {
		t.Fatalf("creating API client: %v", err)
	}
	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("parsing templates: %v", err)
	}

	catalog := dashboard.Catalog{
		Categories: resources.Categories(),
		Products:   resources.Products(),
		Users:      resources.Users(),
		Orders:     resources.Orders(4),
	}
	handlers.SetAPI(client)
	handlers.SetCatalog(catalog)
	handlers.SetForms(auth.NewForms(client, e.sessions))
	handlers.SetRegistry(dashboard.NewRegistry(catalog, client, time.Hour))
	handlers.SetRenderer(renderer)
	handlers.SetUploader(e.uploads)

	ro := router.Options{
		Sessions:   e.sessions,
		CookieName: "sid",
		Visitors:   rl.NewVisitors(1000, 1000),
		Metrics:    e.metrics,
		Swagger:    true,
	}
	for _, opt := range opts {
		opt(&ro)
	}
	e.router = router.NewRouter(ro)
	return e
}

// browser keeps cookies between requests the way a real one would.
type browser struct {
	h       http.Handler
	cookies map[string]*http.Cookie
}

func (e *env) browser() *browser {
	return &browser{h: e.router, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	req.RemoteAddr = clientAddr
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.h.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// postMultipart submits fields plus an optional file under "imageFile".
func (b *browser) postMultipart(path string, fields url.Values, filename string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, values := range fields {
		for _, v := range values {
			mw.WriteField(key, v)
		}
	}
	if filename != "" {
		part, _ := mw.CreateFormFile("imageFile", filename)
		part.Write(content)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}

func (b *browser) signIn(t *testing.T, email string) {
	t.Helper()
	w := b.postForm("/signin", url.Values{"email": {email}, "password": {password}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("sign in as %s: expected 303, got %d: %s", email, w.Code, w.Body.String())
	}
}

func expectRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

// fakeUploader stands in for a media provider.
type fakeUploader struct {
	baseURL string

	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func (u *fakeUploader) Upload(_ context.Context, filename, _ string, r io.Reader) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return "", u.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if u.files == nil {
		u.files = map[string][]byte{}
	}
	u.files[filename] = data
	return u.baseURL + filename, nil
}

func (u *fakeUploader) failWith(err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.err = err
}
