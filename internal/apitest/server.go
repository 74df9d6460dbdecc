// Package apitest runs an in-memory stand-in for the storefront REST API so the
// console can be exercised end to end without the real backend.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rogerio-castellano/storefront-console/internal/models"
)

// BasePath is where the fake mounts the API, mirroring the real deployment.
const BasePath = "/api/v1"

// TokenSecret signs the tokens handed out by /users/login.
var TokenSecret = []byte("apitest-secret")

type Call struct {
	Method string
	Path   string
}

// Server is a fake storefront API backed by in-memory collections.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	categories []models.Category
	products   []models.Product
	users      []models.User
	orders     []models.Order
	nextID     int
	calls      []Call
	failures   map[string]int

	categoriesUnavailable bool
	loginOmitsAdminFlag   bool
}

// NewServer starts a fake API. Callers must Close it.
func NewServer() *Server {
	s := &Server{nextID: 1, failures: map[string]int{}}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Route(BasePath, func(r chi.Router) {
		r.Get("/categories", s.listCategories)
		r.Post("/categories", s.createCategory)
		r.Get("/categories/{id}", s.getCategory)
		r.Put("/categories/{id}", s.updateCategory)
		r.Delete("/categories/{id}", s.deleteCategory)

		r.Get("/products", s.listProducts)
		r.Post("/products", s.createProduct)
		r.Get("/products/{id}", s.getProduct)
		r.Put("/products/{id}", s.updateProduct)
		r.Delete("/products/{id}", s.deleteProduct)

		r.Post("/users/register", s.register)
		r.Post("/users/login", s.login)
		r.Get("/users", s.listUsers)
		r.Post("/users", s.createUser)
		r.Get("/users/{id}", s.getUser)
		r.Put("/users/{id}", s.updateUser)
		r.Delete("/users/{id}", s.deleteUser)

		r.Get("/orders", s.listOrders)
		r.Post("/orders", s.createOrder)
		r.Get("/orders/{id}", s.getOrder)
		r.Put("/orders/{id}", s.updateOrder)
		r.Delete("/orders/{id}", s.deleteOrder)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL is the API root to hand to apiclient.New.
func (s *Server) BaseURL() string {
	return s.URL + BasePath
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, BasePath)

		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: path})
		status, fail := s.failures[r.Method+" "+path]
		s.mu.Unlock()

		if fail {
			http.Error(w, "injected failure", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Fail makes every request matching method and path answer with status.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]int{}
}

// SetCategoriesUnavailable makes GET /categories answer {"success": false}.
func (s *Server) SetCategoriesUnavailable(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categoriesUnavailable = v
}

// SetLoginOmitsAdminFlag makes /users/login answer only {user, token}, leaving
// the admin flag to the token claims.
func (s *Server) SetLoginOmitsAdminFlag(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginOmitsAdminFlag = v
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount counts recorded requests for method and path.
func (s *Server) CallCount(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *Server) newID(prefix string) string {
	id := fmt.Sprintf("%s%d", prefix, s.nextID)
	s.nextID++
	return id
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) issueToken(u models.User) string {
	claims := jwt.MapClaims{
		"userId":  u.Key(),
		"isAdmin": u.IsAdmin,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(TokenSecret)
	return token
}
