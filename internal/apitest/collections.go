package apitest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/storefront-console/internal/models"
)

// AddCategory seeds a category and returns it with its assigned id.
func (s *Server) AddCategory(c models.Category) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.newID("cat")
	s.categories = append(s.categories, c)
	return c
}

func (s *Server) AddProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.newID("prod")
	s.products = append(s.products, p)
	return p
}

// AddUser seeds a user; u.Password is what /users/login will accept.
func (s *Server) AddUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.newID("user")
	s.users = append(s.users, u)
	u.Password = ""
	return u
}

func (s *Server) AddOrder(o models.Order) models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = s.newID("order")
	s.orders = append(s.orders, o)
	return o
}

func (s *Server) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Category(nil), s.categories...)
}

func (s *Server) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product(nil), s.products...)
}

func (s *Server) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.users))
	for i, u := range s.users {
		u.Password = ""
		out[i] = u
	}
	return out
}

func (s *Server) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order(nil), s.orders...)
}

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, item := range items {
		if key(item) == id {
			return i
		}
	}
	return -1
}

func categoryKey(c models.Category) string { return c.Key() }
func productKey(p models.Product) string   { return p.Key() }
func userKey(u models.User) string         { return u.Key() }
func orderKey(o models.Order) string       { return o.Key() }

// Categories answer inside a {success, data} envelope.

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categoriesUnavailable {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
		return
	}
	data := append([]models.Category{}, s.categories...)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.categories, chi.URLParam(r, "id"), categoryKey)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "category not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": s.categories[i]})
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var c models.Category
	if err := readJSON(r, &c); err != nil || c.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid category"})
		return
	}
	c = s.AddCategory(c)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": c})
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	var c models.Category
	if err := readJSON(r, &c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid category"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	i := indexOf(s.categories, id, categoryKey)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "category not found"})
		return
	}
	c.Identity = models.Identity{ID: id}
	s.categories[i] = c
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": c})
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.categories, chi.URLParam(r, "id"), categoryKey)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "category not found"})
		return
	}
	s.categories = append(s.categories[:i], s.categories[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "the category is deleted"})
}

// Products, users and orders answer with bare values.

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Products())
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.products, chi.URLParam(r, "id"), productKey)
	if i < 0 {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.products[i])
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := readJSON(r, &p); err != nil || p.Name == "" || p.Price <= 0 {
		http.Error(w, "invalid product", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, s.AddProduct(p))
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := readJSON(r, &p); err != nil {
		http.Error(w, "invalid product", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	i := indexOf(s.products, id, productKey)
	if i < 0 {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	p.Identity = models.Identity{ID: id}
	s.products[i] = p
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.products, chi.URLParam(r, "id"), productKey)
	if i < 0 {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Users())
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.users, chi.URLParam(r, "id"), userKey)
	if i < 0 {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	u := s.users[i]
	u.Password = ""
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := readJSON(r, &u); err != nil || u.Name == "" || u.Email == "" {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, s.AddUser(u))
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := readJSON(r, &u); err != nil {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	i := indexOf(s.users, id, userKey)
	if i < 0 {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if u.Password == "" {
		u.Password = s.users[i].Password
	}
	u.Identity = models.Identity{ID: id}
	s.users[i] = u
	u.Password = ""
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.users, chi.URLParam(r, "id"), userKey)
	if i < 0 {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "the user is deleted"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := readJSON(r, &u); err != nil || u.Name == "" || u.Email == "" || u.Password == "" {
		http.Error(w, "the user cannot be created", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	exists := indexOf(s.users, u.Email, func(u models.User) string { return u.Email }) >= 0
	s.mu.Unlock()
	if exists {
		http.Error(w, "email already registered", http.StatusConflict)
		return
	}

	u.IsAdmin = false
	writeJSON(w, http.StatusCreated, s.AddUser(u))
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := readJSON(r, &creds); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	i := indexOf(s.users, creds.Email, func(u models.User) string { return u.Email })
	var u models.User
	if i >= 0 {
		u = s.users[i]
	}
	omitFlag := s.loginOmitsAdminFlag
	s.mu.Unlock()

	if i < 0 || u.Password != creds.Password {
		http.Error(w, "password is wrong", http.StatusBadRequest)
		return
	}

	token := s.issueToken(u)
	if omitFlag {
		writeJSON(w, http.StatusOK, map[string]any{"user": u.Email, "token": token})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      u.Key(),
		"name":    u.Name,
		"email":   u.Email,
		"isAdmin": u.IsAdmin,
		"token":   token,
	})
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Orders())
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.orders, chi.URLParam(r, "id"), orderKey)
	if i < 0 {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.orders[i])
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var o models.Order
	if err := readJSON(r, &o); err != nil || o.UserID == "" || len(o.Products) == 0 {
		http.Error(w, "invalid order", http.StatusBadRequest)
		return
	}
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	writeJSON(w, http.StatusCreated, s.AddOrder(o))
}

func (s *Server) updateOrder(w http.ResponseWriter, r *http.Request) {
	var upd models.StatusUpdate
	if err := readJSON(r, &upd); err != nil {
		http.Error(w, "invalid order", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.orders, chi.URLParam(r, "id"), orderKey)
	if i < 0 {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	s.orders[i].Status = upd.Status
	writeJSON(w, http.StatusOK, s.orders[i])
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.orders, chi.URLParam(r, "id"), orderKey)
	if i < 0 {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	s.orders = append(s.orders[:i], s.orders[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "the order is deleted"})
}
