package apiclient

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Collection paths relative to the API root.
const (
	CategoriesPath = "/categories"
	ProductsPath   = "/products"
	UsersPath      = "/users"
	OrdersPath     = "/orders"
	RegisterPath   = "/users/register"
	LoginPath      = "/users/login"
)

// ItemPath addresses a single record of a collection. The id is path-escaped,
// so a slash inside it stays part of the id.
func ItemPath(collection, id string) string {
	return strings.TrimRight(collection, "/") + "/" + url.PathEscape(id)
}

// Envelope is the {success, data} wrapper some collections answer with.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}
