// Package resources declares the four storefront collections managed from the
// admin dashboard.
package resources

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rogerio-castellano/storefront-console/internal/apiclient"
	"github.com/rogerio-castellano/storefront-console/internal/models"
	"github.com/rogerio-castellano/storefront-console/internal/panel"
	"golang.org/x/sync/errgroup"
)

const (
	UnknownUser    = "Unknown User"
	UnknownName    = "Unknown"
	UnknownProduct = "Unknown Product"
	NoCategory     = "No category assigned"
)

const errCategoryLookup panel.Notice = "Error fetching categories: Please try again."

var validate = validator.New()

func validStruct[T any](v T) error {
	return validate.Struct(v)
}

// Categories are listed inside a {success, data} envelope and every mutation
// must answer success=true.
func Categories() panel.Resource[models.Category] {
	msgs := panel.DefaultMessages("categories", "category")
	msgs.Invalid = "Category name is required."
	msgs.Create = "Error creating category."
	msgs.Update = "Error updating category."
	msgs.Delete = "Error deleting category."

	return panel.Resource[models.Category]{
		Name:      "categories",
		Singular:  "category",
		Path:      apiclient.CategoriesPath,
		Key:       models.Category.Key,
		Decode:    panel.EnvelopeList[models.Category],
		Validate:  validStruct[models.Category],
		Accept:    panel.EnvelopeSuccess,
		CanCreate: true,
		Messages:  msgs,
	}
}

// Products resolve their category names and offer the categories as form options.
func Products() panel.Resource[models.Product] {
	msgs := panel.DefaultMessages("products", "product")
	msgs.Invalid = "All fields are required, and price must be positive, stock count cannot be negative."

	return panel.Resource[models.Product]{
		Name:      "products",
		Singular:  "product",
		Path:      apiclient.ProductsPath,
		Key:       models.Product.Key,
		Decode:    panel.ArrayList[models.Product],
		Validate:  validStruct[models.Product],
		Enrich:    resolveCategories,
		CanCreate: true,
		Messages:  msgs,
	}
}

func Users() panel.Resource[models.User] {
	msgs := panel.DefaultMessages("users", "user")
	msgs.Invalid = "Name, email, and phone are required."

	return panel.Resource[models.User]{
		Name:      "users",
		Singular:  "user",
		Path:      apiclient.UsersPath,
		Key:       models.User.Key,
		Decode:    panel.ArrayList[models.User],
		Validate:  validStruct[models.User],
		CanCreate: true,
		Messages:  msgs,
	}
}

// Orders are placed by customers; the dashboard only changes their status or
// deletes them. Each fetch resolves customer and product names with at most
// lookups requests in flight.
func Orders(lookups int) panel.Resource[models.Order] {
	msgs := panel.DefaultMessages("orders", "order")
	msgs.Invalid = "Order status must be pending, completed or shipped."
	msgs.CreateDisabled = "Orders are placed by customers and cannot be created here."

	return panel.Resource[models.Order]{
		Name:     "orders",
		Singular: "order",
		Path:     apiclient.OrdersPath,
		Key:      models.Order.Key,
		Decode:   panel.ArrayList[models.Order],
		Validate: validStruct[models.Order],
		UpdateBody: func(o models.Order) any {
			return models.StatusUpdate{Status: o.Status}
		},
		Enrich: func(ctx context.Context, api panel.API, orders []models.Order) ([]models.Order, []panel.Option, error) {
			return resolveOrderNames(ctx, api, orders, lookups), nil, nil
		},
		Messages: msgs,
	}
}

func resolveCategories(ctx context.Context, api panel.API, products []models.Product) ([]models.Product, []panel.Option, error) {
	resp, err := api.Get(ctx, apiclient.CategoriesPath)
	if err != nil {
		return products, nil, errCategoryLookup
	}
	categories, err := panel.EnvelopeList[models.Category](resp.Body)
	if errors.Is(err, panel.ErrNoRecords) {
		categories = nil
	} else if err != nil {
		return products, nil, errCategoryLookup
	}

	names := make(map[string]string, len(categories))
	options := make([]panel.Option, 0, len(categories))
	for _, c := range categories {
		names[c.Key()] = c.Name
		options = append(options, panel.Option{Value: c.Key(), Label: c.Name})
	}

	out := make([]models.Product, len(products))
	for i, p := range products {
		if name, ok := names[p.Category.ID]; ok {
			p.Category.Name = name
		}
		if p.Category.Name == "" {
			p.Category.Name = NoCategory
		}
		out[i] = p
	}
	return out, options, nil
}

// resolveOrderNames looks every distinct user and product up once. A failed
// lookup only affects the names it would have provided.
func resolveOrderNames(ctx context.Context, api panel.API, orders []models.Order, limit int) []models.Order {
	if limit < 1 {
		limit = 1
	}

	var (
		mu         sync.Mutex
		users      = map[string]string{}
		products   = map[string]string{}
		userIDs    []string
		productIDs []string
	)
	for _, o := range orders {
		if _, seen := users[o.UserID]; o.UserID != "" && !seen {
			users[o.UserID] = ""
			userIDs = append(userIDs, o.UserID)
		}
		for _, item := range o.Products {
			if _, seen := products[item.ProductID]; !seen {
				products[item.ProductID] = ""
				productIDs = append(productIDs, item.ProductID)
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	lookup := func(names map[string]string, collection, id, fallback string) {
		g.Go(func() error {
			name := fallback
			resp, err := api.Get(gctx, apiclient.ItemPath(collection, id))
			if err == nil {
				var rec struct {
					Name string `json:"name"`
				}
				if resp.Decode(&rec) == nil && rec.Name != "" {
					name = rec.Name
				}
			}
			mu.Lock()
			names[id] = name
			mu.Unlock()
			return nil
		})
	}
	for _, id := range userIDs {
		lookup(users, apiclient.UsersPath, id, UnknownName)
	}
	for _, id := range productIDs {
		lookup(products, apiclient.ProductsPath, id, UnknownProduct)
	}
	g.Wait()

	out := make([]models.Order, len(orders))
	for i, o := range orders {
		o.UserName = UnknownUser
		if name := users[o.UserID]; name != "" {
			o.UserName = name
		}
		o.ProductNames = make([]string, 0, len(o.Products))
		for _, item := range o.Products {
			o.ProductNames = append(o.ProductNames, products[item.ProductID])
		}
		if o.Status == "" {
			o.Status = models.OrderPending
		}
		out[i] = o
	}
	return out
}
