package resources

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/rogerio-castellano/storefront-console/internal/apiclient"
	"github.com/rogerio-castellano/storefront-console/internal/apitest"
	"github.com/rogerio-castellano/storefront-console/internal/models"
	"github.com/rogerio-castellano/storefront-console/internal/panel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*apitest.Server, *apiclient.Client) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	client, err := apiclient.New(apiclient.Config{BaseURL: srv.BaseURL()})
	require.NoError(t, err)
	return srv, client
}

func TestCategories_NoRecords(t *testing.T) {
	srv, client := setup(t)
	srv.SetCategoriesUnavailable(true)

	p := panel.New(Categories(), client)
	p.Mount(context.Background())

	s := p.Snapshot()
	assert.Empty(t, s.Items)
	assert.Equal(t, "No categories found.", s.Error)
}

func TestCategories_CreateUpdateDelete(t *testing.T) {
	srv, client := setup(t)
	ctx := context.Background()
	p := panel.New(Categories(), client)
	p.Mount(ctx)

	p.CreateFromForm(ctx, url.Values{"name": {"Shoes"}, "color": {"#fff"}})
	s := p.Snapshot()
	require.Len(t, s.Items, 1)
	assert.Equal(t, "Shoes", s.Items[0].Name)
	id := s.Items[0].Key()

	require.NoError(t, p.EditByID(id))
	p.UpdateFromForm(ctx, url.Values{"name": {"Boots"}})
	s = p.Snapshot()
	assert.Equal(t, "Boots", s.Items[0].Name)
	assert.Equal(t, "#fff", s.Items[0].Color)
	assert.Empty(t, s.EditingID)

	p.Remove(ctx, id)
	assert.Empty(t, p.Snapshot().Items)
	assert.Empty(t, srv.Categories())
}

func TestCategories_EmptyNameRejectedLocally(t *testing.T) {
	srv, client := setup(t)
	p := panel.New(Categories(), client)
	p.Mount(context.Background())

	p.CreateFromForm(context.Background(), url.Values{"name": {""}})

	assert.Equal(t, "Category name is required.", p.Snapshot().Error)
	assert.Equal(t, 0, srv.CallCount(http.MethodPost, "/categories"))
}

func TestProducts_ZeroPriceRejectedLocally(t *testing.T) {
	srv, client := setup(t)
	cat := srv.AddCategory(models.Category{Name: "Shoes"})
	p := panel.New(Products(), client)
	p.Mount(context.Background())

	p.CreateFromForm(context.Background(), url.Values{
		"name":         {"Sneaker"},
		"description":  {"Runs"},
		"price":        {"0"},
		"category":     {cat.ID},
		"countInStock": {"3"},
	})

	assert.Equal(t, "All fields are required, and price must be positive, stock count cannot be negative.", p.Snapshot().Error)
	assert.Equal(t, 0, srv.CallCount(http.MethodPost, "/products"))
}

func TestProducts_CreateResolvesCategory(t *testing.T) {
	srv, client := setup(t)
	cat := srv.AddCategory(models.Category{Name: "Shoes"})
	p := panel.New(Products(), client)
	p.Mount(context.Background())

	p.CreateFromForm(context.Background(), url.Values{
		"name":         {"Sneaker"},
		"description":  {"Runs"},
		"price":        {"49.90"},
		"category":     {cat.ID},
		"countInStock": {"3"},
	})

	s := p.Snapshot()
	require.Empty(t, s.Error)
	require.Len(t, s.Items, 1)
	assert.Equal(t, models.CategoryRef{ID: cat.ID, Name: "Shoes"}, s.Items[0].Category)
	assert.Equal(t, []panel.Option{{Value: cat.ID, Label: "Shoes"}}, s.Options)

	stored := srv.Products()
	require.Len(t, stored, 1)
	assert.Equal(t, cat.ID, stored[0].Category.ID)
}

func TestProducts_UnresolvedCategory(t *testing.T) {
	srv, client := setup(t)
	srv.AddProduct(models.Product{Name: "Orphan", Price: 1, Category: models.CategoryRef{ID: "gone"}})
	p := panel.New(Products(), client)
	p.Mount(context.Background())

	s := p.Snapshot()
	require.Len(t, s.Items, 1)
	assert.Equal(t, NoCategory, s.Items[0].Category.Name)
}

func TestProducts_CategoryLookupFailure(t *testing.T) {
	srv, client := setup(t)
	srv.AddProduct(models.Product{Name: "Lamp", Price: 1})
	srv.Fail(http.MethodGet, "/categories", http.StatusBadGateway)

	p := panel.New(Products(), client)
	p.Mount(context.Background())

	s := p.Snapshot()
	assert.Len(t, s.Items, 1)
	assert.Equal(t, "Error fetching categories: Please try again.", s.Error)
}

func TestUsers_Validation(t *testing.T) {
	srv, client := setup(t)
	p := panel.New(Users(), client)
	p.Mount(context.Background())

	p.CreateFromForm(context.Background(), url.Values{"name": {"Ada"}, "email": {"ada@example.com"}})
	assert.Equal(t, "Name, email, and phone are required.", p.Snapshot().Error)
	assert.Equal(t, 0, srv.CallCount(http.MethodPost, "/users"))

	p.CreateFromForm(context.Background(), url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "phone": {"555"}})
	s := p.Snapshot()
	assert.Empty(t, s.Error)
	assert.Len(t, s.Items, 1)
}

func TestOrders_EnrichAndStatusUpdate(t *testing.T) {
	srv, client := setup(t)
	u := srv.AddUser(models.User{Name: "Ada", Email: "ada@example.com"})
	prod := srv.AddProduct(models.Product{Name: "Lamp", Price: 10})
	srv.AddOrder(models.Order{
		UserID:   u.ID,
		Products: []models.OrderItem{{ProductID: prod.ID, Quantity: 1}, {ProductID: "missing", Quantity: 2}},
		Total:    30,
		Status:   models.OrderPending,
	})
	srv.AddOrder(models.Order{UserID: "ghost", Products: []models.OrderItem{{ProductID: prod.ID, Quantity: 1}}})

	ctx := context.Background()
	p := panel.New(Orders(4), client)
	p.Mount(ctx)

	s := p.Snapshot()
	require.Len(t, s.Items, 2)
	assert.Equal(t, "Ada", s.Items[0].UserName)
	assert.Equal(t, []string{"Lamp", UnknownProduct}, s.Items[0].ProductNames)
	assert.Equal(t, UnknownName, s.Items[1].UserName)
	assert.Equal(t, models.OrderPending, s.Items[1].Status)
	assert.Equal(t, 1, srv.CallCount(http.MethodGet, "/products/"+prod.ID), "each product is looked up once")

	orderID := s.Items[0].Key()
	require.NoError(t, p.EditByID(orderID))
	p.UpdateFromForm(ctx, url.Values{"status": {"shipped"}})

	assert.Empty(t, p.Snapshot().Error)
	assert.Equal(t, models.OrderShipped, srv.Orders()[0].Status)
	assert.Equal(t, 30.0, srv.Orders()[0].Total)
}

func TestOrders_InvalidStatusAndCreateDisabled(t *testing.T) {
	srv, client := setup(t)
	srv.AddOrder(models.Order{UserID: "u", Status: models.OrderPending})
	ctx := context.Background()
	p := panel.New(Orders(2), client)
	p.Mount(ctx)

	require.NoError(t, p.EditByID(p.Snapshot().Items[0].Key()))
	p.UpdateFromForm(ctx, url.Values{"status": {"lost"}})
	assert.Equal(t, "Order status must be pending, completed or shipped.", p.Snapshot().Error)
	assert.Equal(t, 0, srv.CallCount(http.MethodPut, "/orders/"+srv.Orders()[0].ID))

	p.CreateFromForm(ctx, url.Values{"status": {"pending"}})
	assert.Equal(t, "Orders are placed by customers and cannot be created here.", p.Snapshot().Error)
	assert.Equal(t, 0, srv.CallCount(http.MethodPost, "/orders"))
}

func TestOrders_NoUserID(t *testing.T) {
	orders := resolveOrderNames(context.Background(), nil, []models.Order{{Status: models.OrderShipped}}, 1)
	require.Len(t, orders, 1)
	assert.Equal(t, UnknownUser, orders[0].UserName)
	assert.Empty(t, orders[0].ProductNames)
}

func TestTransportMessages(t *testing.T) {
	cat := Categories().Messages
	assert.Equal(t, "Error fetching categories: Please try again.", cat.Fetch)
	assert.Equal(t, "Error creating category.", cat.Create)
	assert.Equal(t, "Error updating category.", cat.Update)
	assert.Equal(t, "Error deleting category.", cat.Delete)

	prod := Products().Messages
	assert.Equal(t, "Error creating product: Please try again.", prod.Create)
	assert.Equal(t, "Error deleting product: Please try again.", prod.Delete)
}
