package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/storefront-console/internal/logger"
	"github.com/rogerio-castellano/storefront-console/internal/web"
	"go.uber.org/zap"
)

const errFetchingProducts = "Error fetching products: Please try again."

// StaticPage serves a page that needs nothing but the navbar.
func StaticPage(page, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, r, http.StatusOK, page, web.View{Title: title})
	}
}

// ProductsPageHandler lists the live catalogue for shoppers.
func ProductsPageHandler(w http.ResponseWriter, r *http.Request) {
	view := web.View{Title: "Products"}

	resp, err := storefront.Get(r.Context(), catalog.Products.Path)
	if err == nil {
		products, decodeErr := catalog.Products.Decode(resp.Body)
		if decodeErr == nil {
			view.Data = products
		}
		err = decodeErr
	}
	if err != nil {
		logger.FromContext(r.Context()).Warn("listing products", zap.Error(err))
		view.Error = errFetchingProducts
	}

	render(w, r, http.StatusOK, web.PageProducts, view)
}

// ProfileHandler shows the signed-in user's stored record.
func ProfileHandler(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, web.PageProfile, web.View{Title: "Profile"})
}
