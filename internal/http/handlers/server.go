package handlers

import (
	"github.com/rogerio-castellano/storefront-console/internal/auth"
	"github.com/rogerio-castellano/storefront-console/internal/dashboard"
	"github.com/rogerio-castellano/storefront-console/internal/media"
	"github.com/rogerio-castellano/storefront-console/internal/panel"
	"github.com/rogerio-castellano/storefront-console/internal/web"
)

var (
	storefront panel.API
	catalog    dashboard.Catalog
	forms      *auth.Forms
	shells     *dashboard.Registry
	renderer   *web.Renderer
	uploader   media.Uploader
)

// SetAPI sets the client every handler talks to the storefront API with.
func SetAPI(api panel.API) {
	storefront = api
}

func SetCatalog(c dashboard.Catalog) {
	catalog = c
}

func SetForms(f *auth.Forms) {
	forms = f
}

func SetRegistry(r *dashboard.Registry) {
	shells = r
}

func SetRenderer(r *web.Renderer) {
	renderer = r
}

// SetUploader enables image uploads on the product and category forms. A nil
// uploader ignores attached files.
func SetUploader(u media.Uploader) {
	uploader = u
}
