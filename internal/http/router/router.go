package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/storefront-console/docs"
	"github.com/rogerio-castellano/storefront-console/internal/http/handlers"
	mw "github.com/rogerio-castellano/storefront-console/internal/http/middleware"
	rl "github.com/rogerio-castellano/storefront-console/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront-console/internal/metrics"
	"github.com/rogerio-castellano/storefront-console/internal/session"
	"github.com/rogerio-castellano/storefront-console/internal/web"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type Options struct {
	Logger        *zap.Logger
	Sessions      session.Store
	CookieName    string
	SecureCookies bool
	// Visitors throttles sign-in and sign-up per client IP. Nil disables it.
	Visitors *rl.Visitors
	// Metrics records request metrics and serves /metrics. Nil disables both.
	Metrics *metrics.Recorder
	Swagger bool
}

func NewRouter(opts Options) http.Handler {
	var observer mw.HTTPObserver
	if opts.Metrics != nil {
		observer = opts.Metrics
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(logger, observer))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", handlers.HealthHandler)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	if opts.Swagger {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	r.Group(func(r chi.Router) {
		r.Use(mw.Session(opts.Sessions, opts.CookieName, opts.SecureCookies))

		r.Get("/", handlers.StaticPage(web.PageHome, "Home"))
		r.Get("/about", handlers.StaticPage(web.PageAbout, "About"))
		r.Get("/contact", handlers.StaticPage(web.PageContact, "Contact"))
		r.Get("/blog", handlers.StaticPage(web.PageBlog, "Blog"))
		r.Get("/products", handlers.ProductsPageHandler)

		r.Get("/signin", handlers.SignInPageHandler)
		r.Get("/signup", handlers.SignUpPageHandler)
		r.Group(func(r chi.Router) {
			if opts.Visitors != nil {
				r.Use(mw.RateLimit(opts.Visitors))
			}
			r.Post("/signin", handlers.SignInHandler)
			r.Post("/signup", handlers.SignUpHandler)
		})
		r.Post("/signout", handlers.SignOutHandler)

		r.With(mw.RequireUser).Get("/profile", handlers.ProfileHandler)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAdmin)

			r.Get("/api/summary", handlers.SummaryHandler)

			r.Get("/admin", handlers.AdminHandler)
			r.Route("/admin/{resource}", func(r chi.Router) {
				r.Post("/", handlers.CreateHandler)
				r.Post("/update", handlers.UpdateHandler)
				r.Post("/cancel", handlers.CancelHandler)
				r.Post("/refresh", handlers.ReloadHandler)
				r.Post("/{id}/edit", handlers.EditHandler)
				r.Post("/{id}/delete", handlers.DeleteHandler)
			})
		})
	})

	return r
}
