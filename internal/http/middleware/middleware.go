package middleware

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rogerio-castellano/storefront-console/internal/apiclient"
	rl "github.com/rogerio-castellano/storefront-console/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront-console/internal/logger"
	"github.com/rogerio-castellano/storefront-console/internal/session"
	"go.uber.org/zap"
)

// HTTPObserver receives one call per served request.
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// RequestLogger attaches a request-scoped logger to the context and logs the
// outcome of every request. obs may be nil.
func RequestLogger(base *zap.Logger, obs HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)

			log := base.With(
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), log)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			log.Info("request served", zap.Int("status", status), zap.Duration("elapsed", elapsed))

			if obs != nil {
				route := ""
				if rctx := chi.RouteContext(r.Context()); rctx != nil {
					route = rctx.RoutePattern()
				}
				obs.ObserveHTTP(r.Method, route, status, elapsed)
			}
		})
	}
}

// Session loads the visitor's session. A browser without a session cookie is
// given one. The signed-in user's token is forwarded on every API call made
// with the request context.
func Session(store session.Store, cookieName string, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			var sid string
			if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
				sid = c.Value
			} else {
				sid = session.NewID()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			viewer := session.Viewer{SID: sid}
			u, err := store.Load(ctx, sid)
			switch {
			case err == nil:
				viewer.User = &u
				ctx = apiclient.WithToken(ctx, u.Token)
			case !errors.Is(err, session.ErrNotFound):
				logger.FromContext(ctx).Warn("loading session", zap.Error(err))
			}

			next.ServeHTTP(w, r.WithContext(session.WithViewer(ctx, viewer)))
		})
	}
}

// RequireUser redirects anonymous visitors to the sign-in page.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.ViewerFrom(r.Context()).SignedIn() {
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin redirects everyone but admins to the landing page. The API
// still authorises every call on its own.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.ViewerFrom(r.Context()).IsAdmin() {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit answers 429 once a client IP exhausts its bucket.
func RateLimit(visitors *rl.Visitors) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !visitors.Allow(clientIP(r)) {
				logger.FromContext(r.Context()).Info("rate limited", zap.String("ip", clientIP(r)))
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
