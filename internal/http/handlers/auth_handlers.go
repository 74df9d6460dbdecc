package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/storefront-console/internal/auth"
	"github.com/rogerio-castellano/storefront-console/internal/logger"
	"github.com/rogerio-castellano/storefront-console/internal/session"
	"github.com/rogerio-castellano/storefront-console/internal/web"
	"go.uber.org/zap"
)

func SignInPageHandler(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, web.PageSignIn, web.View{Title: "Sign In", Data: auth.Credentials{}})
}

// SignInHandler signs the visitor in and sends admins to the dashboard and
// everyone else to the landing page.
func SignInHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var creds auth.Credentials
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := formDecoder.Decode(&creds, r.PostForm); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sid := session.ViewerFrom(ctx).SID
	target, err := forms.SignIn(ctx, sid, creds)
	var formErr auth.FormError
	if errors.As(err, &formErr) {
		creds.Password = ""
		render(w, r, http.StatusBadRequest, web.PageSignIn, web.View{Title: "Sign In", Error: formErr.Error(), Data: creds})
		return
	}
	if err != nil {
		logger.FromContext(ctx).Error("signing in", zap.Error(err))
		http.Error(w, "failed to sign in", http.StatusInternalServerError)
		return
	}

	// A dashboard left over from a previous account must not leak into this one.
	shells.Drop(sid)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func SignUpPageHandler(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, web.PageSignUp, web.View{Title: "Sign Up", Data: auth.Registration{}})
}

// SignUpHandler registers a new account. The visitor still has to sign in.
func SignUpHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var reg auth.Registration
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := formDecoder.Decode(&reg, r.PostForm); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	target, err := forms.SignUp(ctx, reg)
	var formErr auth.FormError
	if errors.As(err, &formErr) {
		reg.Password = ""
		render(w, r, http.StatusBadRequest, web.PageSignUp, web.View{Title: "Sign Up", Error: formErr.Error(), Data: reg})
		return
	}
	if err != nil {
		logger.FromContext(ctx).Error("signing up", zap.Error(err))
		http.Error(w, "failed to sign up", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

// SignOutHandler forgets the session's user and closes its dashboard.
func SignOutHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := session.ViewerFrom(ctx).SID

	if err := forms.SignOut(ctx, sid); err != nil {
		logger.FromContext(ctx).Error("signing out", zap.Error(err))
		http.Error(w, "failed to sign out", http.StatusInternalServerError)
		return
	}
	shells.Drop(sid)
	http.Redirect(w, r, auth.LandingTarget, http.StatusSeeOther)
}
