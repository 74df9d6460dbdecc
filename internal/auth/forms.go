// Package auth signs visitors in and out against the storefront API and keeps
// the result in the session store.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rogerio-castellano/storefront-console/internal/apiclient"
	"github.com/rogerio-castellano/storefront-console/internal/logger"
	"github.com/rogerio-castellano/storefront-console/internal/session"
	"go.uber.org/zap"
)

// FormError is shown to the visitor above the form.
type FormError string

func (e FormError) Error() string { return string(e) }

const (
	ErrMissingCredentials FormError = "Email and password are required."
	ErrSignInFailed       FormError = "Sign in failed. Please check your credentials and try again."
	ErrMissingFields      FormError = "Name, email, and password are required."
	ErrRegistrationFailed FormError = "Registration failed. Please try again."
)

// Navigation targets.
const (
	AdminTarget   = "/admin"
	LandingTarget = "/"
)

type API interface {
	Post(ctx context.Context, path string, body any) (*apiclient.Response, error)
}

type Credentials struct {
	Email    string `json:"email" schema:"email" validate:"required"`
	Password string `json:"password" schema:"password" validate:"required"`
}

type Registration struct {
	Name      string `json:"name" schema:"name" validate:"required"`
	Email     string `json:"email" schema:"email" validate:"required"`
	Password  string `json:"password" schema:"password" validate:"required"`
	Phone     string `json:"phone,omitempty" schema:"phone"`
	Street    string `json:"street,omitempty" schema:"street"`
	Apartment string `json:"apartment,omitempty" schema:"apartment"`
	Zip       string `json:"zip,omitempty" schema:"zip"`
	City      string `json:"city,omitempty" schema:"city"`
	Country   string `json:"country,omitempty" schema:"country"`
}

// loginResponse covers both shapes the API has answered /users/login with:
// the full user record, or just {user, token}.
type loginResponse struct {
	ID      string `json:"id"`
	MongoID string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	User    string `json:"user"`
	IsAdmin *bool  `json:"isAdmin"`
	Token   string `json:"token"`
}

// Forms is the only writer of the session store.
type Forms struct {
	api      API
	store    session.Store
	validate *validator.Validate
}

func NewForms(api API, store session.Store) *Forms {
	return &Forms{api: api, store: store, validate: validator.New()}
}

// SignIn posts the credentials, stores the returned user under sid and tells
// where to go next: the admin dashboard for admins, the landing page otherwise.
func (f *Forms) SignIn(ctx context.Context, sid string, creds Credentials) (string, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := f.validate.Struct(creds); err != nil {
		return "", ErrMissingCredentials
	}

	log := logger.FromContext(ctx)
	resp, err := f.api.Post(ctx, apiclient.LoginPath, creds)
	if err != nil {
		log.Info("sign in rejected", zap.String("email", creds.Email), zap.Error(err))
		return "", ErrSignInFailed
	}

	var body loginResponse
	if err := resp.Decode(&body); err != nil {
		log.Warn("unexpected login response", zap.Error(err))
		return "", ErrSignInFailed
	}

	u := session.User{
		ID:    body.ID,
		Name:  body.Name,
		Email: firstNonEmpty(body.Email, body.User, creds.Email),
		Token: body.Token,
	}
	if u.ID == "" {
		u.ID = body.MongoID
	}
	if body.IsAdmin != nil {
		u.IsAdmin = *body.IsAdmin
	}
	if body.Token != "" && (body.IsAdmin == nil || u.ID == "") {
		if claims, err := ParseClaims(body.Token); err == nil {
			if body.IsAdmin == nil && claims.HasAdmin {
				u.IsAdmin = claims.IsAdmin
			}
			if u.ID == "" {
				u.ID = claims.UserID
			}
		} else {
			log.Warn("reading login token", zap.Error(err))
		}
	}

	if err := f.store.Save(ctx, sid, u); err != nil {
		return "", fmt.Errorf("saving session: %w", err)
	}

	if u.IsAdmin {
		return AdminTarget, nil
	}
	return LandingTarget, nil
}

// SignUp registers a new account and sends the visitor to the landing page.
// It does not sign them in.
func (f *Forms) SignUp(ctx context.Context, reg Registration) (string, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	if err := f.validate.Struct(reg); err != nil {
		return "", ErrMissingFields
	}

	if _, err := f.api.Post(ctx, apiclient.RegisterPath, reg); err != nil {
		logger.FromContext(ctx).Info("registration rejected", zap.String("email", reg.Email), zap.Error(err))
		return "", ErrRegistrationFailed
	}
	return LandingTarget, nil
}

// SignOut forgets the user stored under sid.
func (f *Forms) SignOut(ctx context.Context, sid string) error {
	return f.store.Clear(ctx, sid)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
