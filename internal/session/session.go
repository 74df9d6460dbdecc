// Package session keeps the signed-in user of each browser session. It plays
// the part of the browser-local "user" record: one JSON document per session id,
// written on sign-in and removed on sign-out.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session: no user stored")

// User is what the console remembers about whoever signed in.
type User struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token"`
}

// Store persists the signed-in user keyed by session id.
type Store interface {
	Save(ctx context.Context, sid string, u User) error
	// Load returns ErrNotFound when nothing is stored for sid.
	Load(ctx context.Context, sid string) (User, error)
	Clear(ctx context.Context, sid string) error
}

// NewID returns a fresh session id for the cookie.
func NewID() string {
	return uuid.NewString()
}

// Viewer is the session attached to a request, signed in or not.
type Viewer struct {
	SID  string
	User *User
}

func (v Viewer) SignedIn() bool {
	return v.User != nil
}

func (v Viewer) IsAdmin() bool {
	return v.User != nil && v.User.IsAdmin
}

type viewerKey struct{}

func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFrom returns the request's viewer, or an anonymous one.
func ViewerFrom(ctx context.Context) Viewer {
	v, _ := ctx.Value(viewerKey{}).(Viewer)
	return v
}
