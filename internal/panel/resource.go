// Package panel implements the list/create/edit/delete cycle shared by every
// admin table. A Resource describes one collection of the storefront API; a
// Panel holds the state a visitor sees for it.
package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/storefront-console/internal/apiclient"
)

// ErrNoRecords is returned by a list decoder when the API reports that the
// collection has nothing to show.
var ErrNoRecords = errors.New("panel: no records")

// Notice is an error whose text is shown to the visitor as is.
type Notice string

func (n Notice) Error() string { return string(n) }

// API is the part of the storefront API client a panel needs.
type API interface {
	Get(ctx context.Context, path string) (*apiclient.Response, error)
	Post(ctx context.Context, path string, body any) (*apiclient.Response, error)
	Put(ctx context.Context, path string, body any) (*apiclient.Response, error)
	Delete(ctx context.Context, path string) (*apiclient.Response, error)
}

// Option is an entry of a select box offered by the panel's form.
type Option struct {
	Value string
	Label string
}

// Messages are the texts shown in the panel's error banner.
type Messages struct {
	Invalid        string
	NoRecords      string
	Fetch          string
	Create         string
	Update         string
	Delete         string
	CreateRejected string
	UpdateRejected string
	DeleteRejected string
	CreateDisabled string
	EmptyTable     string
}

// DefaultMessages builds the usual banner texts for a collection.
func DefaultMessages(plural, singular string) Messages {
	return Messages{
		NoRecords:      fmt.Sprintf("No %s found.", plural),
		Fetch:          fmt.Sprintf("Error fetching %s: Please try again.", plural),
		Create:         fmt.Sprintf("Error creating %s: Please try again.", singular),
		Update:         fmt.Sprintf("Error updating %s: Please try again.", singular),
		Delete:         fmt.Sprintf("Error deleting %s: Please try again.", singular),
		CreateRejected: fmt.Sprintf("Failed to create %s.", singular),
		UpdateRejected: fmt.Sprintf("Failed to update %s.", singular),
		DeleteRejected: fmt.Sprintf("Failed to delete %s.", singular),
		CreateDisabled: fmt.Sprintf("Creating %s is not supported.", plural),
		EmptyTable:     fmt.Sprintf("No %s found. Please check your API or database.", plural),
	}
}

// Resource describes one collection of the storefront API.
type Resource[T any] struct {
	Name     string // plural, used in routes and page titles
	Singular string
	Path     string

	Key    func(T) string
	Decode func(body []byte) ([]T, error)
	// Validate rejects drafts before they reach the network.
	Validate func(T) error
	// Accept inspects a 2xx mutation response. Nil accepts every 2xx.
	Accept func(body []byte) bool
	// UpdateBody builds the PUT body from the draft. Nil sends the draft itself.
	UpdateBody func(T) any
	// Enrich resolves display data after each successful fetch. An error is shown
	// in the banner but the returned items are still used.
	Enrich func(ctx context.Context, api API, items []T) ([]T, []Option, error)

	CanCreate bool
	Messages  Messages
}

// ArrayList decodes a bare JSON array. An absent or non-array body is an empty list.
func ArrayList[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '[' {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	return items, nil
}

// EnvelopeList decodes a {success, data} wrapped list. success=false yields
// ErrNoRecords; a missing data field is an empty list.
func EnvelopeList[T any](body []byte) ([]T, error) {
	var env apiclient.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}
	if !env.Success {
		return nil, ErrNoRecords
	}
	return ArrayList[T](env.Data)
}

// EnvelopeSuccess accepts envelope responses whose success flag is set.
func EnvelopeSuccess(body []byte) bool {
	var env apiclient.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return false
	}
	return env.Success
}

// Count fetches the collection once and reports its size. A collection that
// reports no records counts as zero.
func Count[T any](ctx context.Context, api API, res Resource[T]) (int, error) {
	resp, err := api.Get(ctx, res.Path)
	if err != nil {
		return 0, err
	}
	items, err := res.Decode(resp.Body)
	if errors.Is(err, ErrNoRecords) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
