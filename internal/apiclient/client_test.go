package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveRequest(method, path string, status int, _ time.Duration, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, method+" "+path)
}

func TestNew_RejectsInvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "not a url", "/api/v1"} {
		_, err := New(Config{BaseURL: base})
		assert.True(t, errors.Is(err, ErrBaseURL), "base %q: %v", base, err)
	}
}

func TestGet_JoinsBasePathAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[{"name":"Laptop"}]`))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL + "/api/v1/"})
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), ProductsPath)
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, resp.Decode(&out))
	require.Len(t, out, 1)
	assert.Equal(t, "Laptop", out[0]["name"])
}

func TestPost_SendsJSONBodyAndToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "Shoes", got["name"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	ctx := WithToken(context.Background(), "abc")
	resp, err := client.Post(ctx, CategoriesPath, map[string]string{"name": "Shoes"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestDo_NonSuccessStatusIsHTTPError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	observer := &recordingObserver{}
	client, err := New(Config{BaseURL: server.URL + "/api/v1"}, WithObserver(observer))
	require.NoError(t, err)

	resp, err := client.Delete(context.Background(), ItemPath(OrdersPath, "o1"))
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "/api/v1/orders/o1", httpErr.Path)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, 1, calls, "failed calls must not be retried")
	assert.Equal(t, []string{"DELETE /orders/o1"}, observer.calls)
}

func TestDo_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := New(Config{BaseURL: url})
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), UsersPath)
	assert.Error(t, err)
	assert.Nil(t, resp)

	var httpErr *HTTPError
	assert.False(t, errors.As(err, &httpErr))
}

func TestResponse_DecodeEmptyBody(t *testing.T) {
	var out []string
	require.NoError(t, (&Response{Body: []byte("  ")}).Decode(&out))
	assert.Nil(t, out)

	assert.Error(t, (&Response{Body: []byte("{")}).Decode(&out))
}

func TestItemPath(t *testing.T) {
	assert.Equal(t, "/products/p1", ItemPath(ProductsPath, "p1"))
	assert.Equal(t, "/users/a%2Fbc", ItemPath(UsersPath+"/", "a/bc"))
	assert.Equal(t, "/orders/a%20b", ItemPath(OrdersPath, "a b"))
}

func TestDelete_KeepsSlashInsideID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/products/a%2Fb", r.URL.EscapedPath())
		assert.Equal(t, "/api/v1/products/a/b", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL + "/api/v1"})
	require.NoError(t, err)

	_, err = client.Delete(context.Background(), ItemPath(ProductsPath, "a/b"))
	require.NoError(t, err)
}

func TestWithHTTPClient_SendsConfiguredUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "console-test/2.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, UserAgent: "console-test/2.0"}, WithHTTPClient(server.Client()))
	require.NoError(t, err)

	_, err = client.Get(context.Background(), OrdersPath)
	require.NoError(t, err)
}
