package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/rogerio-castellano/storefront-console/internal/logger"
	"github.com/rogerio-castellano/storefront-console/internal/session"
	"github.com/rogerio-castellano/storefront-console/internal/web"
	"go.uber.org/zap"
)

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// render writes page with the request's viewer. Nothing is sent until the
// template has executed, so a failing template still yields a clean 500.
func render(w http.ResponseWriter, r *http.Request, status int, page string, view web.View) {
	view.Viewer = session.ViewerFrom(r.Context())

	var buf bytes.Buffer
	if err := renderer.Render(&buf, page, view); err != nil {
		logger.FromContext(r.Context()).Error("rendering page", zap.String("page", page), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Warn("writing page", zap.Error(err))
	}
}
