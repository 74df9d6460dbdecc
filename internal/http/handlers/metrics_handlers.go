package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/storefront-console/internal/logger"
	"go.uber.org/zap"
)

// SummaryHandler godoc
// @Summary Record counts shown on the admin dashboard
// @Description Fetches every collection from the storefront API and counts it. A collection the API could not serve is reported as unavailable with a count of zero.
// @Tags dashboard
// @Produce json
// @Success 200 {object} SummaryResponse
// @Failure 303 {string} string "Redirect for visitors who are not admins"
// @Router /api/summary [get]
func SummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary := catalog.Summarize(r.Context(), storefront)

	resp := SummaryResponse{
		Collections: make([]CollectionCount, 0, len(summary.Tallies)),
		Total:       summary.Total(),
	}
	for _, t := range summary.Tallies {
		resp.Collections = append(resp.Collections, CollectionCount{
			Name:      t.Page.String(),
			Count:     t.Count,
			Available: !t.Failed,
		})
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.FromContext(r.Context()).Warn("writing summary", zap.Error(err))
	}
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"}); err != nil {
		logger.FromContext(r.Context()).Warn("writing health", zap.Error(err))
	}
}
