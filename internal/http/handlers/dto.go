package handlers

type CollectionCount struct {
	Name      string `json:"name"`
	Count     int    `json:"count"`
	Available bool   `json:"available"`
}

type SummaryResponse struct {
	Collections []CollectionCount `json:"collections"`
	Total       int               `json:"total"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
