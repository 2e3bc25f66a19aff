package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// ServiceMetrics is returned by GET /v1/metrics/summary.
type ServiceMetrics struct {
	DashboardsServed  int64   `json:"dashboardsServed"`
	RecordsWritten    int64   `json:"recordsWritten"`
	StoreErrors       int64   `json:"storeErrors"`
	IdempotentReplays int64   `json:"idempotentReplays"`
	StoreErrorRate    float64 `json:"storeErrorRate"`
}

// SuccessResponse wraps a successful single-entity response.
type SuccessResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
