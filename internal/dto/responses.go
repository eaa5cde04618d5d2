package dto

// MessageResponse is the body of acknowledgement-only endpoints
type MessageResponse struct {
	Message string `json:"message"`
}

// ModelRunResponse is returned when a model run is accepted
type ModelRunResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
