package api

import "net/http"

// healthResponse is the body of GET /api/v1/health.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// handleHealth reports engine and database liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}

	if s.health != nil {
		if err := s.health.HealthCheck(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Database = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp.Database = "ok"
	}

	writeJSON(w, http.StatusOK, resp)
}

// versionResponse is the body of GET /api/v1/version.
type versionResponse struct {
	Version string `json:"version"`
	API     string `json:"api"`
}

// handleVersion reports the daemon and API versions.
func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, versionResponse{
		Version: s.version,
		API:     "v1",
	})
}
