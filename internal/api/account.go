package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// accountRequest is the body of PUT /api/v1/account.
type accountRequest struct {
	Name     string `json:"name"`
	PatToken string `json:"pat_token"`
}

// accountResponse is the account as returned to clients. The PAT token is
// write-only: it is accepted on PUT and never echoed back.
type accountResponse struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// handleGetAccount returns the configured account, without its token.
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.repo.GetAccount(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{
		Name:      account.Name,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	})
}

// handlePutAccount creates or replaces the account credentials.
func (s *Server) handlePutAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.PatToken == "" {
		writeBadRequest(w, "pat_token is required")
		return
	}
	if req.Name == "" {
		req.Name = "default"
	}

	if err := s.repo.SetAccount(r.Context(), req.Name, req.PatToken); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	account, err := s.repo.GetAccount(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.logger.Info("account credentials updated", "name", account.Name)
	writeJSON(w, http.StatusOK, accountResponse{
		Name:      account.Name,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	})
}

// handleDeleteAccount removes the account credentials. Plans stay stored
// but passes will fail until a new token is set.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteAccount(r.Context()); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.logger.Info("account credentials deleted")
	w.WriteHeader(http.StatusNoContent)
}
