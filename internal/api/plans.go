package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vplan-io/vplan-core/internal/plan"
	"github.com/vplan-io/vplan-core/internal/refresh"
	"github.com/vplan-io/vplan-core/internal/schedule"
)

// planRequest is the body of POST /api/v1/plans and PUT /api/v1/plans/{name}.
// The document field carries the plan's YAML source.
type planRequest struct {
	Document string `json:"document"`
}

// planSummary is one entry in the plan listing.
type planSummary struct {
	Name      string    `json:"name"`
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updated_at"`
}

// testRequest is the body of POST /api/v1/plans/{name}/test.
type testRequest struct {
	Group   string `json:"group"`
	Toggles int    `json:"toggles"`
}

// handleListPlans returns summaries of all stored plans.
func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	records, err := s.repo.ListPlans(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	summaries := make([]planSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, planSummary{
			Name:      record.Name,
			Enabled:   record.Enabled,
			UpdatedAt: record.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

// handleCreatePlan validates and stores a new plan. The plan name comes
// from inside the document; new plans start disabled.
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	doc, raw, ok := s.decodePlanDocument(w, r)
	if !ok {
		return
	}

	record, err := s.repo.CreatePlan(r.Context(), doc.Name(), raw)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.Info("plan created", "plan", record.Name)
	writeJSON(w, http.StatusCreated, record)
}

// handleGetPlan returns a stored plan, including its YAML document.
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	record, err := s.repo.GetPlan(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleUpdatePlan replaces a plan's document. The name in the URL must
// match the name inside the document; renaming a plan is a delete and a
// create, because the name is baked into its remote rule names. An enabled
// plan is rescheduled in case its refresh time changed.
func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	doc, raw, ok := s.decodePlanDocument(w, r)
	if !ok {
		return
	}
	if doc.Name() != name {
		writeBadRequest(w, "document plan name does not match URL")
		return
	}

	record, err := s.repo.UpdatePlan(r.Context(), name, raw)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if record.Enabled {
		if err := s.scheduler.SchedulePlan(record.Name, record.Document); err != nil {
			s.logger.Warn("rescheduling updated plan", "plan", record.Name, "error", err)
		}
	}

	s.logger.Info("plan updated", "plan", record.Name)
	writeJSON(w, http.StatusOK, record)
}

// handleDeletePlan removes a plan. The plan is disabled first and a final
// pass runs so its remote rules are torn down before the record goes away;
// without that, orphaned rules would fire forever with no owner.
func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	record, err := s.repo.GetPlan(r.Context(), name)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.scheduler.UnschedulePlan(name)

	if record.Enabled {
		if err := s.repo.SetPlanEnabled(r.Context(), name, false); err != nil {
			s.writeDomainError(w, r, err)
			return
		}
	}
	if _, err := s.runner.RunPass(r.Context(), name, refresh.TriggerManual); err != nil {
		// Remote teardown is best effort; the delete proceeds and a later
		// pass for a recreated plan with the same name would adopt the
		// leftovers by name and delete them.
		s.logger.Warn("teardown pass before delete failed", "plan", name, "error", err)
	}

	if err := s.repo.DeletePlan(r.Context(), name); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.Info("plan deleted", "plan", name)
	w.WriteHeader(http.StatusNoContent)
}

// handleEnablePlan enables a plan, schedules its daily pass and runs one
// immediately so rules exist before tonight.
func (s *Server) handleEnablePlan(w http.ResponseWriter, r *http.Request) {
	s.setEnabled(w, r, true)
}

// handleDisablePlan disables a plan, removes its cron entry and runs a
// pass immediately, which deletes every remote rule the plan owns.
func (s *Server) handleDisablePlan(w http.ResponseWriter, r *http.Request) {
	s.setEnabled(w, r, false)
}

func (s *Server) setEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	name := chi.URLParam(r, "name")

	if err := s.repo.SetPlanEnabled(r.Context(), name, enabled); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if enabled {
		record, err := s.repo.GetPlan(r.Context(), name)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		if err := s.scheduler.SchedulePlan(record.Name, record.Document); err != nil {
			s.writeDomainError(w, r, err)
			return
		}
	} else {
		s.scheduler.UnschedulePlan(name)
	}

	report, err := s.runner.RunPass(r.Context(), name, refresh.TriggerManual)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.Info("plan state changed", "plan", name, "enabled", enabled)
	writeJSON(w, http.StatusOK, report)
}

// handleRefreshPlan runs a pass for the plan now.
func (s *Server) handleRefreshPlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	report, err := s.runner.RunPass(r.Context(), name, refresh.TriggerManual)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleSchedulePreview returns the rules a plan would synthesise for a
// date, without touching the remote account. The date query parameter is
// YYYY-MM-DD and defaults to today in the plan's refresh zone.
func (s *Server) handleSchedulePreview(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var date schedule.Date
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := schedule.ParseDate(raw)
		if err != nil {
			writeBadRequest(w, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	preview, err := s.runner.DryRun(r.Context(), name, date)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// handleTestPlan toggles one of the plan's device groups on and off so a
// user can confirm the right lights are wired up.
func (s *Server) handleTestPlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Group == "" {
		writeBadRequest(w, "group is required")
		return
	}

	if err := s.runner.Toggle(r.Context(), name, req.Group, req.Toggles); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodePlanDocument reads a plan request body and validates the document.
// On failure it writes the error response and reports false.
func (s *Server) decodePlanDocument(w http.ResponseWriter, r *http.Request) (*plan.Document, string, bool) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return nil, "", false
	}
	if req.Document == "" {
		writeBadRequest(w, "document is required")
		return nil, "", false
	}

	doc, err := plan.Load([]byte(req.Document))
	if err != nil {
		s.writeDomainError(w, r, err)
		return nil, "", false
	}
	return doc, req.Document, true
}

// Compile-time checks that the production types satisfy the handler
// interfaces.
var (
	_ PassRunner    = (*refresh.Runner)(nil)
	_ PlanScheduler = (*refresh.Scheduler)(nil)
)
