package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	automationservice "channeldirector/contexts/channel-ops/automation-service"
	domainerrors "channeldirector/contexts/channel-ops/automation-service/domain/errors"
	automationhttp "channeldirector/contexts/channel-ops/automation-service/transport/http"

	_ "channeldirector/internal/platform/httpserver/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	automation automationservice.Module
}

func New(automation automationservice.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		automation: automation,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for httptest-driven tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /automations", s.handleListAutomations)
	s.mux.HandleFunc("POST /automations", s.handleCreateAutomation)
	s.mux.HandleFunc("GET /automations/{automation_id}", s.handleGetAutomation)
	s.mux.HandleFunc("PUT /automations/{automation_id}", s.handleUpdateAutomation)
	s.mux.HandleFunc("DELETE /automations/{automation_id}", s.handleDeleteAutomation)
	s.mux.HandleFunc("POST /automations/{automation_id}/run", s.handleRunAutomation)
	s.mux.HandleFunc("GET /run-logs", s.handleListRunLogs)
	s.mux.HandleFunc("GET /dashboard", s.handleGetDashboard)
}

func (s *Server) handleListAutomations(w http.ResponseWriter, r *http.Request) {
	resp, err := s.automation.Handler.ListAutomationsHandler(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeAutomationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateAutomation(w http.ResponseWriter, r *http.Request) {
	var req automationhttp.CreateAutomationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAutomationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.automation.Handler.CreateAutomationHandler(r.Context(), req)
	if err != nil {
		writeAutomationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetAutomation(w http.ResponseWriter, r *http.Request) {
	automationID := r.PathValue("automation_id")
	resp, err := s.automation.Handler.GetAutomationHandler(r.Context(), automationID)
	if err != nil {
		writeAutomationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateAutomation(w http.ResponseWriter, r *http.Request) {
	var req automationhttp.UpdateAutomationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAutomationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	automationID := r.PathValue("automation_id")
	resp, err := s.automation.Handler.UpdateAutomationHandler(r.Context(), automationID, req)
	if err != nil {
		writeAutomationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteAutomation(w http.ResponseWriter, r *http.Request) {
	automationID := r.PathValue("automation_id")
	if err := s.automation.Handler.DeleteAutomationHandler(r.Context(), automationID); err != nil {
		writeAutomationDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRunAutomation(w http.ResponseWriter, r *http.Request) {
	automationID := r.PathValue("automation_id")
	resp, err := s.automation.Handler.RunAutomationHandler(r.Context(), automationID)
	if err != nil {
		writeAutomationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) handleListRunLogs(w http.ResponseWriter, r *http.Request) {
	resp, err := s.automation.Handler.ListRunLogsHandler(r.Context(), r.URL.Query().Get("automationId"))
	if err != nil {
		writeAutomationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := s.automation.Handler.GetDashboardHandler(r.Context())
	if err != nil {
		writeAutomationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAutomationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrAutomationNotFound):
		writeAutomationError(w, http.StatusNotFound, "automation_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrRunInProgress):
		writeAutomationError(w, http.StatusConflict, "run_in_progress", err.Error())
	case errors.Is(err, domainerrors.ErrStatusNotOverridable):
		writeAutomationError(w, http.StatusBadRequest, "status_not_overridable", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidAutomationInput):
		writeAutomationError(w, http.StatusBadRequest, "invalid_automation_input", err.Error())
	default:
		writeAutomationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAutomationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, automationhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
