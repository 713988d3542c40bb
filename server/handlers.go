package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hupe1980/eventcrew/artifact"
	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/crew"
	"github.com/hupe1980/eventcrew/planner"
	"github.com/hupe1980/eventcrew/report"
	"github.com/shopspring/decimal"
)

const maxBodySize = 1 << 20

// EventRequest is the body of POST /run-event.
type EventRequest struct {
	EventTopic           string          `json:"event_topic"`
	EventDescription     string          `json:"event_description"`
	EventCity            string          `json:"event_city"`
	TentativeDate        string          `json:"tentative_date"`
	ExpectedParticipants decimal.Decimal `json:"expected_participants"`
	Budget               decimal.Decimal `json:"budget"`
	VenueType            string          `json:"venue_type"`
	OpenAIAPIKey         string          `json:"openai_api_key"`
	SerperAPIKey         string          `json:"serper_api_key"`
}

// Details returns the planning parameters without credentials.
func (r EventRequest) Details() planner.EventDetails {
	return planner.EventDetails{
		Topic:                r.EventTopic,
		Description:          r.EventDescription,
		City:                 r.EventCity,
		TentativeDate:        r.TentativeDate,
		ExpectedParticipants: int(r.ExpectedParticipants.IntPart()),
		Budget:               r.Budget,
		VenueType:            r.VenueType,
	}
}

// Credentials returns the per-request API keys.
func (r EventRequest) Credentials() core.Credentials {
	return core.Credentials{ModelAPIKey: r.OpenAIAPIKey, SearchAPIKey: r.SerperAPIKey}
}

// EventResponse is the body of a successful POST /run-event.
type EventResponse struct {
	Success               bool              `json:"success"`
	Message               string            `json:"message"`
	RunID                 string            `json:"run_id"`
	VenueDetails          map[string]any    `json:"venue_details"`
	LogisticsConfirmation string            `json:"logistics_confirmation"`
	MarketingReport       string            `json:"marketing_report"`
	Tasks                 []crew.TaskOutput `json:"tasks"`
}

type errorResponse struct {
	Detail any `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Event Planning API",
		"status":  "running",
		"endpoints": map[string]string{
			"POST /run-event":                     "Run event planning crew",
			"GET /health":                         "Health check",
			"GET /runs/{run_id}/artifacts/{name}": "Download a run artifact",
			"GET /metrics":                        "Prometheus metrics",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleRunEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Detail: "request body too large"})
		return
	}

	if issues := s.validator.Validate(body); len(issues) > 0 {
		s.metrics.IncrementValidationFailure()
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: issues})
		return
	}

	var req EventRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: []ValidationIssue{
			{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"},
		}})
		return
	}

	ctx := r.Context()
	if s.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RunTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.planner.Run(ctx, req.Details(), req.Credentials())
	s.metrics.RecordRun(err, time.Since(start).Seconds())

	if err != nil {
		s.logger.Error("http.run_event.error", "request_id", requestID(r), "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Detail: fmt.Sprintf("Error during event planning: %s", err.Error()),
		})
		return
	}

	logistics := res.LogisticsConfirmation()
	if logistics == "" {
		logistics = "Logistics arrangements completed"
	}

	resp := EventResponse{
		Success:               true,
		Message:               "Event planning completed successfully",
		RunID:                 res.RunID,
		VenueDetails:          s.readVenueDetails(r.Context(), res.RunID),
		LogisticsConfirmation: logistics,
		MarketingReport:       s.readMarketingReport(r.Context(), res.RunID),
	}
	if res.Output != nil {
		resp.Tasks = res.Output.Tasks
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) readVenueDetails(ctx context.Context, runID string) map[string]any {
	data, err := s.store.Get(ctx, runID, report.VenueArtifact)
	if errors.Is(err, artifact.ErrNotFound) {
		return map[string]any{"error": "Venue details not generated"}
	}

	var venue map[string]any
	if err == nil {
		err = json.Unmarshal(data, &venue)
	}
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("Error reading venue details: %s", err.Error())}
	}

	return venue
}

func (s *Server) readMarketingReport(ctx context.Context, runID string) string {
	data, err := s.store.Get(ctx, runID, report.MarketingArtifact)
	if errors.Is(err, artifact.ErrNotFound) {
		return "Marketing report not generated yet"
	}
	if err != nil {
		return fmt.Sprintf("Error reading marketing report: %s", err.Error())
	}

	return string(data)
}

func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	name := chi.URLParam(r, "name")

	data, err := s.store.Get(r.Context(), runID, name)
	if errors.Is(err, artifact.ErrNotFound) || errors.Is(err, artifact.ErrInvalidKey) {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Artifact not found"})
		return
	}
	if err != nil {
		s.logger.Error("http.artifact.error", "run_id", runID, "name", name, "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Error reading artifact"})
		return
	}

	w.Header().Set("Content-Type", contentType(name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
