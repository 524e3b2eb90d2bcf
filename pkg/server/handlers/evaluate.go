package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"decisionhq/meridian/pkg/audit/recorder"
	"decisionhq/meridian/pkg/rules/engine"
	"decisionhq/meridian/pkg/server/api"
	"decisionhq/meridian/pkg/server/middleware"
	"decisionhq/meridian/pkg/telemetry/metrics"
)

// EvaluateRequest is the generic decision evaluation request.
type EvaluateRequest struct {
	// RulePath selects the rule graph, relative to the rules directory.
	RulePath string `json:"rule_path"`

	// Facts is the flat fact map the graph is evaluated against.
	Facts map[string]interface{} `json:"facts"`

	// Trace includes the node-by-node trace in the response.
	Trace bool `json:"trace,omitempty"`
}

// EvaluateResponse is the decision payload for successful evaluations.
type EvaluateResponse struct {
	Result        map[string]interface{} `json:"result"`
	Trace         *engine.Trace          `json:"trace,omitempty"`
	RulePath      string                 `json:"rule_path"`
	Fingerprint   string                 `json:"rule_fingerprint"`
	PerformanceMS float64                `json:"performance_ms"`
	CorrelationID string                 `json:"correlation_id"`
}

// DecisionHandler serves decision evaluation requests.
type DecisionHandler struct {
	engine   *engine.Engine
	recorder *recorder.Recorder
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// NewDecisionHandler creates the evaluation handler. recorder and metrics
// may be nil when auditing or metrics are disabled.
func NewDecisionHandler(eng *engine.Engine, rec *recorder.Recorder, m *metrics.Collector, logger *slog.Logger) *DecisionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecisionHandler{engine: eng, recorder: rec, metrics: m, logger: logger}
}

// Evaluate handles POST /api/v1/decisions/evaluate.
func (h *DecisionHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, api.NewInvalidRequestError("request body is not valid JSON", api.CodeInvalidJSON))
		return
	}
	if req.RulePath == "" {
		writeError(w, api.NewInvalidRequestError("rule_path is required", api.CodeMissingField))
		return
	}
	if req.Facts == nil {
		writeError(w, api.NewInvalidRequestError("facts is required", api.CodeMissingField))
		return
	}

	correlationID := middleware.GetCorrelationID(r.Context())
	h.evaluate(w, r, req, correlationID)
}

// evaluate runs the engine and writes either a complete decision or an
// error envelope. Audit and metrics are recorded on both paths.
func (h *DecisionHandler) evaluate(w http.ResponseWriter, r *http.Request, req EvaluateRequest, correlationID string) {
	start := time.Now()
	decision, err := h.engine.Evaluate(r.Context(), req.RulePath, req.Facts)
	if err != nil {
		elapsed := time.Since(start)

		if h.metrics != nil {
			h.metrics.RecordEvaluation(req.RulePath, "error", elapsed)
		}
		if h.recorder != nil {
			if recErr := h.recorder.RecordFailure(correlationID, req.RulePath, req.Facts, err, elapsed); recErr != nil {
				h.logger.Warn("audit record failed", "error", recErr, "correlation_id", correlationID)
			}
		}

		h.logger.WarnContext(r.Context(), "evaluation failed",
			"rule_path", req.RulePath,
			"correlation_id", correlationID,
			"error", err,
		)
		writeError(w, classifyEvaluationError(err))
		return
	}

	if h.metrics != nil {
		h.metrics.RecordEvaluation(req.RulePath, "success", decision.Duration)
		h.metrics.RecordNodeCount(req.RulePath, len(decision.Trace.Entries))
	}
	if h.recorder != nil {
		if recErr := h.recorder.RecordDecision(correlationID, req.Facts, decision); recErr != nil {
			h.logger.Warn("audit record failed", "error", recErr, "correlation_id", correlationID)
		}
	}

	resp := EvaluateResponse{
		Result:        decision.Result,
		RulePath:      decision.RulePath,
		Fingerprint:   decision.Fingerprint,
		PerformanceMS: float64(decision.Duration.Microseconds()) / 1000.0,
		CorrelationID: correlationID,
	}
	if req.Trace {
		resp.Trace = decision.Trace
	}

	writeJSON(w, http.StatusOK, resp)
}
