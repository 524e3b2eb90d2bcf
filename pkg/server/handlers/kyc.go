package handlers

import (
	"encoding/json"
	"net/http"

	"decisionhq/meridian/pkg/facts/kyc"
	"decisionhq/meridian/pkg/server/api"
	"decisionhq/meridian/pkg/server/middleware"
)

// DefaultKYCRulePath is the rule graph evaluated for KYC eligibility when
// the request does not name one.
const DefaultKYCRulePath = "kyc/pan_eligibility_v1"

// KYCEligibilityRequest bundles the four vendor payloads the fact adapter
// consumes.
type KYCEligibilityRequest struct {
	Karza    kyc.KarzaPANResponse `json:"karza"`
	Customer kyc.CustomerRecord   `json:"customer"`
	CIBIL    kyc.CIBILResponse    `json:"cibil"`
	Dedupe   kyc.DedupeResponse   `json:"dedupe"`

	// RulePath overrides the default eligibility rule.
	RulePath string `json:"rule_path,omitempty"`

	// CorrelationID overrides the request's correlation ID, letting the
	// KYC orchestrator thread its own IDs through.
	CorrelationID string `json:"correlation_id,omitempty"`

	// Trace includes the node-by-node trace in the response.
	Trace bool `json:"trace,omitempty"`
}

// KYCHandler serves the KYC eligibility endpoint: vendor payloads in,
// eligibility decision out.
type KYCHandler struct {
	decisions *DecisionHandler
	adapter   *kyc.Adapter
}

// NewKYCHandler creates the KYC eligibility handler.
func NewKYCHandler(decisions *DecisionHandler, adapter *kyc.Adapter) *KYCHandler {
	return &KYCHandler{decisions: decisions, adapter: adapter}
}

// Eligibility handles POST /api/v1/decisions/kyc/eligibility. The vendor
// payloads are normalized to canonical facts before evaluation; adapter
// validation failures are client errors, not rule errors.
func (h *KYCHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	var req KYCEligibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, api.NewInvalidRequestError("request body is not valid JSON", api.CodeInvalidJSON))
		return
	}

	correlationID := req.CorrelationID
	if correlationID == "" {
		correlationID = middleware.GetCorrelationID(r.Context())
	}

	facts, err := h.adapter.Adapt(req.Karza, req.Customer, req.CIBIL, req.Dedupe, correlationID)
	if err != nil {
		writeError(w, api.NewInvalidRequestError(err.Error(), api.CodeInvalidValue))
		return
	}

	rulePath := req.RulePath
	if rulePath == "" {
		rulePath = DefaultKYCRulePath
	}

	h.decisions.evaluate(w, r, EvaluateRequest{
		RulePath: rulePath,
		Facts:    facts.FactMap(),
		Trace:    req.Trace,
	}, facts.CorrelationID)
}
