package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	dglerrors "decisionhq/meridian/pkg/dgl/errors"
	"decisionhq/meridian/pkg/rules/engine"
	"decisionhq/meridian/pkg/rules/source"
	"decisionhq/meridian/pkg/server/api"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, errResp *api.ErrorResponse) {
	writeJSON(w, errResp.Error.HTTPStatusCode(), errResp)
}

// classifyEvaluationError maps an evaluation failure onto the error
// envelope. NodeEvaluationError wraps the interesting causes, so errors.As
// walks the chain.
func classifyEvaluationError(err error) *api.ErrorResponse {
	var (
		parseErr  *dglerrors.ParseError
		noMatch   *engine.NoMatchingRuleError
		cellErr   *engine.CellError
		malformed *engine.MalformedExpressionError
	)

	switch {
	case errors.Is(err, source.ErrNotFound):
		return api.NewErrorResponse("rule not found", api.ErrorTypeNotFound, api.CodeRuleNotFound)

	case errors.Is(err, source.ErrInvalidPath):
		return api.NewInvalidRequestError("invalid rule path", api.CodeInvalidValue)

	case errors.As(err, &parseErr):
		return api.NewErrorResponse(err.Error(), api.ErrorTypeRuleError, api.CodeRuleParseFailed)

	case errors.As(err, &noMatch):
		return api.NewErrorResponse(err.Error(), api.ErrorTypeRuleError, api.CodeNoMatchingRule)

	case errors.As(err, &cellErr), errors.As(err, &malformed):
		return api.NewErrorResponse(err.Error(), api.ErrorTypeRuleError, api.CodeMalformedCell)

	case errors.Is(err, context.DeadlineExceeded):
		return api.NewErrorResponse("evaluation timed out", api.ErrorTypeTimeout, api.CodeEvaluationFailed)

	default:
		return api.NewErrorResponse(err.Error(), api.ErrorTypeRuleError, api.CodeEvaluationFailed)
	}
}
