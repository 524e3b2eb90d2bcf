package logging

import "context"

type contextKey string

const (
	// CorrelationIDKey is the context key for request correlation IDs.
	CorrelationIDKey contextKey = "correlation_id"

	// RulePathKey is the context key for the rule graph being evaluated.
	RulePathKey contextKey = "rule_path"

	// ApplicantIDKey is the context key for applicant identifiers.
	ApplicantIDKey contextKey = "applicant_id"
)

// WithCorrelationID adds a correlation ID to the context.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

// GetCorrelationID retrieves the correlation ID from the context.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRulePath adds a rule path to the context.
func WithRulePath(ctx context.Context, rulePath string) context.Context {
	return context.WithValue(ctx, RulePathKey, rulePath)
}

// GetRulePath retrieves the rule path from the context.
func GetRulePath(ctx context.Context) string {
	if path, ok := ctx.Value(RulePathKey).(string); ok {
		return path
	}
	return ""
}

// WithApplicantID adds an applicant identifier to the context.
func WithApplicantID(ctx context.Context, applicantID string) context.Context {
	return context.WithValue(ctx, ApplicantIDKey, applicantID)
}

// GetApplicantID retrieves the applicant identifier from the context.
func GetApplicantID(ctx context.Context) string {
	if id, ok := ctx.Value(ApplicantIDKey).(string); ok {
		return id
	}
	return ""
}

// extractContextFields collects the known context fields as slog key-value
// pairs, skipping any that are unset.
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if id := GetCorrelationID(ctx); id != "" {
		fields = append(fields, "correlation_id", id)
	}
	if path := GetRulePath(ctx); path != "" {
		fields = append(fields, "rule_path", path)
	}
	if id := GetApplicantID(ctx); id != "" {
		fields = append(fields, "applicant_id", id)
	}

	return fields
}
