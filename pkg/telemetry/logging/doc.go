// Package logging configures structured logging on top of log/slog.
//
// The Logger wraps slog with automatic PII redaction: applicant facts flow
// through log fields during evaluation and audit recording, and identifiers
// like PAN and Aadhaar numbers must never reach log output in the clear.
// Redaction runs over both field values and message-embedded strings.
//
// Component packages take a plain *slog.Logger; use Logger.Slog() to hand
// them one scoped with a "component" attribute.
package logging
