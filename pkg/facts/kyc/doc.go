// Package kyc is the fact adapter boundary for the KYC domain. Upstream
// vendor responses (Karza PAN verification, the customer service, CIBIL,
// dedupe) never reach the rules engine directly: the adapter maps them to
// the versioned canonical fact model, normalizing enum values, scales, and
// casing along the way, and validates the result before it becomes engine
// input.
//
// Rules are written against the canonical field names, so vendor API churn
// stays inside this package.
package kyc
