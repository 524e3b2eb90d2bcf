package kyc

import (
	"fmt"
	"regexp"
	"time"
)

// PANVerificationStatus is the canonical PAN verification outcome.
type PANVerificationStatus string

const (
	PANVerified    PANVerificationStatus = "VERIFIED"
	PANNotVerified PANVerificationStatus = "NOT_VERIFIED"
	PANInvalid     PANVerificationStatus = "INVALID"
	PANPending     PANVerificationStatus = "PENDING"
	PANError       PANVerificationStatus = "ERROR"
)

// CustomerState is the customer's state of residence.
type CustomerState string

const (
	StateAndhraPradesh CustomerState = "ANDHRA_PRADESH"
	StateKarnataka     CustomerState = "KARNATAKA"
	StateMaharashtra   CustomerState = "MAHARASHTRA"
	StateTamilNadu     CustomerState = "TAMIL_NADU"
	StateDelhi         CustomerState = "DELHI"
	StateWestBengal    CustomerState = "WEST_BENGAL"
	StateGujarat       CustomerState = "GUJARAT"
	StateRajasthan     CustomerState = "RAJASTHAN"
	StateUttarPradesh  CustomerState = "UTTAR_PRADESH"
	StateTelangana     CustomerState = "TELANGANA"
	StateOther         CustomerState = "OTHER"
)

// CustomerType is the customer classification.
type CustomerType string

const (
	TypeRetail     CustomerType = "RETAIL"
	TypePremium    CustomerType = "PREMIUM"
	TypeCorporate  CustomerType = "CORPORATE"
	TypeGovernment CustomerType = "GOVERNMENT"
)

// CIBILFetchStatus is the outcome of the credit bureau fetch.
type CIBILFetchStatus string

const (
	CIBILSuccess   CIBILFetchStatus = "SUCCESS"
	CIBILFailure   CIBILFetchStatus = "FAILURE"
	CIBILNoHistory CIBILFetchStatus = "NO_HISTORY"
	CIBILTimeout   CIBILFetchStatus = "TIMEOUT"
)

// EligibilityStatus is the final KYC decision.
type EligibilityStatus string

const (
	StatusApproved         EligibilityStatus = "APPROVED"
	StatusRejected         EligibilityStatus = "REJECTED"
	StatusManualReview     EligibilityStatus = "MANUAL_REVIEW"
	StatusPendingDocuments EligibilityStatus = "PENDING_DOCUMENTS"
)

// RejectionReason is the reason code attached to a rejection.
type RejectionReason string

const (
	ReasonPANInvalid          RejectionReason = "PAN_INVALID"
	ReasonPANNameMismatch     RejectionReason = "PAN_NAME_MISMATCH"
	ReasonAgeBelowThreshold   RejectionReason = "AGE_BELOW_THRESHOLD"
	ReasonCIBILScoreLow       RejectionReason = "CIBIL_SCORE_LOW"
	ReasonDuplicateCustomer   RejectionReason = "DUPLICATE_CUSTOMER"
	ReasonRestrictedState     RejectionReason = "RESTRICTED_STATE"
	ReasonIncompleteDocuments RejectionReason = "INCOMPLETE_DOCUMENTS"
)

// panPattern is the PAN card format: five letters, four digits, one letter.
var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// FactsV1 is version 1 of the canonical KYC fact model, the only shape the
// eligibility rules ever see. Scores are normalized to the 0-1 range and
// enum fields carry canonical values only.
type FactsV1 struct {
	// PAN facts
	PANNumber             string                `json:"pan_number"`
	PANVerificationStatus PANVerificationStatus `json:"pan_verification_status"`
	PANNameMatchScore     float64               `json:"pan_name_match_score"`

	// Customer demographics
	CustomerAge   int           `json:"customer_age"`
	CustomerState CustomerState `json:"customer_state"`
	CustomerType  CustomerType  `json:"customer_type"`

	// Credit bureau facts. A nil score means the bureau had no score to
	// give; CIBILFetchStatus says why.
	CIBILScore       *int             `json:"cibil_score"`
	CIBILFetchStatus CIBILFetchStatus `json:"cibil_fetch_status"`

	// Dedupe facts
	DedupeMatchFound      bool     `json:"dedupe_match_found"`
	DedupeMatchConfidence *float64 `json:"dedupe_match_confidence"`

	// Audit metadata
	CorrelationID    string    `json:"correlation_id"`
	RequestTimestamp time.Time `json:"request_timestamp"`
}

// Validate checks the canonical model against the fact registry constraints.
func (f *FactsV1) Validate() error {
	if !panPattern.MatchString(f.PANNumber) {
		return fmt.Errorf("invalid PAN format: %q", f.PANNumber)
	}
	if f.PANNameMatchScore < 0 || f.PANNameMatchScore > 1 {
		return fmt.Errorf("pan_name_match_score %v outside [0, 1]", f.PANNameMatchScore)
	}
	if f.CustomerAge < 18 || f.CustomerAge > 120 {
		return fmt.Errorf("customer_age %d outside [18, 120]", f.CustomerAge)
	}
	if f.CIBILScore != nil && (*f.CIBILScore < 300 || *f.CIBILScore > 900) {
		return fmt.Errorf("cibil_score %d outside [300, 900]", *f.CIBILScore)
	}
	if f.DedupeMatchConfidence != nil && (*f.DedupeMatchConfidence < 0 || *f.DedupeMatchConfidence > 1) {
		return fmt.Errorf("dedupe_match_confidence %v outside [0, 1]", *f.DedupeMatchConfidence)
	}
	if f.CorrelationID == "" {
		return fmt.Errorf("correlation_id is required")
	}
	return nil
}

// FactMap flattens the model into engine facts. Optional fields that are
// absent map to explicit nulls so rule cells can match on "null".
func (f *FactsV1) FactMap() map[string]interface{} {
	facts := map[string]interface{}{
		"pan_number":              f.PANNumber,
		"pan_verification_status": string(f.PANVerificationStatus),
		"pan_name_match_score":    f.PANNameMatchScore,
		"customer_age":            float64(f.CustomerAge),
		"customer_state":          string(f.CustomerState),
		"customer_type":           string(f.CustomerType),
		"cibil_fetch_status":      string(f.CIBILFetchStatus),
		"dedupe_match_found":      f.DedupeMatchFound,
	}

	if f.CIBILScore != nil {
		facts["cibil_score"] = float64(*f.CIBILScore)
	} else {
		facts["cibil_score"] = nil
	}
	if f.DedupeMatchConfidence != nil {
		facts["dedupe_match_confidence"] = *f.DedupeMatchConfidence
	} else {
		facts["dedupe_match_confidence"] = nil
	}

	return facts
}

// DecisionOutputV1 is the canonical decision shape returned to KYC callers.
type DecisionOutputV1 struct {
	EligibilityStatus   EligibilityStatus `json:"kyc_eligibility_status"`
	RejectionReason     *RejectionReason  `json:"kyc_rejection_reason"`
	RuleVersion         string            `json:"rule_version,omitempty"`
	EvaluationTimestamp time.Time         `json:"evaluation_timestamp"`
}
