package kyc

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// KarzaPANResponse is the PAN verification response from the Karza API.
// Status values and the 0-100 match scale are Karza's, not ours.
type KarzaPANResponse struct {
	PAN                 string  `json:"pan"`
	Status              string  `json:"status"` // "valid", "invalid", "pending", "error"
	NameOnPAN           string  `json:"name_on_pan"`
	NameMatchPercentage float64 `json:"name_match_percentage"` // 0-100
}

// CustomerRecord is the demographic payload from the internal customer
// service.
type CustomerRecord struct {
	CustomerID  string `json:"customer_id"`
	DateOfBirth string `json:"date_of_birth"` // "YYYY-MM-DD"
	StateCode   string `json:"state_code"`    // "KA", "MH", ...
	Segment     string `json:"segment"`       // "retail", "premium", ...
}

// CIBILResponse is the credit bureau response. StatusCode carries HTTP-like
// codes rather than semantic statuses.
type CIBILResponse struct {
	Score        *int   `json:"score"`
	StatusCode   string `json:"status_code"` // "200", "404", "500", "timeout"
	ErrorMessage string `json:"error_message,omitempty"`
}

// DedupeResponse is the duplicate-customer check response.
type DedupeResponse struct {
	IsDuplicate bool     `json:"is_duplicate"`
	MatchScore  *float64 `json:"match_score"` // 0-100
}

var karzaStatusMap = map[string]PANVerificationStatus{
	"valid":   PANVerified,
	"invalid": PANInvalid,
	"pending": PANPending,
	"error":   PANError,
}

var stateCodeMap = map[string]CustomerState{
	"AP": StateAndhraPradesh,
	"KA": StateKarnataka,
	"MH": StateMaharashtra,
	"TN": StateTamilNadu,
	"DL": StateDelhi,
	"WB": StateWestBengal,
	"GJ": StateGujarat,
	"RJ": StateRajasthan,
	"UP": StateUttarPradesh,
	"TG": StateTelangana,
}

var segmentMap = map[string]CustomerType{
	"retail":     TypeRetail,
	"premium":    TypePremium,
	"corporate":  TypeCorporate,
	"government": TypeGovernment,
}

var cibilStatusMap = map[string]CIBILFetchStatus{
	"200":     CIBILSuccess,
	"404":     CIBILNoHistory,
	"500":     CIBILFailure,
	"timeout": CIBILTimeout,
}

// Adapter maps vendor payloads to the canonical fact model.
type Adapter struct {
	logger *slog.Logger

	// now is swapped in tests so age calculation is stable.
	now func() time.Time
}

// NewAdapter creates a KYC fact adapter.
func NewAdapter(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{logger: logger, now: time.Now}
}

// Adapt maps the four vendor payloads to validated canonical facts. An empty
// correlationID gets a generated one. Unknown vendor enum values fall back
// conservatively: unknown PAN statuses become ERROR, unknown states OTHER,
// unknown segments RETAIL, unknown CIBIL codes FAILURE.
func (a *Adapter) Adapt(karza KarzaPANResponse, customer CustomerRecord, cibil CIBILResponse, dedupe DedupeResponse, correlationID string) (*FactsV1, error) {
	if correlationID == "" {
		correlationID = uuid.New().String()
	}

	panStatus, ok := karzaStatusMap[strings.ToLower(karza.Status)]
	if !ok {
		panStatus = PANError
	}

	age, err := a.ageFromDOB(customer.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("customer %s: %w", customer.CustomerID, err)
	}

	state, ok := stateCodeMap[strings.ToUpper(customer.StateCode)]
	if !ok {
		state = StateOther
	}

	segment, ok := segmentMap[strings.ToLower(customer.Segment)]
	if !ok {
		segment = TypeRetail
	}

	cibilStatus, ok := cibilStatusMap[cibil.StatusCode]
	if !ok {
		cibilStatus = CIBILFailure
	}

	var dedupeConfidence *float64
	if dedupe.MatchScore != nil {
		c := clamp01(*dedupe.MatchScore / 100)
		dedupeConfidence = &c
	}

	facts := &FactsV1{
		PANNumber:             strings.ToUpper(karza.PAN),
		PANVerificationStatus: panStatus,
		PANNameMatchScore:     clamp01(karza.NameMatchPercentage / 100),
		CustomerAge:           age,
		CustomerState:         state,
		CustomerType:          segment,
		CIBILScore:            cibil.Score,
		CIBILFetchStatus:      cibilStatus,
		DedupeMatchFound:      dedupe.IsDuplicate,
		DedupeMatchConfidence: dedupeConfidence,
		CorrelationID:         correlationID,
		RequestTimestamp:      a.now().UTC(),
	}

	if err := facts.Validate(); err != nil {
		a.logger.Error("fact validation failed",
			"correlation_id", correlationID,
			"customer_id", customer.CustomerID,
			"error", err,
		)
		return nil, fmt.Errorf("invalid fact data: %w", err)
	}

	a.logger.Info("facts adapted",
		"correlation_id", correlationID,
		"pan_status", panStatus,
		"customer_age", age,
	)
	return facts, nil
}

// ageFromDOB computes completed years between the date of birth and now.
func (a *Adapter) ageFromDOB(dob string) (int, error) {
	born, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0, fmt.Errorf("invalid date_of_birth %q: %w", dob, err)
	}

	now := a.now()
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
