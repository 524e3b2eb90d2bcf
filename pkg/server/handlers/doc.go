// Package handlers implements the decision service HTTP endpoints: decision
// evaluation, the KYC eligibility adapter endpoint, and rule management for
// the editor.
//
// Every failure is returned as the api.ErrorResponse envelope. A response is
// either a complete decision or an error, never a partial result.
package handlers
