// Meridian is a decision graph evaluation service for KYC onboarding.
//
// It serves rule-based decisions over HTTP, providing:
//   - Decision graph evaluation with full node-by-node tracing
//   - Hot reload of rule files without restarts
//   - KYC fact normalization from vendor payloads
//   - Immutable audit trails for decisions and rule changes
//   - Prometheus metrics and PII-redacting structured logs
//
// Usage:
//
//	# Start server with default configuration
//	meridian run
//
//	# Start with custom configuration file
//	meridian run --config /path/to/config.yaml
//
//	# Show version information
//	meridian version
//
//	# Validate rule files
//	meridian lint --file rules/kyc/pan_eligibility_v1.json
//
//	# Evaluate a rule once against a facts file
//	meridian eval --rule kyc/pan_eligibility_v1 --facts facts.json
//
//	# Benchmark evaluation latency
//	meridian bench --rule kyc/pan_eligibility_v1 --facts facts.json -n 10000
package main

func main() {
	Execute()
}
