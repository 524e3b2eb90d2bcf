// Package config defines the Meridian service configuration.
//
// Configuration is loaded from a YAML file, topped up with defaults, and
// optionally overridden by MERIDIAN_* environment variables. Validation
// collects every problem before reporting so a bad file is fixed in one
// round trip:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("meridian.yaml")
//	if err != nil {
//	    // err lists all invalid fields
//	}
//
// Environment overrides follow the MERIDIAN_SECTION_FIELD convention, e.g.
// MERIDIAN_SERVER_LISTEN_ADDRESS or MERIDIAN_AUDIT_RETENTION_DAYS.
package config
