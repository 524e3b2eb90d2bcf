package logging

import (
	"fmt"
	"regexp"
	"strings"
)

// RedactPattern is a custom redaction rule supplied through configuration.
type RedactPattern struct {
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// Redactor redacts personally identifiable information from log fields.
type Redactor struct {
	patterns map[string]*redactPattern
}

type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternPAN         = "pan"
	PatternAadhaar     = "aadhaar"
	PatternEmail       = "email"
	PatternPhone       = "phone"
	PatternBearerToken = "bearer_token"
	PatternAPIKey      = "api_key"
)

// NewRedactor creates a Redactor with the built-in patterns plus any custom
// ones. Custom patterns that fail to compile are skipped.
func NewRedactor(customPatterns []RedactPattern) *Redactor {
	r := &Redactor{patterns: make(map[string]*redactPattern)}
	r.addDefaultPatterns()

	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		r.patterns[p.Name] = &redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		}
	}

	return r
}

func (r *Redactor) addDefaultPatterns() {
	patterns := map[string]struct {
		regex       string
		replacement string
	}{
		// Indian PAN: five letters, four digits, one letter.
		PatternPAN: {
			regex:       `\b[A-Z]{5}[0-9]{4}[A-Z]\b`,
			replacement: "PAN-****",
		},

		// Aadhaar: twelve digits, optionally space- or dash-grouped in fours.
		PatternAadhaar: {
			regex:       `\b\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`,
			replacement: "****-****-****",
		},

		PatternEmail: {
			regex:       `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`,
			replacement: "***@***",
		},

		// Indian mobile numbers with optional +91 prefix.
		PatternPhone: {
			regex:       `\b(?:\+?91[-\s]?)?[6-9]\d{9}\b`,
			replacement: "**********",
		},

		PatternBearerToken: {
			regex:       `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`,
			replacement: "Bearer ***",
		},

		PatternAPIKey: {
			regex:       `api[-_]?key[-_:=]\s*[a-zA-Z0-9]+`,
			replacement: "api_key: ***",
		},
	}

	for name, p := range patterns {
		r.patterns[name] = &redactPattern{
			name:        name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		}
	}
}

// RedactString redacts PII from a string value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	redacted := value
	for _, pattern := range r.patterns {
		redacted = pattern.regex.ReplaceAllString(redacted, pattern.replacement)
	}
	return redacted
}

// RedactArgs redacts PII from variadic slog arguments
// (key1, value1, key2, value2, ...).
func (r *Redactor) RedactArgs(args ...any) []any {
	if len(args) == 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 1; i < len(redacted); i += 2 {
		if key, ok := redacted[i-1].(string); ok && isSensitiveKey(key) {
			redacted[i] = r.redactValue(redacted[i])
			continue
		}
		if str, ok := redacted[i].(string); ok {
			redacted[i] = r.RedactString(str)
		}
	}

	return redacted
}

func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := []string{
		"pan", "aadhaar",
		"password", "secret", "token",
		"api_key", "apikey",
		"auth", "authorization",
		"date_of_birth", "dob",
	}

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

func (r *Redactor) redactValue(value any) any {
	switch v := value.(type) {
	case string:
		if v == "" {
			return ""
		}
		// Keep a short prefix so operators can correlate records.
		if len(v) <= 4 {
			return "***"
		}
		return v[:4] + "***"
	case fmt.Stringer:
		return "***"
	default:
		return "***"
	}
}
