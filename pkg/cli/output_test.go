package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestTextFormatter(t *testing.T) {
	f := NewFormatter(FormatText)

	var buf bytes.Buffer
	if err := f.FormatTo(&buf, "hello"); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("output = %q, want %q", buf.String(), "hello\n")
	}
}

func TestJSONFormatter(t *testing.T) {
	f := NewFormatter(FormatJSON)

	data := map[string]interface{}{"rule_path": "kyc/pan_eligibility_v1", "valid": true}
	var buf bytes.Buffer
	if err := f.FormatTo(&buf, data); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["rule_path"] != "kyc/pan_eligibility_v1" {
		t.Errorf("rule_path = %v", decoded["rule_path"])
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("JSON output is not indented")
	}
}

func TestJSONFormatterCompact(t *testing.T) {
	f := &JSONFormatter{Indent: false}

	out, err := f.Format(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if string(out) != `{"a":1}` {
		t.Errorf("output = %q", out)
	}
}

func TestNewFormatterDefaultsToText(t *testing.T) {
	if _, ok := NewFormatter("bogus").(*TextFormatter); !ok {
		t.Error("unknown format should fall back to text")
	}
}
