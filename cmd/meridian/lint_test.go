package main

import (
	"os"
	"path/filepath"
	"testing"
)

const validRuleDoc = `{
	"name": "passthrough",
	"version": "1",
	"nodes": [
		{"id": "in", "kind": "INPUT", "content": {"fields": [{"field": "x"}]}},
		{"id": "out", "kind": "OUTPUT", "content": {"fields": ["x"]}}
	],
	"edges": [{"source": "in", "target": "out"}]
}`

const brokenRuleDoc = `{
	"name": "broken",
	"version": "1",
	"nodes": [
		{"id": "in", "kind": "INPUT", "content": {"fields": [{"field": "x"}]}}
	],
	"edges": [{"source": "in", "target": "missing"}]
}`

func writeRuleFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLintRuleFileValid(t *testing.T) {
	path := writeRuleFile(t, t.TempDir(), "pass.json", validRuleDoc)

	result := lintRuleFile(path)

	if !result.Valid {
		t.Fatalf("valid file reported invalid: %v", result.Problems)
	}
	if result.Graph != "passthrough" {
		t.Errorf("graph = %q", result.Graph)
	}
	if result.Nodes != 2 {
		t.Errorf("nodes = %d, want 2", result.Nodes)
	}
}

func TestLintRuleFileInvalid(t *testing.T) {
	path := writeRuleFile(t, t.TempDir(), "broken.json", brokenRuleDoc)

	result := lintRuleFile(path)

	if result.Valid {
		t.Fatal("broken file reported valid")
	}
	if len(result.Problems) == 0 {
		t.Error("no problems reported")
	}
}

func TestLintRuleFileNotJSON(t *testing.T) {
	path := writeRuleFile(t, t.TempDir(), "garbage.json", "not json at all")

	result := lintRuleFile(path)

	if result.Valid {
		t.Fatal("garbage file reported valid")
	}
}

func TestLintRuleFileMissing(t *testing.T) {
	result := lintRuleFile(filepath.Join(t.TempDir(), "absent.json"))

	if result.Valid {
		t.Fatal("missing file reported valid")
	}
}

func TestCollectRuleFilesWalksNestedDirs(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "top.json", validRuleDoc)
	writeRuleFile(t, dir, filepath.Join("kyc", "nested.json"), validRuleDoc)
	writeRuleFile(t, dir, "notes.txt", "ignored")

	files, err := collectRuleFiles(dir)
	if err != nil {
		t.Fatalf("collectRuleFiles: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("files = %v, want 2 JSON files", files)
	}
}
