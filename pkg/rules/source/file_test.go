package source

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestFileSource(t *testing.T) (*FileSource, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFileSource(dir, slog.Default())
	if err != nil {
		t.Fatalf("NewFileSource() unexpected error: %v", err)
	}
	return s, dir
}

func TestFileSource_ReadWriteDelete(t *testing.T) {
	s, dir := newTestFileSource(t)
	ctx := context.Background()

	content := []byte(`{"name": "test"}`)
	if err := s.Write(ctx, "kyc/test_v1", content); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	// An extension-less id lands on disk as a .json file.
	if _, err := os.Stat(filepath.Join(dir, "kyc", "test_v1.json")); err != nil {
		t.Fatalf("rule file not at expected path: %v", err)
	}

	got, err := s.Read(ctx, "kyc/test_v1")
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Read() = %q, want %q", got, content)
	}

	if err := s.Delete(ctx, "kyc/test_v1"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if _, err := s.Read(ctx, "kyc/test_v1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "kyc/test_v1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() of missing rule error = %v, want ErrNotFound", err)
	}
}

func TestFileSource_IdResolvesJSONFile(t *testing.T) {
	s, dir := newTestFileSource(t)
	ctx := context.Background()

	full := filepath.Join(dir, "kyc", "pan_eligibility_v1.json")
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	// The extension-less id and the explicit file name read the same rule.
	for _, path := range []string{"kyc/pan_eligibility_v1", "kyc/pan_eligibility_v1.json"} {
		if _, err := s.Read(ctx, path); err != nil {
			t.Errorf("Read(%q) unexpected error: %v", path, err)
		}
	}
}

func TestFileSource_List(t *testing.T) {
	s, dir := newTestFileSource(t)
	ctx := context.Background()

	files := map[string]string{
		"kyc/eligibility_v1.json": "{}",
		"kyc/eligibility_v2.json": "{}",
		"fraud/velocity_v1.json":  "{}",
		"notes/readme.txt":        "not a rule",
	}
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	want := []string{
		"fraud/velocity_v1",
		"kyc/eligibility_v1",
		"kyc/eligibility_v2",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	// Every listed id must read back without modification.
	for _, id := range got {
		if _, err := s.Read(ctx, id); err != nil {
			t.Errorf("Read(%q) of listed id unexpected error: %v", id, err)
		}
	}
}

func TestFileSource_RejectsEscapingPaths(t *testing.T) {
	s, _ := newTestFileSource(t)
	ctx := context.Background()

	paths := []string{
		"../outside.json",
		"kyc/../../outside.json",
		"",
	}
	for _, path := range paths {
		if _, err := s.Read(ctx, path); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Read(%q) error = %v, want ErrInvalidPath", path, err)
		}
		if err := s.Write(ctx, path, []byte("{}")); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Write(%q) error = %v, want ErrInvalidPath", path, err)
		}
	}
}

func TestMemorySource(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySource(map[string][]byte{
		"b.json": []byte("bb"),
		"a.json": []byte("aa"),
	})

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a.json", "b.json"}) {
		t.Errorf("List() = %v, want sorted paths", got)
	}

	data, err := s.Read(ctx, "a.json")
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	// Mutating the returned slice must not affect the stored copy.
	data[0] = 'x'
	again, _ := s.Read(ctx, "a.json")
	if string(again) != "aa" {
		t.Errorf("stored content mutated through returned slice: %q", again)
	}

	if err := s.Write(ctx, "c.json", []byte("cc")); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	if err := s.Delete(ctx, "b.json"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if _, err := s.Read(ctx, "b.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() after delete error = %v, want ErrNotFound", err)
	}
}
