package bibtex

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseIndex_MissingFile(t *testing.T) {
	idx, err := ParseIndex(filepath.Join(t.TempDir(), "refs.bib"))
	if err != nil {
		t.Fatalf("ParseIndex() on missing file: %v", err)
	}
	if idx.HasEntry("Smith2023-tp", "10.1234/test") {
		t.Error("empty index should have no entries")
	}
}

func TestParseIndex_ReadsKeysAndDOIs(t *testing.T) {
	content := `@article{Smith2023-tp,
  title = {Test Paper Title},
  doi = {10.1234/test},
}

@article{Doe2020-xy,
  title = {Another One},
}
`
	path := filepath.Join(t.TempDir(), "refs.bib")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	idx, err := ParseIndex(path)
	if err != nil {
		t.Fatalf("ParseIndex() error: %v", err)
	}

	if !idx.HasEntry("Smith2023-tp", "") {
		t.Error("index should match by key")
	}
	if !idx.HasEntry("Other2024-zz", "https://doi.org/10.1234/TEST") {
		t.Error("index should match by normalized DOI")
	}
	if !idx.HasEntry("Doe2020-xy", "") {
		t.Error("index should contain the DOI-less entry by key")
	}
	if idx.HasEntry("Nobody2021-aa", "10.9/none") {
		t.Error("index should not match unknown entries")
	}
}

func TestAppendAndReparse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.bib")

	if err := Append(path, sampleEntry().Render()); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := Append(path, "@article{Doe2020-xy,\n  title = {Another},\n}\n"); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	idx, err := ParseIndex(path)
	if err != nil {
		t.Fatalf("ParseIndex() error: %v", err)
	}
	if !idx.HasEntry("Smith2023-tp", "10.1234/test") {
		t.Error("appended entry should be indexed")
	}
	if !idx.HasEntry("Doe2020-xy", "") {
		t.Error("second appended entry should be indexed")
	}
}

func TestIndexAdd(t *testing.T) {
	idx := NewIndex()
	idx.Add("Smith2023-tp", "10.1234/Test")

	if !idx.HasEntry("Smith2023-tp", "") {
		t.Error("Add() should record the key")
	}
	if !idx.HasEntry("", "10.1234/test") {
		t.Error("Add() should record the normalized DOI")
	}
}
