package bibtex

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseRenames(t *testing.T) {
	content := `@article{Smith2023-tp,
  title = {Test Paper Title},
  doi = {10.1234/test},
  folder = {/home/user/papers},
  filename_old = {download.pdf},
  filename_new = {2023 - Nature - Smith.pdf},
}

@article{NoRename2020-aa,
  title = {No rename fields here},
}

@article{Doe2020-xy,
  folder = {/data},
  filename_old = {a.pdf},
  filename_new = {b.pdf},
}
`
	path := filepath.Join(t.TempDir(), "refs.bib")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := ParseRenames(path)
	if err != nil {
		t.Fatalf("ParseRenames() error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("ParseRenames() returned %d records, want 2", len(records))
	}

	first := records[0]
	if first.Key != "Smith2023-tp" {
		t.Errorf("Key = %q", first.Key)
	}
	if first.Folder != "/home/user/papers" {
		t.Errorf("Folder = %q", first.Folder)
	}
	if first.FilenameOld != "download.pdf" {
		t.Errorf("FilenameOld = %q", first.FilenameOld)
	}
	if first.FilenameNew != "2023 - Nature - Smith.pdf" {
		t.Errorf("FilenameNew = %q", first.FilenameNew)
	}

	if records[1].Key != "Doe2020-xy" {
		t.Errorf("second record = %+v", records[1])
	}
}

func TestParseRenames_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.bib")
	if err := Append(path, sampleEntry().Render()); err != nil {
		t.Fatal(err)
	}

	records, err := ParseRenames(path)
	if err != nil {
		t.Fatalf("ParseRenames() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	want := sampleEntry()
	if records[0].Folder != want.Folder ||
		records[0].FilenameOld != want.FilenameOld ||
		records[0].FilenameNew != want.FilenameNew {
		t.Errorf("round trip mismatch: %+v", records[0])
	}
}

func TestParseRenames_MissingFile(t *testing.T) {
	if _, err := ParseRenames(filepath.Join(t.TempDir(), "nope.bib")); err == nil {
		t.Error("ParseRenames() should fail on a missing file")
	}
}
