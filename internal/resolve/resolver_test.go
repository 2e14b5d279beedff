package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/cwade/pdfrenamer/internal/pdf"
	"github.com/cwade/pdfrenamer/internal/reference"
)

type fakeDOILookup struct {
	meta map[string]*reference.Metadata
	err  error
}

func (f *fakeDOILookup) Works(ctx context.Context, doi string) (*reference.Metadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	if m, ok := f.meta[doi]; ok {
		return m, nil
	}
	return nil, errors.New("not found")
}

type fakeArXivLookup struct {
	meta map[string]*reference.Metadata
	err  error
}

func (f *fakeArXivLookup) Lookup(ctx context.Context, id string) (*reference.Metadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	if m, ok := f.meta[id]; ok {
		return m, nil
	}
	return nil, errors.New("not found")
}

func stubIdentifier(id *pdf.Identifier, err error) func(string) (*pdf.Identifier, error) {
	return func(string) (*pdf.Identifier, error) {
		return id, err
	}
}

func TestResolve_DOI(t *testing.T) {
	want := &reference.Metadata{Title: "A Paper", DOI: "10.1/x"}
	r := New(&fakeDOILookup{meta: map[string]*reference.Metadata{"10.1/x": want}}, &fakeArXivLookup{})
	r.findIdentifier = stubIdentifier(&pdf.Identifier{Value: "10.1/x", Type: pdf.TypeDOI}, nil)

	got, err := r.Resolve(context.Background(), "paper.pdf")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got.Identifier != "10.1/x" || got.IdentifierType != pdf.TypeDOI {
		t.Errorf("Resolve() = %+v", got)
	}
	if got.Metadata != want {
		t.Errorf("Metadata = %+v, want %+v", got.Metadata, want)
	}
}

func TestResolve_NoIdentifier(t *testing.T) {
	r := New(&fakeDOILookup{}, &fakeArXivLookup{})
	r.findIdentifier = stubIdentifier(nil, nil)

	_, err := r.Resolve(context.Background(), "paper.pdf")
	if !errors.Is(err, ErrNoIdentifier) {
		t.Errorf("Resolve() error = %v, want ErrNoIdentifier", err)
	}
}

func TestResolve_ArXivUpgradesToCrossref(t *testing.T) {
	arxivMeta := &reference.Metadata{
		Title:   "Preprint Title",
		ArXivID: "2101.01234",
		DOI:     "10.1/x",
	}
	published := &reference.Metadata{
		Title:   "Published Title",
		DOI:     "10.1/x",
		Journal: "Physical Review Letters",
	}

	r := New(
		&fakeDOILookup{meta: map[string]*reference.Metadata{"10.1/x": published}},
		&fakeArXivLookup{meta: map[string]*reference.Metadata{"2101.01234": arxivMeta}},
	)
	r.findIdentifier = stubIdentifier(&pdf.Identifier{Value: "2101.01234", Type: pdf.TypeArXiv}, nil)

	got, err := r.Resolve(context.Background(), "paper.pdf")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got.Metadata.Title != "Published Title" {
		t.Errorf("Title = %q, want the Crossref record", got.Metadata.Title)
	}
	if got.Metadata.ArXivID != "2101.01234" {
		t.Errorf("ArXivID = %q, should be preserved on the upgraded record", got.Metadata.ArXivID)
	}
}

func TestResolve_ArXivFallsBackWhenCrossrefFails(t *testing.T) {
	arxivMeta := &reference.Metadata{
		Title:   "Preprint Title",
		ArXivID: "2101.01234",
		DOI:     "10.1/x",
	}

	r := New(
		&fakeDOILookup{err: errors.New("crossref down")},
		&fakeArXivLookup{meta: map[string]*reference.Metadata{"2101.01234": arxivMeta}},
	)
	r.findIdentifier = stubIdentifier(&pdf.Identifier{Value: "2101.01234", Type: pdf.TypeArXiv}, nil)

	got, err := r.Resolve(context.Background(), "paper.pdf")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got.Metadata.Title != "Preprint Title" {
		t.Errorf("Title = %q, want the arXiv record", got.Metadata.Title)
	}
}

func TestResolve_LookupError(t *testing.T) {
	r := New(&fakeDOILookup{err: errors.New("boom")}, &fakeArXivLookup{})
	r.findIdentifier = stubIdentifier(&pdf.Identifier{Value: "10.1/x", Type: pdf.TypeDOI}, nil)

	if _, err := r.Resolve(context.Background(), "paper.pdf"); err == nil {
		t.Fatal("Resolve() should propagate lookup errors")
	}
}
