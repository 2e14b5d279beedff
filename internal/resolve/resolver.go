// Package resolve turns a PDF file into publication metadata by finding
// a bibliographic identifier and looking it up.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/cwade/pdfrenamer/internal/arxiv"
	"github.com/cwade/pdfrenamer/internal/crossref"
	"github.com/cwade/pdfrenamer/internal/pdf"
	"github.com/cwade/pdfrenamer/internal/reference"
)

// ErrNoIdentifier is returned when no DOI or arXiv ID can be found in
// a file.
var ErrNoIdentifier = errors.New("no identifier found")

// DOILookup resolves a DOI to metadata.
type DOILookup interface {
	Works(ctx context.Context, doi string) (*reference.Metadata, error)
}

// ArXivLookup resolves an arXiv ID to metadata.
type ArXivLookup interface {
	Lookup(ctx context.Context, id string) (*reference.Metadata, error)
}

// Result describes a successfully resolved file.
type Result struct {
	Identifier     string
	IdentifierType string
	Metadata       *reference.Metadata
}

// Resolver finds identifiers in PDFs and resolves them via the lookup
// services.
type Resolver struct {
	crossref DOILookup
	arxiv    ArXivLookup

	// FindIdentifier is swappable for tests.
	findIdentifier func(path string) (*pdf.Identifier, error)
}

// New creates a resolver backed by the given lookup services.
func New(cr DOILookup, ax ArXivLookup) *Resolver {
	return &Resolver{
		crossref:       cr,
		arxiv:          ax,
		findIdentifier: pdf.FindIdentifier,
	}
}

// NewDefault creates a resolver backed by the public Crossref and arXiv
// APIs.
func NewDefault() *Resolver {
	return New(crossref.NewClient(), arxiv.NewClient())
}

// Resolve finds an identifier in the file and looks up its metadata.
// Returns ErrNoIdentifier (wrapped) when the file yields no identifier.
func (r *Resolver) Resolve(ctx context.Context, path string) (*Result, error) {
	id, err := r.findIdentifier(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if id == nil {
		return nil, fmt.Errorf("%w in %s", ErrNoIdentifier, path)
	}

	var meta *reference.Metadata
	switch id.Type {
	case pdf.TypeDOI:
		meta, err = r.crossref.Works(ctx, id.Value)
	case pdf.TypeArXiv:
		meta, err = r.resolveArXiv(ctx, id.Value)
	default:
		return nil, fmt.Errorf("unknown identifier type %q", id.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %s %s: %w", id.Type, id.Value, err)
	}

	return &Result{
		Identifier:     id.Value,
		IdentifierType: id.Type,
		Metadata:       meta,
	}, nil
}

// resolveArXiv looks up an arXiv ID. When the arXiv record carries a DOI
// (the paper was published), the Crossref record is preferred since it
// has the journal fields; the arXiv metadata is the fallback.
func (r *Resolver) resolveArXiv(ctx context.Context, id string) (*reference.Metadata, error) {
	meta, err := r.arxiv.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	if meta.DOI != "" && r.crossref != nil {
		if published, err := r.crossref.Works(ctx, meta.DOI); err == nil {
			published.ArXivID = id
			return published, nil
		}
	}

	return meta, nil
}
