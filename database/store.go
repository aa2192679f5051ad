package database

import (
	"context"
	"fmt"

	"github.com/Chaeeun2/alolot/errs"
)

// ErrDocumentNotFound is returned by DocumentStore when the addressed document
// does not exist. It matches errs.ErrNotFound.
var ErrDocumentNotFound = fmt.Errorf("document %w", errs.ErrNotFound)

type deleteField struct{}

// DeleteField, used as a value in Update or Batch, removes the field.
var DeleteField any = deleteField{}

// Document is one stored record. Data holds the raw field values as the
// backend returns them.
type Document struct {
	ID   string
	Data map[string]any
}

// Filter selects documents whose Field equals Value.
type Filter struct {
	Field string
	Value any
}

// Write is one field update of a batch.
type Write struct {
	Collection string
	ID         string
	Fields     map[string]any
}

// DocumentStore is the hosted document database behind the repositories.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	Set(ctx context.Context, collection, id string, data map[string]any) error
	// Update merges fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	// Modify reads the document and merges the fields fn returns in one
	// atomic step. fn may run more than once and must not call the store.
	Modify(ctx context.Context, collection, id string, fn func(Document) (map[string]any, error)) error
	// Batch applies every write or none of them. A write addressed to a
	// missing document fails the whole batch with ErrDocumentNotFound.
	Batch(ctx context.Context, writes []Write) error
	Close() error
}

// Collection names.
const (
	collectionProjects   = "projects"
	collectionCategories = "categories"
	collectionImages     = "images"
	collectionAbout      = "about"
)
