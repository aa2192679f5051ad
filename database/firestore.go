package database

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the DocumentStore backed by Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to the project's default database. An empty
// credentialsFile falls back to application default credentials.
func NewFirestoreStore(ctx context.Context, projectID, credentialsFile string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return Document{}, wrapFirestoreErr(collection, id, err)
	}
	return Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, "==", f.Value)
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, toFirestore(data))
	if err != nil {
		return "", fmt.Errorf("add to %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, toFirestore(data)); err != nil {
		return wrapFirestoreErr(collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, toUpdates(fields)); err != nil {
		return wrapFirestoreErr(collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return wrapFirestoreErr(collection, id, err)
	}
	return nil
}

// Modify runs fn inside a transaction, which Firestore retries when the
// document changes underneath it. Errors from fn are returned as they are.
func (s *FirestoreStore) Modify(ctx context.Context, collection, id string, fn func(Document) (map[string]any, error)) error {
	ref := s.client.Collection(collection).Doc(id)
	var fnErr error
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		fields, err := fn(Document{ID: snap.Ref.ID, Data: snap.Data()})
		if err != nil {
			fnErr = err
			return err
		}
		return tx.Update(ref, toUpdates(fields))
	})
	if err != nil {
		if fnErr != nil && errors.Is(err, fnErr) {
			return fnErr
		}
		return wrapFirestoreErr(collection, id, err)
	}
	return nil
}

// Batch runs every write inside one transaction. Update carries an exists
// precondition, so a missing document aborts the commit.
func (s *FirestoreStore) Batch(ctx context.Context, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, w := range writes {
			ref := s.client.Collection(w.Collection).Doc(w.ID)
			if err := tx.Update(ref, toUpdates(w.Fields)); err != nil {
				return err
			}
		}
		return nil
	}, firestore.MaxAttempts(1))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("batch: %w", ErrDocumentNotFound)
		}
		return fmt.Errorf("batch of %d writes: %w", len(writes), err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func wrapFirestoreErr(collection, id string, err error) error {
	if status.Code(err) == codes.NotFound || errors.Is(err, ErrDocumentNotFound) {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrDocumentNotFound)
	}
	return fmt.Errorf("%s/%s: %w", collection, id, err)
}

func toUpdates(fields map[string]any) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		if v == DeleteField {
			v = firestore.Delete
		}
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	return updates
}

// toFirestore drops DeleteField markers, which Set and Add do not accept.
func toFirestore(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if v == DeleteField {
			continue
		}
		out[k] = v
	}
	return out
}
