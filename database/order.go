package database

import (
	"context"

	"github.com/Chaeeun2/alolot/errs"
)

// persistOrder writes order = index for every id in one atomic batch.
func persistOrder(ctx context.Context, store DocumentStore, collection, entity string, ids []string) error {
	seen := make(map[string]bool, len(ids))
	writes := make([]Write, 0, len(ids))
	for i, id := range ids {
		if id == "" {
			return errs.NewMissingRequiredFieldError("id")
		}
		if seen[id] {
			return errs.NewInvalidFieldError("ids", "duplicate id "+id)
		}
		seen[id] = true
		writes = append(writes, Write{
			Collection: collection,
			ID:         id,
			Fields:     map[string]any{"order": i},
		})
	}

	if err := store.Batch(ctx, writes); err != nil {
		if errs.IsNotFound(err) {
			return errs.NewNotFound(entity)
		}
		return errs.NewPersistFailed("persist order of", entity, err)
	}
	return nil
}
