package database

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// maxParallelFileDeletes bounds the concurrent object store calls of one
// release.
const maxParallelFileDeletes = 4

// FileStore is the part of the object store needed to release the files a
// record points at.
type FileStore interface {
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, error)
}

// releaseFiles deletes every stored file behind urls concurrently and waits
// for all attempts. Failures are logged and never returned: a record must be
// deletable even when its files cannot be removed.
func releaseFiles(ctx context.Context, logger zerolog.Logger, files FileStore, urls []string) {
	if files == nil || len(urls) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(maxParallelFileDeletes)
	for _, url := range urls {
		key, err := files.KeyFromURL(url)
		if err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("skipping file outside the bucket")
			continue
		}

		g.Go(func() error {
			if err := files.Delete(ctx, key); err != nil {
				logger.Error().Err(err).Str("key", key).Msg("failed to delete stored file, continuing")
				return nil
			}
			logger.Debug().Str("key", key).Msg("stored file deleted")
			return nil
		})
	}
	_ = g.Wait()
}
