package service

import (
	"context"

	"github.com/dom/cv-builder-api/internal/storage"
	"github.com/rs/zerolog/log"
)

// storeImage checks an upload and persists it, returning its key.
func storeImage(ctx context.Context, store storage.Store, upload *storage.Upload, maxBytes int64) (string, error) {
	if err := storage.DetectImage(upload, maxBytes); err != nil {
		return "", err
	}
	return store.Save(ctx, upload)
}

// discardImage removes a stored image, keeping placeholders. Errors are logged only.
func discardImage(ctx context.Context, store storage.Store, key, op string) {
	if key == "" || storage.IsDefault(key) {
		return
	}
	if err := store.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("op", op).Str("key", key).Msg("failed to delete image")
	}
}
