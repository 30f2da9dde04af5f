// Package storage keeps uploaded images (avatars and project pictures).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("image not found")
	ErrUnsupportedImage = errors.New("file must be a png, jpg, or jpeg")
	ErrImageTooLarge    = errors.New("file is too large")
	ErrInvalidKey       = errors.New("invalid image key")
)

// Upload is an image received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Store persists image bytes under opaque keys.
type Store interface {
	Save(ctx context.Context, upload *Upload) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// DetectImage sniffs the upload and fills in its content type. Only png and
// jpeg images up to maxBytes are accepted.
func DetectImage(upload *Upload, maxBytes int64) error {
	if maxBytes > 0 && int64(len(upload.Data)) > maxBytes {
		return fmt.Errorf("%w: limit is %d bytes", ErrImageTooLarge, maxBytes)
	}
	contentType := http.DetectContentType(upload.Data)
	if _, ok := imageExtensions[contentType]; !ok {
		return ErrUnsupportedImage
	}
	upload.ContentType = contentType
	return nil
}

// NewKey returns a fresh key for an image of the given content type.
func NewKey(contentType string) string {
	return uuid.New().String() + imageExtensions[contentType]
}

// IsDefault reports whether key is one of the shared placeholder images,
// which must never be deleted.
func IsDefault(key string) bool {
	name := path.Base(strings.ReplaceAll(key, "\\", "/"))
	return name == domain.DefaultUserImage || name == domain.DefaultProjectImage
}

// ContentTypeOf guesses a content type from the key's extension.
func ContentTypeOf(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

func validKey(key string) bool {
	if key == "" || strings.Contains(key, "..") || strings.ContainsAny(key, "/\\") {
		return false
	}
	return true
}
