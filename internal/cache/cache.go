// Package cache stores composed CV documents keyed by user id.
package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dom/cv-builder-api/internal/domain"
)

// ErrMiss is returned by Get when no entry exists for the user.
var ErrMiss = errors.New("cache miss")

// Cache is the CV cache contract shared by the redis and in-memory backends.
type Cache interface {
	Get(ctx context.Context, userID string) (*domain.CVDocument, error)
	Set(ctx context.Context, userID string, doc *domain.CVDocument) error
	Delete(ctx context.Context, userIDs ...string) error
}

// Key returns the storage key for a user's CV.
func Key(userID string) string {
	return "cv:" + userID
}

// Encode serializes a document in its cached JSON form.
func Encode(doc *domain.CVDocument) ([]byte, error) {
	return json.Marshal(doc)
}

// Decode is the inverse of Encode.
func Decode(data []byte) (*domain.CVDocument, error) {
	var doc domain.CVDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
