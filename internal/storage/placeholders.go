package storage

import (
	"bytes"
	"embed"
	"io"
)

//go:embed placeholders/*.png
var placeholders embed.FS

// openPlaceholder serves the built-in default images, which are not kept in
// any backing store.
func openPlaceholder(key string) (io.ReadCloser, bool) {
	if !IsDefault(key) || !validKey(key) {
		return nil, false
	}
	data, err := placeholders.ReadFile("placeholders/" + key)
	if err != nil {
		return nil, false
	}
	return io.NopCloser(bytes.NewReader(data)), true
}
