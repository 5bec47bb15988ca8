package storage

import (
	"context"
	"io"
)

// Object is a stored image and its thumbnail rendition.
type Object struct {
	Key          string
	URL          string
	ThumbnailURL string
}

// BlobStore holds item images. Returned URLs are opaque to the rest of the system.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (Object, error)
	Delete(ctx context.Context, key string) error
}

var AllowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}
