// Package storage holds the uploaded files behind the site. Objects are
// addressed by key inside one bucket and served from a public base URL.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Chaeeun2/alolot/errs"
)

// UploadPrefix is the key prefix of every object written by the upload pipeline.
const UploadPrefix = "uploads/"

// ObjectStore abstracts the S3 compatible bucket and its in-memory twin.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	// PresignPut returns a URL that accepts one PUT of key until it expires.
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	PublicURL(key string) string
	KeyFromURL(url string) (string, error)
}

// NewObjectKey returns a fresh upload key ending in ext.
func NewObjectKey(now time.Time, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "bin"
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	return fmt.Sprintf("%s%d-%s.%s", UploadPrefix, now.UnixMilli(), random, ext)
}

// joinPublicURL builds the public address of key under base.
func joinPublicURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}

// keyFromURL recovers the object key from a public URL. URLs under base map
// directly; anything else must contain an uploads/ path segment.
func keyFromURL(base, url string) (string, error) {
	if url == "" {
		return "", errs.NewMissingRequiredFieldError("url")
	}
	if base != "" {
		prefix := strings.TrimSuffix(base, "/") + "/"
		if strings.HasPrefix(url, prefix) {
			if key := strings.TrimPrefix(url, prefix); key != "" {
				return cleanKey(key)
			}
		}
	}
	if i := strings.Index(url, "/"+UploadPrefix); i >= 0 {
		return cleanKey(url[i+1:])
	}
	if strings.HasPrefix(url, UploadPrefix) {
		return cleanKey(url)
	}
	return "", errs.NewInvalidObjectURLError(url)
}

func cleanKey(key string) (string, error) {
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	cleaned := path.Clean(key)
	if cleaned == "." || strings.Contains(key, "..") || strings.HasPrefix(cleaned, "/") {
		return "", errs.NewInvalidObjectURLError(key)
	}
	return cleaned, nil
}

// ContentTypeExt maps an image content type to a file extension.
func ContentTypeExt(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])) {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "image/svg+xml":
		return "svg"
	case "video/mp4":
		return "mp4"
	default:
		return ""
	}
}
