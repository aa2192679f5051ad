package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Chaeeun2/alolot/errs"
	"github.com/Chaeeun2/alolot/storage"
)

const (
	// MaxFileSize is the largest accepted upload, checked before any network call.
	MaxFileSize int64 = 10 << 20

	presignExpiry = 10 * time.Minute
)

// Slot is the place an uploaded image is destined for.
type Slot string

const (
	SlotThumbnail Slot = "thumbnail"
	SlotMain      Slot = "main"
	SlotSlideshow Slot = "slideshow"
	SlotDetail    Slot = "detail"
)

// ParseSlot maps a form value to a Slot. An empty value means detail.
func ParseSlot(s string) (Slot, error) {
	switch Slot(strings.ToLower(strings.TrimSpace(s))) {
	case "", SlotDetail:
		return SlotDetail, nil
	case SlotThumbnail:
		return SlotThumbnail, nil
	case SlotMain:
		return SlotMain, nil
	case SlotSlideshow:
		return SlotSlideshow, nil
	default:
		return "", errs.NewInvalidFieldError("slot", fmt.Sprintf("unknown slot %q", s))
	}
}

// resizes reports whether images for the slot are downscaled before upload.
// Detail images keep their original resolution.
func (s Slot) resizes() bool {
	return s != SlotDetail
}

// File is an upload as received from the client.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

type UploadResult struct {
	FileName    string `json:"fileName"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type PresignResult struct {
	UploadURL string `json:"uploadUrl"`
	FileName  string `json:"fileName"`
	PublicURL string `json:"publicUrl"`
	ExpiresIn int    `json:"expiresIn"`
}

// ObjectWriter is the part of the object store the upload pipeline writes to.
type ObjectWriter interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	PublicURL(key string) string
}

// Uploader validates, transforms and stores uploaded files.
type Uploader struct {
	store  ObjectWriter
	logger zerolog.Logger
	now    func() time.Time
}

func NewUploader(store ObjectWriter) *Uploader {
	return &Uploader{
		store:  store,
		logger: log.With().Str("service", "uploader").Logger(),
		now:    time.Now,
	}
}

// Upload stores f and returns its public URL. Files over MaxFileSize are
// rejected before the store is contacted. Store failures come back as
// UploadFailed and are not retried.
func (u *Uploader) Upload(ctx context.Context, f File, slot Slot) (UploadResult, error) {
	if f.Size > MaxFileSize {
		return UploadResult{}, errs.NewFileTooLargeError(f.Size, MaxFileSize)
	}

	data, err := io.ReadAll(io.LimitReader(f.Body, MaxFileSize+1))
	if err != nil {
		return UploadResult{}, errs.NewMalformedPayloadError("file", err)
	}
	if int64(len(data)) > MaxFileSize {
		return UploadResult{}, errs.NewFileTooLargeError(int64(len(data)), MaxFileSize)
	}
	if len(data) == 0 {
		return UploadResult{}, errs.NewMissingRequiredFieldError("file")
	}

	contentType, err := resolveContentType(f.ContentType, data)
	if err != nil {
		return UploadResult{}, err
	}

	ext := extensionFor(f.Name, contentType)
	if slot.resizes() && transformable(contentType) {
		out, outType, ok, err := transformImage(data)
		switch {
		case err != nil:
			u.logger.Warn().Err(err).Str("fileName", f.Name).Msg("image transform failed, uploading original")
		case ok:
			u.logger.Debug().Int("before", len(data)).Int("after", len(out)).Str("slot", string(slot)).Msg("image transformed")
			data, contentType = out, outType
			ext = storage.ContentTypeExt(outType)
		}
	}

	key := storage.NewObjectKey(u.now(), ext)
	if err := u.store.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		u.logger.Error().Err(err).Str("key", key).Msg("upload failed")
		return UploadResult{}, errs.NewUploadFailedError(err)
	}

	return UploadResult{
		FileName:    key,
		URL:         u.store.PublicURL(key),
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

// Presign reserves a key for a direct client upload and returns a signed
// PUT URL for it.
func (u *Uploader) Presign(ctx context.Context, fileName, contentType string) (PresignResult, error) {
	if contentType == "" {
		return PresignResult{}, errs.NewMissingRequiredFieldError("fileType")
	}
	if !allowedContentType(contentType) {
		return PresignResult{}, errs.NewUnsupportedMediaTypeError(contentType, allowedTypes)
	}

	key := storage.NewObjectKey(u.now(), extensionFor(fileName, contentType))
	url, err := u.store.PresignPut(ctx, key, contentType, presignExpiry)
	if err != nil {
		return PresignResult{}, errs.NewUploadFailedError(err)
	}

	return PresignResult{
		UploadURL: url,
		FileName:  key,
		PublicURL: u.store.PublicURL(key),
		ExpiresIn: int(presignExpiry.Seconds()),
	}, nil
}

// transformable reports whether the pipeline re-encodes the type. GIF and
// WebP pass through so animation survives.
func transformable(contentType string) bool {
	return contentType == "image/jpeg" || contentType == "image/png"
}

var allowedTypes = []string{"image/*", "video/*"}

func allowedContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
}

// resolveContentType trusts the declared type unless it is missing or
// generic, in which case the bytes are sniffed.
func resolveContentType(declared string, data []byte) (string, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(declared, ";", 2)[0]))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = strings.SplitN(http.DetectContentType(data), ";", 2)[0]
	}
	if !allowedContentType(contentType) {
		return "", errs.NewUnsupportedMediaTypeError(contentType, allowedTypes)
	}
	return contentType, nil
}

// extensionFor keeps the client's extension when it has one.
func extensionFor(name, contentType string) string {
	if ext := strings.TrimPrefix(filepath.Ext(name), "."); ext != "" && len(ext) <= 5 {
		if contentType == "image/jpeg" && strings.EqualFold(ext, "jpeg") {
			return "jpg"
		}
		return strings.ToLower(ext)
	}
	return storage.ContentTypeExt(contentType)
}
