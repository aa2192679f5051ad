package database

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Chaeeun2/alolot/errs"
	"github.com/Chaeeun2/alolot/models"
)

// ImageRepo manages the images collection, scoped to the home slideshow.
type ImageRepo struct {
	store  DocumentStore
	files  FileStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewImageRepo(store DocumentStore, files FileStore) *ImageRepo {
	return &ImageRepo{
		store:  store,
		files:  files,
		logger: log.With().Str("repo", "imageRepo").Logger(),
		now:    time.Now,
	}
}

// FindMain returns the slideshow images ordered by order, newest first
// among equal orders.
func (r *ImageRepo) FindMain(ctx context.Context) ([]models.Image, error) {
	docs, err := r.store.Query(ctx, collectionImages, Filter{Field: "category", Value: models.MainImageCategory})
	if err != nil {
		return nil, err
	}

	images := make([]models.Image, 0, len(docs))
	for _, doc := range docs {
		images = append(images, decodeImage(doc))
	}
	slices.SortStableFunc(images, func(a, b models.Image) int {
		return byOrderThenNewest(a.Order, b.Order, a.CreatedAt, b.CreatedAt)
	})
	return images, nil
}

func (r *ImageRepo) FindByID(ctx context.Context, id string) (models.Image, error) {
	doc, err := r.store.Get(ctx, collectionImages, id)
	if err != nil {
		return models.Image{}, err
	}
	return decodeImage(doc), nil
}

// AddMain appends an image to the end of the slideshow.
func (r *ImageRepo) AddMain(ctx context.Context, image models.Image) (models.Image, error) {
	if image.URL == "" {
		return models.Image{}, errs.NewMissingRequiredFieldError("url")
	}

	current, err := r.FindMain(ctx)
	if err != nil {
		return models.Image{}, err
	}

	now := r.now()
	image.Category = models.MainImageCategory
	image.Order = len(current)
	image.CreatedAt = now
	image.UpdatedAt = now

	id, err := r.store.Add(ctx, collectionImages, encodeImage(image))
	if err != nil {
		return models.Image{}, err
	}
	image.ID = id
	return image, nil
}

// PersistOrder stores the given id sequence as the slideshow order.
func (r *ImageRepo) PersistOrder(ctx context.Context, ids []string) error {
	return persistOrder(ctx, r.store, collectionImages, "image", ids)
}

// Delete releases the stored file of a main image, then removes the record.
// A failed file deletion is logged and does not stop the record from being
// removed. Images outside the slideshow are reported as not found.
func (r *ImageRepo) Delete(ctx context.Context, id string) error {
	image, err := r.FindByID(ctx, id)
	if err != nil {
		if errs.IsNotFound(err) {
			return errs.NewNotFound("image")
		}
		return err
	}
	if image.Category != models.MainImageCategory {
		return errs.NewNotFound("image")
	}

	if image.URL != "" {
		releaseFiles(ctx, r.logger, r.files, []string{image.URL})
	}

	return r.store.Delete(ctx, collectionImages, id)
}

func decodeImage(doc Document) models.Image {
	d := doc.Data
	return models.Image{
		ID:          doc.ID,
		URL:         stringField(d, "url"),
		FileName:    stringField(d, "fileName"),
		Title:       stringField(d, "title"),
		Description: stringField(d, "description"),
		Category:    stringField(d, "category"),
		Order:       intField(d, "order"),
		CreatedAt:   timeField(d, "createdAt"),
		UpdatedAt:   timeField(d, "updatedAt"),
	}
}

func encodeImage(image models.Image) map[string]any {
	return map[string]any{
		"url":         image.URL,
		"fileName":    image.FileName,
		"title":       image.Title,
		"description": image.Description,
		"category":    image.Category,
		"order":       image.Order,
		"createdAt":   image.CreatedAt,
		"updatedAt":   image.UpdatedAt,
	}
}
