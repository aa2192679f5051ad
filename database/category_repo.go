package database

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/Chaeeun2/alolot/errs"
	"github.com/Chaeeun2/alolot/models"
)

type CategoryRepo struct {
	store DocumentStore
	now   func() time.Time
}

func NewCategoryRepo(store DocumentStore) *CategoryRepo {
	return &CategoryRepo{store: store, now: time.Now}
}

// FindAll returns categories oldest first.
func (r *CategoryRepo) FindAll(ctx context.Context) ([]models.Category, error) {
	docs, err := r.store.Query(ctx, collectionCategories)
	if err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, decodeCategory(doc))
	}
	slices.SortStableFunc(categories, func(a, b models.Category) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return categories, nil
}

func (r *CategoryRepo) FindByID(ctx context.Context, id string) (models.Category, error) {
	doc, err := r.store.Get(ctx, collectionCategories, id)
	if err != nil {
		if errs.IsNotFound(err) {
			return models.Category{}, errs.NewNotFound("category")
		}
		return models.Category{}, err
	}
	return decodeCategory(doc), nil
}

func (r *CategoryRepo) Add(ctx context.Context, category models.Category) (models.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return models.Category{}, errs.NewMissingRequiredFieldError("name")
	}
	category.CreatedAt = r.now()

	id, err := r.store.Add(ctx, collectionCategories, map[string]any{
		"name":      category.Name,
		"color":     category.Color,
		"createdAt": category.CreatedAt,
	})
	if err != nil {
		return models.Category{}, err
	}
	category.ID = id
	return category, nil
}

func (r *CategoryRepo) Update(ctx context.Context, category models.Category) (models.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return models.Category{}, errs.NewMissingRequiredFieldError("name")
	}

	err := r.store.Update(ctx, collectionCategories, category.ID, map[string]any{
		"name":  category.Name,
		"color": category.Color,
	})
	if err != nil {
		if errs.IsNotFound(err) {
			return models.Category{}, errs.NewNotFound("category")
		}
		return models.Category{}, errs.NewPersistFailed("update", "category", err)
	}
	return r.FindByID(ctx, category.ID)
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return r.store.Delete(ctx, collectionCategories, id)
}

func decodeCategory(doc Document) models.Category {
	return models.Category{
		ID:        doc.ID,
		Name:      stringField(doc.Data, "name"),
		Color:     stringField(doc.Data, "color"),
		CreatedAt: timeField(doc.Data, "createdAt"),
	}
}
