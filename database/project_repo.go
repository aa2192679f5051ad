package database

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Chaeeun2/alolot/errs"
	"github.com/Chaeeun2/alolot/media"
	"github.com/Chaeeun2/alolot/models"
)

type ProjectRepo struct {
	store  DocumentStore
	files  FileStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewProjectRepo(store DocumentStore, files FileStore) *ProjectRepo {
	return &ProjectRepo{
		store:  store,
		files:  files,
		logger: log.With().Str("repo", "projectRepo").Logger(),
		now:    time.Now,
	}
}

// FindAll returns every project ordered by order, newest first among
// equal orders. Detail media is normalized and sorted.
func (r *ProjectRepo) FindAll(ctx context.Context) ([]models.Project, error) {
	docs, err := r.store.Query(ctx, collectionProjects)
	if err != nil {
		return nil, err
	}

	projects := make([]models.Project, 0, len(docs))
	for _, doc := range docs {
		projects = append(projects, decodeProject(doc))
	}
	slices.SortStableFunc(projects, func(a, b models.Project) int {
		return byOrderThenNewest(a.Order, b.Order, a.CreatedAt, b.CreatedAt)
	})
	return projects, nil
}

// FindByCategory returns the projects tagged with the named category. An
// empty name or "ALL" returns every project.
func (r *ProjectRepo) FindByCategory(ctx context.Context, name string) ([]models.Project, error) {
	projects, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if name == "" || strings.EqualFold(name, "ALL") {
		return projects, nil
	}
	return slices.DeleteFunc(projects, func(p models.Project) bool {
		return !p.HasCategory(name)
	}), nil
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id string) (models.Project, error) {
	doc, err := r.store.Get(ctx, collectionProjects, id)
	if err != nil {
		if errs.IsNotFound(err) {
			return models.Project{}, errs.NewNotFound("project")
		}
		return models.Project{}, err
	}
	return decodeProject(doc), nil
}

// Add inserts a new project. It lands at order 0, ahead of older projects
// that share that order.
func (r *ProjectRepo) Add(ctx context.Context, project models.Project) (models.Project, error) {
	if strings.TrimSpace(project.Title) == "" {
		return models.Project{}, errs.NewMissingRequiredFieldError("title")
	}

	now := r.now()
	project.Order = 0
	project.CreatedAt = now
	project.UpdatedAt = now
	project.DetailMedia = media.Reindex(project.DetailMedia)

	id, err := r.store.Add(ctx, collectionProjects, encodeProject(project))
	if err != nil {
		return models.Project{}, err
	}
	project.ID = id
	return project, nil
}

// Update overwrites the editable fields of an existing project. Position and
// creation time are kept.
func (r *ProjectRepo) Update(ctx context.Context, project models.Project) (models.Project, error) {
	if strings.TrimSpace(project.Title) == "" {
		return models.Project{}, errs.NewMissingRequiredFieldError("title")
	}

	project.UpdatedAt = r.now()
	project.DetailMedia = media.Reindex(project.DetailMedia)

	err := r.store.Modify(ctx, collectionProjects, project.ID, func(doc Document) (map[string]any, error) {
		existing := decodeProject(doc)
		project.Order = existing.Order
		project.CreatedAt = existing.CreatedAt

		fields := encodeProject(project)
		delete(fields, "order")
		delete(fields, "createdAt")
		fields[media.FieldDetailImages] = DeleteField
		return fields, nil
	})
	if err != nil {
		return models.Project{}, r.wrapWriteErr("update", err)
	}
	return project, nil
}

// PersistOrder stores the given id sequence as the project list order.
func (r *ProjectRepo) PersistOrder(ctx context.Context, ids []string) error {
	return persistOrder(ctx, r.store, collectionProjects, "project", ids)
}

// FindMedia returns the project's detail media in display order.
func (r *ProjectRepo) FindMedia(ctx context.Context, id string) ([]models.MediaItem, error) {
	project, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return project.DetailMedia, nil
}

// PersistMediaOrder rewrites the project's detail media in the order of
// items, matched to the stored items by type and URL. Stored items missing
// from items keep their relative order at the end, and items no longer
// stored are dropped, so a stale order never loses or revives media. The
// legacy detailImages field is removed in the same write.
func (r *ProjectRepo) PersistMediaOrder(ctx context.Context, id string, items []models.MediaItem) error {
	_, err := r.modifyMedia(ctx, id, func(stored []models.MediaItem) ([]models.MediaItem, error) {
		return arrangeMedia(stored, items), nil
	})
	if err != nil {
		return r.wrapWriteErr("persist media order of", err)
	}
	return nil
}

// AddMedia appends an item to the end of the project's detail media.
func (r *ProjectRepo) AddMedia(ctx context.Context, id string, item models.MediaItem) ([]models.MediaItem, error) {
	items, err := r.modifyMedia(ctx, id, func(stored []models.MediaItem) ([]models.MediaItem, error) {
		return append(stored, item), nil
	})
	if err != nil {
		return nil, r.wrapWriteErr("add media to", err)
	}
	return items, nil
}

// RemoveMedia drops the item at index and releases its stored file.
func (r *ProjectRepo) RemoveMedia(ctx context.Context, id string, index int) ([]models.MediaItem, error) {
	var removed models.MediaItem
	items, err := r.modifyMedia(ctx, id, func(stored []models.MediaItem) ([]models.MediaItem, error) {
		if index < 0 || index >= len(stored) {
			return nil, errs.NewInvalidFieldError("index", "out of range")
		}
		removed = stored[index]
		return slices.Delete(stored, index, index+1), nil
	})
	if err != nil {
		return nil, r.wrapWriteErr("remove media from", err)
	}
	if removed.Type == models.MediaTypeImage && removed.URL != "" {
		releaseFiles(ctx, r.logger, r.files, []string{removed.URL})
	}
	return items, nil
}

// modifyMedia applies fn to the stored detail media atomically and writes
// the result back with order = index.
func (r *ProjectRepo) modifyMedia(ctx context.Context, id string, fn func([]models.MediaItem) ([]models.MediaItem, error)) ([]models.MediaItem, error) {
	var items []models.MediaItem
	err := r.store.Modify(ctx, collectionProjects, id, func(doc Document) (map[string]any, error) {
		next, err := fn(media.Sorted(doc.Data))
		if err != nil {
			return nil, err
		}
		items = media.Reindex(next)
		return map[string]any{
			media.FieldDetailMedia:  media.ToRecords(items),
			media.FieldDetailImages: DeleteField,
			"updatedAt":             r.now(),
		}, nil
	})
	return items, err
}

func (r *ProjectRepo) wrapWriteErr(action string, err error) error {
	var apiErr *errs.ApiErr
	switch {
	case errs.IsNotFound(err):
		return errs.NewNotFound("project")
	case errors.As(err, &apiErr):
		return err
	default:
		return errs.NewPersistFailed(action, "project", err)
	}
}

type mediaKey struct {
	typ models.MediaType
	url string
}

// arrangeMedia orders stored by the sequence in want. Duplicates are matched
// one to one in stored order.
func arrangeMedia(stored, want []models.MediaItem) []models.MediaItem {
	pending := make(map[mediaKey][]int, len(stored))
	for i, item := range stored {
		k := mediaKey{item.Type, item.URL}
		pending[k] = append(pending[k], i)
	}

	used := make([]bool, len(stored))
	out := make([]models.MediaItem, 0, len(stored))
	for _, item := range want {
		k := mediaKey{item.Type, item.URL}
		idx := pending[k]
		if len(idx) == 0 {
			continue
		}
		pending[k] = idx[1:]
		used[idx[0]] = true
		out = append(out, stored[idx[0]])
	}
	for i, item := range stored {
		if !used[i] {
			out = append(out, item)
		}
	}
	return out
}

// Delete releases every stored file of the project, then removes the
// record. File deletion failures are logged and ignored.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	project, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	releaseFiles(ctx, r.logger, r.files, project.StoredFileURLs())

	if err := r.store.Delete(ctx, collectionProjects, id); err != nil {
		return errs.NewPersistFailed("delete", "project", err)
	}
	r.logger.Info().Str("projectID", id).Msg("project deleted")
	return nil
}

func decodeProject(doc Document) models.Project {
	d := doc.Data
	return models.Project{
		ID:             doc.ID,
		Title:          stringField(d, "title"),
		Description:    stringField(d, "description"),
		Detail:         stringField(d, "detail"),
		LinkURL:        stringField(d, "linkUrl"),
		LinkButtonName: stringField(d, "linkButtonName"),
		ThumbnailURL:   stringField(d, "thumbnailUrl"),
		MainImageURL:   stringField(d, "mainImageUrl"),
		DetailMedia:    media.Sorted(d),
		Categories:     categoryRefsField(d, "categories"),
		Order:          intField(d, "order"),
		CreatedAt:      timeField(d, "createdAt"),
		UpdatedAt:      timeField(d, "updatedAt"),
	}
}

func encodeProject(p models.Project) map[string]any {
	return map[string]any{
		"title":                p.Title,
		"description":          p.Description,
		"detail":               p.Detail,
		"linkUrl":              p.LinkURL,
		"linkButtonName":       p.LinkButtonName,
		"thumbnailUrl":         p.ThumbnailURL,
		"mainImageUrl":         p.MainImageURL,
		media.FieldDetailMedia: media.ToRecords(p.DetailMedia),
		"categories":           categoryRefsRecord(p.Categories),
		"order":                p.Order,
		"createdAt":            p.CreatedAt,
		"updatedAt":            p.UpdatedAt,
	}
}
