package database

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chaeeun2/alolot/errs"
	"github.com/Chaeeun2/alolot/models"
	"github.com/Chaeeun2/alolot/reorder"
)

func newTestProjectRepo(store DocumentStore, files FileStore) *ProjectRepo {
	r := NewProjectRepo(store, files)
	r.now = clock()
	return r
}

func projectIDs(projects []models.Project) []string {
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return ids
}

func TestProjectRepo_NewestFirstUntilReordered(t *testing.T) {
	ctx := context.Background()
	repo := newTestProjectRepo(NewMemoryStore(), nil)
	var ids []string
	for _, title := range []string{"one", "two", "three"} {
		p, err := repo.Add(ctx, models.Project{Title: title})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	projects, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, projectIDs(projects))

	require.NoError(t, repo.PersistOrder(ctx, ids))
	projects, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids, projectIDs(projects))
}

func TestProjectRepo_LegacyRecordIsMigratedOnMediaPersist(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, collectionProjects, "p1", map[string]any{
		"title": "legacy",
		"detailImages": []any{
			map[string]any{"url": "a", "order": 1},
			map[string]any{"url": "b", "order": 0},
		},
	}))
	repo := newTestProjectRepo(store, nil)

	items, err := repo.FindMedia(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].URL)
	assert.Equal(t, "a", items[1].URL)

	require.NoError(t, repo.PersistMediaOrder(ctx, "p1", []models.MediaItem{items[1], items[0]}))

	doc, err := store.Get(ctx, collectionProjects, "p1")
	require.NoError(t, err)
	_, hasLegacy := doc.Data["detailImages"]
	assert.False(t, hasLegacy)
	assert.Equal(t, []any{
		map[string]any{"type": "image", "url": "a", "order": 0},
		map[string]any{"type": "image", "url": "b", "order": 1},
	}, doc.Data["detailMedia"])
}

func TestProjectRepo_AddAndRemoveMedia(t *testing.T) {
	ctx := context.Background()
	files := &recordingFiles{}
	repo := newTestProjectRepo(NewMemoryStore(), files)
	p, err := repo.Add(ctx, models.Project{Title: "p", DetailMedia: []models.MediaItem{
		{Type: models.MediaTypeImage, URL: "https://cdn/uploads/1.jpg"},
	}})
	require.NoError(t, err)

	items, err := repo.AddMedia(ctx, p.ID, models.MediaItem{
		Type: models.MediaTypeVideo, URL: "https://player.vimeo.com/video/1", Platform: models.VideoPlatformVimeo,
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[1].Order)

	items, err = repo.RemoveMedia(ctx, p.ID, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.MediaTypeVideo, items[0].Type)
	assert.Equal(t, 0, items[0].Order)
	assert.Equal(t, []string{"uploads/1.jpg"}, files.keys())

	_, err = repo.RemoveMedia(ctx, p.ID, 5)
	assert.True(t, errs.IsInvalidFieldError(err))
}

func TestProjectRepo_DeleteWithFailingFileStoreStillRemovesRecord(t *testing.T) {
	ctx := context.Background()
	files := &recordingFiles{fail: true}
	repo := newTestProjectRepo(NewMemoryStore(), files)
	p, err := repo.Add(ctx, models.Project{
		Title:        "doomed",
		ThumbnailURL: "https://cdn/uploads/thumb.jpg",
		MainImageURL: "https://cdn/uploads/main.jpg",
		DetailMedia: []models.MediaItem{
			{Type: models.MediaTypeImage, URL: "https://cdn/uploads/d1.jpg"},
			{Type: models.MediaTypeVideo, URL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, p.ID))

	assert.ElementsMatch(t, []string{"uploads/thumb.jpg", "uploads/main.jpg", "uploads/d1.jpg"}, files.keys())
	_, err = repo.FindByID(ctx, p.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestProjectRepo_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestProjectRepo(NewMemoryStore(), nil)

	assert.True(t, errs.IsNotFound(repo.Delete(ctx, "nope")))
	assert.True(t, errs.IsNotFound(repo.PersistMediaOrder(ctx, "nope", nil)))
	_, err := repo.Update(ctx, models.Project{ID: "nope", Title: "x"})
	assert.True(t, errs.IsNotFound(err))
}

func TestProjectRepo_UpdateKeepsPositionAndCreation(t *testing.T) {
	ctx := context.Background()
	repo := newTestProjectRepo(NewMemoryStore(), nil)
	a, err := repo.Add(ctx, models.Project{Title: "a"})
	require.NoError(t, err)
	b, err := repo.Add(ctx, models.Project{Title: "b"})
	require.NoError(t, err)
	require.NoError(t, repo.PersistOrder(ctx, []string{a.ID, b.ID}))

	updated, err := repo.Update(ctx, models.Project{ID: b.ID, Title: "b2", Categories: []models.CategoryRef{{ID: "c", Name: "Web"}}})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Order)
	assert.Equal(t, b.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(b.UpdatedAt))

	web, err := repo.FindByCategory(ctx, "Web")
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, projectIDs(web))
	all, err := repo.FindByCategory(ctx, "ALL")
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, projectIDs(all))
}

func TestMainImageCollection_RollbackMatchesFreshLoad(t *testing.T) {
	ctx := context.Background()
	store := &failingBatchStore{MemoryStore: NewMemoryStore()}
	repo := newTestImageRepo(store, nil)
	for _, url := range []string{"a", "b", "c", "d", "e"} {
		_, err := repo.AddMain(ctx, models.Image{URL: url})
		require.NoError(t, err)
	}
	collection := MainImageCollection{Repo: repo}
	c := reorder.New[models.Image](collection)
	require.NoError(t, c.Reload(ctx))
	before := imageIDs(c.Items())

	store.fail = true
	require.NoError(t, c.Move(ctx, 2, 0))
	assert.Equal(t, before[2], c.Items()[0].ID)
	c.Wait()

	fresh, err := collection.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, imageIDs(fresh), imageIDs(c.Items()))
	assert.Equal(t, before, imageIDs(c.Items()))
	assert.True(t, errs.IsPersistFailed(c.Err()))
}

func TestProjectMediaCollection_MoveIsPersisted(t *testing.T) {
	ctx := context.Background()
	repo := newTestProjectRepo(NewMemoryStore(), nil)
	p, err := repo.Add(ctx, models.Project{Title: "p", DetailMedia: []models.MediaItem{
		{Type: models.MediaTypeImage, URL: "a"},
		{Type: models.MediaTypeImage, URL: "b"},
		{Type: models.MediaTypeImage, URL: "c"},
	}})
	require.NoError(t, err)

	c := reorder.New[models.MediaItem](ProjectMediaCollection{Repo: repo, ProjectID: p.ID})
	require.NoError(t, c.Reload(ctx))
	require.NoError(t, c.Move(ctx, 2, 0))
	c.Wait()

	items, err := repo.FindMedia(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, []string{items[0].URL, items[1].URL, items[2].URL})
	assert.Equal(t, reorder.Idle, c.State())
}

func TestCategoryAndAboutRepos(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	categories := NewCategoryRepo(store)
	categories.now = clock()

	web, err := categories.Add(ctx, models.Category{Name: "Web", Color: "#ff0000"})
	require.NoError(t, err)
	_, err = categories.Add(ctx, models.Category{Name: "Print", Color: "#00ff00"})
	require.NoError(t, err)

	all, err := categories.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Web", all[0].Name)

	web.Color = "#0000ff"
	updated, err := categories.Update(ctx, web)
	require.NoError(t, err)
	assert.Equal(t, "#0000ff", updated.Color)
	require.NoError(t, categories.Delete(ctx, web.ID))
	assert.True(t, errs.IsNotFound(categories.Delete(ctx, web.ID)))

	about := NewAboutRepo(store)
	got, err := about.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAbout().Email, got.Email)

	about.now = func() time.Time { return time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC) }
	_, err = about.Save(ctx, models.About{Email: "hi@alolot.kr", AnotherProjects: []string{"2025, x"}})
	require.NoError(t, err)
	got, err = about.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hi@alolot.kr", got.Email)
	assert.Equal(t, []string{"2025, x"}, got.AnotherProjects)
}

// gatedMedia holds every persist until gate is closed.
type gatedMedia struct {
	ProjectMediaCollection
	gate chan struct{}
}

func (g gatedMedia) PersistOrder(ctx context.Context, items []models.MediaItem) error {
	<-g.gate
	return g.ProjectMediaCollection.PersistOrder(ctx, items)
}

func mediaURLs(items []models.MediaItem) []string {
	urls := make([]string, len(items))
	for i, item := range items {
		urls[i] = item.URL
	}
	return urls
}

func TestProjectMediaCollection_MoveKeepsMediaAddedWhilePersisting(t *testing.T) {
	ctx := context.Background()
	repo := newTestProjectRepo(NewMemoryStore(), nil)
	p, err := repo.Add(ctx, models.Project{Title: "p", DetailMedia: []models.MediaItem{
		{Type: models.MediaTypeImage, URL: "uploads/a"},
		{Type: models.MediaTypeImage, URL: "uploads/b"},
	}})
	require.NoError(t, err)

	gate := make(chan struct{})
	c := reorder.New[models.MediaItem](gatedMedia{ProjectMediaCollection{Repo: repo, ProjectID: p.ID}, gate})
	require.NoError(t, c.Reload(ctx))
	require.NoError(t, c.Move(ctx, 0, 1))

	_, err = repo.AddMedia(ctx, p.ID, models.MediaItem{Type: models.MediaTypeImage, URL: "uploads/c"})
	require.NoError(t, err)
	close(gate)
	c.Wait()

	require.NoError(t, c.Err())
	stored, err := repo.FindMedia(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/b", "uploads/a", "uploads/c"}, mediaURLs(stored))
	for i, item := range stored {
		assert.Equal(t, i, item.Order)
	}
}

func TestProjectMediaCollection_MoveDoesNotReviveRemovedMedia(t *testing.T) {
	ctx := context.Background()
	files := &recordingFiles{}
	repo := newTestProjectRepo(NewMemoryStore(), files)
	p, err := repo.Add(ctx, models.Project{Title: "p", DetailMedia: []models.MediaItem{
		{Type: models.MediaTypeImage, URL: "https://cdn/uploads/a"},
		{Type: models.MediaTypeImage, URL: "https://cdn/uploads/b"},
		{Type: models.MediaTypeImage, URL: "https://cdn/uploads/c"},
	}})
	require.NoError(t, err)

	gate := make(chan struct{})
	c := reorder.New[models.MediaItem](gatedMedia{ProjectMediaCollection{Repo: repo, ProjectID: p.ID}, gate})
	require.NoError(t, c.Reload(ctx))
	require.NoError(t, c.Move(ctx, 2, 0))

	_, err = repo.RemoveMedia(ctx, p.ID, 1)
	require.NoError(t, err)
	close(gate)
	c.Wait()

	stored, err := repo.FindMedia(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/uploads/c", "https://cdn/uploads/a"}, mediaURLs(stored))
	assert.Equal(t, []string{"uploads/b"}, files.keys())
}

func TestProjectRepo_ConcurrentMediaWritesLoseNothing(t *testing.T) {
	ctx := context.Background()
	repo := newTestProjectRepo(NewMemoryStore(), nil)
	p, err := repo.Add(ctx, models.Project{Title: "p", DetailMedia: []models.MediaItem{
		{Type: models.MediaTypeImage, URL: "uploads/a"},
		{Type: models.MediaTypeImage, URL: "uploads/b"},
	}})
	require.NoError(t, err)
	c := reorder.New[models.MediaItem](ProjectMediaCollection{Repo: repo, ProjectID: p.ID})
	require.NoError(t, c.Reload(ctx))

	const adds = 20
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < adds; i++ {
			_, err := repo.AddMedia(ctx, p.ID, models.MediaItem{Type: models.MediaTypeImage, URL: fmt.Sprintf("uploads/n%d", i)})
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < adds; i++ {
			assert.NoError(t, c.Move(ctx, 0, 1))
		}
	}()
	wg.Wait()
	c.Wait()

	stored, err := repo.FindMedia(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, stored, adds+2)
}

func TestArrangeMedia(t *testing.T) {
	img := func(url string) models.MediaItem { return models.MediaItem{Type: models.MediaTypeImage, URL: url} }
	vid := models.MediaItem{Type: models.MediaTypeVideo, URL: "x"}

	tests := []struct {
		name   string
		stored []models.MediaItem
		want   []models.MediaItem
		expect []models.MediaItem
	}{
		{"same set", []models.MediaItem{img("a"), img("b")}, []models.MediaItem{img("b"), img("a")}, []models.MediaItem{img("b"), img("a")}},
		{"stored only goes last", []models.MediaItem{img("a"), img("b"), img("c")}, []models.MediaItem{img("b"), img("a")}, []models.MediaItem{img("b"), img("a"), img("c")}},
		{"gone is dropped", []models.MediaItem{img("a")}, []models.MediaItem{img("b"), img("a")}, []models.MediaItem{img("a")}},
		{"type is part of identity", []models.MediaItem{img("x"), vid}, []models.MediaItem{vid, img("x")}, []models.MediaItem{vid, img("x")}},
		{"duplicates match once each", []models.MediaItem{img("a"), img("a"), img("b")}, []models.MediaItem{img("b"), img("a")}, []models.MediaItem{img("b"), img("a"), img("a")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, arrangeMedia(tt.stored, tt.want))
		})
	}
}
