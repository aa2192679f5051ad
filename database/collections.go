package database

import (
	"context"

	"github.com/Chaeeun2/alolot/models"
	"github.com/Chaeeun2/alolot/reorder"
)

var (
	_ reorder.Source[models.Image]     = MainImageCollection{}
	_ reorder.Source[models.Project]   = ProjectCollection{}
	_ reorder.Source[models.MediaItem] = ProjectMediaCollection{}
)

// MainImageCollection is the home slideshow as an ordered collection.
type MainImageCollection struct {
	Repo *ImageRepo
}

func (c MainImageCollection) Load(ctx context.Context) ([]models.Image, error) {
	return c.Repo.FindMain(ctx)
}

func (c MainImageCollection) PersistOrder(ctx context.Context, images []models.Image) error {
	ids := make([]string, len(images))
	for i, image := range images {
		ids[i] = image.ID
	}
	return c.Repo.PersistOrder(ctx, ids)
}

// ProjectCollection is the project list as an ordered collection.
type ProjectCollection struct {
	Repo *ProjectRepo
}

func (c ProjectCollection) Load(ctx context.Context) ([]models.Project, error) {
	return c.Repo.FindAll(ctx)
}

func (c ProjectCollection) PersistOrder(ctx context.Context, projects []models.Project) error {
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return c.Repo.PersistOrder(ctx, ids)
}

// ProjectMediaCollection is one project's detail media as an ordered
// collection.
type ProjectMediaCollection struct {
	Repo      *ProjectRepo
	ProjectID string
}

func (c ProjectMediaCollection) Load(ctx context.Context) ([]models.MediaItem, error) {
	return c.Repo.FindMedia(ctx, c.ProjectID)
}

func (c ProjectMediaCollection) PersistOrder(ctx context.Context, items []models.MediaItem) error {
	return c.Repo.PersistMediaOrder(ctx, c.ProjectID, items)
}
