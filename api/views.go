package api

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Chaeeun2/alolot/database"
	"github.com/Chaeeun2/alolot/models"
	"github.com/Chaeeun2/alolot/reorder"
)

// orderViews holds the reorder controllers behind the admin screens. Each
// controller is created and loaded on first use and shared by every admin
// request afterwards, so consecutive moves build on the optimistic sequence.
type orderViews struct {
	db     database.Database
	logger zerolog.Logger

	mu         sync.Mutex
	mainImages *reorder.Controller[models.Image]
	projects   *reorder.Controller[models.Project]
	media      map[string]*reorder.Controller[models.MediaItem]
}

func newOrderViews(db database.Database, logger zerolog.Logger) *orderViews {
	return &orderViews{
		db:     db,
		logger: logger,
		media:  make(map[string]*reorder.Controller[models.MediaItem]),
	}
}

func (v *orderViews) options(collection string) []reorder.Option {
	logger := v.logger.With().Str("collection", collection).Logger()
	return []reorder.Option{
		reorder.WithLogger(logger),
		reorder.WithObserver(func(s reorder.State) {
			logger.Debug().Stringer("state", s).Msg("reorder state changed")
		}),
	}
}

func (v *orderViews) MainImages(ctx context.Context) (*reorder.Controller[models.Image], error) {
	v.mu.Lock()
	c := v.mainImages
	if c == nil {
		c = reorder.New[models.Image](database.MainImageCollection{Repo: v.db.ImageRepo()}, v.options("mainImages")...)
		v.mainImages = c
	}
	v.mu.Unlock()
	return c, loadOnce(ctx, c)
}

func (v *orderViews) Projects(ctx context.Context) (*reorder.Controller[models.Project], error) {
	v.mu.Lock()
	c := v.projects
	if c == nil {
		c = reorder.New[models.Project](database.ProjectCollection{Repo: v.db.ProjectRepo()}, v.options("projects")...)
		v.projects = c
	}
	v.mu.Unlock()
	return c, loadOnce(ctx, c)
}

func (v *orderViews) Media(ctx context.Context, projectID string) (*reorder.Controller[models.MediaItem], error) {
	v.mu.Lock()
	c, ok := v.media[projectID]
	if !ok {
		c = reorder.New[models.MediaItem](
			database.ProjectMediaCollection{Repo: v.db.ProjectRepo(), ProjectID: projectID},
			v.options("projectMedia:"+projectID)...,
		)
		v.media[projectID] = c
	}
	v.mu.Unlock()

	if err := loadOnce(ctx, c); err != nil {
		v.DropMedia(projectID)
		return nil, err
	}
	return c, nil
}

// loadOnce loads a controller that has never held a sequence.
func loadOnce[T any](ctx context.Context, c *reorder.Controller[T]) error {
	if c.Loaded() {
		return nil
	}
	return c.Reload(ctx)
}

// RefreshMainImages reloads the slideshow view after an add or delete.
func (v *orderViews) RefreshMainImages(ctx context.Context) {
	v.mu.Lock()
	c := v.mainImages
	v.mu.Unlock()
	refresh(ctx, v.logger, c)
}

// RefreshProjects reloads the project list view after an add, edit or delete.
func (v *orderViews) RefreshProjects(ctx context.Context) {
	v.mu.Lock()
	c := v.projects
	v.mu.Unlock()
	refresh(ctx, v.logger, c)
}

// RefreshMedia reloads one project's media view after an add or remove.
func (v *orderViews) RefreshMedia(ctx context.Context, projectID string) {
	v.mu.Lock()
	c := v.media[projectID]
	v.mu.Unlock()
	refresh(ctx, v.logger, c)
}

// DropMedia forgets the media view of a deleted project.
func (v *orderViews) DropMedia(projectID string) {
	v.mu.Lock()
	delete(v.media, projectID)
	v.mu.Unlock()
}

func refresh[T any](ctx context.Context, logger zerolog.Logger, c *reorder.Controller[T]) {
	if c == nil {
		return
	}
	if err := c.Reload(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to reload ordered view")
	}
}

func viewOf[T any](c *reorder.Controller[T]) orderedView[T] {
	view := orderedView[T]{
		Items: c.Items(),
		State: c.State().String(),
	}
	if view.Items == nil {
		view.Items = []T{}
	}
	if err := c.Err(); err != nil {
		view.Error = err.Error()
	}
	return view
}
