package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Chaeeun2/alolot/database"
	"github.com/Chaeeun2/alolot/errs"
	"github.com/Chaeeun2/alolot/media"
	"github.com/Chaeeun2/alolot/models"
)

type projectHandler struct {
	responder    Responder
	logger       zerolog.Logger
	projectRepo  *database.ProjectRepo
	categoryRepo *database.CategoryRepo
	views        *orderViews
}

func newProjectHandler(projectRepo *database.ProjectRepo, categoryRepo *database.CategoryRepo, views *orderViews) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		projectRepo:  projectRepo,
		categoryRepo: categoryRepo,
		views:        views,
	}
}

// getAllProjects lists projects in display order
// @Summary Get all projects
// @Tags Projects
// @Produce json
// @Param category query string false "Category name, ALL for every project"
// @Success 200 {object} projectCollection
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindByCategory(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}
		h.responder.WriteJSON(w, projectCollection{Projects: projects, Total: len(projects)})
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse "project not found"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.projectRepo.FindByID(r.Context(), chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project at the top of the list
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.Project true "Project data"
// @Success 201 {object} models.Project
// @Failure 400 {object} ErrorResponse
// @Router /admin/project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var project models.Project
		if err := h.responder.decodeJSON(w, r, &project); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.prepare(r.Context(), &project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		created, err := h.projectRepo.Add(r.Context(), project)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}
		h.logger.Info().Str("projectID", created.ID).Msg("project created")

		h.views.RefreshProjects(r.Context())
		h.responder.WriteCreated(w, created)
	}
}

// updateProject replaces the editable fields of a project
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param project body models.Project true "Updated project data"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse "project not found"
// @Router /admin/project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var project models.Project
		if err := h.responder.decodeJSON(w, r, &project); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		project.ID = chi.URLParam(r, "projectID")
		if err := h.prepare(r.Context(), &project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		updated, err := h.projectRepo.Update(r.Context(), project)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		h.views.RefreshProjects(r.Context())
		h.views.RefreshMedia(r.Context(), updated.ID)
		h.responder.WriteJSON(w, updated)
	}
}

// deleteProject removes a project and releases its stored images
// @Summary Delete project
// @Tags Projects
// @Param projectID path string true "Project ID"
// @Success 200 {object} map[string]string
// @Router /admin/project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")
		if err := h.projectRepo.Delete(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		h.views.DropMedia(projectID)
		h.views.RefreshProjects(r.Context())
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

// getOrderedProjects returns the admin's view of the project order
// @Summary Admin project order
// @Tags Projects
// @Produce json
// @Router /admin/projects [get]
func (h projectHandler) getOrderedProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.views.Projects(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "projects", err))
			return
		}
		h.responder.WriteJSON(w, viewOf(c))
	}
}

// moveProject applies one drag-and-drop step. The new order is returned
// immediately and saved in the background.
// @Summary Move project
// @Tags Projects
// @Accept json
// @Produce json
// @Router /admin/projects/move [post]
func (h projectHandler) moveProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := decodeMove(h.responder, w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		c, err := h.views.Projects(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "projects", err))
			return
		}
		if err := c.Move(r.Context(), from, to); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, viewOf(c))
	}
}

// setProjectOrder stores a complete project order in one batch
// @Summary Set project order
// @Tags Projects
// @Accept json
// @Produce json
// @Router /admin/projects/order [put]
func (h projectHandler) setProjectOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orderRequest
		if err := h.responder.decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.projectRepo.PersistOrder(r.Context(), req.IDs); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("reorder", "projects", err))
			return
		}

		h.views.RefreshProjects(r.Context())
		c, err := h.views.Projects(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "projects", err))
			return
		}
		h.responder.WriteJSON(w, viewOf(c))
	}
}

// prepare resolves category references and completes video items before a
// project is written.
func (h projectHandler) prepare(ctx context.Context, project *models.Project) error {
	refs := make([]models.CategoryRef, 0, len(project.Categories))
	for _, ref := range project.Categories {
		if ref.ID == "" {
			return errs.NewInvalidFieldError("categories", "category id is required")
		}
		category, err := h.categoryRepo.FindByID(ctx, ref.ID)
		if err != nil {
			if errs.IsNotFound(err) {
				return errs.NewInvalidFieldError("categories", "unknown category "+ref.ID)
			}
			return wrapDatabaseError("find", "category", err)
		}
		refs = append(refs, category.Ref())
	}
	project.Categories = refs

	items, err := prepareMedia(project.DetailMedia)
	if err != nil {
		return err
	}
	project.DetailMedia = items
	return nil
}

// prepareMedia validates client supplied media and fills in the embed URL
// and platform of video items.
func prepareMedia(items []models.MediaItem) ([]models.MediaItem, error) {
	out := make([]models.MediaItem, 0, len(items))
	for _, item := range items {
		prepared, err := prepareMediaItem(item.Type, item.URL, item.OriginalURL)
		if err != nil {
			return nil, err
		}
		out = append(out, prepared)
	}
	return out, nil
}

func prepareMediaItem(kind models.MediaType, url, originalURL string) (models.MediaItem, error) {
	switch kind {
	case models.MediaTypeVideo:
		source := originalURL
		if source == "" {
			source = url
		}
		return media.NewVideoItem(source)
	case models.MediaTypeImage, "":
		if url == "" {
			return models.MediaItem{}, errs.NewMissingRequiredFieldError("url")
		}
		return models.MediaItem{Type: models.MediaTypeImage, URL: url}, nil
	default:
		return models.MediaItem{}, errs.NewInvalidFieldError("type", "must be image or video")
	}
}

// decodeMove reads a moveRequest with both indexes present.
func decodeMove(responder Responder, w http.ResponseWriter, r *http.Request) (int, int, error) {
	var req moveRequest
	if err := responder.decodeJSON(w, r, &req); err != nil {
		return 0, 0, err
	}
	if req.From == nil {
		return 0, 0, errs.NewMissingRequiredFieldError("from")
	}
	if req.To == nil {
		return 0, 0, errs.NewMissingRequiredFieldError("to")
	}
	return *req.From, *req.To, nil
}
