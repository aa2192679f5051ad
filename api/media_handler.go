package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Chaeeun2/alolot/database"
	"github.com/Chaeeun2/alolot/errs"
)

// mediaHandler edits the detail media of one project.
type mediaHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	views       *orderViews
}

func newMediaHandler(projectRepo *database.ProjectRepo, views *orderViews) mediaHandler {
	logger := log.With().Str("handlerName", "mediaHandler").Logger()

	return mediaHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		views:       views,
	}
}

func (h mediaHandler) getMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.views.Media(r.Context(), chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "project media", err))
			return
		}
		h.responder.WriteJSON(w, viewOf(c))
	}
}

// addMedia appends an uploaded image URL or a YouTube/Vimeo link.
func (h mediaHandler) addMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")

		var req mediaRequest
		if err := h.responder.decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		item, err := prepareMediaItem(req.Type, req.URL, "")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		items, err := h.projectRepo.AddMedia(r.Context(), projectID, item)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("add media to", "project", err))
			return
		}

		h.views.RefreshMedia(r.Context(), projectID)
		h.responder.WriteCreated(w, items)
	}
}

func (h mediaHandler) removeMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("index", "must be an integer"))
			return
		}

		items, err := h.projectRepo.RemoveMedia(r.Context(), projectID, index)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("remove media from", "project", err))
			return
		}

		h.views.RefreshMedia(r.Context(), projectID)
		h.responder.WriteJSON(w, items)
	}
}

// moveMedia applies one drag-and-drop step to the project's media.
func (h mediaHandler) moveMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := decodeMove(h.responder, w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		c, err := h.views.Media(r.Context(), chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "project media", err))
			return
		}
		if err := c.Move(r.Context(), from, to); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, viewOf(c))
	}
}
