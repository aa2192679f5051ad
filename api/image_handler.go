package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Chaeeun2/alolot/database"
	"github.com/Chaeeun2/alolot/models"
)

// imageHandler serves the home slideshow.
type imageHandler struct {
	responder Responder
	logger    zerolog.Logger
	imageRepo *database.ImageRepo
	views     *orderViews
}

func newImageHandler(imageRepo *database.ImageRepo, views *orderViews) imageHandler {
	logger := log.With().Str("handlerName", "imageHandler").Logger()

	return imageHandler{
		responder: NewResponder(logger),
		logger:    logger,
		imageRepo: imageRepo,
		views:     views,
	}
}

// getMainImages lists the slideshow in display order
// @Summary Get main images
// @Tags Images
// @Produce json
// @Success 200 {object} imageCollection
// @Router /main-images [get]
func (h imageHandler) getMainImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		images, err := h.imageRepo.FindMain(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "images", err))
			return
		}
		if images == nil {
			images = []models.Image{}
		}
		h.responder.WriteJSON(w, imageCollection{Images: images, Total: len(images)})
	}
}

func (h imageHandler) getOrderedImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.views.MainImages(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "images", err))
			return
		}
		h.responder.WriteJSON(w, viewOf(c))
	}
}

// addMainImage appends an uploaded image to the end of the slideshow.
func (h imageHandler) addMainImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var image models.Image
		if err := h.responder.decodeJSON(w, r, &image); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		created, err := h.imageRepo.AddMain(r.Context(), image)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "image", err))
			return
		}

		h.views.RefreshMainImages(r.Context())
		h.responder.WriteCreated(w, created)
	}
}

// deleteMainImage removes the record after releasing its file. A file that
// cannot be deleted is logged and does not fail the request.
func (h imageHandler) deleteMainImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.imageRepo.Delete(r.Context(), chi.URLParam(r, "imageID")); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "image", err))
			return
		}

		h.views.RefreshMainImages(r.Context())
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "image deleted successfully",
		})
	}
}

func (h imageHandler) moveMainImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := decodeMove(h.responder, w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		c, err := h.views.MainImages(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "images", err))
			return
		}
		if err := c.Move(r.Context(), from, to); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, viewOf(c))
	}
}

func (h imageHandler) setMainImageOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orderRequest
		if err := h.responder.decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.imageRepo.PersistOrder(r.Context(), req.IDs); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("reorder", "images", err))
			return
		}

		h.views.RefreshMainImages(r.Context())
		c, err := h.views.MainImages(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "images", err))
			return
		}
		h.responder.WriteJSON(w, viewOf(c))
	}
}
