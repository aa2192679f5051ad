package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Chaeeun2/alolot/database"
	"github.com/Chaeeun2/alolot/models"
	"github.com/Chaeeun2/alolot/services"
)

type categoryHandler struct {
	responder    Responder
	logger       zerolog.Logger
	categoryRepo *database.CategoryRepo
	palette      *services.PaletteProvider
}

func newCategoryHandler(categoryRepo *database.CategoryRepo, palette *services.PaletteProvider) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		categoryRepo: categoryRepo,
		palette:      palette,
	}
}

// getCategories lists the categories in creation order
// @Summary Get categories
// @Tags Categories
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h categoryHandler) getCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "categories", err))
			return
		}
		if categories == nil {
			categories = []models.Category{}
		}
		h.responder.WriteJSON(w, categories)
	}
}

func (h categoryHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var category models.Category
		if err := h.responder.decodeJSON(w, r, &category); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		created, err := h.categoryRepo.Add(r.Context(), category)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "category", err))
			return
		}

		h.refreshPalette(r)
		h.responder.WriteCreated(w, created)
	}
}

func (h categoryHandler) updateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var category models.Category
		if err := h.responder.decodeJSON(w, r, &category); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		category.ID = chi.URLParam(r, "categoryID")

		updated, err := h.categoryRepo.Update(r.Context(), category)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "category", err))
			return
		}

		h.refreshPalette(r)
		h.responder.WriteJSON(w, updated)
	}
}

func (h categoryHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.categoryRepo.Delete(r.Context(), chi.URLParam(r, "categoryID")); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "category", err))
			return
		}

		h.refreshPalette(r)
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "category deleted successfully",
		})
	}
}

// refreshPalette reloads the background colours. A failure keeps the
// previous palette and does not fail the request that changed the category.
func (h categoryHandler) refreshPalette(r *http.Request) {
	if err := h.palette.Refresh(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("palette refresh after category change failed")
	}
}
