package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Chaeeun2/alolot/services"
)

// siteHandler serves the generated parts of the public site.
type siteHandler struct {
	responder Responder
	logger    zerolog.Logger
	sitemap   *services.SitemapGenerator
	palette   *services.PaletteProvider
}

func newSiteHandler(sitemap *services.SitemapGenerator, palette *services.PaletteProvider) siteHandler {
	logger := log.With().Str("handlerName", "siteHandler").Logger()

	return siteHandler{
		responder: NewResponder(logger),
		logger:    logger,
		sitemap:   sitemap,
		palette:   palette,
	}
}

// getSitemap renders the sitemap from the current projects
// @Summary Sitemap
// @Tags Site
// @Produce xml
// @Router /sitemap.xml [get]
func (h siteHandler) getSitemap() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := h.sitemap.Build(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("build", "sitemap", err))
			return
		}

		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		if _, err := w.Write(data); err != nil {
			h.logger.Error().Err(err).Msg("error writing sitemap")
		}
	}
}

// getBackground returns the page background for a category filter
// @Summary Background colour
// @Tags Site
// @Produce json
// @Param category query string false "Category name, ALL for a random category colour"
// @Success 200 {object} backgroundResponse
// @Router /background [get]
func (h siteHandler) getBackground() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		if category == "" {
			category = services.AllCategories
		}
		h.responder.WriteJSON(w, backgroundResponse{
			Category: category,
			Color:    h.palette.Background(category),
		})
	}
}
