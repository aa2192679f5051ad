package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Chaeeun2/alolot/database"
	"github.com/Chaeeun2/alolot/models"
)

type aboutHandler struct {
	responder Responder
	logger    zerolog.Logger
	aboutRepo *database.AboutRepo
}

func newAboutHandler(aboutRepo *database.AboutRepo) aboutHandler {
	logger := log.With().Str("handlerName", "aboutHandler").Logger()

	return aboutHandler{
		responder: NewResponder(logger),
		logger:    logger,
		aboutRepo: aboutRepo,
	}
}

// getAbout returns the about page, or the built-in copy if none is saved
// @Summary Get about
// @Tags About
// @Produce json
// @Success 200 {object} models.About
// @Router /about [get]
func (h aboutHandler) getAbout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		about, err := h.aboutRepo.Get(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "about", err))
			return
		}
		h.responder.WriteJSON(w, about)
	}
}

func (h aboutHandler) updateAbout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var about models.About
		if err := h.responder.decodeJSON(w, r, &about); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		saved, err := h.aboutRepo.Save(r.Context(), about)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("save", "about", err))
			return
		}
		h.responder.WriteJSON(w, saved)
	}
}
