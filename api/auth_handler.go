package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Chaeeun2/alolot/auth"
)

type authHandler struct {
	responder   Responder
	logger      zerolog.Logger
	tokens      *auth.Service
	credentials auth.Credentials
}

func newAuthHandler(tokens *auth.Service, credentials auth.Credentials) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		tokens:      tokens,
		credentials: credentials,
	}
}

// login exchanges the admin password for a bearer token
// @Summary Admin login
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} loginResponse
// @Failure 401 {object} ErrorResponse "invalid credentials"
// @Router /admin/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := h.responder.decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.credentials.Check(req.Password); err != nil {
			h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("failed admin login")
			h.responder.WriteError(w, err)
			return
		}

		token, expires, err := h.tokens.GenerateToken(auth.AdminSubject, "admin")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, loginResponse{Token: token, ExpiresAt: expires.Unix()})
	}
}
