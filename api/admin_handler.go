package api

import (
	"net/http"

	"github.com/rpupo63/personal-blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type adminHandler struct {
	responder Responder
	logger    zerolog.Logger
	admin     *services.AdminService
}

func newAdminHandler(admin *services.AdminService) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder: NewResponder(logger),
		logger:    logger,
		admin:     admin,
	}
}

// createSession exchanges the admin password for a bearer token
// @Summary Admin login
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body adminSessionRequest true "Admin password"
// @Success 200 {object} adminSessionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized - Incorrect password"
// @Failure 503 {object} ErrorResponse "Admin access is not configured"
// @Router /api/admin/session [post]
func (h adminHandler) createSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminSessionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, expiresAt, err := h.admin.Login(req.Password)
		if err != nil {
			h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("Rejected admin login")
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, adminSessionResponse{Token: token, ExpiresAt: expiresAt})
	}
}
