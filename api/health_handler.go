package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// dbChecker is implemented by database.Database.
type dbChecker interface {
	Ping(ctx context.Context) error
	ProductName() string
}

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	db          dbChecker
	startupTime time.Time
	now         func() time.Time
}

func newHealthHandler(db dbChecker, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		db:          db,
		startupTime: startupTime,
		now:         time.Now,
	}
}

func (h healthHandler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339)
}

// health reports that the process is serving
// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "UP", Timestamp: h.timestamp()}
		if !h.startupTime.IsZero() {
			resp.Uptime = h.now().Sub(h.startupTime).Round(time.Second).String()
		}
		h.responder.WriteJSON(w, resp)
	}
}

// dbStatus pings the database
// @Summary Database check
// @Tags Health
// @Produce json
// @Success 200 {object} dbStatusResponse
// @Failure 503 {object} dbStatusResponse "Database unreachable"
// @Router /db-status [get]
func (h healthHandler) dbStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.db.Ping(r.Context()); err != nil {
			h.logger.Error().Err(err).Msg("Database ping failed")
			h.responder.WriteJSONStatus(w, http.StatusServiceUnavailable, dbStatusResponse{
				Status:    "Disconnected",
				Error:     err.Error(),
				Timestamp: h.timestamp(),
			})
			return
		}

		h.responder.WriteJSON(w, dbStatusResponse{
			Status:    "Connected",
			Database:  h.db.ProductName(),
			Timestamp: h.timestamp(),
		})
	}
}
