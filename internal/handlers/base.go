package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/config"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/delegation"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/history"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/models"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/registry"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/session"
)

// DashboardHandler carries the gateway's collaborators. Everything is
// injected at startup; handlers never reach into globals.
type DashboardHandler struct {
	cfg      *config.Config
	registry registry.Registry
	sessions *session.Store
	creds    session.Verifier
	deriver  *delegation.Deriver
	history  *history.Recorder
	log      *logrus.Entry
}

func NewDashboardHandler(
	logger *logrus.Logger,
	cfg *config.Config,
	reg registry.Registry,
	sessions *session.Store,
	creds session.Verifier,
	deriver *delegation.Deriver,
	recorder *history.Recorder,
) *DashboardHandler {
	return &DashboardHandler{
		cfg:      cfg,
		registry: reg,
		sessions: sessions,
		creds:    creds,
		deriver:  deriver,
		history:  recorder,
		log:      logger.WithField("component", "dashboard_handler"),
	}
}

// decorate attaches the derived access artifacts to a script before it
// is echoed back to the browser.
func (h *DashboardHandler) decorate(s *models.Script) {
	s.RawURL = h.deriver.RawURL(s.Name)
	s.Loadstring = h.deriver.Loadstring(s.Name)
}

// writeRegistryError maps the registry error taxonomy onto HTTP
// statuses. Unexpected failures are logged in full and surfaced as a
// generic message unless the process runs in dev mode.
func (h *DashboardHandler) writeRegistryError(w http.ResponseWriter, err error) {
	var (
		validationErr *registry.ValidationError
		conflictErr   *registry.ConflictError
		notFoundErr   *registry.NotFoundError
		delegationErr *registry.DelegationError
	)

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error(),
			map[string]string{"field": validationErr.Field})
	case errors.As(err, &conflictErr):
		writeError(w, http.StatusConflict, conflictErr.Error(),
			map[string]string{"name": conflictErr.Name})
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, notFoundErr.Error(),
			map[string]string{"name": notFoundErr.Name})
	case errors.As(err, &delegationErr):
		h.log.WithError(err).Error("Guard service unavailable")
		writeError(w, http.StatusBadGateway, "guard service unavailable", h.detail(err))
	default:
		h.log.WithError(err).Error("Unexpected registry failure")
		writeError(w, http.StatusInternalServerError, "internal error", h.detail(err))
	}
}

// detail exposes internal error text only in dev mode.
func (h *DashboardHandler) detail(err error) interface{} {
	if h.cfg.DevMode {
		return err.Error()
	}
	return nil
}
