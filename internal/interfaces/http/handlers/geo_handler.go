package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/SkipTrace-Intelligence/internal/application/analysis"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
)

// AreaCodeResponse is the body of GET /api/v1/geo/area-codes/{code}.
type AreaCodeResponse struct {
	AreaCode string `json:"areaCode"`
	City     string `json:"city"`
	State    string `json:"state"`
}

// GeoHandler serves area-code lookups.
type GeoHandler struct {
	svc    analysis.Service
	logger logging.Logger
}

func NewGeoHandler(svc analysis.Service, logger logging.Logger) *GeoHandler {
	return &GeoHandler{svc: svc, logger: logger.Named("http.geo")}
}

// AreaCode answers 400 for a malformed code and 404 for one outside the
// table.
func (h *GeoHandler) AreaCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	loc, err := h.svc.LookupAreaCode(code)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, AreaCodeResponse{AreaCode: code, City: loc.City, State: loc.State})
}

//Personal.AI order the ending
