package handler

import (
	"net/http"

	"fieldbook/internal/reservations/service"
	apperrors "fieldbook/pkg/errors"
	"fieldbook/pkg/httpx"
	"fieldbook/pkg/interval"
	"fieldbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

// Check answers GET /api/v1/availability?resource_id=...&from=...&to=...
// with a capacity snapshot for the half-open [from, to) window.
func (h *AvailabilityHandler) Check(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resourceID := r.URL.Query().Get("resource_id")
	from, err := httpx.ExtractTime(r, "from")
	if err == nil && from == nil {
		err = missingParam("from")
	}
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Check", "error", writeErr)
		}
		return
	}

	to, err := httpx.ExtractTime(r, "to")
	if err == nil && to == nil {
		err = missingParam("to")
	}
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Check", "error", writeErr)
		}
		return
	}

	report, err := h.service.Check(r.Context(), resourceID, interval.New(*from, *to))
	if err != nil {
		if writeErr := httpx.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Check", "error", writeErr)
		}
		return
	}

	if err := httpx.WriteSuccess(w, report); err != nil {
		h.log.Error("failed to write success response", "handler", "Check", "error", err)
	}
}

func missingParam(name string) error {
	return apperrors.InvalidInput("missing required " + name + " parameter")
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.Check)
}
