package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"smart-parking/internal/logging"
	"smart-parking/internal/parking"
)

const serviceVersion = "1.0.0"

type Handler struct {
	lot         parking.Lot
	serviceName string
	storeDriver string
}

func NewHandler(lot parking.Lot, serviceName, storeDriver string) *Handler {
	return &Handler{
		lot:         lot,
		serviceName: serviceName,
		storeDriver: storeDriver,
	}
}

func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(r.Context(), w, http.StatusOK, "Smart Parking Lot System API", InfoResponse{
		Service: h.serviceName,
		Version: serviceVersion,
		Endpoints: map[string]string{
			"slots":     "/api/slots",
			"available": "/api/slots/available",
			"park":      "/api/slots/park",
			"remove":    "/api/slots/remove",
			"sample":    "/api/slots/sample/add",
			"health":    "/health",
			"metrics":   "/metrics",
		},
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(r.Context(), w, http.StatusOK, "", HealthResponse{
		Status:    "ok",
		Service:   h.serviceName,
		Store:     h.storeDriver,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(r.Context(), w, http.StatusNotFound, "Not Found - "+r.URL.Path)
}

func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(r.Context(), w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path))
}

func (h *Handler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateSlotRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(ctx, w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, msgMissingSlotFields)
		return
	}

	slot, err := h.lot.AddSlot(ctx, *req.SlotNo, *req.IsCovered, *req.IsEVCharging)
	if err != nil {
		h.writeLotError(w, r, err, http.StatusBadRequest)
		return
	}

	WriteSuccess(ctx, w, http.StatusCreated, "Slot created successfully", slot)
}

func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.lot.ListSlots(r.Context())
	if err != nil {
		h.writeLotError(w, r, err, http.StatusNotFound)
		return
	}
	WriteList(r.Context(), w, slots)
}

func (h *Handler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	slots, err := h.lot.ListAvailable(r.Context())
	if err != nil {
		h.writeLotError(w, r, err, http.StatusNotFound)
		return
	}
	WriteList(r.Context(), w, slots)
}

func (h *Handler) ParkVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ParkRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(ctx, w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.lot.Park(ctx, req.NeedsEV, req.NeedsCover, req.VehicleType)
	if err != nil {
		h.writeLotError(w, r, err, http.StatusBadRequest)
		return
	}

	if !result.Success {
		WriteError(ctx, w, http.StatusBadRequest, result.Message)
		return
	}
	WriteSuccess(ctx, w, http.StatusOK, result.Message, result.Slot)
}

func (h *Handler) RemoveVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RemoveSlotRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(ctx, w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, msgMissingSlotNo)
		return
	}

	result, err := h.lot.Leave(ctx, *req.SlotNo)
	if err != nil {
		h.writeLotError(w, r, err, http.StatusBadRequest)
		return
	}

	WriteSuccess(ctx, w, http.StatusOK, result.Message, nil)
}

func (h *Handler) GetSlot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := chi.URLParam(r, "slotNo")
	id, err := strconv.Atoi(raw)
	if err != nil {
		WriteError(ctx, w, http.StatusNotFound, fmt.Sprintf("Slot %s not found", raw))
		return
	}

	slot, err := h.lot.GetSlot(ctx, id)
	if err != nil {
		h.writeLotError(w, r, err, http.StatusNotFound)
		return
	}

	WriteSuccess(ctx, w, http.StatusOK, "", slot)
}

func (h *Handler) AddSampleSlots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	created, err := h.lot.SeedSamples(ctx)
	if err != nil {
		h.writeLotError(w, r, err, http.StatusNotFound)
		return
	}

	WriteSuccess(ctx, w, http.StatusOK, "Sample slots added successfully", SeedResponse{Created: created})
}

// writeLotError maps a domain error to its status. Not-found differs per
// route: lookups answer 404, while release treats it as a bad request.
func (h *Handler) writeLotError(w http.ResponseWriter, r *http.Request, err error, notFoundStatus int) {
	ctx := r.Context()

	switch {
	case errors.Is(err, parking.ErrNotFound):
		WriteError(ctx, w, notFoundStatus, err.Error())
	case errors.Is(err, parking.ErrValidation),
		errors.Is(err, parking.ErrDuplicateID),
		errors.Is(err, parking.ErrAlreadyVacant):
		WriteError(ctx, w, http.StatusBadRequest, err.Error())
	default:
		logging.Error(ctx, "slot operation failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		WriteError(ctx, w, http.StatusInternalServerError, "Internal server error")
	}
}
