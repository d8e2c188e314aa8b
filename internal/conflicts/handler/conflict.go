package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"fleetbook/internal/conflicts/service"
	"fleetbook/internal/conflicts/validator"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	httputil "fleetbook/pkg/http"
	"fleetbook/pkg/logger"
	"fleetbook/pkg/middleware"
	"fleetbook/pkg/model"
)

// DegradedHeader is set on responses whose verdict came from a failure
// policy rather than a completed read.
const DegradedHeader = middleware.DegradedHeader

// ResourceFinder resolves display names for the multi-coach check.
type ResourceFinder interface {
	FindResources(ctx context.Context, kind model.ResourceKind, ids []int64) ([]*model.Resource, error)
}

type ConflictHandler struct {
	service   service.ConflictService
	validator *validator.ConflictValidator
	resources ResourceFinder
	cfg       *config.Config
	log       *logger.Logger
}

func NewConflictHandler(svc service.ConflictService, v *validator.ConflictValidator, resources ResourceFinder, cfg *config.Config) *ConflictHandler {
	return &ConflictHandler{
		service:   svc,
		validator: v,
		resources: resources,
		cfg:       cfg,
		log:       cfg.Log.Component("conflicts_handler"),
	}
}

func (h *ConflictHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/conflicts/availability", h.Availability)
	router.POST("/api/v1/conflicts/boat", h.Boat)
	router.POST("/api/v1/conflicts/coach", h.Coach)
	router.POST("/api/v1/conflicts/driver", h.Driver)
	router.POST("/api/v1/conflicts/coaches", h.Coaches)
	router.POST("/api/v1/conflicts/booking", h.Booking)
	router.POST("/api/v1/conflicts/bookings", h.Bookings)
}

func (h *ConflictHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.AvailabilityRequest
	if !h.decode(w, r, "Availability", &req) {
		return
	}

	var res service.AvailabilityResult
	if req.EndTime != "" {
		res = h.service.CheckUnavailableUntil(r.Context(), req.BoatID, req.Date, req.StartTime, req.EndTime)
	} else {
		res = h.service.CheckUnavailable(r.Context(), req.BoatID, req.Date, req.StartTime, req.DurationMin)
	}
	h.respond(w, r, "Availability", res, res.Err)
}

func (h *ConflictHandler) Boat(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BoatConflictRequest
	if !h.decode(w, r, "Boat", &req) {
		return
	}

	res := h.service.CheckBoatConflict(r.Context(), service.BoatQuery{
		BoatID:      req.BoatID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		DurationMin: req.DurationMin,
		IsFacility:  req.IsFacility,
		ExcludeID:   req.ExcludeID,
		DisplayName: req.DisplayName,
	})
	h.respond(w, r, "Boat", res, res.Err)
}

func (h *ConflictHandler) Coach(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.StaffConflictRequest
	if !h.decode(w, r, "Coach", &req) {
		return
	}

	res := h.service.CheckCoachConflict(r.Context(), req.ID, req.Date, req.StartTime, req.DurationMin, req.ExcludeID)
	h.respond(w, r, "Coach", res, res.Err)
}

func (h *ConflictHandler) Driver(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.StaffConflictRequest
	if !h.decode(w, r, "Driver", &req) {
		return
	}

	res := h.service.CheckDriverConflict(r.Context(), req.ID, req.Date, req.StartTime, req.DurationMin, req.ExcludeID)
	h.respond(w, r, "Driver", res, res.Err)
}

func (h *ConflictHandler) Coaches(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CoachesConflictRequest
	if !h.decode(w, r, "Coaches", &req) {
		return
	}

	names := h.coachNames(r.Context(), req.CoachIDs, req.CoachNames)
	res := h.service.CheckCoachesConflictBatch(r.Context(), req.CoachIDs, req.Date, req.StartTime, req.DurationMin, names, req.ExcludeID)
	h.respond(w, r, "Coaches", res, res.Err)
}

func (h *ConflictHandler) Booking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.Candidate
	if !h.decode(w, r, "Booking", &req) {
		return
	}

	res := h.service.CheckBooking(r.Context(), req)
	h.respond(w, r, "Booking", res, res.Err)
}

func (h *ConflictHandler) Bookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingsCheckRequest
	if !h.decode(w, r, "Bookings", &req) {
		return
	}
	if err := h.validator.ValidateBatchSize(len(req.Candidates)); err != nil {
		h.writeValidationError(w, r, "Bookings", err)
		return
	}

	lookahead := h.cfg.PrefetchLookaheadDays
	if req.LookaheadDays != nil {
		lookahead = *req.LookaheadDays
	}

	decisions := h.service.CheckBookings(r.Context(), req.Candidates, lookahead)
	errs := make([]error, 0, len(decisions))
	for _, d := range decisions {
		errs = append(errs, d.Err)
	}
	h.respond(w, r, "Bookings", decisions, errs...)
}

// coachNames starts from the names the caller sent and looks up the rest.
// A failed lookup is logged and the missing coaches keep the placeholder.
func (h *ConflictHandler) coachNames(ctx context.Context, ids []int64, supplied map[int64]string) map[int64]string {
	names := make(map[int64]string, len(ids))
	var missing []int64
	for _, id := range ids {
		if n, ok := supplied[id]; ok && n != "" {
			names[id] = n
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 || h.resources == nil {
		return names
	}

	resources, err := h.resources.FindResources(ctx, model.KindCoach, missing)
	if err != nil {
		h.log.Warn("Coach name lookup failed", "ids", missing, "error", err)
		return names
	}
	for id, n := range model.NameLookup(resources) {
		names[id] = n
	}
	return names
}

func (h *ConflictHandler) decode(w http.ResponseWriter, r *http.Request, handler string, dst any) bool {
	if err := httputil.DecodeJSON(r, dst); err != nil {
		h.log.Warn("Rejected request body", "handler", handler, "request_id", middleware.RequestID(r.Context()), "error", err)
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
		}
		return false
	}
	if err := h.validator.Validate(dst); err != nil {
		h.writeValidationError(w, r, handler, err)
		return false
	}
	return true
}

func (h *ConflictHandler) writeValidationError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	h.log.Warn("Validation failed", "handler", handler, "request_id", middleware.RequestID(r.Context()), "error", err)

	appErr := apperrors.Validation("Validation failed", nil)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		appErr = appErr.WithDetails(map[string]any{"errors": verrs})
	}
	if writeErr := httputil.WriteError(w, appErr); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ConflictHandler) respond(w http.ResponseWriter, r *http.Request, handler string, data any, errs ...error) {
	for _, err := range errs {
		if err != nil {
			w.Header().Set(DegradedHeader, "true")
			h.log.Warn("Verdict resolved by failure policy",
				"handler", handler,
				"request_id", middleware.RequestID(r.Context()),
				"error", err,
			)
			break
		}
	}
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}
