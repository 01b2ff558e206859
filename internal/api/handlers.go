// Package api exposes HTTP handlers for the plan generation pipeline.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"example.com/wellplan/internal/auth"
	"example.com/wellplan/internal/domain"
	"example.com/wellplan/internal/export"
	"example.com/wellplan/internal/persistence"
	"example.com/wellplan/internal/phase"
	"example.com/wellplan/internal/planning"
)

// Handler coordinates HTTP requests with the planning service.
type Handler struct {
	service *planning.Service
}

// NewHandler builds a Handler.
func NewHandler(service *planning.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/profile", h.requireScope(auth.ScopePlansRead, h.getProfile)).Methods(http.MethodGet)
	v1.HandleFunc("/profile", h.requireScope(auth.ScopePlansWrite, h.saveProfile)).Methods(http.MethodPut)
	v1.HandleFunc("/targets", h.requireScope(auth.ScopePlansWrite, h.computeTargets)).Methods(http.MethodPost)
	v1.HandleFunc("/phase", h.requireScope(auth.ScopePlansRead, h.advisePhase)).Methods(http.MethodPost)

	v1.HandleFunc("/plans", h.requireScope(auth.ScopePlansRead, h.listPlans)).Methods(http.MethodGet)
	v1.HandleFunc("/plans/diet", h.requireScope(auth.ScopePlansWrite, h.generateDiet)).Methods(http.MethodPost)
	v1.HandleFunc("/plans/workout", h.requireScope(auth.ScopePlansWrite, h.generateWorkout)).Methods(http.MethodPost)
	v1.HandleFunc("/plans/active", h.requireScope(auth.ScopePlansRead, h.activePlan)).Methods(http.MethodGet)
	v1.HandleFunc("/plans/{id}", h.requireScope(auth.ScopePlansRead, h.getPlan)).Methods(http.MethodGet)
	v1.HandleFunc("/plans/{id}", h.requireScope(auth.ScopePlansWrite, h.deactivatePlan)).Methods(http.MethodDelete)
	v1.HandleFunc("/plans/{id}/feedback", h.requireScope(auth.ScopePlansRead, h.listFeedback)).Methods(http.MethodGet)
	v1.HandleFunc("/plans/{id}/feedback", h.requireScope(auth.ScopePlansWrite, h.submitFeedback)).Methods(http.MethodPost)
	v1.HandleFunc("/plans/{id}/regenerate", h.requireScope(auth.ScopePlansWrite, h.regenerate)).Methods(http.MethodPost)
	v1.HandleFunc("/plans/{id}/export", h.requireScope(auth.ScopePlansRead, h.exportPlan)).Methods(http.MethodGet)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type claimsHandler func(w http.ResponseWriter, r *http.Request, claims *auth.Claims)

// requireScope rejects requests without claims or without scope. The write
// scope implies read access.
func (h *Handler) requireScope(scope string, next claimsHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		allowed := claims.HasScope(scope)
		if scope == auth.ScopePlansRead && claims.HasScope(auth.ScopePlansWrite) {
			allowed = true
		}
		if !allowed {
			writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
			return
		}
		next(w, r, claims)
	}
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	profile, err := h.service.GetProfile(r.Context(), claims.Subject)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) saveProfile(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var profile domain.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	profile.UserID = claims.Subject

	if err := h.service.SaveProfile(r.Context(), profile); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) computeTargets(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	profile, err := h.service.GetProfile(r.Context(), claims.Subject)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	targets, err := h.service.ComputeTargets(r.Context(), *profile)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, targets)
}

func (h *Handler) advisePhase(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req ReportRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	descriptor, err := h.service.AdvisePhase(r.Context(), claims.Subject, req.Report)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, descriptor)
}

func (h *Handler) generateDiet(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	result, err := h.service.GenerateDiet(r.Context(), planning.GenerateDietInput{UserID: claims.Subject})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, result)
}

func (h *Handler) generateWorkout(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req GenerateWorkoutRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	result, err := h.service.GenerateWorkout(r.Context(), planning.GenerateWorkoutInput{
		UserID:           claims.Subject,
		WorkoutType:      req.WorkoutType,
		AvailableMinutes: req.AvailableMinutes,
		Report:           req.Report,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, result)
}

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	query := r.URL.Query()

	limit := 20
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	cursor, err := persistence.DecodeCursor(query.Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	plans, next, err := h.service.ListPlans(r.Context(), claims.Subject, domain.PlanKind(query.Get("kind")), cursor, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListPlansResponse{
		Items:      plans,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) activePlan(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	plan, err := h.service.GetActivePlan(r.Context(), claims.Subject, domain.PlanKind(r.URL.Query().Get("kind")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *Handler) getPlan(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	plan, err := h.service.GetPlan(r.Context(), claims.Subject, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *Handler) deactivatePlan(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	if err := h.service.DeactivatePlan(r.Context(), claims.Subject, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) submitFeedback(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	record, err := h.service.SubmitFeedback(r.Context(), planning.SubmitFeedbackInput{
		UserID:     claims.Subject,
		PlanID:     mux.Vars(r)["id"],
		DayKey:     req.DayKey,
		SegmentKey: req.SegmentKey,
		Content:    req.Content,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) listFeedback(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	records, err := h.service.ListFeedback(r.Context(), claims.Subject, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if records == nil {
		records = []domain.FeedbackRecord{}
	}
	writeJSON(w, http.StatusOK, ListFeedbackResponse{Items: records})
}

func (h *Handler) regenerate(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req ReportRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	result, err := h.service.Regenerate(r.Context(), planning.RegenerateInput{
		UserID: claims.Subject,
		PlanID: mux.Vars(r)["id"],
		Report: req.Report,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, result)
}

func (h *Handler) exportPlan(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	plan, err := h.service.GetPlan(r.Context(), claims.Subject, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, *plan); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(*plan)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// writeResult reports a generated plan. A plan the store rejected is still
// returned, with 200 instead of 201 and the save error attached.
func writeResult(w http.ResponseWriter, result planning.Result) {
	resp := PlanResponse{
		Plan:        result.Plan,
		FellBack:    result.FellBack(),
		Saved:       result.Saved,
		PriorPlanID: result.PriorID,
	}
	status := http.StatusCreated
	if !result.Saved {
		status = http.StatusOK
		if result.SaveErr != nil {
			resp.SaveError = result.SaveErr.Error()
		}
	}
	writeJSON(w, status, resp)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "not_found", "profile not found")
	case errors.Is(err, domain.ErrPlanNotFound), errors.Is(err, domain.ErrPlanOwnership):
		writeError(w, http.StatusNotFound, "not_found", "plan not found")
	case errors.Is(err, domain.ErrMissingProfileField), errors.Is(err, phase.ErrCycleDataMissing):
		writeError(w, http.StatusUnprocessableEntity, "incomplete_profile", err.Error())
	case errors.Is(err, planning.ErrInvalidFeedback), errors.Is(err, planning.ErrInvalidKind):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

// decodeOptional decodes a JSON body when one is present. It reports false
// after writing an error response.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
