package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/verp-hr/fine-backend-go/internal/domain/fine"
	"github.com/verp-hr/fine-backend-go/internal/handler/http/response"
	"github.com/verp-hr/fine-backend-go/internal/pkg/validator"
	finesvc "github.com/verp-hr/fine-backend-go/internal/service/fine"
)

type FineHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetByCode(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Act(w http.ResponseWriter, r *http.Request)
	CanAct(w http.ResponseWriter, r *http.Request)
	RecordPayment(w http.ResponseWriter, r *http.Request)
	ListForPerson(w http.ResponseWriter, r *http.Request)
	ListByStatus(w http.ResponseWriter, r *http.Request)
}

type FineHandlerImpl struct {
	fineService fine.FineService
}

func NewFineHandler(fineService fine.FineService) FineHandler {
	return &FineHandlerImpl{fineService: fineService}
}

// Create implements FineHandler.
func (h *FineHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := finesvc.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req fine.CreateFineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create fine decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.fineService.Create(r.Context(), req, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Fine created successfully", created)
}

// Get implements FineHandler.
func (h *FineHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := finesvc.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	fineID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(fineID) {
		response.BadRequest(w, "Fine ID must be a valid UUID", nil)
		return
	}

	f, err := h.fineService.Get(r.Context(), fineID, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, f)
}

// GetByCode implements FineHandler.
func (h *FineHandlerImpl) GetByCode(w http.ResponseWriter, r *http.Request) {
	actor, err := finesvc.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	code := chi.URLParam(r, "code")
	if !validator.IsValidFineCode(code) {
		response.BadRequest(w, "Fine code must look like FN-2024-00031", nil)
		return
	}

	f, err := h.fineService.GetByCode(r.Context(), code, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, f)
}

// Update implements FineHandler.
func (h *FineHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := finesvc.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	fineID := chi.URLParam(r, "id")
	if fineID == "" {
		response.BadRequest(w, "Fine ID is required", nil)
		return
	}

	var req fine.UpdateFineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update fine decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = fineID

	updated, err := h.fineService.Update(r.Context(), req, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Fine updated successfully", updated)
}

// Act implements FineHandler.
func (h *FineHandlerImpl) Act(w http.ResponseWriter, r *http.Request) {
	actor, err := finesvc.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	fineID := chi.URLParam(r, "id")
	if fineID == "" {
		response.BadRequest(w, "Fine ID is required", nil)
		return
	}

	var req fine.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fine action decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	acted, err := h.fineService.Act(r.Context(), fineID, req, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Action applied successfully", acted)
}

// CanAct implements FineHandler.
func (h *FineHandlerImpl) CanAct(w http.ResponseWriter, r *http.Request) {
	actor, err := finesvc.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	fineID := chi.URLParam(r, "id")
	if fineID == "" {
		response.BadRequest(w, "Fine ID is required", nil)
		return
	}

	allowed, reason, err := h.fineService.CanAct(r.Context(), fineID, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"allowed": allowed,
		"reason":  reason,
	})
}

// RecordPayment implements FineHandler.
func (h *FineHandlerImpl) RecordPayment(w http.ResponseWriter, r *http.Request) {
	actor, err := finesvc.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	fineID := chi.URLParam(r, "id")
	if fineID == "" {
		response.BadRequest(w, "Fine ID is required", nil)
		return
	}

	var req fine.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Record payment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	settled, err := h.fineService.RecordPayment(r.Context(), fineID, req, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment recorded successfully", settled)
}

// ListForPerson implements FineHandler.
func (h *FineHandlerImpl) ListForPerson(w http.ResponseWriter, r *http.Request) {
	actor, err := finesvc.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	personID := chi.URLParam(r, "personID")
	if personID == "" {
		response.BadRequest(w, "Person ID is required", nil)
		return
	}

	fines, err := h.fineService.ListForPerson(r.Context(), personID, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, fines)
}

// ListByStatus implements FineHandler.
func (h *FineHandlerImpl) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		response.BadRequest(w, "Status query parameter is required", nil)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	fines, total, err := h.fineService.ListByStatus(r.Context(), fine.Status(status), page, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	response.SuccessWithMeta(w, fines, &response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}
