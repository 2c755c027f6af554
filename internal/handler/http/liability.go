package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verp-hr/fine-backend-go/internal/handler/http/response"
	finesvc "github.com/verp-hr/fine-backend-go/internal/service/fine"
	liabilitysvc "github.com/verp-hr/fine-backend-go/internal/service/liability"
)

type LiabilityHandler interface {
	GetSummary(w http.ResponseWriter, r *http.Request)
}

type LiabilityHandlerImpl struct {
	liabilityService *liabilitysvc.LiabilityService
}

func NewLiabilityHandler(liabilityService *liabilitysvc.LiabilityService) LiabilityHandler {
	return &LiabilityHandlerImpl{liabilityService: liabilityService}
}

// GetSummary implements LiabilityHandler.
func (h *LiabilityHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
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

	summary, err := h.liabilityService.Summarize(r.Context(), personID, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
