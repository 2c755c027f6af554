package response

import (
	"errors"
	"net/http"

	"github.com/verp-hr/fine-backend-go/internal/domain/employee"
	"github.com/verp-hr/fine-backend-go/internal/domain/fine"
	"github.com/verp-hr/fine-backend-go/internal/domain/loan"
	"github.com/verp-hr/fine-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Fine domain errors
	case errors.Is(err, fine.ErrFineNotFound):
		NotFound(w, "Fine not found")
	case errors.Is(err, fine.ErrFineCodeExists):
		Conflict(w, "Fine code already exists")
	case errors.Is(err, fine.ErrInvalidTransition):
		Conflict(w, "Action is not valid for the fine's current status")
	case errors.Is(err, fine.ErrRejectionReasonRequired):
		BadRequest(w, "Rejection reason is required", nil)
	case errors.Is(err, fine.ErrPermissionDenied):
		Forbidden(w, "Not permitted to act on this fine")
	case errors.Is(err, fine.ErrStaleFine):
		Conflict(w, "Fine was modified concurrently, re-fetch and retry")
	case errors.Is(err, fine.ErrNotEditable):
		Conflict(w, "Fine can only be edited while draft or rejected")
	case errors.Is(err, fine.ErrResubmitNotAllowed):
		Forbidden(w, "Only the creator or the last approver may resubmit")
	case errors.Is(err, fine.ErrAlreadySettled):
		Conflict(w, "Fine is already fully settled")
	case errors.Is(err, fine.ErrInvalidPayment):
		BadRequest(w, "Payment amount must be positive", nil)
	case errors.Is(err, fine.ErrNotApproved):
		Conflict(w, "Payments apply only to approved fines")

	// Loan domain errors
	case errors.Is(err, loan.ErrLoanNotFound):
		NotFound(w, "Loan or advance record not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
