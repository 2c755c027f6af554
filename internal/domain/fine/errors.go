package fine

import "errors"

var (
	ErrFineNotFound            = errors.New("fine not found")
	ErrFineCodeExists          = errors.New("fine code already exists")
	ErrInvalidTransition       = errors.New("invalid fine status transition")
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	ErrPermissionDenied        = errors.New("not permitted to act on this fine")
	ErrStaleFine               = errors.New("fine was modified concurrently, re-fetch and retry")
	ErrNotEditable             = errors.New("fine can only be edited while draft or rejected")
	ErrResubmitNotAllowed      = errors.New("only the creator or the last approver may resubmit")
	ErrAlreadySettled          = errors.New("fine is already fully settled")
	ErrInvalidPayment          = errors.New("payment amount must be positive")
	ErrNotApproved             = errors.New("payments apply only to approved fines")
)
