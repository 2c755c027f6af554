package fine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/verp-hr/fine-backend-go/internal/domain/fine"
)

// Action is a workflow verb applied to a fine.
type Action string

const (
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionWithdraw Action = "withdraw"
	ActionResubmit Action = "resubmit"
)

// approvalChain maps each in-flight status to the status an approval
// moves it to, and the role recorded for that approval.
var approvalChain = map[fine.Status]struct {
	Next fine.Status
	Role fine.WorkflowRole
}{
	fine.StatusPending:              {fine.StatusPendingHR, fine.RoleReportee},
	fine.StatusPendingHR:            {fine.StatusPendingAccounts, fine.RoleHR},
	fine.StatusPendingAccounts:      {fine.StatusPendingAuthorization, fine.RoleAccounts},
	fine.StatusPendingAuthorization: {fine.StatusApproved, fine.RoleManagement},
}

// rejectableFrom is every status a rejection may be raised against.
func rejectable(s fine.Status) bool {
	_, ok := approvalChain[s]
	return ok || s == fine.StatusDraft
}

// Transition applies an action to a fine snapshot and returns the updated
// copy. Every transition appends a workflow step; history is append-only
// and survives rejection and resubmission as an audit trail. The gate
// decides WHO may act; this table decides WHAT is legal from each status.
func Transition(f fine.Fine, action Action, actor fine.Actor, reason string, now time.Time) (fine.Fine, error) {
	switch action {
	case ActionSubmit:
		if f.Status != fine.StatusDraft {
			return f, fine.ErrInvalidTransition
		}
		if f.CreatedBy != actor.UserID {
			return f, fine.ErrPermissionDenied
		}
		f.Status = fine.StatusPending
		f = appendStep(f, fine.RoleRequester, fine.StepApproved, actor, "submitted", now)
		return f, nil

	case ActionApprove:
		stage, ok := approvalChain[f.Status]
		if !ok {
			return f, fine.ErrInvalidTransition
		}
		f.Status = stage.Next
		f = appendStep(f, stage.Role, fine.StepApproved, actor, "", now)
		return f, nil

	case ActionReject:
		if !rejectable(f.Status) {
			return f, fine.ErrInvalidTransition
		}
		if reason == "" {
			return f, fine.ErrRejectionReasonRequired
		}
		role := fine.RoleRequester
		if stage, ok := approvalChain[f.Status]; ok {
			role = stage.Role
		}
		f.Status = fine.StatusRejected
		f.RejectionReason = &reason
		f = appendStep(f, role, fine.StepRejected, actor, reason, now)
		return f, nil

	case ActionCancel, ActionWithdraw:
		if f.Status != fine.StatusDraft && f.Status != fine.StatusPending {
			return f, fine.ErrInvalidTransition
		}
		note := "cancelled"
		f.Status = fine.StatusCancelled
		if action == ActionWithdraw {
			f.Status = fine.StatusWithdrawn
			note = "withdrawn"
		}
		f = appendStep(f, fine.RoleRequester, fine.StepApproved, actor, note, now)
		return f, nil

	case ActionResubmit:
		if f.Status != fine.StatusRejected {
			return f, fine.ErrInvalidTransition
		}
		if !CanResubmit(f, actor) {
			return f, fine.ErrResubmitNotAllowed
		}
		f.Status = fine.StatusPending
		f.RejectionReason = nil
		f = appendStep(f, fine.RoleRequester, fine.StepApproved, actor, "resubmitted", now)
		return f, nil
	}

	return f, fine.ErrInvalidTransition
}

// CanResubmit decides who may re-enter a rejected fine into the pipeline:
// the identity closest to the point of rejection. History is append-only
// across resubmission cycles, so eligibility anchors on the MOST RECENT
// rejection, not the first. The approver of the last approved step before
// it may resubmit; when no such step exists that is the creator.
func CanResubmit(f fine.Fine, actor fine.Actor) bool {
	lastRejected := -1
	for i, step := range f.Workflow {
		if step.Status == fine.StepRejected {
			lastRejected = i
		}
	}

	for i := lastRejected - 1; i >= 0; i-- {
		step := f.Workflow[i]
		// Requester steps (submit/resubmit) do not count as approvals
		// in the chain.
		if step.Status == fine.StepApproved && step.Role != fine.RoleRequester {
			return step.AssignedTo == actor.UserID
		}
	}

	return f.CreatedBy == actor.UserID
}

func appendStep(f fine.Fine, role fine.WorkflowRole, status fine.StepStatus, actor fine.Actor, note string, now time.Time) fine.Fine {
	at := now
	steps := make(fine.WorkflowSteps, len(f.Workflow), len(f.Workflow)+1)
	copy(steps, f.Workflow)
	f.Workflow = append(steps, fine.WorkflowStep{
		Role:       role,
		Status:     status,
		AssignedTo: actor.UserID,
		Note:       note,
		ActionedAt: &at,
	})
	return f
}

// ApplyPayment settles an amount against an approved fine. The first
// payment moves it to active; covering the employee total (within the
// conservation epsilon) completes it. Settlement never re-enters the
// approval chain.
func ApplyPayment(f fine.Fine, amount decimal.Decimal) (fine.Fine, error) {
	if !amount.IsPositive() {
		return f, fine.ErrInvalidPayment
	}
	if !f.Status.Settleable() {
		return f, fine.ErrNotApproved
	}
	if f.Status == fine.StatusCompleted {
		return f, fine.ErrAlreadySettled
	}

	f.PaidAmount = f.PaidAmount.Add(amount)
	if f.EmployeeAmount.Sub(f.PaidAmount).LessThanOrEqual(Epsilon) {
		f.Status = fine.StatusCompleted
	} else {
		f.Status = fine.StatusActive
	}
	return f, nil
}
