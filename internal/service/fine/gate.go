package fine

import (
	"strings"

	"github.com/verp-hr/fine-backend-go/internal/domain/fine"
)

// GateInput is a fresh snapshot for one permission decision. Managers are
// the declared managers of the fine's assigned persons, resolved by the
// caller just before the check; the gate itself never caches anything.
type GateInput struct {
	Fine     fine.Fine
	Actor    fine.Actor
	Managers []string
}

// Decision carries the verdict plus the rule that produced it, so denials
// surface a human-readable reason.
type Decision struct {
	Allowed bool
	Rule    string
	Reason  string
}

// gateRule is one named predicate. ok=false means the rule does not
// decide this input and evaluation continues to the next rule.
type gateRule struct {
	name  string
	check func(in GateInput) (decided bool, allowed bool, reason string)
}

// gateRules is evaluated in priority order; the first rule that decides
// wins.
var gateRules = []gateRule{
	{name: "admin", check: ruleAdmin},
	{name: "draft-creator", check: ruleDraftCreator},
	{name: "pending-explicit-approver", check: rulePendingExplicitApprover},
	{name: "pending-manager", check: rulePendingManager},
	{name: "pending-step-assignee", check: rulePendingStepAssignee},
	{name: "pending-creator-fallback", check: rulePendingCreatorFallback},
	{name: "rejected-resubmitter", check: ruleRejectedResubmitter},
	{name: "stage-explicit-approver", check: ruleStageExplicitApprover},
	{name: "stage-role-match", check: ruleStageRoleMatch},
	{name: "settlement-accounts", check: ruleSettlementAccounts},
}

// CanAct decides whether the actor may approve, reject, or otherwise act
// on the fine in its current status. Pure predicate: no side effects, and
// it must be re-evaluated with a fresh identity snapshot on every request.
func CanAct(in GateInput) Decision {
	for _, rule := range gateRules {
		if decided, allowed, reason := rule.check(in); decided {
			return Decision{Allowed: allowed, Rule: rule.name, Reason: reason}
		}
	}
	return Decision{Allowed: false, Rule: "default-deny", Reason: "no permission rule matched for this status and actor"}
}

// CanView additionally lets an assigned person see their own fine
// without granting approval authority.
func CanView(in GateInput) Decision {
	if in.Fine.IsAssigned(in.Actor.PersonID) {
		return Decision{Allowed: true, Rule: "assigned-self-view"}
	}
	return CanAct(in)
}

// CanViewPerson decides whether the actor may read a person's fine list
// or liability aggregate: the person themselves, their manager, an
// administrator, or the HR/accounts functions.
func CanViewPerson(actor fine.Actor, personID string, managers []string) Decision {
	if actor.IsAdmin {
		return Decision{Allowed: true, Rule: "admin"}
	}
	if matchesActor(personID, actor) {
		return Decision{Allowed: true, Rule: "self"}
	}
	for _, managerID := range managers {
		if matchesActor(managerID, actor) {
			return Decision{Allowed: true, Rule: "manager"}
		}
	}
	if isHRDepartment(actor.Department) || isAccountsDepartment(actor.Department) {
		return Decision{Allowed: true, Rule: "role-function"}
	}
	return Decision{Allowed: false, Rule: "default-deny", Reason: "not permitted to view this person's records"}
}

func ruleAdmin(in GateInput) (bool, bool, string) {
	if in.Actor.IsAdmin {
		return true, true, ""
	}
	return false, false, ""
}

func ruleDraftCreator(in GateInput) (bool, bool, string) {
	if in.Fine.Status != fine.StatusDraft {
		return false, false, ""
	}
	if in.Fine.CreatedBy == in.Actor.UserID {
		return true, true, ""
	}
	return true, false, "only the creator may act on a draft fine"
}

func matchesActor(id string, a fine.Actor) bool {
	return id != "" && (id == a.UserID || id == a.PersonID)
}

func rulePendingExplicitApprover(in GateInput) (bool, bool, string) {
	if in.Fine.Status != fine.StatusPending || in.Fine.ApproverID == nil {
		return false, false, ""
	}
	if matchesActor(*in.Fine.ApproverID, in.Actor) {
		return true, true, ""
	}
	return false, false, ""
}

func rulePendingManager(in GateInput) (bool, bool, string) {
	if in.Fine.Status != fine.StatusPending {
		return false, false, ""
	}
	for _, managerID := range in.Managers {
		if matchesActor(managerID, in.Actor) {
			return true, true, ""
		}
	}
	return false, false, ""
}

func rulePendingStepAssignee(in GateInput) (bool, bool, string) {
	if in.Fine.Status != fine.StatusPending {
		return false, false, ""
	}
	for _, step := range in.Fine.Workflow {
		if step.Status == fine.StepPending && matchesActor(step.AssignedTo, in.Actor) {
			return true, true, ""
		}
	}
	return false, false, ""
}

// rulePendingCreatorFallback keeps a creator who acts as their own
// approving manager able to move the fine; small teams rely on it.
func rulePendingCreatorFallback(in GateInput) (bool, bool, string) {
	if in.Fine.Status != fine.StatusPending {
		return false, false, ""
	}
	if in.Fine.CreatedBy == in.Actor.UserID {
		return true, true, ""
	}
	return true, false, "actor is not the approver, a manager of an assigned person, or the creator"
}

// ruleRejectedResubmitter lets the identity eligible to resubmit act on
// a rejected fine; everyone else is shut out.
func ruleRejectedResubmitter(in GateInput) (bool, bool, string) {
	if in.Fine.Status != fine.StatusRejected {
		return false, false, ""
	}
	if CanResubmit(in.Fine, in.Actor) {
		return true, true, ""
	}
	return true, false, "only the last approver before rejection, or the creator, may act on a rejected fine"
}

// ruleSettlementAccounts covers the phase after approval: payments are
// recorded by payroll/accounts, so the accounts function may act on a
// settleable fine.
func ruleSettlementAccounts(in GateInput) (bool, bool, string) {
	if !in.Fine.Status.Settleable() {
		return false, false, ""
	}
	if isAccountsDepartment(in.Actor.Department) {
		return true, true, ""
	}
	return true, false, "only the accounts function may settle an approved fine"
}

func stageRole(s fine.Status) (fine.WorkflowRole, bool) {
	switch s {
	case fine.StatusPendingHR:
		return fine.RoleHR, true
	case fine.StatusPendingAccounts:
		return fine.RoleAccounts, true
	case fine.StatusPendingAuthorization:
		return fine.RoleManagement, true
	}
	return "", false
}

func ruleStageExplicitApprover(in GateInput) (bool, bool, string) {
	if _, ok := stageRole(in.Fine.Status); !ok || in.Fine.ApproverID == nil {
		return false, false, ""
	}
	if matchesActor(*in.Fine.ApproverID, in.Actor) {
		return true, true, ""
	}
	return false, false, ""
}

func ruleStageRoleMatch(in GateInput) (bool, bool, string) {
	role, ok := stageRole(in.Fine.Status)
	if !ok {
		return false, false, ""
	}

	switch role {
	case fine.RoleHR:
		if isHRDepartment(in.Actor.Department) {
			return true, true, ""
		}
		return true, false, "actor is not in the HR function"
	case fine.RoleAccounts:
		if isAccountsDepartment(in.Actor.Department) {
			return true, true, ""
		}
		return true, false, "actor is not in the accounts function"
	case fine.RoleManagement:
		if isManagementDepartment(in.Actor.Department) && isExecutiveDesignation(in.Actor.Designation) {
			return true, true, ""
		}
		return true, false, "actor is not an executive in a management department"
	}
	return true, false, "unrecognized approval stage"
}

// Department and designation values are free text; matching is by
// function keyword, case-insensitive.

var hrKeywords = []string{"human resource", "hr"}
var accountsKeywords = []string{"account", "finance"}
var managementKeywords = []string{"management", "executive", "administration"}

// executiveDesignations is the enumerated set accepted for the final
// authorization stage.
var executiveDesignations = []string{
	"ceo",
	"coo",
	"cfo",
	"managing director",
	"general manager",
	"director",
	"executive officer",
	"president",
	"vice president",
}

func containsAny(value string, keywords []string) bool {
	value = strings.ToLower(value)
	for _, kw := range keywords {
		if strings.Contains(value, kw) {
			return true
		}
	}
	return false
}

func isHRDepartment(dept string) bool {
	return containsAny(dept, hrKeywords)
}

func isAccountsDepartment(dept string) bool {
	return containsAny(dept, accountsKeywords)
}

func isManagementDepartment(dept string) bool {
	return containsAny(dept, managementKeywords)
}

func isExecutiveDesignation(designation string) bool {
	d := strings.ToLower(strings.TrimSpace(designation))
	for _, e := range executiveDesignations {
		if d == e || strings.Contains(d, e) {
			return true
		}
	}
	return false
}
