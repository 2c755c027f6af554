package fine

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"

	"github.com/verp-hr/fine-backend-go/internal/domain/employee"
	"github.com/verp-hr/fine-backend-go/internal/domain/fine"
)

// ActorFromContext builds an actor from the verified JWT claims on the
// request context.
func ActorFromContext(ctx context.Context) (fine.Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return fine.Actor{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return fine.Actor{}, errors.New("user_id claim is missing or invalid")
	}

	actor := fine.Actor{UserID: userID}
	actor.PersonID, _ = claims["person_id"].(string)
	actor.Role, _ = claims["role"].(string)
	actor.Department, _ = claims["department"].(string)
	actor.Designation, _ = claims["designation"].(string)
	actor.IsAdmin, _ = claims["is_admin"].(bool)
	return actor, nil
}

// AuthorizePersonView gates person-scoped reads (fine lists, liability
// summaries) on a fresh identity snapshot.
func AuthorizePersonView(ctx context.Context, repo employee.EmployeeRepository, actor fine.Actor, personID string) error {
	actor = refreshActor(ctx, repo, actor)

	managers, err := repo.ManagersOf(ctx, []string{personID})
	if err != nil {
		return fmt.Errorf("failed to resolve managers: %w", err)
	}

	if decision := CanViewPerson(actor, personID, managers); !decision.Allowed {
		return fine.ErrPermissionDenied
	}
	return nil
}

// refreshActor replaces the token's department/designation snapshot with
// the current employee record; tokens outlive HR reassignments, and the
// gate's role-based rules must not act on stale fields.
func refreshActor(ctx context.Context, repo employee.EmployeeRepository, actor fine.Actor) fine.Actor {
	var (
		emp employee.Employee
		err error
	)
	if actor.PersonID != "" {
		emp, err = repo.GetByID(ctx, actor.PersonID)
	} else {
		// Service-account tokens carry no person_id; resolve through the
		// user link instead.
		emp, err = repo.GetByUserID(ctx, actor.UserID)
	}
	if err != nil {
		return actor
	}
	actor.PersonID = emp.ID
	actor.Department = emp.Department
	actor.Designation = emp.Designation
	// The record wins in both directions: a token minted before an HR
	// demotion must not keep its is_admin claim.
	actor.IsAdmin = emp.IsAdmin
	return actor
}
