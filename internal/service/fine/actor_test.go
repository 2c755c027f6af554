package fine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verp-hr/fine-backend-go/internal/domain/employee"
	"github.com/verp-hr/fine-backend-go/internal/domain/fine"
)

type stubEmployeeRepo struct {
	byID     map[string]employee.Employee
	byUserID map[string]employee.Employee
	managers []string
}

func (s *stubEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	if e, ok := s.byID[id]; ok {
		return e, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (s *stubEmployeeRepo) GetByUserID(_ context.Context, userID string) (employee.Employee, error) {
	if e, ok := s.byUserID[userID]; ok {
		return e, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (s *stubEmployeeRepo) ManagersOf(_ context.Context, _ []string) ([]string, error) {
	return s.managers, nil
}

func TestRefreshActor_RecordOverridesTokenSnapshot(t *testing.T) {
	t.Parallel()

	repo := &stubEmployeeRepo{
		byID: map[string]employee.Employee{
			"person-1": {ID: "person-1", Department: "Operations", Designation: "Clerk", IsAdmin: false},
		},
	}

	// The token was minted when this person was an HR administrator.
	stale := fine.Actor{
		UserID:      "user-1",
		PersonID:    "person-1",
		Department:  "Human Resources",
		Designation: "HR Manager",
		IsAdmin:     true,
	}

	got := refreshActor(context.Background(), repo, stale)
	assert.Equal(t, "Operations", got.Department)
	assert.Equal(t, "Clerk", got.Designation)
	assert.False(t, got.IsAdmin)
}

func TestRefreshActor_PromotesFromRecord(t *testing.T) {
	t.Parallel()

	repo := &stubEmployeeRepo{
		byID: map[string]employee.Employee{
			"person-1": {ID: "person-1", Department: "IT", IsAdmin: true},
		},
	}

	got := refreshActor(context.Background(), repo, fine.Actor{UserID: "user-1", PersonID: "person-1"})
	assert.True(t, got.IsAdmin)
}

func TestRefreshActor_ResolvesPersonByUserLink(t *testing.T) {
	t.Parallel()

	repo := &stubEmployeeRepo{
		byUserID: map[string]employee.Employee{
			"user-1": {ID: "person-1", Department: "Finance"},
		},
	}

	got := refreshActor(context.Background(), repo, fine.Actor{UserID: "user-1"})
	assert.Equal(t, "person-1", got.PersonID)
	assert.Equal(t, "Finance", got.Department)
}

func TestRefreshActor_MissingRecordKeepsToken(t *testing.T) {
	t.Parallel()

	repo := &stubEmployeeRepo{}
	token := fine.Actor{UserID: "user-1", PersonID: "person-1", Department: "HR"}

	got := refreshActor(context.Background(), repo, token)
	assert.Equal(t, token, got)
}

func TestAuthorizePersonView(t *testing.T) {
	t.Parallel()

	repo := &stubEmployeeRepo{
		byID: map[string]employee.Employee{
			"person-1": {ID: "person-1", Department: "Operations"},
			"person-2": {ID: "person-2", Department: "Engineering"},
		},
		managers: []string{"mgr-1"},
	}

	// Self.
	err := AuthorizePersonView(context.Background(), repo, fine.Actor{UserID: "u-1", PersonID: "person-1"}, "person-1")
	require.NoError(t, err)

	// Manager of the person.
	err = AuthorizePersonView(context.Background(), repo, fine.Actor{UserID: "mgr-1"}, "person-1")
	require.NoError(t, err)

	// Unrelated colleague.
	err = AuthorizePersonView(context.Background(), repo, fine.Actor{UserID: "u-2", PersonID: "person-2"}, "person-1")
	assert.ErrorIs(t, err, fine.ErrPermissionDenied)
}
