// Copyright (c) 2026 Adminkit. All rights reserved.

package user_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huyld/adminkit/internal/audit"
	"github.com/huyld/adminkit/internal/auth"
	"github.com/huyld/adminkit/internal/platform/apperr"
	"github.com/huyld/adminkit/internal/platform/sec"
	"github.com/huyld/adminkit/internal/user"
)

const actorID = "0192aa3e-0001-7000-8000-00000000000a"

// fakeRepository is an in-memory Repository capturing audit entries.
type fakeRepository struct {
	users   map[string]*auth.User
	entries []*audit.Entry
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: map[string]*auth.User{}}
}

func (f *fakeRepository) List(_ context.Context, filter user.Filter, limit, offset int) ([]*auth.User, int, error) {
	var matched []*auth.User
	for _, account := range f.users {
		if filter.Role != "" && string(account.Role) != filter.Role {
			continue
		}
		if filter.IsActive != nil && account.IsActive != *filter.IsActive {
			continue
		}
		matched = append(matched, account)
	}
	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if account, ok := f.users[id]; ok {
		return account, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeRepository) Create(_ context.Context, account *auth.User, entry *audit.Entry) error {
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, account.Email) {
			return apperr.Conflict("Email is already registered")
		}
	}
	f.users[account.ID] = account
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeRepository) Update(_ context.Context, account *auth.User, entry *audit.Entry) error {
	if _, ok := f.users[account.ID]; !ok {
		return apperr.NotFound("User")
	}
	f.users[account.ID] = account
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string, entry *audit.Entry) error {
	if _, ok := f.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(f.users, id)
	f.entries = append(f.entries, entry)
	return nil
}

func newService() (*user.Service, *fakeRepository) {
	repo := newFakeRepository()
	return user.NewService(repo, sec.NewPasswordHasher(4)), repo
}

/*
TestCreate_Success verifies enrollment: hashed password, normalized email,
active by default, and a user.create audit entry naming the actor.
*/
func TestCreate_Success(t *testing.T) {
	service, repo := newService()

	account, err := service.Create(context.Background(), actorID, user.CreateInput{
		Email:    "  New.Manager@Example.com ",
		Password: "initial password",
		FullName: "New Manager",
		Role:     "manager",
	}, "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, "new.manager@example.com", account.Email)
	assert.Equal(t, sec.RoleManager, account.Role)
	assert.True(t, account.IsActive)
	assert.NotEqual(t, "initial password", account.PasswordHash)
	assert.False(t, account.PasswordChangedAt.IsZero())

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, audit.ActionUserCreate, entry.Action)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, actorID, *entry.ActorID)
	assert.Equal(t, account.ID, entry.ResourceID)
}

/*
TestCreate_Validation rejects malformed input before anything is persisted.
*/
func TestCreate_Validation(t *testing.T) {
	service, repo := newService()

	cases := []struct {
		name  string
		input user.CreateInput
	}{
		{"bad email", user.CreateInput{Email: "not-an-email", Password: "long enough pw", FullName: "X", Role: "viewer"}},
		{"short password", user.CreateInput{Email: "a@example.com", Password: "short", FullName: "X", Role: "viewer"}},
		{"unknown role", user.CreateInput{Email: "a@example.com", Password: "long enough pw", FullName: "X", Role: "superuser"}},
		{"missing name", user.CreateInput{Email: "a@example.com", Password: "long enough pw", Role: "viewer"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), actorID, tc.input, "")

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, 400, appErr.HTTPStatus)
		})
	}

	assert.Empty(t, repo.users)
	assert.Empty(t, repo.entries)
}

/*
TestCreate_DuplicateEmail surfaces the unique violation as a Conflict.
*/
func TestCreate_DuplicateEmail(t *testing.T) {
	service, _ := newService()
	input := user.CreateInput{
		Email:    "dup@example.com",
		Password: "long enough pw",
		FullName: "First",
		Role:     "viewer",
	}

	_, err := service.Create(context.Background(), actorID, input, "")
	require.NoError(t, err)

	_, err = service.Create(context.Background(), actorID, input, "")
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 409, appErr.HTTPStatus)
}

/*
TestUpdate_Partial verifies nil fields stay untouched and the audit detail
lists exactly what changed. Email never changes.
*/
func TestUpdate_Partial(t *testing.T) {
	service, repo := newService()
	created, err := service.Create(context.Background(), actorID, user.CreateInput{
		Email:    "edit@example.com",
		Password: "long enough pw",
		FullName: "Before",
		Role:     "viewer",
	}, "")
	require.NoError(t, err)

	role := "manager"
	inactive := false
	updated, err := service.Update(context.Background(), actorID, created.ID, user.UpdateInput{
		Role:     &role,
		IsActive: &inactive,
	}, "10.0.0.2")
	require.NoError(t, err)

	assert.Equal(t, "Before", updated.FullName)
	assert.Equal(t, sec.RoleManager, updated.Role)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "edit@example.com", updated.Email)

	entry := repo.entries[len(repo.entries)-1]
	assert.Equal(t, audit.ActionUserUpdate, entry.Action)
	assert.Contains(t, entry.Detail, "role")
	assert.Contains(t, entry.Detail, "is_active")
	assert.NotContains(t, entry.Detail, "full_name")
}

/*
TestUpdate_InvalidRole rejects roles outside the closed enum.
*/
func TestUpdate_InvalidRole(t *testing.T) {
	service, _ := newService()
	created, err := service.Create(context.Background(), actorID, user.CreateInput{
		Email:    "role@example.com",
		Password: "long enough pw",
		FullName: "X",
		Role:     "viewer",
	}, "")
	require.NoError(t, err)

	bad := "root"
	_, err = service.Update(context.Background(), actorID, created.ID, user.UpdateInput{Role: &bad}, "")

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

/*
TestDelete_Success removes the account and records a user.delete entry that
keeps the target's email in the detail blob.
*/
func TestDelete_Success(t *testing.T) {
	service, repo := newService()
	created, err := service.Create(context.Background(), actorID, user.CreateInput{
		Email:    "gone@example.com",
		Password: "long enough pw",
		FullName: "X",
		Role:     "viewer",
	}, "")
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), actorID, created.ID, "10.0.0.3"))

	_, err = service.Get(context.Background(), created.ID)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)

	entry := repo.entries[len(repo.entries)-1]
	assert.Equal(t, audit.ActionUserDelete, entry.Action)
	assert.Equal(t, "gone@example.com", entry.Detail["email"])
}

/*
TestDelete_Unknown returns NotFound without writing an audit entry.
*/
func TestDelete_Unknown(t *testing.T) {
	service, repo := newService()

	err := service.Delete(context.Background(), actorID, "missing-id", "")

	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	assert.Empty(t, repo.entries)
}
