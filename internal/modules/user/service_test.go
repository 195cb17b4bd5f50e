package user

import (
	"context"
	"testing"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockRepo struct {
	users map[uuid.UUID]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockRepo) CreateUser(ctx context.Context, u *User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) GetUserByID(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("user", id)
	}
	u, ok := m.users[uid]
	if !ok {
		return nil, apperr.NotFound("user", id)
	}
	return u, nil
}

func (m *mockRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user", email)
}

func (m *mockRepo) ListUsers(ctx context.Context) ([]*User, error) {
	var out []*User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockRepo) UpdateRole(ctx context.Context, id string, role Role) error {
	u, err := m.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	u.Role = role
	return nil
}

func TestRegisterUser(t *testing.T) {
	t.Run("hashes the password and defaults to cashier", func(t *testing.T) {
		repo := newMockRepo()
		svc := NewService(repo)

		u, err := svc.RegisterUser(context.Background(), RegisterRequest{
			Email:    "ops@example.com",
			Password: "long-enough",
		})
		require.NoError(t, err)
		assert.Equal(t, RoleCashier, u.Role)
		assert.True(t, u.IsActive)
		assert.NotEqual(t, "long-enough", u.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("long-enough")))
	})

	t.Run("normalizes the requested role", func(t *testing.T) {
		svc := NewService(newMockRepo())

		u, err := svc.RegisterUser(context.Background(), RegisterRequest{
			Email:    "a@example.com",
			Password: "long-enough",
			Role:     "auditor",
		})
		require.NoError(t, err)
		assert.Equal(t, RoleAuditor, u.Role)
	})

	t.Run("rejects short passwords and unknown roles", func(t *testing.T) {
		svc := NewService(newMockRepo())
		var valErr *apperr.ValidationError

		_, err := svc.RegisterUser(context.Background(), RegisterRequest{Email: "a@b.c", Password: "short"})
		assert.ErrorAs(t, err, &valErr)

		_, err = svc.RegisterUser(context.Background(), RegisterRequest{Email: "a@b.c", Password: "long-enough", Role: "OVERLORD"})
		assert.ErrorAs(t, err, &valErr)
	})
}

func TestChangeRole(t *testing.T) {
	repo := newMockRepo()
	u := &User{ID: uuid.New(), Email: "a@b.c", Role: RoleCashier, IsActive: true}
	repo.users[u.ID] = u
	svc := NewService(repo)

	got, err := svc.ChangeRole(context.Background(), u.ID.String(), "manager")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, got.Role)

	_, err = svc.ChangeRole(context.Background(), u.ID.String(), "nope")
	var valErr *apperr.ValidationError
	assert.ErrorAs(t, err, &valErr)
}
