package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/Samrita-Swain/tawania-backend/internal/modules/user"
	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	byEmail map[string]*user.User
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *user.User) error { return nil }

func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*user.User, error) {
	return nil, apperr.NotFound("user", id)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("user", email)
	}
	return u, nil
}

func (m *mockUserRepo) ListUsers(ctx context.Context) ([]*user.User, error) { return nil, nil }

func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role user.Role) error {
	return nil
}

func seedUser(t *testing.T, password string, active bool) (*mockUserRepo, *user.User) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &user.User{
		ID:           uuid.New(),
		Email:        "cashier@example.com",
		PasswordHash: string(hash),
		Role:         user.RoleCashier,
		IsActive:     active,
	}
	return &mockUserRepo{byEmail: map[string]*user.User{u.Email: u}}, u
}

const testSecret = "test-secret"

func TestLogin(t *testing.T) {
	t.Run("issues a token with the user id as subject", func(t *testing.T) {
		repo, u := seedUser(t, "hunter22x", true)
		svc := NewService(repo, testSecret)

		tokenString, err := svc.Login(context.Background(), u.Email, "hunter22x")
		require.NoError(t, err)

		claims := &jwt.StandardClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)
		assert.True(t, token.Valid)
		assert.Equal(t, u.ID.String(), claims.Subject)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		repo, u := seedUser(t, "hunter22x", true)
		svc := NewService(repo, testSecret)

		_, err := svc.Login(context.Background(), u.Email, "wrong")
		var authErr *apperr.AuthenticationError
		assert.ErrorAs(t, err, &authErr)
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		repo, _ := seedUser(t, "hunter22x", true)
		svc := NewService(repo, testSecret)

		_, err := svc.Login(context.Background(), "nobody@example.com", "hunter22x")
		var authErr *apperr.AuthenticationError
		assert.ErrorAs(t, err, &authErr)
	})

	t.Run("rejects a disabled account", func(t *testing.T) {
		repo, u := seedUser(t, "hunter22x", false)
		svc := NewService(repo, testSecret)

		_, err := svc.Login(context.Background(), u.Email, "hunter22x")
		var authErr *apperr.AuthenticationError
		assert.ErrorAs(t, err, &authErr)
	})
}

func TestMiddleware(t *testing.T) {
	captureUserID := func(got *string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*got = UserIDFromContext(r.Context())
		})
	}

	t.Run("a valid token resolves the user id", func(t *testing.T) {
		repo, u := seedUser(t, "hunter22x", true)
		svc := NewService(repo, testSecret)
		tokenString, err := svc.Login(context.Background(), u.Email, "hunter22x")
		require.NoError(t, err)

		var got string
		handler := Middleware(testSecret)(captureUserID(&got))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, u.ID.String(), got)
	})

	t.Run("a missing header passes through unauthenticated", func(t *testing.T) {
		got := "sentinel"
		handler := Middleware(testSecret)(captureUserID(&got))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Empty(t, got)
	})

	t.Run("a garbage token passes through unauthenticated", func(t *testing.T) {
		got := "sentinel"
		handler := Middleware(testSecret)(captureUserID(&got))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Empty(t, got)
	})

	t.Run("a token signed with another key is rejected", func(t *testing.T) {
		claims := &jwt.StandardClaims{Subject: uuid.NewString()}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		forged, err := token.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		got := "sentinel"
		handler := Middleware(testSecret)(captureUserID(&got))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+forged)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Empty(t, got)
	})
}
