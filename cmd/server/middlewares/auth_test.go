package middlewares

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"natours/cmd/server/handlers/httperr"
	"natours/internal/config"
	"natours/internal/logger"
	"natours/internal/services/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const testSecret = "test-secret-at-least-32-characters"

type mockUsersRepo struct {
	mock.Mock
}

func (m *mockUsersRepo) Create(ctx context.Context, user *auth.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUsersRepo) FindByEmail(ctx context.Context, email string, includePassword bool) (*auth.User, error) {
	args := m.Called(ctx, email, includePassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *mockUsersRepo) FindByID(ctx context.Context, id bson.ObjectID) (*auth.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *mockUsersRepo) UpdatePassword(ctx context.Context, id bson.ObjectID, hash string, changedAt time.Time) error {
	return m.Called(ctx, id, hash, changedAt).Error(0)
}

func (m *mockUsersRepo) SetResetToken(ctx context.Context, id bson.ObjectID, hashedToken string, expiresAt time.Time) error {
	return m.Called(ctx, id, hashedToken, expiresAt).Error(0)
}

func (m *mockUsersRepo) ClearResetToken(ctx context.Context, id bson.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUsersRepo) FindByResetToken(ctx context.Context, hashedToken string) (*auth.User, error) {
	args := m.Called(ctx, hashedToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func signTestToken(t *testing.T, id bson.ObjectID, issuedAt time.Time, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  id.Hex(),
		"iat": issuedAt.Unix(),
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func protectedApp(repo auth.UsersRepo, extra ...fiber.Handler) *fiber.App {
	_, _ = logger.Init(config.Config{})

	app := fiber.New(fiber.Config{ErrorHandler: httperr.Handler("production")})
	cfg := config.Config{JWTSecret: testSecret}

	handlers := append([]fiber.Handler{Protect(cfg, repo)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success"})
	})
	app.Get("/secure", handlers...)
	return app
}

func TestProtect(t *testing.T) {
	id := bson.NewObjectID()
	user := &auth.User{ID: id, Email: "jonas@example.com", Role: auth.RoleUser}

	t.Run("valid token passes", func(t *testing.T) {
		repo := &mockUsersRepo{}
		repo.On("FindByID", mock.Anything, id).Return(user, nil)

		token := signTestToken(t, id, time.Now(), time.Now().Add(time.Hour))
		req := httptest.NewRequest("GET", "/secure", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := protectedApp(repo).Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing token is 401", func(t *testing.T) {
		resp, err := protectedApp(&mockUsersRepo{}).Test(httptest.NewRequest("GET", "/secure", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token is 401", func(t *testing.T) {
		token := signTestToken(t, id, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))
		req := httptest.NewRequest("GET", "/secure", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := protectedApp(&mockUsersRepo{}).Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("deleted user is 401", func(t *testing.T) {
		repo := &mockUsersRepo{}
		repo.On("FindByID", mock.Anything, id).Return(nil, auth.ErrUserNotFound)

		token := signTestToken(t, id, time.Now(), time.Now().Add(time.Hour))
		req := httptest.NewRequest("GET", "/secure", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := protectedApp(repo).Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token issued before a password change is 401", func(t *testing.T) {
		changed := &auth.User{ID: id, PasswordChangedAt: time.Now().UTC()}
		repo := &mockUsersRepo{}
		repo.On("FindByID", mock.Anything, id).Return(changed, nil)

		token := signTestToken(t, id, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
		req := httptest.NewRequest("GET", "/secure", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := protectedApp(repo).Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRestrictTo(t *testing.T) {
	id := bson.NewObjectID()

	makeRequest := func(t *testing.T, role string) int {
		t.Helper()
		repo := &mockUsersRepo{}
		repo.On("FindByID", mock.Anything, id).Return(&auth.User{ID: id, Role: role}, nil)

		token := signTestToken(t, id, time.Now(), time.Now().Add(time.Hour))
		req := httptest.NewRequest("GET", "/secure", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := protectedApp(repo, RestrictTo(auth.RoleAdmin)).Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, makeRequest(t, auth.RoleAdmin))
	assert.Equal(t, fiber.StatusUnauthorized, makeRequest(t, auth.RoleUser))
}
