package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/crypto"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/server/storage"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/pkg/api"
)

var testJWTConfig = JWTConfig{
	Secret:         []byte("test-secret-test-secret"),
	AccessTokenTTL: 15 * time.Minute,
}

// memoryUsers хранит пользователей в map поверх сгенерированного мока
func memoryUsers() *storage.UserStorageMock {
	users := make(map[string]*models.User)
	return &storage.UserStorageMock{
		CreateUserFunc: func(ctx context.Context, user *models.User) error {
			if _, exists := users[user.Username]; exists {
				return storage.ErrUserAlreadyExists
			}
			users[user.Username] = user
			return nil
		},
		GetUserByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			user, ok := users[username]
			if !ok {
				return nil, storage.ErrUserNotFound
			}
			return user, nil
		},
	}
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		body     any
		name     string
		wantCode apperrors.Code
		wantRole string
		status   int
	}{
		{
			name:     "cashier by default",
			body:     api.RegisterRequest{Username: " Awa ", Password: "motdepasse"},
			status:   http.StatusCreated,
			wantRole: models.RoleCashier,
		},
		{
			name:     "manager",
			body:     api.RegisterRequest{Username: "koffi", Password: "motdepasse", Role: models.RoleManager},
			status:   http.StatusCreated,
			wantRole: models.RoleManager,
		},
		{
			name:     "unknown role",
			body:     api.RegisterRequest{Username: "koffi", Password: "motdepasse", Role: "owner"},
			status:   http.StatusBadRequest,
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "short password",
			body:     api.RegisterRequest{Username: "koffi", Password: "court"},
			status:   http.StatusBadRequest,
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "invalid username",
			body:     api.RegisterRequest{Username: "a", Password: "motdepasse"},
			status:   http.StatusBadRequest,
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "invalid JSON",
			body:     "{not json",
			status:   http.StatusBadRequest,
			wantCode: apperrors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := memoryUsers()
			handler := NewAuthHandler(setupTestLogger(), users, testJWTConfig)

			w := doJSON(t, http.HandlerFunc(handler.Register), http.MethodPost, api.PathRegister, tt.body)
			require.Equal(t, tt.status, w.Code)

			if tt.wantCode != "" {
				resp := decodeJSON[api.ErrorResponse](t, w)
				assert.Equal(t, string(tt.wantCode), resp.Code)
				assert.NotEmpty(t, resp.Message)
				assert.Empty(t, users.CreateUserCalls())
				return
			}

			resp := decodeJSON[api.RegisterResponse](t, w)
			assert.NotEmpty(t, resp.UserID)

			calls := users.CreateUserCalls()
			require.Len(t, calls, 1)
			user := calls[0].User
			assert.Equal(t, resp.UserID, user.ID)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.NotContains(t, user.PasswordHash, "motdepasse")
			assert.NoError(t, crypto.VerifyPassword("motdepasse", user.PasswordHash))
		})
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	users := memoryUsers()
	handler := NewAuthHandler(setupTestLogger(), users, testJWTConfig)
	body := api.RegisterRequest{Username: "awa", Password: "motdepasse"}

	w := doJSON(t, http.HandlerFunc(handler.Register), http.MethodPost, api.PathRegister, body)
	require.Equal(t, http.StatusCreated, w.Code)

	// Регистр username не важен
	body.Username = "AWA"
	w = doJSON(t, http.HandlerFunc(handler.Register), http.MethodPost, api.PathRegister, body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(apperrors.CodeConflict), decodeJSON[api.ErrorResponse](t, w).Code)
}

func TestAuthHandler_Register_StorageError(t *testing.T) {
	users := &storage.UserStorageMock{
		CreateUserFunc: func(ctx context.Context, user *models.User) error {
			return errors.New("disk full")
		},
	}
	handler := NewAuthHandler(setupTestLogger(), users, testJWTConfig)

	w := doJSON(t, http.HandlerFunc(handler.Register), http.MethodPost, api.PathRegister,
		api.RegisterRequest{Username: "awa", Password: "motdepasse"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk full")
}

func TestAuthHandler_Login(t *testing.T) {
	users := memoryUsers()
	handler := NewAuthHandler(setupTestLogger(), users, testJWTConfig)

	w := doJSON(t, http.HandlerFunc(handler.Register), http.MethodPost, api.PathRegister,
		api.RegisterRequest{Username: "awa", Password: "motdepasse", Role: models.RoleManager})
	require.Equal(t, http.StatusCreated, w.Code)
	userID := decodeJSON[api.RegisterResponse](t, w).UserID

	tests := []struct {
		name   string
		req    api.LoginRequest
		status int
	}{
		{name: "valid credentials", req: api.LoginRequest{Username: "Awa", Password: "motdepasse"}, status: http.StatusOK},
		{name: "wrong password", req: api.LoginRequest{Username: "awa", Password: "mauvais-mot"}, status: http.StatusUnauthorized},
		{name: "unknown user", req: api.LoginRequest{Username: "inconnu", Password: "motdepasse"}, status: http.StatusUnauthorized},
		{name: "empty password", req: api.LoginRequest{Username: "awa"}, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, http.HandlerFunc(handler.Login), http.MethodPost, api.PathLogin, tt.req)
			require.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				return
			}

			resp := decodeJSON[api.TokenResponse](t, w)
			assert.Equal(t, userID, resp.UserID)
			assert.Equal(t, int64(15*60), resp.ExpiresIn)

			claims, err := ValidateAccessToken(testJWTConfig, resp.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
			assert.Equal(t, "awa", claims.Username)
			assert.Equal(t, models.RoleManager, claims.Role)
		})
	}
}

func TestValidateAccessToken(t *testing.T) {
	token, _, err := GenerateAccessToken(testJWTConfig, "u-1", "awa", models.RoleCashier)
	require.NoError(t, err)

	_, err = ValidateAccessToken(JWTConfig{Secret: []byte("another-secret-value")}, token)
	assert.Error(t, err)

	expired := JWTConfig{Secret: testJWTConfig.Secret, AccessTokenTTL: -time.Minute}
	token, _, err = GenerateAccessToken(expired, "u-1", "awa", models.RoleCashier)
	require.NoError(t, err)
	_, err = ValidateAccessToken(testJWTConfig, token)
	assert.Error(t, err)

	ctx := WithClaims(context.Background(), &CustomClaims{UserID: "u-1", Username: "awa", Role: models.RoleCashier})
	id, ok := GetUserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u-1", id)
	role, _ := GetRole(ctx)
	assert.Equal(t, models.RoleCashier, role)
}
