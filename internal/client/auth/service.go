package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/validation"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/pkg/api"
)

// ErrSessionExpired is returned when the stored token is past its expiry.
var ErrSessionExpired = apperrors.New(apperrors.CodeAuth, "session expired, please log in again")

var _ Service = (*service)(nil)

// service предоставляет функции авторизации
type service struct {
	backend Backend
	store   storage.AuthStorage
	logger  *slog.Logger
	now     func() time.Time
}

// NewService создает новый сервис авторизации
func NewService(backend Backend, store storage.AuthStorage, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		backend: backend,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// Register регистрирует нового оператора
func (s *service) Register(ctx context.Context, username, password, role string) (string, error) {
	username, err := checkCredentials(username, password)
	if err != nil {
		return "", err
	}

	resp, err := s.backend.Register(ctx, api.RegisterRequest{Username: username, Password: password, Role: role})
	if err != nil {
		return "", fmt.Errorf("registration failed: %w", err)
	}
	return resp.UserID, nil
}

// Login выполняет аутентификацию пользователя и сохраняет токен
func (s *service) Login(ctx context.Context, username, password string) (*storage.AuthData, error) {
	username, err := checkCredentials(username, password)
	if err != nil {
		return nil, err
	}

	resp, err := s.backend.Login(ctx, api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	session := &storage.AuthData{
		Username:    username,
		UserID:      resp.UserID,
		AccessToken: resp.AccessToken,
	}
	if resp.ExpiresIn > 0 {
		session.ExpiresAt = s.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	if err := s.store.SaveAuth(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("Logged in", "username", username, "expires_at", session.ExpiresAt)
	return session, nil
}

// Logout удаляет локальные данные авторизации. Очередь операций не
// трогаем: она отправится после следующего входа.
func (s *service) Logout(ctx context.Context) error {
	if err := s.store.DeleteAuth(ctx); err != nil {
		return fmt.Errorf("failed to delete local auth data: %w", err)
	}
	return nil
}

func (s *service) Session(ctx context.Context) (*storage.AuthData, error) {
	return s.store.GetAuth(ctx)
}

// Token returns the stored access token. No session yields an empty token;
// an expired one yields ErrSessionExpired.
func (s *service) Token(ctx context.Context) (string, error) {
	session, err := s.store.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	if session.Expired(s.now()) {
		return "", ErrSessionExpired
	}
	return session.AccessToken, nil
}

func (s *service) IsAuthenticated(ctx context.Context) (bool, error) {
	return s.store.IsAuthenticated(ctx)
}

func checkCredentials(username, password string) (string, error) {
	username = validation.NormalizeUsername(username)
	if err := validation.ValidateUsername(username); err != nil {
		return "", apperrors.Wrap(apperrors.CodeValidation, err, "invalid username")
	}
	if err := validation.ValidatePassword(password); err != nil {
		return "", apperrors.Wrap(apperrors.CodeValidation, err, "invalid password")
	}
	return username, nil
}
