package auth

import (
	"context"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/pkg/api"
)

//go:generate moq -out service_mock.go . Service
//go:generate moq -out backend_mock.go . Backend

// Service manages the operator session of this device.
type Service interface {
	// Register создает учетную запись оператора на сервере
	Register(ctx context.Context, username, password, role string) (string, error)

	// Login выполняет аутентификацию и сохраняет сессию локально
	Login(ctx context.Context, username, password string) (*storage.AuthData, error)

	// Logout удаляет локальную сессию
	Logout(ctx context.Context) error

	// Session возвращает текущую сессию или storage.ErrAuthNotFound
	Session(ctx context.Context) (*storage.AuthData, error)

	// Token returns the bearer token for backend calls, empty if nobody is
	// logged in.
	Token(ctx context.Context) (string, error)

	// IsAuthenticated checks if a valid session exists
	IsAuthenticated(ctx context.Context) (bool, error)
}

// Backend is the part of the API client used for authentication.
// Implemented by [api.Client].
type Backend interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
}
