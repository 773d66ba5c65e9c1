package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/remote"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/pkg/api"
)

const defaultTimeout = 30 * time.Second

var _ remote.Remote = (*Client)(nil)

// TokenSource returns the bearer token attached to every request. An empty
// token sends the request unauthenticated.
type TokenSource func(ctx context.Context) (string, error)

// Option configures a Client.
type Option func(*Client)

// WithTokenSource sets the bearer token provider.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) { c.token = src }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPageSize sets the page size used by SelectAll.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 && n <= api.MaxPageSize {
			c.pageSize = n
		}
	}
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	token      TokenSource
	baseURL    string
	pageSize   int
}

// NewClient создает новый API клиент
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  baseURL,
		pageSize: api.MaxPageSize,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return errors.New("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register регистрирует нового оператора
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	if err := c.doRequest(ctx, http.MethodPost, api.PathRegister, req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, api.PathLogin, req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) error {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, api.PathHealth, nil, &resp); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// doRequest выполняет HTTP запрос. Ошибки возвращаются с кодом apperrors:
// сетевые сбои как REMOTE_ERROR, ответы сервера по HTTP статусу.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeValidation, err, "failed to marshal request body")
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to create request")
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authorize(ctx, req.Header); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Remote(err, "request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Remote(err, "failed to read response body")
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, respBody)
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return apperrors.Remote(err, "failed to decode response")
		}
	}

	return nil
}

func (c *Client) authorize(ctx context.Context, header http.Header) error {
	if c.token == nil {
		return nil
	}
	token, err := c.token(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeAuth, err, "failed to load access token")
	}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// statusError converts a non-2xx response into a coded error. The code sent
// by the server wins over the one derived from the status.
func statusError(status int, body []byte) error {
	code := apperrors.CodeForStatus(status)

	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || (errResp.Message == "" && errResp.Error == "") {
		return apperrors.Newf(code, "request failed with status %d: %s", status, bytes.TrimSpace(body))
	}

	if errResp.Code != "" {
		code = apperrors.Code(errResp.Code)
	}
	message := errResp.Message
	if message == "" {
		message = errResp.Error
	}
	return apperrors.Newf(code, "server error (%d): %s", status, message)
}
