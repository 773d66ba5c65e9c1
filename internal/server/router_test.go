package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	clientapi "github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/api"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/remote"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/config"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/server/handlers"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/server/storage/sqlite"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/pkg/api"
)

type testServer struct {
	*httptest.Server
	mu    sync.Mutex
	token string
}

func (s *testServer) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *testServer) tokenSource(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *testServer) client() *clientapi.Client {
	return clientapi.NewClient(s.URL, clientapi.WithTokenSource(s.tokenSource))
}

func startServer(t *testing.T, limits config.RateLimitConfig) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	hubCtx, stopHub := context.WithCancel(ctx)
	hub := handlers.NewHub(logger)
	go hub.Run(hubCtx)
	t.Cleanup(stopHub)

	router := NewRouter(Deps{
		Logger:    logger,
		Users:     db,
		Records:   db,
		DB:        db,
		Hub:       hub,
		Registry:  prometheus.NewRegistry(),
		JWT:       handlers.JWTConfig{Secret: []byte("test-secret"), AccessTokenTTL: time.Hour},
		RateLimit: limits,
	})
	t.Cleanup(router.Stop)

	ts := &testServer{Server: httptest.NewServer(router)}
	t.Cleanup(ts.Close)
	return ts
}

func defaultLimits() config.RateLimitConfig {
	return config.RateLimitConfig{Requests: 1000, AuthRequests: 100, Window: time.Minute}
}

func login(t *testing.T, ts *testServer) {
	t.Helper()
	ctx := context.Background()
	c := ts.client()

	_, err := c.Register(ctx, api.RegisterRequest{Username: "awa", Password: "sandwich-2024"})
	require.NoError(t, err)
	tok, err := c.Login(ctx, api.LoginRequest{Username: "awa", Password: "sandwich-2024"})
	require.NoError(t, err)
	require.NotEmpty(t, tok.AccessToken)
	ts.setToken(tok.AccessToken)
}

func addressJSON(t *testing.T, id string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id":         id,
		"department": "Littoral",
		"commune":    "Cotonou",
	})
	require.NoError(t, err)
	return raw
}

func TestRouter_Health(t *testing.T) {
	ts := startServer(t, defaultLimits())
	require.NoError(t, ts.client().Health(context.Background()))
}

func TestRouter_RecordsRequireToken(t *testing.T) {
	ts := startServer(t, defaultLimits())

	_, err := ts.client().SelectAll(context.Background(), models.TableAddresses, remote.Filter{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAuth, apperrors.CodeOf(err))
}

func TestRouter_RecordLifecycle(t *testing.T) {
	ts := startServer(t, defaultLimits())
	login(t, ts)
	ctx := context.Background()
	c := ts.client()

	stored, err := c.Insert(ctx, models.TableAddresses, addressJSON(t, "a-1"))
	require.NoError(t, err)
	var created models.Address
	require.NoError(t, json.Unmarshal(stored, &created))
	assert.Equal(t, int64(1), created.Version)
	assert.True(t, created.IsActive)

	_, err = c.Insert(ctx, models.TableAddresses, addressJSON(t, "a-1"))
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))

	updated, err := c.Update(ctx, models.TableAddresses, "a-1", json.RawMessage(`{"ward":"Akpakpa"}`), 1)
	require.NoError(t, err)
	var got models.Address
	require.NoError(t, json.Unmarshal(updated, &got))
	assert.Equal(t, "Akpakpa", got.Ward)
	assert.Equal(t, "Cotonou", got.Commune)
	assert.Equal(t, int64(2), got.Version)

	_, err = c.Update(ctx, models.TableAddresses, "a-1", json.RawMessage(`{"ward":"Cadjehoun"}`), 1)
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))

	_, err = c.Update(ctx, models.TableAddresses, "a-1", json.RawMessage(`{"is_active":false}`), 0)
	require.NoError(t, err)

	all, err := c.SelectAll(ctx, models.TableAddresses, remote.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	active, err := c.SelectAll(ctx, models.TableAddresses, remote.Filter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, c.Delete(ctx, models.TableAddresses, "a-1"))
	err = c.Delete(ctx, models.TableAddresses, "a-1")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	_, err = c.SelectAll(ctx, "menus", remote.Filter{})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestRouter_SelectAllPages(t *testing.T) {
	ts := startServer(t, defaultLimits())
	login(t, ts)
	ctx := context.Background()
	c := clientapi.NewClient(ts.URL, clientapi.WithTokenSource(ts.tokenSource), clientapi.WithPageSize(2))

	for _, id := range []string{"a-1", "a-2", "a-3", "a-4", "a-5"} {
		_, err := c.Insert(ctx, models.TableAddresses, addressJSON(t, id))
		require.NoError(t, err)
	}

	all, err := c.SelectAll(ctx, models.TableAddresses, remote.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestRouter_RealtimeFeed(t *testing.T) {
	ts := startServer(t, defaultLimits())
	login(t, ts)
	ctx := context.Background()
	c := ts.client()

	inserted := make(chan json.RawMessage, 1)
	deleted := make(chan string, 1)
	sub, err := c.Subscribe(ctx, models.TableAddresses, remote.Handlers{
		OnInsert: func(record json.RawMessage) { inserted <- record },
		OnDelete: func(id string) { deleted <- id },
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, c.Unsubscribe(sub)) }()

	// Регистрация в хабе асинхронна
	time.Sleep(50 * time.Millisecond)

	_, err = c.Insert(ctx, models.TableAddresses, addressJSON(t, "a-9"))
	require.NoError(t, err)

	select {
	case rec := <-inserted:
		var a models.Address
		require.NoError(t, json.Unmarshal(rec, &a))
		assert.Equal(t, "a-9", a.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("insert event not delivered")
	}

	require.NoError(t, c.Delete(ctx, models.TableAddresses, "a-9"))
	select {
	case id := <-deleted:
		assert.Equal(t, "a-9", id)
	case <-time.After(5 * time.Second):
		t.Fatal("delete event not delivered")
	}
}

func TestRouter_RealtimeUnknownTable(t *testing.T) {
	ts := startServer(t, defaultLimits())
	login(t, ts)

	_, err := ts.client().Subscribe(context.Background(), "menus", remote.Handlers{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestRouter_AuthRateLimit(t *testing.T) {
	ts := startServer(t, config.RateLimitConfig{Requests: 100, AuthRequests: 2, Window: time.Minute})
	ctx := context.Background()
	c := ts.client()

	for range 2 {
		_, err := c.Login(ctx, api.LoginRequest{Username: "ghost", Password: "whatever-1"})
		assert.Equal(t, apperrors.CodeAuth, apperrors.CodeOf(err))
	}
	_, err := c.Login(ctx, api.LoginRequest{Username: "ghost", Password: "whatever-1"})
	assert.Equal(t, apperrors.CodeBusy, apperrors.CodeOf(err))

	// Общий лимит не затронут
	require.NoError(t, c.Health(ctx))
}

func TestRouter_Metrics(t *testing.T) {
	ts := startServer(t, defaultLimits())
	require.NoError(t, ts.client().Health(context.Background()))

	resp, err := http.Get(ts.URL + api.PathMetrics)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "possync_http_requests_total")
	assert.Contains(t, string(body), "possync_realtime_subscribers")
}
