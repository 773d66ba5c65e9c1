package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/auth"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/engine"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/iocli"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/network"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/queue"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/remote"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage/boltdb"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/store"
	clientsync "github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/sync"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/retry"
)

type testCli struct {
	cli    *Cli
	engine *engine.Engine
	remote *remote.RemoteMock
	auth   *auth.ServiceMock
	out    *bytes.Buffer
	// inputs are returned by ReadInput and ReadPassword in order.
	inputs []string
}

// newTestCli собирает настоящий движок поверх временной BoltDB и моков сети.
func newTestCli(t *testing.T, reachable bool) *testCli {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)

	addresses := store.New(db, store.AddressSchema(), logger)
	orders := store.New(db, store.OrderSchema(), logger)
	q := queue.New(db, queue.Options{}, logger)
	rm := &remote.RemoteMock{}
	monitor := network.NewMonitor(&network.ProberMock{
		HealthFunc: func(ctx context.Context) error {
			if reachable {
				return nil
			}
			return errors.New("connection refused")
		},
	}, 0, logger)

	tables := []clientsync.LocalTable{addresses, orders}
	var pullers []*clientsync.Puller
	for _, tbl := range tables {
		pullers = append(pullers, clientsync.NewPuller(rm, tbl, q, db, clientsync.PullOptions{}, logger))
	}
	pusher := clientsync.NewPusher(rm, q, tables, db, monitor, retry.Policy{Attempts: 1}, logger)
	orch := clientsync.NewOrchestrator(pullers, pusher, nil, q, db, monitor, clientsync.Config{}, logger)

	am := &auth.ServiceMock{}
	e := engine.New(engine.Deps{
		Addresses: addresses,
		Orders:    orders,
		Queue:     q,
		Sync:      orch,
		Monitor:   monitor,
		Auth:      am,
		Closer:    db,
		Logger:    logger,
	})
	t.Cleanup(func() { _ = e.Close() })

	tc := &testCli{engine: e, remote: rm, auth: am, out: &bytes.Buffer{}}
	read := func(prompt string) (string, error) {
		if len(tc.inputs) == 0 {
			return "", io.EOF
		}
		next := tc.inputs[0]
		tc.inputs = tc.inputs[1:]
		return next, nil
	}
	mockIO := &iocli.IOMock{
		PrintlnFunc:      func(a ...any) { fmt.Fprintln(tc.out, a...) },
		PrintfFunc:       func(format string, a ...any) { fmt.Fprintf(tc.out, format, a...) },
		WriteFunc:        tc.out.Write,
		ReadInputFunc:    read,
		ReadPasswordFunc: read,
	}
	tc.cli = New(e, mockIO, Options{})
	return tc
}

// run executes a command line and returns what it printed.
func (tc *testCli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	tc.out.Reset()
	err := tc.cli.Run(context.Background(), args)
	return tc.out.String(), err
}

func (tc *testCli) onlyAddress(t *testing.T) *models.Address {
	t.Helper()
	res := tc.engine.GetAllAddresses(context.Background(), true)
	require.True(t, res.Success, res.Error)
	require.Len(t, res.Data, 1)
	return res.Data[0]
}

func (tc *testCli) onlyOrder(t *testing.T) *models.Order {
	t.Helper()
	res := tc.engine.GetAllOrders(context.Background(), true)
	require.True(t, res.Success, res.Error)
	require.Len(t, res.Data, 1)
	return res.Data[0]
}

func TestCli_Run_Usage(t *testing.T) {
	tc := newTestCli(t, false)

	out, err := tc.run(t)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, out, "Usage:")

	out, err = tc.run(t, "teleport")
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, out, "Unknown command: teleport")

	out, err = tc.run(t, "help")
	assert.NoError(t, err)
	assert.Contains(t, out, "Commands:")
}

func TestCli_Address_AddGetList(t *testing.T) {
	tc := newTestCli(t, false)

	out, err := tc.run(t, "address", "add", "-department", "Littoral", "-commune", "Cotonou",
		"-district", "Akpakpa", "-location", "6.3654,2.4183")
	require.NoError(t, err)
	assert.Contains(t, out, "Commune:    Cotonou")
	assert.Contains(t, out, "Location:   6.3654, 2.4183")
	assert.Contains(t, out, "(not synced yet)")

	a := tc.onlyAddress(t)

	out, err = tc.run(t, "address", "get", a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "District:   Akpakpa")

	out, err = tc.run(t, "address", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Cotonou, Littoral (Akpakpa)")
	assert.Contains(t, out, "ID: "+a.ID)
}

func TestCli_Address_AddInvalid(t *testing.T) {
	tc := newTestCli(t, false)

	_, err := tc.run(t, "address", "add", "-department", "Littoral")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	res := tc.engine.QueueEntries(context.Background(), "")
	require.True(t, res.Success)
	assert.Empty(t, res.Data)
}

func TestCli_Address_UpdateOnlyGivenFlags(t *testing.T) {
	tc := newTestCli(t, false)
	_, err := tc.run(t, "address", "add", "-department", "Littoral", "-commune", "Cotonou", "-ward", "5e")
	require.NoError(t, err)
	a := tc.onlyAddress(t)

	// id перед флагами
	_, err = tc.run(t, "address", "update", a.ID, "-label", "Près du marché")
	require.NoError(t, err)
	// id после флагов
	_, err = tc.run(t, "address", "update", "-ward", "", a.ID)
	require.NoError(t, err)

	got := tc.onlyAddress(t)
	assert.Equal(t, "Près du marché", got.Label)
	assert.Equal(t, "", got.Ward)
	assert.Equal(t, "Cotonou", got.Commune)

	_, err = tc.run(t, "address", "update", a.ID)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = tc.run(t, "address", "update", "-label", "x")
	assert.ErrorContains(t, err, "missing record id")
}

func TestCli_Address_Near(t *testing.T) {
	tc := newTestCli(t, false)
	for _, loc := range []string{"0,0", "0,0.01", "10,10"} {
		_, err := tc.run(t, "address", "add", "-department", "Littoral", "-commune", "C"+loc, "-location", loc)
		require.NoError(t, err)
	}

	out, err := tc.run(t, "address", "near", "-location", "0,0", "-radius", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "0.00 km  C0,0, Littoral")
	assert.Contains(t, out, "1.11 km  C0,0.01, Littoral")
	assert.NotContains(t, out, "C10,10")

	_, err = tc.run(t, "address", "near")
	assert.ErrorContains(t, err, "missing -location")

	_, err = tc.run(t, "address", "near", "-location", "north")
	assert.Error(t, err)
}

func TestCli_Address_Lifecycle(t *testing.T) {
	tc := newTestCli(t, false)
	_, err := tc.run(t, "address", "add", "-department", "Littoral", "-commune", "Cotonou")
	require.NoError(t, err)
	a := tc.onlyAddress(t)

	out, err := tc.run(t, "address", "deactivate", a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Active:     no")

	out, err = tc.run(t, "address", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No addresses found.")

	out, err = tc.run(t, "address", "list", "-all")
	require.NoError(t, err)
	assert.Contains(t, out, "[inactive]")

	out, err = tc.run(t, "address", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Inactive: 1")

	_, err = tc.run(t, "address", "activate", a.ID)
	require.NoError(t, err)

	out, err = tc.run(t, "address", "delete", a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Deleted "+a.ID)

	_, err = tc.run(t, "address", "get", a.ID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestCli_Address_Search(t *testing.T) {
	tc := newTestCli(t, false)
	_, err := tc.run(t, "address", "add", "-department", "Littoral", "-commune", "Cotonou")
	require.NoError(t, err)
	_, err = tc.run(t, "address", "add", "-department", "Ouémé", "-commune", "Porto-Novo")
	require.NoError(t, err)

	out, err := tc.run(t, "address", "search", "-field", "department", "-value", "Ouémé")
	require.NoError(t, err)
	assert.Contains(t, out, "Porto-Novo")
	assert.NotContains(t, out, "Cotonou")

	_, err = tc.run(t, "address", "search", "-field", "label", "-value", "x")
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestCli_Subcommands_Unknown(t *testing.T) {
	tc := newTestCli(t, false)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "address без подкоманды", args: []string{"address"}, want: "missing subcommand"},
		{name: "неизвестная address", args: []string{"address", "paint"}, want: "unknown address command"},
		{name: "неизвестная order", args: []string{"order", "paint"}, want: "unknown order command"},
		{name: "sync", args: []string{"sync", "sideways"}, want: "unknown sync mode"},
		{name: "queue", args: []string{"queue", "list", "extra"}, want: "unexpected argument"},
		{name: "get без id", args: []string{"order", "get"}, want: "missing record id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tc.run(t, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestCli_JSONOutput(t *testing.T) {
	tc := newTestCli(t, false)
	tc.cli.json = true

	out, err := tc.run(t, "address", "add", "-department", "Littoral", "-commune", "Cotonou")
	require.NoError(t, err)

	var res engine.Result[models.Address]
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "Cotonou", res.Data.Commune)

	out, err = tc.run(t, "address", "get", "missing")
	require.Error(t, err)

	var failed map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &failed))
	assert.Equal(t, false, failed["success"])
	assert.Equal(t, string(apperrors.CodeNotFound), failed["code"])
	assert.NotEmpty(t, failed["error"])
}

func TestCli_Status_NotLoggedIn(t *testing.T) {
	tc := newTestCli(t, false)
	tc.auth.SessionFunc = func(ctx context.Context) (*storage.AuthData, error) {
		return nil, storage.ErrAuthNotFound
	}

	out, err := tc.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Online:     no")
	assert.Contains(t, out, "Last push:  never")
	assert.Contains(t, out, "Session: not logged in")
}

func TestCli_Status_LoggedIn(t *testing.T) {
	tc := newTestCli(t, true)
	tc.auth.SessionFunc = func(ctx context.Context) (*storage.AuthData, error) {
		return &storage.AuthData{Username: "awa", UserID: "u-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
	}
	_, err := tc.run(t, "address", "add", "-department", "Littoral", "-commune", "Cotonou")
	require.NoError(t, err)

	out, err := tc.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Online:     yes")
	assert.Contains(t, out, "Pending:    1")
	assert.Contains(t, out, "Username: awa")
}

func TestCli_Login(t *testing.T) {
	tc := newTestCli(t, false)
	tc.auth.LoginFunc = func(ctx context.Context, username, password string) (*storage.AuthData, error) {
		if password != "s3cret-pass" {
			return nil, apperrors.New(apperrors.CodeAuth, "invalid credentials")
		}
		return &storage.AuthData{Username: username, UserID: "u-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
	}

	tc.inputs = []string{"awa", "s3cret-pass"}
	out, err := tc.run(t, "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Username: awa")
	require.Len(t, tc.auth.LoginCalls(), 1)
	assert.Equal(t, "awa", tc.auth.LoginCalls()[0].Username)

	tc.inputs = []string{"wrong"}
	_, err = tc.run(t, "login", "-username", "awa")
	assert.Equal(t, apperrors.CodeAuth, apperrors.CodeOf(err))

	tc.inputs = nil
	_, err = tc.run(t, "login")
	assert.ErrorContains(t, err, "failed to read username")
}

func TestCli_Register(t *testing.T) {
	tc := newTestCli(t, false)
	tc.auth.RegisterFunc = func(ctx context.Context, username, password, role string) (string, error) {
		return "u-42", nil
	}

	tc.inputs = []string{"s3cret-pass", "s3cret-pass"}
	out, err := tc.run(t, "register", "-username", "awa", "-role", models.RoleManager)
	require.NoError(t, err)
	assert.Contains(t, out, "user id u-42")
	require.Len(t, tc.auth.RegisterCalls(), 1)
	assert.Equal(t, models.RoleManager, tc.auth.RegisterCalls()[0].Role)

	tc.inputs = []string{"s3cret-pass", "other-pass"}
	_, err = tc.run(t, "register", "-username", "awa")
	assert.ErrorContains(t, err, "passwords do not match")
	assert.Len(t, tc.auth.RegisterCalls(), 1)
}

func TestCli_Logout(t *testing.T) {
	tc := newTestCli(t, false)
	tc.auth.LogoutFunc = func(ctx context.Context) error { return nil }

	out, err := tc.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
	assert.Len(t, tc.auth.LogoutCalls(), 1)
}
