package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/remote"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/pkg/api"
)

const closeTimeout = time.Second

// subscription is a websocket change feed of one table.
type subscription struct {
	conn      *websocket.Conn
	done      chan struct{}
	err       error
	table     string
	closeOnce sync.Once
	mu        sync.Mutex
	closing   bool
}

func (s *subscription) Table() string { return s.table }
func (s *subscription) Done() <-chan struct{} { return s.done }

func (s *subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Subscribe opens the realtime websocket of table. Events are dispatched to
// handlers from a dedicated goroutine until Unsubscribe or a read error.
func (c *Client) Subscribe(ctx context.Context, table string, handlers remote.Handlers) (remote.Subscription, error) {
	endpoint, err := c.realtimeURL(table)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "invalid realtime url")
	}

	header := http.Header{}
	if err := c.authorize(ctx, header); err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.httpClient.Timeout}
	conn, resp, err := dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
			return nil, apperrors.Newf(apperrors.CodeForStatus(resp.StatusCode), "realtime handshake failed with status %d", resp.StatusCode)
		}
		return nil, apperrors.Remote(err, "realtime dial failed")
	}

	sub := &subscription{conn: conn, table: table, done: make(chan struct{})}
	go sub.read(handlers)
	return sub, nil
}

// Unsubscribe closes the feed and waits for the reader to exit.
func (c *Client) Unsubscribe(s remote.Subscription) error {
	sub, ok := s.(*subscription)
	if !ok {
		return fmt.Errorf("unsupported subscription type %T", s)
	}

	var err error
	sub.closeOnce.Do(func() {
		sub.mu.Lock()
		sub.closing = true
		sub.mu.Unlock()

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = sub.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeTimeout))
		err = sub.conn.Close()
	})
	<-sub.done
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *subscription) read(handlers remote.Handlers) {
	defer close(s.done)

	for {
		var event api.ChangeEvent
		if err := s.conn.ReadJSON(&event); err != nil {
			s.mu.Lock()
			if !s.closing && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				s.err = err
			}
			s.mu.Unlock()
			_ = s.conn.Close()
			return
		}
		if event.Table != "" && event.Table != s.table {
			continue
		}
		handlers.Dispatch(remote.ChangeType(event.Type), event.ID, event.Record)
	}
}

func (c *Client) realtimeURL(table string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + api.PathRealtime
	u.RawQuery = url.Values{"table": {table}}.Encode()
	return u.String(), nil
}
