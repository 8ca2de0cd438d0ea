// Package publish streams generations to external consumers.
package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/gridlife/internal/ctxlog"
	"github.com/specialistvlad/gridlife/internal/driver"
	"github.com/specialistvlad/gridlife/internal/grid"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the socket.io event name used when Config.Event is empty.
const DefaultEvent = "generation"

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("publisher is closed")

// Config describes the socket.io endpoint snapshots are sent to.
type Config struct {
	URL                string
	Namespace          string
	Event              string
	ConnectTimeout     time.Duration
	InsecureSkipVerify bool
}

// SocketIO is a driver.Sink that emits every generation as a socket.io event.
type SocketIO struct {
	cfg    Config
	io     *socket.Socket
	closed atomic.Bool
}

// connectResult passes the outcome of the connection handshake.
type connectResult struct {
	err error
}

// Dial connects to the socket.io server and waits until the connection is
// established, the server refuses it, or the connect timeout elapses.
func Dial(ctx context.Context, cfg Config) (*SocketIO, error) {
	if cfg.Event == "" {
		cfg.Event = DefaultEvent
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "/"
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	parsedURL, err := parseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx).With("publisher", "socketio", "url", cfg.URL, "namespace", cfg.Namespace)
	logger.Debug("Connecting publisher.")

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		opts.SetPath(parsedURL.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	done := make(chan connectResult, 1)
	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Publisher connected.", "sid", io.Id())
		select {
		case done <- connectResult{}:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection refused")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case done <- connectResult{err: err}:
		default:
		}
	})

	io.Connect()

	dialCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	select {
	case <-dialCtx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out connecting to %s: %w", cfg.URL, dialCtx.Err())
	case res := <-done:
		if res.err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("failed to connect to %s: %w", cfg.URL, res.err)
		}
	}

	return &SocketIO{cfg: cfg, io: io}, nil
}

// Emit implements driver.Sink.
func (s *SocketIO) Emit(ctx context.Context, snap driver.Snapshot) error {
	if s.closed.Load() {
		return ErrClosed
	}
	ctxlog.FromContext(ctx).Debug("Publishing generation.", "event", s.cfg.Event, "generation", snap.Generation)
	s.io.Emit(s.cfg.Event, Payload(snap))
	return nil
}

// Close disconnects from the server. It is safe to call more than once.
func (s *SocketIO) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.io.Disconnect()
	return nil
}

// Payload is the event body for a snapshot. Rows use the same binary text
// format accepted on the command line; render holds the '#'/'-' lines.
func Payload(snap driver.Snapshot) map[string]any {
	g := snap.Grid
	return map[string]any{
		"generation": snap.Generation,
		"width":      g.Width(),
		"height":     g.Height(),
		"population": g.Population(),
		"rows":       grid.EncodeRows(g),
		"render":     grid.RenderLines(g),
	}
}

func parseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, errors.New("publish URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported URL scheme %q in %s", u.Scheme, raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URL %s has no host", raw)
	}
	return u, nil
}
