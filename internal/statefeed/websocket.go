package statefeed

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hearthlabs/hearth-panel/internal/api"
	"github.com/hearthlabs/hearth-panel/internal/infrastructure/config"
	"github.com/hearthlabs/hearth-panel/internal/registry"
)

// WSSource consumes the backend's websocket state feed and folds events
// into the registry.
//
// It reconnects with exponential backoff and never interferes with
// in-flight mutations: a dropped connection drops events, nothing else.
type WSSource struct {
	cfg      config.WebSocketConfig
	registry *registry.Registry
	gate     Gate
	tokens   api.TokenSource
	recorder Recorder
	logger   Logger
}

// NewWSSource creates a websocket feed source. recorder may be nil.
func NewWSSource(cfg config.WebSocketConfig, reg *registry.Registry, gate Gate, tokens api.TokenSource, recorder Recorder, logger Logger) *WSSource {
	return &WSSource{
		cfg:      cfg,
		registry: reg,
		gate:     gate,
		tokens:   tokens,
		recorder: recorder,
		logger:   logger,
	}
}

// Run connects and consumes events until the context is cancelled.
// Connection failures are retried with exponential backoff between the
// configured initial and max delays.
func (s *WSSource) Run(ctx context.Context) error {
	delay := time.Duration(s.cfg.ReconnectInitialDelay) * time.Second
	maxDelay := time.Duration(s.cfg.ReconnectMaxDelay) * time.Second

	for {
		if err := s.consume(ctx); err != nil {
			s.logger.Warn("state feed disconnected", "error", err, "retry_in", delay)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}

// consume dials the feed and reads events until the connection breaks or
// the context is cancelled. A successful connection resets nothing here;
// the caller handles backoff.
func (s *WSSource) consume(ctx context.Context) error {
	header := http.Header{}
	if s.tokens != nil {
		if token, ok := s.tokens.Token(ctx); ok {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, s.cfg.URL, header)
	if err != nil {
		return err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close() //nolint:errcheck // Handshake response body is unused
	}
	defer conn.Close() //nolint:errcheck // Best effort on teardown

	s.logger.Info("state feed connected", "url", s.cfg.URL)

	pongTimeout := time.Duration(s.cfg.PongTimeout) * time.Second
	pingInterval := time.Duration(s.cfg.PingInterval) * time.Second

	_ = conn.SetReadDeadline(time.Now().Add(pingInterval + pongTimeout)) //nolint:errcheck
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pingInterval + pongTimeout))
	})

	// Close the connection when the context ends so the read loop unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				conn.Close() //nolint:errcheck // Unblocks ReadJSON
				return
			case <-done:
				return
			case <-ticker.C:
				deadline := time.Now().Add(pongTimeout)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					conn.Close() //nolint:errcheck
					return
				}
			}
		}
	}()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		applyEvent(s.registry, s.gate, s.recorder, ev, s.logger)
	}
}
