package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/lanerunner/internal/event"
	"github.com/udisondev/lanerunner/internal/game"
)

const maxMessageSize = 1024

var (
	errSendQueueFull = errors.New("send queue full")
	errClientClosed  = errors.New("client closed connection")
)

// client is one websocket connection and the match it plays.
type client struct {
	conn   *websocket.Conn
	player string
	srv    *Server

	bus     *event.Bus
	session *game.Session
	loop    *game.Loop

	sendCh chan []byte
}

func newClient(conn *websocket.Conn, player string, srv *Server) *client {
	bus := event.NewBus()
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	session := game.NewSession(srv.gameCfg, srv.lanes, rng, bus)

	return &client{
		conn:    conn,
		player:  player,
		srv:     srv,
		bus:     bus,
		session: session,
		loop:    game.NewLoop(session, srv.cfg.TickRate),
		sendCh:  make(chan []byte, srv.cfg.SendQueueSize),
	}
}

// serve plays matches until the connection drops or ctx is canceled (blocks).
// The returned error says why the session ended.
func (c *client) serve(ctx context.Context) error {
	defer c.conn.Close()
	defer c.bus.Close()

	events := c.bus.Subscribe(c.srv.cfg.SendQueueSize)
	var matches *event.Subscription
	if c.srv.store != nil {
		matches = c.bus.Subscribe(16)
	}

	if err := c.session.Start(); err != nil {
		return fmt.Errorf("starting match: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if matches != nil {
		recorder := game.NewRecorder(c.srv.store, c.player)
		g.Go(func() error { return recorder.Run(ctx, matches) })
	}

	g.Go(func() error { return c.forwardEvents(ctx, events) })
	g.Go(func() error { return c.writePump(ctx) })
	g.Go(c.readPump)
	g.Go(func() error {
		// Unblocks readPump.
		<-ctx.Done()
		return c.conn.Close()
	})

	g.Go(func() error { return c.loop.Run(ctx) })
	g.Go(func() error { return c.snapshots(ctx) })

	err := g.Wait()
	c.loop.Stop()
	return err
}

// enqueue hands a frame to writePump. A client that cannot keep up is dropped.
func (c *client) enqueue(frameType string, data any) error {
	b, err := encodeFrame(frameType, data)
	if err != nil {
		return err
	}

	select {
	case c.sendCh <- b:
		return nil
	default:
		slog.Warn("send queue full, disconnecting slow client", "player", c.player)
		return errSendQueueFull
	}
}

func (c *client) forwardEvents(ctx context.Context, sub *event.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.C():
			if !ok {
				return nil
			}
			if err := c.enqueue(string(ev.Type()), ev); err != nil {
				return err
			}
		}
	}
}

func (c *client) snapshots(ctx context.Context) error {
	ticker := time.NewTicker(c.srv.cfg.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.enqueue(frameSnapshot, c.session.Snapshot()); err != nil {
				return err
			}
		}
	}
}

// writePump is the only goroutine writing data frames to conn.
func (c *client) writePump(ctx context.Context) error {
	pingEvery := c.srv.cfg.ReadTimeout * 9 / 10
	ping := time.NewTicker(pingEvery)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.srv.cfg.WriteTimeout))
			return ctx.Err()

		case frame := <-c.sendCh:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.srv.cfg.WriteTimeout)); err != nil {
				return fmt.Errorf("setting write deadline: %w", err)
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return fmt.Errorf("writing frame: %w", err)
			}

		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.srv.cfg.WriteTimeout)); err != nil {
				return fmt.Errorf("writing ping: %w", err)
			}
		}
	}
}

func (c *client) readPump() error {
	readTimeout := c.srv.cfg.ReadTimeout

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read failed", "player", c.player, "error", err)
			}
			return fmt.Errorf("%w: %w", errClientClosed, err)
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))

		msg, err := decodeMessage(data)
		if err == nil {
			err = c.handle(msg)
		}
		if err != nil {
			slog.Debug("rejecting client message", "player", c.player, "error", err)
			if err := c.enqueue(frameError, errorData{Message: err.Error()}); err != nil {
				return err
			}
		}
	}
}

func (c *client) handle(msg clientMessage) error {
	if msg.Type != msgInput {
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}

	switch msg.Action {
	case ActionUp:
		c.session.MoveUp()
	case ActionDown:
		c.session.MoveDown()
	case ActionPause:
		c.session.Pause()
	case ActionResume:
		c.session.Resume()
	case ActionToggle:
		c.session.TogglePause()
	case ActionRestart:
		return c.session.Restart()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
	}
	return nil
}
