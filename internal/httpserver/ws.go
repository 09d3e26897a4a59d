// internal/httpserver/ws.go
//
// Live session stream. After the upgrade the server pushes a "state"
// envelope every tick; the client drives the session with "configure",
// "start" and "catch" envelopes. All writes happen on one goroutine.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/flycatch/internal/game"
	"github.com/robalobadob/flycatch/internal/protocol"
	"github.com/robalobadob/flycatch/internal/session"
)

const (
	wsReadLimit    = 1 << 16
	wsPongWait     = 60 * time.Second
	wsPingEvery    = 25 * time.Second
	wsWriteTimeout = 10 * time.Second
)

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || origin == s.origin {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := s.playerID(w, r)
	hdr := http.Header{}
	for _, c := range w.Header().Values("Set-Cookie") {
		hdr.Add("Set-Cookie", c)
	}

	conn, err := s.upgrader().Upgrade(w, r, hdr)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	c := s.sessions.GetOrCreate(id)
	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chan []byte, 16)
	go readLoop(ctx, cancel, conn, c, out)
	writeLoop(ctx, conn, c, out)
	log.Debug().Str("player", id).Msg("websocket closed")
}

// writeLoop pushes a snapshot every tick plus any replies from readLoop.
func writeLoop(ctx context.Context, conn *websocket.Conn, c *session.Controller, out <-chan []byte) {
	state := time.NewTicker(game.TickInterval)
	defer state.Stop()
	ping := time.NewTicker(wsPingEvery)
	defer ping.Stop()

	write := func(typ int, b []byte) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteMessage(typ, b) == nil
	}
	for {
		select {
		case <-ctx.Done():
			return
		case b := <-out:
			if !write(websocket.TextMessage, b) {
				return
			}
		case <-ping.C:
			if !write(websocket.PingMessage, nil) {
				return
			}
		case <-state.C:
			snap, err := c.Snapshot(ctx)
			if err != nil {
				if errors.Is(err, session.ErrStopped) {
					b, _ := protocol.Encode(protocol.MsgError, protocol.Error{Error: "session_closed"})
					write(websocket.TextMessage, b)
				}
				return
			}
			b, err := protocol.Encode(protocol.MsgState, snap)
			if err != nil || !write(websocket.TextMessage, b) {
				return
			}
		}
	}
}

// readLoop applies client commands until the connection fails.
func readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, c *session.Controller, out chan<- []byte) {
	defer cancel()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if err := apply(ctx, c, msg); err != nil {
			b, _ := protocol.Encode(protocol.MsgError, protocol.Error{Error: err.Error()})
			select {
			case out <- b:
			case <-ctx.Done():
				return
			}
		}
	}
}

// apply decodes one client envelope and forwards it to the controller.
func apply(ctx context.Context, c *session.Controller, msg []byte) error {
	env, err := protocol.DecodeEnvelope(msg)
	if err != nil {
		return err
	}
	switch env.T {
	case protocol.MsgStart:
		_, err = c.Start(ctx)
	case protocol.MsgCatch:
		var p protocol.Catch
		if p, err = protocol.DecodePayload[protocol.Catch](env); err == nil {
			_, err = c.Catch(ctx, p.ID)
		}
	case protocol.MsgConfigure:
		var p protocol.Configure
		if p, err = protocol.DecodePayload[protocol.Configure](env); err == nil {
			var d game.Difficulty
			if d, err = game.ParseDifficulty(p.Difficulty); err == nil {
				err = c.Configure(ctx, p.Username, d)
			}
		}
	default:
		err = errors.New("unknown message type " + env.T)
	}
	return err
}
