package httpserver

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/robalobadob/flycatch/internal/game"
	"github.com/robalobadob/flycatch/internal/protocol"
	"github.com/robalobadob/flycatch/internal/session"
)

func dial(t *testing.T, url, player string) *websocket.Conn {
	t.Helper()
	hdr := http.Header{}
	hdr.Set(playerHeader, player)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http")+"/session/ws", hdr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	b, err := protocol.Encode(typ, payload)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// readUntil reads envelopes until match accepts a state snapshot.
func readUntil(t *testing.T, conn *websocket.Conn, match func(session.Snapshot) bool) session.Snapshot {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		env, err := protocol.DecodeEnvelope(b)
		if err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if env.T == protocol.MsgError {
			e, _ := protocol.DecodePayload[protocol.Error](env)
			t.Fatalf("server error: %s", e.Error)
		}
		if env.T != protocol.MsgState {
			continue
		}
		s, err := protocol.DecodePayload[session.Snapshot](env)
		if err != nil {
			t.Fatalf("decode state: %v", err)
		}
		if match(s) {
			return s
		}
	}
}

func TestWebsocketPlaysFullSession(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts.URL, "ws-player")

	send(t, conn, protocol.MsgConfigure, protocol.Configure{Username: "sock", Difficulty: "hard"})
	send(t, conn, protocol.MsgStart, nil)
	s := readUntil(t, conn, func(s session.Snapshot) bool { return s.State == game.StateActive })
	if len(s.Targets) != 9 || s.Difficulty != game.Hard {
		t.Fatalf("active snapshot = %d targets, %s", len(s.Targets), s.Difficulty)
	}

	for _, tg := range s.Targets {
		send(t, conn, protocol.MsgCatch, protocol.Catch{ID: tg.ID})
	}
	end := readUntil(t, conn, func(s session.Snapshot) bool { return s.State == game.StateEnded })
	if len(end.Rankings) == 0 || end.Rankings[0].Username != "sock" {
		t.Fatalf("rankings = %+v", end.Rankings)
	}
}

func TestWebsocketReportsBadCommands(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts.URL, "ws-bad")

	send(t, conn, "dance", nil)
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		env, err := protocol.DecodeEnvelope(b)
		if err != nil {
			t.Fatal(err)
		}
		if env.T == protocol.MsgError {
			e, err := protocol.DecodePayload[protocol.Error](env)
			if err != nil || !strings.Contains(e.Error, "dance") {
				t.Fatalf("error payload = %+v, %v", e, err)
			}
			return
		}
	}
}
