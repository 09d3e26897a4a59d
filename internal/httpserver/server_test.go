package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/flycatch/internal/game"
	"github.com/robalobadob/flycatch/internal/scoreapi"
	"github.com/robalobadob/flycatch/internal/scoreboard"
	"github.com/robalobadob/flycatch/internal/session"
)

// newTestServer runs the full stack in one process: the session API and the
// scoreboard it reports to over HTTP.
func newTestServer(t *testing.T) (*httptest.Server, *session.Manager) {
	t.Helper()
	ts := httptest.NewUnstartedServer(nil)
	base := "http://" + ts.Listener.Addr().String()
	mgr := session.NewManager(scoreapi.New(base, 2*time.Second), session.WithLogger(zerolog.Nop()))
	srv := New(mgr, Options{Scoreboard: scoreboard.NewMemoryStore(), RankingsLimit: 10})
	ts.Config.Handler = srv.Handler()
	ts.Start()
	t.Cleanup(func() {
		mgr.Close()
		ts.Close()
	})
	return ts, mgr
}

func request(t *testing.T, ts *httptest.Server, player, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	if player != "" {
		req.Header.Set(playerHeader, player)
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	return res, b
}

func decodeSnap(t *testing.T, b []byte) session.Snapshot {
	t.Helper()
	var s session.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		t.Fatalf("decode snapshot %s: %v", b, err)
	}
	return s
}

func TestHealthAndDifficulties(t *testing.T) {
	ts, _ := newTestServer(t)
	if res, b := request(t, ts, "", http.MethodGet, "/health", ""); res.StatusCode != 200 || string(b) != `{"ok":true}` {
		t.Fatalf("health = %d %s", res.StatusCode, b)
	}
	res, b := request(t, ts, "", http.MethodGet, "/difficulties", "")
	if res.StatusCode != 200 {
		t.Fatalf("difficulties = %d", res.StatusCode)
	}
	var body struct {
		Difficulties []game.Profile `json:"difficulties"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Difficulties) != 3 || body.Difficulties[2].Count != 9 || body.Difficulties[2].MoveMs != 1500 {
		t.Fatalf("difficulties = %+v", body.Difficulties)
	}
	if res, _ := request(t, ts, "", http.MethodGet, "/nope", ""); res.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown path = %d", res.StatusCode)
	}
}

func TestSessionEndToEnd(t *testing.T) {
	ts, _ := newTestServer(t)
	const p = "player-1"

	res, b := request(t, ts, p, http.MethodPut, "/session/config", `{"username":"a","difficulty":"medium"}`)
	if res.StatusCode != 200 {
		t.Fatalf("configure = %d %s", res.StatusCode, b)
	}
	res, b = request(t, ts, p, http.MethodPost, "/session/start", "")
	if res.StatusCode != 200 {
		t.Fatalf("start = %d %s", res.StatusCode, b)
	}
	s := decodeSnap(t, b)
	if s.State != game.StateActive || len(s.Targets) != 6 {
		t.Fatalf("after start: %s with %d targets", s.State, len(s.Targets))
	}
	for _, tg := range s.Targets {
		if res, b := request(t, ts, p, http.MethodPost, fmt.Sprintf("/session/catch/%d", tg.ID), ""); res.StatusCode != 200 {
			t.Fatalf("catch %d = %d %s", tg.ID, res.StatusCode, b)
		}
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		_, b = request(t, ts, p, http.MethodGet, "/session", "")
		s = decodeSnap(t, b)
		if s.State == game.StateEnded {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("session never ended; state %s", s.State)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(s.Rankings) != 1 || s.Rankings[0].Username != "a" || s.Rankings[0].Rank != 1 {
		t.Fatalf("rankings = %+v", s.Rankings)
	}
	if s.Rankings[0].Time != game.RoundTime(s.Elapsed) {
		t.Fatalf("ranked time %v, elapsed %v", s.Rankings[0].Time, s.Elapsed)
	}

	_, b = request(t, ts, p, http.MethodGet, "/session/view", "")
	if !strings.Contains(string(b), "Game over") || !strings.Contains(string(b), "1. a - ") {
		t.Fatalf("view = %s", b)
	}

	_, b = request(t, ts, "", http.MethodGet, "/rankings/medium", "")
	if !strings.Contains(string(b), `"username":"a"`) {
		t.Fatalf("rankings endpoint = %s", b)
	}
}

func TestConfigureErrors(t *testing.T) {
	ts, _ := newTestServer(t)
	const p = "player-2"
	if res, _ := request(t, ts, p, http.MethodPut, "/session/config", `{"difficulty":"brutal"}`); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown difficulty = %d", res.StatusCode)
	}
	if res, _ := request(t, ts, p, http.MethodPut, "/session/config", `{`); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad json = %d", res.StatusCode)
	}
	request(t, ts, p, http.MethodPost, "/session/start", "")
	if res, _ := request(t, ts, p, http.MethodPut, "/session/config", `{"username":"z","difficulty":"hard"}`); res.StatusCode != http.StatusConflict {
		t.Fatalf("configure while active = %d", res.StatusCode)
	}
	if res, _ := request(t, ts, p, http.MethodPost, "/session/catch/abc", ""); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad catch id = %d", res.StatusCode)
	}
	res, b := request(t, ts, p, http.MethodPost, "/session/catch/77", "")
	if res.StatusCode != 200 || len(decodeSnap(t, b).Targets) != 3 {
		t.Fatalf("unknown catch id = %d %s", res.StatusCode, b)
	}
}

func TestPlayerCookie(t *testing.T) {
	ts, mgr := newTestServer(t)
	res, _ := request(t, ts, "", http.MethodPost, "/session/start", "")
	var cookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == playerCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("no %s cookie issued", playerCookieName)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/session", nil)
	req.AddCookie(cookie)
	res2, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res2.Body.Close()
	b, _ := io.ReadAll(res2.Body)
	if s := decodeSnap(t, b); s.State != game.StateActive || s.Generation != 1 {
		t.Fatalf("cookie did not resume session: %+v", s)
	}
	if mgr.Len() != 1 {
		t.Fatalf("sessions = %d, want 1", mgr.Len())
	}
}

func TestTeardown(t *testing.T) {
	ts, mgr := newTestServer(t)
	request(t, ts, "p3", http.MethodPost, "/session/start", "")
	_, b := request(t, ts, "p3", http.MethodDelete, "/session", "")
	if string(b) != "{\"ok\":true,\"removed\":true}\n" {
		t.Fatalf("teardown = %s", b)
	}
	if _, ok := mgr.Get("p3"); ok {
		t.Fatalf("session survived teardown")
	}
	_, b = request(t, ts, "p3", http.MethodGet, "/session", "")
	if s := decodeSnap(t, b); s.State != game.StateIdle {
		t.Fatalf("fresh session state = %s, want idle", s.State)
	}
}
