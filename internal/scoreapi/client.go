// internal/scoreapi/client.go
//
// HTTP client for the remote scoring service.
// Exposes the two calls a finished session makes:
//   - POST {base}/scores                 → submit {username, difficulty, time}
//   - GET  {base}/rankings/{difficulty}  → {rankings: [{rank, username, time}]}
//
// Any transport error or non-2xx status is reported as ErrRemoteService.
// No auth headers are sent.

package scoreapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/robalobadob/flycatch/internal/game"
)

// DefaultBaseURL is the hosted scoring service.
const DefaultBaseURL = "https://port-0-test2back-m3ecwpb257a84dfd.sel4.cloudtype.app"

// ErrRemoteService wraps every failure talking to the scoring service.
var ErrRemoteService = errors.New("remote scoring service failure")

// Client talks to one scoring service base URL.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for base (DefaultBaseURL if empty). timeout bounds
// each request; zero means 10s.
func New(base string, timeout time.Duration) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the service root this client targets.
func (c *Client) BaseURL() string { return c.base }

// SubmitScore posts a finished session's record. The response body is not inspected.
func (c *Client) SubmitScore(ctx context.Context, rec game.ScoreRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode score: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/scores", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteService, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.do(req)
	if err != nil {
		return err
	}
	// The score is stored once a 2xx arrives; draining is best effort.
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
	return nil
}

// rankingsRes is the body of GET /rankings/{difficulty}.
type rankingsRes struct {
	Rankings []game.RankingEntry `json:"rankings"`
}

// Rankings fetches the leaderboard for d.
func (c *Client) Rankings(ctx context.Context, d game.Difficulty) ([]game.RankingEntry, error) {
	u := c.base + "/rankings/" + url.PathEscape(string(d))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteService, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var out rankingsRes
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode rankings: %v", ErrRemoteService, err)
	}
	if out.Rankings == nil {
		out.Rankings = []game.RankingEntry{}
	}
	return out.Rankings, nil
}

// do sends req and turns transport errors and non-2xx statuses into ErrRemoteService.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrRemoteService, req.Method, req.URL.Path, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		_ = res.Body.Close()
		return nil, fmt.Errorf("%w: %s %s: status %d: %s",
			ErrRemoteService, req.Method, req.URL.Path, res.StatusCode, bytes.TrimSpace(snippet))
	}
	return res, nil
}
