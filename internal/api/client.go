package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrDaemonUnavailable marks failures to reach the daemon at all, as
// opposed to error responses from a reachable daemon.
var ErrDaemonUnavailable = errors.New("daemon unavailable")

// Client talks to the daemon HTTP API.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
}

// NewClient builds a client for the given bind address ("host:port" or a
// full URL). The token is sent as a bearer credential when non-empty.
func NewClient(bind, token string) (*Client, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, errors.New("empty bind address")
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, fmt.Errorf("parse bind address: %w", err)
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	return &Client{
		base:  base,
		token: strings.TrimSpace(token),
		// No global timeout; log follow requests block until the caller
		// cancels. Per-call deadlines come from the context.
		http: &http.Client{},
	}, nil
}

// Status fetches daemon runtime information.
func (c *Client) Status(ctx context.Context) (DaemonStatus, error) {
	var out DaemonStatus
	err := c.get(ctx, "/api/status", nil, &out)
	return out, err
}

// Capabilities fetches daemon feature information.
func (c *Client) Capabilities(ctx context.Context) (Capabilities, error) {
	var out Capabilities
	err := c.get(ctx, "/api/capabilities", nil, &out)
	return out, err
}

// Summary fetches the current host snapshot.
func (c *Client) Summary(ctx context.Context) (HostSummary, error) {
	var out HostSummary
	err := c.get(ctx, "/api/summary", nil, &out)
	return out, err
}

// Processes fetches the top-process table.
func (c *Client) Processes(ctx context.Context, limit int) ([]ProcessRow, error) {
	var out ProcessListResponse
	if err := c.get(ctx, "/api/processes", limitQuery(limit), &out); err != nil {
		return nil, err
	}
	return out.Processes, nil
}

// Services fetches the running systemd units.
func (c *Client) Services(ctx context.Context, limit int) ([]ServiceUnit, error) {
	var out ServiceListResponse
	if err := c.get(ctx, "/api/services", limitQuery(limit), &out); err != nil {
		return nil, err
	}
	return out.Services, nil
}

// Diagnostics fetches a snapshot of the diagnostics feed.
func (c *Client) Diagnostics(ctx context.Context, limit int) (DiagnosticsResponse, error) {
	var out DiagnosticsResponse
	err := c.get(ctx, "/api/diagnostics", limitQuery(limit), &out)
	return out, err
}

// Runs fetches recent command history.
func (c *Client) Runs(ctx context.Context, limit int) ([]RunRecord, error) {
	var out RunListResponse
	if err := c.get(ctx, "/api/runs", limitQuery(limit), &out); err != nil {
		return nil, err
	}
	return out.Runs, nil
}

// Run executes a shell command on the daemon host.
func (c *Client) Run(ctx context.Context, command string) (RunRecord, error) {
	body, err := json.Marshal(RunRequest{Command: command})
	if err != nil {
		return RunRecord{}, err
	}

	endpoint := c.base.ResolveReference(&url.URL{Path: "/api/run"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return RunRecord{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	var out RunRecord
	if err := c.do(req, &out); err != nil {
		return RunRecord{}, err
	}
	return out, nil
}

// Logs fetches daemon log lines from the given offset. A negative offset
// requests the last limit lines. Follow with a positive wait asks the
// daemon to hold the request until lines appear.
func (c *Client) Logs(ctx context.Context, offset int64, limit int, follow bool, wait time.Duration) (LogTailResponse, error) {
	values := url.Values{}
	values.Set("offset", strconv.FormatInt(offset, 10))
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	if follow {
		values.Set("follow", "1")
		if wait > 0 {
			values.Set("wait_ms", strconv.FormatInt(wait.Milliseconds(), 10))
		}
	}

	var out LogTailResponse
	err := c.get(ctx, "/api/logs", values, &out)
	return out, err
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	return values
}

func (c *Client) get(ctx context.Context, path string, values url.Values, out any) error {
	endpoint := c.base.ResolveReference(&url.URL{Path: path, RawQuery: values.Encode()})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)
	return c.do(req, out)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) {
			return fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr == nil && payload.Error != "" {
			return fmt.Errorf("api %s: %s (status %d)", req.URL.Path, payload.Error, resp.StatusCode)
		}
		return fmt.Errorf("api %s returned status %d", req.URL.Path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode api response: %w", err)
	}
	return nil
}

// IsDaemonUnavailable reports whether err means the daemon could not be
// reached.
func IsDaemonUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.Is(err, ErrDaemonUnavailable) || errors.As(err, &opErr)
}
