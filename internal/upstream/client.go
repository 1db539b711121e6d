package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/guttosm/stockinfo/config"
	"github.com/guttosm/stockinfo/internal/logger"
)

// Fetcher performs a single GET against a fully-formed upstream URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (json.RawMessage, error)
}

// Client talks to the upstream financial-data API.
//
// Responsibilities:
//   - Send exactly one GET per call, with the configured accept-language.
//   - Return the body verbatim when it is valid JSON, whatever the status code.
//   - Classify every failure as a *FetchError; never retry.
type Client struct {
	http           *http.Client
	baseURL        string
	acceptLanguage string
}

var _ Fetcher = (*Client)(nil)

// NewHTTPClient builds the HTTP client used for upstream calls.
//
// timeout bounds a whole call (dial, headers and body); 0 disables it, so a hung
// upstream hangs the caller until its context is cancelled.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}

// NewClient constructs a Client. If hc is nil a client is built from cfg.Timeout.
func NewClient(cfg config.UpstreamConfig, hc *http.Client) *Client {
	if hc == nil {
		hc = NewHTTPClient(cfg.Timeout)
	}
	lang := cfg.AcceptLanguage
	if lang == "" {
		lang = "vi"
	}
	return &Client{http: hc, baseURL: cfg.BaseURL, acceptLanguage: lang}
}

// BaseURL returns the upstream base URL that route templates are appended to.
func (c *Client) BaseURL() string { return c.baseURL }

// Fetch performs the GET and returns the raw JSON body.
//
// Returns:
//   - json.RawMessage: the upstream body, byte-for-byte.
//   - error: a *FetchError describing the failure; the body is nil in that case.
func (c *Client) Fetch(ctx context.Context, url string) (json.RawMessage, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, c.fail(&FetchError{Kind: KindRequest, URL: url, Err: err})
	}
	req.Header.Set("Accept-Language", c.acceptLanguage)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(&FetchError{Kind: KindTransport, URL: url, Err: err})
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			logger.L().Debug().Err(err).Msg("failed to close upstream body")
		}
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, c.fail(&FetchError{Kind: KindRead, URL: url, Status: res.StatusCode, Err: err})
	}
	if !json.Valid(body) {
		return nil, c.fail(&FetchError{Kind: KindDecode, URL: url, Status: res.StatusCode, Err: errors.New("body is not valid JSON")})
	}

	logger.L().Debug().
		Str("url", url).
		Int("status", res.StatusCode).
		Int("bytes", len(body)).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Msg("upstream_fetch")

	return json.RawMessage(body), nil
}

// Ping checks that the upstream host answers HTTP at all.
// Any response, whatever its status, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return &FetchError{Kind: KindRequest, URL: c.baseURL, Err: err}
	}
	res, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Kind: KindTransport, URL: c.baseURL, Err: err}
	}
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
	return nil
}

func (c *Client) fail(fe *FetchError) error {
	logger.L().Warn().
		Str("url", fe.URL).
		Str("kind", string(fe.Kind)).
		Int("status", fe.Status).
		Err(fe.Err).
		Msg("upstream_fetch_failed")
	return fe
}

// CloseIdleConnections releases pooled upstream connections.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}
