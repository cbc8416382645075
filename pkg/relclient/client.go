// Package relclient is the typed caller of the relationship API. Responses are
// decoded strictly, failures map onto the serrors taxonomy, and TreeView keeps a
// snapshot of the graph that is re-fetched after every mutation.
package relclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ZSuraj/abcd-sub000/pkg/httpapi"
	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

const (
	DefaultTimeout = 15 * time.Second

	maxBodyBytes = 8 << 20
)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token.Store(token)
	}
}

// WithClientScope sends the client scoping header on tree reads.
func WithClientScope(header, clientID string) Option {
	return func(c *Client) {
		c.scopeHeader = header
		c.scopeValue = clientID
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

type Client struct {
	baseURL     string
	http        *http.Client
	timeout     time.Duration
	token       atomic.Value
	scopeHeader string
	scopeValue  string
	logger      *logrus.Logger

	// mutations counts mutation calls; views compare it against the count they saw
	// when they last fetched.
	mutations atomic.Uint64
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		logger:  logrus.StandardLogger(),
	}
	c.token.Store("")
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

// FromSession builds a client authenticated as a stored session.
func FromSession(s *session.Session, opts ...Option) *Client {
	return New(s.BaseURL, append([]Option{WithToken(s.Token)}, opts...)...)
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Token() string {
	return c.token.Load().(string)
}

func (c *Client) SetToken(token string) {
	c.token.Store(token)
}

// Mutations reports how many mutations this client has sent.
func (c *Client) Mutations() uint64 {
	return c.mutations.Load()
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	scoped bool
}

func (c *Client) newRequest(ctx context.Context, req request) (*http.Request, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}
	var body io.Reader
	if req.body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(req.body); err != nil {
			return nil, serrors.New(serrors.KindInvalid, "CLIENT_ENCODE", "could not encode request", err)
		}
		body = buf
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, serrors.New(serrors.KindInvalid, "CLIENT_REQUEST", "could not build request", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if req.scoped && c.scopeHeader != "" && c.scopeValue != "" {
		httpReq.Header.Set(c.scopeHeader, c.scopeValue)
	}
	return httpReq, nil
}

// do sends req and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, req request) (int, []byte, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return 0, nil, err
	}
	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, nil, serrors.Transient("CLIENT_NETWORK", "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, serrors.Transient("CLIENT_NETWORK", "could not read response", err)
	}
	c.logger.WithFields(logrus.Fields{
		"method":   req.method,
		"path":     req.path,
		"status":   resp.StatusCode,
		"duration": time.Since(started),
	}).Debug("relationship api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, nil, responseError(resp.StatusCode, raw)
	}
	return resp.StatusCode, raw, nil
}

// responseError rebuilds the service error carried by an error envelope.
func responseError(status int, raw []byte) error {
	var env httpapi.ErrorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Code == "" {
		return serrors.New(serrors.KindForStatus(status), fmt.Sprintf("HTTP_%d", status), http.StatusText(status), nil)
	}
	return serrors.New(serrors.KindForStatus(status), env.Code, env.Message, nil)
}

func badResponse(err error) error {
	return serrors.Transient("CLIENT_BAD_RESPONSE", "unexpected response from server", err)
}

// decodeData strictly decodes a {"data": T} envelope.
func decodeData[T any](raw []byte) (T, error) {
	var env httpapi.DataEnvelope[T]
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&env); err != nil {
		return env.Data, badResponse(err)
	}
	if dec.More() {
		return env.Data, badResponse(io.ErrUnexpectedEOF)
	}
	return env.Data, nil
}

func getData[T any](ctx context.Context, c *Client, req request) (T, error) {
	_, raw, err := c.do(ctx, req)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeData[T](raw)
}

func (c *Client) mutate(ctx context.Context, req request) ([]byte, error) {
	defer c.mutations.Add(1)
	_, raw, err := c.do(ctx, req)
	return raw, err
}
