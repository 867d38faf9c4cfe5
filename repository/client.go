package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 100
	maxErrorBody    = 512
)

// Options configures a repository session.
type Options struct {
	ServerURL string // Base URL of the repository server, e.g. http://localhost:8080/artificer-server
	Username  string
	Password  string
	PageSize  int // Results requested per query (first page only)
	Logger    *zap.Logger

	// HTTPClient overrides the default HTTP/2-enabled client.
	HTTPClient *http.Client
}

// Client is an authenticated session with the repository REST API. It is
// created once by Connect and shared read-only by every phase.
type Client struct {
	rest     *resty.Client
	pageSize int
	logger   *zap.Logger
}

var _ Service = (*Client)(nil)

// Connect creates a session and checks the credentials against the service
// document. Any failure matches ErrConnection.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	if opts.ServerURL == "" {
		return nil, fmt.Errorf("%w: server URL is required", ErrConnection)
	}
	base, err := url.Parse(strings.TrimRight(opts.ServerURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid server URL %q: %v", ErrConnection, opts.ServerURL, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient, err = newHTTPClient()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnection, err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rest := resty.NewWithClient(httpClient).
		SetBaseURL(base.String()).
		SetLogger(logger.Sugar())
	if opts.Username != "" {
		rest.SetBasicAuth(opts.Username, opts.Password)
	}

	c := &Client{
		rest:     rest,
		pageSize: opts.PageSize,
		logger:   logger,
	}
	if c.pageSize <= 0 {
		c.pageSize = defaultPageSize
	}

	if _, err := c.do(ctx, "login", http.MethodGet, "/s-ramp/servicedocument", nil, nil, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	c.logger.Info("connected to repository",
		zap.String("server", base.String()),
		zap.String("user", opts.Username))
	return c, nil
}

// Upload ingests a single artifact. The server derives the artifact type
// from the name's extension.
func (c *Client) Upload(ctx context.Context, name string, payload []byte) error {
	header := http.Header{}
	header.Set("Slug", name)
	header.Set("Content-Type", "application/octet-stream")

	_, err := c.do(ctx, "upload "+name, http.MethodPost, "/s-ramp", nil, header, payload)
	return err
}

// BatchUpload sends entries as one zip archive. Whether the server applies
// the archive atomically is up to the server.
func (c *Client) BatchUpload(ctx context.Context, entries []Entry) error {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := WriteArchive(buf, entries); err != nil {
		return &CallError{Op: "batch upload", Err: err}
	}

	header := http.Header{}
	header.Set("Content-Type", "application/zip")

	op := fmt.Sprintf("batch upload (%d entries)", len(entries))
	_, err := c.do(ctx, op, http.MethodPost, "/s-ramp", nil, header, buf.Bytes())
	return err
}

type queryResponse struct {
	TotalResults int       `json:"totalResults"`
	Items        []Summary `json:"items"`
}

// Query evaluates q and returns the first page of results.
func (c *Client) Query(ctx context.Context, q string) ([]Summary, error) {
	params := url.Values{}
	params.Set("query", q)
	params.Set("startIndex", "0")
	params.Set("count", strconv.Itoa(c.pageSize))

	op := "query " + q
	resp, err := c.do(ctx, op, http.MethodGet, "/s-ramp", params, jsonHeader(), nil)
	if err != nil {
		return nil, err
	}

	var out queryResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, &CallError{Op: op, Status: resp.StatusCode(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return out.Items, nil
}

// GetMetadata fetches the full record of one artifact. Every path segment is
// escaped, so id may hold any character.
func (c *Client) GetMetadata(ctx context.Context, t ArtifactType, id string) (*Record, error) {
	op := "get metadata " + t.String() + "/" + id
	if t.Model == "" || t.Type == "" {
		return nil, &CallError{Op: op, Err: fmt.Errorf("incomplete artifact type %q", t.String())}
	}
	if id == "" {
		return nil, &CallError{Op: op, Err: errors.New("empty artifact uuid")}
	}

	path := "/s-ramp/" + url.PathEscape(t.Model) + "/" + url.PathEscape(t.Type) + "/" + url.PathEscape(id)
	resp, err := c.do(ctx, op, http.MethodGet, path, nil, jsonHeader(), nil)
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(resp.Body(), &rec); err != nil {
		return nil, &CallError{Op: op, Status: resp.StatusCode(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return &rec, nil
}

// do sends one request and returns the response on a 2xx status. Every other
// outcome is a *CallError.
func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, header http.Header, body []byte) (*resty.Response, error) {
	req := c.rest.R().
		SetContext(ctx).
		SetHeaderMultiValues(header).
		SetHeader("X-Request-ID", uuid.NewString())
	if params != nil {
		req.SetQueryParamsFromValues(params)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, &CallError{Op: op, Err: err}
	}

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", resp.Time()))

	if !resp.IsSuccess() {
		msg := resp.Body()
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &CallError{Op: op, Status: resp.StatusCode(), Body: strings.TrimSpace(string(msg))}
	}
	return resp, nil
}

func jsonHeader() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	return h
}
