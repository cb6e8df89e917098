package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ga4gh/compliance-harness/framework"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// DefaultRequestTimeout is the time limit for a single request if WithTimeout is not used.
const DefaultRequestTimeout = 30 * time.Second

const maxLoggedBodyLength = 2000

// Client sends requests to one API endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
}

type clientConfig struct {
	timeout    time.Duration
	httpClient *http.Client
	headers    http.Header
}

// ClientOption is an option that can be passed to NewClient.
type ClientOption func(*clientConfig) error

// WithTimeout sets the time limit for each request.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) error {
		if timeout <= 0 {
			return fmt.Errorf("request timeout must be positive, got %s", timeout)
		}
		c.timeout = timeout
		return nil
	}
}

// WithHeader adds a header to every request, such as an authorization header.
func WithHeader(name, value string) ClientOption {
	return func(c *clientConfig) error {
		c.headers.Add(name, value)
		return nil
	}
}

// WithHTTPClient specifies the underlying HTTP client. Its Timeout is overridden by WithTimeout
// only if that option is also given.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *clientConfig) error {
		c.httpClient = httpClient
		return nil
	}
}

// NewClient creates a Client for the API whose base URL (including any version path, such as
// "http://example.com/v0.5") is given.
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint URL %q must start with http:// or https://", baseURL)
	}
	config := clientConfig{headers: make(http.Header)}
	for _, o := range options {
		if err := o(&config); err != nil {
			return nil, err
		}
	}
	httpClient := &http.Client{Timeout: DefaultRequestTimeout}
	if config.httpClient != nil {
		copied := *config.httpClient
		httpClient = &copied
	}
	if config.timeout != 0 {
		httpClient.Timeout = config.timeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		headers:    config.headers,
	}, nil
}

// BaseURL returns the endpoint URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one API call. Path is relative to the base URL. Body, if not nil, is encoded
// as JSON.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

// URL returns the full URL that the request will be sent to.
func (c *Client) URL(req Request) string {
	u := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) != 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, logger framework.Logger) ldvalue.Value {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, logger)
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}, logger framework.Logger) ldvalue.Value {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, logger)
}

// Do sends a request and returns the parsed JSON response.
//
// If the request does not succeed, the result is instead an object describing the failure:
//
//	{"status": 404, "statusText": "Not Found"}                   for a non-2xx response
//	{"status": 404, "statusText": "Not Found",                   if the response body was a
//	 "message": "...", "errorCode": 3}                            GA4GH error object
//	{"status": 0, "statusText": "dial tcp: connection refused"}  if there was no response
//	{"status": 200, "statusText": "invalid JSON in response: ..."}
//
// Every exchange is written to logger.
func (c *Client) Do(ctx context.Context, req Request, logger framework.Logger) ldvalue.Value {
	if logger == nil {
		logger = framework.NullLogger()
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	fullURL := c.URL(req)

	var bodyReader io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return transportError(0, fmt.Sprintf("could not encode request body: %s", err))
		}
		logger.Printf("%s %s %s", method, fullURL, string(data))
		bodyReader = bytes.NewReader(data)
	} else {
		logger.Printf("%s %s", method, fullURL)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return transportError(0, err.Error())
	}
	for name, values := range c.headers {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Printf("Request failed after %s: %s", time.Since(startTime), err)
		return transportError(0, err.Error())
	}
	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	statusText := responseStatusText(resp)
	if err != nil {
		logger.Printf("Reading response failed after %s: %s", time.Since(startTime), err)
		return transportError(0, err.Error())
	}
	logger.Printf("Response %s in %s: %s", resp.Status, time.Since(startTime), truncate(string(respBody)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result := ldvalue.ObjectBuild().
			Set("status", ldvalue.Int(resp.StatusCode)).
			Set("statusText", ldvalue.String(statusText))
		if json.Valid(respBody) {
			errorBody := ldvalue.Parse(respBody)
			if message := errorBody.GetByKey("message"); message.IsString() {
				result.Set("message", message)
				if code, ok := errorBody.TryGetByKey("errorCode"); ok {
					result.Set("errorCode", code)
				}
			}
		}
		return result.Build()
	}

	if !json.Valid(respBody) {
		return transportError(resp.StatusCode, "invalid JSON in response: "+truncate(string(respBody)))
	}
	return ldvalue.Parse(respBody)
}

func transportError(status int, statusText string) ldvalue.Value {
	return ldvalue.ObjectBuild().
		Set("status", ldvalue.Int(status)).
		Set("statusText", ldvalue.String(statusText)).
		Build()
}

func responseStatusText(resp *http.Response) string {
	if text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); text != "" && text != resp.Status {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func truncate(s string) string {
	if len(s) > maxLoggedBodyLength {
		return s[:maxLoggedBodyLength] + "..."
	}
	return s
}
