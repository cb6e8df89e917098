package harness

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/ga4gh/compliance-harness/framework"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonHandler(status int, body string) http.Handler {
	return httphelpers.HandlerWithResponse(status,
		http.Header{"Content-Type": []string{"application/json"}}, []byte(body))
}

func TestNewClientValidatesURL(t *testing.T) {
	_, err := NewClient("localhost:8000")
	assert.Error(t, err)
	_, err = NewClient("ftp://example.com")
	assert.Error(t, err)
	_, err = NewClient("http://example.com", WithTimeout(-1))
	assert.Error(t, err)

	c, err := NewClient("http://example.com/v0.5/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/v0.5", c.BaseURL())
	assert.Equal(t, "http://example.com/v0.5/references/r1/bases?end=10&start=0",
		c.URL(Request{Path: "/references/r1/bases", Query: url.Values{"start": {"0"}, "end": {"10"}}}))
}

func TestPostSendsJSONBody(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(jsonHandler(200, `{"referenceSets": []}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c, err := NewClient(server.URL+"/v0.5", WithHeader("Authorization", "Bearer xyz"))
		require.NoError(t, err)

		result := c.Post(context.Background(), "/referencesets/search",
			map[string]interface{}{"pageSize": 1}, nil)
		assert.JSONEq(t, `{"referenceSets": []}`, result.JSONString())

		r := <-requests
		assert.Equal(t, "POST", r.Request.Method)
		assert.Equal(t, "/v0.5/referencesets/search", r.Request.URL.Path)
		assert.Equal(t, "application/json; charset=utf-8", r.Request.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer xyz", r.Request.Header.Get("Authorization"))
		assert.JSONEq(t, `{"pageSize": 1}`, string(r.Body))
	})
}

func TestGetSendsQuery(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(jsonHandler(200, `{"offset": 10}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c, _ := NewClient(server.URL)
		result := c.Get(context.Background(), "/references/r1/bases", url.Values{"start": {"10"}}, nil)
		assert.Equal(t, 10, result.GetByKey("offset").IntValue())

		r := <-requests
		assert.Equal(t, "GET", r.Request.Method)
		assert.Equal(t, "10", r.Request.URL.Query().Get("start"))
		assert.Equal(t, "", r.Request.Header.Get("Content-Type"))
	})
}

func TestErrorStatus(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(404), func(server *httptest.Server) {
		c, _ := NewClient(server.URL)
		result := c.Get(context.Background(), "/referencesets/x", nil, nil)
		assert.JSONEq(t, `{"status": 404, "statusText": "Not Found"}`, result.JSONString())
	})
}

func TestErrorStatusWithGA4GHErrorBody(t *testing.T) {
	handler := jsonHandler(400, `{"errorCode": 1394, "message": "bad page token"}`)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c, _ := NewClient(server.URL)
		result := c.Post(context.Background(), "/reads/search", map[string]interface{}{}, nil)
		assert.JSONEq(t,
			`{"status": 400, "statusText": "Bad Request", "message": "bad page token", "errorCode": 1394}`,
			result.JSONString())
	})
}

func TestInvalidJSONResponse(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(200, nil, []byte("<html>"))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c, _ := NewClient(server.URL)
		result := c.Get(context.Background(), "/", nil, nil)
		assert.Equal(t, 200, result.GetByKey("status").IntValue())
		assert.Equal(t, "invalid JSON in response: <html>", result.GetByKey("statusText").StringValue())
	})
}

func TestUnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	serverURL := server.URL
	server.Close()

	c, _ := NewClient(serverURL)
	result := c.Get(context.Background(), "/", nil, nil)
	assert.Equal(t, 0, result.GetByKey("status").IntValue())
	assert.NotEqual(t, "", result.GetByKey("statusText").StringValue())
}

func TestRequestTimeout(t *testing.T) {
	stall := make(chan struct{})
	defer close(stall)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-stall:
		case <-r.Context().Done():
		}
	})
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c, _ := NewClient(server.URL, WithTimeout(50*time.Millisecond))
		result := c.Get(context.Background(), "/", nil, nil)
		assert.Equal(t, 0, result.GetByKey("status").IntValue())
	})
}

func TestCancelledContext(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(200), func(server *httptest.Server) {
		c, _ := NewClient(server.URL)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result := c.Get(ctx, "/", nil, nil)
		assert.Equal(t, 0, result.GetByKey("status").IntValue())
		assert.Contains(t, result.GetByKey("statusText").StringValue(), "context canceled")
	})
}

func TestExchangesAreLogged(t *testing.T) {
	httphelpers.WithServer(jsonHandler(200, `{"a": 1}`), func(server *httptest.Server) {
		c, _ := NewClient(server.URL)
		var logger framework.CapturingLogger
		c.Post(context.Background(), "/callsets/search", map[string]interface{}{"x": true}, &logger)

		output := logger.Output()
		require.Len(t, output, 2)
		assert.Equal(t, "POST "+server.URL+`/callsets/search {"x":true}`, output[0].Message)
		assert.Contains(t, output[1].Message, "Response 200 OK in ")
		assert.Contains(t, output[1].Message, `{"a": 1}`)
	})
}

func TestWaitForEndpoint(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(404), func(server *httptest.Server) {
		c, _ := NewClient(server.URL)
		var buf bytes.Buffer
		require.NoError(t, c.WaitForEndpoint(context.Background(), time.Second, &buf))
		assert.Equal(t, "Connecting to API at "+server.URL+". HTTP 404\n", buf.String())
	})

	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	serverURL := server.URL
	server.Close()
	c, _ := NewClient(serverURL)
	var buf bytes.Buffer
	assert.Error(t, c.WaitForEndpoint(context.Background(), 150*time.Millisecond, &buf))
}
