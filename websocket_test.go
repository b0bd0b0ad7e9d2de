package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialMCP(t *testing.T, srv *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/mcp"
	return websocket.DefaultDialer.Dial(url, header)
}

func roundTrip(t *testing.T, conn *websocket.Conn, message string) rpcReply {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(message)))
	var reply rpcReply
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestWebsocket_Session(t *testing.T) {
	s, _ := newToolServer(t, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := dialMCP(t, srv, nil)
	require.NoError(t, err)
	defer conn.Close()

	reply := roundTrip(t, conn, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	require.Nil(t, reply.Error)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)))

	reply = roundTrip(t, conn, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	require.Nil(t, reply.Error)
	assert.Equal(t, "2", string(reply.ID))
	var listed struct {
		Tools []MCPTool `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(reply.Result, &listed))
	assert.Len(t, listed.Tools, 18)

	reply = roundTrip(t, conn, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_current_date_and_time_info"}}`)
	require.Nil(t, reply.Error)
	assert.Contains(t, string(reply.Result), "2025-06-04")
}

func TestWebsocket_SessionsAreIndependent(t *testing.T) {
	s, _ := newToolServer(t, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	first, _, err := dialMCP(t, srv, nil)
	require.NoError(t, err)
	defer first.Close()
	reply := roundTrip(t, first, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	require.Nil(t, reply.Error)

	second, _, err := dialMCP(t, srv, nil)
	require.NoError(t, err)
	defer second.Close()
	reply = roundTrip(t, second, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	require.NotNil(t, reply.Error)
	assert.Equal(t, codeNotInitialized, reply.Error.Code)
}

func TestWebsocket_RejectsForeignOrigin(t *testing.T) {
	s, _ := newToolServer(t, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	_, resp, err := dialMCP(t, srv, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		origin   string
		expected bool
	}{
		{origin: "", expected: true},
		{origin: "http://localhost:3000", expected: true},
		{origin: "http://127.0.0.1:8765", expected: true},
		{origin: "http://[::1]:8765", expected: true},
		{origin: "https://intervals.icu", expected: false},
		{origin: "://bad", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/mcp", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.expected, checkOrigin(r))
		})
	}
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	s, _ := newToolServer(t, nil)
	recordToolCall("get_current_date_and_time_info", false, time.Millisecond)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "intervals_mcp_tools_calls_total")
}

func TestServeWebsocket_Shutdown(t *testing.T) {
	s, _ := newToolServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeWebsocket(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ServeWebsocket did not return after cancel")
	}
}
