package extension

import (
	"io"
	"net"
	"strings"
	"testing"

	json "encoding/json/v2"
)

func TestJSONRPCConn_requestRoundTrip(t *testing.T) {
	t.Parallel()

	clientEnd, serverEnd := net.Pipe()
	client := NewJSONRPCConn(clientEnd)
	server := NewJSONRPCConn(serverEnd)
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})

	go func() {
		_ = client.Send(7, "workspace/executeCommand", map[string]string{"command": "gql/showTags"})
	}()

	msg, err := server.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}

	if msg.JSONRPC != "2.0" {
		t.Errorf("jsonrpc = %q, want %q", msg.JSONRPC, "2.0")
	}
	if msg.ID == nil || *msg.ID != 7 {
		t.Errorf("id = %v, want 7", msg.ID)
	}
	if msg.Method != "workspace/executeCommand" {
		t.Errorf("method = %q", msg.Method)
	}

	var params map[string]string
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		t.Fatal(err)
	}
	if params["command"] != "gql/showTags" {
		t.Errorf("params = %v", params)
	}
}

func TestJSONRPCConn_notificationHasNoID(t *testing.T) {
	t.Parallel()

	clientEnd, serverEnd := net.Pipe()
	client := NewJSONRPCConn(clientEnd)
	server := NewJSONRPCConn(serverEnd)
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})

	go func() {
		_ = client.Notify("initialized", map[string]any{})
	}()

	msg, err := server.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if msg.ID != nil {
		t.Errorf("notification should not carry an id, got %d", *msg.ID)
	}
}

func TestJSONRPCConn_missingContentLength(t *testing.T) {
	t.Parallel()

	clientEnd, serverEnd := net.Pipe()
	server := NewJSONRPCConn(serverEnd)
	t.Cleanup(func() {
		_ = clientEnd.Close()
		_ = server.Close()
	})

	go func() {
		_, _ = io.WriteString(clientEnd, "Content-Type: application/json\r\n\r\n")
	}()

	_, err := server.ReadMessage()
	if err == nil || !strings.Contains(err.Error(), "missing Content-Length") {
		t.Errorf("err = %v, want missing Content-Length error", err)
	}
}
