package shared

import (
	"bufio"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newWSServer 启动一个测试 WebSocket 服务器，把收到的消息交给 handler。
func newWSServer(t *testing.T, handler func(ws *websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer ws.Close()
		handler(ws)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialAdapter(t *testing.T, srv *httptest.Server) *WebSocketConnAdapter {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	conn := NewWebSocketConnAdapter(ws).(*WebSocketConnAdapter)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketConnAdapter_WriteSplitsLines(t *testing.T) {
	received := make(chan string, 4)
	srv := newWSServer(t, func(ws *websocket.Conn) {
		for {
			msgType, msg, err := ws.ReadMessage()
			if err != nil {
				return
			}
			if msgType != websocket.TextMessage {
				t.Errorf("Expected a text message, got type %d", msgType)
			}
			received <- string(msg)
		}
	})
	conn := dialAdapter(t, srv)

	// 一次写入两行加半行，半行要等到换行符才发送
	if _, err := conn.Write([]byte("one\r\ntwo\nthr")); err != nil {
		t.Fatalf("Write() returned %v", err)
	}
	if _, err := conn.Write([]byte("ee\n")); err != nil {
		t.Fatalf("Write() returned %v", err)
	}

	for _, want := range []string{"one", "two", "three"} {
		select {
		case got := <-received:
			if got != want {
				t.Errorf("got message %q, want %q", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestWebSocketConnAdapter_ReadAppendsNewline(t *testing.T) {
	srv := newWSServer(t, func(ws *websocket.Conn) {
		ws.WriteMessage(websocket.TextMessage, []byte("hello"))
		ws.WriteMessage(websocket.TextMessage, []byte("already\n"))
		ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		time.Sleep(100 * time.Millisecond)
	})
	conn := dialAdapter(t, srv)

	r := bufio.NewReader(conn)
	for _, want := range []string{"hello\n", "already\n"} {
		got, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("ReadString() returned %v", err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
	if _, err := r.ReadString('\n'); !errors.Is(err, io.EOF) {
		t.Errorf("Expected EOF after normal closure, got %v", err)
	}
}
