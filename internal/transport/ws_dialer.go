package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"linerelay/internal/shared"
	"linerelay/internal/shared/types"
)

// DialWS 建立一个 WebSocket 连接，并包装成按行读写的 net.Conn。
func DialWS(ctx context.Context, urlStr string, cfg types.ClientConf) (net.Conn, error) {
	dialer := websocket.Dialer{
		NetDialContext:   contextDialer(cfg),
		HandshakeTimeout: time.Duration(cfg.DialTimeout) * time.Second,
	}

	header := http.Header{}
	header.Set("User-Agent", "linerelay-client/1.0")

	wsConn, _, err := dialer.DialContext(ctx, urlStr, header)
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s failed: %w", urlStr, err)
	}
	return shared.NewWebSocketConnAdapter(wsConn), nil
}
