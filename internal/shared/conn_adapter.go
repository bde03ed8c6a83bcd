package shared

import (
	"bytes"
	"io"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketConnAdapter 实现了 net.Conn 接口，将一条 WebSocket 消息映射为一行文本。
// 读取时每条消息以 '\n' 结尾；写入时每行作为一条文本消息发送。
// Read 和 Write 各自只允许一个 goroutine 调用。
type WebSocketConnAdapter struct {
	*websocket.Conn
	readBuffer bytes.Buffer
	pending    []byte // 尚未遇到换行符的写入数据
}

// NewWebSocketConnAdapter 是供拨号器使用的构造函数
func NewWebSocketConnAdapter(ws *websocket.Conn) net.Conn {
	return &WebSocketConnAdapter{Conn: ws}
}

// Read 方法实现了 io.Reader 接口。
func (wsc *WebSocketConnAdapter) Read(b []byte) (int, error) {
	if wsc.readBuffer.Len() == 0 {
		_, msg, err := wsc.Conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		if len(msg) == 0 || msg[len(msg)-1] != '\n' {
			msg = append(msg, '\n')
		}
		wsc.readBuffer.Write(msg)
	}
	return wsc.readBuffer.Read(b)
}

// Write 方法实现了 io.Writer 接口。完整的行立即发送，不完整的部分缓存到下一次写入。
func (wsc *WebSocketConnAdapter) Write(b []byte) (int, error) {
	wsc.pending = append(wsc.pending, b...)
	for {
		i := bytes.IndexByte(wsc.pending, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimSuffix(wsc.pending[:i], []byte{'\r'})
		if err := wsc.Conn.WriteMessage(websocket.TextMessage, line); err != nil {
			return 0, err
		}
		wsc.pending = wsc.pending[i+1:]
	}
	return len(b), nil
}

// Close 先尝试发送关闭帧，再关闭底层连接。
func (wsc *WebSocketConnAdapter) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = wsc.Conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return wsc.Conn.Close()
}

func (wsc *WebSocketConnAdapter) LocalAddr() net.Addr  { return wsc.Conn.LocalAddr() }
func (wsc *WebSocketConnAdapter) RemoteAddr() net.Addr { return wsc.Conn.RemoteAddr() }
func (wsc *WebSocketConnAdapter) SetDeadline(t time.Time) error {
	_ = wsc.Conn.SetReadDeadline(t)
	return wsc.Conn.SetWriteDeadline(t)
}
func (wsc *WebSocketConnAdapter) SetReadDeadline(t time.Time) error {
	return wsc.Conn.SetReadDeadline(t)
}
func (wsc *WebSocketConnAdapter) SetWriteDeadline(t time.Time) error {
	return wsc.Conn.SetWriteDeadline(t)
}
