package protocol

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"sync/atomic"
)

// ErrClosed is returned by reads and writes on a closed LineReader or LineWriter.
var ErrClosed = errors.New("protocol: line stream closed")

// 行协议中的哨兵行
const (
	// ExitCommand is sent by the client before it leaves.
	ExitCommand = "exit"
	// ServerStopped is sent by the server when it shuts down.
	ServerStopped = "Server stopped"
)

// IsExit reports whether a line typed by the user asks to leave.
// 只忽略大小写，带空白的行原样转发。
func IsExit(line string) bool {
	return strings.EqualFold(line, ExitCommand)
}

// IsServerStopped reports whether a received line is the server's stop sentinel.
func IsServerStopped(line string) bool {
	return line == ServerStopped
}

// LineReader 从 io.Reader 中按行读取，去掉结尾的 "\n" 或 "\r\n"。
type LineReader struct {
	r      *bufio.Reader
	closed atomic.Bool
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line. A final line without a terminator is
// returned with a nil error; the following call returns io.EOF.
func (lr *LineReader) ReadLine() (string, error) {
	if lr.closed.Load() {
		return "", ErrClosed
	}
	line, err := lr.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return trimEOL(line), nil
		}
		return "", err
	}
	return trimEOL(line), nil
}

// Close marks the reader closed. The underlying reader is owned by the caller.
func (lr *LineReader) Close() error {
	if !lr.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return nil
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// LineWriter 写入一行并立即 flush。
type LineWriter struct {
	w      *bufio.Writer
	closed atomic.Bool
}

func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: bufio.NewWriter(w)}
}

// WriteLine writes s followed by a newline and flushes.
func (lw *LineWriter) WriteLine(s string) error {
	if lw.closed.Load() {
		return ErrClosed
	}
	if _, err := lw.w.WriteString(s); err != nil {
		return err
	}
	if err := lw.w.WriteByte('\n'); err != nil {
		return err
	}
	return lw.w.Flush()
}

// Close marks the writer closed. WriteLine always flushes, so nothing is
// left in the buffer; the underlying writer is owned by the caller.
func (lw *LineWriter) Close() error {
	if !lw.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return nil
}
