package client

import "fmt"

// ConnectionError is returned by Connect when the server cannot be reached.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TransportError 表示会话过程中读写连接失败。
type TransportError struct {
	Op  string // "read" 或 "write"
	Err error
}

func (e *TransportError) Error() string {
	return "transport: operation '" + e.Op + "' failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
