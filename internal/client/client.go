package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"linerelay/internal/shared"
	"linerelay/internal/shared/logger"
	"linerelay/internal/shared/protocol"
	"linerelay/internal/shared/types"
	"linerelay/internal/transport"
)

// DialFunc opens the session connection.
type DialFunc func(ctx context.Context, cfg types.ClientConf) (net.Conn, error)

// Console is the local side of the session.
type Console struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdConsole 返回绑定到进程标准输入输出的 Console。
func StdConsole() Console {
	return Console{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Client relays lines typed on the console to a server and prints what the
// server sends back. A Client serves a single session.
type Client struct {
	cfg     types.ClientConf
	console types.ConsoleConf
	addr    string
	dial    DialFunc
	logger  zerolog.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	outMu  sync.Mutex

	running atomic.Bool

	conn   *shared.CountedConn
	reader *protocol.LineReader
	writer *protocol.LineWriter

	done       chan struct{}
	listenDone chan struct{}
	closeOnce  sync.Once
}

// New creates a client for cfg. A nil dial uses transport.Dial.
func New(cfg *types.Config, console Console, dial DialFunc) *Client {
	if dial == nil {
		dial = transport.Dial
	}
	addr := net.JoinHostPort(cfg.ClientConf.Host, strconv.Itoa(cfg.ClientConf.Port))
	return &Client{
		cfg:        cfg.ClientConf,
		console:    cfg.ConsoleConf,
		addr:       addr,
		dial:       dial,
		in:         console.In,
		out:        console.Out,
		errOut:     console.Err,
		done:       make(chan struct{}),
		listenDone: make(chan struct{}),
		logger: logger.WithComponent("client").With().
			Str("session_id", uuid.NewString()).
			Str("addr", addr).Logger(),
	}
}

// Addr returns the host:port the client connects to.
func (c *Client) Addr() string {
	return c.addr
}

// Running reports the liveness flag.
func (c *Client) Running() bool {
	return c.running.Load()
}

// Stats returns the bytes sent and received so far.
func (c *Client) Stats() types.TrafficStats {
	if c.conn == nil {
		return types.TrafficStats{}
	}
	return c.conn.Stats()
}

// Connect opens the connection and prepares the line reader and writer.
// On failure nothing is started and a *ConnectionError is returned.
func (c *Client) Connect(ctx context.Context) error {
	c.logger.Debug().Str("transport", c.cfg.Transport).Msg("Dialing server")

	conn, err := c.dial(ctx, c.cfg)
	if err != nil {
		cerr := &ConnectionError{Addr: c.addr, Err: err}
		c.errorf("Error connecting to server: %v\n", err)
		c.logger.Debug().Err(err).Msg("Connect failed")
		return cerr
	}

	c.conn = shared.NewCountedConn(conn)
	c.reader = protocol.NewLineReader(c.conn)
	c.writer = protocol.NewLineWriter(c.conn)
	c.running.Store(true)

	c.printf("Connected to server at %s\n", c.addr)
	c.logger.Info().Str("remote_addr", conn.RemoteAddr().String()).Msg("Session started")
	return nil
}

// Run forwards console input until the user types "exit", the input ends or
// the session is stopped from the other side. It calls Shutdown before
// returning and waits for the listener to finish.
func (c *Client) Run() {
	if c.conn == nil {
		return
	}

	go c.listen()

	lines := make(chan string)
	inputErr := make(chan error, 1)
	go c.readInput(lines, inputErr)

	if c.console.Prompt {
		c.printf("Enter commands (type 'exit' to quit):\n")
	}

loop:
	for c.running.Load() {
		select {
		case <-c.done:
			break loop
		case line, ok := <-lines:
			if !ok {
				if err := <-inputErr; err != nil && !errors.Is(err, io.EOF) {
					c.logger.Warn().Err(err).Msg("Reading console input failed")
				} else {
					c.logger.Debug().Msg("Console input ended")
				}
				break loop
			}
			if !c.running.Load() {
				break loop
			}
			if protocol.IsExit(line) {
				c.send(protocol.ExitCommand)
				break loop
			}
			if err := c.send(line); err != nil {
				break loop
			}
		}
	}

	c.Shutdown()
	<-c.listenDone
}

// readInput 把控制台输入逐行送入 lines，结束时关闭 lines。
func (c *Client) readInput(lines chan<- string, errc chan<- error) {
	defer close(lines)
	input := protocol.NewLineReader(c.in)
	for {
		line, err := input.ReadLine()
		if err != nil {
			errc <- err
			return
		}
		select {
		case lines <- line:
		case <-c.done:
			errc <- nil
			return
		}
	}
}

func (c *Client) send(line string) error {
	if err := c.writer.WriteLine(line); err != nil {
		terr := &TransportError{Op: "write", Err: err}
		if c.running.Load() {
			c.errorf("Lost connection to server: %v\n", err)
			c.logger.Warn().Err(terr).Msg("Write failed")
		}
		return terr
	}
	return nil
}

// listen prints server lines until the server stops, the stream ends or the
// session is shut down.
func (c *Client) listen() {
	defer close(c.listenDone)
	defer c.Shutdown()

	for c.running.Load() {
		line, err := c.reader.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.logger.Debug().Msg("Server closed the connection")
				return
			}
			// 关闭过程中的读错误是预期的，不提示用户
			if c.running.Load() {
				c.errorf("Lost connection to server: %v\n", err)
				c.logger.Warn().Err(&TransportError{Op: "read", Err: err}).Msg("Read failed")
			}
			return
		}
		if !c.running.Load() {
			return
		}

		c.printf("%s%s\n", c.console.ServerPrefix, line)

		if protocol.IsServerStopped(line) {
			c.running.Store(false)
			c.printf("Server has stopped. Exiting...\n")
			return
		}
	}
}

// Shutdown stops the session and closes the writer, the reader and the
// connection. Only the first call has any effect.
func (c *Client) Shutdown() {
	c.closeOnce.Do(func() {
		c.running.Store(false)
		close(c.done)

		if c.conn == nil {
			return
		}

		var errs []error
		if err := c.writer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close writer: %w", err))
		}
		if err := c.reader.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close reader: %w", err))
		}
		if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
		if err := errors.Join(errs...); err != nil {
			c.errorf("Error closing client resources: %v\n", err)
			c.logger.Warn().Err(err).Msg("Closing resources failed")
		}

		stats := c.conn.Stats()
		c.logger.Info().
			Uint64("uplink_bytes", stats.Uplink).
			Uint64("downlink_bytes", stats.Downlink).
			Msg("Session closed")

		c.printf("Disconnected from server.\n")
	})
}

func (c *Client) printf(format string, a ...interface{}) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format, a...)
}

func (c *Client) errorf(format string, a ...interface{}) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.errOut, format, a...)
}
