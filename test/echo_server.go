// 手动测试用的行回显服务器:
//
//	go run ./test -addr 127.0.0.1:8099 -stop-after 3
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"linerelay/internal/shared/logger"
	"linerelay/internal/shared/protocol"
	"linerelay/internal/shared/types"
)

func handle(conn net.Conn, stopAfter int) {
	defer conn.Close()
	remote := conn.RemoteAddr().String()
	logger.Info().Str("remote_addr", remote).Msg("Connection accepted")

	var echoed uint64
	r := bufio.NewReader(conn)
	for n := 1; ; n++ {
		line, err := r.ReadString('\n')
		if err != nil {
			logger.Info().Str("remote_addr", remote).Int("lines", n-1).Uint64("bytes", echoed).Err(err).Msg("Connection finished")
			return
		}
		line = strings.TrimRight(line, "\r\n")

		if protocol.IsExit(line) {
			logger.Info().Str("remote_addr", remote).Msg("Client said exit")
			return
		}
		written, err := fmt.Fprintf(conn, "ECHO: %s\n", line)
		echoed += uint64(written)
		if err != nil {
			logger.Error().Str("remote_addr", remote).Err(err).Msg("Echo write failed")
			return
		}

		if stopAfter > 0 && n >= stopAfter {
			_, err := fmt.Fprintln(conn, protocol.ServerStopped)
			logger.Info().Str("remote_addr", remote).Int("lines", n).Bool("sent_stop", err == nil).Msg("Stop sentinel sent")
			return
		}
	}
}

func main() {
	addr := flag.String("addr", "127.0.0.1:8099", "Listen address")
	stopAfter := flag.Int("stop-after", 0, "Send the stop sentinel after this many lines (0 = never)")
	flag.Parse()

	if err := logger.Init(types.LogConf{Level: "info"}); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		logger.Fatal().Err(err).Msgf("Failed to listen on %s", *addr)
	}
	logger.Info().Str("addr", listener.Addr().String()).Msg("Echo server listening")

	for {
		conn, err := listener.Accept()
		if err != nil {
			logger.Warn().Err(err).Msg("Accept error")
			continue
		}
		go handle(conn, *stopAfter)
	}
}
