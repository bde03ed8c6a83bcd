package transport

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
	"linerelay/internal/shared/types"
)

// Dial 根据配置选择传输方式并建立到服务器的连接。
func Dial(ctx context.Context, cfg types.ClientConf) (net.Conn, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	switch cfg.Transport {
	case "tcp", "":
		return DialTCP(ctx, addr, cfg)
	case "ws":
		u := url.URL{Scheme: "ws", Host: addr, Path: cfg.WSPath}
		if u.Path == "" {
			u.Path = "/"
		}
		return DialWS(ctx, u.String(), cfg)
	default:
		return nil, fmt.Errorf("unsupported transport: %s", cfg.Transport)
	}
}

// DialTCP 建立一个纯 TCP 连接，可选地经过上游 SOCKS5 代理。
func DialTCP(ctx context.Context, addr string, cfg types.ClientConf) (net.Conn, error) {
	conn, err := contextDialer(cfg)(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tcp dial %s failed: %w", addr, err)
	}
	return conn, nil
}

type dialContextFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// contextDialer returns the function used for the raw connection. A zero
// DialTimeout means no timeout at all.
func contextDialer(cfg types.ClientConf) dialContextFunc {
	base := &net.Dialer{Timeout: time.Duration(cfg.DialTimeout) * time.Second}
	if cfg.SocksProxy == "" {
		return base.DialContext
	}

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		dialer, err := proxy.SOCKS5("tcp", cfg.SocksProxy, nil, base)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer for %s: %w", cfg.SocksProxy, err)
		}
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			return cd.DialContext(ctx, network, addr)
		}
		return dialer.Dial(network, addr)
	}
}
