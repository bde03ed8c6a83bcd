package shared

import (
	"io"
	"net"
	"testing"
)

func TestCountedConn(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	cc := NewCountedConn(client)
	defer cc.Close()

	go func() {
		buf := make([]byte, 5)
		io.ReadFull(server, buf)
		server.Write([]byte("pong!!!"))
	}()

	if _, err := cc.Write([]byte("ping\n")); err != nil {
		t.Fatalf("Write() returned %v", err)
	}
	buf := make([]byte, 7)
	if _, err := io.ReadFull(cc, buf); err != nil {
		t.Fatalf("Read() returned %v", err)
	}

	stats := cc.Stats()
	if stats.Uplink != 5 {
		t.Errorf("Expected uplink 5, got %d", stats.Uplink)
	}
	if stats.Downlink != 7 {
		t.Errorf("Expected downlink 7, got %d", stats.Downlink)
	}
}
