package replica

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"redikv/internal/resp"
)

// fakeMaster accepts one connection and replies to each incoming
// command with the next scripted line, enough to drive Handshake
// through its four steps without a full server implementation.
func fakeMaster(t *testing.T, replies []string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		var buf []byte
		chunk := make([]byte, 1024)
		for _, reply := range replies {
			for {
				_, n, err := resp.Decode(buf)
				if err == nil {
					buf = buf[n:]
					break
				}
				if !errors.Is(err, resp.ErrNotEnoughBytes) && !errors.Is(err, resp.ErrNoStartingByte) {
					return
				}
				read, rerr := conn.Read(chunk)
				if read > 0 {
					buf = append(buf, chunk[:read]...)
				}
				if rerr != nil {
					return
				}
			}
			if _, err := conn.Write([]byte(reply)); err != nil {
				return
			}
		}
	}()
	return ln.Addr().String()
}

func TestHandshakeSuccess(t *testing.T) {
	addr := fakeMaster(t, []string{
		"+PONG\r\n",
		"+OK\r\n",
		"+OK\r\n",
		"+FULLRESYNC 8371b4fb1155b71f4a04d3e1bc3e18c4a990aeeb 0\r\n",
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	reply, err := Handshake(ctx, addr, 6380)
	if err != nil {
		t.Fatalf("Handshake: %v", err)
	}
	if !strings.HasPrefix(reply, "FULLRESYNC") {
		t.Fatalf("reply = %q", reply)
	}
}

func TestHandshakeFailsOnBadPong(t *testing.T) {
	addr := fakeMaster(t, []string{
		"+NOTPONG\r\n",
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := Handshake(ctx, addr, 6380); err == nil {
		t.Fatal("expected an error for a non-PONG reply to PING")
	}
}

func TestHandshakeFailsOnNonFullresync(t *testing.T) {
	addr := fakeMaster(t, []string{
		"+PONG\r\n",
		"+OK\r\n",
		"+OK\r\n",
		"+CONTINUE\r\n",
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := Handshake(ctx, addr, 6380); err == nil {
		t.Fatal("expected an error for a non-FULLRESYNC PSYNC reply")
	}
}
