// Package replica implements the replica side of the handshake a
// follower performs against its master: PING, REPLCONF
// listening-port, REPLCONF capa psync2, then PSYNC. It reads replies
// with internal/resp's incremental decoder rather than a line-oriented
// bufio reader, since a RESP reply isn't guaranteed to be one line.
package replica

import (
	"context"
	"errors"
	"fmt"
	"net"

	"redikv/internal/resp"
)

const readChunkSize = 1024

// Client is a minimal RESP client: write one command, read one reply.
// Unlike internal/server's pool, a replica handshake is strictly
// request-then-response, so there is no concurrent-connection handling
// to do here.
type Client struct {
	conn net.Conn
	buf  []byte
}

// Dial connects to addr and returns a ready Client.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("replica: dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// Do sends args as a RESP command array and returns the single reply
// that follows.
func (c *Client) Do(args ...string) (resp.Message, error) {
	if _, err := c.conn.Write(resp.WriteCommand(args...)); err != nil {
		return resp.Message{}, fmt.Errorf("replica: write %v: %w", args, err)
	}
	return c.readMessage()
}

func (c *Client) readMessage() (resp.Message, error) {
	chunk := make([]byte, readChunkSize)
	for {
		msg, n, err := resp.Decode(c.buf)
		if err == nil {
			c.buf = c.buf[n:]
			return msg, nil
		}
		if !errors.Is(err, resp.ErrNotEnoughBytes) && !errors.Is(err, resp.ErrNoStartingByte) {
			return resp.Message{}, fmt.Errorf("replica: decode reply: %w", err)
		}

		read, rerr := c.conn.Read(chunk)
		if read > 0 {
			c.buf = append(c.buf, chunk[:read]...)
		}
		if rerr != nil {
			return resp.Message{}, fmt.Errorf("replica: read reply: %w", rerr)
		}
	}
}
