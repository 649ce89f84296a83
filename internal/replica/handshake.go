package replica

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"redikv/internal/resp"
)

// Handshake runs the four-step exchange a replica performs against a
// master: PING, REPLCONF listening-port <port>, REPLCONF capa psync2,
// PSYNC ? -1. It returns the FULLRESYNC line the master replies with.
// A deviation at any step (a non-PONG reply, a
// non-OK REPLCONF ack, a PSYNC reply that isn't a FULLRESYNC simple
// string) fails only this handshake — the caller decides whether that
// is fatal to the process or just to replication.
func Handshake(ctx context.Context, masterAddr string, listeningPort uint16) (string, error) {
	client, err := Dial(ctx, masterAddr)
	if err != nil {
		return "", err
	}
	defer client.Close()

	if err := expectSimpleString(client, "PONG", "PING"); err != nil {
		return "", err
	}
	if err := expectOK(client, "REPLCONF", "listening-port", strconv.Itoa(int(listeningPort))); err != nil {
		return "", err
	}
	if err := expectOK(client, "REPLCONF", "capa", "psync2"); err != nil {
		return "", err
	}

	reply, err := client.Do("PSYNC", "?", "-1")
	if err != nil {
		return "", fmt.Errorf("replica: PSYNC: %w", err)
	}
	if reply.Type != resp.TypeSimpleString || !strings.HasPrefix(reply.Str, "FULLRESYNC") {
		return "", fmt.Errorf("replica: PSYNC: expected a FULLRESYNC reply, got %+v", reply)
	}
	return reply.Str, nil
}

func expectSimpleString(c *Client, want string, args ...string) error {
	reply, err := c.Do(args...)
	if err != nil {
		return fmt.Errorf("replica: %s: %w", args[0], err)
	}
	if reply.Type != resp.TypeSimpleString || reply.Str != want {
		return fmt.Errorf("replica: %s: expected %q, got %+v", args[0], want, reply)
	}
	return nil
}

func expectOK(c *Client, args ...string) error {
	return expectSimpleString(c, "OK", args...)
}
