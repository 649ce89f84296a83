package command

import (
	"fmt"

	"redikv/internal/resp"
)

// handleReplconf always replies OK: this server doesn't act on the
// listening-port or capa values a replica reports, it just needs to
// accept them to keep the handshake moving.
func handleReplconf(_ *Env, _ []resp.Message) resp.Message {
	return resp.SimpleString("OK")
}

// handlePsync replies with a FULLRESYNC announcement carrying this
// server's replication id and current offset. Streaming the RDB
// payload and subsequent command stream that a real PSYNC triggers is
// out of scope for this server.
func handlePsync(env *Env, _ []resp.Message) resp.Message {
	return resp.SimpleString(fmt.Sprintf("FULLRESYNC %s %d", env.Config.ReplicationID, env.Config.ReplicationOffset))
}
