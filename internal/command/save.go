package command

import "redikv/internal/resp"

// handleSave reports plainly that no snapshot was written rather than
// silently returning OK: this server only ever reads an RDB file at
// startup, it never writes one back out.
func handleSave(_ *Env, _ []resp.Message) resp.Message {
	return resp.Err("ERR SAVE is not supported by this server")
}
