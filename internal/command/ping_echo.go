package command

import "redikv/internal/resp"

func handlePing(_ *Env, args []resp.Message) resp.Message {
	if len(args) != 0 {
		return wrongArgCount("PING")
	}
	return resp.SimpleString("PONG")
}

func handleEcho(_ *Env, args []resp.Message) resp.Message {
	if len(args) != 1 {
		return wrongArgCount("ECHO")
	}
	b, ok := bulkArg(args, 0)
	if !ok {
		return wrongArgCount("ECHO")
	}
	return resp.BulkString(b)
}
