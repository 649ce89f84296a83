package command

import "redikv/internal/resp"

func handleGet(env *Env, args []resp.Message) resp.Message {
	if len(args) != 1 {
		return wrongArgCount("GET")
	}
	key, ok := bulkArg(args, 0)
	if !ok {
		return wrongArgCount("GET")
	}
	entry, found := env.Store.Get(string(key))
	if !found {
		return resp.NullBulkString()
	}
	return resp.BulkStringFromString(entry.Value)
}
