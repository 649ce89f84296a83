// Package command implements the typestate-staged command pipeline:
// Unparsed -> Parsed -> Executed. Each stage can fail; a failure at
// any stage yields a RESP error reply and never terminates the
// connection.
package command

import (
	"strconv"
	"strings"

	"redikv/internal/resp"
	"redikv/internal/store"
)

// Env is the shared, per-request context every handler executes
// against: the data store and a read-only snapshot of the server
// configuration. Handlers take it explicitly rather than reaching for
// ambient globals.
type Env struct {
	Store  *store.Store
	Config ConfigView
}

// ConfigView is the subset of server configuration CONFIG/INFO expose,
// kept narrow so internal/command doesn't import internal/config and
// create a dependency cycle with internal/server.
type ConfigView struct {
	Dir               string
	DBFilename        string
	Role              string // "master" or "slave", matching Redis's INFO wording
	ReplicationID     string
	ReplicationOffset int64
}

// Unparsed is the first stage: a command name plus its raw argument
// list, exactly as it arrived in the request's RESP array (minus the
// command name itself).
type Unparsed struct {
	Name string
	Args []resp.Message
}

// Handler parses Unparsed arguments and executes against env in one
// step. Splitting "parse" and "execute" into two closures per command
// would add a type parameter per command for little benefit here;
// instead each handler internally stages parse-then-execute and
// returns a RESP error from the parse half without touching env, so a
// parse failure never leaves partial state behind.
type Handler func(env *Env, args []resp.Message) resp.Message

// Registry maps an uppercased command name to its handler.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry builds a registry with every supported command wired in.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.register("PING", handlePing)
	r.register("ECHO", handleEcho)
	r.register("GET", handleGet)
	r.register("SET", handleSet)
	r.register("KEYS", handleKeys)
	r.register("CONFIG", handleConfig)
	r.register("INFO", handleInfo)
	r.register("REPLCONF", handleReplconf)
	r.register("PSYNC", handlePsync)
	r.register("SAVE", handleSave)
	return r
}

func (r *Registry) register(name string, h Handler) {
	r.handlers[name] = h
}

// Dispatch uppercases req.Name and looks it up, matching how real
// Redis commands are conventionally sent in all caps, then runs the
// matching handler or returns the "unknown command" error.
func (r *Registry) Dispatch(env *Env, req Unparsed) resp.Message {
	h, ok := r.handlers[strings.ToUpper(req.Name)]
	if !ok {
		return resp.Errf("ERR unknown command '%s'", req.Name)
	}
	return h(env, req.Args)
}

// FromMessage lifts a decoded RESP Array message (command name + args)
// into an Unparsed request. Returns an error message to send back
// verbatim if the message doesn't have the expected shape.
func FromMessage(m resp.Message) (Unparsed, *resp.Message) {
	if m.Type != resp.TypeArray || len(m.Array) == 0 {
		errMsg := resp.Err("ERR invalid request")
		return Unparsed{}, &errMsg
	}
	head := m.Array[0]
	if head.Type != resp.TypeBulkString {
		errMsg := resp.Err("ERR invalid request")
		return Unparsed{}, &errMsg
	}
	return Unparsed{Name: string(head.Bulk), Args: m.Array[1:]}, nil
}

// wrongArgCount builds the standard arity error.
func wrongArgCount(cmd string) resp.Message {
	return resp.Errf("ERR wrong number of arguments for '%s' command", strings.ToLower(cmd))
}

// bulkArg extracts a bulk string argument by index, reporting failure
// if the argument is missing or isn't a bulk string.
func bulkArg(args []resp.Message, i int) ([]byte, bool) {
	if i >= len(args) || args[i].Type != resp.TypeBulkString {
		return nil, false
	}
	return args[i].Bulk, true
}

// parseInt64 parses a base-10 numeric SET option value. The caller
// turns a failure into Redis's "value is not an integer or out of
// range" error reply.
func parseInt64(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return n, nil
}
