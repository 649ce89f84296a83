package command

import (
	"strings"

	"redikv/internal/resp"
)

// configValue looks up the handful of parameter names CONFIG GET
// recognizes; lookup is case-insensitive and reply keys are always
// lowercase, regardless of how the client cased the request.
func configValue(env *Env, name string) (string, bool) {
	switch strings.ToLower(name) {
	case "dir":
		return env.Config.Dir, true
	case "dbfilename":
		return env.Config.DBFilename, true
	default:
		return "", false
	}
}

func handleConfig(env *Env, args []resp.Message) resp.Message {
	if len(args) < 1 {
		return wrongArgCount("CONFIG")
	}
	sub, ok := bulkArg(args, 0)
	if !ok {
		return wrongArgCount("CONFIG")
	}
	switch strings.ToUpper(string(sub)) {
	case "GET":
		if len(args) != 2 {
			return wrongArgCount("CONFIG|GET")
		}
		name, ok := bulkArg(args, 1)
		if !ok {
			return wrongArgCount("CONFIG|GET")
		}
		val, known := configValue(env, string(name))
		if !known {
			return resp.Array()
		}
		return resp.ArrayOfBulkStrings(strings.ToLower(string(name)), val)
	case "SET":
		return resp.Errf("ERR CONFIG SET is not supported by this server")
	case "HELP":
		return resp.ArrayOfBulkStrings(
			"CONFIG <subcommand> [<arg> [value] [opt] ...]. Subcommands are:",
			"GET <parameter>",
			"    Return the named parameter (dir or dbfilename) and its value; no glob matching.",
			"HELP",
			"    Print this help.",
		)
	case "REWRITE":
		return resp.Err("ERR The server is running without a config file")
	case "RESETSTAT":
		return resp.SimpleString("OK")
	default:
		return resp.Errf("ERR Unknown CONFIG subcommand '%s'", string(sub))
	}
}
