package command

import (
	"strings"

	"redikv/internal/resp"
)

// handleKeys implements a trailing-`*` glob only: a bare pattern
// matches that exact key, and a pattern ending in `*` matches every
// key sharing its prefix.
func handleKeys(env *Env, args []resp.Message) resp.Message {
	if len(args) != 1 {
		return wrongArgCount("KEYS")
	}
	patternRaw, ok := bulkArg(args, 0)
	if !ok {
		return wrongArgCount("KEYS")
	}
	pattern := string(patternRaw)

	var matches []string
	if strings.HasSuffix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		for _, k := range env.Store.Keys() {
			if strings.HasPrefix(k, prefix) {
				matches = append(matches, k)
			}
		}
	} else {
		for _, k := range env.Store.Keys() {
			if k == pattern {
				matches = append(matches, k)
			}
		}
	}
	return resp.ArrayOfBulkStrings(matches...)
}
