package command

import (
	"strings"
	"time"

	"redikv/internal/resp"
	"redikv/internal/store"
)

// expiryKind names which, if any, TTL-affecting option was given. SET
// allows at most one of them: they all write the same Entry.Deadline
// field, so specifying more than one is a conflict rather than a
// composable pair of options.
type expiryKind int

const (
	expiryNone expiryKind = iota
	expiryEX
	expiryPX
	expiryEXAT
	expiryPXAT
	expiryKeepTTL
)

type setOptions struct {
	nx, xx, get bool
	expiry      expiryKind
	expiryValue int64
}

// parseSetOptions reads the option tail of a SET command. Options are
// order-independent and case-insensitive; duplicates and combinations
// that can't both be honored (NX+XX, or more than one expiry
// directive) are rejected here, before anything touches the store.
func parseSetOptions(args []resp.Message) (setOptions, resp.Message, bool) {
	var opts setOptions
	i := 0
	for i < len(args) {
		raw, ok := bulkArg(args, i)
		if !ok {
			return opts, resp.Err("ERR syntax error"), false
		}
		switch strings.ToUpper(string(raw)) {
		case "NX":
			if opts.xx {
				return opts, resp.Err("ERR syntax error: NX and XX are mutually exclusive"), false
			}
			if opts.nx {
				return opts, resp.Err("ERR syntax error: NX specified more than once"), false
			}
			opts.nx = true
			i++
		case "XX":
			if opts.nx {
				return opts, resp.Err("ERR syntax error: NX and XX are mutually exclusive"), false
			}
			if opts.xx {
				return opts, resp.Err("ERR syntax error: XX specified more than once"), false
			}
			opts.xx = true
			i++
		case "GET":
			if opts.get {
				return opts, resp.Err("ERR syntax error: GET specified more than once"), false
			}
			opts.get = true
			i++
		case "KEEPTTL":
			if opts.expiry != expiryNone {
				return opts, resp.Err("ERR syntax error: conflicting expire options"), false
			}
			opts.expiry = expiryKeepTTL
			i++
		case "EX", "PX", "EXAT", "PXAT":
			name := strings.ToUpper(string(raw))
			if opts.expiry != expiryNone {
				return opts, resp.Err("ERR syntax error: conflicting expire options"), false
			}
			if i+1 >= len(args) {
				return opts, resp.Err("ERR syntax error"), false
			}
			valRaw, ok := bulkArg(args, i+1)
			if !ok {
				return opts, resp.Err("ERR syntax error"), false
			}
			n, err := parseInt64(string(valRaw))
			if err != nil {
				return opts, resp.Err("ERR value is not an integer or out of range"), false
			}
			switch name {
			case "EX":
				opts.expiry = expiryEX
			case "PX":
				opts.expiry = expiryPX
			case "EXAT":
				opts.expiry = expiryEXAT
			case "PXAT":
				opts.expiry = expiryPXAT
			}
			opts.expiryValue = n
			i += 2
		default:
			return opts, resp.Err("ERR syntax error"), false
		}
	}
	return opts, resp.Message{}, true
}

// deadlineFor converts a parsed expiry option into a monotonic-bearing
// deadline. Absolute options (EXAT/PXAT) are given as a wall-clock Unix
// timestamp; the duration until that instant is measured once against
// time.Now() and re-applied as an offset from that same reading, so the
// resulting Time still carries a monotonic component usable by
// Entry.Expired.
func deadlineFor(opts setOptions, previous store.Entry, existed bool) time.Time {
	now := time.Now()
	switch opts.expiry {
	case expiryEX:
		return now.Add(time.Duration(opts.expiryValue) * time.Second)
	case expiryPX:
		return now.Add(time.Duration(opts.expiryValue) * time.Millisecond)
	case expiryEXAT:
		target := time.Unix(opts.expiryValue, 0)
		return now.Add(target.Sub(now))
	case expiryPXAT:
		target := time.UnixMilli(opts.expiryValue)
		return now.Add(target.Sub(now))
	case expiryKeepTTL:
		if existed {
			return previous.Deadline
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}

func handleSet(env *Env, args []resp.Message) resp.Message {
	if len(args) < 2 {
		return wrongArgCount("SET")
	}
	key, ok := bulkArg(args, 0)
	if !ok {
		return wrongArgCount("SET")
	}
	value, ok := bulkArg(args, 1)
	if !ok {
		return wrongArgCount("SET")
	}

	opts, errMsg, ok := parseSetOptions(args[2:])
	if !ok {
		return errMsg
	}

	guard := func(_ store.Entry, existed bool) bool {
		if opts.nx && existed {
			return false
		}
		if opts.xx && !existed {
			return false
		}
		return true
	}
	build := func(previous store.Entry, existed bool) store.Entry {
		return store.Entry{
			Value:    string(value),
			Deadline: deadlineFor(opts, previous, existed),
		}
	}

	previous, existed, wrote := env.Store.SetIf(string(key), guard, build)
	if !wrote {
		return resp.Err("ERR SET condition not met")
	}
	if opts.get {
		if !existed {
			return resp.NullBulkString()
		}
		return resp.BulkStringFromString(previous.Value)
	}
	return resp.SimpleString("OK")
}
