// Package cli turns the server's command-line flags into a validated
// config.Config. There is exactly one mode: start the server.
package cli

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"redikv/internal/config"
)

// Parse reads args (normally os.Args[1:]) into a Config. An optional
// --config <path> YAML file is read first and supplies defaults that
// explicit flags still override.
func Parse(args []string) (*config.Config, error) {
	configPath := extractFlagValue(args, "config")

	defaults := struct {
		host       string
		port       int
		threads    int
		logLevel   string
		dir        string
		dbfilename string
	}{
		host:       config.DefaultHost,
		port:       config.DefaultPort,
		threads:    config.DefaultThreads,
		logLevel:   config.DefaultLogLevel,
		dir:        config.DefaultDir,
		dbfilename: config.DefaultDBFilename,
	}

	var fileReplicaOf *config.ReplicaOf
	if configPath != "" {
		fd, err := config.LoadFileDefaults(configPath)
		if err != nil {
			return nil, err
		}
		if fd.Host != nil {
			defaults.host = *fd.Host
		}
		if fd.Port != nil {
			defaults.port = int(*fd.Port)
		}
		if fd.Threads != nil {
			defaults.threads = int(*fd.Threads)
		}
		if fd.LogLevel != nil {
			defaults.logLevel = *fd.LogLevel
		}
		if fd.Dir != nil {
			defaults.dir = *fd.Dir
		}
		if fd.DBFilename != nil {
			defaults.dbfilename = *fd.DBFilename
		}
		if fd.ReplicaOf != nil {
			fileReplicaOf = &config.ReplicaOf{Host: fd.ReplicaOf.Host, Port: fd.ReplicaOf.Port}
		}
	}

	fs := flag.NewFlagSet("redis-server", flag.ContinueOnError)
	host := fs.String("host", defaults.host, "address to listen on")
	port := fs.Int("port", defaults.port, "port to listen on")
	threads := fs.Int("threads", defaults.threads, "number of worker threads")
	logLevel := fs.String("log-level", defaults.logLevel, "trace, debug, info, warn, error, or off")
	dir := fs.String("dir", defaults.dir, "directory holding the RDB file")
	dbfilename := fs.String("dbfilename", defaults.dbfilename, "RDB file name")
	replicaof := fs.String("replicaof", "", "<MASTER_HOST> <MASTER_PORT>: run as a replica of the named master")
	fs.String("config", "", "path to an optional YAML defaults file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var replicaOf *config.ReplicaOf
	if *replicaof != "" {
		if fs.NArg() < 1 {
			return nil, fmt.Errorf("cli: --replicaof %s requires a port argument", *replicaof)
		}
		masterPort, err := strconv.ParseUint(fs.Arg(0), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("cli: --replicaof port %q: %w", fs.Arg(0), err)
		}
		replicaOf = &config.ReplicaOf{Host: *replicaof, Port: uint16(masterPort)}
	} else {
		replicaOf = fileReplicaOf
	}

	if *port < 0 || *port > 65535 {
		return nil, fmt.Errorf("cli: --port %d out of range", *port)
	}
	if *threads < 1 || *threads > 255 {
		return nil, fmt.Errorf("cli: --threads %d out of range", *threads)
	}
	if _, err := parseLevelName(*logLevel); err != nil {
		return nil, err
	}

	return config.New(*host, uint16(*port), uint8(*threads), *logLevel, *dir, *dbfilename, replicaOf)
}

// extractFlagValue does a lightweight first pass over args looking for
// --name/-name in either "-name value" or "-name=value" form, used
// only to find --config before the real FlagSet runs (flag.FlagSet
// would otherwise error on an unregistered flag it sees before -config
// is registered, so this has to happen as a separate pass).
func extractFlagValue(args []string, name string) string {
	long, short := "--"+name, "-"+name
	for i, a := range args {
		switch {
		case a == long, a == short:
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, long+"="):
			return strings.TrimPrefix(a, long+"=")
		case strings.HasPrefix(a, short+"="):
			return strings.TrimPrefix(a, short+"=")
		}
	}
	return ""
}

func parseLevelName(s string) (string, error) {
	switch strings.ToLower(s) {
	case "trace", "debug", "info", "warn", "warning", "error", "off":
		return strings.ToLower(s), nil
	default:
		return "", fmt.Errorf("cli: unknown --log-level %q", s)
	}
}
