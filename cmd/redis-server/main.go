// Command redis-server is the entrypoint: parse flags, load any RDB
// file on disk, start serving, and kick off a replica handshake in the
// background if configured as a follower.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"redikv/internal/cli"
	"redikv/internal/command"
	"redikv/internal/config"
	"redikv/internal/logger"
	"redikv/internal/rdb"
	"redikv/internal/replica"
	"redikv/internal/server"
	"redikv/internal/store"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := cli.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		logger.Error("config: %v", err)
		return 1
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Error("config: %v", err)
		return 1
	}
	logger.Init(level)

	st := store.New()
	if err := loadRDB(st, cfg); err != nil {
		logger.Error("rdb: %v", err)
		return 1
	}

	env := &command.Env{
		Store: st,
		Config: command.ConfigView{
			Dir:               cfg.DBDir,
			DBFilename:        cfg.DBFilename,
			Role:              roleString(cfg),
			ReplicationID:     cfg.ReplicationID,
			ReplicationOffset: cfg.ReplicationOffset,
		},
	}

	srv := server.New(server.JoinHostPort(cfg.ListenHost, cfg.ListenPort), int(cfg.WorkerCount), env)
	if err := srv.Listen(); err != nil {
		logger.Error("server: %v", err)
		return 1
	}
	logger.Info("listening on %s as %s", srv.Addr(), env.Config.Role)

	if cfg.Role == config.RoleFollower {
		go runHandshake(cfg)
	}

	if err := srv.Serve(); err != nil {
		logger.Error("server: %v", err)
		return 1
	}
	return 0
}

// loadRDB reads the configured RDB file, if present, and populates st
// with its string entries. A missing file is not an error — a fresh
// server simply starts empty.
func loadRDB(st *store.Store, cfg *config.Config) error {
	data, err := os.ReadFile(cfg.DBPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	file, err := rdb.Decode(data)
	if err != nil {
		return err
	}
	for _, e := range file.Entries {
		entry := store.Entry{Value: e.Value}
		if e.HasExpiry() {
			entry.Deadline = deadlineFromUnixMs(e.ExpireAtUnixMs)
		}
		st.Set(e.Key, entry)
	}
	return nil
}

// deadlineFromUnixMs converts an absolute wall-clock RDB expiry into a
// monotonic-bearing Time the same way SET's EXAT/PXAT options do.
func deadlineFromUnixMs(ms int64) time.Time {
	now := time.Now()
	target := time.UnixMilli(ms)
	return now.Add(target.Sub(now))
}

func runHandshake(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	masterAddr := server.JoinHostPort(cfg.ReplicaOf.Host, cfg.ReplicaOf.Port)
	reply, err := replica.Handshake(ctx, masterAddr, cfg.ListenPort)
	if err != nil {
		logger.Warn("replica: handshake with %s failed: %v", masterAddr, err)
		return
	}
	logger.Info("replica: handshake with %s complete: %s", masterAddr, reply)
}

func roleString(cfg *config.Config) string {
	if cfg.Role == config.RoleFollower {
		return "slave"
	}
	return "master"
}
