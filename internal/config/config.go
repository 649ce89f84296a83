// Package config holds the server's immutable configuration, built
// once at startup from CLI flags optionally layered over a YAML file,
// and cloned for any reader after that.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Role distinguishes a master from a follower server.
type Role int

const (
	RoleMaster Role = iota
	RoleFollower
)

// ReplicaOf names the upstream master a follower replicates from.
type ReplicaOf struct {
	Host string
	Port uint16
}

// Config is the immutable, process-lifetime server configuration.
type Config struct {
	DBDir       string
	DBFilename  string
	ListenHost  string
	ListenPort  uint16
	WorkerCount uint8
	LogLevel    string

	Role      Role
	ReplicaOf *ReplicaOf // nil when Role == RoleMaster

	ReplicationID     string
	ReplicationOffset int64
}

// Defaults mirror the CLI's documented defaults.
const (
	DefaultHost       = "127.0.0.1"
	DefaultPort       = 6379
	DefaultThreads    = 4
	DefaultLogLevel   = "error"
	DefaultDir        = "/tmp/redis-files"
	DefaultDBFilename = "redis.rdb"
)

// New builds a Config from already-resolved flag values. Callers (see
// internal/cli) apply YAML-file defaults before calling this, then let
// explicit flags override them.
func New(host string, port uint16, workers uint8, logLevel, dir, dbfilename string, replicaOf *ReplicaOf) (*Config, error) {
	if port == 0 {
		return nil, fmt.Errorf("config: port must be non-zero")
	}
	if workers == 0 {
		return nil, fmt.Errorf("config: worker count must be non-zero")
	}

	replID, err := randomReplicationID()
	if err != nil {
		return nil, fmt.Errorf("config: generating replication id: %w", err)
	}

	cfg := &Config{
		DBDir:             dir,
		DBFilename:        dbfilename,
		ListenHost:        host,
		ListenPort:        port,
		WorkerCount:       workers,
		LogLevel:          logLevel,
		Role:              RoleMaster,
		ReplicationID:     replID,
		ReplicationOffset: 0,
	}
	if replicaOf != nil {
		cfg.Role = RoleFollower
		cfg.ReplicaOf = replicaOf
	}
	return cfg, nil
}

// randomReplicationID produces a 40-hex-character id, matching the
// width of a real Redis replication id.
func randomReplicationID() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Clone returns a value copy of cfg, safe for a reader to hold onto
// without observing any later mutation (there is none — Config is
// immutable after New — but Clone keeps that invariant explicit at
// every call site that hands a Config to a worker goroutine).
func (c *Config) Clone() Config {
	clone := *c
	if c.ReplicaOf != nil {
		r := *c.ReplicaOf
		clone.ReplicaOf = &r
	}
	return clone
}

// DBPath returns the full path to the RDB file this server loads at
// startup.
func (c *Config) DBPath() string {
	if c.DBDir == "" {
		return c.DBFilename
	}
	return c.DBDir + string(os.PathSeparator) + c.DBFilename
}

// FileDefaults is the shape of the optional --config YAML file: every
// field mirrors a CLI flag and is optional, letting the file supply
// partial defaults that explicit flags still override.
type FileDefaults struct {
	Host       *string `yaml:"host"`
	Port       *uint16 `yaml:"port"`
	Threads    *uint8  `yaml:"threads"`
	LogLevel   *string `yaml:"logLevel"`
	Dir        *string `yaml:"dir"`
	DBFilename *string `yaml:"dbfilename"`
	ReplicaOf  *struct {
		Host string `yaml:"host"`
		Port uint16 `yaml:"port"`
	} `yaml:"replicaof"`
}

// LoadFileDefaults reads and parses an optional YAML defaults file.
func LoadFileDefaults(path string) (*FileDefaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var fd FileDefaults
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &fd, nil
}
