package config

import (
	"os"
	"testing"
)

func TestNewMaster(t *testing.T) {
	cfg, err := New(DefaultHost, DefaultPort, DefaultThreads, DefaultLogLevel, DefaultDir, DefaultDBFilename, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Role != RoleMaster {
		t.Fatalf("role = %v, want RoleMaster", cfg.Role)
	}
	if len(cfg.ReplicationID) != 40 {
		t.Fatalf("replication id length = %d, want 40", len(cfg.ReplicationID))
	}
}

func TestNewFollower(t *testing.T) {
	cfg, err := New(DefaultHost, 6380, DefaultThreads, DefaultLogLevel, DefaultDir, DefaultDBFilename, &ReplicaOf{Host: "localhost", Port: 6379})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Role != RoleFollower || cfg.ReplicaOf == nil {
		t.Fatalf("expected follower role, got %+v", cfg)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg, err := New(DefaultHost, DefaultPort, DefaultThreads, DefaultLogLevel, DefaultDir, DefaultDBFilename, &ReplicaOf{Host: "h", Port: 1})
	if err != nil {
		t.Fatal(err)
	}
	clone := cfg.Clone()
	clone.ReplicaOf.Host = "mutated"
	if cfg.ReplicaOf.Host == "mutated" {
		t.Fatal("Clone must deep-copy ReplicaOf")
	}
}

func TestLoadFileDefaults(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/server.yaml"
	if err := os.WriteFile(path, []byte("host: 0.0.0.0\nport: 7000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fd, err := LoadFileDefaults(path)
	if err != nil {
		t.Fatal(err)
	}
	if fd.Host == nil || *fd.Host != "0.0.0.0" {
		t.Fatalf("host = %v", fd.Host)
	}
	if fd.Port == nil || *fd.Port != 7000 {
		t.Fatalf("port = %v", fd.Port)
	}
}
