package server_test

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"

	"redikv/internal/command"
	"redikv/internal/server"
	"redikv/internal/store"
)

// startTestServer uses go-redis as a verification client: the library
// is never imported by non-test code, only used here to drive this
// package's server through a real client implementation.
func startTestServer(t *testing.T) string {
	t.Helper()
	env := &command.Env{
		Store: store.New(),
		Config: command.ConfigView{
			Dir:        t.TempDir(),
			DBFilename: "redis.rdb",
			Role:       "master",
		},
	}
	srv := server.New("127.0.0.1:0", 4, env)
	if err := srv.Listen(); err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve()
	t.Cleanup(func() { srv.Close() })
	return srv.Addr().String()
}

func TestEndToEndPingSetGetKeys(t *testing.T) {
	addr := startTestServer(t)

	client := goredis.NewClient(&goredis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("PING: %v", err)
	}
	if err := client.Set(ctx, "foo", "bar", 0).Err(); err != nil {
		t.Fatalf("SET: %v", err)
	}
	got, err := client.Get(ctx, "foo").Result()
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if got != "bar" {
		t.Fatalf("GET = %q, want bar", got)
	}

	keys, err := client.Keys(ctx, "fo*").Result()
	if err != nil {
		t.Fatalf("KEYS: %v", err)
	}
	if len(keys) != 1 || keys[0] != "foo" {
		t.Fatalf("KEYS fo* = %v", keys)
	}
}
