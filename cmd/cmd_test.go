package cmd

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"movie-review/pkg/utils"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_PATH", t.TempDir())

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	root := NewRootCommand()

	for _, path := range [][]string{{"serve"}, {"migrate"}, {"admin", "create"}} {
		found, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}

	serve, _, _ := root.Find([]string{"serve"})
	assert.NotNil(t, serve.Flags().Lookup(portFlag))
	migrate, _, _ := root.Find([]string{"migrate"})
	assert.NotNil(t, migrate.Flags().Lookup(versionFlag))
	assert.NotNil(t, migrate.Flags().Lookup(timeoutFlag))
}

func TestMigrateMemoryIsNoop(t *testing.T) {
	out, err := run(t, "migrate", "--datastore-engine", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "no migrations to run")
}

func TestAdminCreate(t *testing.T) {
	_, err := run(t, "admin", "create", "--datastore-engine", "memory",
		"--username", "root", "--email", "root@example.com", "--password", "adminpass123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistent datastore")

	_, err = run(t, "admin", "create", "--datastore-engine", "memory")
	require.Error(t, err)
}

func TestOpenRepository(t *testing.T) {
	cfg := &utils.Config{Datastore: utils.DatastoreConfig{Engine: "memory"}}
	repo, closeRepo, err := openRepository(context.Background(), cfg, false, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, repo.Review)
	closeRepo()

	cfg.Datastore.Engine = "mongo"
	_, _, err = openRepository(context.Background(), cfg, false, zap.NewNop())
	require.Error(t, err)
}

func TestAPIServerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- APIServer(ctx, nil, "0", zap.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestInFlightRequestOutlivesCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	release := make(chan struct{})
	ctxErr := make(chan error, 1)
	srv := newHTTPServer(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		ctxErr <- r.Context().Err()
		w.WriteHeader(http.StatusNoContent)
	}), "0")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	status := make(chan int, 1)
	go func() {
		resp, err := client.Get("http://" + ln.Addr().String())
		if err != nil {
			status <- 0
			return
		}
		resp.Body.Close()
		status <- resp.StatusCode
	}()

	<-started
	cancel()
	close(release)

	require.NoError(t, <-ctxErr)
	assert.Equal(t, http.StatusNoContent, <-status)
}
