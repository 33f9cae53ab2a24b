package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dialogs/dialog-io-service/config"
	"github.com/stretchr/testify/require"
)

func TestServeAndClientCommands(t *testing.T) {

	clearEnv(t)
	t.Setenv(config.EnvConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))

	port := freePort(t)
	metricsPort := freePort(t)

	ctx, cancel := context.WithCancel(context.Background())

	chErr := make(chan error, 1)
	go func() {
		chErr <- execute(ctx, nil, "serve",
			"--port", strconv.Itoa(port),
			"--metrics-port", strconv.Itoa(metricsPort),
			"--workers", "2",
			"--log-level", "error")
	}()

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	metricsURL := "http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(metricsPort))
	waitHTTP(t, metricsURL+"/health")
	waitTCP(t, addr)

	out := bytes.NewBuffer(nil)
	require.NoError(t, execute(context.Background(), out, "ping", "--addr", addr, "hello"))
	require.Equal(t, "pong:hello\n", out.String())

	path := filepath.Join(t.TempDir(), "file.txt")

	out.Reset()
	require.NoError(t, execute(context.Background(), out, "write", "--addr", addr, path, "some content"))
	require.Equal(t, "true\n", out.String())

	out.Reset()
	require.NoError(t, execute(context.Background(), out, "read", "--addr", addr, path))
	require.Equal(t, "some content", out.String())

	err := execute(context.Background(), nil, "read", "--addr", addr, filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "NotFound"), err.Error())

	res, err := http.Get(metricsURL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())

	text := string(body)
	require.True(t, strings.Contains(text, `io_requests_total{method="Ping"} 1`), text)
	require.True(t, strings.Contains(text, `io_requests_total{method="ReadFile"} 2`), text)
	require.True(t, strings.Contains(text, `io_requests_total{method="WriteFile"} 1`), text)

	cancel()
	require.NoError(t, <-chErr)
}

func TestServeInvalidConfig(t *testing.T) {

	clearEnv(t)
	t.Setenv(config.EnvConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))

	err := execute(context.Background(), nil, "serve", "--log-level", "verbose")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "logger level"), err.Error())

	err = execute(context.Background(), nil, "serve", "--port", "70000")
	require.EqualError(t, err, "invalid port 'port': 70000")
}

func TestClientCommandArgs(t *testing.T) {

	require.Error(t, execute(context.Background(), nil, "ping"))
	require.Error(t, execute(context.Background(), nil, "write", "path"))
	require.Error(t, execute(context.Background(), nil, "read", "a", "b"))
}

func TestDefaultAddr(t *testing.T) {

	require.Equal(t, "localhost:50051", defaultAddr(&config.Config{
		Port: config.DefaultPort,
		Node: config.Node{Host: "localhost"},
	}))
}

func execute(ctx context.Context, out io.Writer, args ...string) error {

	if out == nil {
		out = io.Discard
	}

	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)

	return cmd.ExecuteContext(ctx)
}

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}

func waitHTTP(t *testing.T, url string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for {
		res, err := http.Get(url)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				return
			}
		}

		require.True(t, time.Now().Before(deadline), "service is not ready: %v", err)
		time.Sleep(10 * time.Millisecond)
	}
}

func waitTCP(t *testing.T, addr string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for {
		conn, err := net.DialTimeout("tcp", addr, time.Second)
		if err == nil {
			require.NoError(t, conn.Close())
			return
		}

		require.True(t, time.Now().Before(deadline), "service is not ready: %v", err)
		time.Sleep(10 * time.Millisecond)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()

	for _, name := range []string{
		"PORT", "METRICS_PORT", config.EnvConfigFile,
		"IOSERVICE_PORT", "IOSERVICE_METRICS_PORT",
		"IOSERVICE_NODE_PORT", "IOSERVICE_WORKER_COUNT",
		"IOSERVICE_LOG_LEVEL", "IOSERVICE_LOG_DEBUG",
	} {
		t.Setenv(name, "")
	}
}
