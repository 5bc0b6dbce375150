package main

import (
	"context"
	"net"
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/notes/internal/logging"
)

func TestServe_ReturnsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	server := &stdhttp.Server{Addr: ln.Addr().String(), ReadHeaderTimeout: time.Second}

	err = serve(context.Background(), server, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server:")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	server := &stdhttp.Server{Addr: "127.0.0.1:0", ReadHeaderTimeout: time.Second}

	done := make(chan error, 1)
	go func() { done <- serve(ctx, server, logging.Nop()) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
