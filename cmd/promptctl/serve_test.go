package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	prompt "github.com/goliatone/go-prompt"
	"github.com/goliatone/go-prompt/subsystem/system"
)

func waitEOF(t *testing.T, p *stdioPort) {
	t.Helper()
	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.err != nil
	}, time.Second, time.Millisecond)
}

func TestStdioPortDrainsThenReportsEOF(t *testing.T) {
	out := &bytes.Buffer{}
	port := newStdioPort(strings.NewReader("SYS:echo:1\n"), out)
	waitEOF(t, port)
	assert.False(t, port.Closed(), "unread input keeps the port open")

	buf := make([]byte, 4)
	n, err := port.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "SYS:", string(buf[:n]))

	rest, err := io.ReadAll(io.LimitReader(port, 7))
	require.NoError(t, err)
	assert.Equal(t, "echo:1\n", string(rest))

	_, err = port.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
	assert.True(t, port.Closed())
}

func TestServeAnswersPipedInputAndExits(t *testing.T) {
	out := &bytes.Buffer{}
	port := newStdioPort(strings.NewReader("SYS:echo:a\nSYS:echo:b\nbogus\nSYS:echo:c\n"), out)
	logger := prompt.NewFmtLogger(io.Discard)

	p := prompt.Open(prompt.DefaultConfig(), port, prompt.WithLogger(logger))
	require.NoError(t, system.New().Register(p))
	require.NoError(t, p.Initialize())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, serve(ctx, p, port, time.Millisecond, logger))

	assert.Equal(t, "SYS<OK:a\r\nSYS<OK:b\r\nSYS<OK:c\r\n", out.String())
	assert.Equal(t, uint64(1), p.Stats().ParseErrors)
}

func TestServeStopsOnCancel(t *testing.T) {
	port := newStdioPort(blockingReader{}, io.Discard)
	p := prompt.Open(prompt.DefaultConfig(), port, prompt.WithLogger(prompt.NewFmtLogger(io.Discard)))
	require.NoError(t, p.Initialize())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, serve(ctx, p, port, time.Millisecond, prompt.NewFmtLogger(io.Discard)))
	assert.Greater(t, p.Stats().Ticks, uint64(0))
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}

func TestHeartbeatLogsStats(t *testing.T) {
	var logs bytes.Buffer
	port := newStdioPort(strings.NewReader(""), io.Discard)
	p := prompt.Open(prompt.DefaultConfig(), port)
	require.NoError(t, p.Initialize())
	require.NoError(t, p.Update())

	require.NoError(t, heartbeat(p, prompt.NewFmtLogger(&logs))(context.Background()))
	assert.Contains(t, logs.String(), "heartbeat ticks=1")
}

func TestGlobalsLoadConfig(t *testing.T) {
	cfg, err := (&Globals{}).loadConfig()
	require.NoError(t, err)
	assert.Equal(t, prompt.DefaultConfig(), cfg)
}
