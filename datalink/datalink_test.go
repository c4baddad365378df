package datalink

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-prompt/message"
	"github.com/goliatone/go-prompt/rpc"
	"github.com/goliatone/go-prompt/stream"
)

type memPort struct {
	in  bytes.Buffer
	out bytes.Buffer
}

func (p *memPort) Read(b []byte) (int, error) {
	if p.in.Len() == 0 {
		return 0, nil
	}
	return p.in.Read(b)
}

func (p *memPort) Write(b []byte) (int, error) {
	return p.out.Write(b)
}

func newLink(cfg Config) (*Datalink, *memPort) {
	port := &memPort{}
	s := stream.NewBufferedStream(port, stream.Config{BufferSize: 128})
	return New(s, cfg), port
}

func TestReadMessageNothingReady(t *testing.T) {
	dl, port := newLink(Config{})

	env, err := dl.ReadMessage()
	assert.NoError(t, err)
	assert.Nil(t, env)

	port.in.WriteString("MOC:ro")
	_, err = dl.Pull()
	require.NoError(t, err)

	env, err = dl.ReadMessage()
	assert.NoError(t, err)
	assert.Nil(t, env)
}

func TestReadMessageParsesOneLineAtATime(t *testing.T) {
	dl, port := newLink(Config{MessageLength: 32, PoolSize: 2})

	port.in.WriteString("MOC:roVariable\r\nMOC:foo:1\r\n")
	_, err := dl.Pull()
	require.NoError(t, err)

	env, err := dl.ReadMessage()
	require.NoError(t, err)
	require.NotNil(t, env)
	assert.Equal(t, "MOC:roVariable", env.Message().String())
	assert.Equal(t, "MOC:roVariable", string(env.Raw()))
	assert.Equal(t, 1, dl.Available())

	env.Release()
	env.Release()
	assert.Nil(t, env.Raw())
	assert.Equal(t, 2, dl.Available())

	env, err = dl.ReadMessage()
	require.NoError(t, err)
	require.NotNil(t, env)
	args, _ := env.Message().Arguments()
	assert.Equal(t, "1", args)
	env.Release()

	env, err = dl.ReadMessage()
	assert.NoError(t, err)
	assert.Nil(t, env)
}

func TestReadMessageParseErrorConsumesLine(t *testing.T) {
	dl, port := newLink(Config{})

	port.in.WriteString(":::\nMOC:foo\n")
	_, _ = dl.Pull()

	env, err := dl.ReadMessage()
	assert.Nil(t, env)
	assert.True(t, errors.Is(err, message.ErrMalformedModule))
	assert.Equal(t, DefaultPoolSize, dl.Available(), "buffer returned on parse failure")

	env, err = dl.ReadMessage()
	require.NoError(t, err)
	require.NotNil(t, env)
	assert.Equal(t, "foo", env.Message().CommandOrStatus())
	env.Release()
}

func TestReadMessageDropsLongLines(t *testing.T) {
	dl, port := newLink(Config{MessageLength: 8})

	port.in.WriteString("MOC:waytoolong\nMOC:ok\n")
	_, _ = dl.Pull()

	_, err := dl.ReadMessage()
	assert.True(t, errors.Is(err, ErrMessageTooLong))
	assert.Equal(t, CodeMessageTooLong, ErrorCode(err))

	env, err := dl.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "MOC:ok", env.Message().String())
	env.Release()
}

func TestReadMessagePoolExhaustionKeepsLine(t *testing.T) {
	dl, port := newLink(Config{PoolSize: 1})

	port.in.WriteString("AA:x\nBB:y\n")
	_, _ = dl.Pull()

	held, err := dl.ReadMessage()
	require.NoError(t, err)
	require.NotNil(t, held)

	_, err = dl.ReadMessage()
	assert.True(t, errors.Is(err, ErrPoolExhausted))

	held.Release()

	env, err := dl.ReadMessage()
	require.NoError(t, err)
	require.NotNil(t, env)
	assert.Equal(t, "BB", env.Message().Module())
	env.Release()
}

func TestWriteMessage(t *testing.T) {
	dl, port := newLink(Config{})

	n, err := dl.WriteMessage(message.Build(rpc.OK("42"), "MOC"))
	require.NoError(t, err)
	assert.Equal(t, len("MOC<OK:42\r\n"), n)
	assert.Empty(t, port.out.String(), "nothing leaves before push")

	_, err = dl.Push()
	require.NoError(t, err)
	assert.Equal(t, "MOC<OK:42\r\n", port.out.String())
}

func TestWriteMessageStreamsLargeReplies(t *testing.T) {
	port := &memPort{}
	dl := New(stream.NewBufferedStream(port, stream.Config{BufferSize: 16}), Config{})

	text := strings.Repeat("0123456789", 5)
	want := "SYS<OK:" + text + "\r\n"

	dl.WriteMessage(message.Build(rpc.OK("1"), "AA"))
	n, err := dl.WriteMessage(message.Build(rpc.OK(text), "SYS"))
	require.NoError(t, err)
	assert.Equal(t, len(want), n)

	_, err = dl.Push()
	require.NoError(t, err)
	assert.Equal(t, "AA<OK:1\r\n"+want, port.out.String(), "earlier replies leave first and nothing is cut")
}

type stalledPort struct{ memPort }

func (p *stalledPort) Write([]byte) (int, error) { return 0, nil }

func TestWriteMessageReportsStalledTransport(t *testing.T) {
	port := &stalledPort{}
	dl := New(stream.NewBufferedStream(port, stream.Config{BufferSize: 8}), Config{})

	n, err := dl.WriteMessage(message.Build(rpc.OK("too long for eight"), "SYS"))
	assert.True(t, errors.Is(err, ErrReplyStalled))
	assert.Equal(t, 8, n)
}

func TestSharedPool(t *testing.T) {
	pool := stream.NewPool(1, 16)
	port := &memPort{}
	dl := New(stream.NewBufferedStream(port, stream.Config{}), Config{MessageLength: 16}, WithPool(pool))

	port.in.WriteString("AA:x\n")
	_, _ = dl.Pull()
	env, err := dl.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, 0, pool.Available())
	env.Release()
	assert.Equal(t, 1, pool.Available())
}
