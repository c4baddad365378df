package message

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-prompt/dialect"
	"github.com/goliatone/go-prompt/rpc"
)

func TestParseRequests(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		module  string
		command string
		args    string
		hasArgs bool
	}{
		{name: "no arguments", input: "MOC:roVariable", module: "MOC", command: "roVariable"},
		{name: "single argument", input: "MOC:rwVariable:2", module: "MOC", command: "rwVariable", args: "2", hasArgs: true},
		{name: "several values", input: "SN:set:1|2|3", module: "SN", command: "set", args: "1|2|3", hasArgs: true},
		{name: "empty arguments are absent", input: "MOC:foo:", module: "MOC", command: "foo"},
		{name: "arguments keep separators", input: "MOC:foo:a:b", module: "MOC", command: "foo", args: "a:b", hasArgs: true},
		{name: "two character module", input: "AB:x", module: "AB", command: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Parse([]byte(tt.input))
			require.NoError(t, err)

			assert.Equal(t, tt.module, msg.Module())
			assert.Equal(t, dialect.OperantRequest, msg.Operant())
			assert.Equal(t, dialect.OpRequest, msg.OpType())
			assert.Equal(t, tt.command, msg.CommandOrStatus())

			args, ok := msg.Arguments()
			assert.Equal(t, tt.hasArgs, ok)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestParseUsage(t *testing.T) {
	for _, input := range []string{"?", "?garbage", "??"} {
		msg, err := Parse([]byte(input))
		require.NoError(t, err, input)
		assert.True(t, msg.IsUsage())
		assert.Equal(t, dialect.OpPrintUsage, msg.OpType())
		assert.Equal(t, "?", msg.String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", ErrEmpty},
		{":::", ErrMalformedModule},
		{":1:", ErrMalformedModule},
		{"1:1", ErrMalformedModule},
		{"M:cmd", ErrMalformedModule},
		{"MODU:cmd", ErrMalformedModule},
		{"MO|:cmd", ErrMalformedModule},
		{"M C:cmd", ErrMalformedModule},
		{"\nMC:cmd", ErrMalformedModule},
		{"MOC", ErrMalformedOperant},
		{"MOCroVariable", ErrMalformedOperant},
		{"MOC:", ErrMalformedCommand},
		{"MOC::1", ErrMalformedCommand},
		{"MOC:ro\nVariable", ErrMalformedCommand},
		{"MOC:ro\x00", ErrMalformedCommand},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			msg, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, Message{}, msg)
		})
	}
}

func TestParseDoesNotRetainInput(t *testing.T) {
	buf := []byte("MOC:foo:12")
	msg, err := Parse(buf)
	require.NoError(t, err)

	copy(buf, "XXXXXXXXXX")
	assert.Equal(t, "MOC", msg.Module())
	assert.Equal(t, "foo", msg.CommandOrStatus())
	args, _ := msg.Arguments()
	assert.Equal(t, "12", args)
}

func TestBuild(t *testing.T) {
	msg := Build(rpc.OK("42"), "MOC")
	assert.Equal(t, "MOC<OK:42", msg.String())
	assert.Equal(t, dialect.OpReply, msg.OpType())

	msg = Build(rpc.BadInput(), "MOC")
	assert.Equal(t, "MOC<BAD_INPUT:BAD_INPUT", msg.String())

	msg = Build(rpc.NewEmptyResult(rpc.StatusOK), "MOC")
	assert.Equal(t, "MOC<OK", msg.String())
	_, ok := msg.Arguments()
	assert.False(t, ok)
}

func TestBuildParseRoundTrip(t *testing.T) {
	results := []rpc.Result{
		rpc.OK("42"),
		rpc.OK("1|2|3"),
		rpc.BadResult("sensor offline"),
		rpc.NewResult(rpc.StatusUndefined),
	}

	for _, res := range results {
		built := Build(res, "SEN")
		parsed, err := Parse([]byte(built.String()))
		require.NoError(t, err)

		assert.Equal(t, "SEN", parsed.Module())
		assert.Equal(t, dialect.OperantReply, parsed.Operant())

		status, ok := rpc.ParseStatus(parsed.CommandOrStatus())
		require.True(t, ok)
		assert.Equal(t, res.Status(), status)

		want, _ := res.Text()
		got, ok := parsed.Arguments()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestMessageLenMatchesAppend(t *testing.T) {
	msgs := []Message{
		New("MOC", dialect.OperantRequest, "foo"),
		NewWithArguments("MOC", dialect.OperantRequest, "foo", "1|2"),
		Usage(),
	}
	for _, m := range msgs {
		assert.Len(t, m.AppendTo(nil), m.Len())
	}
}

func TestStressMalformedThenValid(t *testing.T) {
	garbage := []string{"", ":::", ":1:", "1:1", "\n", "\r\n", "MOC", "MOC:", "::x", "<<<", "A<"}
	for i := 0; i < 200; i++ {
		_, err := Parse([]byte(garbage[i%len(garbage)]))
		require.Error(t, err)

		msg, err := Parse([]byte("MOC:roVariable"))
		require.NoError(t, err)
		assert.Equal(t, "MOC:roVariable", msg.String())
	}
}
