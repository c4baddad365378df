package message

import (
	"bytes"

	"github.com/goliatone/go-prompt/dialect"
)

// parseContext tracks offsets into the incoming view. Strings are only cut
// once the whole view has been accepted.
type parseContext struct {
	view []byte
	head int

	moduleEnd    int
	operant      byte
	commandStart int
	commandEnd   int
	argsStart    int
	hasKV        bool

	msg Message
}

func (ctx *parseContext) remaining() []byte {
	return ctx.view[ctx.head:]
}

// parseStage is one step of the incoming pipeline. A stage either fails,
// completes the message (done), or hands over to the next stage.
type parseStage func(ctx *parseContext) (done bool, err error)

var incomingStages = []parseStage{
	rejectEmpty,
	parseUsageRequest,
	parseOperant,
	parseCommand,
	parseArguments,
	finalize,
}

// Parse turns one line of incoming bytes, stripped of delimiters, into a
// Message. The returned message does not reference view.
func Parse(view []byte) (Message, error) {
	ctx := parseContext{view: view}
	for _, stage := range incomingStages {
		done, err := stage(&ctx)
		if err != nil {
			return Message{}, err
		}
		if done {
			return ctx.msg, nil
		}
	}
	return ctx.msg, nil
}

func rejectEmpty(ctx *parseContext) (bool, error) {
	if len(ctx.view) == 0 {
		return false, ErrEmpty
	}
	return false, nil
}

func parseUsageRequest(ctx *parseContext) (bool, error) {
	if ctx.view[0] == dialect.OperantPrintUsage {
		ctx.msg = Usage()
		return true, nil
	}
	return false, nil
}

func parseOperant(ctx *parseContext) (bool, error) {
	op := bytes.IndexFunc(ctx.view, func(r rune) bool {
		return r < 0x80 && dialect.IsOperant(byte(r))
	})
	if op < 0 {
		return false, ErrMalformedOperant
	}
	if !dialect.ValidModuleLength(op) {
		return false, ErrMalformedModule
	}
	for _, c := range ctx.view[:op] {
		if !validModuleByte(c) {
			return false, ErrMalformedModule
		}
	}

	ctx.moduleEnd = op
	ctx.operant = ctx.view[op]
	ctx.head = op + 1
	return false, nil
}

func parseCommand(ctx *parseContext) (bool, error) {
	rest := ctx.remaining()
	end := bytes.IndexByte(rest, dialect.KVSeparator)
	if end < 0 {
		end = len(rest)
	} else {
		ctx.hasKV = true
	}
	if end == 0 {
		return false, ErrMalformedCommand
	}
	for _, c := range rest[:end] {
		if c < 0x20 || c == 0x7f {
			return false, ErrMalformedCommand
		}
	}

	ctx.commandStart = ctx.head
	ctx.commandEnd = ctx.head + end
	ctx.head = ctx.commandEnd
	if ctx.hasKV {
		ctx.head++
	}
	return false, nil
}

func parseArguments(ctx *parseContext) (bool, error) {
	if ctx.hasKV {
		ctx.argsStart = ctx.head
		ctx.head = len(ctx.view)
	}
	return false, nil
}

func finalize(ctx *parseContext) (bool, error) {
	line := string(ctx.view)
	module := line[:ctx.moduleEnd]
	command := line[ctx.commandStart:ctx.commandEnd]
	if ctx.hasKV {
		ctx.msg = NewWithArguments(module, ctx.operant, command, line[ctx.argsStart:])
	} else {
		ctx.msg = New(module, ctx.operant, command)
	}
	return true, nil
}

func validModuleByte(c byte) bool {
	return c > 0x20 && c < 0x7f && c != dialect.ValueSeparator && c != dialect.OperantPrintUsage
}
