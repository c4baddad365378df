package prompt

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/goliatone/go-prompt/dialect"
	"github.com/goliatone/go-prompt/dispatcher"
	"github.com/goliatone/go-prompt/rpc"
)

// PanicText is the reply text of an invocation that panicked.
const PanicText = "model panicked"

type PanicLogger func(funcName string, err any, stack []byte, fields ...map[string]any)

// MakePanicHandler returns a function meant to be deferred directly. It
// recovers a panic and hands it to logger with a trimmed stack.
func MakePanicHandler(logger PanicLogger) func(funcName string, fields ...map[string]any) {
	return func(funcName string, fields ...map[string]any) {
		if err := recover(); err != nil {
			fullStack := make([]byte, 8096)
			n := runtime.Stack(fullStack, false)
			logger(funcName, err, cleanStackTrace(fullStack[:n]), fields...)
		}
	}
}

// LoggerPanicLogger reports recovered panics through logger at error level.
func LoggerPanicLogger(logger Logger) PanicLogger {
	logger = normalizeLogger(logger)
	return func(funcName string, err any, stack []byte, fields ...map[string]any) {
		l := logger
		if len(fields) > 0 && fields[0] != nil {
			l = withLoggerFields(logger, fields[0])
		}
		l.Error("recovered from panic in %s: %v (%T)\n%s", funcName, err, err, stack)
	}
}

// Recover converts a panicking model into a BAD_RESULT reply.
func Recover(logger Logger) dispatcher.Middleware {
	handle := MakePanicHandler(LoggerPanicLogger(logger))
	return func(next dispatcher.InvokeHandler) dispatcher.InvokeHandler {
		return func(req dispatcher.InvokeRequest) (res rpc.Result) {
			res = rpc.BadResult(PanicText)
			defer handle(invokeName(req), map[string]any{
				"module":   req.Module,
				"argument": req.Argument,
			})
			res = next(req)
			return res
		}
	}
}

func invokeName(req dispatcher.InvokeRequest) string {
	if req.Model == nil || req.Model.Name() == "" {
		return fmt.Sprintf("%s %s", req.Op, req.Module)
	}
	return req.Module + string(dialect.OperantRequest) + req.Model.Name()
}

func cleanStackTrace(stack []byte) []byte {
	lines := strings.Split(string(stack), "\n")

	panicLineIndex := -1
	for i, line := range lines {
		if strings.Contains(line, "panic(") {
			panicLineIndex = i
			break
		}
	}

	// drop the panic() frame and its file reference
	if panicLineIndex >= 0 && panicLineIndex+2 < len(lines) {
		lines = lines[panicLineIndex+2:]
	}

	return []byte(strings.Join(lines, "\n"))
}
