package message

import (
	"github.com/goliatone/go-prompt/dialect"
	"github.com/goliatone/go-prompt/rpc"
)

// Build renders res as a reply from module. The status is written as its
// symbolic name and the return text, when present, becomes the arguments.
func Build(res rpc.Result, module string) Message {
	status := res.Status().String()
	if text, ok := res.Text(); ok {
		return NewWithArguments(module, dialect.OperantReply, status, text)
	}
	return New(module, dialect.OperantReply, status)
}
