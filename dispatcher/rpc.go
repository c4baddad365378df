package dispatcher

import (
	"github.com/goliatone/go-prompt/dialect"
	"github.com/goliatone/go-prompt/rpc"
)

// RPC is a bound invocation. It borrows its model from the Factory that
// built it and must not outlive it.
type RPC struct {
	op          dialect.OpType
	module      string
	model       *rpc.Model
	argument    string
	hasArgument bool
	invoke      InvokeHandler
}

func (r RPC) OpType() dialect.OpType {
	return r.op
}

func (r RPC) Module() string {
	return r.module
}

// Model returns the bound model. The usage RPC is bound to an anonymous
// model.
func (r RPC) Model() *rpc.Model {
	return r.model
}

// Argument returns the argument value and whether one was supplied.
func (r RPC) Argument() (string, bool) {
	return r.argument, r.hasArgument
}

// Invoke runs the bound model through the factory middleware chain.
func (r RPC) Invoke() rpc.Result {
	req := InvokeRequest{
		Op:          r.op,
		Module:      r.module,
		Model:       r.model,
		Argument:    r.argument,
		HasArgument: r.hasArgument,
	}
	if r.invoke == nil {
		return callModel(req)
	}
	return r.invoke(req)
}
