package dispatcher

import (
	"golang.org/x/time/rate"

	"github.com/goliatone/go-prompt/dialect"
	"github.com/goliatone/go-prompt/rpc"
)

// InvokeRequest carries the bound call through middleware.
type InvokeRequest struct {
	Op          dialect.OpType
	Module      string
	Model       *rpc.Model
	Argument    string
	HasArgument bool
}

// InvokeHandler executes one invoke step in a middleware chain.
type InvokeHandler func(req InvokeRequest) rpc.Result

// Middleware wraps invocation with cross-cutting behavior.
type Middleware func(next InvokeHandler) InvokeHandler

func callModel(req InvokeRequest) rpc.Result {
	if req.Model == nil {
		return rpc.BadResult("no model bound")
	}
	return req.Model.Call(req.Argument, req.HasArgument)
}

func applyMiddleware(middleware []Middleware, invoke InvokeHandler) InvokeHandler {
	handler := invoke
	for i := len(middleware) - 1; i >= 0; i-- {
		current := middleware[i]
		if current == nil {
			continue
		}
		handler = current(handler)
	}
	return handler
}

// RateLimitText is the reply text of a throttled invocation.
const RateLimitText = "rate limit exceeded"

// RateLimit throttles invocations with a token bucket refilled at perSecond.
// A non positive rate disables throttling.
func RateLimit(perSecond float64, burst int) Middleware {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(next InvokeHandler) InvokeHandler {
		return func(req InvokeRequest) rpc.Result {
			if !limiter.Allow() {
				return rpc.BadResult(RateLimitText)
			}
			return next(req)
		}
	}
}

// Logger is the subset of the prompt logger used by Logging.
type Logger interface {
	Debug(msg string, args ...any)
}

// Logging records every invocation and the status it produced.
func Logging(logger Logger) Middleware {
	return func(next InvokeHandler) InvokeHandler {
		return func(req InvokeRequest) rpc.Result {
			res := next(req)
			name := ""
			if req.Model != nil {
				name = req.Model.Name()
			}
			logger.Debug("invoked %s %s:%s status=%s", req.Op, req.Module, name, res.Status())
			return res
		}
	}
}
