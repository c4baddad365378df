// Package dispatcher holds the consolidated recipe registry and turns parsed
// messages into bound, invokable RPCs.
package dispatcher

import (
	"strings"

	"github.com/goliatone/go-prompt/dialect"
	"github.com/goliatone/go-prompt/message"
	"github.com/goliatone/go-prompt/rpc"
)

const DefaultDirectorySize = 16

// Config sizes the recipe directory.
type Config struct {
	DirectorySize int
}

// Factory is the registry of loaded recipes. Recipes are loaded during
// bring-up only; lookups after that are read-only and need no locking.
type Factory struct {
	recipes    []*rpc.Recipe
	capacity   int
	middleware []Middleware
	invoke     InvokeHandler
	usage      rpc.Model
}

// Option configures a Factory.
type Option func(*Factory)

// WithMiddleware appends invocation middleware. The first middleware given is
// the outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(f *Factory) {
		f.middleware = append(f.middleware, mw...)
	}
}

func NewFactory(cfg Config, opts ...Option) *Factory {
	capacity := cfg.DirectorySize
	if capacity <= 0 {
		capacity = DefaultDirectorySize
	}
	f := &Factory{
		recipes:  make([]*rpc.Recipe, 0, capacity),
		capacity: capacity,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.invoke = applyMiddleware(f.middleware, callModel)
	f.usage = rpc.NewModel("", func(string, bool) rpc.Result {
		return rpc.OK(f.Usage())
	})
	return f
}

// HotloadRecipe loads a consolidated recipe into the directory.
func (f *Factory) HotloadRecipe(r *rpc.Recipe) error {
	if r == nil {
		return ErrNilRecipe
	}
	if !dialect.ValidModuleLength(len(r.Module())) {
		return rpc.ErrInvalidModule.Clone().WithMetadata(map[string]any{
			"module": r.Module(),
		})
	}
	if _, ok := f.recipeForModule(r.Module()); ok {
		return ErrDuplicateRecipe.Clone().WithMetadata(map[string]any{
			"module": r.Module(),
		})
	}
	if len(f.recipes) >= f.capacity {
		return ErrDirectoryFull.Clone().WithMetadata(map[string]any{
			"module":   r.Module(),
			"capacity": f.capacity,
		})
	}
	f.recipes = append(f.recipes, r)
	return nil
}

// Recipes returns the loaded recipes in load order.
func (f *Factory) Recipes() []*rpc.Recipe {
	return f.recipes
}

// FromMessage binds msg to a registered model.
func (f *Factory) FromMessage(msg message.Message) (RPC, error) {
	switch msg.OpType() {
	case dialect.OpRequest:
		return f.rpcForRequest(msg)
	case dialect.OpPrintUsage:
		return RPC{
			op:     dialect.OpPrintUsage,
			module: msg.Module(),
			model:  &f.usage,
			invoke: f.invoke,
		}, nil
	default:
		return RPC{}, ErrInvalidOperant
	}
}

func (f *Factory) rpcForRequest(msg message.Message) (RPC, error) {
	recipe, ok := f.recipeForModule(msg.Module())
	if !ok {
		return RPC{}, ErrUnknownRecipe
	}
	if msg.CommandOrStatus() == "" {
		return RPC{}, ErrMalformedMessage
	}
	model, ok := recipe.FindModel(msg.CommandOrStatus())
	if !ok {
		return RPC{}, ErrUnknownModel
	}

	arg, hasArg := msg.Arguments()
	return RPC{
		op:          dialect.OpRequest,
		module:      recipe.Module(),
		model:       model,
		argument:    arg,
		hasArgument: hasArg && arg != "",
		invoke:      f.invoke,
	}, nil
}

func (f *Factory) recipeForModule(module string) (*rpc.Recipe, bool) {
	for _, r := range f.recipes {
		if r.Module() == module {
			return r, true
		}
	}
	return nil, false
}

// Usage renders the directory of every loaded module and model. The length is
// computed first so the output is written into a buffer of exact size.
func (f *Factory) Usage() string {
	var b strings.Builder
	b.Grow(f.writeUsage(nil))
	f.writeUsage(&b)
	return b.String()
}

const usageLineEnd = "\n\r"

func (f *Factory) writeUsage(b *strings.Builder) int {
	n := 0
	put := func(s string) {
		n += len(s)
		if b != nil {
			b.WriteString(s)
		}
	}

	put(dialect.UsageBanner)
	put(usageLineEnd)
	for _, r := range f.recipes {
		for _, m := range r.Models() {
			put("  ")
			put(r.Module())
			put(string(dialect.OperantRequest))
			put(m.Name())
			if help := m.Help(); help != "" {
				put(" - ")
				put(help)
			}
			put(usageLineEnd)
		}
	}
	return n
}
