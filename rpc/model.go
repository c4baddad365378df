package rpc

import (
	"strings"

	"github.com/goliatone/go-prompt/dialect"
)

// Func is the invocation closure of a Model. present is false when the
// request carried no arguments.
type Func func(arg string, present bool) Result

// Model is one named remote callable procedure.
type Model struct {
	name string
	help string
	call Func
}

// NewModel builds a Model. A nil call always answers BAD_RESULT.
func NewModel(name string, call Func) Model {
	return Model{name: name, call: call}
}

// WithHelp returns a copy of m carrying help text for the usage directory.
func (m Model) WithHelp(help string) Model {
	m.help = help
	return m
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Help() string {
	return m.help
}

// Call invokes the model.
func (m *Model) Call(arg string, present bool) Result {
	if m.call == nil {
		return BadResult("model " + m.name + " has no handler")
	}
	return m.call(arg, present)
}

// SplitValues splits an argument substring into its individual values.
func SplitValues(arg string) []string {
	if arg == "" {
		return nil
	}
	return strings.Split(arg, string(dialect.ValueSeparator))
}
