// Package message converts between raw wire bytes and Message values.
package message

import "github.com/goliatone/go-prompt/dialect"

// Message is one parsed or to-be-serialized exchange. It is immutable once
// built.
type Message struct {
	module          string
	operant         byte
	commandOrStatus string
	arguments       string
	hasArguments    bool
}

// New builds a message without arguments.
func New(module string, operant byte, commandOrStatus string) Message {
	return Message{module: module, operant: operant, commandOrStatus: commandOrStatus}
}

// NewWithArguments builds a message carrying an arguments substring. An empty
// substring is treated as absent.
func NewWithArguments(module string, operant byte, commandOrStatus, arguments string) Message {
	m := New(module, operant, commandOrStatus)
	if arguments != "" {
		m.arguments = arguments
		m.hasArguments = true
	}
	return m
}

// Usage is the message produced by a usage query.
func Usage() Message {
	return New(string(dialect.OperantPrintUsage), dialect.OperantPrintUsage, "")
}

func (m Message) Module() string {
	return m.module
}

func (m Message) Operant() byte {
	return m.operant
}

// OpType resolves the operant to its exchange kind.
func (m Message) OpType() dialect.OpType {
	return dialect.OpTypeForOperant(m.operant)
}

// CommandOrStatus is the procedure name of a request or the status text of a
// reply.
func (m Message) CommandOrStatus() string {
	return m.commandOrStatus
}

// Arguments returns the raw arguments substring and whether it is present.
func (m Message) Arguments() (string, bool) {
	return m.arguments, m.hasArguments
}

// IsUsage reports whether m is a usage query.
func (m Message) IsUsage() bool {
	return m.operant == dialect.OperantPrintUsage
}

// Len is the serialized length of m without the reply terminator.
func (m Message) Len() int {
	if m.IsUsage() {
		return 1
	}
	n := len(m.module) + 1 + len(m.commandOrStatus)
	if m.hasArguments {
		n += 1 + len(m.arguments)
	}
	return n
}

// AppendTo appends the wire form of m, without terminator, to dst.
func (m Message) AppendTo(dst []byte) []byte {
	if m.IsUsage() {
		return append(dst, dialect.OperantPrintUsage)
	}
	dst = append(dst, m.module...)
	dst = append(dst, m.operant)
	dst = append(dst, m.commandOrStatus...)
	if m.hasArguments {
		dst = append(dst, dialect.KVSeparator)
		dst = append(dst, m.arguments...)
	}
	return dst
}

// String renders m in wire form without terminator.
func (m Message) String() string {
	return string(m.AppendTo(make([]byte, 0, m.Len())))
}
