// Package dialect holds the static wire grammar spoken by the prompt.
//
// A request is MODULE:COMMAND or MODULE:COMMAND:ARG1|ARG2, a usage query is a
// single '?', and a reply is MODULE<STATUS or MODULE<STATUS:ARG1|ARG2 followed
// by ReplyTerminator.
package dialect

import "strings"

const (
	// OperantRequest marks a request from a client.
	OperantRequest byte = ':'
	// OperantReply marks a reply from the device.
	OperantReply byte = '<'
	// OperantPrintUsage asks for a directory of every callable procedure.
	OperantPrintUsage byte = '?'

	// KVSeparator splits a command from its arguments.
	KVSeparator byte = ':'
	// ValueSeparator splits individual argument values.
	ValueSeparator byte = '|'

	// MinModuleLength is the shortest accepted module code.
	MinModuleLength = 2
	// MaxModuleLength is the longest accepted module code.
	MaxModuleLength = 3

	// ReplyTerminator closes every serialized reply.
	ReplyTerminator = "\r\n"
	// LineDelimiters split incoming bytes into candidate messages.
	LineDelimiters = "\r\n"

	// APIVersion is the protocol version shown in the usage banner.
	APIVersion = "1.0"
)

// UsageBanner heads the usage directory.
var UsageBanner = "[prompt " + APIVersion + "] usage: <module>" + string(OperantRequest) +
	"<command>[" + string(KVSeparator) + "<arg>" + string(ValueSeparator) + "<arg>...]"

// OpType is the exchange kind selected by an operant.
type OpType uint8

const (
	OpNOP OpType = iota
	OpRequest
	OpReply
	OpPrintUsage
)

var opTypeNames = [...]string{
	OpNOP:        "NOP",
	OpRequest:    "REQUEST",
	OpReply:      "REPLY",
	OpPrintUsage: "PRINT_USAGE",
}

func (o OpType) String() string {
	if int(o) < len(opTypeNames) {
		return opTypeNames[o]
	}
	return opTypeNames[OpNOP]
}

// OpTypeForOperant maps an operant character to its exchange kind. Unknown
// characters yield OpNOP.
func OpTypeForOperant(operant byte) OpType {
	switch operant {
	case OperantRequest:
		return OpRequest
	case OperantReply:
		return OpReply
	case OperantPrintUsage:
		return OpPrintUsage
	default:
		return OpNOP
	}
}

// IsOperant reports whether c can separate a module from its command.
func IsOperant(c byte) bool {
	return c == OperantRequest || c == OperantReply
}

// IsDelimiter reports whether c terminates an incoming line.
func IsDelimiter(c byte) bool {
	return strings.IndexByte(LineDelimiters, c) >= 0
}

// ValidModuleLength reports whether n is an acceptable module name length.
func ValidModuleLength(n int) bool {
	return n >= MinModuleLength && n <= MaxModuleLength
}
