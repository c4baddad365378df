package rpc

// Status is the outcome class of an invocation.
type Status uint8

const (
	StatusUndefined Status = iota
	StatusOK
	StatusBadInput
	StatusBadResult
)

var statusNames = [...]string{
	StatusUndefined: "UNDEFINED",
	StatusOK:        "OK",
	StatusBadInput:  "BAD_INPUT",
	StatusBadResult: "BAD_RESULT",
}

// String returns the symbolic name rendered on the wire.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return statusNames[StatusUndefined]
}

// ParseStatus maps a symbolic name back to its Status.
func ParseStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return StatusUndefined, false
}

// Result is what a Model returns: a status plus optional return text.
type Result struct {
	status  Status
	text    string
	hasText bool
}

// NewResult builds a Result from a status alone; the return text is the
// status's symbolic name.
func NewResult(status Status) Result {
	return Result{status: status, text: status.String(), hasText: true}
}

// NewResultWithText builds a Result carrying return text.
func NewResultWithText(status Status, text string) Result {
	return Result{status: status, text: text, hasText: true}
}

// NewEmptyResult builds a Result without return text.
func NewEmptyResult(status Status) Result {
	return Result{status: status}
}

// OK is shorthand for a successful Result carrying text.
func OK(text string) Result {
	return NewResultWithText(StatusOK, text)
}

// BadInput is shorthand for a rejected argument.
func BadInput() Result {
	return NewResult(StatusBadInput)
}

// BadResult reports a failure while producing the answer.
func BadResult(text string) Result {
	return NewResultWithText(StatusBadResult, text)
}

func (r Result) Status() Status {
	return r.status
}

// Text returns the return text and whether one is present.
func (r Result) Text() (string, bool) {
	return r.text, r.hasText
}
