package prompt

// Stats counts what the prompt has done since construction.
type Stats struct {
	Ticks          uint64 `json:"ticks"`
	Parsed         uint64 `json:"parsed"`
	ParseErrors    uint64 `json:"parse_errors"`
	DispatchErrors uint64 `json:"dispatch_errors"`
	Replies        uint64 `json:"replies"`
	// Dropped counts lines rejected for exceeding the message length.
	Dropped uint64 `json:"dropped"`
	// Deferred counts ticks where a line waited for a free buffer.
	Deferred uint64 `json:"deferred"`
	// Unsent counts replies cut short by a failing transport.
	Unsent   uint64 `json:"unsent"`
	IOErrors uint64 `json:"io_errors"`
}
