package types

// Status is the operator-visible result of one flow.
type Status int

const (
	StatusSucceeded Status = iota
	// StatusPartial covers states such as "created but not started" and
	// "remove-brick started, commit pending".
	StatusPartial
	StatusFailed
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusPartial:
		return "partial"
	case StatusFailed:
		return "failed"
	case StatusAborted:
		return "aborted"
	}
	return "unknown"
}

// Outcome is what a flow hands back to the caller after reporting to the
// operator.
type Outcome struct {
	Status  Status
	Message string
	// FollowUp is a command the operator must run later, if any.
	FollowUp string
	Err      error
	// Rejected holds per-input validation errors for inputs that were
	// excluded without aborting the operation.
	Rejected []error
}

func Succeeded(msg string) Outcome {
	return Outcome{Status: StatusSucceeded, Message: msg}
}

func Partial(msg string, err error) Outcome {
	return Outcome{Status: StatusPartial, Message: msg, Err: err}
}

func Failed(msg string, err error) Outcome {
	return Outcome{Status: StatusFailed, Message: msg, Err: err}
}

func Aborted(msg string) Outcome {
	return Outcome{Status: StatusAborted, Message: msg}
}

func (o Outcome) OK() bool {
	return o.Status == StatusSucceeded
}
