package models

// OutcomeKind classifies what happened to one file of a batch.
type OutcomeKind int

const (
	// OutcomeRejected: failed client-side validation, nothing was sent.
	OutcomeRejected OutcomeKind = iota
	// OutcomeFailed: transport failure, bad status, malformed response or
	// a result the backend did not store.
	OutcomeFailed
	// OutcomeStored: clean result stored on the first attempt.
	OutcomeStored
	// OutcomeReviewed: flagged, then re-submitted with blur or force.
	OutcomeReviewed
	// OutcomeSkipped: flagged and cancelled by the user.
	OutcomeSkipped
	// OutcomeDefect: flagged but the original bytes were unavailable.
	OutcomeDefect
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	case OutcomeStored:
		return "stored"
	case OutcomeReviewed:
		return "reviewed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDefect:
		return "defect"
	default:
		return "unknown"
	}
}

// Outcome is the observable result for one file (or one backend result when
// the backend returns several for a file).
type Outcome struct {
	Filename string
	Kind     OutcomeKind
	Decision ReviewDecision
	// Result is the last result received for the file, if any.
	Result *DetectionResult
	Err    error
}
