package models

// ReviewDecision is the outcome of reviewing a flagged file. It starts as
// DecisionPending and moves exactly once to a terminal value.
type ReviewDecision int

const (
	DecisionPending ReviewDecision = iota
	DecisionBlurAndReupload
	DecisionUploadAnyway
	DecisionCancelled
)

func (d ReviewDecision) String() string {
	switch d {
	case DecisionBlurAndReupload:
		return "blur-and-reupload"
	case DecisionUploadAnyway:
		return "upload-anyway"
	case DecisionCancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Terminal reports whether d is a final decision.
func (d ReviewDecision) Terminal() bool {
	return d != DecisionPending
}
