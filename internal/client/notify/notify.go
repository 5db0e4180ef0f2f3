// Package notify asks the user to confirm choices and shows transient
// notifications. At most one prompt is pending at any time.
package notify

import "context"

type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindWarning
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Choice is the user's answer to a Prompt.
type Choice int

const (
	ChoiceConfirm Choice = iota
	ChoiceDeny
	ChoiceDismiss
)

func (c Choice) String() string {
	switch c {
	case ChoiceConfirm:
		return "confirm"
	case ChoiceDeny:
		return "deny"
	default:
		return "dismiss"
	}
}

// Prompt describes a confirmation dialog. Deny may be empty for a two-way
// dialog; dismissing is always possible.
type Prompt struct {
	Kind    Kind
	Title   string
	Text    string
	Confirm string
	Deny    string
	Cancel  string
}

type Service interface {
	// Prompt blocks until the user answers or ctx is done. A cancelled
	// context yields ChoiceDismiss together with ctx.Err().
	Prompt(ctx context.Context, p Prompt) (Choice, error)

	Success(title, text string)
	Info(title, text string)
	Warn(title, text string)
	Error(title, text string)
}
