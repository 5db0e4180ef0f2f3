// Package review holds the transition function of the sensitive-content
// review workflow. It performs no I/O: callers interpret the returned
// effects.
package review

import (
	"fmt"

	"github.com/dmitrijs2005/securevision/internal/client/models"
	"github.com/dmitrijs2005/securevision/internal/common"
)

type Phase int

const (
	PhasePending Phase = iota
	PhaseAwaitingDecision
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingDecision:
		return "awaiting-decision"
	case PhaseResolved:
		return "resolved"
	default:
		return "pending"
	}
}

type State struct {
	Phase    Phase
	Decision models.ReviewDecision
}

type Event int

const (
	// EventStart is raised once the original submission is available.
	EventStart Event = iota
	// EventOriginalMissing is raised when the original cannot be located.
	EventOriginalMissing
	EventConfirm
	EventDeny
	EventDismiss
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventOriginalMissing:
		return "original-missing"
	case EventConfirm:
		return "confirm"
	case EventDeny:
		return "deny"
	case EventDismiss:
		return "dismiss"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

type Effect int

const (
	EffectPrompt Effect = iota
	EffectResubmitBlur
	EffectResubmitForce
	EffectNotifySkipped
	EffectReportDefect
)

// Next returns the state following s under e together with the effects the
// caller must carry out. A resolved review accepts no further events.
func Next(s State, e Event) (State, []Effect, error) {
	switch s.Phase {
	case PhasePending:
		switch e {
		case EventStart:
			return State{Phase: PhaseAwaitingDecision}, []Effect{EffectPrompt}, nil
		case EventOriginalMissing:
			return State{Phase: PhaseResolved, Decision: models.DecisionPending}, []Effect{EffectReportDefect}, nil
		}

	case PhaseAwaitingDecision:
		switch e {
		case EventConfirm:
			return resolved(models.DecisionBlurAndReupload), []Effect{EffectResubmitBlur}, nil
		case EventDeny:
			return resolved(models.DecisionUploadAnyway), []Effect{EffectResubmitForce}, nil
		case EventDismiss:
			return resolved(models.DecisionCancelled), []Effect{EffectNotifySkipped}, nil
		}
	}

	return s, nil, fmt.Errorf("%w: review %s on %s", common.ErrInvalidTransition, s.Phase, e)
}

func resolved(d models.ReviewDecision) State {
	return State{Phase: PhaseResolved, Decision: d}
}
