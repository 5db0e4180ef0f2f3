// Package livestream holds the session state machine and frame decoding for
// the live camera feed. The transition function does no I/O; the session
// runner in services interprets its effects.
package livestream

import (
	"fmt"

	"github.com/dmitrijs2005/securevision/internal/client/models"
	"github.com/dmitrijs2005/securevision/internal/common"
)

type Event int

const (
	EventConnect Event = iota
	EventConfirmed
	EventDeclined
	EventOpened
	EventOpenFailed
	EventFrame
	EventDisconnect
	EventDismiss
	EventPeerClosed
	EventAcked
)

var eventNames = [...]string{
	"connect", "confirmed", "declined", "opened", "open-failed",
	"frame", "disconnect", "dismiss", "peer-closed", "acked",
}

func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("event(%d)", int(e))
}

type Effect int

const (
	EffectPrompt Effect = iota
	EffectDial
	EffectShowSurface
	EffectHideSurface
	EffectRender
	EffectCloseConn
	EffectSendDisconnect
	EffectNotifyConnected
	EffectNotifyDisconnected
	EffectNotifyPeerClosed
	EffectNotifyError
)

// Next returns the state following s under e and the effects to carry out.
// Frames outside Streaming and a peer close during an explicit disconnect
// are dropped without error. Surface effects are derived from the change in
// SurfaceVisible between s and the next state.
func Next(s models.ConnectionState, e Event) (models.ConnectionState, []Effect, error) {
	next, effects, err := step(s, e)
	if err != nil {
		return s, nil, err
	}

	switch was, is := s.SurfaceVisible(), next.SurfaceVisible(); {
	case !was && is:
		effects = append([]Effect{EffectShowSurface}, effects...)
	case was && !is:
		effects = append([]Effect{EffectHideSurface}, effects...)
	}
	return next, effects, nil
}

func step(s models.ConnectionState, e Event) (models.ConnectionState, []Effect, error) {
	switch e {
	case EventFrame:
		if s == models.StateStreaming {
			return s, []Effect{EffectRender}, nil
		}
		return s, nil, nil

	case EventPeerClosed:
		switch s {
		case models.StateStreaming, models.StateConnecting:
			return models.StateDisconnected, []Effect{EffectCloseConn, EffectNotifyPeerClosed}, nil
		default:
			return s, nil, nil
		}

	case EventDismiss:
		if s == models.StateDisconnected || s == models.StateDisconnecting {
			return s, nil, nil
		}
		return models.StateDisconnecting, []Effect{EffectCloseConn, EffectSendDisconnect}, nil
	}

	switch s {
	case models.StateDisconnected:
		if e == EventConnect {
			return models.StateConnecting, []Effect{EffectPrompt}, nil
		}

	case models.StateConnecting:
		switch e {
		case EventDeclined:
			return models.StateDisconnected, nil, nil
		case EventConfirmed:
			return s, []Effect{EffectDial}, nil
		case EventOpened:
			return models.StateStreaming, []Effect{EffectNotifyConnected}, nil
		case EventOpenFailed:
			return models.StateDisconnected, []Effect{EffectNotifyError}, nil
		case EventDisconnect:
			return models.StateDisconnecting, []Effect{EffectCloseConn, EffectSendDisconnect}, nil
		}

	case models.StateStreaming:
		if e == EventDisconnect {
			return models.StateDisconnecting, []Effect{EffectCloseConn, EffectSendDisconnect}, nil
		}

	case models.StateDisconnecting:
		if e == EventAcked {
			return models.StateDisconnected, []Effect{EffectNotifyDisconnected}, nil
		}
	}

	return s, nil, fmt.Errorf("%w: livestream %s on %s", common.ErrInvalidTransition, s, e)
}
