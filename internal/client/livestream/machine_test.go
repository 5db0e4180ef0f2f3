package livestream

import (
	"testing"

	"github.com/dmitrijs2005/securevision/internal/client/models"
	"github.com/dmitrijs2005/securevision/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	disconnected  = models.StateDisconnected
	connecting    = models.StateConnecting
	streaming     = models.StateStreaming
	disconnecting = models.StateDisconnecting
)

func TestNext_Table(t *testing.T) {
	tests := []struct {
		from    models.ConnectionState
		event   Event
		to      models.ConnectionState
		effects []Effect
	}{
		{disconnected, EventConnect, connecting, []Effect{EffectPrompt}},
		{connecting, EventDeclined, disconnected, nil},
		{connecting, EventConfirmed, connecting, []Effect{EffectDial}},
		{connecting, EventOpened, streaming, []Effect{EffectShowSurface, EffectNotifyConnected}},
		{connecting, EventOpenFailed, disconnected, []Effect{EffectNotifyError}},
		{streaming, EventFrame, streaming, []Effect{EffectRender}},
		{streaming, EventDisconnect, disconnecting, []Effect{EffectHideSurface, EffectCloseConn, EffectSendDisconnect}},
		{streaming, EventDismiss, disconnecting, []Effect{EffectHideSurface, EffectCloseConn, EffectSendDisconnect}},
		{connecting, EventDisconnect, disconnecting, []Effect{EffectCloseConn, EffectSendDisconnect}},
		{connecting, EventDismiss, disconnecting, []Effect{EffectCloseConn, EffectSendDisconnect}},
		{disconnecting, EventAcked, disconnected, []Effect{EffectNotifyDisconnected}},
		{streaming, EventPeerClosed, disconnected, []Effect{EffectHideSurface, EffectCloseConn, EffectNotifyPeerClosed}},
		{connecting, EventPeerClosed, disconnected, []Effect{EffectCloseConn, EffectNotifyPeerClosed}},

		// dropped without error
		{disconnecting, EventPeerClosed, disconnecting, nil},
		{disconnected, EventPeerClosed, disconnected, nil},
		{disconnecting, EventFrame, disconnecting, nil},
		{disconnected, EventFrame, disconnected, nil},
		{connecting, EventFrame, connecting, nil},
		{disconnected, EventDismiss, disconnected, nil},
		{disconnecting, EventDismiss, disconnecting, nil},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.event.String(), func(t *testing.T) {
			to, eff, err := Next(tt.from, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.to, to)
			assert.Equal(t, tt.effects, eff)
		})
	}
}

func TestNext_InvalidTransitions(t *testing.T) {
	tests := []struct {
		from  models.ConnectionState
		event Event
	}{
		{connecting, EventConnect},
		{streaming, EventConnect},
		{disconnecting, EventConnect},
		{disconnected, EventDisconnect},
		{disconnecting, EventDisconnect},
		{streaming, EventAcked},
		{disconnected, EventOpened},
		{streaming, EventConfirmed},
	}
	for _, tt := range tests {
		to, eff, err := Next(tt.from, tt.event)
		require.ErrorIs(t, err, common.ErrInvalidTransition, "%s on %s", tt.from, tt.event)
		assert.Equal(t, tt.from, to)
		assert.Nil(t, eff)
	}
}

func TestNext_SurfaceVisibleOnlyWhileStreaming(t *testing.T) {
	// Walk a full session and check visibility is derived from state alone.
	s := disconnected
	visible := false
	for _, e := range []Event{EventConnect, EventConfirmed, EventOpened, EventFrame, EventFrame, EventDisconnect, EventAcked} {
		var eff []Effect
		var err error
		s, eff, err = Next(s, e)
		require.NoError(t, err)
		for _, x := range eff {
			switch x {
			case EffectShowSurface:
				visible = true
			case EffectHideSurface:
				visible = false
			}
		}
		assert.Equal(t, s.SurfaceVisible(), visible, "after %s", e)
	}
	assert.Equal(t, disconnected, s)
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "peer-closed", EventPeerClosed.String())
	assert.Equal(t, "event(99)", Event(99).String())
}
