package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Roulette/internal/domain"
)

func TestEncodeEvent_WireShape(t *testing.T) {
	tests := []struct {
		ev   domain.Event
		want string
	}{
		{domain.Partner{PartnerID: "b", IsCaller: true}, `{"type":"partner","payload":{"partnerId":"b","isCaller":true}}`},
		{domain.PartnerDisconnected{DisconnectedPartnerID: "a"}, `{"type":"partner_disconnected","payload":{"disconnectedPartnerId":"a"}}`},
		{domain.OnlineUsersCount{Count: 3}, `{"type":"online_users_count","payload":{"count":3}}`},
		{domain.Signal{From: "a", Signal: json.RawMessage(`{"type":"answer"}`)}, `{"type":"signal","payload":{"from":"a","signal":{"type":"answer"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.ev.Name(), func(t *testing.T) {
			got, err := EncodeEvent(tt.ev)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestEncode_NilPayloadOmitted(t *testing.T) {
	got, err := Encode("pong", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"pong"}`, string(got))
}

func TestEncode_SignalKeepsArbitraryJSON(t *testing.T) {
	raw := json.RawMessage(`{"candidate":{"sdpMid":"0","sdpMLineIndex":0},"list":[true,null,"x"]}`)
	frame, err := EncodeEvent(domain.Signal{From: "a", Signal: raw})
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(frame, &env))
	var sig domain.Signal
	require.NoError(t, json.Unmarshal(env.Payload, &sig))
	assert.JSONEq(t, string(raw), string(sig.Signal))
}
