package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseICEServersJSON(t *testing.T) {
	servers, err := ParseICEServersJSON(`[
		{"urls": "stun:stun.example.com:3478"},
		{"urls": ["turn:turn.example.com:3478", " turns:turn.example.com:5349 "], "username": "u", "credential": "p"}
	]`)
	require.NoError(t, err)
	require.Len(t, servers, 2)

	assert.Equal(t, []string{"stun:stun.example.com:3478"}, servers[0].URLs)
	assert.Equal(t, []string{"turn:turn.example.com:3478", "turns:turn.example.com:5349"}, servers[1].URLs)
	assert.Equal(t, "p", servers[1].Credential)
}

func TestParseICEServersJSON_Rejects(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":       `{`,
		"no urls":        `[{"urls": []}]`,
		"bad scheme":     `[{"urls": "http://example.com"}]`,
		"turn no user":   `[{"urls": "turn:t.example.com", "credential": "p"}]`,
		"turn no secret": `[{"urls": "turn:t.example.com", "username": "u"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseICEServersJSON(raw)
			assert.Error(t, err)
		})
	}
}

func TestWebRTCICEServers(t *testing.T) {
	cfg := Config{ICEServers: []ICEServer{
		{URLs: []string{"stun:stun.example.com"}},
		{URLs: []string{"turn:turn.example.com"}, Username: "u", Credential: "p"},
	}}

	out := cfg.WebRTCICEServers()
	require.Len(t, out, 2)
	assert.Equal(t, []string{"stun:stun.example.com"}, out[0].URLs)
	assert.Nil(t, out[0].Credential)
	assert.Equal(t, "u", out[1].Username)
	assert.Equal(t, "p", out[1].Credential)
}
