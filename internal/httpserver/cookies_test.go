package httpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRefresh(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		session string
		secret  string
		ok      bool
	}{
		{name: "well formed", value: "sid:secret", session: "sid", secret: "secret", ok: true},
		{name: "splits on first delimiter", value: "sid:se:cret", session: "sid", secret: "se:cret", ok: true},
		{name: "no delimiter", value: "sidsecret"},
		{name: "empty session", value: ":secret"},
		{name: "empty secret", value: "sid:"},
		{name: "empty", value: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			session, secret, ok := ParseRefresh(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.session, session)
			assert.Equal(t, tt.secret, secret)
		})
	}

	assert.Equal(t, "a:b", EncodeRefresh("a", "b"))
}
