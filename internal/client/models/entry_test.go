package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapUnwrap_Login(t *testing.T) {
	in := Login{Username: "alice", Password: "pw", URL: "https://x.com"}

	env, err := Wrap("my site", in)
	require.NoError(t, err)
	assert.Equal(t, EntryKindLogin, env.Kind)
	assert.Equal(t, "my site", env.Title)

	out, err := env.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWrapUnwrap_Card(t *testing.T) {
	in := Card{Number: "4111111111111111", Holder: "ALICE", Expiration: "12/29", CVV: "123"}

	env, err := Wrap("visa", in)
	require.NoError(t, err)

	out, err := env.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLogin_Fields_MaskedByDefault(t *testing.T) {
	l := Login{Username: "alice", Password: "hunter2", URL: "u", TOTPSecret: "JBSWY3DP"}

	masked := l.Fields(true)
	for _, f := range masked {
		if f.Name == "password" || f.Name == "totp secret" {
			assert.Equal(t, "********", f.Value)
		}
	}

	clear := l.Fields(false)
	var pw string
	for _, f := range clear {
		if f.Name == "password" {
			pw = f.Value
		}
	}
	assert.Equal(t, "hunter2", pw)
}

func TestCard_Fields_Masked(t *testing.T) {
	c := Card{Number: "4111 1111 1111 1234", Holder: "ALICE", Expiration: "12/29", CVV: "123"}

	fields := c.Fields(true)
	assert.Equal(t, "**** **** **** 1234", fields[0].Value)
	assert.Equal(t, "********", fields[3].Value)
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "**** **** **** 1111", MaskCardNumber("4111111111111111"))
	assert.Equal(t, "**** **** **** 1234", MaskCardNumber("4111-1111-1111-1234"))
	assert.Equal(t, "********", MaskCardNumber("123"))
}

func TestMaskTail(t *testing.T) {
	assert.Equal(t, "*******89", MaskTail("AB1234589", 2))
	assert.Equal(t, "********", MaskTail("12", 2))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "********", MaskSecret("x"))
	assert.Equal(t, "********", MaskSecret("a very long secret"))
	assert.Equal(t, "", MaskSecret(""))
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, 5, s.InactivityTimeoutMinutes)
	assert.Equal(t, 1, s.ClipboardClearMinutes)
}
