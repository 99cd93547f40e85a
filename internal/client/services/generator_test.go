package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePassword_LengthAndClasses(t *testing.T) {
	opts := DefaultGeneratorOptions()
	pw, err := GeneratePassword(opts)
	require.NoError(t, err)
	assert.Len(t, pw, 16)

	assert.True(t, strings.ContainsAny(pw, charsLower))
	assert.True(t, strings.ContainsAny(pw, charsUpper))
	assert.True(t, strings.ContainsAny(pw, charsDigits))
	assert.True(t, strings.ContainsAny(pw, charsSymbols))
}

func TestGeneratePassword_SingleClass(t *testing.T) {
	pw, err := GeneratePassword(GeneratorOptions{Length: 8, Digits: true})
	require.NoError(t, err)
	assert.Len(t, pw, 8)
	for _, r := range pw {
		assert.Contains(t, charsDigits, string(r))
	}
}

func TestGeneratePassword_NoClasses(t *testing.T) {
	_, err := GeneratePassword(GeneratorOptions{Length: 8})
	assert.ErrorIs(t, err, ErrNoCharsets)
}

func TestGeneratePassword_TooShort(t *testing.T) {
	_, err := GeneratePassword(GeneratorOptions{Length: 2, Lower: true, Upper: true, Digits: true})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestGeneratePassword_NotRepeatable(t *testing.T) {
	opts := DefaultGeneratorOptions()
	a, err := GeneratePassword(opts)
	require.NoError(t, err)
	b, err := GeneratePassword(opts)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEvaluateStrength(t *testing.T) {
	tests := []struct {
		password string
		want     Strength
	}{
		{"", StrengthVeryWeak},
		{"aaaaaaaaaaaa", StrengthVeryWeak},
		{"abc", StrengthVeryWeak},
		{"abcdef", StrengthVeryWeak},
		{"abcdefgh", StrengthWeak},
		{"Abcdefgh1", StrengthFair},
		{"Abcdefgh123!", StrengthStrong},
		{"Abcdefgh123!xyzQ", StrengthVeryStrong},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateStrength(tt.password))
		})
	}
}
