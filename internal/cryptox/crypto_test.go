package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeev/lockbox/internal/common"
)

func TestDeriveMasterKey(t *testing.T) {
	salt := []byte("0123456789abcdef")

	k1 := DeriveMasterKey([]byte("secret"), salt)
	k2 := DeriveMasterKey([]byte("secret"), salt)
	k3 := DeriveMasterKey([]byte("other"), salt)

	require.Len(t, k1, 32)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestWrapUnwrapKey(t *testing.T) {
	kek := common.GenerateRandByteArray(32)
	vaultKey := common.GenerateRandByteArray(32)

	ciphertext, nonce, err := WrapKey(vaultKey, kek)
	require.NoError(t, err)
	require.Len(t, nonce, 12)
	assert.NotEqual(t, vaultKey, ciphertext)

	got, err := UnwrapKey(ciphertext, nonce, kek)
	require.NoError(t, err)
	assert.Equal(t, vaultKey, got)
}

func TestUnwrapKey_WrongKEK(t *testing.T) {
	kek := common.GenerateRandByteArray(32)
	vaultKey := common.GenerateRandByteArray(32)

	ciphertext, nonce, err := WrapKey(vaultKey, kek)
	require.NoError(t, err)

	_, err = UnwrapKey(ciphertext, nonce, common.GenerateRandByteArray(32))
	require.Error(t, err)
}

func TestUnwrapKey_Tampered(t *testing.T) {
	kek := common.GenerateRandByteArray(32)
	vaultKey := common.GenerateRandByteArray(32)

	ciphertext, nonce, err := WrapKey(vaultKey, kek)
	require.NoError(t, err)

	ciphertext[0] ^= 0xff
	_, err = UnwrapKey(ciphertext, nonce, kek)
	require.Error(t, err)
}

func TestEncryptDecryptEntry(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}

	key := common.GenerateRandByteArray(32)
	in := payload{Title: "t", Body: "b"}

	ciphertext, nonce, err := EncryptEntry(in, key)
	require.NoError(t, err)

	var out payload
	require.NoError(t, DecryptEntry(ciphertext, nonce, key, &out))
	assert.Equal(t, in, out)

	var bad payload
	require.Error(t, DecryptEntry(ciphertext, nonce, common.GenerateRandByteArray(32), &bad))
}
