package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignMatchesRecipe(t *testing.T) {
	// Independent computation of HMAC-SHA256("S", "order_1|pay_1").
	mac := hmac.New(sha256.New, []byte("S"))
	mac.Write([]byte("order_1|pay_1"))
	expected := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, Sign("S", "order_1", "pay_1"))
}

func TestVerifySignatureAccepted(t *testing.T) {
	sig := Sign("S", "order_1", "pay_1")
	assert.True(t, VerifySignature("S", "order_1", "pay_1", sig))
}

func TestVerifySignatureRejectsAnyMutation(t *testing.T) {
	sig := Sign("S", "order_1", "pay_1")
	require.NotEmpty(t, sig)

	for i := range sig {
		mutated := []byte(sig)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}
		assert.False(t, VerifySignature("S", "order_1", "pay_1", string(mutated)),
			"mutation at position %d must be rejected", i)
	}
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	sig := Sign("S", "order_1", "pay_1")
	assert.False(t, VerifySignature("other", "order_1", "pay_1", sig))
}

func TestVerifySignatureRejectsSwappedIDs(t *testing.T) {
	sig := Sign("S", "order_1", "pay_1")
	assert.False(t, VerifySignature("S", "pay_1", "order_1", sig))
}
