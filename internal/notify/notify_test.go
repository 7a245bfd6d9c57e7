package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openmallhq/openmall/pkg/common"
)

func TestWebhookSignature(t *testing.T) {
	sig := webhookSignature("OM20260901000000123456", 1756684800)

	assert.Len(t, sig, 64)
	assert.Equal(t,
		common.Sha256HashWithSalt("OM202609010000001234561756684800", common.GetSecretSalt()),
		sig)

	// any change to order number or timestamp changes the signature
	assert.NotEqual(t, sig, webhookSignature("OM20260901000000123456", 1756684801))
	assert.NotEqual(t, sig, webhookSignature("OM20260901000000123457", 1756684800))
}
