package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/config"
)

func TestToCents(t *testing.T) {
	assert.EqualValues(t, 1999, ToCents(19.99))
	assert.EqualValues(t, 30, ToCents(0.1+0.2))
	assert.EqualValues(t, 0, ToCents(0))
}

func TestNewBraintreeEnvironment(t *testing.T) {
	creds := config.Braintree{MerchantID: "m", PublicKey: "pub", PrivateKey: "priv"}

	for _, env := range []string{"", "sandbox", "Production"} {
		creds.Environment = env
		gw, err := NewBraintree(creds)
		require.NoError(t, err, env)
		assert.NotNil(t, gw)
	}

	creds.Environment = "mars"
	_, err := NewBraintree(creds)
	assert.Error(t, err)
}

func TestUnconfigured(t *testing.T) {
	var gw Gateway = Unconfigured{}
	_, err := gw.ClientToken(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = gw.Sale(context.Background(), "nonce", 10)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
