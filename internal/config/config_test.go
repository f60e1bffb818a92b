package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.True(t, cfg.TasaIVA.Equal(decimal.RequireFromString("0.19")))
	assert.Equal(t, RefundPolicyClamp, cfg.RefundPolicy)
}

func TestLoadTasaIVAInvalida(t *testing.T) {
	t.Setenv("TASA_IVA", "diecinueve")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadTasaIVAFueraDeRango(t *testing.T) {
	t.Setenv("TASA_IVA", "1.5")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRefundPolicy(t *testing.T) {
	t.Setenv("REFUND_POLICY", "strict")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, RefundPolicyStrict, cfg.RefundPolicy)

	t.Setenv("REFUND_POLICY", "lenient")
	_, err = Load()
	assert.Error(t, err)
}
