package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiquidationTotals(t *testing.T) {
	liq := Liquidation{
		Documents: []Document{
			{Total: decimal.RequireFromString("45.00")},
			{Total: decimal.RequireFromString("120.50")},
		},
	}

	assert.Equal(t, "165.50", liq.TotalSoles().StringFixed(2))

	rate := decimal.RequireFromString("3.75")
	assert.Equal(t, "44.13", liq.TotalDolares(rate).StringFixed(2))
}

func TestLiquidationTotalsEmpty(t *testing.T) {
	var liq Liquidation
	assert.True(t, liq.TotalSoles().IsZero())
	assert.True(t, liq.TotalDolares(decimal.RequireFromString("3.75")).IsZero())
}

func TestMontoDolaresUsesCapturedRate(t *testing.T) {
	// The rate captured at creation is authoritative, whatever the
	// current configured rate is.
	req := Request{
		MontoSoles: decimal.RequireFromString("1000.00"),
		TipoCambio: decimal.RequireFromString("3.50"),
	}
	assert.Equal(t, "285.71", req.MontoDolares().StringFixed(2))
}

func TestMontoDolaresZeroRate(t *testing.T) {
	req := Request{MontoSoles: decimal.RequireFromString("100")}
	assert.True(t, req.MontoDolares().IsZero())
}

func TestStateTerminal(t *testing.T) {
	assert.True(t, StateLiquidationApproved.Terminal())
	assert.True(t, StateRejected.Terminal())
	assert.False(t, StatePendingSubmission.Terminal())
	assert.False(t, StateLiquidationSubmitted.Terminal())
}

func TestRequestJSONRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	req := Request{
		ID:           42,
		Sequence:     "1001",
		Requester:    PrincipalRef{ID: 3, DisplayName: "Ana Torres"},
		Destinatario: PrincipalRef{ID: 9, DisplayName: "Luis Rojas"},
		Category:     CategoryViaticos,
		Concept:      "viaje a obra",
		MontoSoles:   decimal.RequireFromString("850.00"),
		TipoCambio:   decimal.RequireFromString("3.75"),
		State:        StatePendingAttention,
		CreatedAt:    now,
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var got Request
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, req.Sequence, got.Sequence)
	assert.Equal(t, req.State, got.State)
	assert.True(t, got.MontoSoles.Equal(req.MontoSoles))
	assert.Equal(t, req.Destinatario, got.Destinatario)
}
