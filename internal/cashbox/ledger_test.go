package cashbox

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pminsight/client/internal/models"
)

func openBox(initial string) *Ledger {
	return New(models.CashBox{
		ID:             1,
		Date:           "2026-08-30",
		OpeningBalance: decimal.RequireFromString(initial),
	}, models.PrincipalRef{ID: 5, DisplayName: "Ana Torres"})
}

func TestSaldoInvariant(t *testing.T) {
	ledger := openBox("500.00")

	_, err := ledger.RecordMovement(models.MovementIngreso, "reposición", decimal.RequireFromString("120.50"), "")
	require.NoError(t, err)
	_, err = ledger.RecordMovement(models.MovementEgreso, "útiles de oficina", decimal.RequireFromString("45.00"), "F001-123")
	require.NoError(t, err)
	_, err = ledger.RecordMovement(models.MovementEgreso, "movilidad", decimal.RequireFromString("30.25"), "")
	require.NoError(t, err)

	assert.True(t, ledger.Ingresos().Equal(decimal.RequireFromString("120.50")))
	assert.True(t, ledger.Egresos().Equal(decimal.RequireFromString("75.25")))

	expected := decimal.RequireFromString("500.00").
		Add(ledger.Ingresos()).
		Sub(ledger.Egresos())
	assert.True(t, ledger.Saldo().Equal(expected))
	assert.Equal(t, "545.25", ledger.Saldo().StringFixed(2))
}

func TestRecordMovementValidation(t *testing.T) {
	ledger := openBox("100.00")

	t.Run("zero amount", func(t *testing.T) {
		_, err := ledger.RecordMovement(models.MovementIngreso, "algo", decimal.Zero, "")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "monto", verr.Field)
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := ledger.RecordMovement(models.MovementEgreso, "algo", decimal.RequireFromString("-5"), "")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("empty concept", func(t *testing.T) {
		_, err := ledger.RecordMovement(models.MovementIngreso, "", decimal.RequireFromString("10"), "")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "concepto", verr.Field)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ledger.RecordMovement("Ajuste", "algo", decimal.RequireFromString("10"), "")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	// Nothing was appended by the rejected movements.
	assert.Empty(t, ledger.Box().Movements)
	assert.Equal(t, "100.00", ledger.Saldo().StringFixed(2))
}

func TestClosedBoxRejectsMovements(t *testing.T) {
	ledger := openBox("200.00")
	_, err := ledger.RecordMovement(models.MovementIngreso, "reposición", decimal.RequireFromString("50"), "")
	require.NoError(t, err)

	closed, err := ledger.Close()
	require.NoError(t, err)
	assert.True(t, closed.Closed)

	before := ledger.Saldo()
	_, err = ledger.RecordMovement(models.MovementEgreso, "tardío", decimal.RequireFromString("10"), "")
	assert.True(t, errors.Is(err, ErrClosedBox))
	assert.True(t, ledger.Saldo().Equal(before), "totals must be unchanged after a rejected movement")
}

func TestCloseTwiceFails(t *testing.T) {
	ledger := openBox("0")
	_, err := ledger.Close()
	require.NoError(t, err)
	_, err = ledger.Close()
	assert.True(t, errors.Is(err, ErrClosedBox))
}

func TestBoxSnapshotIsACopy(t *testing.T) {
	ledger := openBox("10.00")
	_, err := ledger.RecordMovement(models.MovementIngreso, "a", decimal.RequireFromString("1"), "")
	require.NoError(t, err)

	snap := ledger.Box()
	snap.Movements[0].Concept = "mutated"
	assert.Equal(t, "a", ledger.Box().Movements[0].Concept)
}

func TestMovementCarriesActor(t *testing.T) {
	ledger := openBox("10.00")
	m, err := ledger.RecordMovement(models.MovementEgreso, "taxi", decimal.RequireFromString("8.00"), "")
	require.NoError(t, err)
	assert.Equal(t, 5, m.Actor.ID)
	assert.Equal(t, "Ana Torres", m.Actor.DisplayName)
	assert.False(t, m.CreatedAt.IsZero())
}
