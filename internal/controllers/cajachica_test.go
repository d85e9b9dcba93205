package controllers

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pminsight/client/internal/cashbox"
	"github.com/pminsight/client/internal/eventbus"
	"github.com/pminsight/client/internal/models"
)

func openCashBox() *models.CashBox {
	return &models.CashBox{
		ID:             1,
		Date:           "2026-08-30",
		OpeningBalance: decimal.RequireFromString("500.00"),
	}
}

func TestAddMovementPublishesAndUpdatesTotals(t *testing.T) {
	bus := eventbus.New()
	sess := newSession(t, models.Principal{ID: 3, Role: models.RoleColaborador, DisplayName: "Ana Torres"})
	repo := new(MockCashBoxRepo)

	c := NewCajaChica(repo, bus, sess)
	defer c.Close()

	repo.On("GetCashBox", mock.Anything, "").Return(openCashBox(), nil).Once()
	require.NoError(t, c.Load(context.Background(), ""))

	monto := decimal.RequireFromString("45.00")
	repo.On("AddCashBoxMovement", mock.Anything, 1, models.MovementEgreso, "útiles", monto, "", nil).
		Return(&models.Movement{
			ID:      1,
			Type:    models.MovementEgreso,
			Concept: "útiles",
			Amount:  monto,
		}, nil).Once()

	events := countEvents(bus, eventbus.TopicCashBoxMovement)
	require.NoError(t, c.AddMovement(context.Background(), models.MovementEgreso, "útiles", monto, "", nil))

	require.Len(t, *events, 1)
	_, egresos, saldo, ok := c.Totals()
	require.True(t, ok)
	assert.Equal(t, "45.00", egresos.StringFixed(2))
	assert.Equal(t, "455.00", saldo.StringFixed(2))
	repo.AssertExpectations(t)
}

func TestAddMovementRejectsInvalidInputLocally(t *testing.T) {
	bus := eventbus.New()
	sess := newSession(t, models.Principal{ID: 3})
	repo := new(MockCashBoxRepo)

	c := NewCajaChica(repo, bus, sess)
	defer c.Close()

	repo.On("GetCashBox", mock.Anything, "").Return(openCashBox(), nil).Once()
	require.NoError(t, c.Load(context.Background(), ""))

	events := countEvents(bus, eventbus.TopicCashBoxMovement)

	err := c.AddMovement(context.Background(), models.MovementIngreso, "", decimal.RequireFromString("10"), "", nil)
	var verr *cashbox.ValidationError
	require.ErrorAs(t, err, &verr)

	err = c.AddMovement(context.Background(), models.MovementIngreso, "algo", decimal.Zero, "", nil)
	require.ErrorAs(t, err, &verr)

	assert.Empty(t, *events)
	repo.AssertNotCalled(t, "AddCashBoxMovement",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddMovementOnClosedBox(t *testing.T) {
	bus := eventbus.New()
	sess := newSession(t, models.Principal{ID: 3})
	repo := new(MockCashBoxRepo)

	c := NewCajaChica(repo, bus, sess)
	defer c.Close()

	box := openCashBox()
	box.Closed = true
	repo.On("GetCashBox", mock.Anything, "").Return(box, nil).Once()
	require.NoError(t, c.Load(context.Background(), ""))

	err := c.AddMovement(context.Background(), models.MovementIngreso, "tardío", decimal.RequireFromString("10"), "", nil)
	assert.ErrorIs(t, err, cashbox.ErrClosedBox)
	repo.AssertNotCalled(t, "AddCashBoxMovement",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCloseBoxFreezesLedger(t *testing.T) {
	bus := eventbus.New()
	sess := newSession(t, models.Principal{ID: 3})
	repo := new(MockCashBoxRepo)

	c := NewCajaChica(repo, bus, sess)
	defer c.Close()

	repo.On("GetCashBox", mock.Anything, "").Return(openCashBox(), nil).Once()
	require.NoError(t, c.Load(context.Background(), ""))

	closed := *openCashBox()
	closed.Closed = true
	repo.On("CloseCashBox", mock.Anything, 1).Return(&closed, nil).Once()

	events := countEvents(bus, eventbus.TopicCashBoxClosed)
	require.NoError(t, c.CloseBox(context.Background()))
	require.Len(t, *events, 1)

	box, ok := c.Box()
	require.True(t, ok)
	assert.True(t, box.Closed)

	// Second close never reaches the server.
	err := c.CloseBox(context.Background())
	assert.ErrorIs(t, err, cashbox.ErrClosedBox)
	repo.AssertNumberOfCalls(t, "CloseCashBox", 1)
}
